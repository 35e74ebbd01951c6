package filemgr

import "errors"

type EntityType string
type PictureType string

const (
	EntityPlace EntityType = "place"

	PicPhoto PictureType = "photo"
)

// UploadsRoot is the directory served under /uploads/.
const UploadsRoot = "static/uploads"

var (
	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	}

	PictureSubfolders = map[PictureType]string{
		PicPhoto: "photo",
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")

	LogFunc func(path string, size int64, mimeType string)
)
