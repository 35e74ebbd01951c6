package filemgr

import (
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)

func ensureSafeFilename(name, ext string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeName.ReplaceAllString(name, "")
	if name == "" {
		name = uuid.New().String()
	}
	return name + ext
}

func isExtensionAllowed(ext string, picType PictureType) bool {
	return slices.Contains(AllowedExtensions[picType], ext)
}

func isMIMEAllowed(mimeType string, picType PictureType) bool {
	return slices.Contains(AllowedMIMEs[picType], mimeType)
}

// RelativeDir is the slash-separated folder for entity pictures below UploadsRoot.
func RelativeDir(entity EntityType, picType PictureType) string {
	subfolder := PictureSubfolders[picType]
	if subfolder == "" {
		subfolder = "misc"
	}
	return path.Join(strings.ToLower(string(entity)), subfolder)
}

// ResolvePath is the on-disk folder for entity pictures below root, or below
// UploadsRoot when root is empty.
func ResolvePath(root string, entity EntityType, picType PictureType) string {
	if root == "" {
		root = UploadsRoot
	}
	return filepath.Join(root, filepath.FromSlash(RelativeDir(entity, picType)))
}

func getSafeFilename(original, ext string, fn func(string) string) string {
	name := ""
	if fn != nil {
		name = strings.TrimSpace(fn(original))
	}
	if name == "" {
		return uuid.New().String() + ext
	}
	return ensureSafeFilename(name, ext)
}
