package filemgr

import (
	"fmt"
	_ "image/gif"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// NormalizeImage re-encodes the image at src, applying EXIF orientation and
// shrinking it to fit within maxDim on both sides. Formats imaging cannot
// encode are written as JPEG next to src. It returns the resulting path.
func NormalizeImage(src string, maxDim int) (string, error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	dst := src
	ext := strings.ToLower(filepath.Ext(src))
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		dst = strings.TrimSuffix(src, filepath.Ext(src)) + ".jpg"
	}

	if err := imaging.Save(img, dst, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("encode %s: %w", filepath.Base(dst), err)
	}
	if dst != src {
		os.Remove(src)
	}
	return dst, nil
}
