package filemgr

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SaveFile writes reader into destDir after checking the extension of
// originalName and the sniffed MIME type against the picType allow-lists.
// It returns the full path and the detected MIME type. Nothing is left on
// disk when it fails.
func SaveFile(reader io.Reader, originalName string, picType PictureType, destDir string, maxSize int64, customNameFn func(original string) string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !isExtensionAllowed(ext, picType) {
		return "", "", fmt.Errorf("%w: %q for %s", ErrInvalidExtension, ext, picType)
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(reader, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", "", fmt.Errorf("read header: %w", err)
	}
	mimeType := http.DetectContentType(buf[:n])
	if !isMIMEAllowed(mimeType, picType) {
		return "", "", fmt.Errorf("%w: %s for %s", ErrInvalidMIME, mimeType, picType)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	fullPath := filepath.Join(destDir, getSafeFilename(originalName, ext, customNameFn))
	out, err := os.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", fullPath, err)
	}

	written, err := writeLimited(out, buf[:n], reader, maxSize)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fullPath)
		return "", "", err
	}

	if LogFunc != nil {
		LogFunc(fullPath, written, mimeType)
	}
	return fullPath, mimeType, nil
}

func writeLimited(out io.Writer, head []byte, rest io.Reader, maxSize int64) (int64, error) {
	if maxSize > 0 && int64(len(head)) > maxSize {
		return 0, ErrFileTooLarge
	}
	if _, err := out.Write(head); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	src := rest
	if maxSize > 0 {
		src = io.LimitReader(rest, maxSize-int64(len(head))+1)
	}
	copied, err := io.Copy(out, src)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	total := copied + int64(len(head))
	if maxSize > 0 && total > maxSize {
		return 0, ErrFileTooLarge
	}
	return total, nil
}
