package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^\w.\-]`)

// SanitizeFilename keeps the base name and replaces anything unusual with '_'.
func SanitizeFilename(name string) string {
	clean := unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" || clean == "." || clean == ".." {
		return "file"
	}
	return clean
}

// TrimList trims and drops empties, keeping order and duplicates.
func TrimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// CleanTags trims, drops empties and de-duplicates while keeping order.
func CleanTags(in []string) []string {
	tags := make([]string, 0, len(in))
	seen := make(map[string]bool)
	for _, p := range in {
		tag := strings.TrimSpace(p)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
