package persist

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrInvalidFilename is returned when nothing usable is left of the
	// requested file name after sanitization.
	ErrInvalidFilename = errors.New("filename is empty after sanitization")

	// ErrPathEscape is returned when a resolved export path lies outside
	// the export directory.
	ErrPathEscape = errors.New("export path escapes the export directory")
)

// SanitizeFilename reduces name to a safe base name. It returns
// ErrInvalidFilename when the sanitized stem is empty.
//
// A leading dot starts the extension, so ".json" has an empty stem and is
// rejected rather than treated as a stem named "json".
func SanitizeFilename(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := keepSafe(strings.TrimSuffix(name, ext))
	if stem == "" {
		return "", ErrInvalidFilename
	}

	if ext = keepSafe(strings.TrimPrefix(ext, ".")); ext != "" {
		return stem + "." + ext, nil
	}
	return stem, nil
}

// keepSafe drops every character outside [A-Za-z0-9_-].
func keepSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, s)
}

// within reports whether path lies inside dir. Both must be absolute.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
