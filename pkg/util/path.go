package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePathAllowAbsolute cleans p and rejects relative paths that still
// escape upward after cleaning. Backslashes count as separators so
// Windows-style traversal is rejected on every platform.
func SafeFilePathAllowAbsolute(p string) (string, bool) {
	return cleanPath(p)
}

// ResolveUnder resolves a relative path against baseDir. Absolute paths are
// returned cleaned; traversal is rejected either way.
func ResolveUnder(baseDir, p string) (string, bool) {
	cleaned, ok := cleanPath(p)
	if !ok {
		return "", false
	}
	if filepath.IsAbs(cleaned) || baseDir == "" {
		return cleaned, true
	}
	return filepath.Join(baseDir, cleaned), true
}

func cleanPath(p string) (string, bool) {
	if p == "" {
		return "", false
	}
	if strings.Contains(p, `\`) {
		for _, part := range strings.FieldsFunc(p, func(r rune) bool { return r == '\\' || r == '/' }) {
			if part == ".." {
				return "", false
			}
		}
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
