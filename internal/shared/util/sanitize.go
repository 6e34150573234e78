package util

import (
	"errors"
	"path"
	"strings"
)

var errInvalidKey = errors.New("invalid storage key")

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\"", "")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// CleanStorageKey normalizes a slash-separated object key and rejects keys
// that are empty, absolute or escape their root.
func CleanStorageKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	if key == "" || strings.HasPrefix(key, "/") {
		return "", errInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errInvalidKey
	}
	return clean, nil
}
