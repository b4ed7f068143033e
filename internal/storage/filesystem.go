package storage

import (
	"os"
	"regexp"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// SanitizeTarget replaces characters unsafe for filesystem paths.
// Every non-alphanumeric run collapses to a single underscore, so
// "example.com" becomes "example_com".
func SanitizeTarget(target string) string {
	return unsafeChars.ReplaceAllString(target, "_")
}

// EnsureDir creates a directory and all parent directories if they don't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
