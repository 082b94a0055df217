package errors

import (
	"strings"
	"unicode"
)

// ValidateItemID validates a margin item identifier for safety and correctness.
// Item IDs end up as DOM ids, cache keys, and URL path segments, so the
// rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidItem, "item id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidItem, "item id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidItem, "item id contains whitespace or control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidItem, "item id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateDocumentPath validates a document file path for safety.
// It prevents path traversal outside the working tree and ensures a
// reasonable path length.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidDocument, "document path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidDocument, "document path too long (max 500 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDocument, "document path contains invalid control characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidDocument, "document path contains null byte")
	}

	return nil
}
