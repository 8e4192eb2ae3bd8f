// Package validation provides centralized input validation logic.
// This includes storage key validation and concurrency budget checks.
//
// Inputs are validated before any work is scheduled so that a bad key or a
// bad budget fails the whole call up front instead of mid-batch.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cloudbulk/bulk/errors"
)

// MaxKeyLength is the longest storage key the bundled backends accept.
// S3, Azure Blob, and GCS all allow 1024-byte keys.
const MaxKeyLength = 1024

// ValidateStorageKey validates that a remote object key is syntactically
// acceptable: non-empty, within length limits, free of control characters,
// and free of path traversal sequences.
func ValidateStorageKey(key string) error {
	if key == "" {
		return errors.NewError("validateStorageKey", errors.ErrInvalidInput).
			WithMessage("storage key cannot be empty")
	}

	if len(key) > MaxKeyLength {
		return errors.NewError("validateStorageKey", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("storage key cannot exceed 1024 characters")
	}

	if hasPathTraversal(key) {
		return errors.NewError("validateStorageKey", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("storage key cannot contain path traversal sequences")
	}

	if hasControlCharacters(key) {
		return errors.NewError("validateStorageKey", errors.ErrInvalidInput).
			WithKey(key).
			WithMessage("storage key cannot contain control characters")
	}

	return nil
}

// ValidateConcurrency validates the concurrency budget for a bulk call.
// A budget of zero or less fails fast before any unit is scheduled.
func ValidateConcurrency(n int) error {
	if n <= 0 {
		return errors.NewError("validateConcurrency", errors.ErrInvalidConcurrency).
			WithMessage(fmt.Sprintf("got %d", n))
	}
	return nil
}

// hasPathTraversal checks for traversal and absolute-path patterns in a key.
func hasPathTraversal(key string) bool {
	if strings.Contains(key, "..") {
		return true
	}
	if strings.HasPrefix(key, "/") {
		return true
	}
	// Windows-style absolute paths
	if len(key) >= 3 && key[1] == ':' && (key[2] == '\\' || key[2] == '/') {
		return true
	}
	return false
}

// hasControlCharacters checks for control characters in the key.
func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
