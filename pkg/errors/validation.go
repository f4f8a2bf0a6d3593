package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from untrusted input.
const MaxNodeIDLength = 1024

// ValidateNodeID validates a node identifier read from a tree document.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of MaxNodeIDLength bytes
//   - No control characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateSeparator validates a path separator for path-tree construction.
func ValidateSeparator(sep string) error {
	if sep == "" {
		return New(ErrCodeInvalidInput, "path separator cannot be empty")
	}
	if strings.IndexFunc(sep, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidInput, "path separator contains control characters")
	}
	return nil
}

// ValidateTreeSize rejects inputs with more than max nodes. A max of zero
// disables the check.
func ValidateTreeSize(name string, nodes, max int) error {
	if max > 0 && nodes > max {
		return New(ErrCodeInvalidInput, "%s has %d nodes (max %d)", name, nodes, max)
	}
	return nil
}
