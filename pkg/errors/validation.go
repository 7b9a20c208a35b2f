package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNetworkName validates a network display name for safety.
//
// The validation rules are conservative:
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Empty names are allowed; a network does not require a display name.
func ValidateNetworkName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidNetwork, "network name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidNetwork, "network name contains invalid control characters")
		}
	}
	return nil
}

// nodeNameRegex matches node names usable in manifests, DOT output, and
// API paths without quoting surprises.
var nodeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateNodeName validates a node name for use across all surfaces.
// Node names must be non-empty, at most 128 characters, start with an
// alphanumeric, and contain only alphanumerics, dots, underscores, and
// hyphens.
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "node name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "node name too long (max 128 characters)")
	}
	if !nodeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid node name: %q", name)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
