package errors

import (
	"strings"
	"unicode"
)

// ValidateModuleID validates a module ID for safety and correctness.
// It rejects IDs that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No null bytes
//   - No backslashes (Windows path)
//   - No whitespace
//   - Maximum length of 256 characters
//
// Structural rules (plugin prefixes, relative segments) are handled by the
// resolver, not here.
func ValidateModuleID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModuleID, "module id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidModuleID, "module id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidModuleID, "module id contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidModuleID, "module id cannot contain whitespace")
		}
	}

	dangerousPatterns := []string{
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidModuleID, "module id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateConfigPath validates a path value from loader configuration
// (baseUrl or a paths mapping target).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No backslashes (Windows-style paths)
//
// Relative segments (..) are allowed because loader configurations commonly
// point outside the configured base directory.
func ValidateConfigPath(path string) error {
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

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateOutputPath validates a destination path for exported artifacts.
// Absolute paths are allowed; the path must still be free of control
// characters and null bytes.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	return nil
}
