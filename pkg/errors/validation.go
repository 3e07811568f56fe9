package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a user-supplied identifier (palette name, painting
// title) for safety and correctness. It rejects names that could be used for
// path traversal or injection when the name ends up in file paths or URLs.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, backslash)
//   - No null bytes
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// hexColorRegex matches #RGB, #RRGGBB, and #RRGGBBAA hex color strings.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a hex color string (#RGB, #RRGGBB or #RRGGBBAA).
func ValidateHexColor(s string) error {
	if s == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}

	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", s)
	}

	return nil
}

// paletteNameRegex matches valid palette identifiers.
var paletteNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidatePaletteName validates a palette identifier.
// Palette names appear in config keys, CLI flags, and API paths, so they are
// restricted to lowercase letters, digits, hyphens, and underscores.
func ValidatePaletteName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if !paletteNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPalette, "invalid palette name: %q", name)
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
