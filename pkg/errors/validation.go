package errors

import (
	"regexp"
	"unicode"
)

// figureNameRegex matches figure kind identifiers such as "knee-torque".
var figureNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateFigureName validates a figure identifier taken from user input
// (a CLI flag or a URL path segment). It does not check that the figure
// exists; callers look it up afterwards.
func ValidateFigureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFigure, "figure name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidFigure, "figure name too long (max 64 characters)")
	}
	if !figureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFigure, "invalid figure name: %q", name)
	}
	return nil
}

// ValidateFormat checks an output format against the supported set.
func ValidateFormat(format string, supported map[string]bool) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !supported[format] {
		return New(ErrCodeInvalidFormat, "unsupported format: %q", format)
	}
	return nil
}

// ValidatePath validates a local input or output path given on the
// command line or in a style file. Relative paths may leave the working
// directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
