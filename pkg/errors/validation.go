package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateNonNegative rejects negative option values such as sample sizes
// and depth limits. Zero is allowed; callers treat it as "use the default".
func ValidateNonNegative(field string, v int) error {
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative (got %d)", field, v)
	}
	return nil
}

// ValidateOneOf checks that v (case-insensitive, trimmed) is one of allowed.
// An empty value is accepted so that defaults can apply.
func ValidateOneOf(field, v string, allowed ...string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || slices.Contains(allowed, v) {
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid %s %q (want one of: %s)", field, v, strings.Join(allowed, ", "))
}

// ValidatePath validates a user-supplied input path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}
