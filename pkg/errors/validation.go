package errors

import (
	"strings"
	"unicode"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

// ValidateField checks that s can be used as an identifier type or name and
// still survive a canonical round trip. It rejects the "::" and "$"
// separators and control characters. Empty fields are allowed.
func ValidateField(s string) error {
	if strings.Contains(s, ident.Separator) {
		return New(ErrCodeInvalidIdentifier, "field %q contains the %q separator", s, ident.Separator)
	}
	return ValidateName(s)
}

// ValidateName is [ValidateField] for identifier names. A name may contain
// "::" because identifiers split at the first one, which always ends the
// type; "$" and control characters would change how a pair line splits.
func ValidateName(s string) error {
	if strings.Contains(s, ident.PairSeparator) {
		return New(ErrCodeInvalidIdentifier, "field %q contains the %q separator", s, ident.PairSeparator)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "field %q contains invalid control characters", s)
		}
	}
	return nil
}

// ValidatePath validates an input file path for safety.
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
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}
