// Package errors provides structured error types for nodegroup's outer layers.
//
// The core packages ([ident] and [group]) report failures with plain sentinel
// errors. This package turns them into coded errors that the CLI and HTTP
// adapter can present consistently:
//   - Machine-readable error codes for programmatic handling
//   - User-facing messages that name the missing separator
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	id, err := ident.Parse(text)
//	if err != nil {
//	    return errors.FromParse(err) // INVALID_IDENTIFIER
//	}
//
//	if errors.Is(err, errors.ErrCodeInvalidPair) {
//	    // Handle malformed pair text
//	}
//
// [ident]: github.com/matzehuels/nodegroup/pkg/ident
// [group]: github.com/matzehuels/nodegroup/pkg/group
package errors

import (
	"errors"
	"fmt"

	"github.com/matzehuels/nodegroup/pkg/ident"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"
	ErrCodeInvalidPair       Code = "INVALID_PAIR"
	ErrCodeInvalidEndpoint   Code = "INVALID_ENDPOINT"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"
	ErrCodeInvalidPath       Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromParse classifies an error returned by the ident package.
//
// Malformed pair text maps to ErrCodeInvalidPair (even when the cause is a
// malformed half), malformed identifier text to ErrCodeInvalidIdentifier, and
// endpoint lookups to ErrCodeInvalidEndpoint. Errors that already carry a
// code are returned unchanged; anything else becomes ErrCodeInvalidInput.
// FromParse returns nil for a nil error.
func FromParse(err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, ident.ErrMalformedPair):
		msg := fmt.Sprintf("malformed pair: expected \"type::name%stype::name\"", ident.PairSeparator)
		if errors.Is(err, ident.ErrMalformedIdentifier) {
			msg = fmt.Sprintf("malformed pair: each side must contain the %q separator", ident.Separator)
		}
		return Wrap(ErrCodeInvalidPair, err, "%s", msg)
	case errors.Is(err, ident.ErrMalformedIdentifier):
		return Wrap(ErrCodeInvalidIdentifier, err, "malformed identifier: expected %q separator", ident.Separator)
	case errors.Is(err, ident.ErrInvalidEndpoint):
		return Wrap(ErrCodeInvalidEndpoint, err, "identifier is not an endpoint of the pair")
	}
	return Wrap(ErrCodeInvalidInput, err, "invalid input")
}
