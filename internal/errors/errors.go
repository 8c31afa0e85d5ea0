// Package errors provides coded domain errors for the database builder.
//
// Usage:
//
//	// In the importer - return typed errors
//	if _, err := writers.Resolve(name); err != nil {
//	    return err // already an *errors.Error with CodeUnresolvedReference
//	}
//
//	// In commands - check with errors.Is
//	if errors.Is(err, errors.ErrUnresolvedReference) {
//	    ...
//	}
//
//	// Or use the Code to pick an exit status
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    os.Exit(domainErr.Code.ExitCode())
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the builder.
const (
	CodeNotFound              Code = "NOT_FOUND"
	CodeValidation            Code = "VALIDATION"
	CodeInternal              Code = "INTERNAL"
	CodeUnresolvedReference   Code = "UNRESOLVED_REFERENCE"
	CodeMissingFallbackSource Code = "MISSING_FALLBACK_SOURCE"
	CodeDuplicateID           Code = "DUPLICATE_ID"
	CodeMalformedRange        Code = "MALFORMED_RANGE"
	CodeMismatch              Code = "MISMATCH"
)

// ExitCode returns the process exit status for an error code.
func (c Code) ExitCode() int {
	switch c {
	case CodeValidation:
		return 2
	case CodeUnresolvedReference:
		return 3
	case CodeMissingFallbackSource:
		return 4
	case CodeDuplicateID:
		return 5
	case CodeMalformedRange:
		return 6
	default:
		return 1
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound              = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation            = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal              = &Error{Code: CodeInternal, Message: "internal error"}
	ErrUnresolvedReference   = &Error{Code: CodeUnresolvedReference, Message: "unresolved reference"}
	ErrMissingFallbackSource = &Error{Code: CodeMissingFallbackSource, Message: "missing fallback source"}
	ErrDuplicateID           = &Error{Code: CodeDuplicateID, Message: "duplicate id"}
	ErrMalformedRange        = &Error{Code: CodeMalformedRange, Message: "malformed range"}
	ErrMismatch              = &Error{Code: CodeMismatch, Message: "mismatch"}
)

// ReferenceDetails describes a name that could not be resolved.
type ReferenceDetails struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Suggestion string `json:"suggestion,omitempty"`
}

// UnresolvedReference creates an error for a name missing from its authoritative list.
func UnresolvedReference(kind, name, suggestion string) *Error {
	msg := fmt.Sprintf("could not find %s %q", kind, name)
	if suggestion != "" {
		msg = fmt.Sprintf("%s, did you mean %q?", msg, suggestion)
	}
	return &Error{
		Code:    CodeUnresolvedReference,
		Message: msg,
		Details: ReferenceDetails{Kind: kind, Name: name, Suggestion: suggestion},
	}
}

// MissingFallbackSource creates an error for a composition or line without any preferred source.
func MissingFallbackSource(composition, lineID string) *Error {
	if lineID == "" {
		return &Error{
			Code:    CodeMissingFallbackSource,
			Message: fmt.Sprintf("no preferred source found for %s", composition),
		}
	}
	return &Error{
		Code:    CodeMissingFallbackSource,
		Message: fmt.Sprintf("no preferred source found for line %s in composition %s", lineID, composition),
	}
}

// DuplicateID creates an error for a human-assigned id seen twice.
func DuplicateID(kind, id string) *Error {
	return &Error{Code: CodeDuplicateID, Message: fmt.Sprintf("%s id %s already exists", kind, id)}
}

// MalformedRange creates an error for a bani range whose endpoints cannot be found.
func MalformedRange(baniID, startLine, endLine string) *Error {
	return &Error{
		Code:    CodeMalformedRange,
		Message: fmt.Sprintf("bani %s: range %s-%s does not resolve to known lines", baniID, startLine, endLine),
	}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// ExitCode returns the exit status for any error, defaulting to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code.ExitCode()
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}
