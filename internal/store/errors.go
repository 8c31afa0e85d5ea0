package store

import (
	"fmt"

	domainerrors "github.com/gurbaninow/database/internal/errors"
)

// Error is a persistence error tagged with the domain error code it maps to.
type Error struct {
	Code    domainerrors.Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches store and domain errors carrying the same code, so
// errors.Is(err, errors.ErrDuplicateID) holds for ErrAlreadyExists.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *Error:
		return e.Code == t.Code
	case *domainerrors.Error:
		return e.Code == t.Code
	}
	return false
}

// ExitCode returns the process exit status for the error's code.
func (e *Error) ExitCode() int { return e.Code.ExitCode() }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    domainerrors.CodeNotFound,
		Message: "record not found",
	}

	// ErrAlreadyExists is returned when an insert violates a primary key or
	// unique constraint.
	ErrAlreadyExists = &Error{
		Code:    domainerrors.CodeDuplicateID,
		Message: "record already exists",
	}

	ErrInvalidInput = &Error{
		Code:    domainerrors.CodeValidation,
		Message: "invalid input",
	}
)
