// Package apperror defines the error kinds the services return.
//
// Each kind is a sentinel error. Constructors wrap the sentinel in an *AppError
// carrying a client-safe message, so callers match with errors.Is and read the
// message with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidQuery = errors.New("invalid query")
	ErrPersistence  = errors.New("persistence error")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	cause   error  // underlying store error, never shown to clients
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *AppError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Field:   id,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// InvalidDate reports a date input that is not a real calendar date.
func InvalidDate(field string) *AppError {
	return &AppError{
		Err:     ErrInvalidDate,
		Message: "invalid date",
		Field:   field,
	}
}

// InvalidQuery reports a malformed log query parameter.
func InvalidQuery(field, message string) *AppError {
	return &AppError{
		Err:     ErrInvalidQuery,
		Message: message,
		Field:   field,
	}
}

// Persistence wraps a store failure. The message names the operation only;
// the cause is kept for logs.
func Persistence(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: fmt.Sprintf("%s failed", op),
		cause:   cause,
	}
}
