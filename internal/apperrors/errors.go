package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials (including webhook signatures).
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the resource is in a state that does not allow the operation right now.
var ErrConflict = errors.New("conflict")

// ErrInternal is returned when an unexpected failure should not be exposed in detail.
var ErrInternal = errors.New("internal error")

// ErrUpstream indicates an external dependency (payment gateway) rejected or failed a call.
var ErrUpstream = errors.New("upstream service error")

// ErrSequenceUnavailable is returned when a counter could not be advanced.
var ErrSequenceUnavailable = errors.New("sequence unavailable")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
