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

// ErrInternal indicates an unexpected failure in infrastructure (database, encoding, ...).
var ErrInternal = errors.New("internal error")

// ErrInconsistency indicates that provider data contradicts what is already recorded.
// Work units failing with it are rolled back and need manual intervention.
var ErrInconsistency = errors.New("data inconsistency")

// ErrTransient indicates a failure that is expected to go away on the next scheduled run.
var ErrTransient = errors.New("transient failure")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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

// Inconsistency formats an error wrapping ErrInconsistency.
func Inconsistency(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInconsistency, fmt.Sprintf(format, args...))
}

// Transient formats an error wrapping ErrTransient.
func Transient(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransient, fmt.Sprintf(format, args...))
}
