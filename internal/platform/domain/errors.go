package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Wrap them in a DomainError and test with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state transition")
	ErrConflict     = errors.New("conflict")
)

// DomainError carries an error kind plus a user-facing message.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewValidationError reports input that failed a business rule.
func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{Err: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewInvalidStateError reports a forbidden status transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Err: ErrInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewStateError reports an action rejected because of the entity's current state.
func NewStateError(message string) *DomainError {
	return &DomainError{Err: ErrInvalidState, Message: message}
}

// NewConflictError reports a concurrent modification or constraint clash.
func NewConflictError(message string) *DomainError {
	return &DomainError{Err: ErrConflict, Message: message}
}

// IsNotFound reports whether err is, or wraps, a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
