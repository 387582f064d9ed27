package services

import (
	"errors"
	"fmt"
)

// ValidationError indicates malformed or incomplete input. Locally correctable
// by the caller.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message, field string) *ValidationError {
	return &ValidationError{Message: message, Field: field}
}

// NotFoundError indicates a missing record where one was expected, often
// resolvable by a prerequisite action.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// ConflictError indicates the operation clashes with current state (duplicate
// open session, exam already completed, concurrent batch generation). Not
// retryable without changing state first.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// QuotaExceededError indicates a daily or lifetime time cap has been reached.
// An expected user-facing condition, not a system fault.
type QuotaExceededError struct {
	Pool        string
	CapSeconds  int
	UsedSeconds int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s time limit reached (%ds of %ds used)", e.Pool, e.UsedSeconds, e.CapSeconds)
}

// GenerationError indicates the content generator failed or returned unusable
// data. Retryable by the caller; the orchestrator itself never retries.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether the error is worth retrying at the call site.
func IsRetryable(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
