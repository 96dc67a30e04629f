package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation error")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend names used in BackendError and StepFailure.
const (
	BackendStore  = "store"
	BackendCache  = "cache"
	BackendSearch = "search"
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// BackendError marks an adapter call that failed because the backend could
// not serve it. Backend identifies which of the three backends failed.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackendUnavailable, e.Err}
}

// NewBackendError wraps err as a BackendError for the given backend.
func NewBackendError(backend string, err error) *BackendError {
	return &BackendError{Backend: backend, Err: err}
}

// StepFailure records a best-effort orchestration step that failed after the
// authoritative store step succeeded. The operation as a whole still counts
// as a success; the failure is surfaced for observability.
type StepFailure struct {
	Backend string
	Step    string
	Err     error
}

func (f StepFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Backend, f.Step, f.Err)
}

func (f StepFailure) Unwrap() error { return f.Err }
