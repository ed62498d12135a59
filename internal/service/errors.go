package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/service/auth"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// Service errors checked with errors.Is.
//
// Expected conditions surface as sentinels or *domain.ValidationError; storage
// failures are wrapped in *TaskServiceError and match ErrPersistence.
var (
	// ErrUnauthenticated is returned before any store access when the caller
	// has no identity.
	ErrUnauthenticated = auth.ErrUnauthenticated

	// ErrTaskNotFound is returned for unknown tasks and tasks of other owners.
	ErrTaskNotFound = store.ErrTaskNotFound

	// ErrPersistence marks a transient storage failure. The whole operation
	// may be retried.
	ErrPersistence = errors.New("persistence failure")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password, without telling the two apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// TaskServiceError is a custom error type for service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// wrapStoreError passes expected store outcomes through unchanged and turns
// everything else into a persistence error for operation.
func wrapStoreError(operation string, err error) error {
	if isExpected(err) {
		return err
	}
	return NewTaskServiceError(operation, "storage failure", fmt.Errorf("%w: %w", ErrPersistence, err))
}

func isExpected(err error) bool {
	return store.IsNotFoundError(err) ||
		store.IsDuplicateError(err) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.Is(err, domain.ErrValidation)
}
