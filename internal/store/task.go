package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
)

// UpdateResult is the outcome of TaskStore.Update.
type UpdateResult struct {
	// Task is the task after the update.
	Task *domain.Task
	// Successor is the next occurrence created when the update completed a
	// recurring task, nil otherwise.
	Successor *domain.Task
}

// TaskStore defines the interface for task persistence.
// Every method is scoped to an owner: a task owned by someone else behaves
// exactly like a task that does not exist.
type TaskStore interface {
	// Create saves a new task built by domain.NewTask.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns every task of ownerID in no particular order.
	// Returns an empty slice when the owner has no tasks.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// Update applies patch with ApplyPatch semantics. The read, the mutation,
	// and the creation of a recurring successor happen atomically per task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.TaskPatch) (*UpdateResult, error)

	// Delete removes a task. It reports false, without an error, when the
	// task does not exist.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}
