package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a testify mock of store.TaskStore.
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create mocks store.TaskStore.Create.
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID mocks store.TaskStore.GetByID.
func (m *TaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, id)
	task, _ := args.Get(0).(*domain.Task)
	return task, args.Error(1)
}

// ListByOwner mocks store.TaskStore.ListByOwner.
func (m *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// Update mocks store.TaskStore.Update.
func (m *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
) (*store.UpdateResult, error) {
	args := m.Called(ctx, ownerID, id, patch)
	result, _ := args.Get(0).(*store.UpdateResult)
	return result, args.Error(1)
}

// Delete mocks store.TaskStore.Delete.
func (m *TaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}
