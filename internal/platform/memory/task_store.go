package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/recurrence"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// TaskStore implements store.TaskStore in memory.
// A single RWMutex serializes writers; every value crossing the API boundary
// is a deep copy, so readers never observe a partially applied update.
type TaskStore struct {
	mu         sync.RWMutex
	tasks      map[uuid.UUID]*domain.Task
	recurrence recurrence.Engine
	now        func() time.Time
	logger     *slog.Logger
}

// TaskStoreOption configures a TaskStore.
type TaskStoreOption func(*TaskStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TaskStoreOption {
	return func(s *TaskStore) { s.now = now }
}

// WithRecurrence replaces the default recurrence engine.
func WithRecurrence(engine recurrence.Engine) TaskStoreOption {
	return func(s *TaskStore) { s.recurrence = engine }
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore(log *slog.Logger, opts ...TaskStoreOption) *TaskStore {
	if log == nil {
		log = slog.Default()
	}
	s := &TaskStore{
		tasks:      make(map[uuid.UUID]*domain.Task),
		recurrence: recurrence.NewDefaultEngine(),
		now:        time.Now,
		logger:     log.With(slog.String("component", "memory_task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.NewStoreError("task", "create", "task id already exists", store.ErrDuplicate)
	}
	s.tasks[task.ID] = task.Clone()

	logger.FromContextOrDefault(ctx, s.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// ListByOwner implements store.TaskStore.
func (s *TaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.OwnerID == ownerID {
			tasks = append(tasks, task.Clone())
		}
	}
	return tasks, nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
) (*store.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[id]
	if !ok || current.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}

	now := s.now()
	next, completed, err := store.ApplyPatch(current, patch, now)
	if err != nil {
		return nil, err
	}

	result := &store.UpdateResult{Task: next.Clone()}
	if completed {
		if successor := store.Successor(ctx, s.recurrence, next, now); successor != nil {
			s.tasks[successor.ID] = successor
			result.Successor = successor.Clone()
		}
	}
	s.tasks[id] = next

	logger.FromContextOrDefault(ctx, s.logger).Debug("task updated",
		slog.String("task_id", id.String()),
		slog.Bool("completed", completed),
		slog.Bool("successor_created", result.Successor != nil))
	return result, nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}
