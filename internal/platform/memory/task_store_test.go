package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// steppingClock returns a clock that advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func createTask(t *testing.T, s *TaskStore, owner uuid.UUID, draft domain.TaskDraft) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, draft, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestTaskStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()
	task := createTask(t, s, owner, domain.TaskDraft{Title: "buy milk", Tags: []string{"home"}})

	got, err := s.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)

	got.Tags[0] = "mutated"
	again, err := s.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", again.Tags[0], "returned tasks are copies")

	_, err = s.GetByID(ctx, uuid.New(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound, "other owners cannot see the task")

	_, err = s.GetByID(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreCreateRejectsInvalidAndDuplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	task := createTask(t, s, uuid.New(), domain.TaskDraft{Title: "x"})

	assert.ErrorIs(t, s.Create(ctx, task), store.ErrDuplicate)

	invalid := task.Clone()
	invalid.ID = uuid.New()
	invalid.Title = ""
	assert.ErrorIs(t, s.Create(ctx, invalid), domain.ErrValidation)
}

func TestTaskStoreListByOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()
	createTask(t, s, owner, domain.TaskDraft{Title: "a"})
	createTask(t, s, owner, domain.TaskDraft{Title: "b"})
	createTask(t, s, uuid.New(), domain.TaskDraft{Title: "c"})

	tasks, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	empty, err := s.ListByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil, WithClock(steppingClock(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))))
	owner := uuid.New()
	task := createTask(t, s, owner, domain.TaskDraft{Title: "buy milk"})

	result, err := s.Update(ctx, owner, task.ID, domain.TaskPatch{Title: ptr("buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", result.Task.Title)
	assert.Nil(t, result.Successor)
	assert.True(t, result.Task.UpdatedAt.After(task.UpdatedAt))

	stored, err := s.GetByID(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Task, stored)

	_, err = s.Update(ctx, uuid.New(), task.ID, domain.TaskPatch{Title: ptr("hijack")})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = s.Update(ctx, owner, task.ID, domain.TaskPatch{Title: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskStoreCompletionSpawnsSuccessor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil, WithClock(steppingClock(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))))
	owner := uuid.New()
	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	task := createTask(t, s, owner, domain.TaskDraft{
		Title:              "water plants",
		DueDate:            &due,
		IsRecurring:        true,
		RecurrenceInterval: ptr(domain.IntervalDaily),
	})

	result, err := s.Update(ctx, owner, task.ID, domain.TaskPatch{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)
	require.NotNil(t, result.Successor)
	assert.NotNil(t, result.Task.CompletedAt)
	assert.Equal(t, "2024-01-11", result.Successor.DueDate.Format("2006-01-02"))
	assert.Equal(t, domain.StatusPending, result.Successor.Status)

	tasks, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 2, "successor is persisted")

	// Completing again is not a transition and spawns nothing.
	again, err := s.Update(ctx, owner, task.ID, domain.TaskPatch{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)
	assert.Nil(t, again.Successor)

	tasks, err = s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskStoreCompletionNonRecurring(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()
	task := createTask(t, s, owner, domain.TaskDraft{Title: "x"})

	result, err := s.Update(ctx, owner, task.ID, domain.TaskPatch{Status: ptr(domain.StatusCompleted)})
	require.NoError(t, err)
	assert.Nil(t, result.Successor)

	tasks, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()
	task := createTask(t, s, owner, domain.TaskDraft{Title: "x"})

	deleted, err := s.Delete(ctx, uuid.New(), task.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "other owners cannot delete")

	deleted, err = s.Delete(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	for i := 0; i < 2; i++ {
		deleted, err = s.Delete(ctx, owner, task.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	}

	deleted, err = s.Delete(ctx, owner, uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTaskStoreConcurrentCompletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil, WithClock(steppingClock(time.Now())))
	owner := uuid.New()
	task := createTask(t, s, owner, domain.TaskDraft{
		Title:              "stand-up",
		IsRecurring:        true,
		RecurrenceInterval: ptr(domain.IntervalDaily),
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	successors := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.Update(ctx, owner, task.ID, domain.TaskPatch{Status: ptr(domain.StatusCompleted)})
			if err == nil && result.Successor != nil {
				mu.Lock()
				successors++
				mu.Unlock()
			}
			_, _ = s.ListByOwner(ctx, owner)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successors, "exactly one completion transition")
}
