package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/events"
	"github.com/phrazzld/taskmate-api/internal/extraction"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/query"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// CreateTaskRequest holds the fields of a new task.
type CreateTaskRequest struct {
	OwnerID            uuid.UUID
	Title              string
	Description        *string
	Priority           domain.Priority
	Category           string
	Tags               []string
	DueDate            *time.Time
	IsRecurring        bool
	RecurrenceInterval *domain.Interval
}

// ListTasksRequest selects and orders an owner's tasks.
type ListTasksRequest struct {
	OwnerID  uuid.UUID
	Status   *domain.Status
	Priority *domain.Priority
	// SortKey is one of the query.Sort* keys. Unknown keys keep store order.
	SortKey string
	Keyword string
}

// UpdateTaskRequest applies Patch to one task.
type UpdateTaskRequest struct {
	OwnerID uuid.UUID
	TaskID  uuid.UUID
	Patch   domain.TaskPatch
}

// CompletionResult is the outcome of CompleteTask.
type CompletionResult struct {
	Task *domain.Task
	// Successor is the next occurrence of a recurring task, nil otherwise.
	Successor *domain.Task
}

// ChatResult is the outcome of ChatExtract.
type ChatResult struct {
	Tasks  []*domain.Task
	Reply  string
	Source extraction.Source
}

// TaskExtractor turns a chat message into task drafts.
type TaskExtractor interface {
	Extract(ctx context.Context, message string) extraction.Result
}

// TaskService is the façade the API uses for every task operation.
// All operations are scoped to the owner in the request.
type TaskService interface {
	// CreateTask validates and stores a new task.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error)

	// ListTasks returns the owner's tasks after search, filter and sort.
	ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error)

	// GetTask returns one task or ErrTaskNotFound.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update. An empty patch returns the task unchanged.
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error)

	// CompleteTask marks a task completed, creating the next occurrence of a
	// recurring task. Completing a completed task changes nothing.
	CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*CompletionResult, error)

	// DeleteTask removes a task and reports whether it existed.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (bool, error)

	// ChatExtract creates the tasks found in a free-text message.
	ChatExtract(ctx context.Context, ownerID uuid.UUID, message string) (*ChatResult, error)

	// ChatHistory returns up to limit processed messages, newest first.
	ChatHistory(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	chats     store.ChatStore
	extractor TaskExtractor
	emitter   events.EventEmitter
	now       func() time.Time
	logger    *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	chats store.ChatStore,
	extractor TaskExtractor,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	}
	if chats == nil {
		return nil, domain.NewValidationError("chats", "cannot be nil")
	}
	if extractor == nil {
		return nil, domain.NewValidationError("extractor", "cannot be nil")
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		chats:     chats,
		extractor: extractor,
		emitter:   emitter,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if req.OwnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	task, err := domain.NewTask(req.OwnerID, domain.TaskDraft{
		Title:              req.Title,
		Description:        req.Description,
		Priority:           req.Priority,
		Category:           req.Category,
		Tags:               req.Tags,
		DueDate:            req.DueDate,
		IsRecurring:        req.IsRecurring,
		RecurrenceInterval: req.RecurrenceInterval,
	}, s.now())
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("owner_id", req.OwnerID.String()))
		return nil, wrapStoreError("create", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", req.OwnerID.String()))
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.tasks.ListByOwner(ctx, req.OwnerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", req.OwnerID.String()))
		return nil, wrapStoreError("list", err)
	}

	return query.Run(tasks, query.Query{
		Keyword: req.Keyword,
		Criteria: query.Criteria{
			Status:   req.Status,
			Priority: req.Priority,
		},
		SortKey: req.SortKey,
	}), nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	task, err := s.tasks.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, wrapStoreError("get", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	if req.OwnerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if req.Patch.IsEmpty() {
		return s.GetTask(ctx, req.OwnerID, req.TaskID)
	}

	result, err := s.update(ctx, "update", req.OwnerID, req.TaskID, req.Patch)
	if err != nil {
		return nil, err
	}
	return result.Task, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*CompletionResult, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	completed := domain.StatusCompleted
	result, err := s.update(ctx, "complete", ownerID, taskID, domain.TaskPatch{Status: &completed})
	if err != nil {
		return nil, err
	}
	return &CompletionResult{Task: result.Task, Successor: result.Successor}, nil
}

func (s *taskServiceImpl) update(
	ctx context.Context,
	operation string,
	ownerID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*store.UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))

	result, err := s.tasks.Update(ctx, ownerID, taskID, patch)
	if err != nil {
		if isExpected(err) {
			log.Debug("task update rejected", slog.String("error", err.Error()))
		} else {
			log.Error("failed to update task", slog.String("error", err.Error()))
		}
		return nil, wrapStoreError(operation, err)
	}

	if result.Successor != nil {
		log.Info("recurring task completed, next occurrence created",
			slog.String("successor_id", result.Successor.ID.String()))
	}
	return result, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (bool, error) {
	if ownerID == uuid.Nil {
		return false, ErrUnauthenticated
	}

	deleted, err := s.tasks.Delete(ctx, ownerID, taskID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return false, wrapStoreError("delete", err)
	}
	return deleted, nil
}

// ChatExtract implements TaskService.ChatExtract
func (s *taskServiceImpl) ChatExtract(ctx context.Context, ownerID uuid.UUID, message string) (*ChatResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(message) == "" {
		return nil, domain.NewValidationError("message", "must not be blank")
	}

	extracted := s.extractor.Extract(ctx, message)
	now := s.now()

	created := make([]*domain.Task, 0, len(extracted.Drafts))
	for _, draft := range extracted.Drafts {
		task, err := domain.NewTask(ownerID, draft, now)
		if err != nil {
			log.Warn("dropping invalid extracted task",
				slog.String("title", draft.Title),
				slog.String("error", err.Error()))
			continue
		}
		if err := s.tasks.Create(ctx, task); err != nil {
			log.Error("failed to store extracted task",
				slog.String("error", err.Error()),
				slog.Int("stored_before_failure", len(created)))
			return nil, wrapStoreError("chat", err)
		}
		created = append(created, task)
	}

	result := &ChatResult{
		Tasks:  created,
		Reply:  fmt.Sprintf("Processed your message. Created %d tasks.", len(created)),
		Source: extracted.Source,
	}

	s.recordChat(ctx, ownerID, message, result, now)

	log.Info("chat message processed",
		slog.String("owner_id", ownerID.String()),
		slog.String("source", string(extracted.Source)),
		slog.Int("task_count", len(created)))
	return result, nil
}

// recordChat emits the chat.processed event. History is best effort, so a
// failure is only logged.
func (s *taskServiceImpl) recordChat(ctx context.Context, ownerID uuid.UUID, message string, result *ChatResult, now time.Time) {
	event, err := events.NewEvent(events.ChatProcessed, events.ChatProcessedPayload{
		OwnerID:     ownerID,
		Prompt:      message,
		Response:    result.Reply,
		TaskCount:   len(result.Tasks),
		ProcessedAt: now,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to record chat history",
			slog.String("error", err.Error()))
	}
}

// ChatHistory implements TaskService.ChatHistory
func (s *taskServiceImpl) ChatHistory(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	msgs, err := s.chats.ListByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, wrapStoreError("chat history", err)
	}
	return msgs, nil
}
