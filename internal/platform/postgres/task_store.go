package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/recurrence"
	"github.com/phrazzld/taskmate-api/internal/store"
)

const taskColumns = `id, owner_id, title, description, status, priority, category, tags,
	due_date, is_recurring, recurrence_interval, created_at, updated_at, completed_at`

// PostgresTaskStore implements store.TaskStore using PostgreSQL.
type PostgresTaskStore struct {
	db         store.DBTX
	recurrence recurrence.Engine
	now        func() time.Time
	logger     *slog.Logger
}

// TaskStoreOption configures a PostgresTaskStore.
type TaskStoreOption func(*PostgresTaskStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TaskStoreOption {
	return func(s *PostgresTaskStore) { s.now = now }
}

// WithRecurrence replaces the default recurrence engine.
func WithRecurrence(engine recurrence.Engine) TaskStoreOption {
	return func(s *PostgresTaskStore) { s.recurrence = engine }
}

// NewPostgresTaskStore creates a task store on db, which may be a pool or a
// transaction. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger, opts ...TaskStoreOption) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &PostgresTaskStore{
		db:         db,
		recurrence: recurrence.NewDefaultEngine(),
		now:        time.Now,
		logger:     logger.With(slog.String("component", "task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store that runs every query on tx. Update then relies on
// the caller's transaction instead of opening its own.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	c := *s
	c.db = tx
	return &c
}

// Create implements store.TaskStore.Create.
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if err := insertTask(ctx, s.db, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return err
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}
	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("owner_id", ownerID.String()))
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update.
// The row is locked with SELECT ... FOR UPDATE, so concurrent updates of one
// task serialize and the successor insert commits with the completion.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
) (*store.UpdateResult, error) {
	db, ok := s.db.(*sql.DB)
	if !ok {
		return s.update(ctx, s.db, ownerID, id, patch)
	}

	var result *store.UpdateResult
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		result, err = s.update(ctx, tx, ownerID, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresTaskStore) update(
	ctx context.Context,
	q store.DBTX,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
) (*store.UpdateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2 FOR UPDATE`
	current, err := scanTask(q.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to lock task for update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	now := s.now()
	next, completed, err := store.ApplyPatch(current, patch, now)
	if err != nil {
		return nil, err
	}

	tags, err := encodeTags(next.Tags)
	if err != nil {
		return nil, err
	}

	res, err := q.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, category = $5,
			tags = $6, due_date = $7, is_recurring = $8, recurrence_interval = $9,
			updated_at = $10, completed_at = $11
		WHERE id = $12 AND owner_id = $13`,
		next.Title,
		next.Description,
		string(next.Status),
		string(next.Priority),
		next.Category,
		tags,
		nullTime(next.DueDate),
		next.IsRecurring,
		nullInterval(next.RecurrenceInterval),
		next.UpdatedAt,
		nullTime(next.CompletedAt),
		id,
		ownerID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(res, store.ErrTaskNotFound); err != nil {
		return nil, err
	}

	result := &store.UpdateResult{Task: next}
	if completed {
		if successor := store.Successor(ctx, s.recurrence, next, now); successor != nil {
			if err := insertTask(ctx, q, successor); err != nil {
				log.Error("failed to create next occurrence",
					slog.String("error", err.Error()),
					slog.String("task_id", id.String()))
				return nil, err
			}
			result.Successor = successor
		}
	}

	log.Debug("task updated",
		slog.String("task_id", id.String()),
		slog.Bool("completed", completed),
		slog.Bool("successor_created", result.Successor != nil))
	return result, nil
}

// Delete implements store.TaskStore.Delete.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return false, err
	}

	if err := CheckRowsAffected(res, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func insertTask(ctx context.Context, q store.DBTX, task *domain.Task) error {
	tags, err := encodeTags(task.Tags)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Category,
		tags,
		nullTime(task.DueDate),
		task.IsRecurring,
		nullInterval(task.RecurrenceInterval),
		task.CreatedAt,
		task.UpdatedAt,
		nullTime(task.CompletedAt),
	)
	return MapError(err)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		status    string
		priority  string
		tags      []byte
		due       sql.NullTime
		interval  sql.NullString
		completed sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.Category,
		&tags,
		&due,
		&task.IsRecurring,
		&interval,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completed,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.Status(status)
	task.Priority = domain.Priority(priority)
	if err := json.Unmarshal(tags, &task.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of task %s: %w", task.ID, err)
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if due.Valid {
		t := due.Time.UTC()
		task.DueDate = &t
	}
	if interval.Valid {
		i := domain.Interval(interval.String)
		task.RecurrenceInterval = &i
	}
	if completed.Valid {
		t := completed.Time.UTC()
		task.CompletedAt = &t
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(data), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInterval(i *domain.Interval) sql.NullString {
	if i == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*i), Valid: true}
}
