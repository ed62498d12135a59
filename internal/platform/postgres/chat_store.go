package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// PostgresChatStore implements store.ChatStore using PostgreSQL.
type PostgresChatStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresChatStore creates a chat history store on db.
func NewPostgresChatStore(db store.DBTX, logger *slog.Logger) *PostgresChatStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresChatStore{
		db:     db,
		logger: logger.With(slog.String("component", "chat_store")),
	}
}

var _ store.ChatStore = (*PostgresChatStore)(nil)

// Create implements store.ChatStore.Create.
func (s *PostgresChatStore) Create(ctx context.Context, msg *domain.ChatMessage) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := msg.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_messages (id, owner_id, prompt, response, task_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID,
		msg.OwnerID,
		msg.Prompt,
		msg.Response,
		msg.TaskCount,
		msg.CreatedAt,
	)
	if err != nil {
		log.Error("failed to record chat message",
			slog.String("error", err.Error()),
			slog.String("owner_id", msg.OwnerID.String()))
		return MapError(err)
	}
	return nil
}

// ListByOwner implements store.ChatStore.ListByOwner.
func (s *PostgresChatStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, owner_id, prompt, response, task_count, created_at
		FROM chat_messages WHERE owner_id = $1 ORDER BY created_at DESC, id`
	args := []any{ownerID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list chat messages",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.OwnerID, &msg.Prompt, &msg.Response, &msg.TaskCount, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = msg.CreatedAt.UTC()
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// DeleteOlderThan implements store.ChatStore.DeleteOlderThan.
func (s *PostgresChatStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE created_at < $1`, cutoff)
	if err != nil {
		log.Error("failed to delete old chat messages", slog.String("error", err.Error()))
		return 0, err
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	log.Debug("old chat messages deleted",
		slog.Time("cutoff", cutoff),
		slog.Int64("removed", removed))
	return removed, nil
}
