package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
)

// ChatStore defines the interface for chat history persistence.
type ChatStore interface {
	// Create saves a processed chat message.
	Create(ctx context.Context, msg *domain.ChatMessage) error

	// ListByOwner returns up to limit messages of ownerID, newest first.
	// A limit of zero or less returns every message.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error)

	// DeleteOlderThan removes messages created before cutoff and reports how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
