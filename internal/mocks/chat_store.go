package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// ChatStore is a testify mock of store.ChatStore.
type ChatStore struct {
	mock.Mock
}

var _ store.ChatStore = (*ChatStore)(nil)

// Create mocks store.ChatStore.Create.
func (m *ChatStore) Create(ctx context.Context, msg *domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// ListByOwner mocks store.ChatStore.ListByOwner.
func (m *ChatStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, ownerID, limit)
	msgs, _ := args.Get(0).([]*domain.ChatMessage)
	return msgs, args.Error(1)
}

// DeleteOlderThan mocks store.ChatStore.DeleteOlderThan.
func (m *ChatStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}
