package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// ChatStore implements store.ChatStore in memory.
type ChatStore struct {
	mu       sync.RWMutex
	messages []*domain.ChatMessage
}

// NewChatStore creates an empty ChatStore.
func NewChatStore() *ChatStore {
	return &ChatStore{}
}

var _ store.ChatStore = (*ChatStore)(nil)

// Create implements store.ChatStore.
func (s *ChatStore) Create(_ context.Context, msg *domain.ChatMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := *msg
	s.messages = append(s.messages, &c)
	return nil
}

// ListByOwner implements store.ChatStore.
func (s *ChatStore) ListByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.ChatMessage, 0)
	for _, msg := range s.messages {
		if msg.OwnerID == ownerID {
			c := *msg
			out = append(out, &c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteOlderThan implements store.ChatStore.
func (s *ChatStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.messages[:0]
	var removed int64
	for _, msg := range s.messages {
		if msg.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, msg)
	}
	s.messages = kept
	return removed, nil
}
