package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chat message validation errors
var (
	ErrEmptyChatOwner  = errors.New("chat message owner cannot be empty")
	ErrEmptyChatPrompt = errors.New("chat message prompt cannot be empty")
	ErrNegativeCount   = errors.New("chat message task count cannot be negative")
)

// ChatMessage records one processed chat prompt and the reply sent back.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	TaskCount int       `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

// NewChatMessage creates a validated ChatMessage stamped with now.
func NewChatMessage(ownerID uuid.UUID, prompt, response string, taskCount int, now time.Time) (*ChatMessage, error) {
	msg := &ChatMessage{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Prompt:    prompt,
		Response:  response,
		TaskCount: taskCount,
		CreatedAt: Timestamp(now),
	}

	if err := msg.Validate(); err != nil {
		return nil, err
	}

	return msg, nil
}

// Validate checks if the ChatMessage has valid data.
func (m *ChatMessage) Validate() error {
	if m.OwnerID == uuid.Nil {
		return ErrEmptyChatOwner
	}
	if strings.TrimSpace(m.Prompt) == "" {
		return ErrEmptyChatPrompt
	}
	if m.TaskCount < 0 {
		return ErrNegativeCount
	}
	return nil
}
