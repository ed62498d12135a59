package job

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/events"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// RecordChatJob stores one processed chat message in the owner's history.
type RecordChatJob struct {
	id      uuid.UUID
	payload events.ChatProcessedPayload
	chats   store.ChatStore
}

var _ Job = (*RecordChatJob)(nil)

// NewRecordChatJob creates a job that saves payload to chats.
func NewRecordChatJob(payload events.ChatProcessedPayload, chats store.ChatStore) *RecordChatJob {
	return &RecordChatJob{
		id:      uuid.New(),
		payload: payload,
		chats:   chats,
	}
}

// ID implements Job.
func (j *RecordChatJob) ID() uuid.UUID { return j.id }

// Type implements Job.
func (j *RecordChatJob) Type() string { return TypeRecordChat }

// Execute implements Job.
func (j *RecordChatJob) Execute(ctx context.Context) error {
	msg, err := domain.NewChatMessage(
		j.payload.OwnerID,
		j.payload.Prompt,
		j.payload.Response,
		j.payload.TaskCount,
		j.payload.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("invalid chat message: %w", err)
	}

	if err := j.chats.Create(ctx, msg); err != nil {
		return fmt.Errorf("failed to record chat message: %w", err)
	}
	return nil
}
