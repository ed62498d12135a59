package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmate-api/internal/events"
	"github.com/phrazzld/taskmate-api/internal/store"
)

// ChatEventHandler turns chat.processed events into RecordChatJobs.
type ChatEventHandler struct {
	queue  QueueWriter
	chats  store.ChatStore
	logger *slog.Logger
}

var _ events.EventHandler = (*ChatEventHandler)(nil)

// NewChatEventHandler creates a handler that enqueues history jobs on queue.
func NewChatEventHandler(queue QueueWriter, chats store.ChatStore, logger *slog.Logger) (*ChatEventHandler, error) {
	if queue == nil {
		return nil, errors.New("queue cannot be nil")
	}
	if chats == nil {
		return nil, errors.New("chat store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatEventHandler{
		queue:  queue,
		chats:  chats,
		logger: logger.With("component", "chat_event_handler"),
	}, nil
}

// HandleEvent implements events.EventHandler. Events of other types are ignored.
func (h *ChatEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.ChatProcessed {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	var payload events.ChatProcessedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	job := NewRecordChatJob(payload, h.chats)
	if err := h.queue.Enqueue(job); err != nil {
		h.logger.Error("failed to enqueue job",
			"error", err,
			"job_id", job.ID(),
			"event_id", event.ID)
		return fmt.Errorf("failed to enqueue job: %w", err)
	}

	h.logger.Debug("chat history job enqueued",
		"job_id", job.ID(),
		"owner_id", payload.OwnerID,
		"event_id", event.ID)
	return nil
}
