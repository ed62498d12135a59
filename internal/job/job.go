package job

import (
	"context"

	"github.com/google/uuid"
)

// Job type constants
const (
	// TypeRecordChat persists a processed chat message to history.
	TypeRecordChat = "record_chat"
)

// Job is a unit of background work to be processed.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// QueueReader provides read-only access to queued jobs.
type QueueReader interface {
	// Channel returns the channel workers consume from. It is closed by Close.
	Channel() <-chan Job
}

// QueueWriter lets services enqueue jobs.
type QueueWriter interface {
	// Enqueue adds a job without blocking.
	// Returns ErrQueueFull or ErrQueueClosed when the job cannot be accepted.
	Enqueue(job Job) error
}
