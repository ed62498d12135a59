package job

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// funcJob runs fn when executed.
type funcJob struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncJob(fn func(ctx context.Context) error) *funcJob {
	return &funcJob{id: uuid.New(), fn: fn}
}

func (j *funcJob) ID() uuid.UUID                     { return j.id }
func (j *funcJob) Type() string                      { return "func" }
func (j *funcJob) Execute(ctx context.Context) error { return j.fn(ctx) }

// countingJob returns a job that increments n.
func countingJob(n *atomic.Int32) *funcJob {
	return newFuncJob(func(context.Context) error {
		n.Add(1)
		return nil
	})
}
