package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskmate-api/internal/store"
	"github.com/robfig/cron/v3"
)

// RetentionScheduler periodically deletes chat history older than a fixed age.
type RetentionScheduler struct {
	cron      *cron.Cron
	chats     store.ChatStore
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewRetentionScheduler creates a scheduler running the sweep on schedule, a
// standard five-field cron expression or a descriptor such as "@daily".
// A retention of zero or less keeps history forever; Start then does nothing.
func NewRetentionScheduler(
	chats store.ChatStore,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) (*RetentionScheduler, error) {
	if chats == nil {
		return nil, errors.New("chat store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &RetentionScheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		chats:     chats,
		retention: retention,
		now:       time.Now,
		logger:    logger.With("component", "retention_scheduler"),
	}

	if retention <= 0 {
		return s, nil
	}

	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Sweep deletes history older than the retention window and reports how many
// messages were removed.
func (s *RetentionScheduler) Sweep(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.retention)
	return s.chats.DeleteOlderThan(ctx, cutoff)
}

// Start begins running the schedule in the background.
func (s *RetentionScheduler) Start() {
	s.cron.Start()
	s.logger.Info("retention scheduler started", "retention", s.retention.String())
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *RetentionScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

func (s *RetentionScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("chat history sweep failed", "error", err)
		return
	}
	s.logger.Info("chat history sweep finished", "removed", removed)
}
