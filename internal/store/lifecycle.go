package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskmate-api/internal/domain"
	"github.com/phrazzld/taskmate-api/internal/platform/logger"
	"github.com/phrazzld/taskmate-api/internal/recurrence"
)

// ApplyPatch returns a copy of current with patch applied at now, and whether
// the update moved the task into the completed status. current is not modified.
//
// Entering completed sets CompletedAt; leaving it clears CompletedAt. Turning
// IsRecurring off drops the interval. UpdatedAt always moves strictly forward,
// even when now does not.
func ApplyPatch(current *domain.Task, patch domain.TaskPatch, now time.Time) (*domain.Task, bool, error) {
	next := current.Clone()
	ts := domain.Timestamp(now)

	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}

	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if desc == "" {
			return nil, false, domain.NewValidationError("description", "must not be blank when provided")
		}
		next.Description = desc
	}

	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}

	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
		if next.Category == "" {
			next.Category = domain.DefaultCategory
		}
	}

	if patch.Tags != nil {
		next.Tags = domain.NormalizeTags(patch.Tags)
	}

	switch {
	case patch.ClearDueDate:
		next.DueDate = nil
	case patch.DueDate != nil:
		due := domain.Timestamp(*patch.DueDate)
		next.DueDate = &due
	}

	if patch.IsRecurring != nil {
		next.IsRecurring = *patch.IsRecurring
		if !next.IsRecurring {
			next.RecurrenceInterval = nil
		}
	}

	if patch.RecurrenceInterval != nil {
		interval := *patch.RecurrenceInterval
		next.RecurrenceInterval = &interval
	}

	completed := false
	if patch.Status != nil {
		next.Status = *patch.Status
		switch {
		case next.Status == domain.StatusCompleted && current.Status != domain.StatusCompleted:
			completed = true
			completedAt := ts
			next.CompletedAt = &completedAt
		case next.Status != domain.StatusCompleted:
			next.CompletedAt = nil
		}
	}

	next.UpdatedAt = ts
	if !next.UpdatedAt.After(current.UpdatedAt) {
		next.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	}

	if err := next.Validate(); err != nil {
		return nil, false, err
	}

	return next, completed, nil
}

// Successor asks engine for the next occurrence of a task that has just
// completed. Non-recurring tasks have no successor. Any other failure is
// logged and also yields no successor, so the completion itself still succeeds.
func Successor(ctx context.Context, engine recurrence.Engine, completed *domain.Task, now time.Time) *domain.Task {
	if engine == nil || !completed.IsRecurring {
		return nil
	}

	next, err := engine.NextOccurrence(completed, now)
	if err != nil {
		if !errors.Is(err, recurrence.ErrNotRecurring) {
			logger.FromContext(ctx).Warn("could not compute next occurrence",
				slog.String("task_id", completed.ID.String()),
				slog.String("error", err.Error()))
		}
		return nil
	}

	return next
}
