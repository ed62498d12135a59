package recurrence

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmate-api/internal/domain"
)

// nextDueDate shifts due by days calendar days. A nil due date stays nil.
func nextDueDate(due *time.Time, days int) *time.Time {
	if due == nil {
		return nil
	}
	next := due.AddDate(0, 0, days)
	return &next
}

// buildSuccessor copies the carried-over fields of completed into a fresh
// pending task stamped with now. completed itself is not modified.
func buildSuccessor(completed *domain.Task, due *time.Time, now time.Time) *domain.Task {
	ts := domain.Timestamp(now)
	interval := *completed.RecurrenceInterval

	return &domain.Task{
		ID:                 uuid.New(),
		OwnerID:            completed.OwnerID,
		Title:              completed.Title,
		Description:        completed.Description,
		Status:             domain.StatusPending,
		Priority:           completed.Priority,
		Category:           completed.Category,
		Tags:               append([]string{}, completed.Tags...),
		DueDate:            due,
		IsRecurring:        true,
		RecurrenceInterval: &interval,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
}
