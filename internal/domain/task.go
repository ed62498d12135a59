package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents where a task is in its lifecycle.
type Status string

// Possible task status values
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Priority represents how urgent a task is.
type Priority string

// Possible task priority values, lowest first
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Interval is the period after which a completed recurring task repeats.
type Interval string

// Supported recurrence intervals
const (
	IntervalDaily  Interval = "Daily"
	IntervalWeekly Interval = "Weekly"
)

// DefaultCategory is assigned to tasks created without a category.
const DefaultCategory = "General"

// Task is a unit of work owned by a single user.
type Task struct {
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"owner_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Status             Status     `json:"status"`
	Priority           Priority   `json:"priority"`
	Category           string     `json:"category"`
	Tags               []string   `json:"tags"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurrenceInterval *Interval  `json:"recurrence_interval,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

// TaskDraft holds the caller-supplied fields of a task that does not exist yet.
// Zero values select the defaults: pending status, Medium priority and the
// General category. A non-nil Description must not be blank.
type TaskDraft struct {
	Title              string
	Description        *string
	Priority           Priority
	Category           string
	Tags               []string
	DueDate            *time.Time
	IsRecurring        bool
	RecurrenceInterval *Interval
}

// TaskPatch describes a partial update. Nil fields are left untouched.
// A nil Tags slice leaves tags untouched; an empty non-nil slice clears them.
type TaskPatch struct {
	Title              *string
	Description        *string
	Status             *Status
	Priority           *Priority
	Category           *string
	Tags               []string
	DueDate            *time.Time
	ClearDueDate       bool
	IsRecurring        *bool
	RecurrenceInterval *Interval
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Category == nil && p.Tags == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.IsRecurring == nil &&
		p.RecurrenceInterval == nil
}

// NewTask creates a Task for ownerID from draft, stamped with now.
// It assigns a fresh identity, applies defaults and validates the result.
func NewTask(ownerID uuid.UUID, draft TaskDraft, now time.Time) (*Task, error) {
	if draft.Description != nil && strings.TrimSpace(*draft.Description) == "" {
		return nil, NewValidationError("description", "must not be blank when provided")
	}

	ts := Timestamp(now)
	task := &Task{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Title:              strings.TrimSpace(draft.Title),
		Status:             StatusPending,
		Priority:           draft.Priority,
		Category:           strings.TrimSpace(draft.Category),
		Tags:               NormalizeTags(draft.Tags),
		DueDate:            timestampPtr(draft.DueDate),
		IsRecurring:        draft.IsRecurring,
		RecurrenceInterval: cloneInterval(draft.RecurrenceInterval),
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
	if draft.Description != nil {
		task.Description = strings.TrimSpace(*draft.Description)
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Category == "" {
		task.Category = DefaultCategory
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task's fields and invariants.
// Returns a *ValidationError naming the first offending field.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "must not be empty")
	}

	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "must not be empty")
	}

	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "must not be blank")
	}

	if !t.Status.IsValid() {
		return &ValidationError{Field: "status", Message: "unknown value " + string(t.Status), Err: ErrInvalidStatus}
	}

	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Message: "unknown value " + string(t.Priority), Err: ErrInvalidPriority}
	}

	if t.RecurrenceInterval != nil && !t.RecurrenceInterval.IsValid() {
		return &ValidationError{
			Field:   "recurrence_interval",
			Message: "unknown value " + string(*t.RecurrenceInterval),
			Err:     ErrInvalidInterval,
		}
	}

	if t.IsRecurring && t.RecurrenceInterval == nil {
		return NewValidationError("recurrence_interval", "is required for recurring tasks")
	}

	if !t.IsRecurring && t.RecurrenceInterval != nil {
		return NewValidationError("recurrence_interval", "is only allowed on recurring tasks")
	}

	if (t.Status == StatusCompleted) != (t.CompletedAt != nil) {
		return NewValidationError("completed_at", "must be set exactly when the task is completed")
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		return NewValidationError("updated_at", "must not precede created_at")
	}

	return nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Tags = append([]string{}, t.Tags...)
	c.DueDate = timePtrCopy(t.DueDate)
	c.CompletedAt = timePtrCopy(t.CompletedAt)
	c.RecurrenceInterval = cloneInterval(t.RecurrenceInterval)
	return &c
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseStatus converts s to a Status, ignoring case and surrounding space.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", &ValidationError{Field: "status", Message: "unknown value " + s, Err: ErrInvalidStatus}
	}
	return status, nil
}

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	return p.Rank() > 0
}

// Rank orders priorities from Low (1) to Urgent (4). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

// ParsePriority converts s to a Priority, ignoring case and surrounding space.
func ParsePriority(s string) (Priority, error) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "priority", Message: "unknown value " + s, Err: ErrInvalidPriority}
}

// IsValid reports whether i is a known interval.
func (i Interval) IsValid() bool {
	return i == IntervalDaily || i == IntervalWeekly
}

// ParseInterval converts s to an Interval, ignoring case and surrounding space.
func ParseInterval(s string) (Interval, error) {
	for _, i := range []Interval{IntervalDaily, IntervalWeekly} {
		if strings.EqualFold(strings.TrimSpace(s), string(i)) {
			return i, nil
		}
	}
	return "", &ValidationError{Field: "recurrence_interval", Message: "unknown value " + s, Err: ErrInvalidInterval}
}

// NormalizeTags trims tags, drops blanks and removes case-insensitive
// duplicates, keeping the first spelling. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Timestamp normalizes t to UTC at microsecond precision, the resolution
// PostgreSQL keeps.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func timestampPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}

func timePtrCopy(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInterval(i *Interval) *Interval {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
