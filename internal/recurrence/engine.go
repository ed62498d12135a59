package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/taskmate-api/internal/domain"
)

// Common errors
var (
	ErrNilTask         = errors.New("task cannot be nil")
	ErrNotRecurring    = errors.New("task is not recurring")
	ErrMissingInterval = errors.New("recurring task has no recurrence interval")
	ErrNotCompleted    = errors.New("task is not completed")
)

// Engine computes successors for completed recurring tasks.
type Engine interface {
	// NextOccurrence returns the successor of a just-completed recurring task.
	// The successor has a fresh identity, the same owner, title, description,
	// priority, category, tags and interval, pending status, and a due date
	// moved forward by the interval.
	NextOccurrence(completed *domain.Task, now time.Time) (*domain.Task, error)
}

// defaultEngine is the standard implementation of the Engine interface
type defaultEngine struct {
	params *Params
}

// NewDefaultEngine creates an Engine with the default interval lengths.
func NewDefaultEngine() Engine {
	return &defaultEngine{params: NewDefaultParams()}
}

// NewEngineWithParams creates an Engine with custom interval lengths.
func NewEngineWithParams(params *Params) Engine {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultEngine{params: params}
}

// NextOccurrence implements Engine.
func (e *defaultEngine) NextOccurrence(completed *domain.Task, now time.Time) (*domain.Task, error) {
	if completed == nil {
		return nil, ErrNilTask
	}

	if !completed.IsRecurring {
		return nil, ErrNotRecurring
	}

	if completed.RecurrenceInterval == nil {
		return nil, ErrMissingInterval
	}

	if completed.Status != domain.StatusCompleted {
		return nil, ErrNotCompleted
	}

	days, ok := e.params.Days(*completed.RecurrenceInterval)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInterval, *completed.RecurrenceInterval)
	}

	return buildSuccessor(completed, nextDueDate(completed.DueDate, days), now), nil
}

var defaultInstance = NewDefaultEngine()

// NextOccurrence runs the default engine.
func NextOccurrence(completed *domain.Task, now time.Time) (*domain.Task, error) {
	return defaultInstance.NextOccurrence(completed, now)
}
