// Package query filters, searches, sorts and pages task snapshots.
//
// Every function is pure: inputs are never mutated and results are new
// slices that share task pointers with the input.
package query

import (
	"slices"
	"strings"

	"github.com/phrazzld/taskmate-api/internal/domain"
)

// Sort keys understood by Sort.
const (
	SortPriority  = "priority"
	SortCreatedAt = "created_at"
	SortDueDate   = "due_date"
)

// Criteria holds optional filter predicates. Nil fields match everything.
type Criteria struct {
	Status   *domain.Status
	Priority *domain.Priority
}

// Query combines a keyword, filter criteria and a sort key.
type Query struct {
	Keyword  string
	Criteria Criteria
	SortKey  string
}

// Filter returns the tasks matching every present predicate, in input order.
func Filter(tasks []*domain.Task, c Criteria) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if c.Status != nil && task.Status != *c.Status {
			continue
		}
		if c.Priority != nil && task.Priority != *c.Priority {
			continue
		}
		out = append(out, task)
	}
	return out
}

// Search returns the tasks whose title or description contains keyword,
// ignoring case. A blank keyword returns tasks unchanged.
func Search(tasks []*domain.Task, keyword string) []*domain.Task {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return tasks
	}

	needle := strings.ToLower(keyword)
	out := make([]*domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) {
			out = append(out, task)
		}
	}
	return out
}

// Sort orders a copy of tasks by key. Ties keep their input order.
//
//   - "priority": Urgent, High, Medium, Low
//   - "created_at": newest first
//   - "due_date": soonest first, undated tasks last
//
// Any other key returns tasks in input order.
func Sort(tasks []*domain.Task, key string) []*domain.Task {
	cmp := comparator(key)
	if cmp == nil {
		return tasks
	}

	out := slices.Clone(tasks)
	slices.SortStableFunc(out, cmp)
	return out
}

// Run applies search, then filter, then sort.
func Run(tasks []*domain.Task, q Query) []*domain.Task {
	return Sort(Filter(Search(tasks, q.Keyword), q.Criteria), q.SortKey)
}

func comparator(key string) func(a, b *domain.Task) int {
	switch key {
	case SortPriority:
		return func(a, b *domain.Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		}
	case SortCreatedAt:
		return func(a, b *domain.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	case SortDueDate:
		return func(a, b *domain.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			default:
				return a.DueDate.Compare(*b.DueDate)
			}
		}
	default:
		return nil
	}
}
