package query

import "github.com/phrazzld/taskmate-api/internal/domain"

// Page is one window over an ordered task list.
type Page struct {
	Tasks   []*domain.Task `json:"tasks"`
	Total   int            `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	HasMore bool           `json:"has_more"`
}

// Paginate returns at most limit tasks starting at offset. A negative offset
// is treated as zero and a non-positive limit returns everything from offset.
func Paginate(tasks []*domain.Task, limit, offset int) Page {
	total := len(tasks)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	window := make([]*domain.Task, end-offset)
	copy(window, tasks[offset:end])

	return Page{
		Tasks:   window,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: end < total,
	}
}
