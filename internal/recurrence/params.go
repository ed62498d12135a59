package recurrence

import "github.com/phrazzld/taskmate-api/internal/domain"

// Params defines how far each recurrence interval moves a due date.
type Params struct {
	IntervalDays map[domain.Interval]int
}

// NewDefaultParams returns one day for Daily and seven for Weekly.
func NewDefaultParams() *Params {
	return &Params{
		IntervalDays: map[domain.Interval]int{
			domain.IntervalDaily:  1,
			domain.IntervalWeekly: 7,
		},
	}
}

// Days returns the calendar days for interval and whether it is known.
func (p *Params) Days(interval domain.Interval) (int, bool) {
	days, ok := p.IntervalDays[interval]
	return days, ok && days > 0
}
