package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"jobcal-engine/internal/domain"
)

type View string

const (
	ViewAll       View = "all"
	ViewCurrent   View = "current"   // in progress or confirmed
	ViewCompleted View = "completed" // completed only
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case "", ViewAll:
		return ViewAll, nil
	case ViewCurrent, ViewCompleted:
		return v, nil
	}
	return "", fmt.Errorf("invalid view %q: want all, current or completed", s)
}

func (v View) Matches(j domain.Job) bool {
	switch v {
	case ViewCurrent:
		return j.Status == domain.StatusInProgress || j.Status == domain.StatusConfirmed
	case ViewCompleted:
		return j.Status == domain.StatusCompleted
	default:
		return true
	}
}

type SortField string

const (
	SortDate     SortField = "date"
	SortTime     SortField = "time"
	SortCustomer SortField = "customer"
	SortStatus   SortField = "status"
	SortJobType  SortField = "jobType"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortState is the table header state. The zero value sorts by date ascending.
type SortState struct {
	Field SortField `json:"field"`
	Order Order     `json:"order"`
}

// Toggle flips direction when field is already active, otherwise switches
// to field ascending.
func (s SortState) Toggle(field SortField) SortState {
	s = s.normalized()
	if s.Field == field {
		if s.Order == Asc {
			s.Order = Desc
		} else {
			s.Order = Asc
		}
		return s
	}
	return SortState{Field: field, Order: Asc}
}

func (s SortState) normalized() SortState {
	if s.Field == "" {
		s.Field = SortDate
	}
	if s.Order == "" {
		s.Order = Asc
	}
	return s
}

// ParseSort whitelists field and order. Empty values take the defaults.
func ParseSort(field, order string) (SortState, error) {
	s := SortState{Field: SortField(field), Order: Order(strings.ToLower(order))}.normalized()
	if _, ok := sortKeys[s.Field]; !ok {
		return SortState{}, fmt.Errorf("invalid sort %q: want date, time, customer, status or jobType", field)
	}
	if s.Order != Asc && s.Order != Desc {
		return SortState{}, fmt.Errorf("invalid order %q: want asc or desc", order)
	}
	return s, nil
}

// sortKeys compares two jobs on one column.
var sortKeys = map[SortField]func(a, b domain.Job) int{
	SortDate: func(a, b domain.Job) int { return a.Date.Compare(b.Date) },
	SortTime: func(a, b domain.Job) int { return cmp.Compare(timeKey(a), timeKey(b)) },
	SortCustomer: func(a, b domain.Job) int {
		return cmp.Compare(strings.ToLower(a.Customer), strings.ToLower(b.Customer))
	},
	SortStatus:  func(a, b domain.Job) int { return cmp.Compare(a.Status, b.Status) },
	SortJobType: func(a, b domain.Job) int { return cmp.Compare(a.JobType, b.JobType) },
}

// A job without a time sorts as midnight.
func timeKey(j domain.Job) string {
	if j.Time == "" {
		return "00:00"
	}
	return j.Time
}

// SortJobs orders jobs in place. The sort is stable in both directions, so
// equal keys keep their input order.
func SortJobs(jobs []domain.Job, s SortState) {
	s = s.normalized()
	key, ok := sortKeys[s.Field]
	if !ok {
		return
	}
	sign := 1
	if s.Order == Desc {
		sign = -1
	}
	slices.SortStableFunc(jobs, func(a, b domain.Job) int { return sign * key(a, b) })
}

type ListJobsOpts struct {
	View    View
	Filters domain.Filters
	Sort    *SortState // nil keeps insertion order
	Limit   int        // <= 0 means no limit
}

// List applies filters, then the view, then the sort.
func (s *Store) List(opts ListJobsOpts) []domain.Job {
	s.mu.RLock()
	out := make([]domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if opts.Filters.Matches(j) && opts.View.Matches(j) {
			out = append(out, j.Clone())
		}
	}
	s.mu.RUnlock()

	if opts.Sort != nil {
		SortJobs(out, *opts.Sort)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}
