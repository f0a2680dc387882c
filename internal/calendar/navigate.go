package calendar

import (
	"fmt"

	"jobcal-engine/internal/domain"
)

type Direction string

const (
	Prev  Direction = "prev"
	Next  Direction = "next"
	Today Direction = "today"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Prev, Next, Today:
		return d, nil
	}
	return "", fmt.Errorf("invalid direction %q: want prev, next or today", s)
}

// Navigate steps ref by one unit of mode. Month steps clamp the day, so
// stepping forward from January 31 lands on the last day of February.
func Navigate(mode Mode, ref domain.Date, dir Direction, today domain.Date) domain.Date {
	if dir == Today {
		return today
	}
	step := 1
	if dir == Prev {
		step = -1
	}
	switch mode {
	case ModeWeek:
		return ref.AddDays(7 * step)
	case ModeDay:
		return ref.AddDays(step)
	default:
		return ref.AddMonths(step)
	}
}

// DayDetail is the side panel for a single date.
type DayDetail struct {
	Date    domain.Date  `json:"date"`
	Label   string       `json:"label"`
	Today   bool         `json:"today"`
	Jobs    []domain.Job `json:"jobs"`
	Summary string       `json:"summary"`
}

func Day(d, today domain.Date, jobs []domain.Job) DayDetail {
	on := index(jobs).on(d)
	return DayDetail{
		Date:    d,
		Label:   Label(ModeDay, d),
		Today:   d == today,
		Jobs:    on,
		Summary: Summary(len(on)),
	}
}

// Summary renders "1 job" or "N jobs".
func Summary(n int) string {
	if n == 1 {
		return "1 job"
	}
	return fmt.Sprintf("%d jobs", n)
}
