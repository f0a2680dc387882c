// Package calendar lays jobs out on month, week and day grids.
package calendar

import (
	"fmt"
	"time"

	"jobcal-engine/internal/domain"
)

type Mode string

const (
	ModeMonth Mode = "month"
	ModeWeek  Mode = "week"
	ModeDay   Mode = "day"
)

// ParseMode accepts "" as month, which is the landing view.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMonth:
		return ModeMonth, nil
	case ModeWeek:
		return ModeWeek, nil
	case ModeDay:
		return ModeDay, nil
	}
	return "", fmt.Errorf("invalid mode %q: want month, week or day", s)
}

// Cell is one calendar-day slot.
type Cell struct {
	Date         domain.Date  `json:"date"`
	Day          int          `json:"day"`
	CurrentMonth bool         `json:"currentMonth"`
	Today        bool         `json:"today"`
	Jobs         []domain.Job `json:"jobs"`
}

type Grid struct {
	Mode      Mode        `json:"mode"`
	Label     string      `json:"label"`
	Reference domain.Date `json:"reference"`
	Start     domain.Date `json:"start"`
	End       domain.Date `json:"end"`
	Cells     []Cell      `json:"cells"`
	JobCount  int         `json:"jobCount"`
}

// byDate buckets jobs by exact calendar date, keeping input order per day.
type byDate map[domain.Date][]domain.Job

func index(jobs []domain.Job) byDate {
	m := make(byDate, len(jobs))
	for _, j := range jobs {
		m[j.Date] = append(m[j.Date], j)
	}
	return m
}

func (b byDate) on(d domain.Date) []domain.Job {
	if js := b[d]; js != nil {
		return js
	}
	return []domain.Job{}
}

// Build dispatches on mode. Callers filter jobs before handing them in.
func Build(mode Mode, ref, today domain.Date, jobs []domain.Job) Grid {
	switch mode {
	case ModeWeek:
		return WeekGrid(ref, today, jobs)
	case ModeDay:
		return DayGrid(ref, today, jobs)
	default:
		return MonthGrid(ref, today, jobs)
	}
}

// MonthGrid returns full Monday-first rows covering ref's month. Padding
// cells from the neighbouring months carry their own jobs too.
func MonthGrid(ref, today domain.Date, jobs []domain.Job) Grid {
	first := ref.FirstOfMonth()
	last := ref.LastOfMonth()

	leading := (int(first.Weekday()) + 6) % 7
	total := leading + last.Day
	trailing := (7 - total%7) % 7

	start := first.AddDays(-leading)
	end := last.AddDays(trailing)
	return span(ModeMonth, ref, today, start, end, index(jobs))
}

// WeekGrid returns the Sunday-anchored week containing ref.
func WeekGrid(ref, today domain.Date, jobs []domain.Job) Grid {
	start := WeekStart(ref)
	return span(ModeWeek, ref, today, start, start.AddDays(6), index(jobs))
}

func DayGrid(ref, today domain.Date, jobs []domain.Job) Grid {
	return span(ModeDay, ref, today, ref, ref, index(jobs))
}

// WeekStart is the Sunday on or before d.
func WeekStart(d domain.Date) domain.Date {
	return d.AddDays(-int(d.Weekday()))
}

func span(mode Mode, ref, today, start, end domain.Date, jobs byDate) Grid {
	g := Grid{
		Mode:      mode,
		Label:     Label(mode, ref),
		Reference: ref,
		Start:     start,
		End:       end,
	}
	for d := start; !d.After(end); d = d.AddDays(1) {
		c := Cell{
			Date:         d,
			Day:          d.Day,
			CurrentMonth: d.SameMonth(ref),
			Today:        d == today,
			Jobs:         jobs.on(d),
		}
		g.JobCount += len(c.Jobs)
		g.Cells = append(g.Cells, c)
	}
	return g
}

// Label renders the header text for mode at ref, for example
// "October 2026", "October 18 - 24, 2026" or "Monday, October 19, 2026".
func Label(mode Mode, ref domain.Date) string {
	switch mode {
	case ModeWeek:
		s := WeekStart(ref)
		e := s.AddDays(6)
		switch {
		case s.Year != e.Year:
			return fmt.Sprintf("%s %d, %d - %s %d, %d", s.Month, s.Day, s.Year, e.Month, e.Day, e.Year)
		case s.Month != e.Month:
			return fmt.Sprintf("%s %d - %s %d, %d", s.Month, s.Day, e.Month, e.Day, s.Year)
		default:
			return fmt.Sprintf("%s %d - %d, %d", s.Month, s.Day, e.Day, s.Year)
		}
	case ModeDay:
		return fmt.Sprintf("%s, %s %d, %d", ref.Weekday(), ref.Month, ref.Day, ref.Year)
	default:
		return fmt.Sprintf("%s %d", ref.Month, ref.Year)
	}
}

// Weekdays returns column headers in grid order for mode.
func Weekdays(mode Mode) []time.Weekday {
	if mode == ModeMonth {
		return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	}
	return []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}
}
