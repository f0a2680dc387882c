// Package export renders job lists as calendar feeds and spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"jobcal-engine/internal/domain"
)

const ICSProductID = "-//jobcal//Job Calendar//EN"

type ICSOptions struct {
	CalendarName string
	Location     *time.Location // zone for timed jobs; nil means UTC
	Now          time.Time      // DTSTAMP
	// Duration of a timed job. Jobs without a time are all-day events.
	Duration time.Duration
}

// WriteICS writes jobs as a VCALENDAR. UIDs depend on the job id only, so
// a subscribed calendar updates moved jobs in place.
func WriteICS(w io.Writer, jobs []domain.Job, opts ICSOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	if opts.Duration <= 0 {
		opts.Duration = time.Hour
	}
	if opts.CalendarName == "" {
		opts.CalendarName = "Jobs"
	}

	cal := ics.NewCalendar()
	cal.SetProductId(ICSProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(plain(opts.CalendarName))
	cal.SetXWRTimezone(loc.String())

	for _, j := range jobs {
		if j.Date.IsZero() {
			continue
		}
		ev := cal.AddEvent(fmt.Sprintf("job-%d@jobcal", j.ID))
		ev.SetDtStampTime(opts.Now)
		if start, ok := startTime(j, loc); ok {
			ev.SetStartAt(start)
			ev.SetEndAt(start.Add(opts.Duration))
		} else {
			ev.SetAllDayStartAt(j.Date.In(time.UTC))
			ev.SetAllDayEndAt(j.Date.AddDays(1).In(time.UTC))
		}
		ev.SetSummary(plain(j.Title))
		ev.SetDescription(description(j))
		if j.Address != "" {
			ev.SetLocation(plain(j.Address))
		}
		ev.SetStatus(icsStatus(j.Status))
		ev.AddCategory(j.JobType.Label())
	}
	return cal.SerializeTo(w, ics.WithNewLineWindows)
}

// startTime parses the display "HH:MM" when it is well formed.
func startTime(j domain.Job, loc *time.Location) (time.Time, bool) {
	if j.Time == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", j.Time)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(j.Date.Year, j.Date.Month, j.Date.Day, t.Hour(), t.Minute(), 0, 0, loc), true
}

func description(j domain.Job) string {
	parts := []string{"Customer: " + plain(j.Customer), "Status: " + j.Status.Label()}
	if j.Phone != "" {
		parts = append(parts, "Phone: "+plain(j.Phone))
	}
	if j.TeamLeader != nil {
		parts = append(parts, "Team leader: "+plain(j.TeamLeader.Name))
	}
	if len(j.Employees) > 0 {
		parts = append(parts, "Crew: "+plain(crew(j)))
	}
	return strings.Join(parts, "\n")
}

func icsStatus(s domain.Status) ics.ObjectStatus {
	switch s {
	case domain.StatusScheduled:
		return ics.ObjectStatusTentative
	default:
		return ics.ObjectStatusConfirmed
	}
}

// plain drops carriage returns; the serializer escapes the rest of TEXT.
func plain(s string) string { return strings.ReplaceAll(s, "\r", "") }
