package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day and no zone.
// The zero value is "no date".
type Date struct {
	civil.Date
}

// NewDate normalizes overflowing values the same way time.Date does,
// so NewDate(2026, 1, 32) is 2026-02-01.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day t falls on in t's own location.
func DateOf(t time.Time) Date { return Date{civil.DateOf(t)} }

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(now.In(loc))
}

func ParseDate(s string) (Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return Date{d}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Date.String()
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return d.Date.In(loc)
}

func (d Date) AddDays(n int) Date { return Date{d.Date.AddDays(n)} }

// AddMonths moves by n months and clamps the day to the target month length,
// so Jan 31 + 1 month is Feb 28 (or 29).
func (d Date) AddMonths(n int) Date {
	first := NewDate(d.Year, d.Month+time.Month(n), 1)
	first.Day = min(d.Day, DaysIn(first.Year, first.Month))
	return first
}

// DaysSince is the signed day count from o to d.
func (d Date) DaysSince(o Date) int { return d.Date.DaysSince(o.Date) }

// UTC midnight has no DST edge.
func (d Date) Weekday() time.Weekday { return d.Date.In(time.UTC).Weekday() }

// FirstOfMonth returns day 1 of d's month.
func (d Date) FirstOfMonth() Date {
	d.Day = 1
	return d
}

// LastOfMonth returns the final day of d's month.
func (d Date) LastOfMonth() Date {
	d.Day = DaysIn(d.Year, d.Month)
	return d
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.Date.Compare(o.Date) }
func (d Date) Before(o Date) bool { return d.Date.Before(o.Date) }
func (d Date) After(o Date) bool  { return d.Date.After(o.Date) }

// SameMonth reports whether d and o share year and month.
func (d Date) SameMonth(o Date) bool { return d.Year == o.Year && d.Month == o.Month }

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = p
	return nil
}

func (d *Date) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", n.Line)
	}
	p, err := ParseDate(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*d = p
	return nil
}

func (d Date) MarshalYAML() (any, error) { return d.String(), nil }
