// Package dates provides civil-date helpers for the fixture engine. All
// generated business dates are whole days pinned to UTC midnight; wall
// clocks only appear on created/updated timestamps.
package dates

import (
	"fmt"
	"time"
)

// ISOLayout is the wire format for civil dates.
const ISOLayout = "2006-01-02"

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FromISO parses a YYYY-MM-DD string.
func FromISO(s string) (time.Time, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: parse %q: %w", s, err)
	}
	return t, nil
}

// ISO renders a civil date as YYYY-MM-DD.
func ISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// AddDays shifts a civil date by n whole days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Clamp bounds a civil date to [min, max].
func Clamp(t, min, max time.Time) time.Time {
	if t.Before(min) {
		return min
	}
	if t.After(max) {
		return max
	}
	return t
}

// DaysBetween returns a-b in whole days.
func DaysBetween(a, b time.Time) int {
	return int(Day(a).Sub(Day(b)).Hours() / 24)
}
