package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Day truncates a timestamp to UTC midnight. All availability records and
// booking date ranges are keyed on Day output so that two clients in
// different timezones always hit the same ledger row.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ExpandRange enumerates every calendar date from start to end inclusive,
// ascending. Returns an error when end precedes start.
func ExpandRange(start, end time.Time) ([]time.Time, error) {
	start = Day(start)
	end = Day(end)

	if end.Before(start) {
		return nil, fmt.Errorf("end date %s precedes start date %s", end.Format(DateLayout), start.Format(DateLayout))
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight timestamp.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Format renders a timestamp as its calendar date.
func Format(t time.Time) string {
	return Day(t).Format(DateLayout)
}
