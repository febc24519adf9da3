package workday

import (
	"strings"
	"time"
)

// dateLayouts are tried in order. Anything carrying a time of day is cut back
// to the calendar date it was written in.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
}

// ParseDate parses a date-like string and returns UTC midnight of its
// calendar date.
func ParseDate(s string) (time.Time, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return normalize(parsed), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// ParseRange parses both ends of a range. An empty end means a single-day
// range.
func ParseRange(start, end string) (DateRange, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}

	endDate := startDate
	if strings.TrimSpace(end) != "" {
		endDate, err = ParseDate(end)
		if err != nil {
			return DateRange{}, err
		}
	}

	if endDate.Before(startDate) {
		return DateRange{}, ErrInvalidRange
	}

	return DateRange{Start: startDate, End: endDate}, nil
}

// normalize drops the clock and zone but keeps the calendar date as written.
func normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
