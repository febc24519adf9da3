// Package workday counts the working days of a leave request: every calendar
// day of an inclusive date range that is not a Saturday, not a Sunday and not
// a company holiday. Half-day requests always count as half a unit.
package workday

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form used for holiday lookups.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidRange        = errors.New("end date is before start date")
	ErrInvalidDurationMode = errors.New("invalid duration mode")
)

// DurationMode maps to the duration_type sent by the leave request form.
type DurationMode string

const (
	FullDay DurationMode = "full_day"
	HalfDay DurationMode = "half_day"
)

// HalfDayUnits is what any half-day request is worth.
const HalfDayUnits = 0.5

// ParseDurationMode accepts the wire names of both modes. The morning and
// afternoon variants used by leave requests collapse into HalfDay.
func ParseDurationMode(s string) (DurationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FullDay):
		return FullDay, nil
	case string(HalfDay), "half_day_morning", "half_day_afternoon":
		return HalfDay, nil
	default:
		return "", ErrInvalidDurationMode
	}
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Calculate is the strict form of the calculator. Reversed ranges are
// rejected with ErrInvalidRange.
func Calculate(r DateRange, mode DurationMode, holidays HolidaySet) (float64, error) {
	if mode == HalfDay {
		return HalfDayUnits, nil
	}

	start := normalize(r.Start)
	end := start
	if !r.End.IsZero() {
		end = normalize(r.End)
	}
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	var workingDays float64
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		if IsWeekend(current) {
			continue
		}
		if holidays.Contains(current) {
			continue
		}
		workingDays++
	}

	return workingDays, nil
}

// Compute never fails. Unparseable dates and reversed ranges yield 0, so
// callers must validate input elsewhere if they need to tell the cases apart.
func Compute(start, end string, mode DurationMode, holidays []Holiday) float64 {
	if mode == HalfDay {
		return HalfDayUnits
	}

	r, err := ParseRange(start, end)
	if err != nil {
		return 0
	}

	days, err := Calculate(r, mode, HolidaySetFrom(holidays))
	if err != nil {
		return 0
	}
	return days
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
