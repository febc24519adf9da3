package workday

import "time"

// Holiday is the shape the holiday endpoint returns: a list of {date}.
type Holiday struct {
	Date string `json:"date"`
}

// HolidaySet holds holiday dates keyed by their canonical yyyy-MM-dd form.
// The zero value is an empty set.
type HolidaySet struct {
	dates map[string]struct{}
}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := HolidaySet{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		set.dates[normalize(d).Format(DateLayout)] = struct{}{}
	}
	return set
}

// HolidaySetFrom builds a set from wire holidays, skipping entries whose date
// does not parse.
func HolidaySetFrom(holidays []Holiday) HolidaySet {
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		d, err := ParseDate(h.Date)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return NewHolidaySet(dates...)
}

func (s HolidaySet) Contains(t time.Time) bool {
	if s.dates == nil {
		return false
	}
	_, ok := s.dates[normalize(t).Format(DateLayout)]
	return ok
}

func (s HolidaySet) Len() int {
	return len(s.dates)
}

// Within returns the holiday dates that fall on weekdays inside r, in order.
func (s HolidaySet) Within(r DateRange) []string {
	var hits []string
	if s.Len() == 0 {
		return hits
	}
	for current := normalize(r.Start); !current.After(normalize(r.End)); current = current.AddDate(0, 0, 1) {
		if IsWeekend(current) {
			continue
		}
		if s.Contains(current) {
			hits = append(hits, current.Format(DateLayout))
		}
	}
	return hits
}
