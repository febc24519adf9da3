package cron

import (
	"context"
	"log/slog"
	"time"
)

// CalendarWarmer preloads the cached holiday calendars of a year.
type CalendarWarmer interface {
	WarmCalendar(ctx context.Context, year int) (int, error)
}

type CalendarJobs struct {
	warmer   CalendarWarmer
	interval time.Duration
	now      func() time.Time
}

func NewCalendarJobs(warmer CalendarWarmer, interval time.Duration) *CalendarJobs {
	return &CalendarJobs{
		warmer:   warmer,
		interval: interval,
		now:      time.Now,
	}
}

func (j *CalendarJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("holiday-calendar-warmup", j.interval, j.WarmHolidayCalendars)
}

// WarmHolidayCalendars loads the current year and, during December, the next
// one so that leave requests crossing the new year hit a warm cache.
func (j *CalendarJobs) WarmHolidayCalendars(ctx context.Context) error {
	now := j.now().UTC()
	years := []int{now.Year()}
	if now.Month() == time.December {
		years = append(years, now.Year()+1)
	}

	for _, year := range years {
		warmed, err := j.warmer.WarmCalendar(ctx, year)
		if err != nil {
			return err
		}
		slog.Info("Cron: holiday calendars warmed", "year", year, "companies", warmed)
	}
	return nil
}
