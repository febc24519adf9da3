package holiday

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

type HolidayService interface {
	CreateHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, companyID, id string) error
	ListHolidays(ctx context.Context, companyID string, filter HolidayFilter) (ListHolidayResponse, error)
	ImportHolidays(ctx context.Context, companyID, filename string, r io.Reader) (ImportHolidayResponse, error)

	// CalendarYear returns the company's holiday set for year, served from the query cache.
	CalendarYear(ctx context.Context, companyID string, year int) (workday.HolidaySet, error)
	// CalendarBetween merges the cached yearly sets covering [from, to].
	CalendarBetween(ctx context.Context, companyID string, from, to time.Time) (workday.HolidaySet, error)
	// WarmCalendar preloads the yearly sets of every company with holidays in year.
	WarmCalendar(ctx context.Context, year int) (int, error)
}
