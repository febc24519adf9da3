package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, companyID, id string) (Holiday, error)
	List(ctx context.Context, companyID string, filter HolidayFilter) ([]Holiday, int64, error)

	// ListBetween returns every holiday of the company with from <= date <= to.
	ListBetween(ctx context.Context, companyID string, from, to time.Time) ([]Holiday, error)

	// CompanyIDsWithHolidays lists the companies that have at least one holiday in year.
	CompanyIDsWithHolidays(ctx context.Context, year int) ([]string, error)

	// BulkUpsert inserts the holidays, renaming an existing entry on the same date.
	// It returns the number of rows written.
	BulkUpsert(ctx context.Context, companyID string, holidays []Holiday) (int, error)
}
