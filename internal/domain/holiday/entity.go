package holiday

import (
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

// Holiday is a non-working calendar date configured for a company.
type Holiday struct {
	ID        string
	CompanyID string
	Date      time.Time
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToSet converts stored holidays into the calculator's lookup set.
func ToSet(holidays []Holiday) workday.HolidaySet {
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	return workday.NewHolidaySet(dates...)
}

// CacheTag groups every cached query over a company's holiday calendar.
func CacheTag(companyID string) string {
	return "holidays:" + companyID
}
