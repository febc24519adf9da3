package leave

import (
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

// WorkingDaysRequest asks how many working days a leave request would consume.
type WorkingDaysRequest struct {
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationType string `json:"duration_type"`
}

func (r *WorkingDaysRequest) Validate() error {
	var errs validator.ValidationErrors

	// Start date
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if _, err := workday.ParseDate(r.StartDate); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	// End date is optional, a missing end means a single day
	if !validator.IsEmpty(r.EndDate) {
		if _, err := workday.ParseDate(r.EndDate); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a valid date (YYYY-MM-DD)",
			})
		}
	}

	// Duration type
	if _, err := workday.ParseDurationMode(r.DurationType); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "duration_type",
			Message: "duration_type must be one of: full_day, half_day, half_day_morning, half_day_afternoon",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type WorkingDaysResponse struct {
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	DurationType    string   `json:"duration_type"`
	WorkingDays     float64  `json:"working_days"`
	CalendarDays    int      `json:"calendar_days"`
	HolidaysApplied []string `json:"holidays_applied"`
}
