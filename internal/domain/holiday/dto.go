package holiday

import (
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

type CreateHolidayRequest struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	// Date
	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, err := workday.ParseDate(r.Date); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid date (YYYY-MM-DD)",
		})
	}

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayFilter struct {
	pagination.Query

	// Filter
	Year *int `json:"year,omitempty"`
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Year != nil && (*f.Year < 1900 || *f.Year > 9999) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1900 and 9999",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:   h.ID,
		Date: h.Date.Format(workday.DateLayout),
		Name: h.Name,
	}
}

type ListHolidayResponse struct {
	Holidays []HolidayResponse `json:"holidays"`
	Meta     pagination.Meta   `json:"meta"`
}

type ImportHolidayResponse struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
	// ArchivedAs is the storage key of the uploaded file, when archiving is on.
	ArchivedAs string `json:"archived_as,omitempty"`
}

// ImportError describes a spreadsheet row that was not imported. Row is 1-based.
type ImportError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
