package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/user"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		PayloadTooLarge(w, "Uploaded file is too large")
		return
	}

	switch {
	// Working day errors
	case errors.Is(err, workday.ErrInvalidRange):
		ValidationError(w, map[string]string{"end_date": "end_date must not be before start_date"})
	case errors.Is(err, workday.ErrInvalidDate):
		ValidationError(w, map[string]string{"date": "date must be a valid date (YYYY-MM-DD)"})
	case errors.Is(err, workday.ErrInvalidDurationMode):
		ValidationError(w, map[string]string{"duration_type": "duration_type must be full_day or half_day"})
	case errors.Is(err, leave.ErrRangeTooLong):
		ValidationError(w, map[string]string{"end_date": err.Error()})

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayExists):
		Conflict(w, "A holiday already exists on this date")
	case errors.Is(err, holiday.ErrUnsupportedFile),
		errors.Is(err, holiday.ErrMissingHeaderRow),
		errors.Is(err, holiday.ErrEmptySpreadsheet):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// User domain errors
	case errors.Is(err, user.ErrUnknownRole):
		Forbidden(w, "Unknown role")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCompanyAccessDenied):
		Forbidden(w, "Company access denied")
	case errors.Is(err, user.ErrCompanyIDRequired):
		BadRequest(w, "Company ID is required", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
