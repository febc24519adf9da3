package holiday

import "errors"

var (
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrHolidayExists    = errors.New("a holiday already exists on this date")
	ErrUnsupportedFile  = errors.New("unsupported file type, expected .xlsx or .xls")
	ErrMissingHeaderRow = errors.New("spreadsheet must start with a header row containing date and name")
	ErrEmptySpreadsheet = errors.New("spreadsheet has no data rows")
)
