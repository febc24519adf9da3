package leave

import (
	"context"
)

type LeaveService interface {
	// CalculateWorkingDays counts the working days between the requested dates
	// using the company's holiday calendar.
	CalculateWorkingDays(ctx context.Context, companyID string, req WorkingDaysRequest) (WorkingDaysResponse, error)
}
