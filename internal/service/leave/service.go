package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

// CalendarSource provides the company holiday set for a date span.
type CalendarSource interface {
	CalendarBetween(ctx context.Context, companyID string, from, to time.Time) (workday.HolidaySet, error)
}

type LeaveServiceImpl struct {
	calendar CalendarSource
}

func NewLeaveService(calendar CalendarSource) leave.LeaveService {
	return &LeaveServiceImpl{calendar: calendar}
}

// CalculateWorkingDays implements leave.LeaveService.
func (s *LeaveServiceImpl) CalculateWorkingDays(ctx context.Context, companyID string, req leave.WorkingDaysRequest) (leave.WorkingDaysResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	mode, err := workday.ParseDurationMode(req.DurationType)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	dateRange, err := workday.ParseRange(req.StartDate, req.EndDate)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}
	if dateRange.Days() > leave.MaxRangeDays {
		return leave.WorkingDaysResponse{}, leave.ErrRangeTooLong
	}

	resp := leave.WorkingDaysResponse{
		StartDate:       dateRange.Start.Format(workday.DateLayout),
		EndDate:         dateRange.End.Format(workday.DateLayout),
		DurationType:    string(mode),
		CalendarDays:    dateRange.Days(),
		HolidaysApplied: []string{},
	}

	// A half day is worth the same whatever the calendar says.
	if mode == workday.HalfDay {
		resp.WorkingDays = workday.HalfDayUnits
		return resp, nil
	}

	holidays, err := s.calendar.CalendarBetween(ctx, companyID, dateRange.Start, dateRange.End)
	if err != nil {
		return leave.WorkingDaysResponse{}, fmt.Errorf("failed to load holiday calendar: %w", err)
	}

	workingDays, err := workday.Calculate(dateRange, mode, holidays)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	resp.WorkingDays = workingDays
	if applied := holidays.Within(dateRange); len(applied) > 0 {
		resp.HolidaysApplied = applied
	}
	return resp, nil
}
