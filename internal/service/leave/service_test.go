package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCalendar struct {
	mock.Mock
}

func (m *mockCalendar) CalendarBetween(ctx context.Context, companyID string, from, to time.Time) (workday.HolidaySet, error) {
	args := m.Called(ctx, companyID, from, to)
	return args.Get(0).(workday.HolidaySet), args.Error(1)
}

func day(s string) time.Time {
	d, err := workday.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLeaveService_CalculateWorkingDays(t *testing.T) {
	ctx := context.Background()

	t.Run("week with a weekday holiday", func(t *testing.T) {
		calendar := new(mockCalendar)
		svc := NewLeaveService(calendar)

		calendar.On("CalendarBetween", ctx, "c-1", day("2024-01-01"), day("2024-01-07")).
			Return(workday.NewHolidaySet(day("2024-01-03"), day("2024-01-06")), nil)

		resp, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-07",
		})
		require.NoError(t, err)

		assert.Equal(t, 4.0, resp.WorkingDays)
		assert.Equal(t, 7, resp.CalendarDays)
		assert.Equal(t, "full_day", resp.DurationType)
		assert.Equal(t, []string{"2024-01-03"}, resp.HolidaysApplied)
		calendar.AssertExpectations(t)
	})

	t.Run("missing end date is a single day", func(t *testing.T) {
		calendar := new(mockCalendar)
		svc := NewLeaveService(calendar)

		calendar.On("CalendarBetween", ctx, "c-1", day("2024-01-02"), day("2024-01-02")).
			Return(workday.HolidaySet{}, nil)

		resp, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{StartDate: "2024-01-02T09:00:00Z"})
		require.NoError(t, err)

		assert.Equal(t, 1.0, resp.WorkingDays)
		assert.Equal(t, "2024-01-02", resp.EndDate)
		assert.Empty(t, resp.HolidaysApplied)
		assert.NotNil(t, resp.HolidaysApplied)
	})

	t.Run("half day skips the calendar", func(t *testing.T) {
		calendar := new(mockCalendar)
		svc := NewLeaveService(calendar)

		resp, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{
			StartDate:    "2024-01-06",
			EndDate:      "2024-01-06",
			DurationType: "half_day_morning",
		})
		require.NoError(t, err)

		assert.Equal(t, 0.5, resp.WorkingDays)
		assert.Equal(t, "half_day", resp.DurationType)
		calendar.AssertNotCalled(t, "CalendarBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reversed range", func(t *testing.T) {
		svc := NewLeaveService(new(mockCalendar))

		_, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{StartDate: "2024-01-10", EndDate: "2024-01-01"})
		assert.ErrorIs(t, err, workday.ErrInvalidRange)
	})

	t.Run("range too long", func(t *testing.T) {
		svc := NewLeaveService(new(mockCalendar))

		_, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{StartDate: "2024-01-01", EndDate: "2025-06-01"})
		assert.ErrorIs(t, err, leave.ErrRangeTooLong)
	})

	t.Run("invalid fields", func(t *testing.T) {
		svc := NewLeaveService(new(mockCalendar))

		_, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{
			StartDate:    "",
			EndDate:      "tomorrow",
			DurationType: "quarter_day",
		})

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.True(t, verrs.Has("start_date"))
		assert.True(t, verrs.Has("end_date"))
		assert.True(t, verrs.Has("duration_type"))
	})

	t.Run("calendar failure", func(t *testing.T) {
		calendar := new(mockCalendar)
		svc := NewLeaveService(calendar)

		boom := errors.New("redis down and db down")
		calendar.On("CalendarBetween", ctx, "c-1", mock.Anything, mock.Anything).Return(workday.HolidaySet{}, boom)

		_, err := svc.CalculateWorkingDays(ctx, "c-1", leave.WorkingDaysRequest{StartDate: "2024-01-01"})
		assert.ErrorIs(t, err, boom)
	})
}
