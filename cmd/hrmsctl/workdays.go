package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/leave"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
	"github.com/spf13/cobra"
)

func newWorkdaysCommand(root *rootOptions) *cobra.Command {
	var (
		start    string
		end      string
		duration string
		holidays []string
		remote   bool
	)

	cmd := &cobra.Command{
		Use:   "workdays",
		Short: "Count the working days of a leave period",
		Example: "  hrmsctl workdays --start 2024-01-01 --end 2024-01-07 --holiday 2024-01-03\n" +
			"  hrmsctl workdays --start 2024-05-01 --duration half_day_morning\n" +
			"  hrmsctl workdays --start 2024-12-23 --end 2024-12-31 --remote",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(start) == "" {
				return fmt.Errorf("--start is required")
			}

			if remote {
				result, err := root.client().WorkingDays(cmd.Context(), leave.WorkingDaysRequest{
					StartDate:    start,
					EndDate:      end,
					DurationType: duration,
				})
				if err != nil {
					return err
				}
				printWorkingDays(cmd.OutOrStdout(), result)
				return nil
			}

			result, err := localWorkingDays(start, end, duration, holidays)
			if err != nil {
				return err
			}
			printWorkingDays(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day of leave, defaults to --start")
	cmd.Flags().StringVar(&duration, "duration", string(workday.FullDay), "full_day or half_day")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Holiday date to skip, repeatable (local mode)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Use the company holiday calendar from the API")
	return cmd
}

// localWorkingDays runs the calculator offline against the given holidays.
func localWorkingDays(start, end, duration string, holidays []string) (leave.WorkingDaysResponse, error) {
	mode, err := workday.ParseDurationMode(duration)
	if err != nil {
		return leave.WorkingDaysResponse{}, fmt.Errorf("--duration: %w", err)
	}

	r, err := workday.ParseRange(start, end)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	wire := make([]workday.Holiday, 0, len(holidays))
	for _, h := range holidays {
		wire = append(wire, workday.Holiday{Date: strings.TrimSpace(h)})
	}
	set := workday.HolidaySetFrom(wire)

	days, err := workday.Calculate(r, mode, set)
	if err != nil {
		return leave.WorkingDaysResponse{}, err
	}

	applied := []string{}
	if mode == workday.FullDay {
		applied = set.Within(r)
	}

	return leave.WorkingDaysResponse{
		StartDate:       r.Start.Format(workday.DateLayout),
		EndDate:         r.End.Format(workday.DateLayout),
		DurationType:    string(mode),
		WorkingDays:     days,
		CalendarDays:    r.Days(),
		HolidaysApplied: applied,
	}, nil
}

func printWorkingDays(w io.Writer, r leave.WorkingDaysResponse) {
	fmt.Fprintf(w, "Period:        %s -> %s (%s)\n", r.StartDate, r.EndDate, r.DurationType)
	fmt.Fprintf(w, "Calendar days: %d\n", r.CalendarDays)
	if len(r.HolidaysApplied) > 0 {
		fmt.Fprintf(w, "Holidays:      %s\n", strings.Join(r.HolidaysApplied, ", "))
	}
	fmt.Fprintf(w, "Working days:  %g\n", r.WorkingDays)
}
