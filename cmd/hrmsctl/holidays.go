package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/client"
	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/debounce"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/spf13/cobra"
)

func newHolidaysCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Browse the company holiday calendar",
	}
	cmd.AddCommand(newHolidaysListCommand(root))
	cmd.AddCommand(newHolidaysBrowseCommand(root))
	return cmd
}

func newHolidaysListCommand(root *rootOptions) *cobra.Command {
	var (
		year     int
		page     int
		pageSize int
		search   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of holidays",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page < 0 {
				return fmt.Errorf("--page must not be negative")
			}
			if pageSize <= 0 {
				return fmt.Errorf("--page-size must be > 0")
			}

			q := pagination.Query{Skip: page * pageSize, Limit: pageSize, Search: search}
			result, err := root.client().ListHolidays(cmd.Context(), q, yearFilter(year))
			if err != nil {
				return err
			}
			printHolidayPage(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only this year (0 = all years)")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page index")
	cmd.Flags().IntVar(&pageSize, "page-size", pagination.DefaultLimit, "Rows per page")
	cmd.Flags().StringVar(&search, "search", "", "Filter by name")
	return cmd
}

func newHolidaysBrowseCommand(root *rootOptions) *cobra.Command {
	var (
		year     int
		pageSize int
		delay    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through holidays interactively",
		Long: "Each line read from stdin is a search term. Lines starting with ':' are commands:\n" +
			"  :n      next page\n" +
			"  :p      previous page\n" +
			"  :s N    page size N\n" +
			"  :q      quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			api := root.client()
			fetch := func(ctx context.Context, q pagination.Query) (client.Page[holiday.HolidayResponse], error) {
				return api.ListHolidays(ctx, q, yearFilter(year))
			}

			out := cmd.OutOrStdout()
			view, err := client.NewListView(pageSize, fetch, func(p client.Page[holiday.HolidayResponse], err error) {
				if err != nil {
					fmt.Fprintf(out, "error: %v\n", err)
					return
				}
				printHolidayPage(out, p)
			}, pagination.WithDebounceDelay(delay))
			if err != nil {
				return err
			}

			return runBrowse(cmd.InOrStdin(), out, view)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Only this year (0 = all years)")
	cmd.Flags().IntVar(&pageSize, "page-size", pagination.DefaultLimit, "Rows per page")
	cmd.Flags().DurationVar(&delay, "debounce", debounce.DefaultDelay, "Quiet period before a search is sent")
	return cmd
}

func yearFilter(year int) *int {
	if year == 0 {
		return nil
	}
	return &year
}

func printHolidayPage(w io.Writer, p client.Page[holiday.HolidayResponse]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tNAME\tID")
	for _, h := range p.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Date, h.Name, h.ID)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "page %d/%d, %d total", p.Meta.Page, p.Meta.TotalPages, p.Meta.TotalItems)
	if p.Query.Search != "" {
		fmt.Fprintf(w, ", search %q", p.Query.Search)
	}
	fmt.Fprintln(w)
}
