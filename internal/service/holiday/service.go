package holiday

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrms-portal/internal/domain/holiday"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/pagination"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/querycache"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/sse"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/storage"
	"github.com/cmlabs-hris/hrms-portal/internal/pkg/workday"
)

// EventPublisher is the part of the SSE hub the service needs.
type EventPublisher interface {
	Publish(companyID, name string, data interface{}) int
}

type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
	cache       *querycache.Cache
	events      EventPublisher
	archive     storage.FileStorage
	now         func() time.Time
}

type Option func(*HolidayServiceImpl)

// WithImportArchive keeps a copy of every uploaded holiday spreadsheet.
func WithImportArchive(archive storage.FileStorage) Option {
	return func(s *HolidayServiceImpl) {
		s.archive = archive
	}
}

func NewHolidayService(holidayRepo holiday.HolidayRepository, cache *querycache.Cache, events EventPublisher, opts ...Option) holiday.HolidayService {
	s := &HolidayServiceImpl{
		holidayRepo: holidayRepo,
		cache:       cache,
		events:      events,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) CreateHoliday(ctx context.Context, companyID string, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := workday.ParseDate(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		CompanyID: companyID,
		Date:      date,
		Name:      req.Name,
	})
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayExists) {
			return holiday.HolidayResponse{}, err
		}
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	resp := holiday.NewHolidayResponse(created)
	s.calendarChanged(ctx, companyID, sse.EventHolidayCreated, resp)
	return resp, nil
}

// DeleteHoliday implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeleteHoliday(ctx context.Context, companyID, id string) error {
	deleted, err := s.holidayRepo.Delete(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holiday: %w", err)
	}

	s.calendarChanged(ctx, companyID, sse.EventHolidayDeleted, holiday.NewHolidayResponse(deleted))
	return nil
}

// ListHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListHolidays(ctx context.Context, companyID string, filter holiday.HolidayFilter) (holiday.ListHolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return holiday.ListHolidayResponse{}, err
	}

	year := "all"
	if filter.Year != nil {
		year = strconv.Itoa(*filter.Year)
	}
	key := querycache.NewKey([]string{holiday.CacheTag(companyID)},
		"holidays", companyID, "list", year, filter.Query.Values().Encode())

	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (holiday.ListHolidayResponse, error) {
		items, total, err := s.holidayRepo.List(ctx, companyID, filter)
		if err != nil {
			return holiday.ListHolidayResponse{}, fmt.Errorf("failed to list holidays: %w", err)
		}

		responses := make([]holiday.HolidayResponse, 0, len(items))
		for _, h := range items {
			responses = append(responses, holiday.NewHolidayResponse(h))
		}

		return holiday.ListHolidayResponse{
			Holidays: responses,
			Meta:     pagination.NewMeta(filter.Query, total),
		}, nil
	})
}

// ImportHolidays implements holiday.HolidayService.
func (s *HolidayServiceImpl) ImportHolidays(ctx context.Context, companyID, filename string, r io.Reader) (holiday.ImportHolidayResponse, error) {
	var archivedAs string
	if s.archive != nil {
		data, err := io.ReadAll(r)
		if err != nil {
			return holiday.ImportHolidayResponse{}, fmt.Errorf("failed to read upload: %w", err)
		}
		archivedAs = s.archiveUpload(ctx, companyID, filename, data)
		r = bytes.NewReader(data)
	}

	rows, err := spreadsheet.ReadRows(r, filename)
	if err != nil {
		switch {
		case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
			return holiday.ImportHolidayResponse{}, holiday.ErrUnsupportedFile
		case errors.Is(err, spreadsheet.ErrEmptyWorksheet), errors.Is(err, spreadsheet.ErrNoWorksheet):
			return holiday.ImportHolidayResponse{}, holiday.ErrEmptySpreadsheet
		}
		return holiday.ImportHolidayResponse{}, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	holidays, importErrors, err := parseHolidayRows(rows)
	if err != nil {
		return holiday.ImportHolidayResponse{}, err
	}

	resp := holiday.ImportHolidayResponse{
		Skipped:    len(importErrors),
		Errors:     importErrors,
		ArchivedAs: archivedAs,
	}
	if len(holidays) == 0 {
		return resp, nil
	}

	written, err := s.holidayRepo.BulkUpsert(ctx, companyID, holidays)
	if err != nil {
		return holiday.ImportHolidayResponse{}, fmt.Errorf("failed to import holidays: %w", err)
	}
	resp.Imported = written

	s.calendarChanged(ctx, companyID, sse.EventHolidayImported, resp)
	return resp, nil
}

// parseHolidayRows reads a sheet whose first row names the date and name
// columns. Blank rows are ignored. A later row for the same date replaces
// the earlier one.
func parseHolidayRows(rows [][]string) ([]holiday.Holiday, []holiday.ImportError, error) {
	if len(rows) == 0 {
		return nil, nil, holiday.ErrEmptySpreadsheet
	}

	header := spreadsheet.HeaderIndex(rows[0])
	dateIdx, hasDate := header["date"]
	nameIdx, hasName := header["name"]
	if !hasDate || !hasName {
		return nil, nil, holiday.ErrMissingHeaderRow
	}

	var (
		holidays     []holiday.Holiday
		importErrors []holiday.ImportError
		seen         = make(map[string]int)
		dataRows     int
	)
	for i, row := range rows[1:] {
		rowNumber := i + 2
		if spreadsheet.IsBlank(row) {
			continue
		}
		dataRows++

		date, err := spreadsheet.ParseCellDate(spreadsheet.Cell(row, dateIdx))
		if err != nil {
			importErrors = append(importErrors, holiday.ImportError{Row: rowNumber, Message: "date is not a valid date"})
			continue
		}

		name := spreadsheet.Cell(row, nameIdx)
		switch {
		case name == "":
			importErrors = append(importErrors, holiday.ImportError{Row: rowNumber, Message: "name is required"})
			continue
		case len(name) > 255:
			importErrors = append(importErrors, holiday.ImportError{Row: rowNumber, Message: "name must not exceed 255 characters"})
			continue
		}

		key := date.Format(workday.DateLayout)
		if idx, dup := seen[key]; dup {
			holidays[idx].Name = name
			continue
		}
		seen[key] = len(holidays)
		holidays = append(holidays, holiday.Holiday{Date: date, Name: name})
	}

	if dataRows == 0 {
		return nil, nil, holiday.ErrEmptySpreadsheet
	}

	return holidays, importErrors, nil
}

// CalendarYear implements holiday.HolidayService.
func (s *HolidayServiceImpl) CalendarYear(ctx context.Context, companyID string, year int) (workday.HolidaySet, error) {
	dates, err := s.calendarDates(ctx, companyID, year)
	if err != nil {
		return workday.HolidaySet{}, err
	}
	return workday.HolidaySetFrom(dates), nil
}

// CalendarBetween implements holiday.HolidayService.
func (s *HolidayServiceImpl) CalendarBetween(ctx context.Context, companyID string, from, to time.Time) (workday.HolidaySet, error) {
	if to.Before(from) {
		return workday.HolidaySet{}, workday.ErrInvalidRange
	}

	var all []workday.Holiday
	for year := from.Year(); year <= to.Year(); year++ {
		dates, err := s.calendarDates(ctx, companyID, year)
		if err != nil {
			return workday.HolidaySet{}, err
		}
		all = append(all, dates...)
	}
	return workday.HolidaySetFrom(all), nil
}

func (s *HolidayServiceImpl) calendarDates(ctx context.Context, companyID string, year int) ([]workday.Holiday, error) {
	key := querycache.NewKey([]string{holiday.CacheTag(companyID)},
		"holidays", companyID, "calendar", strconv.Itoa(year))

	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]workday.Holiday, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

		items, err := s.holidayRepo.ListBetween(ctx, companyID, from, to)
		if err != nil {
			return nil, fmt.Errorf("failed to load holiday calendar %d: %w", year, err)
		}

		dates := make([]workday.Holiday, 0, len(items))
		for _, h := range items {
			dates = append(dates, workday.Holiday{Date: h.Date.Format(workday.DateLayout)})
		}
		return dates, nil
	})
}

// WarmCalendar implements holiday.HolidayService.
func (s *HolidayServiceImpl) WarmCalendar(ctx context.Context, year int) (int, error) {
	companyIDs, err := s.holidayRepo.CompanyIDsWithHolidays(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies with holidays: %w", err)
	}

	warmed := 0
	var errs []error
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.calendarDates(ctx, companyID, year); err != nil {
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}
		warmed++
	}

	return warmed, errors.Join(errs...)
}

// archiveUpload stores the raw upload under the company's import folder.
// A failed copy is logged and does not block the import.
func (s *HolidayServiceImpl) archiveUpload(ctx context.Context, companyID, filename string, data []byte) string {
	name := strings.ReplaceAll(path.Base(strings.ReplaceAll(filename, "\\", "/")), " ", "_")
	key := fmt.Sprintf("holiday-imports/%s/%s-%s", companyID, s.now().UTC().Format("20060102T150405"), name)

	stored, err := s.archive.Upload(ctx, bytes.NewReader(data), key)
	if err != nil {
		slog.Warn("failed to archive holiday import", "company_id", companyID, "file", filename, "error", err)
		return ""
	}
	return stored
}

// calendarChanged drops cached calendar queries and notifies open streams.
// Cache failures are logged, the write itself already succeeded.
func (s *HolidayServiceImpl) calendarChanged(ctx context.Context, companyID, event string, data interface{}) {
	if err := s.cache.Invalidate(ctx, holiday.CacheTag(companyID)); err != nil {
		slog.Warn("failed to invalidate holiday cache", "company_id", companyID, "error", err)
	}
	if s.events != nil {
		s.events.Publish(companyID, event, data)
	}
}
