// Package spreadsheet reads uploaded .xlsx and .xls workbooks into rows of
// trimmed cell text.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// MaxRows caps how many rows are read from a legacy .xls sheet.
const MaxRows = 100000

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	ErrNoWorksheet       = errors.New("no worksheet found")
	ErrEmptyWorksheet    = errors.New("worksheet is empty")
	ErrInvalidCellDate   = errors.New("cell does not contain a date")
)

// ReadRows returns the rows of the first worksheet. The format is chosen by
// the file extension.
func ReadRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return readXLS(data)
	case ".xlsx", ".xlsm":
		return readXLSX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrNoWorksheet
	}

	rows := workbook.ReadAllCells(MaxRows)
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return trimRows(rows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoWorksheet
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorksheet
	}
	return trimRows(rows), nil
}

func trimRows(rows [][]string) [][]string {
	for _, row := range rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
	return rows
}

// NormalizeHeader lowercases and trims a header cell.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// HeaderIndex maps normalized header names of the first row to column indexes.
func HeaderIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(h)
		if name == "" {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	return index
}

// Cell returns the value at idx or "" when the row is shorter.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// IsBlank reports whether every cell of row is empty.
func IsBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var cellDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2-Jan-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseCellDate reads a date cell. Excel serial numbers are converted with
// the 1900 date system, text cells are tried against common layouts. The
// result is UTC midnight.
func ParseCellDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidCellDate
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		// Plain years and small integers are not dates.
		if serial > 3000 && serial <= 2958465 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return midnight(parsed), nil
			}
		}
		return time.Time{}, ErrInvalidCellDate
	}

	for _, layout := range cellDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return midnight(parsed), nil
		}
	}

	return time.Time{}, ErrInvalidCellDate
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
