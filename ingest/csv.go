/*
Package ingest parses CSV timesheets into the payroll domain model.

PURPOSE:
  The upstream site timesheets are one row per worker: identity and wage
  columns first, then one cell per day of the month. A day cell holds
  either an hour count ("8", "7.5") or a status token ("결근", "우천");
  an empty cell is an unscheduled rest day.

  Layout:

    name,ssn,wage_type,wage_amount,1,2,3,...,31
    김철수,900101-1234567,시급,10000,8,8,결근,...,0

  This is the engine's validation boundary: negative hours, malformed
  wage amounts, and unknown status tokens are rejected here with row/
  column context, so the engine itself can assume pre-validated input.

SEE ALSO:
  - payroll: Status and wage-type token parsing
  - engine/errors.go: The sentinel errors wrapped by RowError
*/
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// fixedColumns precede the per-day columns in every timesheet row.
const fixedColumns = 4

var ErrEmptyTimesheet = errors.New("timesheet has no worker rows")

// RowError wraps a validation failure with its position in the sheet.
// Row and Column are 1-based as a spreadsheet user would count them.
type RowError struct {
	Row    int
	Column int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %d: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParsedWorker is one timesheet row: the worker plus a month of records.
type ParsedWorker struct {
	Worker  payroll.Worker // ID and ProjectID unset; assigned on persist
	Records []engine.WorkRecord
}

// ParseTimesheet reads a CSV timesheet for the given YYYY-MM month. The
// header row is required; day columns beyond the month's length are
// rejected.
func ParseTimesheet(r io.Reader, month string) ([]ParsedWorker, error) {
	first, err := payroll.ParseMonth(month)
	if err != nil {
		return nil, err
	}
	daysInMonth, err := payroll.DaysInMonth(month)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read timesheet header: %w", err)
	}
	if len(header) < fixedColumns+1 {
		return nil, fmt.Errorf("timesheet header needs at least one day column, got %d columns", len(header))
	}
	if len(header)-fixedColumns > daysInMonth {
		return nil, fmt.Errorf("timesheet has %d day columns but %s has %d days",
			len(header)-fixedColumns, month, daysInMonth)
	}

	var workers []ParsedWorker
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read timesheet row %d: %w", row, err)
		}
		if len(record) != len(header) {
			return nil, &RowError{Row: row, Column: len(record),
				Err: fmt.Errorf("expected %d columns, got %d", len(header), len(record))}
		}

		worker, err := parseWorkerColumns(record, row)
		if err != nil {
			return nil, err
		}

		records, err := parseDayColumns(record, row, first)
		if err != nil {
			return nil, err
		}

		workers = append(workers, ParsedWorker{Worker: worker, Records: records})
	}

	if len(workers) == 0 {
		return nil, ErrEmptyTimesheet
	}
	return workers, nil
}

func parseWorkerColumns(record []string, row int) (payroll.Worker, error) {
	name := strings.TrimSpace(record[0])
	if name == "" {
		return payroll.Worker{}, &RowError{Row: row, Column: 1, Err: errors.New("worker name is empty")}
	}

	wageType, err := payroll.ParseWageType(strings.TrimSpace(record[2]))
	if err != nil {
		return payroll.Worker{}, &RowError{Row: row, Column: 3, Err: err}
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return payroll.Worker{}, &RowError{Row: row, Column: 4,
			Err: fmt.Errorf("invalid wage amount %q", record[3])}
	}
	if amount <= 0 {
		return payroll.Worker{}, &RowError{Row: row, Column: 4, Err: engine.ErrNonPositiveRate}
	}

	return payroll.Worker{
		Name:       name,
		SSN:        strings.TrimSpace(record[1]),
		WageType:   wageType,
		WageAmount: amount,
	}, nil
}

func parseDayColumns(record []string, row int, first engine.Day) ([]engine.WorkRecord, error) {
	records := make([]engine.WorkRecord, 0, len(record)-fixedColumns)

	for i, cell := range record[fixedColumns:] {
		day := first.AddDays(i)
		column := fixedColumns + i + 1
		cell = strings.TrimSpace(cell)

		// Empty cell: unscheduled rest day.
		if cell == "" {
			records = append(records, engine.WorkRecord{
				Date:   day,
				Hours:  engine.ZeroHours(),
				Status: engine.StatusDayOff,
			})
			continue
		}

		// Numeric cell: hours worked.
		if hours, err := strconv.ParseFloat(cell, 64); err == nil {
			if hours < 0 {
				return nil, &RowError{Row: row, Column: column, Err: engine.ErrNegativeHours}
			}
			records = append(records, engine.WorkRecord{
				Date:   day,
				Hours:  engine.NewHours(hours),
				Status: engine.StatusWork,
			})
			continue
		}

		// Anything else must be a known status token.
		status, err := payroll.ParseStatus(cell)
		if err != nil {
			return nil, &RowError{Row: row, Column: column, Err: err}
		}
		records = append(records, engine.WorkRecord{
			Date:   day,
			Hours:  engine.ZeroHours(),
			Status: status,
		})
	}

	return records, nil
}

// LoadTimesheet parses a timesheet held as raw bytes.
func LoadTimesheet(data []byte, month string) ([]ParsedWorker, error) {
	return ParseTimesheet(strings.NewReader(string(data)), month)
}
