package ingest_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/ingest"
)

const header = "name,ssn,wage_type,wage_amount,1,2,3,4,5"

func parse(t *testing.T, rows ...string) []ingest.ParsedWorker {
	t.Helper()
	sheet := strings.Join(append([]string{header}, rows...), "\n")
	workers, err := ingest.ParseTimesheet(strings.NewReader(sheet), "2025-06")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return workers
}

func parseErr(t *testing.T, rows ...string) error {
	t.Helper()
	sheet := strings.Join(append([]string{header}, rows...), "\n")
	_, err := ingest.ParseTimesheet(strings.NewReader(sheet), "2025-06")
	if err == nil {
		t.Fatalf("expected error, got none")
	}
	return err
}

func TestParseTimesheet_WorkerColumns(t *testing.T) {
	workers := parse(t, "김철수,900101-1234567,시급,10000,8,8,8,8,8")

	if len(workers) != 1 {
		t.Fatalf("expected 1 worker, got %d", len(workers))
	}
	w := workers[0].Worker
	if w.Name != "김철수" {
		t.Errorf("name = %q", w.Name)
	}
	if w.WageType != engine.WageHourly {
		t.Errorf("wage type = %s", w.WageType)
	}
	if w.WageAmount != 10000 {
		t.Errorf("wage amount = %d", w.WageAmount)
	}
}

func TestParseTimesheet_DayCells(t *testing.T) {
	// Numeric cells become worked hours, tokens become statuses, empty
	// cells become rest days; dates run from the 1st of the month.

	workers := parse(t, "김철수,900101-1234567,시급,10000,8,7.5,결근,,우천")
	records := workers[0].Records

	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}

	want := []struct {
		day    int
		hours  float64
		status engine.WorkStatus
	}{
		{1, 8, engine.StatusWork},
		{2, 7.5, engine.StatusWork},
		{3, 0, engine.StatusAbsence},
		{4, 0, engine.StatusDayOff},
		{5, 0, engine.StatusRainOff},
	}
	for i, tc := range want {
		rec := records[i]
		if !rec.Date.Equal(engine.NewDay(2025, time.June, tc.day)) {
			t.Errorf("record %d: date = %s", i, rec.Date)
		}
		if !rec.Hours.Equal(engine.NewHours(tc.hours)) {
			t.Errorf("record %d: hours = %v, want %v", i, rec.Hours.Value, tc.hours)
		}
		if rec.Status != tc.status {
			t.Errorf("record %d: status = %s, want %s", i, rec.Status, tc.status)
		}
	}
}

func TestParseTimesheet_NegativeHours_RejectedWithPosition(t *testing.T) {
	err := parseErr(t, "김철수,900101-1234567,시급,10000,8,-2,8,8,8")

	if !errors.Is(err, engine.ErrNegativeHours) {
		t.Fatalf("expected negative hours error, got %v", err)
	}
	var rowErr *ingest.RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %T", err)
	}
	if rowErr.Row != 2 || rowErr.Column != 6 {
		t.Errorf("position = row %d col %d, want row 2 col 6", rowErr.Row, rowErr.Column)
	}
}

func TestParseTimesheet_UnknownStatus_Rejected(t *testing.T) {
	err := parseErr(t, "김철수,900101-1234567,시급,10000,8,연차,8,8,8")
	if !errors.Is(err, engine.ErrUnknownStatus) {
		t.Fatalf("expected unknown status error, got %v", err)
	}
}

func TestParseTimesheet_BadWageAmount_Rejected(t *testing.T) {
	err := parseErr(t, "김철수,900101-1234567,시급,0,8,8,8,8,8")
	if !errors.Is(err, engine.ErrNonPositiveRate) {
		t.Fatalf("expected non-positive rate error, got %v", err)
	}
}

func TestParseTimesheet_TooManyDayColumns(t *testing.T) {
	// 31 day columns against a 30-day month.
	cols := []string{"name", "ssn", "wage_type", "wage_amount"}
	for i := 1; i <= 31; i++ {
		cols = append(cols, "d")
	}
	sheet := strings.Join(cols, ",")

	_, err := ingest.ParseTimesheet(strings.NewReader(sheet), "2025-06")
	if err == nil {
		t.Fatalf("expected error for day columns beyond month length")
	}
}

func TestParseTimesheet_Empty_Rejected(t *testing.T) {
	_, err := ingest.ParseTimesheet(strings.NewReader(header), "2025-06")
	if !errors.Is(err, ingest.ErrEmptyTimesheet) {
		t.Fatalf("expected empty timesheet error, got %v", err)
	}
}
