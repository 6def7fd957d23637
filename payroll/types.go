/*
Package payroll holds the project/worker domain model around the wage engine.

PURPOSE:
  The engine computes; this package names the things computation is about.
  Projects own workers for one calendar month, workers own their daily
  records, and a Calculation is a persisted engine result. The upstream
  timesheets arrive with Korean vocabulary (wage types and day statuses);
  parsing that vocabulary onto engine enums lives here so the engine never
  sees raw strings.

SEE ALSO:
  - engine: The pure calculation core
  - ingest: CSV timesheet parsing into these types
  - store/sqlite: Persistence for these types
*/
package payroll

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/engine"
)

// =============================================================================
// DOMAIN ENTITIES
// =============================================================================

// Project is one uploaded timesheet: a named site/contract for one month.
type Project struct {
	ID         int64
	Name       string
	Month      string // YYYY-MM
	FileName   string
	UploadedAt time.Time
}

// Worker belongs to exactly one project-month.
type Worker struct {
	ID         int64
	ProjectID  int64
	Name       string
	SSN        string
	WageType   engine.WageType
	WageAmount int64 // KRW per hour (hourly) or per day (daily)
}

// Rate returns the worker's wage rate as an engine amount.
func (w Worker) Rate() engine.Amount { return engine.NewKRW(w.WageAmount) }

// Calculation is a persisted wage breakdown for one worker-month.
type Calculation struct {
	ID       int64
	WorkerID int64
	Result   engine.WageBreakdown
}

// WorkerWithCalculation is the joined shape handed to presentation.
type WorkerWithCalculation struct {
	Worker      Worker
	Records     []engine.WorkRecord
	Calculation *Calculation // nil until calculated
}

// ProjectWithWorkers is the full project join.
type ProjectWithWorkers struct {
	Project Project
	Workers []WorkerWithCalculation
}

// =============================================================================
// UPSTREAM VOCABULARY - Korean timesheet tokens
// =============================================================================

// ParseStatus maps a timesheet status token (Korean or ASCII) onto an
// engine work status. Unknown tokens are input violations.
func ParseStatus(token string) (engine.WorkStatus, error) {
	switch token {
	case "근무", "work":
		return engine.StatusWork, nil
	case "결근", "absence":
		return engine.StatusAbsence, nil
	case "공휴일", "public_holiday":
		return engine.StatusPublicHoliday, nil
	case "우천", "rain", "rain_off":
		return engine.StatusRainOff, nil
	case "정휴", "regular_off":
		return engine.StatusRegularOff, nil
	case "휴무", "day_off":
		return engine.StatusDayOff, nil
	}
	return "", fmt.Errorf("%w: %q", engine.ErrUnknownStatus, token)
}

// ParseWageType maps a wage-type token (Korean or ASCII) onto an engine
// wage type.
func ParseWageType(token string) (engine.WageType, error) {
	switch token {
	case "시급", "hourly":
		return engine.WageHourly, nil
	case "일급", "daily":
		return engine.WageDaily, nil
	}
	return "", fmt.Errorf("%w: %q", engine.ErrUnknownWageType, token)
}

// =============================================================================
// MONTH HELPERS
// =============================================================================

// ParseMonth validates a YYYY-MM month string and returns its first day.
func ParseMonth(month string) (engine.Day, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return engine.Day{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", month, err)
	}
	return engine.Day{Time: t}, nil
}

// DaysInMonth returns the number of days in a YYYY-MM month.
func DaysInMonth(month string) (int, error) {
	first, err := ParseMonth(month)
	if err != nil {
		return 0, err
	}
	next := first.Time.AddDate(0, 1, 0)
	return int(next.Sub(first.Time).Hours() / 24), nil
}
