/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	payroll data for testing and demos. Each scenario creates a project,
	workers, a month of daily records, and runs the calculation.

AVAILABLE SCENARIOS:

	full-attendance:  One hourly worker, perfect Mon-Fri month
	midweek-absence:  Same month with one absence, allowance forfeited
	sunday-crew:      Sunday work with holiday premium and overtime
	public-holiday:   Unattended public holiday still paid 8 hours
	mixed-crew:       Hourly and day-rate workers side by side

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the project and holidays
 3. Create workers with their daily records
 4. Run the project calculation

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "mixed-crew"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: CalculateProject, the same pipeline scenarios run
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "full-attendance",
		Name:        "Full Attendance",
		Description: "Hourly worker, every weekday of June 2025, weekly holiday allowance earned",
	},
	{
		ID:          "midweek-absence",
		Name:        "Midweek Absence",
		Description: "One unexcused absence forfeits that week's holiday allowance",
	},
	{
		ID:          "sunday-crew",
		Name:        "Sunday Crew",
		Description: "Sunday shifts paid at 1.5x, hours past eight at 2.0x",
	},
	{
		ID:          "public-holiday",
		Name:        "Public Holiday",
		Description: "Memorial Day credited as eight paid hours without attendance",
	},
	{
		ID:          "mixed-crew",
		Name:        "Mixed Crew",
		Description: "Hourly and day-rate workers on the same site, same timesheet",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	var projectID int64
	var err error
	switch req.ID {
	case "full-attendance":
		projectID, err = h.loadFullAttendance(ctx)
	case "midweek-absence":
		projectID, err = h.loadMidweekAbsence(ctx)
	case "sunday-crew":
		projectID, err = h.loadSundayCrew(ctx)
	case "public-holiday":
		projectID, err = h.loadPublicHoliday(ctx)
	case "mixed-crew":
		projectID, err = h.loadMixedCrew(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	// Run the same calculation pipeline the calculate endpoint uses.
	workers, err := h.Store.ListWorkersByProject(ctx, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}
	oracle, err := h.oracle(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load holidays", err)
		return
	}
	result := h.calculateAll(ctx, oracle, workers)
	result.ProjectID = projectID
	if result.Failed > 0 {
		writeError(w, http.StatusInternalServerError, "Scenario calculation failed", fmt.Errorf("%v", result.Errors))
		return
	}

	h.mu.Lock()
	h.currentScenario = req.ID
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"scenario":   req.ID,
		"project_id": projectID,
		"calculated": result.Calculated,
	})
}

// =============================================================================
// SCENARIO LOADERS - all use June 2025 (the 1st is a Sunday)
// =============================================================================

const scenarioMonth = "2025-06"

// seedWorker creates a worker and one record per day of the scenario
// month, as decided by the callback. A nil return skips the date.
func (h *Handler) seedWorker(ctx context.Context, projectID int64, worker payroll.Worker,
	decide func(day engine.Day) *engine.WorkRecord) error {

	worker.ProjectID = projectID
	if err := h.Store.CreateWorker(ctx, &worker); err != nil {
		return err
	}

	first, err := payroll.ParseMonth(scenarioMonth)
	if err != nil {
		return err
	}
	days, err := payroll.DaysInMonth(scenarioMonth)
	if err != nil {
		return err
	}

	var records []engine.WorkRecord
	for i := 0; i < days; i++ {
		if rec := decide(first.AddDays(i)); rec != nil {
			records = append(records, *rec)
		}
	}
	return h.Store.InsertWorkRecords(ctx, worker.ID, records)
}

// weekdayShift returns a worked record on Mon-Fri and a day off otherwise.
func weekdayShift(day engine.Day, hours float64) *engine.WorkRecord {
	if !day.IsWeekdayMonFri() {
		return &engine.WorkRecord{Date: day, Hours: engine.ZeroHours(), Status: engine.StatusDayOff}
	}
	return &engine.WorkRecord{Date: day, Hours: engine.NewHours(hours), Status: engine.StatusWork}
}

func (h *Handler) newScenarioProject(ctx context.Context, name string) (int64, error) {
	p := &payroll.Project{Name: name, Month: scenarioMonth}
	if err := h.Store.CreateProject(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (h *Handler) loadFullAttendance(ctx context.Context) (int64, error) {
	projectID, err := h.newScenarioProject(ctx, "강남 오피스텔 신축")
	if err != nil {
		return 0, err
	}
	worker := payroll.Worker{Name: "김철수", WageType: engine.WageHourly, WageAmount: 10000}
	return projectID, h.seedWorker(ctx, projectID, worker, func(day engine.Day) *engine.WorkRecord {
		return weekdayShift(day, 8)
	})
}

func (h *Handler) loadMidweekAbsence(ctx context.Context) (int64, error) {
	projectID, err := h.newScenarioProject(ctx, "강남 오피스텔 신축")
	if err != nil {
		return 0, err
	}
	worker := payroll.Worker{Name: "이영희", WageType: engine.WageHourly, WageAmount: 10000}
	return projectID, h.seedWorker(ctx, projectID, worker, func(day engine.Day) *engine.WorkRecord {
		// Absent on Wednesday June 4th; that week's allowance is forfeited.
		if day.DayOfMonth() == 4 {
			return &engine.WorkRecord{Date: day, Hours: engine.ZeroHours(), Status: engine.StatusAbsence}
		}
		return weekdayShift(day, 8)
	})
}

func (h *Handler) loadSundayCrew(ctx context.Context) (int64, error) {
	projectID, err := h.newScenarioProject(ctx, "판교 물류센터")
	if err != nil {
		return 0, err
	}
	worker := payroll.Worker{Name: "박민수", WageType: engine.WageHourly, WageAmount: 12000}
	return projectID, h.seedWorker(ctx, projectID, worker, func(day engine.Day) *engine.WorkRecord {
		if day.IsSunday() {
			return &engine.WorkRecord{Date: day, Hours: engine.NewHours(10), Status: engine.StatusWork}
		}
		return weekdayShift(day, 8)
	})
}

func (h *Handler) loadPublicHoliday(ctx context.Context) (int64, error) {
	projectID, err := h.newScenarioProject(ctx, "판교 물류센터")
	if err != nil {
		return 0, err
	}

	// Memorial Day, June 6th
	memorialDay, err := engine.ParseDay("2025-06-06")
	if err != nil {
		return 0, err
	}
	if _, err := h.Store.AddHoliday(ctx, memorialDay, "현충일"); err != nil {
		return 0, err
	}

	worker := payroll.Worker{Name: "최지훈", WageType: engine.WageHourly, WageAmount: 10000}
	return projectID, h.seedWorker(ctx, projectID, worker, func(day engine.Day) *engine.WorkRecord {
		if day.Equal(memorialDay) {
			return &engine.WorkRecord{Date: day, Hours: engine.ZeroHours(), Status: engine.StatusPublicHoliday}
		}
		return weekdayShift(day, 8)
	})
}

func (h *Handler) loadMixedCrew(ctx context.Context) (int64, error) {
	projectID, err := h.newScenarioProject(ctx, "세종 스마트시티")
	if err != nil {
		return 0, err
	}

	hourly := payroll.Worker{Name: "김철수", WageType: engine.WageHourly, WageAmount: 11000}
	if err := h.seedWorker(ctx, projectID, hourly, func(day engine.Day) *engine.WorkRecord {
		return weekdayShift(day, 9)
	}); err != nil {
		return 0, err
	}

	daily := payroll.Worker{Name: "정수현", WageType: engine.WageDaily, WageAmount: 150000}
	return projectID, h.seedWorker(ctx, projectID, daily, func(day engine.Day) *engine.WorkRecord {
		return weekdayShift(day, 8)
	})
}
