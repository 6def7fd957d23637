/*
handlers.go - HTTP API handlers for the payroll system

PURPOSE:
  Exposes the wage engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and store.

ENDPOINTS:
  Projects:
    GET    /api/projects                 List all projects
    POST   /api/projects                 Create project
    GET    /api/projects/{id}            Project with workers and breakdowns
    POST   /api/projects/{id}/workers    Add a worker with daily records
    POST   /api/projects/{id}/import     Import a CSV timesheet
    POST   /api/projects/{id}/calculate  Calculate wages for every worker

  Workers:
    GET    /api/workers/{id}/breakdown   Latest wage breakdown

  Holidays:
    GET    /api/holidays                 List public holidays
    POST   /api/holidays                 Register a holiday
    POST   /api/holidays/defaults        Load the fixed Korean solar holidays
    DELETE /api/holidays/{id}            Remove a holiday

  Scenarios:
    GET    /api/scenarios                List demo scenarios
    POST   /api/scenarios/load           Load a demo scenario

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Log: Structured logger
  - CalcWorkers: Concurrency bound for project calculation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call engine / store
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate dates)
  - 422: Timesheet data the engine rejects
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/holiday"
	"github.com/warp/payroll-engine/ingest"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// defaultCalcWorkers bounds concurrent per-worker calculations during a
// project calculation. Calculations are CPU-light; the bound mostly
// limits concurrent store writes.
const defaultCalcWorkers = 4

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	Log         *zap.Logger
	CalcWorkers int

	// Track currently loaded scenario
	currentScenario string
	mu              sync.Mutex
}

// NewHandler creates a new handler with the given store and logger.
func NewHandler(store *sqlite.Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Store:       store,
		Log:         log,
		CalcWorkers: defaultCalcWorkers,
	}
}

// oracle builds the holiday oracle from the stored calendar.
func (h *Handler) oracle(ctx context.Context) (engine.HolidayOracle, error) {
	stored, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	set := holiday.NewFixedSet("stored")
	for _, hd := range stored {
		set.Add(hd.Date)
	}
	return set, nil
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns all projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list projects", err)
		return
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a new project for one month.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Project name is required", nil)
		return
	}
	if _, err := payroll.ParseMonth(req.Month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	p := &payroll.Project{Name: req.Name, Month: req.Month}
	if err := h.Store.CreateProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create project", err)
		return
	}

	h.Log.Info("project created",
		zap.Int64("project_id", p.ID),
		zap.String("month", p.Month))
	writeJSON(w, http.StatusCreated, toProjectDTO(*p))
}

// GetProject returns a project with every worker, their records, and the
// latest breakdowns.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	join, err := h.Store.GetProjectWithWorkers(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if join == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	detail := ProjectDetailDTO{
		Project: toProjectDTO(join.Project),
		Workers: make([]WorkerDetailDTO, len(join.Workers)),
	}
	for i, wc := range join.Workers {
		detail.Workers[i] = toWorkerDetailDTO(wc)
	}
	writeJSON(w, http.StatusOK, detail)
}

// CreateWorker adds a worker with their daily records to a project.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	var req SubmitWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Worker name is required", nil)
		return
	}
	wageType, err := payroll.ParseWageType(req.WageType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid wage_type", err)
		return
	}
	if req.WageAmount <= 0 {
		writeError(w, http.StatusBadRequest, "wage_amount must be positive", nil)
		return
	}

	records := make([]engine.WorkRecord, 0, len(req.Records))
	for _, rec := range req.Records {
		day, err := engine.ParseDay(rec.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid record date (use YYYY-MM-DD)", err)
			return
		}
		status := engine.StatusWork
		if rec.Status != "" {
			if status, err = payroll.ParseStatus(rec.Status); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid record status", err)
				return
			}
		}
		if rec.Hours < 0 {
			writeError(w, http.StatusBadRequest, "Record hours must not be negative", engine.ErrNegativeHours)
			return
		}
		records = append(records, engine.WorkRecord{
			Date:   day,
			Hours:  engine.NewHours(rec.Hours),
			Status: status,
		})
	}

	worker := &payroll.Worker{
		ProjectID:  projectID,
		Name:       req.Name,
		SSN:        req.SSN,
		WageType:   wageType,
		WageAmount: req.WageAmount,
	}
	if err := h.Store.CreateWorker(ctx, worker); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}
	if err := h.Store.InsertWorkRecords(ctx, worker.ID, records); err != nil {
		writeError(w, http.StatusConflict, "Failed to insert work records", err)
		return
	}

	h.Log.Info("worker added",
		zap.Int64("project_id", projectID),
		zap.Int64("worker_id", worker.ID),
		zap.Int("records", len(records)))
	writeJSON(w, http.StatusCreated, toWorkerDTO(*worker))
}

// ImportTimesheet imports a whole CSV timesheet into a project.
func (h *Handler) ImportTimesheet(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

	parsed, err := ingest.ParseTimesheet(r.Body, project.Month)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Failed to parse timesheet", err)
		return
	}

	result := ImportResultDTO{ProjectID: projectID}
	for _, pw := range parsed {
		worker := pw.Worker
		worker.ProjectID = projectID
		if err := h.Store.CreateWorker(ctx, &worker); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
			return
		}
		if err := h.Store.InsertWorkRecords(ctx, worker.ID, pw.Records); err != nil {
			writeError(w, http.StatusConflict, "Failed to insert work records", err)
			return
		}
		result.WorkerCount++
		result.RecordCount += len(pw.Records)
	}

	h.Log.Info("timesheet imported",
		zap.Int64("project_id", projectID),
		zap.Int("workers", result.WorkerCount),
		zap.Int("records", result.RecordCount))
	writeJSON(w, http.StatusCreated, result)
}

// CalculateProject recalculates wages for every worker in a project.
// Workers are independent, so calculations run on a bounded pool.
func (h *Handler) CalculateProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()

	project, err := h.Store.GetProject(ctx, projectID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}

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

	h.Log.Info("project calculated",
		zap.Int64("project_id", projectID),
		zap.Int("calculated", result.Calculated),
		zap.Int("failed", result.Failed))
	writeJSON(w, http.StatusOK, result)
}

// calculateAll runs the engine for each worker on a bounded pool and
// persists the breakdowns. Per-worker failures are collected, not fatal.
func (h *Handler) calculateAll(ctx context.Context, oracle engine.HolidayOracle, workers []payroll.Worker) CalculateResultDTO {
	calc := &engine.MonthlyCalculator{Oracle: oracle}

	bound := h.CalcWorkers
	if bound <= 0 {
		bound = defaultCalcWorkers
	}
	sem := make(chan struct{}, bound)

	var wg sync.WaitGroup
	var mu sync.Mutex
	result := CalculateResultDTO{}

	for _, worker := range workers {
		wg.Add(1)
		go func(worker payroll.Worker) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			err := h.calculateOne(ctx, calc, worker)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed++
				if result.Errors == nil {
					result.Errors = make(map[string]string)
				}
				result.Errors[worker.Name] = err.Error()
				h.Log.Warn("calculation failed",
					zap.Int64("worker_id", worker.ID),
					zap.Error(err))
				return
			}
			result.Calculated++
		}(worker)
	}
	wg.Wait()
	return result
}

func (h *Handler) calculateOne(ctx context.Context, calc *engine.MonthlyCalculator, worker payroll.Worker) error {
	records, err := h.Store.ListWorkRecords(ctx, worker.ID)
	if err != nil {
		return err
	}
	breakdown, err := calc.Calculate(engine.Input{
		WageType: worker.WageType,
		Rate:     worker.Rate(),
		Records:  records,
	})
	if err != nil {
		return err
	}
	return h.Store.SaveCalculation(ctx, worker.ID, breakdown)
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// GetWorkerBreakdown returns a worker's latest wage breakdown.
func (h *Handler) GetWorkerBreakdown(w http.ResponseWriter, r *http.Request) {
	workerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ctx := r.Context()

	worker, err := h.Store.GetWorker(ctx, workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get worker", err)
		return
	}
	if worker == nil {
		writeError(w, http.StatusNotFound, "Worker not found", nil)
		return
	}

	calc, err := h.Store.GetCalculation(ctx, workerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get calculation", err)
		return
	}
	if calc == nil {
		writeError(w, http.StatusNotFound, "Worker has not been calculated yet", nil)
		return
	}

	dto := toWorkerDTO(*worker)
	dto.Breakdown = toBreakdownDTO(calc.Result)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns all registered public holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = toHolidayDTO(hd)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday registers a public holiday date.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := engine.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	id, err := h.Store.AddHoliday(r.Context(), day, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{ID: id, Date: day.String(), Name: req.Name})
}

// AddDefaultHolidays loads Korea's fixed solar holidays for a year.
// Year comes from the "year" query parameter.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		writeError(w, http.StatusBadRequest, "Invalid or missing year parameter", err)
		return
	}
	ctx := r.Context()

	added := 0
	for _, day := range holiday.Korean(year).Dates() {
		if _, err := h.Store.AddHoliday(ctx, day, ""); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to add holiday", err)
			return
		}
		added++
	}

	h.Log.Info("default holidays loaded", zap.Int("year", year), zap.Int("added", added))
	writeJSON(w, http.StatusCreated, map[string]int{"added": added})
}

// DeleteHoliday removes a registered holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID in path", err)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
