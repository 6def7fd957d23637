/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Project:
    ProjectDTO, ProjectDetailDTO, CreateProjectRequest

  Worker:
    WorkerDTO, SubmitWorkerRequest, WorkRecordDTO

  Calculation:
    BreakdownDTO, CalculateResultDTO

  Holiday:
    HolidayDTO, CreateHolidayRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

MONEY AND HOURS:
  Breakdown fields cross the wire as JSON numbers. Internally they are
  exact decimals; the conversion happens once, here, at the boundary.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: WageBreakdown, the internal shape behind BreakdownDTO
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Month      string `json:"month"`
	FileName   string `json:"file_name,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

// CreateProjectRequest is the request to create a project.
type CreateProjectRequest struct {
	Name  string `json:"name"`
	Month string `json:"month"` // YYYY-MM
}

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID         int64         `json:"id"`
	ProjectID  int64         `json:"project_id"`
	Name       string        `json:"name"`
	SSN        string        `json:"ssn,omitempty"`
	WageType   string        `json:"wage_type"`
	WageAmount int64         `json:"wage_amount"`
	Breakdown  *BreakdownDTO `json:"breakdown,omitempty"` // nil until calculated
}

// WorkRecordDTO is one day of a worker's timesheet.
type WorkRecordDTO struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Hours  float64 `json:"hours"`
	Status string  `json:"status"`
}

// SubmitWorkerRequest is the request to add a worker with their records.
type SubmitWorkerRequest struct {
	Name       string          `json:"name"`
	SSN        string          `json:"ssn,omitempty"`
	WageType   string          `json:"wage_type"`
	WageAmount int64           `json:"wage_amount"`
	Records    []WorkRecordDTO `json:"records"`
}

// ProjectDetailDTO is a project with all workers and their state.
type ProjectDetailDTO struct {
	Project ProjectDTO        `json:"project"`
	Workers []WorkerDetailDTO `json:"workers"`
}

// WorkerDetailDTO is a worker with records and latest breakdown.
type WorkerDetailDTO struct {
	Worker    WorkerDTO       `json:"worker"`
	Records   []WorkRecordDTO `json:"records"`
	Breakdown *BreakdownDTO   `json:"breakdown,omitempty"`
}

// BreakdownDTO is a calculated wage breakdown.
type BreakdownDTO struct {
	TotalHours         float64 `json:"total_hours"`
	PaidHours          float64 `json:"paid_hours"`
	BaseWage           float64 `json:"base_wage"`
	OvertimePay        float64 `json:"overtime_pay"`
	HolidayPay         float64 `json:"holiday_pay"`
	HolidayOvertimePay float64 `json:"holiday_overtime_pay"`
	PublicHolidayPay   float64 `json:"public_holiday_pay"`
	WeeklyHolidayPay   float64 `json:"weekly_holiday_pay"`
	TotalWage          float64 `json:"total_wage"`
}

// ImportResultDTO is the outcome of a timesheet import.
type ImportResultDTO struct {
	ProjectID   int64 `json:"project_id"`
	WorkerCount int   `json:"worker_count"`
	RecordCount int   `json:"record_count"`
}

// CalculateResultDTO is the outcome of a project calculation.
type CalculateResultDTO struct {
	ProjectID  int64             `json:"project_id"`
	Calculated int               `json:"calculated"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"` // worker name -> reason
}

// HolidayDTO represents a public holiday.
type HolidayDTO struct {
	ID   int64  `json:"id"`
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name,omitempty"`
}

// CreateHolidayRequest is the request to register a holiday.
type CreateHolidayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name,omitempty"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a demo scenario.
type LoadScenarioRequest struct {
	ID string `json:"id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProjectDTO(p payroll.Project) ProjectDTO {
	return ProjectDTO{
		ID:         p.ID,
		Name:       p.Name,
		Month:      p.Month,
		FileName:   p.FileName,
		UploadedAt: p.UploadedAt.Format(time.RFC3339),
	}
}

func toWorkerDTO(w payroll.Worker) WorkerDTO {
	return WorkerDTO{
		ID:         w.ID,
		ProjectID:  w.ProjectID,
		Name:       w.Name,
		SSN:        w.SSN,
		WageType:   string(w.WageType),
		WageAmount: w.WageAmount,
	}
}

func toWorkRecordDTO(rec engine.WorkRecord) WorkRecordDTO {
	hours, _ := rec.Hours.Value.Float64()
	return WorkRecordDTO{
		Date:   rec.Date.String(),
		Hours:  hours,
		Status: string(rec.Status),
	}
}

func toWorkRecordDTOs(recs []engine.WorkRecord) []WorkRecordDTO {
	dtos := make([]WorkRecordDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toWorkRecordDTO(rec)
	}
	return dtos
}

func toBreakdownDTO(b engine.WageBreakdown) *BreakdownDTO {
	f := func(a engine.Amount) float64 {
		v, _ := a.Value.Float64()
		return v
	}
	return &BreakdownDTO{
		TotalHours:         f(b.TotalHours),
		PaidHours:          f(b.PaidHours),
		BaseWage:           f(b.BaseWage),
		OvertimePay:        f(b.OvertimePay),
		HolidayPay:         f(b.HolidayPay),
		HolidayOvertimePay: f(b.HolidayOvertimePay),
		PublicHolidayPay:   f(b.PublicHolidayPay),
		WeeklyHolidayPay:   f(b.WeeklyHolidayPay),
		TotalWage:          f(b.TotalWage),
	}
}

func toHolidayDTO(h sqlite.Holiday) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name}
}

func toWorkerDetailDTO(wc payroll.WorkerWithCalculation) WorkerDetailDTO {
	detail := WorkerDetailDTO{
		Worker:  toWorkerDTO(wc.Worker),
		Records: toWorkRecordDTOs(wc.Records),
	}
	if wc.Calculation != nil {
		detail.Breakdown = toBreakdownDTO(wc.Calculation.Result)
	}
	return detail
}
