/*
handlers_test.go - End-to-end tests for the HTTP API

Tests drive the real router against an in-memory store:
- Project creation and retrieval
- Worker submission, calculation, and breakdown numbers
- CSV timesheet import
- Holiday registration feeding the calculation
- Scenario loading
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/warp/payroll-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *Handler) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, zap.NewNop())
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, h
}

func doJSON(t *testing.T, method, url string, body any, wantStatus int, out any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errResp ErrorResponse
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("%s %s: expected status %d, got %d (%+v)", method, url, wantStatus, resp.StatusCode, errResp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
}

// createProject creates a June 2025 project and returns its ID.
func createProject(t *testing.T, srv *httptest.Server) int64 {
	t.Helper()
	var project ProjectDTO
	doJSON(t, http.MethodPost, srv.URL+"/api/projects",
		CreateProjectRequest{Name: "강남 오피스텔 신축", Month: "2025-06"},
		http.StatusCreated, &project)
	return project.ID
}

// fullWeekRequest is a worker attending Mon-Fri of the week of June 2nd.
func fullWeekRequest(name string) SubmitWorkerRequest {
	req := SubmitWorkerRequest{
		Name:       name,
		WageType:   "hourly",
		WageAmount: 10000,
	}
	for day := 2; day <= 6; day++ {
		req.Records = append(req.Records, WorkRecordDTO{
			Date:  fmt.Sprintf("2025-06-%02d", day),
			Hours: 8,
		})
	}
	return req
}

func TestCreateAndGetProject(t *testing.T) {
	srv, _ := newTestServer(t)

	// GIVEN: A created project
	id := createProject(t, srv)
	if id == 0 {
		t.Fatal("Expected project ID to be assigned")
	}

	// WHEN: Fetching the project
	var detail ProjectDetailDTO
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/projects/%d", srv.URL, id),
		nil, http.StatusOK, &detail)

	// THEN: It comes back empty of workers
	if detail.Project.Month != "2025-06" {
		t.Errorf("Expected month 2025-06, got %s", detail.Project.Month)
	}
	if len(detail.Workers) != 0 {
		t.Errorf("Expected no workers, got %d", len(detail.Workers))
	}
}

func TestCreateProject_InvalidMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/projects",
		CreateProjectRequest{Name: "x", Month: "06-2025"},
		http.StatusBadRequest, nil)
}

func TestGetProject_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodGet, srv.URL+"/api/projects/999", nil, http.StatusNotFound, nil)
}

func TestCalculateFullWeek(t *testing.T) {
	// GIVEN: A worker who attended every weekday of one week
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)

	var worker WorkerDTO
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/workers", srv.URL, projectID),
		fullWeekRequest("김철수"), http.StatusCreated, &worker)

	// WHEN: Calculating the project
	var result CalculateResultDTO
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/calculate", srv.URL, projectID),
		nil, http.StatusOK, &result)
	if result.Calculated != 1 || result.Failed != 0 {
		t.Fatalf("Expected 1 calculated, got %+v", result)
	}

	// THEN: The breakdown carries base wage plus the weekly allowance
	var got WorkerDTO
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/workers/%d/breakdown", srv.URL, worker.ID),
		nil, http.StatusOK, &got)
	if got.Breakdown == nil {
		t.Fatal("Expected breakdown to be present")
	}
	if got.Breakdown.BaseWage != 400000 {
		t.Errorf("Expected base wage 400000, got %v", got.Breakdown.BaseWage)
	}
	if got.Breakdown.WeeklyHolidayPay != 80000 {
		t.Errorf("Expected weekly holiday pay 80000, got %v", got.Breakdown.WeeklyHolidayPay)
	}
	if got.Breakdown.TotalWage != 480000 {
		t.Errorf("Expected total wage 480000, got %v", got.Breakdown.TotalWage)
	}
	if got.Breakdown.TotalHours != 40 || got.Breakdown.PaidHours != 48 {
		t.Errorf("Expected 40 worked / 48 paid hours, got %v / %v",
			got.Breakdown.TotalHours, got.Breakdown.PaidHours)
	}
}

func TestCalculateSundayPremiums(t *testing.T) {
	// GIVEN: A worker with a single ten-hour Sunday shift
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)

	req := SubmitWorkerRequest{
		Name:       "박민수",
		WageType:   "시급",
		WageAmount: 10000,
		Records:    []WorkRecordDTO{{Date: "2025-06-08", Hours: 10}},
	}
	var worker WorkerDTO
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/workers", srv.URL, projectID),
		req, http.StatusCreated, &worker)

	// WHEN: Calculating
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/calculate", srv.URL, projectID),
		nil, http.StatusOK, nil)

	// THEN: First eight hours at 1.5x, the rest at 2.0x
	var got WorkerDTO
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/workers/%d/breakdown", srv.URL, worker.ID),
		nil, http.StatusOK, &got)
	if got.Breakdown.HolidayPay != 120000 {
		t.Errorf("Expected holiday pay 120000, got %v", got.Breakdown.HolidayPay)
	}
	if got.Breakdown.HolidayOvertimePay != 40000 {
		t.Errorf("Expected holiday overtime pay 40000, got %v", got.Breakdown.HolidayOvertimePay)
	}
	if got.Breakdown.WeeklyHolidayPay != 0 {
		t.Errorf("Sunday-only week should earn no allowance, got %v", got.Breakdown.WeeklyHolidayPay)
	}
}

func TestRegisteredHolidayAffectsCalculation(t *testing.T) {
	// GIVEN: Memorial Day registered and a worker off that Friday
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/holidays",
		CreateHolidayRequest{Date: "2025-06-06", Name: "현충일"},
		http.StatusCreated, nil)

	req := SubmitWorkerRequest{
		Name:       "최지훈",
		WageType:   "hourly",
		WageAmount: 10000,
		// No attendance at all, just the holiday date on the sheet
		Records: []WorkRecordDTO{{Date: "2025-06-06", Hours: 0}},
	}
	var worker WorkerDTO
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/workers", srv.URL, projectID),
		req, http.StatusCreated, &worker)

	// WHEN: Calculating
	doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/projects/%d/calculate", srv.URL, projectID),
		nil, http.StatusOK, nil)

	// THEN: The day is credited as eight paid hours
	var got WorkerDTO
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/workers/%d/breakdown", srv.URL, worker.ID),
		nil, http.StatusOK, &got)
	if got.Breakdown.PublicHolidayPay != 80000 {
		t.Errorf("Expected public holiday pay 80000, got %v", got.Breakdown.PublicHolidayPay)
	}
	if got.Breakdown.TotalHours != 0 || got.Breakdown.PaidHours != 8 {
		t.Errorf("Expected 0 worked / 8 paid hours, got %v / %v",
			got.Breakdown.TotalHours, got.Breakdown.PaidHours)
	}
}

func TestImportTimesheet(t *testing.T) {
	// GIVEN: A CSV timesheet with two workers
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)

	csv := strings.Join([]string{
		"name,ssn,wage_type,wage_amount,1,2,3,4,5,6",
		"김철수,,시급,10000,,8,8,8,8,8",
		"정수현,,일급,150000,,8,결근,8,8,8",
	}, "\n")

	// WHEN: Importing it
	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/projects/%d/import", srv.URL, projectID),
		strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "text/csv")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	var result ImportResultDTO
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode import result: %v", err)
	}

	// THEN: Both workers land with six records each
	if result.WorkerCount != 2 || result.RecordCount != 12 {
		t.Errorf("Expected 2 workers / 12 records, got %+v", result)
	}

	var detail ProjectDetailDTO
	doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/projects/%d", srv.URL, projectID),
		nil, http.StatusOK, &detail)
	if len(detail.Workers) != 2 {
		t.Fatalf("Expected 2 workers in project, got %d", len(detail.Workers))
	}
	if detail.Workers[1].Worker.WageType != "daily" {
		t.Errorf("Expected second worker to be daily, got %s", detail.Workers[1].Worker.WageType)
	}
}

func TestImportTimesheet_BadData(t *testing.T) {
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)

	csv := "name,ssn,wage_type,wage_amount,1\n김철수,,시급,10000,연차\n"
	req, _ := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/projects/%d/import", srv.URL, projectID),
		strings.NewReader(csv))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Import request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 for unknown status token, got %d", resp.StatusCode)
	}
}

func TestHolidayCRUDAndDefaults(t *testing.T) {
	srv, _ := newTestServer(t)

	// Load the fixed solar holidays for 2025
	doJSON(t, http.MethodPost, srv.URL+"/api/holidays/defaults?year=2025",
		nil, http.StatusCreated, nil)

	var holidays []HolidayDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/holidays", nil, http.StatusOK, &holidays)
	if len(holidays) != 8 {
		t.Fatalf("Expected 8 fixed holidays, got %d", len(holidays))
	}

	// Delete one and re-list
	doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/holidays/%d", srv.URL, holidays[0].ID),
		nil, http.StatusNoContent, nil)
	doJSON(t, http.MethodGet, srv.URL+"/api/holidays", nil, http.StatusOK, &holidays)
	if len(holidays) != 7 {
		t.Errorf("Expected 7 holidays after delete, got %d", len(holidays))
	}
}

func TestSubmitWorker_Validation(t *testing.T) {
	srv, _ := newTestServer(t)
	projectID := createProject(t, srv)
	url := fmt.Sprintf("%s/api/projects/%d/workers", srv.URL, projectID)

	// Unknown wage type
	bad := fullWeekRequest("x")
	bad.WageType = "monthly"
	doJSON(t, http.MethodPost, url, bad, http.StatusBadRequest, nil)

	// Non-positive wage
	bad = fullWeekRequest("x")
	bad.WageAmount = 0
	doJSON(t, http.MethodPost, url, bad, http.StatusBadRequest, nil)

	// Negative hours
	bad = fullWeekRequest("x")
	bad.Records[0].Hours = -1
	doJSON(t, http.MethodPost, url, bad, http.StatusBadRequest, nil)

	// Duplicate date inside a second submission for the same worker is a
	// different worker here, so instead submit duplicate dates directly.
	bad = fullWeekRequest("x")
	bad.Records = append(bad.Records, bad.Records[0])
	doJSON(t, http.MethodPost, url, bad, http.StatusConflict, nil)
}

func TestLoadScenario(t *testing.T) {
	// GIVEN: A running server
	srv, h := newTestServer(t)

	// WHEN: Loading the mixed crew scenario
	var result map[string]any
	doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		LoadScenarioRequest{ID: "mixed-crew"}, http.StatusOK, &result)

	// THEN: Both workers are calculated
	if result["calculated"].(float64) != 2 {
		t.Errorf("Expected 2 workers calculated, got %v", result["calculated"])
	}
	if h.currentScenario != "mixed-crew" {
		t.Errorf("Expected current scenario to be tracked, got %q", h.currentScenario)
	}

	// AND: The current scenario endpoint reports it
	var current ScenarioDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/scenarios/current", nil, http.StatusOK, &current)
	if current.ID != "mixed-crew" {
		t.Errorf("Expected mixed-crew, got %s", current.ID)
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/scenarios/load",
		LoadScenarioRequest{ID: "nope"}, http.StatusBadRequest, nil)
}
