/*
Package sqlite provides the SQLite-backed persistence for the payroll system.

PURPOSE:
  Stores projects, workers, daily work records, calculated wage breakdowns,
  and the public-holiday calendar. The engine never touches this package:
  records are read out, handed to the engine, and the returned breakdowns
  written back.

KEY TABLES:
  projects:      One uploaded timesheet (name, month, file)
  workers:       Workers per project with wage type and amount
  work_records:  One row per worker per date
  calculations:  The latest wage breakdown per worker (replaced on recalc)
  holidays:      Dates backing the store-fed holiday oracle

INVARIANTS ENFORCED IN SCHEMA:
  - UNIQUE(worker_id, date) on work_records: at most one record per
    worker-date, mirroring the engine's duplicate-day rejection
  - UNIQUE(worker_id) on calculations: a recalculation replaces, never
    duplicates

NUMERIC COLUMNS:
  Hours and won amounts are stored as TEXT holding decimal strings, not
  floats, so breakdowns round-trip exactly.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  Use ":memory:" for tests.

SEE ALSO:
  - payroll: The domain types persisted here
  - api: The only caller of this package
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/engine"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements payroll persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		month TEXT NOT NULL,
		file_name TEXT NOT NULL DEFAULT '',
		uploaded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS workers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		ssn TEXT NOT NULL DEFAULT '',
		wage_type TEXT NOT NULL,
		wage_amount INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_workers_project ON workers(project_id);

	CREATE TABLE IF NOT EXISTS work_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		worker_id INTEGER NOT NULL REFERENCES workers(id) ON DELETE CASCADE,
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		status TEXT NOT NULL
	);
	-- At most one record per worker per date. The engine rejects
	-- duplicates too; this keeps a crashed import from leaving them.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_worker_date
		ON work_records(worker_id, date);

	CREATE TABLE IF NOT EXISTS calculations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		worker_id INTEGER NOT NULL UNIQUE REFERENCES workers(id) ON DELETE CASCADE,
		total_hours TEXT NOT NULL,
		paid_hours TEXT NOT NULL,
		base_wage TEXT NOT NULL,
		overtime_pay TEXT NOT NULL,
		holiday_pay TEXT NOT NULL,
		holiday_overtime_pay TEXT NOT NULL,
		public_holiday_pay TEXT NOT NULL,
		weekly_holiday_pay TEXT NOT NULL,
		total_wage TEXT NOT NULL,
		calculated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holidays (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL DEFAULT ''
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all data. Used by demo scenario loading only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"calculations", "work_records", "workers", "projects", "holidays"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// PROJECTS
// =============================================================================

// CreateProject inserts a project and fills in its assigned ID.
func (s *Store) CreateProject(ctx context.Context, p *payroll.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.UploadedAt.IsZero() {
		p.UploadedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (name, month, file_name, uploaded_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Month, p.FileName, p.UploadedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	p.ID, err = res.LastInsertId()
	return err
}

// GetProject returns the project with the given ID, or nil if absent.
func (s *Store) GetProject(ctx context.Context, id int64) (*payroll.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, month, file_name, uploaded_at FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjects returns all projects, newest upload first.
func (s *Store) ListProjects(ctx context.Context) ([]payroll.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, month, file_name, uploaded_at FROM projects ORDER BY uploaded_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []payroll.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*payroll.Project, error) {
	var p payroll.Project
	var uploadedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Month, &p.FileName, &uploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	t, err := time.Parse(time.RFC3339, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project uploaded_at: %w", err)
	}
	p.UploadedAt = t
	return &p, nil
}

// =============================================================================
// WORKERS
// =============================================================================

// CreateWorker inserts a worker and fills in its assigned ID.
func (s *Store) CreateWorker(ctx context.Context, w *payroll.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workers (project_id, name, ssn, wage_type, wage_amount) VALUES (?, ?, ?, ?, ?)`,
		w.ProjectID, w.Name, w.SSN, string(w.WageType), w.WageAmount)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	w.ID, err = res.LastInsertId()
	return err
}

// GetWorker returns the worker with the given ID, or nil if absent.
func (s *Store) GetWorker(ctx context.Context, id int64) (*payroll.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, ssn, wage_type, wage_amount FROM workers WHERE id = ?`, id)
	return scanWorker(row)
}

// ListWorkersByProject returns a project's workers in insertion order.
func (s *Store) ListWorkersByProject(ctx context.Context, projectID int64) ([]payroll.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, name, ssn, wage_type, wage_amount FROM workers
		 WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var workers []payroll.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, *w)
	}
	return workers, rows.Err()
}

func scanWorker(row rowScanner) (*payroll.Worker, error) {
	var w payroll.Worker
	var wageType string
	if err := row.Scan(&w.ID, &w.ProjectID, &w.Name, &w.SSN, &wageType, &w.WageAmount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan worker: %w", err)
	}
	w.WageType = engine.WageType(wageType)
	return &w, nil
}

// =============================================================================
// WORK RECORDS
// =============================================================================

// InsertWorkRecords writes a worker's month of daily records in one
// transaction. The unique index rejects a second record for the same date.
func (s *Store) InsertWorkRecords(ctx context.Context, workerID int64, records []engine.WorkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO work_records (worker_id, date, hours, status) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			workerID, rec.Date.String(), rec.Hours.Value.String(), string(rec.Status)); err != nil {
			return fmt.Errorf("failed to insert work record for %s: %w", rec.Date, err)
		}
	}
	return tx.Commit()
}

// ListWorkRecords returns a worker's records in date order.
func (s *Store) ListWorkRecords(ctx context.Context, workerID int64) ([]engine.WorkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, hours, status FROM work_records WHERE worker_id = ? ORDER BY date`, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work records: %w", err)
	}
	defer rows.Close()

	var records []engine.WorkRecord
	for rows.Next() {
		var dateStr, hoursStr, status string
		if err := rows.Scan(&dateStr, &hoursStr, &status); err != nil {
			return nil, fmt.Errorf("failed to scan work record: %w", err)
		}
		day, err := engine.ParseDay(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse work record date: %w", err)
		}
		value, err := decimal.NewFromString(hoursStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse work record hours: %w", err)
		}
		records = append(records, engine.WorkRecord{
			Date:   day,
			Hours:  engine.Amount{Value: value, Unit: engine.UnitHours},
			Status: engine.WorkStatus(status),
		})
	}
	return records, rows.Err()
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// SaveCalculation stores a worker's wage breakdown, replacing any earlier
// one. Callers recalculate whole projects, so replacement is the norm.
func (s *Store) SaveCalculation(ctx context.Context, workerID int64, b engine.WageBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO calculations (
			worker_id, total_hours, paid_hours, base_wage, overtime_pay,
			holiday_pay, holiday_overtime_pay, public_holiday_pay,
			weekly_holiday_pay, total_wage, calculated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(worker_id) DO UPDATE SET
			total_hours = excluded.total_hours,
			paid_hours = excluded.paid_hours,
			base_wage = excluded.base_wage,
			overtime_pay = excluded.overtime_pay,
			holiday_pay = excluded.holiday_pay,
			holiday_overtime_pay = excluded.holiday_overtime_pay,
			public_holiday_pay = excluded.public_holiday_pay,
			weekly_holiday_pay = excluded.weekly_holiday_pay,
			total_wage = excluded.total_wage,
			calculated_at = excluded.calculated_at`,
		workerID,
		b.TotalHours.Value.String(), b.PaidHours.Value.String(),
		b.BaseWage.Value.String(), b.OvertimePay.Value.String(),
		b.HolidayPay.Value.String(), b.HolidayOvertimePay.Value.String(),
		b.PublicHolidayPay.Value.String(), b.WeeklyHolidayPay.Value.String(),
		b.TotalWage.Value.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// GetCalculation returns a worker's latest breakdown, or nil if never
// calculated.
func (s *Store) GetCalculation(ctx context.Context, workerID int64) (*payroll.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, worker_id, total_hours, paid_hours, base_wage, overtime_pay,
		       holiday_pay, holiday_overtime_pay, public_holiday_pay,
		       weekly_holiday_pay, total_wage
		FROM calculations WHERE worker_id = ?`, workerID)
	return scanCalculation(row)
}

func scanCalculation(row rowScanner) (*payroll.Calculation, error) {
	var c payroll.Calculation
	var raw [9]string
	err := row.Scan(&c.ID, &c.WorkerID,
		&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5], &raw[6], &raw[7], &raw[8])
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan calculation: %w", err)
	}

	var values [9]decimal.Decimal
	for i, str := range raw {
		if values[i], err = decimal.NewFromString(str); err != nil {
			return nil, fmt.Errorf("failed to parse calculation amount: %w", err)
		}
	}
	c.Result = engine.WageBreakdown{
		TotalHours:         engine.Amount{Value: values[0], Unit: engine.UnitHours},
		PaidHours:          engine.Amount{Value: values[1], Unit: engine.UnitHours},
		BaseWage:           engine.Amount{Value: values[2], Unit: engine.UnitKRW},
		OvertimePay:        engine.Amount{Value: values[3], Unit: engine.UnitKRW},
		HolidayPay:         engine.Amount{Value: values[4], Unit: engine.UnitKRW},
		HolidayOvertimePay: engine.Amount{Value: values[5], Unit: engine.UnitKRW},
		PublicHolidayPay:   engine.Amount{Value: values[6], Unit: engine.UnitKRW},
		WeeklyHolidayPay:   engine.Amount{Value: values[7], Unit: engine.UnitKRW},
		TotalWage:          engine.Amount{Value: values[8], Unit: engine.UnitKRW},
	}
	return &c, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// Holiday is a stored public-holiday date with a display name.
type Holiday struct {
	ID   int64
	Date engine.Day
	Name string
}

// AddHoliday inserts a holiday date. Adding an existing date updates its
// name instead of failing.
func (s *Store) AddHoliday(ctx context.Context, date engine.Day, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO holidays (date, name) VALUES (?, ?)
		 ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		date.String(), name)
	if err != nil {
		return 0, fmt.Errorf("failed to add holiday: %w", err)
	}
	return res.LastInsertId()
}

// ListHolidays returns all stored holidays in date order.
func (s *Store) ListHolidays(ctx context.Context) ([]Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, date, name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []Holiday
	for rows.Next() {
		var h Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		if h.Date, err = engine.ParseDay(dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse holiday date: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// DeleteHoliday removes a holiday by ID. Deleting an unknown ID is a no-op.
func (s *Store) DeleteHoliday(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// =============================================================================
// JOINS
// =============================================================================

// GetProjectWithWorkers returns the project with every worker, their
// records, and their latest calculation. Returns nil if the project does
// not exist.
func (s *Store) GetProjectWithWorkers(ctx context.Context, projectID int64) (*payroll.ProjectWithWorkers, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil || project == nil {
		return nil, err
	}

	workers, err := s.ListWorkersByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	result := &payroll.ProjectWithWorkers{Project: *project}
	for _, w := range workers {
		records, err := s.ListWorkRecords(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		calc, err := s.GetCalculation(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		result.Workers = append(result.Workers, payroll.WorkerWithCalculation{
			Worker:      w,
			Records:     records,
			Calculation: calc,
		})
	}
	return result, nil
}
