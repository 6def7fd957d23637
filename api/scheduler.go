/*
scheduler.go - Automated recalculation scheduler

PURPOSE:
  Periodically recalculates every stored project so that breakdowns pick
  up calendar changes (holidays added or removed after a project was
  calculated) without anyone pressing the calculate button.

DESIGN:
  - cron-driven background job with a configurable spec
  - Walks all projects, reruns the same pipeline the calculate endpoint
    uses
  - Per-worker failures are logged and skipped; a bad timesheet must not
    stall the rest of the fleet

CONFIGURATION:
  - Spec: cron expression (default: "0 3 * * *", nightly at 03:00)
  - Enabled: whether the scheduler is active

USAGE:
  scheduler := NewRecalcScheduler(store, handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CalculateProject (the manual path)
*/
package api

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/warp/payroll-engine/store/sqlite"
)

// RecalcScheduler reruns project calculations on a cron schedule.
type RecalcScheduler struct {
	Store   *sqlite.Store
	Handler *Handler
	Log     *zap.Logger
	Spec    string
	Enabled bool

	cron *cron.Cron
}

// NewRecalcScheduler creates a nightly scheduler.
func NewRecalcScheduler(store *sqlite.Store, handler *Handler, log *zap.Logger) *RecalcScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecalcScheduler{
		Store:   store,
		Handler: handler,
		Log:     log,
		Spec:    "0 3 * * *",
		Enabled: true,
	}
}

// Start begins the scheduler.
func (rs *RecalcScheduler) Start() error {
	if !rs.Enabled {
		rs.Log.Info("recalc scheduler disabled")
		return nil
	}

	rs.cron = cron.New()
	if _, err := rs.cron.AddFunc(rs.Spec, rs.RecalculateAll); err != nil {
		return err
	}
	rs.cron.Start()

	rs.Log.Info("recalc scheduler started", zap.String("spec", rs.Spec))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (rs *RecalcScheduler) Stop() {
	if rs.cron != nil {
		<-rs.cron.Stop().Done()
		rs.Log.Info("recalc scheduler stopped")
	}
}

// RecalculateAll reruns the calculation for every project. Exposed so
// operators can trigger it outside the schedule.
func (rs *RecalcScheduler) RecalculateAll() {
	ctx := context.Background()

	projects, err := rs.Store.ListProjects(ctx)
	if err != nil {
		rs.Log.Error("recalc: failed to list projects", zap.Error(err))
		return
	}

	oracle, err := rs.Handler.oracle(ctx)
	if err != nil {
		rs.Log.Error("recalc: failed to load holidays", zap.Error(err))
		return
	}

	for _, project := range projects {
		workers, err := rs.Store.ListWorkersByProject(ctx, project.ID)
		if err != nil {
			rs.Log.Error("recalc: failed to list workers",
				zap.Int64("project_id", project.ID), zap.Error(err))
			continue
		}

		result := rs.Handler.calculateAll(ctx, oracle, workers)
		rs.Log.Info("recalc: project done",
			zap.Int64("project_id", project.ID),
			zap.Int("calculated", result.Calculated),
			zap.Int("failed", result.Failed))
	}
}
