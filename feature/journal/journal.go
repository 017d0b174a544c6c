package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Journal records runs and event outcomes.
type Journal struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// New creates a journal on db.
func New(db *gorm.DB, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{db: db, logger: logger, now: time.Now}
}

// Migrate creates or updates the journal tables.
func (j *Journal) Migrate(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&RunRecord{}, &EventOutcomeRecord{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// BeginRun stores a new run in state running.
func (j *Journal) BeginRun(ctx context.Context, runID string, dryRun bool) error {
	rec := RunRecord{
		ID:        runID,
		StartedAt: j.now().UTC(),
		DryRun:    dryRun,
		Status:    StatusRunning,
	}
	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record run start: %w", err)
	}
	return nil
}

// RecordEvent stores the outcome of one event.
func (j *Journal) RecordEvent(ctx context.Context, runID string, ev *event.Event, outcome reconcile.Outcome, reconcileErr error) error {
	actions := make([]string, 0, len(outcome.Actions))
	for _, a := range outcome.Actions {
		actions = append(actions, a.String())
	}

	rec := EventOutcomeRecord{
		RunID:     runID,
		EventID:   ev.ID,
		Title:     ev.Title,
		Result:    outcome.Result(),
		Actions:   strings.Join(actions, "; "),
		CreatedAt: j.now().UTC(),
	}
	if reconcileErr != nil {
		rec.Result = "failed"
		rec.Error = reconcileErr.Error()
	}

	if err := j.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to record event %d: %w", ev.ID, err)
	}
	return nil
}

// FinishRun stores the final statistics and status of a run.
func (j *Journal) FinishRun(ctx context.Context, runID string, stats reconcile.Stats, runErr error) error {
	finished := j.now().UTC()
	updates := map[string]any{
		"finished_at": finished,
		"status":      StatusSuccess,
		"total":       stats.Total,
		"new":         stats.New,
		"updated":     stats.Updated,
		"deleted":     stats.Deleted,
		"skipped":     stats.Skipped,
		"failed":      stats.Failed,
	}
	if runErr != nil {
		updates["status"] = StatusFailed
		updates["error"] = runErr.Error()
	}

	result := j.db.WithContext(ctx).Model(&RunRecord{}).Where("id = ?", runID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to record run end: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run %s not found in journal", runID)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := j.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Outcomes returns the event outcomes of a run in processing order.
func (j *Journal) Outcomes(ctx context.Context, runID string) ([]EventOutcomeRecord, error) {
	var outcomes []EventOutcomeRecord
	err := j.db.WithContext(ctx).Where("run_id = ?", runID).Order("id").Find(&outcomes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes of run %s: %w", runID, err)
	}
	return outcomes, nil
}

// Prune deletes all but the newest keep runs with their outcomes.
func (j *Journal) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	var stale []string
	err := j.db.WithContext(ctx).Model(&RunRecord{}).
		Order("started_at DESC").Offset(keep).Limit(10000).
		Pluck("id", &stale).Error
	if err != nil {
		return 0, fmt.Errorf("failed to find stale runs: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	err = j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id IN ?", stale).Delete(&EventOutcomeRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", stale).Delete(&RunRecord{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return len(stale), nil
}

// Observer returns a run observer that records every event outcome.
// Journal errors are logged, never propagated into the run.
func (j *Journal) Observer(ctx context.Context, runID string) reconcile.Observer {
	return &observer{ctx: ctx, journal: j, runID: runID}
}

type observer struct {
	ctx     context.Context
	journal *Journal
	runID   string
}

func (o *observer) EventStarted(*event.Event) {}

func (o *observer) EventFinished(ev *event.Event, outcome reconcile.Outcome, err error) {
	if jerr := o.journal.RecordEvent(o.ctx, o.runID, ev, outcome, err); jerr != nil {
		o.journal.logger.Warn("Failed to journal event", zap.Int("event_id", ev.ID), zap.Error(jerr))
	}
}
