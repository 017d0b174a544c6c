package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livestream-sync/core/event"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Observer is notified about the progress of a run.
type Observer interface {
	// EventStarted is called before an event is reconciled.
	EventStarted(ev *event.Event)
	// EventFinished is called with the outcome of an event.
	EventFinished(ev *event.Event, outcome Outcome, err error)
}

// EventFailure records an event whose reconciliation failed.
type EventFailure struct {
	EventID int
	Title   string
	Err     error
}

// RunReport summarizes a run.
type RunReport struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Stats    Stats
	Outcomes []Outcome
	Failures []EventFailure
	// Events are the reconciled events with the remote state they ended up with.
	Events []*event.Event
}

// ErrEventsFailed is returned by Run when at least one event failed.
var ErrEventsFailed = errors.New("some events failed to reconcile")

// Runner performs a full run over the reconciliation window.
type Runner struct {
	source    EventSource
	platform  BroadcastPlatform
	engine    *Engine
	facts     event.FactsConfig
	observers []Observer
	logger    *zap.Logger
	// Categories limits the run to these calendar ids when non-empty.
	Categories []int
	// RunID identifies the run in logs and the journal. A random id is
	// generated when empty.
	RunID string
}

// NewRunner creates a runner.
func NewRunner(source EventSource, platform BroadcastPlatform, engine *Engine, facts event.FactsConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source:   source,
		platform: platform,
		engine:   engine,
		facts:    facts,
		logger:   logger,
	}
}

// Observe registers an observer.
func (r *Runner) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

// Run fetches all events, interprets their facts, attaches their broadcasts
// and reconciles them in fetch order. Failing to load the event or
// broadcast lists and configuration errors abort the run before any
// mutation. A failing event, including one whose facts cannot be loaded,
// is logged and the batch continues; Run then returns ErrEventsFailed with
// the report.
func (r *Runner) Run(ctx context.Context) (*RunReport, error) {
	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := &RunReport{RunID: runID, Started: time.Now()}
	log := r.logger.With(zap.String("run_id", report.RunID))

	events, factErrs, index, err := r.prepare(ctx, log)
	if err != nil {
		return report, err
	}
	report.Events = events

	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		for _, o := range r.observers {
			o.EventStarted(ev)
		}

		outcome, err := Outcome{EventID: ev.ID, Title: ev.Title}, factErrs[ev.ID]
		if err == nil {
			outcome, err = r.reconcile(ctx, ev, index)
		}
		report.Stats.Observe(outcome, err)
		report.Outcomes = append(report.Outcomes, outcome)

		evLog := log.With(zap.Int("event_id", ev.ID), zap.String("event", ev.String()))
		if err != nil {
			evLog.Error("Failed to reconcile event", zap.Error(err))
			report.Failures = append(report.Failures, EventFailure{EventID: ev.ID, Title: ev.Title, Err: err})
		} else if len(outcome.Actions) > 0 {
			evLog.Info("Reconciled event",
				zap.String("result", outcome.Result()),
				zap.Int("actions", len(outcome.Actions)))
		}

		for _, o := range r.observers {
			o.EventFinished(ev, outcome, err)
		}
	}

	report.Finished = time.Now()
	log.Info("Run finished", zap.String("stats", report.Stats.String()), zap.Duration("duration", report.Finished.Sub(report.Started)))

	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrEventsFailed, len(report.Failures), report.Stats.Total)
	}
	return report, nil
}

// reconcile attaches the event's broadcast and reconciles it. Ignored
// events are passed straight to the engine, which skips them.
func (r *Runner) reconcile(ctx context.Context, ev *event.Event, index BroadcastIndex) (Outcome, error) {
	if !ev.Ignored() {
		b, err := MatchBroadcast(ctx, ev, index, r.platform.Get)
		if err != nil {
			return Outcome{EventID: ev.ID, Title: ev.Title}, err
		}
		ev.Broadcast = b
	}
	return r.engine.Reconcile(ctx, ev)
}

// prepare loads events, their facts and the broadcasts. Facts that cannot
// be loaded are returned per event id and fail only that event; every
// other error is fatal for the run.
func (r *Runner) prepare(ctx context.Context, log *zap.Logger) ([]*event.Event, map[int]error, BroadcastIndex, error) {
	events, err := r.source.UpcomingEvents(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load events: %w", err)
	}
	events = r.filterCategories(events)
	log.Info("Loaded events", zap.Int("count", len(events)))

	factErrs := make(map[int]error)
	for _, ev := range events {
		facts, err := r.source.Facts(ctx, ev.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, nil, ctxErr
			}
			factErrs[ev.ID] = fmt.Errorf("load facts of event %d: %w", ev.ID, err)
			continue
		}
		if ev.Facts, err = event.Interpret(facts, r.facts); err != nil {
			return nil, nil, nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
	}

	broadcasts, err := r.platform.ListActiveAndUpcoming(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list broadcasts: %w", err)
	}
	return events, factErrs, NewBroadcastIndex(broadcasts), nil
}

func (r *Runner) filterCategories(events []*event.Event) []*event.Event {
	if len(r.Categories) == 0 {
		return events
	}
	allowed := make(map[int]struct{}, len(r.Categories))
	for _, id := range r.Categories {
		allowed[id] = struct{}{}
	}
	filtered := events[:0:0]
	for _, ev := range events {
		if _, ok := allowed[ev.CategoryID]; ok {
			filtered = append(filtered, ev)
		}
	}
	return filtered
}
