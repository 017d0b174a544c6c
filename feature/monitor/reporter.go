package monitor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"livestream-sync/core/event"
	"livestream-sync/core/reconcile"

	"go.uber.org/zap"
)

// Reporter tracks the state of a run and pings the monitor when it ends.
type Reporter struct {
	url    string
	http   *http.Client
	logger *zap.Logger

	mu       sync.Mutex
	started  time.Time
	success  bool
	summary  string
	current  string
	failedAt string

	once sync.Once
	now  func() time.Time
}

// New creates a reporter. The run clock starts immediately.
func New(cfg Config, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	r := &Reporter{
		url:    cfg.URL,
		http:   &http.Client{Timeout: time.Duration(timeout) * time.Second},
		logger: logger,
		now:    time.Now,
	}
	r.started = r.now()
	return r
}

// Start restarts the run clock.
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = r.now()
}

// MarkSuccess records that the run completed; Finish will report "up".
func (r *Reporter) MarkSuccess(summary string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = true
	r.summary = summary
}

// MarkFailure records the event that failed. An empty name keeps the event
// currently being processed, if any.
func (r *Reporter) MarkFailure(eventName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success = false
	if eventName == "" {
		eventName = r.current
	}
	if eventName != "" {
		r.failedAt = eventName
	}
}

// EventStarted tracks the event being processed.
func (r *Reporter) EventStarted(ev *event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = ev.String()
}

// EventFinished records failed events.
func (r *Reporter) EventFinished(ev *event.Event, _ reconcile.Outcome, err error) {
	if err != nil {
		r.MarkFailure(ev.String())
	}
	r.mu.Lock()
	r.current = ""
	r.mu.Unlock()
}

// Finish pings the monitor once. Later calls do nothing.
func (r *Reporter) Finish(ctx context.Context) error {
	var err error
	r.once.Do(func() {
		if r.url == "" {
			return
		}
		target := r.target()
		err = r.ping(ctx, target)
		if err != nil {
			r.logger.Warn("Monitor ping failed", zap.Error(err))
		}
	})
	return err
}

// target expands the URL template with the current state.
func (r *Reporter) target() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := "down"
	msg := "Something went wrong."
	if r.success {
		status = "up"
		msg = "OK"
		if r.summary != "" {
			msg = r.summary
		}
	} else if r.failedAt != "" {
		msg = "Failed at " + r.failedAt
	} else if r.current != "" {
		msg = "Failed at " + r.current
	}
	elapsed := r.now().Sub(r.started).Milliseconds()

	return strings.NewReplacer(
		"{status}", status,
		"{msg}", url.QueryEscape(msg),
		"{ping}", strconv.FormatInt(elapsed, 10),
	).Replace(r.url)
}

func (r *Reporter) ping(ctx context.Context, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("monitor responded %s", resp.Status)
	}
	return nil
}
