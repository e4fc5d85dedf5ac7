// Package engine dispatches the requests of a load test and collects their outcomes.
package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
	lhttp "github.com/wesleyorama2/loadfire/internal/http"
	"github.com/wesleyorama2/loadfire/internal/performance/metrics"
)

// ErrAlreadyRun is returned when Run is called more than once on an Engine.
var ErrAlreadyRun = errors.New("engine has already run")

// Sender sends one request for a worker and reports its outcome. *lhttp.Client
// implements it.
type Sender interface {
	Send(ctx context.Context, cfg *config.LoadTestConfig, row data.Row) lhttp.Outcome
}

// Engine fans out one worker per request, binds each worker to a data row and
// aggregates the outcomes.
//
// All workers are started at once unless the config sets a concurrency cap.
// Run blocks until every started worker has recorded its outcome.
type Engine struct {
	config     *config.LoadTestConfig
	rows       []data.Row
	sender     Sender
	aggregator *metrics.Aggregator
	runID      string
	logger     *log.Entry

	started atomic.Bool
	running atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSender replaces the HTTP client used by workers.
func WithSender(s Sender) Option {
	return func(e *Engine) {
		e.sender = s
	}
}

// WithLogger sets the logger used for run and request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = log.NewEntry(l)
	}
}

// Result contains the outcome of a finished run.
type Result struct {
	RunID     string            `json:"runId"`
	Name      string            `json:"name"`
	URL       string            `json:"url"`
	Method    config.HTTPMethod `json:"method"`
	StartTime time.Time         `json:"startTime"`
	EndTime   time.Time         `json:"endTime"`
	Duration  time.Duration     `json:"duration"`
	Summary   metrics.Summary   `json:"summary"`

	// Cancelled is set when the context ended before every worker was started.
	// Summary then covers only the workers that ran.
	Cancelled bool `json:"cancelled"`
}

// NewEngine creates an engine for cfg. rows may be empty, in which case no
// placeholder substitution happens.
func NewEngine(cfg *config.LoadTestConfig, rows []data.Row, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.RequestCount < 0 {
		return nil, errors.Errorf("request count cannot be negative: %d", cfg.RequestCount)
	}

	e := &Engine{
		config:     cfg,
		rows:       rows,
		aggregator: metrics.NewAggregator(cfg.RequestCount),
		runID:      uuid.NewString(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.sender == nil {
		e.sender = lhttp.NewClient(lhttp.FromConfig(cfg)...)
	}
	if e.logger == nil {
		e.logger = log.NewEntry(log.StandardLogger())
	}
	e.logger = e.logger.WithField("run_id", e.runID)

	return e, nil
}

// RowFor returns the data row bound to the worker at index, cycling through
// rows. It returns nil when there are no rows.
func RowFor(index int, rows []data.Row) data.Row {
	if len(rows) == 0 {
		return nil
	}
	return rows[index%len(rows)]
}

// Run dispatches every request and returns the summary once all workers have
// finished.
//
// Per-request failures never abort the run. When ctx is cancelled no new
// workers are started; workers already in flight run to completion or to their
// transport timeout, and the summary covers the completed subset.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if !e.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	e.running.Store(true)
	defer e.running.Store(false)

	n := e.config.RequestCount
	result := &Result{
		RunID:     e.runID,
		Name:      e.config.Name,
		URL:       e.config.URL,
		Method:    e.config.Method.Normalize(),
		StartTime: time.Now(),
	}

	e.logger.WithFields(log.Fields{
		"url":         e.config.URL,
		"method":      result.Method,
		"requests":    n,
		"rows":        len(e.rows),
		"concurrency": e.config.Concurrency,
	}).Info("starting load test")

	var sem *semaphore.Weighted
	if e.config.Concurrency > 0 {
		sem = semaphore.NewWeighted(int64(e.config.Concurrency))
	}

	// In-flight requests must not be torn down by run cancellation.
	reqCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		if sem != nil {
			if err := sem.Acquire(ctx, 1); err != nil {
				result.Cancelled = true
				break
			}
		}
		if ctx.Err() != nil {
			if sem != nil {
				sem.Release(1)
			}
			result.Cancelled = true
			break
		}

		row := RowFor(i, e.rows)
		g.Go(func() error {
			if sem != nil {
				defer sem.Release(1)
			}
			e.work(reqCtx, i, row)
			return nil
		})
	}

	// Join barrier: nothing is finalized until every started worker is done.
	_ = g.Wait()

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Summary = e.aggregator.Snapshot()

	if c, ok := e.sender.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}

	entry := e.logger.WithFields(log.Fields{
		"received":  result.Summary.Received,
		"succeeded": result.Summary.Succeeded,
		"failed":    result.Summary.Failed,
		"elapsed":   result.Duration.String(),
	})
	if result.Cancelled {
		entry.Warn("load test cancelled before all requests were dispatched")
	} else {
		entry.Info("load test finished")
	}

	return result, nil
}

// work is one unit: send a single request and record its outcome.
func (e *Engine) work(ctx context.Context, index int, row data.Row) {
	e.aggregator.RecordSent()

	outcome := e.sender.Send(ctx, e.config, row)
	if !outcome.Succeeded() {
		e.logger.WithFields(log.Fields{
			"worker": index,
			"kind":   outcome.Kind.String(),
			"status": outcome.StatusCode,
			"error":  outcome.Err,
		}).Debug("request failed")
	}

	e.aggregator.RecordReceived(outcome)
}

// Progress returns live counters for progress display.
func (e *Engine) Progress() metrics.Progress {
	return e.aggregator.Progress()
}

// IsRunning reports whether Run is in progress.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// RunID returns the identifier attached to this run's logs and result.
func (e *Engine) RunID() string {
	return e.runID
}
