// Package metrics aggregates request outcomes into summary statistics.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	lhttp "github.com/wesleyorama2/loadfire/internal/http"
)

// Aggregator accumulates counts and durations from concurrently running workers.
//
// # Thread Safety
//
// Aggregator is safe for concurrent use. The sent counter is atomic. The
// received counter, the succeeded/failed split and the duration log share one
// mutex, so RecordReceived updates them as a single step and
// succeeded+failed == received holds whenever the lock is free.
type Aggregator struct {
	total int64

	sent atomic.Int64

	mu                sync.Mutex
	received          int64
	succeeded         int64
	failed            int64
	statusFailures    int64
	transportFailures int64
	durations         []time.Duration
}

// NewAggregator creates an aggregator for a run of total requests.
func NewAggregator(total int) *Aggregator {
	capacity := total
	if capacity < 0 {
		capacity = 0
	}
	return &Aggregator{
		total:     int64(total),
		durations: make([]time.Duration, 0, capacity),
	}
}

// RecordSent counts one request as dispatched and returns the new sent count.
func (a *Aggregator) RecordSent() int64 {
	return a.sent.Add(1)
}

// RecordReceived records the outcome of one request and returns the new received count.
func (a *Aggregator) RecordReceived(outcome lhttp.Outcome) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.received++
	switch outcome.Kind {
	case lhttp.Success:
		a.succeeded++
	case lhttp.FailureStatus:
		a.failed++
		a.statusFailures++
	default:
		a.failed++
		a.transportFailures++
	}
	a.durations = append(a.durations, outcome.Duration)

	return a.received
}

// Progress is a best-effort live view of the counters for progress display.
type Progress struct {
	Total     int64
	Sent      int64
	Received  int64
	Succeeded int64
	Failed    int64
}

// Fraction returns received/total in [0, 1]. A zero-request run counts as complete.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Received) / float64(p.Total)
}

// Progress returns the current counters. It may be called while workers run.
func (a *Aggregator) Progress() Progress {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Progress{
		Total:     a.total,
		Sent:      a.sent.Load(),
		Received:  a.received,
		Succeeded: a.succeeded,
		Failed:    a.failed,
	}
}

// Snapshot computes the summary statistics.
//
// It must only be called after every worker has recorded its outcome; the
// engine guarantees this with its join barrier.
func (a *Aggregator) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Summary{
		Total:             a.total,
		Sent:              a.sent.Load(),
		Received:          a.received,
		Succeeded:         a.succeeded,
		Failed:            a.failed,
		StatusFailures:    a.statusFailures,
		TransportFailures: a.transportFailures,
	}

	if a.received > 0 {
		s.SuccessPercent = float64(a.succeeded) / float64(a.received) * 100
		s.FailurePercent = float64(a.failed) / float64(a.received) * 100
	}

	if len(a.durations) > 0 {
		var sum time.Duration
		s.Min = a.durations[0]
		s.Max = a.durations[0]
		for _, d := range a.durations {
			sum += d
			if d < s.Min {
				s.Min = d
			}
			if d > s.Max {
				s.Max = d
			}
		}
		s.Average = sum / time.Duration(len(a.durations))
	}

	return s
}
