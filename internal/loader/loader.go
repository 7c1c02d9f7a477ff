// Package loader runs earthquake load cycles off the UI goroutine.
//
// A cycle is one build-fetch-decode pass bound to a single URL. Start launches
// it and returns a Task; the caller receives the result once through Wait,
// or drops it with Cancel when the view that asked for it is gone.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/quakewatch/internal/models"
	"github.com/thesavant42/quakewatch/internal/observability"
)

// Fetcher is the fetch-and-decode step of a load cycle.
// Implementations return nil when there was nothing to decode.
type Fetcher interface {
	FetchEarthquakes(ctx context.Context, rawURL string) []models.Earthquake
}

// Result is what a load cycle delivers
type Result struct {
	URL         string
	Earthquakes []models.Earthquake // nil when absent
	Elapsed     time.Duration
}

// Absent reports whether the cycle produced no data at all, as opposed to
// a decoded but empty list.
func (r Result) Absent() bool {
	return r.Earthquakes == nil
}

// Loader starts load cycles against a Fetcher
type Loader struct {
	fetcher Fetcher
	logger  *log.Logger
	metrics *observability.Metrics
}

// New creates a Loader. logger and metrics may be nil.
func New(fetcher Fetcher, logger *log.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
}

// Start begins a load cycle for rawURL on a new goroutine.
// An empty rawURL delivers an absent result without calling the fetcher.
func (l *Loader) Start(parent context.Context, rawURL string) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan Result, 1),
		metrics: l.metrics,
	}

	if l.metrics != nil {
		l.metrics.LoadCycles.Inc()
	}

	go func() {
		start := time.Now()
		res := Result{URL: rawURL}
		if rawURL != "" {
			res.Earthquakes = l.fetcher.FetchEarthquakes(ctx, rawURL)
		}
		res.Elapsed = time.Since(start)

		if l.logger != nil {
			l.logger.Info("Load cycle finished",
				"url", rawURL,
				"count", len(res.Earthquakes),
				"absent", res.Absent(),
				"elapsed", res.Elapsed)
		}
		if l.metrics != nil {
			l.metrics.LastResultLength.Set(float64(len(res.Earthquakes)))
		}
		t.done <- res
	}()

	return t
}

// Task is one in-flight load cycle
type Task struct {
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan Result
	metrics *observability.Metrics

	once      sync.Once
	cancelled bool
	taken     bool
	mu        sync.Mutex
}

// Wait blocks until the cycle finishes or is cancelled.
// The bool is false when the task was cancelled, directly or through the
// parent context; the result must then be ignored. A task has a single
// consumer: once a result has been received, later calls return false.
func (t *Task) Wait() (Result, bool) {
	t.mu.Lock()
	taken := t.taken
	t.mu.Unlock()
	if taken {
		return Result{}, false
	}

	select {
	case res := <-t.done:
		live := !t.Cancelled() && t.ctx.Err() == nil
		t.mu.Lock()
		t.taken = true
		t.mu.Unlock()
		// Release the child context; this also wakes any concurrent Wait
		t.cancel()
		if !live {
			return Result{}, false
		}
		return res, true
	case <-t.ctx.Done():
		return Result{}, false
	}
}

// Cancel stops the cycle and turns delivery into a no-op. Safe to call
// more than once and after the result was delivered.
func (t *Task) Cancel() {
	t.once.Do(func() {
		t.mu.Lock()
		t.cancelled = true
		t.mu.Unlock()
		t.cancel()
		if t.metrics != nil {
			t.metrics.LoadsCancelled.Inc()
		}
	})
}

// Cancelled reports whether Cancel was called
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}
