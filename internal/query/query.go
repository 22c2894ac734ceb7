// Package query implements the reactive read side of the storefront data
// layer. Each query type wraps a Watcher: a live view over one or more
// collections that re-runs its read pipeline whenever the change bus
// announces a write or the caller changes parameters.
//
// Every run simulates network-like latency before committing its result, so
// consumers see a consistent loading contract regardless of how fast the
// store actually is. Runs are numbered; a run that resolves after a newer one
// has been issued is discarded, never committed. Pipeline panics are caught
// at the watcher boundary and surfaced as the error state.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/vitrinshop/vitrin/internal"
	"github.com/vitrinshop/vitrin/internal/bus"
	"github.com/vitrinshop/vitrin/internal/telemetry"
)

// Result is one observed state of a watcher: loading, ready (Err == nil), or
// error. Data holds the last committed value and is retained across reloads,
// so consumers can keep rendering stale data while a refresh is in flight.
type Result[T any] struct {
	Data    T
	Loading bool
	Err     error
}

// pipeline produces a fresh result from the current store state.
type pipeline[T any] func(ctx context.Context) (T, error)

// Watcher runs a read pipeline on demand and keeps its latest result.
type Watcher[T any] struct {
	name    string
	logger  *slog.Logger
	metrics *telemetry.Metrics
	latency internal.LatencyConfig
	run     pipeline[T]

	mu      sync.Mutex
	seq     uint64
	result  Result[T]
	updates chan Result[T]
	cancels []func()
	closed  bool
}

func newWatcher[T any](name string, logger *slog.Logger, metrics *telemetry.Metrics, latency internal.LatencyConfig, run pipeline[T]) *Watcher[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher[T]{
		name:    name,
		logger:  logger.With("query", name),
		metrics: metrics,
		latency: latency,
		run:     run,
		result:  Result[T]{Loading: true},
		updates: make(chan Result[T], 1),
	}
}

// watch subscribes the watcher to bus topics so writes trigger a reload. The
// unsubscribes run on Close.
func (w *Watcher[T]) watch(b *bus.ChangeBus, topics ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, topic := range topics {
		w.cancels = append(w.cancels, b.Subscribe(topic, w.reload))
	}
}

// reload issues a new run, superseding any run still in flight.
func (w *Watcher[T]) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.seq++
	seq := w.seq
	w.result.Loading = true
	w.notifyLocked()
	w.mu.Unlock()

	go w.execute(seq)
}

func (w *Watcher[T]) execute(seq uint64) {
	if w.metrics != nil {
		w.metrics.QueryRuns.WithLabelValues(w.name).Inc()
	}

	data, err := w.runSafe()
	delay := w.delay()
	if delay > 0 {
		time.Sleep(delay)
	}
	if w.metrics != nil {
		w.metrics.QueryDelay.WithLabelValues(w.name).Observe(delay.Seconds())
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || seq != w.seq {
		if w.metrics != nil {
			w.metrics.QuerySuperseded.WithLabelValues(w.name).Inc()
		}
		w.logger.Debug("discarding superseded result", "seq", seq, "latest", w.seq)
		return
	}

	if err != nil {
		if w.metrics != nil {
			w.metrics.QueryFailures.WithLabelValues(w.name).Inc()
		}
		w.logger.Error("query pipeline failed", "error", err)
		w.result.Err = err
	} else {
		w.result.Data = data
		w.result.Err = nil
	}
	w.result.Loading = false
	w.notifyLocked()
}

// runSafe executes the pipeline, converting a panic into the error state. A
// bad filter must degrade to an empty result, never take the process down.
func (w *Watcher[T]) runSafe() (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query panicked: %v", r)
		}
	}()
	return w.run(context.Background())
}

func (w *Watcher[T]) delay() time.Duration {
	if w.latency.Max <= 0 {
		return 0
	}
	if w.latency.Max <= w.latency.Min {
		return w.latency.Min
	}
	return w.latency.Min + time.Duration(rand.Int63n(int64(w.latency.Max-w.latency.Min)))
}

// notifyLocked pushes the current result to the updates channel, latest
// wins: an unread older state is replaced rather than blocked on.
func (w *Watcher[T]) notifyLocked() {
	select {
	case <-w.updates:
	default:
	}
	w.updates <- w.result
}

// Snapshot returns the watcher's current state.
func (w *Watcher[T]) Snapshot() Result[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Updates returns a channel carrying state transitions. It holds at most the
// latest state; slow consumers see the newest result, not every intermediate
// one. The channel is closed by Close.
func (w *Watcher[T]) Updates() <-chan Result[T] {
	return w.updates
}

// Close detaches the watcher from the bus and closes the updates channel.
// Results from runs still in flight are discarded. Watchers must be closed
// when their consumer goes away or the bus keeps invoking a dead listener.
func (w *Watcher[T]) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	cancels := w.cancels
	w.cancels = nil
	close(w.updates)
	w.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
