package updatesync

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// Default retry parameters.
const (
	// DefaultRetryInterval is the fixed cadence between deferred
	// delivery attempts.
	DefaultRetryInterval = 3 * time.Second

	// DefaultMaxAttempts bounds one retry cycle. A later state change
	// starts a fresh cycle.
	DefaultMaxAttempts = 10
)

// ConfigurationSource answers whether the hub can currently receive
// entity updates.
//
// Implementations must be synchronous, side-effect free, and safe to
// call from both the notify path and the retry loop. The entity
// registry is the production implementation.
type ConfigurationSource interface {
	IsConfigured() bool
}

// Sink delivers a full state update to the hub.
//
// Delivery is best-effort: a returned error is treated as transient
// and the engine retries with fresher state later. Implementations
// must tolerate concurrent calls serialized by the engine.
type Sink interface {
	Emit(snapshot entity.Snapshot) error
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

// Options configures a synchronization engine.
type Options struct {
	// Source is the configuration oracle (required).
	Source ConfigurationSource

	// Sink delivers updates to the hub (required).
	Sink Sink

	// RetryInterval is the fixed cadence between deferred delivery
	// attempts. Default: DefaultRetryInterval.
	RetryInterval time.Duration

	// MaxAttempts bounds one retry cycle. Default: DefaultMaxAttempts.
	MaxAttempts int

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// Stats is a point-in-time view of the engine's counters and state.
type Stats struct {
	// Confirmed is true once one update has been delivered while the
	// hub was configured. It never reverts for the engine's lifetime.
	Confirmed bool

	// Deferred is true while an undelivered snapshot is held.
	Deferred bool

	// RetryActive is true while a retry loop is running.
	RetryActive bool

	// Emits counts successful deliveries.
	Emits uint64

	// Deferrals counts snapshots stored for later delivery.
	Deferrals uint64

	// RetryAttempts counts retry loop delivery attempts.
	RetryAttempts uint64

	// Coalesced counts deferred snapshots overwritten by newer ones.
	Coalesced uint64
}

// retryTask identifies one retry loop. The engine holds the handle of
// the active loop; a loop that finds the handle pointing elsewhere has
// been superseded and exits without touching engine state.
type retryTask struct {
	cancel context.CancelFunc
}

// Engine defers entity updates until the hub is ready to receive them.
//
// One engine serves one appliance connection. State changes arrive via
// Notify; while the hub has not yet subscribed the driver's entities,
// the latest snapshot is held back (newer snapshots overwrite older
// ones) and a bounded fixed-cadence retry loop attempts delivery. Once
// one delivery succeeds the engine is confirmed and every subsequent
// notify emits synchronously.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Notify calls and retry attempts serialize on one mutex, so a
//     fresh notify always observes the retry loop's outcome and vice
//     versa, and emissions are never reordered.
type Engine struct {
	source        ConfigurationSource
	sink          Sink
	retryInterval time.Duration
	maxAttempts   int
	logger        Logger

	mu        sync.Mutex
	confirmed bool
	closed    bool
	pending   entity.Snapshot
	retry     *retryTask

	emits         uint64
	deferrals     uint64
	retryAttempts uint64
	coalesced     uint64

	wg sync.WaitGroup
}

// New creates a synchronization engine.
//
// Parameters:
//   - opts: Engine options; Source and Sink are required
//
// Returns:
//   - *Engine: Ready for use; call Close on session teardown
//   - error: If a required collaborator is missing
func New(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, ErrNilSource
	}
	if opts.Sink == nil {
		return nil, ErrNilSink
	}

	interval := opts.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Engine{
		source:        opts.Source,
		sink:          opts.Sink,
		retryInterval: interval,
		maxAttempts:   attempts,
		logger:        logger,
	}, nil
}

// Notify accepts a full state update from the appliance session.
//
// If the hub is configured (or a previous delivery already confirmed
// it), the snapshot is emitted immediately. Otherwise it is stored as
// the pending snapshot, overwriting any previous one, and a retry loop
// is started if none is active. Notify never returns an error; delivery
// problems are absorbed by the deferral machinery.
func (e *Engine) Notify(snapshot entity.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	if e.confirmed || e.source.IsConfigured() {
		err := e.sink.Emit(snapshot)
		if err == nil {
			e.emits++
			if !e.confirmed {
				e.confirmed = true
				e.logger.Info("first update delivered, hub confirmed")
			}
			e.pending = nil
			e.stopRetryLocked()
			return
		}

		if e.confirmed {
			// The next state change carries fresher data than a retry would.
			e.logger.Warn("update emit failed after confirmation, dropping", "error", err)
			return
		}

		e.logger.Warn("update emit failed before confirmation, deferring", "error", err)
	}

	if e.pending != nil {
		e.coalesced++
	}
	e.pending = snapshot
	e.deferrals++
	e.startRetryLocked()
}

// Confirmed reports whether at least one update has been delivered
// while the hub was configured.
func (e *Engine) Confirmed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.confirmed
}

// Stats returns a snapshot of the engine's counters and state.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Stats{
		Confirmed:     e.confirmed,
		Deferred:      e.pending != nil,
		RetryActive:   e.retry != nil,
		Emits:         e.emits,
		Deferrals:     e.deferrals,
		RetryAttempts: e.retryAttempts,
		Coalesced:     e.coalesced,
	}
}

// Close tears down the engine on session disconnect.
//
// It cancels any retry loop, waits for it to exit, and drops the
// pending snapshot. Later notifies are ignored. Safe to call more
// than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stopRetryLocked()
	e.pending = nil
	e.mu.Unlock()

	e.wg.Wait()
}

// startRetryLocked starts a retry loop unless one is already active.
// Caller must hold e.mu.
func (e *Engine) startRetryLocked() {
	if e.retry != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := &retryTask{cancel: cancel}
	e.retry = task

	e.wg.Add(1)
	go e.retryLoop(ctx, task)

	e.logger.Debug("update deferred, retry loop started",
		"interval", e.retryInterval,
		"max_attempts", e.maxAttempts,
	)
}

// stopRetryLocked cancels the active retry loop, if any.
// Caller must hold e.mu.
func (e *Engine) stopRetryLocked() {
	if e.retry != nil {
		e.retry.cancel()
		e.retry = nil
	}
}

// retryLoop attempts delivery of the pending snapshot at a fixed
// cadence until it succeeds, the attempt budget is exhausted, or the
// loop is cancelled.
func (e *Engine) retryLoop(ctx context.Context, task *retryTask) {
	defer e.wg.Done()

	timer := time.NewTimer(e.retryInterval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if e.attemptDelivery(task, attempt) {
			return
		}
		timer.Reset(e.retryInterval)
	}
}

// attemptDelivery performs one retry attempt. It returns true when the
// loop should stop: delivered, superseded, nothing left to do, or
// budget exhausted.
func (e *Engine) attemptDelivery(task *retryTask, attempt int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Superseded or cancelled while waiting for the lock.
	if e.retry != task {
		return true
	}

	// A concurrent notify delivered directly.
	if e.pending == nil || e.confirmed {
		e.retry = nil
		return true
	}

	e.retryAttempts++

	if e.source.IsConfigured() {
		err := e.sink.Emit(e.pending)
		if err == nil {
			e.emits++
			e.confirmed = true
			e.pending = nil
			e.retry = nil
			e.logger.Info("deferred update delivered, hub confirmed", "attempts", attempt)
			return true
		}
		e.logger.Warn("deferred update emit failed", "attempt", attempt, "error", err)
	}

	if attempt >= e.maxAttempts {
		// Keep the pending snapshot: the next notify starts a fresh cycle.
		e.retry = nil
		e.logger.Warn("retry budget exhausted, suspending until next state change",
			"attempts", attempt,
		)
		return true
	}

	return false
}
