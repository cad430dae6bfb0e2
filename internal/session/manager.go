package session

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/avr-driver/internal/updatesync"
)

// Default reconnect backoff parameters.
const (
	// DefaultBackoffInitial is the first reconnect delay.
	DefaultBackoffInitial = 5 * time.Second

	// DefaultBackoffMax caps the exponential reconnect delay.
	DefaultBackoffMax = 300 * time.Second
)

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a session manager.
type Options struct {
	// Device is the appliance connection to supervise (required).
	Device Device

	// Sync configures the synchronization engine created for each
	// established connection. Source and Sink are required.
	Sync updatesync.Options

	// BackoffInitial is the first reconnect delay.
	// Default: DefaultBackoffInitial.
	BackoffInitial time.Duration

	// BackoffMax caps the exponential reconnect delay.
	// Default: DefaultBackoffMax.
	BackoffMax time.Duration

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// Manager supervises one appliance connection.
//
// It connects the device with exponential backoff, creates a fresh
// synchronization engine for each established session, forwards device
// state callbacks into the engine, and closes the engine when the
// session drops. The cycle repeats until Stop is called.
//
// A fresh engine per session means confirmation is re-earned after
// every reconnect: the appliance may have changed state while the
// driver was away, so nothing stale is carried across.
type Manager struct {
	device         Device
	syncOpts       updatesync.Options
	backoffInitial time.Duration
	backoffMax     time.Duration
	logger         Logger

	mu        sync.Mutex
	engine    *updatesync.Engine
	connected bool
	started   bool

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewManager creates a session manager.
//
// Parameters:
//   - opts: Manager options; Device and the Sync collaborators are required
//
// Returns:
//   - *Manager: Ready to start (call Start to begin supervising)
//   - error: If a required collaborator is missing
func NewManager(opts Options) (*Manager, error) {
	if opts.Device == nil {
		return nil, ErrNilDevice
	}
	if opts.Sync.Source == nil {
		return nil, updatesync.ErrNilSource
	}
	if opts.Sync.Sink == nil {
		return nil, updatesync.ErrNilSink
	}

	backoffInitial := opts.BackoffInitial
	if backoffInitial <= 0 {
		backoffInitial = DefaultBackoffInitial
	}
	backoffMax := opts.BackoffMax
	if backoffMax <= 0 {
		backoffMax = DefaultBackoffMax
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Manager{
		device:         opts.Device,
		syncOpts:       opts.Sync,
		backoffInitial: backoffInitial,
		backoffMax:     backoffMax,
		logger:         logger,
	}, nil
}

// Start begins supervising the appliance connection.
// Must be called once. Call Stop to shut down.
//
// Parameters:
//   - ctx: Context for cancellation (supervision ends when cancelled)
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.supervise(runCtx)
	return nil
}

// Stop shuts down the manager.
//
// It cancels supervision, waits for the session loop to exit, closes
// the active engine, and releases the device transport. Safe to call
// more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		cancel := m.cancel
		m.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		m.wg.Wait()

		if err := m.device.Close(); err != nil {
			m.logger.Warn("closing appliance transport", "error", err)
		}
	})
}

// DeviceConnected reports whether the appliance session is up.
func (m *Manager) DeviceConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SyncStats returns the counters of the current session's
// synchronization engine. Between sessions it reports the last
// session's final counters; before the first session it is zero.
func (m *Manager) SyncStats() updatesync.Stats {
	m.mu.Lock()
	engine := m.engine
	m.mu.Unlock()

	if engine == nil {
		return updatesync.Stats{}
	}
	return engine.Stats()
}

// supervise runs the connect/run/reconnect cycle until cancelled.
func (m *Manager) supervise(ctx context.Context) {
	defer m.wg.Done()

	delay := m.backoffInitial
	for {
		if ctx.Err() != nil {
			return
		}

		if err := m.device.Connect(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn("appliance connect failed",
				"error", err,
				"retry_in", delay,
			)
			if !sleep(ctx, delay) {
				return
			}
			delay = min(delay*2, m.backoffMax)
			continue
		}
		delay = m.backoffInitial

		if !m.runSession(ctx) {
			return
		}

		if !sleep(ctx, delay) {
			return
		}
	}
}

// runSession wires a fresh engine to the device and pumps events until
// the connection drops. It returns false when supervision should end.
func (m *Manager) runSession(ctx context.Context) bool {
	engine, err := updatesync.New(m.syncOpts)
	if err != nil {
		// Options are validated in NewManager; this is unreachable in practice.
		m.logger.Error("creating synchronization engine", "error", err)
		return false
	}

	m.device.SetOnState(engine.Notify)

	m.mu.Lock()
	m.engine = engine
	m.connected = true
	m.mu.Unlock()

	m.logger.Info("appliance session established")

	runErr := m.device.Run(ctx)

	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
	engine.Close()

	if ctx.Err() != nil {
		m.logger.Info("appliance session closed")
		return false
	}
	if runErr != nil {
		m.logger.Warn("appliance session dropped", "error", runErr)
	} else {
		m.logger.Info("appliance session ended")
	}
	return true
}

// sleep waits for the delay or cancellation. It returns false when the
// context was cancelled.
func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
