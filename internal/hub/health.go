package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nerrad567/avr-driver/internal/infrastructure/mqtt"
	"github.com/nerrad567/avr-driver/internal/updatesync"
)

// defaultHealthInterval is how often health status is published.
const defaultHealthInterval = 30 * time.Second

// StatsProvider supplies appliance and synchronization state for
// health reports. The session manager is the production implementation.
type StatsProvider interface {
	// DeviceConnected reports whether the appliance session is up.
	DeviceConnected() bool

	// SyncStats returns the current synchronization engine counters.
	SyncStats() updatesync.Stats
}

// HealthReporter publishes periodic driver health reports to the hub.
//
// Reports are retained so the hub always sees the latest state even
// across its own restarts.
type HealthReporter struct {
	driverID  string
	version   string
	startTime time.Time
	interval  time.Duration
	publisher MQTTClient
	provider  StatsProvider
	topics    mqtt.Topics

	// Shutdown coordination (stopOnce prevents double-close panics)
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	logger Logger
}

// HealthReporterConfig holds configuration for the health reporter.
type HealthReporterConfig struct {
	// DriverID keys the health topic.
	DriverID string

	// Version is the driver software version.
	Version string

	// Interval is how often to publish health status.
	// Default: 30 seconds.
	Interval time.Duration

	// Publisher is the MQTT client for publishing messages.
	Publisher MQTTClient

	// Provider supplies device and sync state (optional).
	Provider StatsProvider

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// NewHealthReporter creates a health reporter.
//
// Parameters:
//   - cfg: Configuration for the health reporter
//
// Returns:
//   - *HealthReporter: Ready to start (call Start to begin reporting)
func NewHealthReporter(cfg HealthReporterConfig) *HealthReporter {
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultHealthInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &HealthReporter{
		driverID:  cfg.DriverID,
		version:   cfg.Version,
		startTime: time.Now(),
		interval:  interval,
		publisher: cfg.Publisher,
		provider:  cfg.Provider,
		done:      make(chan struct{}),
		logger:    logger,
	}
}

// Start begins periodic health reporting.
// Must be called after creation. Call Stop to shut down.
//
// Parameters:
//   - ctx: Context for cancellation (will stop reporting when cancelled)
func (h *HealthReporter) Start(ctx context.Context) {
	h.wg.Add(1)
	go h.reportLoop(ctx)
}

// Stop gracefully stops health reporting.
// Publishes a final "stopping" status before returning.
// Safe to call multiple times (uses sync.Once).
func (h *HealthReporter) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		// Final stopping status (best-effort, ignore errors)
		//nolint:errcheck // Best-effort during shutdown, nothing we can do if it fails
		h.publishStatus(HealthStopping, "driver stopping")
	})
}

// PublishNow publishes the current health status immediately.
// Useful for forcing an update after a significant event.
func (h *HealthReporter) PublishNow() error {
	status, reason := h.determineStatus()
	return h.publishStatus(status, reason)
}

// reportLoop runs the periodic health reporting.
func (h *HealthReporter) reportLoop(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	// Publish initial status
	if err := h.PublishNow(); err != nil {
		h.logger.Error("failed to publish initial health", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			if err := h.PublishNow(); err != nil {
				h.logger.Error("failed to publish health", "error", err)
			}
		}
	}
}

// determineStatus evaluates the current driver status.
func (h *HealthReporter) determineStatus() (HealthStatus, string) {
	if h.publisher == nil || !h.publisher.IsConnected() {
		return HealthDegraded, "MQTT disconnected"
	}

	if h.provider != nil && !h.provider.DeviceConnected() {
		return HealthDegraded, "appliance disconnected"
	}

	return HealthHealthy, ""
}

// publishStatus publishes a health status message.
func (h *HealthReporter) publishStatus(status HealthStatus, reason string) error {
	if h.publisher == nil {
		return nil // No publisher configured
	}

	msg := HealthMessage{
		DriverID:      h.driverID,
		Status:        status,
		Reason:        reason,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MQTTConnected: h.publisher.IsConnected(),
		Timestamp:     timestamp(),
	}

	if h.provider != nil {
		msg.DeviceConnected = h.provider.DeviceConnected()
		stats := h.provider.SyncStats()
		msg.Sync = SyncHealth{
			Confirmed:     stats.Confirmed,
			Deferred:      stats.Deferred,
			RetryActive:   stats.RetryActive,
			Emits:         stats.Emits,
			Deferrals:     stats.Deferrals,
			RetryAttempts: stats.RetryAttempts,
			Coalesced:     stats.Coalesced,
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	// QoS 1, retained
	return h.publisher.Publish(h.topics.DriverHealth(h.driverID), payload, 1, true)
}
