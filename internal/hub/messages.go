package hub

import (
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// SubscriptionEvent is the payload of hub subscribe/unsubscribe requests.
//
// Topic: remotehub/{driver_id}/entities/subscribe (and .../unsubscribe)
type SubscriptionEvent struct {
	EntityIDs []string `json:"entity_ids"`
}

// UpdateEvent is the payload of entity state updates to the hub.
//
// Topic: remotehub/{driver_id}/entities/update
type UpdateEvent struct {
	DriverID  string          `json:"driver_id"`
	Entities  entity.Snapshot `json:"entities"`
	Timestamp string          `json:"timestamp"`
}

// AvailabilityEvent announces the driver's entity set to the hub.
//
// Topic: remotehub/{driver_id}/entities/available (retained)
type AvailabilityEvent struct {
	DriverID  string          `json:"driver_id"`
	Name      string          `json:"name"`
	Entities  []entity.Entity `json:"entities"`
	Timestamp string          `json:"timestamp"`
}

// HealthStatus represents the driver health state.
type HealthStatus string

// Health states.
const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthStopping HealthStatus = "stopping"
)

// HealthMessage is the payload of periodic driver health reports.
//
// Topic: remotehub/{driver_id}/health (retained)
type HealthMessage struct {
	DriverID        string       `json:"driver_id"`
	Status          HealthStatus `json:"status"`
	Reason          string       `json:"reason,omitempty"`
	Version         string       `json:"version"`
	UptimeSeconds   int64        `json:"uptime_seconds"`
	DeviceConnected bool         `json:"device_connected"`
	MQTTConnected   bool         `json:"mqtt_connected"`
	Sync            SyncHealth   `json:"sync"`
	Timestamp       string       `json:"timestamp"`
}

// SyncHealth carries synchronization engine state in health reports.
type SyncHealth struct {
	Confirmed     bool   `json:"confirmed"`
	Deferred      bool   `json:"deferred"`
	RetryActive   bool   `json:"retry_active"`
	Emits         uint64 `json:"emits"`
	Deferrals     uint64 `json:"deferrals"`
	RetryAttempts uint64 `json:"retry_attempts"`
	Coalesced     uint64 `json:"coalesced"`
}

// timestamp returns the current time in the wire format used by all
// hub payloads.
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
