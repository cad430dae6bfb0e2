package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteEntityUpdate records one entity's attributes from a delivered
// state update.
//
// Only scalar attribute values (numbers, booleans, strings) are written;
// nested structures are skipped. The write is non-blocking; data is
// batched and sent asynchronously.
//
// Parameters:
//   - driverID: Driver instance identifier (tag)
//   - entityID: Entity the attributes belong to (tag)
//   - attributes: Attribute map from the update snapshot
func (c *Client) WriteEntityUpdate(driverID, entityID string, attributes map[string]any) {
	if !c.IsConnected() {
		return
	}

	fields := scalarFields(attributes)
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"entity_update",
		map[string]string{
			"driver_id": driverID,
			"entity_id": entityID,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSyncStats records synchronization engine counters.
//
// Parameters:
//   - driverID: Driver instance identifier (tag)
//   - emits, deferrals, retryAttempts, coalesced: Engine counters
func (c *Client) WriteSyncStats(driverID string, emits, deferrals, retryAttempts, coalesced uint64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sync_stats",
		map[string]string{
			"driver_id": driverID,
		},
		map[string]interface{}{
			"emits":          int64(emits),
			"deferrals":      int64(deferrals),
			"retry_attempts": int64(retryAttempts),
			"coalesced":      int64(coalesced),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// scalarFields filters an attribute map down to InfluxDB-compatible
// field values. Nested maps and slices are dropped.
func scalarFields(attributes map[string]any) map[string]interface{} {
	fields := make(map[string]interface{}, len(attributes))
	for key, value := range attributes {
		switch v := value.(type) {
		case bool, string,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			fields[key] = v
		}
	}
	return fields
}
