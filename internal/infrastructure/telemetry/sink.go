package telemetry

import "github.com/nerrad567/avr-driver/internal/entity"

// EmitSink is the delivery interface the decorator wraps.
// updatesync.Sink implementations satisfy it.
type EmitSink interface {
	Emit(snapshot entity.Snapshot) error
}

// Sink records delivered updates to InfluxDB, wrapping another sink.
//
// Writes happen only after the wrapped sink accepted the snapshot and
// are non-blocking, so telemetry never slows or fails delivery.
type Sink struct {
	next     EmitSink
	client   *Client
	driverID string
}

// NewSink wraps a sink with telemetry recording.
//
// Parameters:
//   - next: Sink performing the actual delivery (required)
//   - client: Connected telemetry client (required)
//   - driverID: Driver instance identifier used as a tag
//
// Returns:
//   - *Sink: Decorated sink
func NewSink(next EmitSink, client *Client, driverID string) *Sink {
	return &Sink{next: next, client: client, driverID: driverID}
}

// Emit delivers the snapshot through the wrapped sink and records each
// entity's scalar attributes on success.
func (s *Sink) Emit(snapshot entity.Snapshot) error {
	if err := s.next.Emit(snapshot); err != nil {
		return err
	}

	for entityID, attrs := range snapshot {
		s.client.WriteEntityUpdate(s.driverID, entityID, attrs)
	}
	return nil
}
