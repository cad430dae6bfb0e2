package hub

import "errors"

// Domain-specific errors for the hub adapter.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoDriverID is returned by New when the driver ID is empty.
	ErrNoDriverID = errors.New("hub: driver ID is required")

	// ErrNilRegistry is returned by New when no entity registry is provided.
	ErrNilRegistry = errors.New("hub: entity registry is required")

	// ErrNilTransport is returned by New when no MQTT client is provided.
	ErrNilTransport = errors.New("hub: MQTT client is required")

	// ErrEmptySubscription is returned for subscription events without entity IDs.
	ErrEmptySubscription = errors.New("hub: subscription event has no entity ids")
)
