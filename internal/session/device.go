package session

import (
	"context"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// Device is one appliance connection implementation.
//
// Protocol transports (and the development simulator) implement this
// interface; the manager owns when each method is called. A Device is
// reused across reconnects: Connect and Run are invoked once per
// session attempt.
type Device interface {
	// Connect establishes the transport connection and performs any
	// initial state query. It returns once the device is ready to Run.
	Connect(ctx context.Context) error

	// Run pumps device events until the connection drops or the
	// context is cancelled. State changes are delivered through the
	// callback registered with SetOnState.
	Run(ctx context.Context) error

	// Close releases the transport. Called once on manager shutdown.
	Close() error

	// SetOnState registers the callback receiving full state
	// snapshots. The manager re-registers it for every session, so a
	// fresh synchronization engine observes each connection.
	SetOnState(fn func(entity.Snapshot))
}
