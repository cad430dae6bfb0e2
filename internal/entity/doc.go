// Package entity defines the driver's hub-facing entity model.
//
// An Entity is one controllable or observable capability of the
// appliance (media player, a sensor, an input selector, the remote).
// A Snapshot carries the full attribute state of every owned entity
// and is the unit of delivery to the hub.
//
// The Registry tracks each entity's hub-side lifecycle state. Entities
// are available after registration and configured only once the hub
// subscribes them; the hub controls that timing, not the driver. The
// registry's IsConfigured is the gate the synchronization engine
// consults before emitting updates.
package entity
