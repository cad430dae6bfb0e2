// Package hub adapts the driver to the remote-control hub over MQTT.
//
// Inbound, it consumes the hub's entity subscribe and unsubscribe
// requests and applies them to the entity registry, which is how
// entities move between the available and configured states. Outbound,
// it announces the driver's entity set, publishes full state updates
// (implementing the synchronization engine's Sink), and reports
// periodic health including sync engine counters.
//
// The hub owns subscription timing: the driver only ever reacts.
package hub
