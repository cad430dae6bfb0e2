// Package avr models the AV receiver the driver fronts.
//
// It defines the receiver's entity set (one media player, six sensors,
// two selects, and a remote per device), maps ReceiverState onto full
// entity snapshots, and provides a Simulator device for development
// and tests. Byte-level receiver protocols implement session.Device
// elsewhere; this package only knows the receiver's shape.
package avr
