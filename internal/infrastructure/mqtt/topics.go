package mqtt

import "fmt"

// TopicPrefix is the base for all hub-facing topics.
//
// The hub contract uses the scheme: remotehub/{driver_id}/{resource}.
// Every driver instance owns its own subtree, keyed by driver ID.
const TopicPrefix = "remotehub"

// Topics provides builders for hub MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	updateTopic := topics.EntitiesUpdate("avr-001")
//	// Returns: "remotehub/avr-001/entities/update"
type Topics struct{}

// DriverStatus returns the driver online/offline status topic.
// Retained; also used for the LWT message.
//
// Example: remotehub/avr-001/status
func (Topics) DriverStatus(driverID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefix, driverID)
}

// DriverHealth returns the periodic driver health topic.
//
// Example: remotehub/avr-001/health
func (Topics) DriverHealth(driverID string) string {
	return fmt.Sprintf("%s/%s/health", TopicPrefix, driverID)
}

// EntitiesAvailable returns the topic announcing the driver's entity set.
// Retained so the hub sees the offering immediately after (re)start.
//
// Example: remotehub/avr-001/entities/available
func (Topics) EntitiesAvailable(driverID string) string {
	return fmt.Sprintf("%s/%s/entities/available", TopicPrefix, driverID)
}

// EntitiesUpdate returns the topic for entity state updates to the hub.
//
// Example: remotehub/avr-001/entities/update
func (Topics) EntitiesUpdate(driverID string) string {
	return fmt.Sprintf("%s/%s/entities/update", TopicPrefix, driverID)
}

// EntitiesSubscribe returns the topic the hub uses to subscribe entities.
//
// Example: remotehub/avr-001/entities/subscribe
func (Topics) EntitiesSubscribe(driverID string) string {
	return fmt.Sprintf("%s/%s/entities/subscribe", TopicPrefix, driverID)
}

// EntitiesUnsubscribe returns the topic the hub uses to unsubscribe entities.
//
// Example: remotehub/avr-001/entities/unsubscribe
func (Topics) EntitiesUnsubscribe(driverID string) string {
	return fmt.Sprintf("%s/%s/entities/unsubscribe", TopicPrefix, driverID)
}

// AllDriverStatuses returns a pattern matching every driver's status topic.
//
// Pattern: remotehub/+/status
func (Topics) AllDriverStatuses() string {
	return fmt.Sprintf("%s/+/status", TopicPrefix)
}

// AllDriverHealth returns a pattern matching every driver's health topic.
//
// Pattern: remotehub/+/health
func (Topics) AllDriverHealth() string {
	return fmt.Sprintf("%s/+/health", TopicPrefix)
}

// DriverSubtree returns a pattern matching all topics for one driver.
// Use with caution - this receives ALL traffic for the driver.
//
// Pattern: remotehub/avr-001/#
func (Topics) DriverSubtree(driverID string) string {
	return fmt.Sprintf("%s/%s/#", TopicPrefix, driverID)
}
