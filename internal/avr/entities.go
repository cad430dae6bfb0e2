package avr

import (
	"fmt"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// InputSources lists the receiver's selectable input sources.
// Every model in the MA series carries this set.
var InputSources = []string{
	"TV ARC",
	"HDMI 1",
	"HDMI 2",
	"HDMI 3",
	"HDMI 4",
	"Coax",
	"Optical",
	"Analog 1",
	"Analog 2",
	"Bluetooth",
	"Network",
}

// SurroundModes lists the surround modes common to all models.
var SurroundModes = []string{
	"Native",
	"Stereo 2.0",
	"Stereo 2.1",
	"All Stereo",
}

// Entity ID builders. IDs are stable across restarts so the hub can
// persist its subscriptions against them.
func mediaPlayerID(deviceID string) string { return "media_player." + deviceID }
func remoteID(deviceID string) string      { return "remote." + deviceID }

func sensorID(deviceID, kind string) string {
	return fmt.Sprintf("sensor.%s.%s", deviceID, kind)
}

func selectID(deviceID, kind string) string {
	return fmt.Sprintf("select.%s.%s", deviceID, kind)
}

// Entities builds the full entity set one receiver exposes to the hub.
//
// Parameters:
//   - deviceID: Stable device identifier, keys every entity ID
//   - name: Human-readable device name, prefixes entity names
//
// Returns:
//   - []entity.Entity: Media player, six sensors, two selects, and a remote
func Entities(deviceID, name string) []entity.Entity {
	return []entity.Entity{
		{ID: mediaPlayerID(deviceID), Domain: entity.DomainMediaPlayer, Name: name, DeviceID: deviceID},
		{ID: sensorID(deviceID, "model"), Domain: entity.DomainSensor, Name: name + " Model", DeviceID: deviceID},
		{ID: sensorID(deviceID, "volume"), Domain: entity.DomainSensor, Name: name + " Volume", DeviceID: deviceID},
		{ID: sensorID(deviceID, "input"), Domain: entity.DomainSensor, Name: name + " Input", DeviceID: deviceID},
		{ID: sensorID(deviceID, "surround_mode"), Domain: entity.DomainSensor, Name: name + " Surround Mode", DeviceID: deviceID},
		{ID: sensorID(deviceID, "muted"), Domain: entity.DomainSensor, Name: name + " Muted", DeviceID: deviceID},
		{ID: sensorID(deviceID, "connection"), Domain: entity.DomainSensor, Name: name + " Connection", DeviceID: deviceID},
		{ID: selectID(deviceID, "input_source"), Domain: entity.DomainSelect, Name: name + " Input Source", DeviceID: deviceID},
		{ID: selectID(deviceID, "surround_mode"), Domain: entity.DomainSelect, Name: name + " Surround Mode", DeviceID: deviceID},
		{ID: remoteID(deviceID), Domain: entity.DomainRemote, Name: name + " Remote", DeviceID: deviceID},
	}
}
