package avr

import "github.com/nerrad567/avr-driver/internal/entity"

// ReceiverState is the driver's view of the receiver at one instant.
//
// Volume is the receiver's native 0-99 scale.
type ReceiverState struct {
	Model        string
	Power        bool
	Volume       int
	Muted        bool
	Source       string
	SurroundMode string
	Connected    bool
}

// playerState maps power and connectivity onto the media player state
// attribute.
func (s ReceiverState) playerState() string {
	switch {
	case !s.Connected:
		return "unavailable"
	case s.Power:
		return "on"
	default:
		return "standby"
	}
}

func (s ReceiverState) connectionState() string {
	if s.Connected {
		return "connected"
	}
	return "disconnected"
}

// Snapshot fans the receiver state out across the full entity set.
//
// Every entity the driver announces gets its attributes rebuilt from
// scratch, so consumers always see a complete self-consistent view
// rather than a delta.
//
// Parameters:
//   - deviceID: Stable device identifier matching Entities
//
// Returns:
//   - entity.Snapshot: Attributes for all ten entities
func (s ReceiverState) Snapshot(deviceID string) entity.Snapshot {
	return entity.Snapshot{
		mediaPlayerID(deviceID): {
			"state":           s.playerState(),
			"volume":          s.Volume,
			"muted":           s.Muted,
			"source":          s.Source,
			"source_list":     InputSources,
			"sound_mode":      s.SurroundMode,
			"sound_mode_list": SurroundModes,
		},
		sensorID(deviceID, "model"):         {"value": s.Model},
		sensorID(deviceID, "volume"):        {"value": s.Volume},
		sensorID(deviceID, "input"):         {"value": s.Source},
		sensorID(deviceID, "surround_mode"): {"value": s.SurroundMode},
		sensorID(deviceID, "muted"):         {"value": s.Muted},
		sensorID(deviceID, "connection"):    {"value": s.connectionState()},
		selectID(deviceID, "input_source"): {
			"current_option": s.Source,
			"options":        InputSources,
		},
		selectID(deviceID, "surround_mode"): {
			"current_option": s.SurroundMode,
			"options":        SurroundModes,
		},
		remoteID(deviceID): {
			"state": s.playerState(),
		},
	}
}
