package telemetry

import (
	"errors"
	"testing"

	"github.com/nerrad567/avr-driver/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want %v", err, ErrDisabled)
	}
}

func TestScalarFields(t *testing.T) {
	attributes := map[string]any{
		"volume":       42,
		"level_db":     -33.5,
		"muted":        false,
		"source":       "HDMI 1",
		"source_list":  []string{"HDMI 1", "HDMI 2"},
		"capabilities": map[string]any{"seek": false},
	}

	fields := scalarFields(attributes)

	if len(fields) != 4 {
		t.Fatalf("scalarFields() returned %d fields, want 4: %v", len(fields), fields)
	}
	if fields["volume"] != 42 {
		t.Errorf("volume = %v, want 42", fields["volume"])
	}
	if fields["muted"] != false {
		t.Errorf("muted = %v, want false", fields["muted"])
	}
	if _, ok := fields["source_list"]; ok {
		t.Error("slice attribute should be dropped")
	}
	if _, ok := fields["capabilities"]; ok {
		t.Error("map attribute should be dropped")
	}
}

func TestWriteEntityUpdate_Disconnected(t *testing.T) {
	// Zero-value client is disconnected; write must be a no-op, not a panic.
	c := &Client{}
	c.WriteEntityUpdate("avr-001", "media_player.avr-001", map[string]any{"volume": 10})
}

func TestWriteSyncStats_Disconnected(t *testing.T) {
	c := &Client{}
	c.WriteSyncStats("avr-001", 1, 2, 3, 4)
}

func TestFlush_NilWriteAPI(t *testing.T) {
	c := &Client{}
	c.Flush()
}
