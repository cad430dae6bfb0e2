package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
driver:
  id: "avr-test"
  name: "Test Receiver"
device:
  transport: "simulator"
  host: "192.168.1.50"
  port: 50005
sync:
  retry_interval: 3
  max_attempts: 10
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "avr-test"
  qos: 1
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Driver.ID != "avr-test" {
		t.Errorf("Driver.ID = %q, want %q", cfg.Driver.ID, "avr-test")
	}

	if cfg.Device.Host != "192.168.1.50" {
		t.Errorf("Device.Host = %q, want %q", cfg.Device.Host, "192.168.1.50")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Minimal file: everything else should come from defaults
	content := `
driver:
  id: "avr-test"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sync.RetryInterval != 3 {
		t.Errorf("Sync.RetryInterval = %d, want 3", cfg.Sync.RetryInterval)
	}
	if cfg.Sync.MaxAttempts != 10 {
		t.Errorf("Sync.MaxAttempts = %d, want 10", cfg.Sync.MaxAttempts)
	}
	if cfg.Device.Reconnect.InitialDelay != 5 {
		t.Errorf("Device.Reconnect.InitialDelay = %d, want 5", cfg.Device.Reconnect.InitialDelay)
	}
	if cfg.Device.Reconnect.MaxDelay != 300 {
		t.Errorf("Device.Reconnect.MaxDelay = %d, want 300", cfg.Device.Reconnect.MaxDelay)
	}
	if cfg.Device.Transport != "simulator" {
		t.Errorf("Device.Transport = %q, want %q", cfg.Device.Transport, "simulator")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
driver:
  id: "avr-test"
mqtt:
  broker:
    host: "from-file"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("AVRDRIVER_MQTT_HOST", "from-env")
	t.Setenv("AVRDRIVER_DEVICE_HOST", "10.0.0.5")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "from-env" {
		t.Errorf("MQTT.Broker.Host = %q, want env override %q", cfg.MQTT.Broker.Host, "from-env")
	}
	if cfg.Device.Host != "10.0.0.5" {
		t.Errorf("Device.Host = %q, want env override %q", cfg.Device.Host, "10.0.0.5")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Driver.ID = "avr-001"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing driver id",
			mutate:  func(c *Config) { c.Driver.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing device transport",
			mutate:  func(c *Config) { c.Device.Transport = "" },
			wantErr: true,
		},
		{
			name:    "zero retry interval",
			mutate:  func(c *Config) { c.Sync.RetryInterval = 0 },
			wantErr: true,
		},
		{
			name:    "zero max attempts",
			mutate:  func(c *Config) { c.Sync.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "reconnect max below initial",
			mutate:  func(c *Config) { c.Device.Reconnect.MaxDelay = 1 },
			wantErr: true,
		},
		{
			name: "database enabled without path",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Path = ""
			},
			wantErr: true,
		},
		{
			name: "influxdb enabled without token",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Token = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationGetters(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetRetryInterval(); got != 3*time.Second {
		t.Errorf("GetRetryInterval() = %v, want 3s", got)
	}
	if got := cfg.GetReconnectInitialDelay(); got != 5*time.Second {
		t.Errorf("GetReconnectInitialDelay() = %v, want 5s", got)
	}
	if got := cfg.GetReconnectMaxDelay(); got != 300*time.Second {
		t.Errorf("GetReconnectMaxDelay() = %v, want 300s", got)
	}
}
