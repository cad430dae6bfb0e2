package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the AVR driver.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Driver   DriverConfig   `yaml:"driver"`
	Device   DeviceConfig   `yaml:"device"`
	Sync     SyncConfig     `yaml:"sync"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Database DatabaseConfig `yaml:"database"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DriverConfig identifies this driver instance to the hub.
type DriverConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DeviceConfig contains appliance connection settings.
type DeviceConfig struct {
	// Transport selects the device session implementation.
	// "simulator" is the only built-in transport; protocol transports
	// plug in behind the session.Device interface.
	Transport string          `yaml:"transport"`
	Host      string          `yaml:"host"`
	Port      int             `yaml:"port"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig contains appliance reconnection backoff settings.
type ReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// SyncConfig contains deferred update synchronization settings.
type SyncConfig struct {
	// RetryInterval is the fixed cadence between deferred delivery
	// attempts, in seconds.
	RetryInterval int `yaml:"retry_interval"`

	// MaxAttempts bounds one retry cycle. A later state change starts
	// a fresh cycle.
	MaxAttempts int `yaml:"max_attempts"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// DatabaseConfig contains SQLite update-history settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB telemetry settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: AVRDRIVER_SECTION_KEY
// For example: AVRDRIVER_MQTT_HOST, AVRDRIVER_DEVICE_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Driver: DriverConfig{
			ID:   "avr-001",
			Name: "AV Receiver",
		},
		Device: DeviceConfig{
			Transport: "simulator",
			Port:      50005,
			Reconnect: ReconnectConfig{
				InitialDelay: 5,
				MaxDelay:     300,
			},
		},
		Sync: SyncConfig{
			RetryInterval: 3,
			MaxAttempts:   10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "avr-driver",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Database: DatabaseConfig{
			Enabled:     false,
			Path:        "./data/avrdriver.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: AVRDRIVER_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Driver
	if v := os.Getenv("AVRDRIVER_DRIVER_ID"); v != "" {
		cfg.Driver.ID = v
	}

	// Device
	if v := os.Getenv("AVRDRIVER_DEVICE_HOST"); v != "" {
		cfg.Device.Host = v
	}

	// MQTT
	if v := os.Getenv("AVRDRIVER_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("AVRDRIVER_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("AVRDRIVER_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Database
	if v := os.Getenv("AVRDRIVER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("AVRDRIVER_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Driver validation
	if c.Driver.ID == "" {
		errs = append(errs, "driver.id is required")
	}

	// Device validation
	if c.Device.Transport == "" {
		errs = append(errs, "device.transport is required")
	}
	if c.Device.Reconnect.InitialDelay < 1 {
		errs = append(errs, "device.reconnect.initial_delay must be at least 1 second")
	}
	if c.Device.Reconnect.MaxDelay < c.Device.Reconnect.InitialDelay {
		errs = append(errs, "device.reconnect.max_delay must be >= initial_delay")
	}

	// Sync validation
	if c.Sync.RetryInterval < 1 {
		errs = append(errs, "sync.retry_interval must be at least 1 second")
	}
	if c.Sync.MaxAttempts < 1 {
		errs = append(errs, "sync.max_attempts must be at least 1")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database.enabled is true")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required when influxdb.enabled is true (set AVRDRIVER_INFLUXDB_TOKEN)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetRetryInterval returns the sync retry cadence as a Duration.
func (c *Config) GetRetryInterval() time.Duration {
	return time.Duration(c.Sync.RetryInterval) * time.Second
}

// GetReconnectInitialDelay returns the appliance reconnect initial delay as a Duration.
func (c *Config) GetReconnectInitialDelay() time.Duration {
	return time.Duration(c.Device.Reconnect.InitialDelay) * time.Second
}

// GetReconnectMaxDelay returns the appliance reconnect delay ceiling as a Duration.
func (c *Config) GetReconnectMaxDelay() time.Duration {
	return time.Duration(c.Device.Reconnect.MaxDelay) * time.Second
}
