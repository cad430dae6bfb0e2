// Package config provides configuration loading for the AVR driver.
//
// Configuration is read from a YAML file with hardcoded defaults and
// environment variable overrides, in that precedence order:
//
//  1. Defaults (sensible out-of-the-box values)
//  2. YAML file (configs/config.yaml by default)
//  3. Environment variables (AVRDRIVER_SECTION_KEY pattern)
//
// # Sections
//
//   - driver: hub-facing identity (driver ID, display name)
//   - device: appliance connection and reconnect backoff
//   - sync: deferred update retry cadence and attempt budget
//   - mqtt: hub broker connection, auth, QoS
//   - database: optional SQLite update history
//   - influxdb: optional telemetry writes
//   - logging: level, format, output
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	interval := cfg.GetRetryInterval()
//
// Secrets (MQTT password, InfluxDB token) should be supplied via
// environment variables rather than committed to the YAML file.
package config
