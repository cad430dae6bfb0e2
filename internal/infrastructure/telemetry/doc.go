// Package telemetry provides optional InfluxDB v2 recording of entity
// updates and synchronization statistics.
//
// Writes are non-blocking and batched by the InfluxDB client; async
// write errors surface through the SetOnError callback. The package is
// disabled by default and enabled via the influxdb section of
// config.yaml.
package telemetry
