// AVR Driver - remote-control hub integration for MA series AV receivers
//
// The driver bridges one AV receiver appliance and the remote-control
// hub over MQTT: it announces the receiver's entities, defers state
// updates until the hub has subscribed them, and streams full state
// snapshots once delivery is confirmed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/avr-driver/internal/avr"
	"github.com/nerrad567/avr-driver/internal/entity"
	"github.com/nerrad567/avr-driver/internal/history"
	"github.com/nerrad567/avr-driver/internal/hub"
	"github.com/nerrad567/avr-driver/internal/infrastructure/config"
	"github.com/nerrad567/avr-driver/internal/infrastructure/database"
	"github.com/nerrad567/avr-driver/internal/infrastructure/logging"
	"github.com/nerrad567/avr-driver/internal/infrastructure/mqtt"
	"github.com/nerrad567/avr-driver/internal/infrastructure/telemetry"
	"github.com/nerrad567/avr-driver/internal/session"
	"github.com/nerrad567/avr-driver/internal/updatesync"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting AVR driver",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open update history database (optional)
	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		if schemaErr := db.EnsureSchema(ctx); schemaErr != nil {
			return fmt.Errorf("ensuring database schema: %w", schemaErr)
		}
		log.Info("database connected", "path", cfg.Database.Path)
	} else {
		log.Info("update history disabled")
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT, cfg.Driver.ID)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB (optional)
	var influxClient *telemetry.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the entity registry from the receiver's entity set
	registry := entity.NewRegistry()
	registry.Add(avr.Entities(cfg.Driver.ID, cfg.Driver.Name)...)
	log.Info("entity registry initialised", "entities", registry.Count())

	// Hub adapter over MQTT
	transport := &driverMQTTAdapter{client: mqttClient}
	hubClient, err := hub.New(hub.Options{
		DriverID:   cfg.Driver.ID,
		DriverName: cfg.Driver.Name,
		Registry:   registry,
		MQTT:       transport,
		QoS:        byte(cfg.MQTT.QoS),
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("creating hub adapter: %w", err)
	}
	if err := hubClient.Start(); err != nil {
		return fmt.Errorf("starting hub adapter: %w", err)
	}

	// Compose the delivery sink: hub, then optional history and telemetry
	var sink updatesync.Sink = hubClient
	if db != nil {
		sink = history.NewSink(sink, history.NewRepository(db.DB), log)
	}
	if influxClient != nil {
		sink = telemetry.NewSink(sink, influxClient, cfg.Driver.ID)
	}

	// Appliance session
	device, err := buildDevice(cfg)
	if err != nil {
		return err
	}
	manager, err := session.NewManager(session.Options{
		Device: device,
		Sync: updatesync.Options{
			Source:        registry,
			Sink:          sink,
			RetryInterval: cfg.GetRetryInterval(),
			MaxAttempts:   cfg.Sync.MaxAttempts,
			Logger:        log,
		},
		BackoffInitial: cfg.GetReconnectInitialDelay(),
		BackoffMax:     cfg.GetReconnectMaxDelay(),
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}
	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("starting session manager: %w", err)
	}
	defer func() {
		log.Info("stopping appliance session")
		manager.Stop()
	}()
	log.Info("appliance session supervisor started", "transport", cfg.Device.Transport)

	// Periodic health reporting to the hub
	reporter := hub.NewHealthReporter(hub.HealthReporterConfig{
		DriverID:  cfg.Driver.ID,
		Version:   version,
		Publisher: transport,
		Provider:  manager,
		Logger:    log,
	})
	reporter.Start(ctx)
	defer func() {
		log.Info("stopping health reporter")
		reporter.Stop()
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. Health reporter
	// 2. Session manager (closes the sync engine)
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database (if enabled)

	log.Info("AVR driver stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses AVRDRIVER_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("AVRDRIVER_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildDevice selects the appliance session implementation.
//
// "simulator" is the only built-in transport; byte-level receiver
// protocols plug in behind the session.Device interface.
func buildDevice(cfg *config.Config) (session.Device, error) {
	switch cfg.Device.Transport {
	case "simulator":
		return avr.NewSimulator(cfg.Driver.ID, 0), nil
	default:
		return nil, fmt.Errorf("unknown device transport %q", cfg.Device.Transport)
	}
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check (may be nil if disabled)
//   - mqttClient: MQTT client to check
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *telemetry.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// driverMQTTAdapter adapts the infrastructure MQTT client to the hub
// adapter's transport interface (the Subscribe handler signatures
// differ by a named type).
type driverMQTTAdapter struct {
	client *mqtt.Client
}

func (a *driverMQTTAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}

func (a *driverMQTTAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error {
	return a.client.Subscribe(topic, qos, mqtt.MessageHandler(handler))
}

func (a *driverMQTTAdapter) IsConnected() bool {
	return a.client.IsConnected()
}
