package hub

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/avr-driver/internal/entity"
	"github.com/nerrad567/avr-driver/internal/infrastructure/mqtt"
)

// MQTTClient is the transport interface required by the hub adapter.
// The infrastructure MQTT client satisfies this via a thin adapter in
// cmd/avrdriver (the Subscribe handler signatures differ).
type MQTTClient interface {
	// Publish sends a message to a topic with the specified QoS and retention.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic.
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error

	// IsConnected returns true if the transport is connected.
	IsConnected() bool
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures the hub adapter.
type Options struct {
	// DriverID keys the driver's topic subtree (required).
	DriverID string

	// DriverName is the human-readable name in availability announcements.
	DriverName string

	// Registry is mutated by hub subscription events (required).
	Registry *entity.Registry

	// MQTT is the broker transport (required).
	MQTT MQTTClient

	// QoS for published events. Default 1.
	QoS byte

	// Logger is optional; a no-op logger is used when nil.
	Logger Logger
}

// Client is the driver's hub adapter.
//
// Inbound, it consumes the hub's entity subscribe/unsubscribe requests
// and applies them to the entity registry. Outbound, it implements the
// synchronization engine's Sink by publishing full state updates, and
// announces the driver's entity set on startup.
type Client struct {
	driverID   string
	driverName string
	registry   *entity.Registry
	mqtt       MQTTClient
	qos        byte
	logger     Logger
	topics     mqtt.Topics
}

// New creates a hub adapter.
//
// Parameters:
//   - opts: Adapter options; DriverID, Registry, and MQTT are required
//
// Returns:
//   - *Client: Ready for Start
//   - error: If a required option is missing
func New(opts Options) (*Client, error) {
	if opts.DriverID == "" {
		return nil, ErrNoDriverID
	}
	if opts.Registry == nil {
		return nil, ErrNilRegistry
	}
	if opts.MQTT == nil {
		return nil, ErrNilTransport
	}

	qos := opts.QoS
	if qos == 0 {
		qos = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Client{
		driverID:   opts.DriverID,
		driverName: opts.DriverName,
		registry:   opts.Registry,
		mqtt:       opts.MQTT,
		qos:        qos,
		logger:     logger,
	}, nil
}

// Start subscribes to the hub's subscription request topics and
// announces the driver's entity set.
//
// Returns:
//   - error: If a subscription or the announcement fails
func (c *Client) Start() error {
	subTopic := c.topics.EntitiesSubscribe(c.driverID)
	if err := c.mqtt.Subscribe(subTopic, c.qos, c.handleSubscribe); err != nil {
		return fmt.Errorf("subscribing to %s: %w", subTopic, err)
	}

	unsubTopic := c.topics.EntitiesUnsubscribe(c.driverID)
	if err := c.mqtt.Subscribe(unsubTopic, c.qos, c.handleUnsubscribe); err != nil {
		return fmt.Errorf("subscribing to %s: %w", unsubTopic, err)
	}

	if err := c.AnnounceEntities(); err != nil {
		return fmt.Errorf("announcing entities: %w", err)
	}

	c.logger.Info("hub adapter started",
		"driver_id", c.driverID,
		"entities", c.registry.Count(),
	)
	return nil
}

// AnnounceEntities publishes the retained availability announcement.
// Called on Start and whenever the entity set changes.
func (c *Client) AnnounceEntities() error {
	event := AvailabilityEvent{
		DriverID:  c.driverID,
		Name:      c.driverName,
		Entities:  c.registry.Entities(),
		Timestamp: timestamp(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling availability event: %w", err)
	}

	return c.mqtt.Publish(c.topics.EntitiesAvailable(c.driverID), payload, c.qos, true)
}

// Emit publishes a full state update to the hub.
//
// It implements the synchronization engine's Sink interface. Update
// events are not retained; the hub consumes them as a stream.
//
// Parameters:
//   - snapshot: Attributes for every owned entity
//
// Returns:
//   - error: Transient delivery failure (transport down, publish failed)
func (c *Client) Emit(snapshot entity.Snapshot) error {
	event := UpdateEvent{
		DriverID:  c.driverID,
		Entities:  snapshot,
		Timestamp: timestamp(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling update event: %w", err)
	}

	if err := c.mqtt.Publish(c.topics.EntitiesUpdate(c.driverID), payload, c.qos, false); err != nil {
		return fmt.Errorf("publishing update: %w", err)
	}

	c.logger.Debug("update published", "entities", len(snapshot))
	return nil
}

// handleSubscribe processes a hub subscription request.
func (c *Client) handleSubscribe(topic string, payload []byte) error {
	ids, err := parseSubscriptionEvent(payload)
	if err != nil {
		return fmt.Errorf("parsing subscribe event: %w", err)
	}

	applied, unknown := c.registry.Subscribe(ids)
	if len(unknown) > 0 {
		c.logger.Warn("subscribe request for unknown entities", "entity_ids", unknown)
	}

	c.logger.Info("entities subscribed",
		"applied", applied,
		"configured", c.registry.IsConfigured(),
	)
	return nil
}

// handleUnsubscribe processes a hub unsubscription request.
func (c *Client) handleUnsubscribe(topic string, payload []byte) error {
	ids, err := parseSubscriptionEvent(payload)
	if err != nil {
		return fmt.Errorf("parsing unsubscribe event: %w", err)
	}

	applied, unknown := c.registry.Unsubscribe(ids)
	if len(unknown) > 0 {
		c.logger.Warn("unsubscribe request for unknown entities", "entity_ids", unknown)
	}

	c.logger.Info("entities unsubscribed", "applied", applied)
	return nil
}

// parseSubscriptionEvent decodes and validates a subscription payload.
func parseSubscriptionEvent(payload []byte) ([]string, error) {
	var event SubscriptionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	if len(event.EntityIDs) == 0 {
		return nil, ErrEmptySubscription
	}
	return event.EntityIDs, nil
}
