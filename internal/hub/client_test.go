package hub

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// publishedMessage records one mock publish call.
type publishedMessage struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// mockMQTT implements MQTTClient for tests.
type mockMQTT struct {
	mu           sync.Mutex
	published    []publishedMessage
	handlers     map[string]func(topic string, payload []byte) error
	connected    bool
	publishErr   error
	subscribeErr error
}

func newMockMQTT() *mockMQTT {
	return &mockMQTT{
		handlers:  make(map[string]func(topic string, payload []byte) error),
		connected: true,
	}
}

func (m *mockMQTT) Publish(topic string, payload []byte, qos byte, retained bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, publishedMessage{topic, payload, qos, retained})
	return nil
}

func (m *mockMQTT) Subscribe(topic string, qos byte, handler func(topic string, payload []byte) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return m.subscribeErr
	}
	m.handlers[topic] = handler
	return nil
}

func (m *mockMQTT) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// deliver invokes the registered handler for a topic, simulating an
// inbound broker message.
func (m *mockMQTT) deliver(t *testing.T, topic string, payload []byte) error {
	t.Helper()

	m.mu.Lock()
	handler, ok := m.handlers[topic]
	m.mu.Unlock()
	if !ok {
		t.Fatalf("no handler registered for topic %s", topic)
	}
	return handler(topic, payload)
}

func (m *mockMQTT) messagesOn(topic string) []publishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []publishedMessage
	for _, msg := range m.published {
		if msg.topic == topic {
			out = append(out, msg)
		}
	}
	return out
}

func testRegistry() *entity.Registry {
	r := entity.NewRegistry()
	r.Add(
		entity.Entity{ID: "media_player.avr-001", Domain: entity.DomainMediaPlayer, Name: "AV Receiver", DeviceID: "avr-001"},
		entity.Entity{ID: "remote.avr-001", Domain: entity.DomainRemote, Name: "Remote", DeviceID: "avr-001"},
	)
	return r
}

func newTestClient(t *testing.T, mqttClient *mockMQTT, registry *entity.Registry) *Client {
	t.Helper()

	c, err := New(Options{
		DriverID:   "avr-001",
		DriverName: "Living Room AVR",
		Registry:   registry,
		MQTT:       mqttClient,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	registry := testRegistry()
	transport := newMockMQTT()

	if _, err := New(Options{Registry: registry, MQTT: transport}); !errors.Is(err, ErrNoDriverID) {
		t.Errorf("New() without driver ID error = %v, want %v", err, ErrNoDriverID)
	}
	if _, err := New(Options{DriverID: "avr-001", MQTT: transport}); !errors.Is(err, ErrNilRegistry) {
		t.Errorf("New() without registry error = %v, want %v", err, ErrNilRegistry)
	}
	if _, err := New(Options{DriverID: "avr-001", Registry: registry}); !errors.Is(err, ErrNilTransport) {
		t.Errorf("New() without transport error = %v, want %v", err, ErrNilTransport)
	}
}

func TestStart_SubscribesAndAnnounces(t *testing.T) {
	transport := newMockMQTT()
	client := newTestClient(t, transport, testRegistry())

	if err := client.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for _, topic := range []string{
		"remotehub/avr-001/entities/subscribe",
		"remotehub/avr-001/entities/unsubscribe",
	} {
		transport.mu.Lock()
		_, ok := transport.handlers[topic]
		transport.mu.Unlock()
		if !ok {
			t.Errorf("Start() did not subscribe to %s", topic)
		}
	}

	announcements := transport.messagesOn("remotehub/avr-001/entities/available")
	if len(announcements) != 1 {
		t.Fatalf("availability announcements = %d, want 1", len(announcements))
	}
	if !announcements[0].retained {
		t.Error("availability announcement should be retained")
	}

	var event AvailabilityEvent
	if err := json.Unmarshal(announcements[0].payload, &event); err != nil {
		t.Fatalf("unmarshalling announcement: %v", err)
	}
	if event.DriverID != "avr-001" {
		t.Errorf("announcement driver_id = %q, want %q", event.DriverID, "avr-001")
	}
	if len(event.Entities) != 2 {
		t.Errorf("announced entities = %d, want 2", len(event.Entities))
	}
}

func TestHandleSubscribe_ConfiguresRegistry(t *testing.T) {
	transport := newMockMQTT()
	registry := testRegistry()
	client := newTestClient(t, transport, registry)
	if err := client.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	payload := []byte(`{"entity_ids":["media_player.avr-001","remote.avr-001"]}`)
	if err := transport.deliver(t, "remotehub/avr-001/entities/subscribe", payload); err != nil {
		t.Fatalf("subscribe handler error = %v", err)
	}

	if !registry.IsConfigured() {
		t.Error("registry should be configured after full subscription")
	}
}

func TestHandleSubscribe_UnknownIDsIgnored(t *testing.T) {
	transport := newMockMQTT()
	registry := testRegistry()
	client := newTestClient(t, transport, registry)
	if err := client.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	payload := []byte(`{"entity_ids":["media_player.avr-001","light.kitchen"]}`)
	if err := transport.deliver(t, "remotehub/avr-001/entities/subscribe", payload); err != nil {
		t.Fatalf("subscribe handler error = %v", err)
	}

	if registry.ConfiguredCount() != 1 {
		t.Errorf("ConfiguredCount() = %d, want 1", registry.ConfiguredCount())
	}
	if registry.IsConfigured() {
		t.Error("registry must not be configured with unsubscribed entities remaining")
	}
}

func TestHandleUnsubscribe_RevertsEntities(t *testing.T) {
	transport := newMockMQTT()
	registry := testRegistry()
	client := newTestClient(t, transport, registry)
	if err := client.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	subscribeAll := []byte(`{"entity_ids":["media_player.avr-001","remote.avr-001"]}`)
	if err := transport.deliver(t, "remotehub/avr-001/entities/subscribe", subscribeAll); err != nil {
		t.Fatalf("subscribe handler error = %v", err)
	}

	unsubscribe := []byte(`{"entity_ids":["remote.avr-001"]}`)
	if err := transport.deliver(t, "remotehub/avr-001/entities/unsubscribe", unsubscribe); err != nil {
		t.Fatalf("unsubscribe handler error = %v", err)
	}

	if registry.IsConfigured() {
		t.Error("registry must not be configured after unsubscribe")
	}
}

func TestHandleSubscribe_MalformedPayload(t *testing.T) {
	transport := newMockMQTT()
	client := newTestClient(t, transport, testRegistry())
	if err := client.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := transport.deliver(t, "remotehub/avr-001/entities/subscribe", []byte("not json")); err == nil {
		t.Error("malformed payload should return an error")
	}

	if err := transport.deliver(t, "remotehub/avr-001/entities/subscribe", []byte(`{"entity_ids":[]}`)); !errors.Is(err, ErrEmptySubscription) {
		t.Errorf("empty subscription error = %v, want %v", err, ErrEmptySubscription)
	}
}

func TestEmit_PublishesUpdateEvent(t *testing.T) {
	transport := newMockMQTT()
	client := newTestClient(t, transport, testRegistry())

	snapshot := entity.Snapshot{
		"media_player.avr-001": entity.Attributes{"state": "on", "volume": 42},
	}
	if err := client.Emit(snapshot); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	updates := transport.messagesOn("remotehub/avr-001/entities/update")
	if len(updates) != 1 {
		t.Fatalf("update messages = %d, want 1", len(updates))
	}
	if updates[0].retained {
		t.Error("update events must not be retained")
	}

	var event UpdateEvent
	if err := json.Unmarshal(updates[0].payload, &event); err != nil {
		t.Fatalf("unmarshalling update event: %v", err)
	}
	if event.DriverID != "avr-001" {
		t.Errorf("update driver_id = %q, want %q", event.DriverID, "avr-001")
	}
	if _, ok := event.Entities["media_player.avr-001"]; !ok {
		t.Error("update event missing entity attributes")
	}
	if event.Timestamp == "" {
		t.Error("update event missing timestamp")
	}
}

func TestEmit_PropagatesPublishError(t *testing.T) {
	transport := newMockMQTT()
	transport.publishErr = errors.New("broker unavailable")
	client := newTestClient(t, transport, testRegistry())

	err := client.Emit(entity.Snapshot{"media_player.avr-001": entity.Attributes{"state": "on"}})
	if err == nil {
		t.Error("Emit() should propagate publish failures")
	}
}
