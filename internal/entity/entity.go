package entity

// Domain classifies the entity types exposed to the hub.
type Domain string

// Entity domains supported by the driver.
const (
	DomainMediaPlayer Domain = "media_player"
	DomainSensor      Domain = "sensor"
	DomainSelect      Domain = "select"
	DomainRemote      Domain = "remote"
)

// Entity describes one hub-facing entity owned by the driver.
type Entity struct {
	// ID is the hub-wide entity identifier, e.g. "media_player.avr-001".
	ID string `json:"id"`

	// Domain is the entity type.
	Domain Domain `json:"domain"`

	// Name is the human-readable display name.
	Name string `json:"name"`

	// DeviceID identifies the appliance this entity belongs to.
	DeviceID string `json:"device_id"`
}

// Attributes holds one entity's state attributes.
type Attributes map[string]any

// Snapshot is a full state update: attributes for every owned entity,
// keyed by entity ID. Snapshots are treated as immutable once handed
// to the synchronization engine; use Clone before mutating a stored one.
type Snapshot map[string]Attributes

// Clone returns a deep copy of the snapshot's top two levels.
// Nested attribute values are shared; snapshot producers build fresh
// attribute values per update.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for id, attrs := range s {
		copied := make(Attributes, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
		out[id] = copied
	}
	return out
}
