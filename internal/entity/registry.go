package entity

import (
	"sort"
	"sync"
)

// State is the hub-side lifecycle state of an entity.
//
// Entities start as available (known to the hub, not yet usable) and
// become configured only when the hub explicitly subscribes them.
type State string

// Entity states.
const (
	StateAvailable  State = "available"
	StateConfigured State = "configured"
)

// Registry tracks the driver's entities and their hub-side state.
//
// It is the driver's configuration oracle: IsConfigured answers whether
// state updates can currently be delivered to the hub. The answer is
// all-or-nothing at driver level: every owned entity must be subscribed.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - IsConfigured is side-effect free and cheap to call on hot paths.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
	states   map[string]State
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
		states:   make(map[string]State),
	}
}

// Add registers entities as available. Re-adding an existing entity
// updates its metadata but preserves its current state.
func (r *Registry) Add(entities ...Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entities {
		if e.ID == "" {
			continue
		}
		r.entities[e.ID] = e
		if _, exists := r.states[e.ID]; !exists {
			r.states[e.ID] = StateAvailable
		}
	}
}

// Subscribe marks the given entities as configured.
//
// Unknown IDs are skipped and returned so the caller can log them;
// the hub and driver entity sets can briefly disagree during setup.
//
// Returns:
//   - applied: Number of entities transitioned or already configured
//   - unknown: IDs not present in the registry
func (r *Registry) Subscribe(ids []string) (applied int, unknown []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, exists := r.states[id]; !exists {
			unknown = append(unknown, id)
			continue
		}
		r.states[id] = StateConfigured
		applied++
	}
	return applied, unknown
}

// Unsubscribe returns the given entities to the available state.
//
// Returns:
//   - applied: Number of entities transitioned or already available
//   - unknown: IDs not present in the registry
func (r *Registry) Unsubscribe(ids []string) (applied int, unknown []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if _, exists := r.states[id]; !exists {
			unknown = append(unknown, id)
			continue
		}
		r.states[id] = StateAvailable
		applied++
	}
	return applied, unknown
}

// IsConfigured reports whether updates can be delivered to the hub.
//
// True iff the registry holds at least one entity and every owned
// entity is configured. An empty registry is never configured.
func (r *Registry) IsConfigured() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.states) == 0 {
		return false
	}
	for _, state := range r.states {
		if state != StateConfigured {
			return false
		}
	}
	return true
}

// StateOf returns the state of one entity.
func (r *Registry) StateOf(id string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[id]
	return state, ok
}

// Entities returns all registered entities, sorted by ID for stable output.
func (r *Registry) Entities() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of registered entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}

// ConfiguredCount returns the number of entities in the configured state.
func (r *Registry) ConfiguredCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, state := range r.states {
		if state == StateConfigured {
			count++
		}
	}
	return count
}
