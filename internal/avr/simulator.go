package avr

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/nerrad567/avr-driver/internal/entity"
)

// defaultSimulatorInterval is the cadence of simulated state changes.
const defaultSimulatorInterval = 10 * time.Second

// Simulator is a Device implementation backed by no hardware.
//
// It emits a full snapshot on session start and then mutates volume,
// input, and surround mode at a fixed cadence, exercising the whole
// update pipeline without a receiver on the network. The simulator
// never fails to connect and only disconnects when cancelled.
type Simulator struct {
	deviceID string
	interval time.Duration

	mu      sync.Mutex
	state   ReceiverState
	onState func(entity.Snapshot)
	rng     *rand.Rand
}

// NewSimulator creates a simulated receiver.
//
// Parameters:
//   - deviceID: Stable device identifier matching Entities
//   - interval: Cadence of simulated state changes; 0 selects the default
//
// Returns:
//   - *Simulator: Disconnected; the session manager drives its lifecycle
func NewSimulator(deviceID string, interval time.Duration) *Simulator {
	if interval <= 0 {
		interval = defaultSimulatorInterval
	}

	return &Simulator{
		deviceID: deviceID,
		interval: interval,
		state: ReceiverState{
			Model:        "MA9100HP",
			Power:        true,
			Volume:       20,
			Source:       InputSources[0],
			SurroundMode: SurroundModes[0],
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Connect marks the simulated receiver reachable.
func (s *Simulator) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Connected = true
	return nil
}

// Run emits the initial snapshot and then periodic simulated state
// changes until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	s.emit()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.mutate()
			s.emit()
		}
	}
}

// Close marks the simulated receiver unreachable.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Connected = false
	return nil
}

// SetOnState registers the snapshot callback.
func (s *Simulator) SetOnState(fn func(entity.Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = fn
}

// State returns a copy of the current simulated state.
func (s *Simulator) State() ReceiverState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// emit delivers the current state through the registered callback.
func (s *Simulator) emit() {
	s.mu.Lock()
	fn := s.onState
	snapshot := s.state.Snapshot(s.deviceID)
	s.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// mutate applies one random state change.
func (s *Simulator) mutate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.rng.Intn(4) {
	case 0:
		delta := s.rng.Intn(7) - 3
		s.state.Volume = clamp(s.state.Volume+delta, 0, 99)
	case 1:
		s.state.Source = InputSources[s.rng.Intn(len(InputSources))]
	case 2:
		s.state.SurroundMode = SurroundModes[s.rng.Intn(len(SurroundModes))]
	case 3:
		s.state.Muted = !s.state.Muted
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
