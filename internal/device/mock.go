package device

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Mock is a test double for Device. Loads never complete on their own;
// tests emit readiness, end and error events explicitly via EmitReady,
// EmitEnded and EmitError, or with stale LoadIDs to exercise the
// synchronizer's stale-callback rejection.
type Mock struct {
	mu sync.Mutex

	loads      []MockLoad
	current    LoadID
	playCalls  int
	pauseCalls int
	stopCalls  int
	seeks      []time.Duration
	volumes    []float64
	playErr    error
	events     chan Event
	closed     bool
}

// MockLoad records one Load call.
type MockLoad struct {
	ID      LoadID
	TrackID string
	URL     string
}

// NewMock creates a new mock device for testing.
func NewMock() *Mock {
	return &Mock{
		events: make(chan Event, eventBuffer),
	}
}

// Verify Mock implements Device at compile time.
var _ Device = (*Mock)(nil)

func (m *Mock) Load(trackID, url string) LoadID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	m.current = id
	m.loads = append(m.loads, MockLoad{ID: id, TrackID: trackID, URL: url})
	return id
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	return m.playErr
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.current = LoadID{}
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, pos)
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volumes = append(m.volumes, level)
}

func (m *Mock) Events() <-chan Event { return m.events }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetPlayError makes subsequent Play calls fail with err.
func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// CurrentLoad returns the LoadID of the most recent Load.
func (m *Mock) CurrentLoad() LoadID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Loads returns every recorded Load call.
func (m *Mock) Loads() []MockLoad {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockLoad, len(m.loads))
	copy(out, m.loads)
	return out
}

// PlayCalls returns how many times Play was called.
func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

// StopCalls returns how many times Stop was called.
func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

// PauseCalls returns how many times Pause was called.
func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

// Seeks returns every recorded Seek position.
func (m *Mock) Seeks() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.seeks))
	copy(out, m.seeks)
	return out
}

// Volumes returns every recorded SetVolume level.
func (m *Mock) Volumes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.volumes))
	copy(out, m.volumes)
	return out
}

// EmitReady delivers a readiness event for the given load.
func (m *Mock) EmitReady(id LoadID, trackID string, duration time.Duration) {
	m.events <- Event{Kind: EventReady, Load: id, TrackID: trackID, Duration: duration}
}

// EmitPosition delivers a position pulse for the given load.
func (m *Mock) EmitPosition(id LoadID, trackID string, pos time.Duration) {
	m.events <- Event{Kind: EventPosition, Load: id, TrackID: trackID, Position: pos}
}

// EmitEnded delivers a natural end-of-track event for the given load.
func (m *Mock) EmitEnded(id LoadID, trackID string) {
	m.events <- Event{Kind: EventEnded, Load: id, TrackID: trackID}
}

// EmitError delivers a device error for the given load.
func (m *Mock) EmitError(id LoadID, trackID string, err error) {
	m.events <- Event{Kind: EventError, Load: id, TrackID: trackID, Err: err}
}
