package engine

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Mock is a test double Engine. It records every call and checks the
// threading discipline the harness promises: ingest calls never overlap
// each other and never overlap shutdown.
type Mock struct {
	mu sync.Mutex

	ingested     []float64
	ingestActive bool
	shutdowns    int

	overlappedIngest    bool
	ingestAfterShutdown bool

	trajectorySaves []string
	keyframeSaves   []string
	saveErr         error

	// IngestDelay widens the ingest window so overlap would be caught.
	IngestDelay time.Duration

	vizStop chan struct{}
	vizOnce sync.Once
}

// NewMock creates a new Mock engine.
func NewMock() *Mock {
	return &Mock{vizStop: make(chan struct{})}
}

// SetSaveError makes both trajectory exports return err.
func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// IngestRGBD records the frame timestamp and flags ordering violations.
func (m *Mock) IngestRGBD(color, depth gocv.Mat, timestamp float64) {
	m.mu.Lock()
	if m.ingestActive {
		m.overlappedIngest = true
	}
	if m.shutdowns > 0 {
		m.ingestAfterShutdown = true
	}
	m.ingestActive = true
	m.ingested = append(m.ingested, timestamp)
	delay := m.IngestDelay
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	m.ingestActive = false
	m.mu.Unlock()
}

// RunVisualization blocks until StopVisualization is called.
func (m *Mock) RunVisualization() {
	<-m.vizStop
}

// StopVisualization releases a blocked RunVisualization call.
func (m *Mock) StopVisualization() {
	m.vizOnce.Do(func() { close(m.vizStop) })
}

// Shutdown records the call and stops the visualization.
func (m *Mock) Shutdown() {
	m.StopVisualization()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdowns++
}

// SaveTrajectory records the export path.
func (m *Mock) SaveTrajectory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trajectorySaves = append(m.trajectorySaves, path)
	return m.saveErr
}

// SaveKeyFrameTrajectory records the export path.
func (m *Mock) SaveKeyFrameTrajectory(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyframeSaves = append(m.keyframeSaves, path)
	return m.saveErr
}

// Ingested returns the ingested timestamps in call order.
func (m *Mock) Ingested() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.ingested))
	copy(out, m.ingested)
	return out
}

// Shutdowns returns how many times Shutdown was called.
func (m *Mock) Shutdowns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdowns
}

// TrajectorySaves returns the full-trajectory export paths in call order.
func (m *Mock) TrajectorySaves() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.trajectorySaves))
	copy(out, m.trajectorySaves)
	return out
}

// KeyframeSaves returns the keyframe export paths in call order.
func (m *Mock) KeyframeSaves() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.keyframeSaves))
	copy(out, m.keyframeSaves)
	return out
}

// Violations reports whether any threading rule was broken: overlapping
// ingest calls, or ingest issued after shutdown.
func (m *Mock) Violations() (overlappedIngest, ingestAfterShutdown bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlappedIngest, m.ingestAfterShutdown
}
