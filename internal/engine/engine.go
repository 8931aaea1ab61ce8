// Package engine defines the interface to the SLAM backend consumed by
// the feed harness, plus a session wrapper that enforces its lifecycle.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"gocv.io/x/gocv"
)

// Mode selects the sensor configuration of the engine.
type Mode int

const (
	// RGBD feeds paired color and depth images.
	RGBD Mode = iota
	// Monocular feeds color images only.
	Monocular
	// Stereo feeds rectified stereo pairs.
	Stereo
)

// Engine is the capability surface of a SLAM backend. The harness calls
// it from exactly two goroutines: one calling IngestRGBD, one calling
// RunVisualization. Shutdown must only be called after both have
// quiesced; implementations keep their own internal synchronization.
type Engine interface {
	// IngestRGBD tracks one RGB-D frame. Synchronous and non-reentrant;
	// the caller must not issue a second call before the first returns.
	IngestRGBD(color, depth gocv.Mat, timestamp float64)

	// RunVisualization blocks until the visualization ends, either on
	// its own (viewer window closed) or after StopVisualization.
	RunVisualization()

	// StopVisualization requests that RunVisualization return. Safe to
	// call from any goroutine, any number of times.
	StopVisualization()

	// Shutdown tears down the engine. Idempotent.
	Shutdown()

	// SaveTrajectory writes the full-frame trajectory to path.
	SaveTrajectory(path string) error

	// SaveKeyFrameTrajectory writes the keyframe-only trajectory to path.
	SaveKeyFrameTrajectory(path string) error
}

// ErrSessionStopped is returned when ingest or render is attempted on a
// stopped session.
var ErrSessionStopped = errors.New("engine session already stopped")

// Session wraps an Engine and encodes its lifecycle: ingest and render
// are rejected once the session has been stopped, and Shutdown runs at
// most once. Trajectory export remains available after shutdown.
type Session struct {
	engine  Engine
	stopped atomic.Bool
	once    sync.Once
}

// NewSession creates a session over the given engine.
func NewSession(e Engine) *Session {
	return &Session{engine: e}
}

// Ingest feeds one RGB-D frame into the engine. Returns
// ErrSessionStopped if the session has been shut down.
func (s *Session) Ingest(color, depth gocv.Mat, timestamp float64) error {
	if s.stopped.Load() {
		return ErrSessionStopped
	}
	s.engine.IngestRGBD(color, depth, timestamp)
	return nil
}

// Render runs the engine's visualization loop on the calling goroutine,
// blocking until it ends. Returns ErrSessionStopped if the session has
// been shut down.
func (s *Session) Render() error {
	if s.stopped.Load() {
		return ErrSessionStopped
	}
	s.engine.RunVisualization()
	return nil
}

// StopVisualization asks a running Render call to return.
func (s *Session) StopVisualization() {
	s.engine.StopVisualization()
}

// Shutdown stops the session and tears down the engine exactly once.
func (s *Session) Shutdown() {
	s.once.Do(func() {
		s.stopped.Store(true)
		s.engine.Shutdown()
	})
}

// SaveTrajectory exports the full-frame trajectory.
func (s *Session) SaveTrajectory(path string) error {
	return s.engine.SaveTrajectory(path)
}

// SaveKeyFrameTrajectory exports the keyframe-only trajectory.
func (s *Session) SaveKeyFrameTrajectory(path string) error {
	return s.engine.SaveKeyFrameTrajectory(path)
}
