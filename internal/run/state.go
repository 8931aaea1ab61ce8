// Package run orchestrates a feed run: frame ingestion on a worker
// goroutine and the engine's visualization loop on the calling
// goroutine, joined deterministically before shutdown and export.
package run

import (
	"math"
	"sync/atomic"
)

// State is the run state shared between the ingestion worker, the
// coordinator and any observers such as the monitor server. Every field
// has a single writer: the abort flag is set by the process signal
// handler, everything else by the ingestion worker.
type State struct {
	abortRequested atomic.Bool
	ingestionDone  atomic.Bool
	totalFrames    atomic.Int64
	framesIngested atomic.Int64
	lastTimestamp  atomic.Uint64
}

// NewState creates an empty run state.
func NewState() *State {
	return &State{}
}

// RequestAbort asks the ingestion loop to stop pulling frames. The loop
// checks once per frame, so the request takes effect after the frame
// currently in flight.
func (s *State) RequestAbort() {
	s.abortRequested.Store(true)
}

// AbortRequested reports whether an abort has been requested.
func (s *State) AbortRequested() bool {
	return s.abortRequested.Load()
}

// IngestionDone reports whether the ingestion worker has finished.
func (s *State) IngestionDone() bool {
	return s.ingestionDone.Load()
}

// TotalFrames returns the number of frames the run was started with.
func (s *State) TotalFrames() int64 {
	return s.totalFrames.Load()
}

// FramesIngested returns the number of frames ingested so far.
func (s *State) FramesIngested() int64 {
	return s.framesIngested.Load()
}

// LastTimestamp returns the timestamp of the most recently ingested
// frame, or 0 if none has been ingested yet.
func (s *State) LastTimestamp() float64 {
	return math.Float64frombits(s.lastTimestamp.Load())
}

func (s *State) setTotalFrames(n int64) {
	s.totalFrames.Store(n)
}

func (s *State) markIngestionDone() {
	s.ingestionDone.Store(true)
}

func (s *State) recordFrame(timestamp float64) {
	s.lastTimestamp.Store(math.Float64bits(timestamp))
	s.framesIngested.Add(1)
}
