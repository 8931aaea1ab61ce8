package engine

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// DefaultKeyframeStride is the Recorder's keyframe sampling interval
// when none is configured.
const DefaultKeyframeStride = 10

// Recorder is a stand-in Engine used when no SLAM backend is linked.
// It performs no tracking: it records the ingest timeline and exports
// TUM-format trajectory files with identity poses, which keeps the
// harness runnable and its output inspectable end to end.
type Recorder struct {
	vocabulary string
	settings   string
	stride     int

	mu         sync.Mutex
	timestamps []float64
	shutdown   bool

	vizStop chan struct{}
	vizOnce sync.Once
}

// NewRecorder creates a Recorder for the given vocabulary and settings
// files. The files are carried for parity with a real backend but never
// read. A stride <= 0 selects DefaultKeyframeStride.
func NewRecorder(vocabulary, settings string, stride int) *Recorder {
	if stride <= 0 {
		stride = DefaultKeyframeStride
	}
	return &Recorder{
		vocabulary: vocabulary,
		settings:   settings,
		stride:     stride,
		vizStop:    make(chan struct{}),
	}
}

// IngestRGBD records the frame timestamp. The image buffers are not
// retained.
func (r *Recorder) IngestRGBD(color, depth gocv.Mat, timestamp float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.shutdown {
		return
	}
	r.timestamps = append(r.timestamps, timestamp)
}

// RunVisualization blocks until StopVisualization or Shutdown is called.
func (r *Recorder) RunVisualization() {
	<-r.vizStop
}

// StopVisualization releases a blocked RunVisualization call.
func (r *Recorder) StopVisualization() {
	r.vizOnce.Do(func() { close(r.vizStop) })
}

// Shutdown stops the visualization and freezes the recorded timeline.
func (r *Recorder) Shutdown() {
	r.StopVisualization()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown = true
}

// FrameCount returns the number of frames ingested so far.
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timestamps)
}

// SaveTrajectory writes one TUM-format line per ingested frame.
func (r *Recorder) SaveTrajectory(path string) error {
	r.mu.Lock()
	timestamps := make([]float64, len(r.timestamps))
	copy(timestamps, r.timestamps)
	r.mu.Unlock()

	return writeTUM(path, timestamps, 1)
}

// SaveKeyFrameTrajectory writes every stride-th frame, starting with
// the first.
func (r *Recorder) SaveKeyFrameTrajectory(path string) error {
	r.mu.Lock()
	timestamps := make([]float64, len(r.timestamps))
	copy(timestamps, r.timestamps)
	stride := r.stride
	r.mu.Unlock()

	return writeTUM(path, timestamps, stride)
}

// writeTUM writes every stride-th timestamp as a TUM trajectory line
// (timestamp, translation, unit quaternion) with an identity pose.
func writeTUM(path string, timestamps []float64, stride int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trajectory file: %w", err)
	}

	w := bufio.NewWriter(f)
	for i, ts := range timestamps {
		if i%stride != 0 {
			continue
		}
		fmt.Fprintf(w, "%.6f 0.000000 0.000000 0.000000 0.000000 0.000000 0.000000 1.000000\n", ts)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write trajectory file: %w", err)
	}
	return f.Close()
}
