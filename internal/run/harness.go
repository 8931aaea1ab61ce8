package run

import (
	"errors"
	"io"
	"log"
	"time"

	"github.com/ayusman/parikrama/internal/engine"
	"github.com/ayusman/parikrama/internal/frame"
)

// Default trajectory output paths.
const (
	DefaultTrajectoryPath         = "CameraTrajectory.txt"
	DefaultKeyframeTrajectoryPath = "KeyFrameTrajectory.txt"
)

// Outcome describes how the ingestion phase of a run ended.
type Outcome string

const (
	// OutcomeCompleted means every frame in the sequence was ingested.
	OutcomeCompleted Outcome = "completed"
	// OutcomeAborted means the user aborted the run mid-sequence.
	OutcomeAborted Outcome = "aborted"
	// OutcomeDecodeError means an image failed to decode mid-sequence.
	OutcomeDecodeError Outcome = "decode-error"
)

// FrameLogger receives a notification for every ingested frame. It is
// called from the ingestion goroutine; implementations must be safe for
// that and should return quickly.
type FrameLogger interface {
	LogFrame(timestamp float64, ingestDuration time.Duration) error
}

// ErrInvalidConfig is returned when a required collaborator is missing.
var ErrInvalidConfig = errors.New("harness requires a session, a source and a state")

// Config holds the collaborators and options of a run.
type Config struct {
	Session *engine.Session
	Source  *frame.Source
	State   *State

	TrajectoryPath         string
	KeyframeTrajectoryPath string

	// FrameLog, when set, receives per-frame ingest notifications.
	FrameLog FrameLogger
}

// Harness coordinates one run. Run starts the ingestion worker, blocks
// the calling goroutine in the visualization loop, joins the worker,
// and only then shuts the engine down and exports both trajectories.
type Harness struct {
	cfg     Config
	outcome Outcome
}

// New validates the configuration and creates a harness. Output paths
// default to DefaultTrajectoryPath and DefaultKeyframeTrajectoryPath.
func New(cfg Config) (*Harness, error) {
	if cfg.Session == nil || cfg.Source == nil || cfg.State == nil {
		return nil, ErrInvalidConfig
	}
	if cfg.TrajectoryPath == "" {
		cfg.TrajectoryPath = DefaultTrajectoryPath
	}
	if cfg.KeyframeTrajectoryPath == "" {
		cfg.KeyframeTrajectoryPath = DefaultKeyframeTrajectoryPath
	}
	return &Harness{cfg: cfg}, nil
}

// Run executes the full lifecycle and returns the ingestion outcome.
// It must be called on the goroutine that owns the process lifecycle;
// the engine's visualization loop runs there.
//
// Ordering guarantees: the worker is joined before the engine is shut
// down, and shutdown happens before export. Export failures are logged
// and do not fail the run.
func (h *Harness) Run() Outcome {
	h.cfg.State.setTotalFrames(int64(h.cfg.Source.Len()))

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		h.ingestLoop()
		h.cfg.State.markIngestionDone()
		// Ingestion is over; ask the viewer to wind down so the run can
		// finish without waiting on the window.
		h.cfg.Session.StopVisualization()
	}()

	if err := h.cfg.Session.Render(); err != nil {
		log.Printf("Visualization loop did not run: %v", err)
	}

	// Join before shutdown. This can block while a frame is mid-decode;
	// the abort signal is the escape hatch.
	<-workerDone

	h.cfg.Session.Shutdown()

	if err := h.cfg.Session.SaveTrajectory(h.cfg.TrajectoryPath); err != nil {
		log.Printf("Failed to save trajectory: %v", err)
	}
	if err := h.cfg.Session.SaveKeyFrameTrajectory(h.cfg.KeyframeTrajectoryPath); err != nil {
		log.Printf("Failed to save keyframe trajectory: %v", err)
	}

	return h.outcome
}

// ingestLoop pulls frames one at a time and feeds them to the engine.
// It runs on the worker goroutine; h.outcome is read by Run only after
// the worker is joined.
func (h *Harness) ingestLoop() {
	for {
		if h.cfg.State.AbortRequested() {
			log.Printf("Abort requested, stopping ingestion after %d frames", h.cfg.State.FramesIngested())
			h.outcome = OutcomeAborted
			return
		}

		buf, err := h.cfg.Source.Next()
		if err == io.EOF {
			h.outcome = OutcomeCompleted
			return
		}
		if err != nil {
			log.Printf("Stopping ingestion: %v", err)
			h.outcome = OutcomeDecodeError
			return
		}

		start := time.Now()
		ingestErr := h.cfg.Session.Ingest(buf.Color, buf.Depth, buf.Timestamp)
		elapsed := time.Since(start)
		timestamp := buf.Timestamp
		buf.Close()

		if ingestErr != nil {
			log.Printf("Stopping ingestion: %v", ingestErr)
			h.outcome = OutcomeAborted
			return
		}

		h.cfg.State.recordFrame(timestamp)

		if h.cfg.FrameLog != nil {
			if err := h.cfg.FrameLog.LogFrame(timestamp, elapsed); err != nil {
				log.Printf("Failed to log frame: %v", err)
			}
		}
	}
}
