package engine

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestSession_IngestBeforeStop(t *testing.T) {
	mock := NewMock()
	session := NewSession(mock)

	color := gocv.NewMat()
	depth := gocv.NewMat()
	defer color.Close()
	defer depth.Close()

	if err := session.Ingest(color, depth, 1.5); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	got := mock.Ingested()
	if len(got) != 1 || got[0] != 1.5 {
		t.Errorf("Ingested() = %v, want [1.5]", got)
	}
}

func TestSession_RejectsIngestAfterShutdown(t *testing.T) {
	mock := NewMock()
	session := NewSession(mock)

	session.Shutdown()

	color := gocv.NewMat()
	depth := gocv.NewMat()
	defer color.Close()
	defer depth.Close()

	if err := session.Ingest(color, depth, 1.0); !errors.Is(err, ErrSessionStopped) {
		t.Errorf("Ingest after shutdown = %v, want ErrSessionStopped", err)
	}
	if err := session.Render(); !errors.Is(err, ErrSessionStopped) {
		t.Errorf("Render after shutdown = %v, want ErrSessionStopped", err)
	}

	if over, after := mock.Violations(); over || after {
		t.Errorf("engine saw calls it should not have (overlap=%v afterShutdown=%v)", over, after)
	}
}

func TestSession_ShutdownIsIdempotent(t *testing.T) {
	mock := NewMock()
	session := NewSession(mock)

	session.Shutdown()
	session.Shutdown()
	session.Shutdown()

	if got := mock.Shutdowns(); got != 1 {
		t.Errorf("engine Shutdown called %d times, want 1", got)
	}
}

func TestSession_ExportAllowedAfterShutdown(t *testing.T) {
	mock := NewMock()
	session := NewSession(mock)

	session.Shutdown()

	if err := session.SaveTrajectory("CameraTrajectory.txt"); err != nil {
		t.Fatalf("SaveTrajectory returned error: %v", err)
	}
	if err := session.SaveKeyFrameTrajectory("KeyFrameTrajectory.txt"); err != nil {
		t.Fatalf("SaveKeyFrameTrajectory returned error: %v", err)
	}

	if got := mock.TrajectorySaves(); len(got) != 1 || got[0] != "CameraTrajectory.txt" {
		t.Errorf("TrajectorySaves() = %v", got)
	}
	if got := mock.KeyframeSaves(); len(got) != 1 || got[0] != "KeyFrameTrajectory.txt" {
		t.Errorf("KeyframeSaves() = %v", got)
	}
}

func TestSession_RenderUnblocksOnStopVisualization(t *testing.T) {
	mock := NewMock()
	session := NewSession(mock)

	done := make(chan error, 1)
	go func() {
		done <- session.Render()
	}()

	session.StopVisualization()

	if err := <-done; err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
}
