package frame

import (
	"errors"
	"io"
	"testing"

	"github.com/ayusman/parikrama/internal/associate"
)

// manifestOf builds a manifest with n frames named rgb/i.png, depth/i.png.
func manifestOf(n int) *associate.Manifest {
	m := &associate.Manifest{}
	for i := 0; i < n; i++ {
		ts := float64(i + 1)
		m.Timestamps = append(m.Timestamps, ts)
		m.ColorPaths = append(m.ColorPaths, "rgb/"+string(rune('0'+i+1))+".png")
		m.DepthPaths = append(m.DepthPaths, "depth/"+string(rune('0'+i+1))+".png")
	}
	return m
}

func TestNewSource_Preflight(t *testing.T) {
	tests := []struct {
		name     string
		manifest *associate.Manifest
		wantErr  error
	}{
		{
			name:     "empty manifest",
			manifest: &associate.Manifest{},
			wantErr:  ErrNoFrames,
		},
		{
			name:     "nil manifest",
			manifest: nil,
			wantErr:  ErrNoFrames,
		},
		{
			name: "asymmetric manifest",
			manifest: &associate.Manifest{
				Timestamps: []float64{1.0},
				ColorPaths: []string{"rgb/1.png"},
				DepthPaths: []string{"depth/1.png", "depth/2.png"},
			},
			wantErr: ErrFrameCountMismatch,
		},
		{
			name:     "valid manifest",
			manifest: manifestOf(2),
			wantErr:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.manifest, NewMockDecoder())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSource error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && src == nil {
				t.Fatal("NewSource returned nil source without error")
			}
		})
	}
}

func TestSource_YieldsFramesInOrder(t *testing.T) {
	dec := NewMockDecoder()
	src, err := NewSource(manifestOf(3), dec)
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}

	var timestamps []float64
	for {
		buf, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		timestamps = append(timestamps, buf.Timestamp)
		buf.Close()
	}

	want := []float64{1, 2, 3}
	if len(timestamps) != len(want) {
		t.Fatalf("yielded %d frames, want %d", len(timestamps), len(want))
	}
	for i := range want {
		if timestamps[i] != want[i] {
			t.Errorf("frame %d timestamp = %v, want %v", i, timestamps[i], want[i])
		}
	}

	// Color decodes before depth for each frame, in manifest order.
	wantDecodes := []string{
		"rgb/1.png", "depth/1.png",
		"rgb/2.png", "depth/2.png",
		"rgb/3.png", "depth/3.png",
	}
	got := dec.Decoded()
	if len(got) != len(wantDecodes) {
		t.Fatalf("decoded %d images, want %d", len(got), len(wantDecodes))
	}
	for i := range wantDecodes {
		if got[i] != wantDecodes[i] {
			t.Errorf("decode %d = %q, want %q", i, got[i], wantDecodes[i])
		}
	}
}

func TestSource_DecodeFailureTerminatesSequence(t *testing.T) {
	dec := NewMockDecoder()
	dec.FailOn("rgb/2.png")

	src, err := NewSource(manifestOf(3), dec)
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}

	// Frame 1 decodes fine.
	buf, err := src.Next()
	if err != nil {
		t.Fatalf("first Next returned error: %v", err)
	}
	buf.Close()

	// Frame 2 fails with a DecodeError naming the path.
	_, err = src.Next()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("second Next error = %v, want *DecodeError", err)
	}
	if decodeErr.Path != "rgb/2.png" {
		t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, "rgb/2.png")
	}

	// The source yields no further frames after a decode error.
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Next after decode error = %v, want io.EOF", err)
	}
}

func TestSource_DepthDecodeFailure(t *testing.T) {
	dec := NewMockDecoder()
	dec.FailOn("depth/1.png")

	src, err := NewSource(manifestOf(1), dec)
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}

	_, err = src.Next()
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Next error = %v, want *DecodeError", err)
	}
	if decodeErr.Path != "depth/1.png" {
		t.Errorf("DecodeError.Path = %q, want %q", decodeErr.Path, "depth/1.png")
	}
}

func TestSource_Len(t *testing.T) {
	src, err := NewSource(manifestOf(5), NewMockDecoder())
	if err != nil {
		t.Fatalf("NewSource returned error: %v", err)
	}
	if src.Len() != 5 {
		t.Errorf("Len() = %d, want 5", src.Len())
	}
}
