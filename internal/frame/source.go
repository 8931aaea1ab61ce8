// Package frame provides lazy decoding of RGB-D image pairs using GoCV (OpenCV).
package frame

import (
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/ayusman/parikrama/internal/associate"
)

// ErrNoFrames is returned when the manifest contains no frames.
var ErrNoFrames = errors.New("no images found in provided path")

// ErrFrameCountMismatch is returned when the number of color and depth
// images disagree. The loader produces paired paths, so this is a
// defensive check only.
var ErrFrameCountMismatch = errors.New("number of RGB and depth images do not match")

// DecodeError reports an image that could not be decoded.
type DecodeError struct {
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load image at: %s", e.Path)
}

// Buffer is a decoded RGB-D pair. The owner must call Close to release
// the underlying image data.
type Buffer struct {
	Color     gocv.Mat
	Depth     gocv.Mat
	Timestamp float64
}

// Close releases both image buffers.
func (b *Buffer) Close() {
	b.Color.Close()
	b.Depth.Close()
}

// Decoder defines the interface for image decoding implementations.
type Decoder interface {
	Decode(path string) (gocv.Mat, error)
}

// FileDecoder decodes image files from disk with GoCV. Images are read
// unchanged: no colorspace conversion, depth images keep their native
// bit depth.
type FileDecoder struct{}

// Decode reads the image at path. The caller owns the returned Mat.
func (FileDecoder) Decode(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadUnchanged)
	if mat.Empty() {
		mat.Close()
		return gocv.Mat{}, &DecodeError{Path: path}
	}
	return mat, nil
}

// Source is a lazy, non-restartable sequence of decoded frames in
// manifest order. At most one frame is in flight at a time; the caller
// closes each Buffer before requesting the next.
type Source struct {
	manifest *associate.Manifest
	decoder  Decoder
	pos      int
}

// NewSource validates the manifest and returns a source over it. The
// decoder defaults to FileDecoder when nil.
func NewSource(m *associate.Manifest, decoder Decoder) (*Source, error) {
	if m == nil || m.Len() == 0 {
		return nil, ErrNoFrames
	}
	if len(m.ColorPaths) != len(m.DepthPaths) {
		return nil, ErrFrameCountMismatch
	}
	if decoder == nil {
		decoder = FileDecoder{}
	}
	return &Source{manifest: m, decoder: decoder}, nil
}

// Len returns the total number of frames in the sequence.
func (s *Source) Len() int {
	return s.manifest.Len()
}

// Next decodes and returns the next frame. It returns io.EOF once the
// sequence is exhausted and a *DecodeError if either image fails to
// decode; after a decode error the source yields no further frames.
func (s *Source) Next() (*Buffer, error) {
	if s.pos >= s.manifest.Len() {
		return nil, io.EOF
	}

	d := s.manifest.At(s.pos)

	color, err := s.decoder.Decode(d.ColorPath)
	if err != nil {
		s.pos = s.manifest.Len()
		return nil, err
	}

	depth, err := s.decoder.Decode(d.DepthPath)
	if err != nil {
		color.Close()
		s.pos = s.manifest.Len()
		return nil, err
	}

	s.pos++
	return &Buffer{Color: color, Depth: depth, Timestamp: d.Timestamp}, nil
}
