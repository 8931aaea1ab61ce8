package frame

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDecoder is a test implementation of the Decoder interface. It
// produces small synthetic Mats and can be configured to fail for
// specific paths.
type MockDecoder struct {
	mu      sync.Mutex
	failOn  map[string]bool
	decoded []string
}

// NewMockDecoder creates a new MockDecoder instance.
func NewMockDecoder() *MockDecoder {
	return &MockDecoder{failOn: make(map[string]bool)}
}

// FailOn makes Decode return a DecodeError for the given path.
func (m *MockDecoder) FailOn(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[path] = true
}

// Decoded returns the paths decoded so far, in order.
func (m *MockDecoder) Decoded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.decoded))
	copy(out, m.decoded)
	return out
}

// Decode returns a synthetic 2x2 Mat, or a DecodeError if the path was
// registered with FailOn.
func (m *MockDecoder) Decode(path string) (gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failOn[path] {
		return gocv.Mat{}, &DecodeError{Path: path}
	}

	m.decoded = append(m.decoded, path)
	return gocv.NewMatWithSize(2, 2, gocv.MatTypeCV8UC1), nil
}
