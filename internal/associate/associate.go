// Package associate parses TUM-style association manifests that pair
// color and depth image paths by timestamp.
package associate

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FrameDescriptor identifies one RGB-D frame of a sequence: the capture
// timestamp and the resolved paths of its color and depth images.
type FrameDescriptor struct {
	Timestamp float64
	ColorPath string
	DepthPath string
}

// Manifest is the parsed association file. Timestamps, color paths and
// depth paths are kept as parallel slices in manifest order.
type Manifest struct {
	Timestamps []float64
	ColorPaths []string
	DepthPaths []string
}

// Load reads the association manifest at manifestPath and resolves every
// image path against sequenceRoot.
//
// Each record line carries four whitespace-separated fields: a timestamp,
// the color image path, a second timestamp (discarded) and the depth
// image path. Blank lines and comment lines starting with '#' are
// ignored. Lines with fewer than four fields or an unparsable timestamp
// are skipped with a warning; an empty manifest yields an empty Manifest,
// not an error.
func Load(manifestPath, sequenceRoot string) (*Manifest, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open association file: %w", err)
	}
	defer f.Close()

	m := &Manifest{}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			log.Printf("Skipping malformed association line %d (%d fields)", lineNo, len(fields))
			continue
		}

		ts, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			log.Printf("Skipping association line %d: bad timestamp %q", lineNo, fields[0])
			continue
		}

		// fields[2] is the depth timestamp; the original tooling reads
		// and discards it, keeping the color timestamp for the frame.
		m.Timestamps = append(m.Timestamps, ts)
		m.ColorPaths = append(m.ColorPaths, filepath.Join(sequenceRoot, fields[1]))
		m.DepthPaths = append(m.DepthPaths, filepath.Join(sequenceRoot, fields[3]))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read association file: %w", err)
	}

	return m, nil
}

// Len returns the number of frames in the manifest.
func (m *Manifest) Len() int {
	return len(m.Timestamps)
}

// At returns the descriptor of frame i in manifest order.
func (m *Manifest) At(i int) FrameDescriptor {
	return FrameDescriptor{
		Timestamp: m.Timestamps[i],
		ColorPath: m.ColorPaths[i],
		DepthPath: m.DepthPaths[i],
	}
}
