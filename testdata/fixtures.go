// Package testdata generates synthetic RGB-D sequences for tests.
package testdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// WriteSequence writes an n-frame RGB-D sequence under dir: 8-bit color
// PNGs in rgb/, 16-bit depth PNGs in depth/, and an associations.txt
// manifest pairing them. It returns the manifest path.
func WriteSequence(dir string, n int) (string, error) {
	for _, sub := range []string{"rgb", "depth"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to create %s dir: %w", sub, err)
		}
	}

	var manifest strings.Builder
	for i := 1; i <= n; i++ {
		ts := float64(i) * 0.1

		color := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
		colorPath := filepath.Join(dir, "rgb", fmt.Sprintf("%d.png", i))
		ok := gocv.IMWrite(colorPath, color)
		color.Close()
		if !ok {
			return "", fmt.Errorf("failed to write %s", colorPath)
		}

		depth := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV16UC1)
		depthPath := filepath.Join(dir, "depth", fmt.Sprintf("%d.png", i))
		ok = gocv.IMWrite(depthPath, depth)
		depth.Close()
		if !ok {
			return "", fmt.Errorf("failed to write %s", depthPath)
		}

		fmt.Fprintf(&manifest, "%.6f rgb/%d.png %.6f depth/%d.png\n", ts, i, ts, i)
	}

	manifestPath := filepath.Join(dir, "associations.txt")
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return manifestPath, nil
}

// Corrupt overwrites the image at path with bytes no decoder accepts.
func Corrupt(path string) error {
	return os.WriteFile(path, []byte("not an image"), 0644)
}
