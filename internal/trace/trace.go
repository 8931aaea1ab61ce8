// Package trace reads, summarizes and plots TUM-format camera
// trajectory files, the format the engine exports at the end of a run.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Pose is one TUM trajectory record: a timestamp, a translation in
// meters and a unit quaternion (qx, qy, qz, qw).
type Pose struct {
	Timestamp  float64
	TX, TY, TZ float64
	QX, QY, QZ float64
	QW         float64
}

// RotationMatrix returns the 3x3 rotation matrix of the pose quaternion.
func (p Pose) RotationMatrix() [3][3]float64 {
	qx, qy, qz, qw := p.QX, p.QY, p.QZ, p.QW
	return [3][3]float64{
		{1 - 2*qy*qy - 2*qz*qz, 2*qx*qy - 2*qz*qw, 2*qx*qz + 2*qy*qw},
		{2*qx*qy + 2*qz*qw, 1 - 2*qx*qx - 2*qz*qz, 2*qy*qz - 2*qx*qw},
		{2*qx*qz - 2*qy*qw, 2*qy*qz + 2*qx*qw, 1 - 2*qx*qx - 2*qy*qy},
	}
}

// Parse reads TUM trajectory records from r. Comment lines starting
// with '#' and blank lines are ignored; lines that do not carry eight
// parsable floats are skipped with a warning, matching the trajectory
// tooling this replaces.
func Parse(r io.Reader) ([]Pose, error) {
	var poses []Pose

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 8 {
			log.Printf("Skipping trajectory line %d (%d fields)", lineNo, len(fields))
			continue
		}

		var values [8]float64
		ok := true
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				log.Printf("Skipping trajectory line %d: bad value %q", lineNo, field)
				ok = false
				break
			}
			values[i] = v
		}
		if !ok {
			continue
		}

		poses = append(poses, Pose{
			Timestamp: values[0],
			TX:        values[1], TY: values[2], TZ: values[3],
			QX: values[4], QY: values[5], QZ: values[6], QW: values[7],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trajectory: %w", err)
	}
	return poses, nil
}

// Load parses the trajectory file at path.
func Load(path string) ([]Pose, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trajectory file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Stats summarizes a trajectory.
type Stats struct {
	Frames     int
	Duration   float64 // seconds from first to last pose
	PathLength float64 // meters traveled
	MeanSpeed  float64 // m/s averaged over segments
	MaxSpeed   float64 // m/s of the fastest segment
}

// Summarize computes run statistics over the poses, which are assumed
// to be in timestamp order as written by the engine.
func Summarize(poses []Pose) Stats {
	s := Stats{Frames: len(poses)}
	if len(poses) < 2 {
		return s
	}

	s.Duration = poses[len(poses)-1].Timestamp - poses[0].Timestamp

	var speeds []float64
	for i := 1; i < len(poses); i++ {
		prev, cur := poses[i-1], poses[i]
		dx := cur.TX - prev.TX
		dy := cur.TY - prev.TY
		dz := cur.TZ - prev.TZ
		dist := math.Sqrt(dx*dx + dy*dy + dz*dz)
		s.PathLength += dist

		if dt := cur.Timestamp - prev.Timestamp; dt > 0 {
			speed := dist / dt
			speeds = append(speeds, speed)
			if speed > s.MaxSpeed {
				s.MaxSpeed = speed
			}
		}
	}

	if len(speeds) > 0 {
		s.MeanSpeed = stat.Mean(speeds, nil)
	}
	return s
}
