package trace

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrEmptyTrajectory is returned when asked to plot a trajectory with
// no poses.
var ErrEmptyTrajectory = errors.New("trajectory contains no poses")

// PlotTopDown renders the top-down (X against Z) projection of the
// trajectory to a PNG file at outPath.
func PlotTopDown(poses []Pose, outPath string) error {
	if len(poses) == 0 {
		return ErrEmptyTrajectory
	}

	p := plot.New()
	p.Title.Text = "Camera trajectory (top-down)"
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "z [m]"

	pts := make(plotter.XYs, len(poses))
	for i, pose := range poses {
		pts[i] = plotter.XY{X: pose.TX, Y: pose.TZ}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build trajectory line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	// Mark the start pose so the travel direction is readable.
	start, err := plotter.NewScatter(plotter.XYs{pts[0]})
	if err != nil {
		return fmt.Errorf("failed to build start marker: %w", err)
	}
	p.Add(start)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
