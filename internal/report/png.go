package report

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoSamples is returned when there is nothing to draw.
var ErrNoSamples = errors.New("no samples to plot")

// Axis colours shared by the PNG and HTML charts.
var (
	lateralColor      = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	verticalColor     = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	longitudinalColor = color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
)

// Chart size for RenderPNG.
const (
	pngWidth  = 14 * vg.Inch
	pngHeight = 6 * vg.Inch
)

// RenderPNG draws the three accelerometer axes against time and saves the
// chart to path. The extension selects the image format (.png, .svg, .pdf).
func RenderPNG(samples []kinematics.AccelerometerSample, title, path string) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Acceleration (g)"
	p.Add(plotter.NewGrid())

	latPts := make(plotter.XYs, len(samples))
	vertPts := make(plotter.XYs, len(samples))
	longPts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		latPts[i] = plotter.XY{X: s.Time, Y: s.Lateral}
		vertPts[i] = plotter.XY{X: s.Time, Y: s.Vertical}
		longPts[i] = plotter.XY{X: s.Time, Y: s.Longitudinal}
	}

	series := []struct {
		label string
		pts   plotter.XYs
		color color.Color
	}{
		{"lateral", latPts, lateralColor},
		{"vertical", vertPts, verticalColor},
		{"longitudinal", longPts, longitudinalColor},
	}
	for _, s := range series {
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return fmt.Errorf("build %s line: %w", s.label, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(pngWidth, pngHeight, filepath.Clean(path)); err != nil {
		return fmt.Errorf("save accelerometer plot: %w", err)
	}
	return nil
}
