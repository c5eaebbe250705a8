// Package render draws filter frames as PNG snapshots.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	particlefilter "github.com/jhoydich/terrain-particle-filter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	terrainColor   = color.RGBA{R: 60, G: 110, B: 0, A: 255}
	vehicleColor   = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	measureColor   = color.RGBA{R: 220, G: 0, B: 0, A: 255}
	weightedColor  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	resampledColor = color.RGBA{R: 0, G: 170, B: 0, A: 255}
	estimateColor  = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// Particle rows, in raster rows from the top, so the two populations do not
// overlap the aircraft.
const (
	weightedRow  = 50
	resampledRow = 60
)

// FramePlotter saves every Nth frame it observes into outputDir. Raster rows
// are flipped so that up in the image is up in the plot.
type FramePlotter struct {
	terrain   *particlefilter.Terrain
	outputDir string
	every     int
	written   int
	profile   plotter.XYs
}

// NewFramePlotter creates outputDir and returns a plotter saving one frame in
// every. every <= 0 disables output.
func NewFramePlotter(terrain *particlefilter.Terrain, outputDir string, every int) (*FramePlotter, error) {
	if every > 0 {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	profile := make(plotter.XYs, terrain.Width())
	for col := range profile {
		profile[col] = plotter.XY{X: float64(col), Y: float64(terrain.Height() - terrain.Boundary(col))}
	}

	return &FramePlotter{
		terrain:   terrain,
		outputDir: outputDir,
		every:     every,
		profile:   profile,
	}, nil
}

// Written returns the number of frames saved so far.
func (fp *FramePlotter) Written() int {
	return fp.written
}

// Observe renders frame when its iteration falls on the plotting interval.
func (fp *FramePlotter) Observe(frame particlefilter.Frame) error {
	if fp.every <= 0 || frame.Iteration%fp.every != 0 {
		return nil
	}

	p, err := fp.framePlot(frame)
	if err != nil {
		return fmt.Errorf("frame %d: %w", frame.Iteration, err)
	}

	path := filepath.Join(fp.outputDir, fmt.Sprintf("frame_%05d.png", frame.Iteration))
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	fp.written++
	return nil
}

func (fp *FramePlotter) flip(row float64) float64 {
	return float64(fp.terrain.Height()) - row
}

func (fp *FramePlotter) framePlot(frame particlefilter.Frame) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Frame %d - estimate %.1f (±%.1f), truth %.1f",
		frame.Iteration, frame.EstimatedX, frame.EstimatedSpread, frame.VehicleX)
	p.X.Label.Text = "x (px)"
	p.Y.Label.Text = "altitude (px)"
	p.X.Min, p.X.Max = 0, float64(fp.terrain.Width()-1)
	p.Y.Min, p.Y.Max = 0, float64(fp.terrain.Height())

	ground, err := plotter.NewLine(fp.profile)
	if err != nil {
		return nil, err
	}
	ground.Color = terrainColor
	ground.Width = vg.Points(1.5)
	p.Add(ground)
	p.Legend.Add("terrain", ground)

	ray, err := plotter.NewLine(plotter.XYs{
		{X: frame.VehicleX, Y: fp.flip(frame.VehicleY)},
		{X: frame.VehicleX, Y: fp.flip(frame.VehicleY + frame.Measurement)},
	})
	if err != nil {
		return nil, err
	}
	ray.Color = measureColor
	ray.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(ray)
	p.Legend.Add("measurement", ray)

	estimate, err := plotter.NewLine(plotter.XYs{
		{X: frame.EstimatedX, Y: 0},
		{X: frame.EstimatedX, Y: float64(fp.terrain.Height())},
	})
	if err != nil {
		return nil, err
	}
	estimate.Color = estimateColor
	p.Add(estimate)
	p.Legend.Add("estimate", estimate)

	weighted, err := particleScatter(frame.Weighted, fp.flip(weightedRow), weightedColor)
	if err != nil {
		return nil, err
	}
	p.Add(weighted)
	p.Legend.Add("weighted", weighted)

	resampled, err := particleScatter(frame.Resampled, fp.flip(resampledRow), resampledColor)
	if err != nil {
		return nil, err
	}
	p.Add(resampled)
	p.Legend.Add("resampled", resampled)

	vehicle, err := plotter.NewScatter(plotter.XYs{{X: frame.VehicleX, Y: fp.flip(frame.VehicleY)}})
	if err != nil {
		return nil, err
	}
	vehicle.GlyphStyle.Color = vehicleColor
	vehicle.GlyphStyle.Shape = draw.TriangleGlyph{}
	vehicle.GlyphStyle.Radius = vg.Points(5)
	p.Add(vehicle)
	p.Legend.Add("vehicle", vehicle)

	return p, nil
}

func particleScatter(particles []particlefilter.Particle, y float64, c color.Color) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(particles))
	for i, pt := range particles {
		pts[i] = plotter.XY{X: pt.X, Y: y}
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	return s, nil
}
