package particlefilter

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// BlueChannelZero reports a pixel as terrain when its blue channel is zero.
// Maps drawn for the airplane example use this convention.
func BlueChannelZero(c color.Color) bool {
	_, _, b, _ := c.RGBA()
	return b == 0
}

// Terrain answers clearance queries against an immutable raster. The first
// terrain row of every column is computed once when the terrain is built.
type Terrain struct {
	boundary    []int
	height      int
	SensorSigma float64
	noise       Noise
}

// NewTerrain scans img column by column from the top and records the first
// pixel isTerrain accepts. A column without terrain is rejected.
func NewTerrain(img image.Image, isTerrain func(color.Color) bool, sensorSigma float64, noise Noise) (*Terrain, error) {
	b := img.Bounds()
	boundary := make([]int, b.Dx())
	for col := 0; col < b.Dx(); col++ {
		row := -1
		for r := 0; r < b.Dy(); r++ {
			if isTerrain(img.At(b.Min.X+col, b.Min.Y+r)) {
				row = r
				break
			}
		}
		if row < 0 {
			return nil, fmt.Errorf("column %d: %w", col, ErrEmptyColumn)
		}
		boundary[col] = row
	}
	return NewTerrainFromBoundary(boundary, b.Dy(), sensorSigma, noise)
}

// NewTerrainFromBoundary builds a terrain from a precomputed boundary row per
// column.
func NewTerrainFromBoundary(boundary []int, height int, sensorSigma float64, noise Noise) (*Terrain, error) {
	if len(boundary) == 0 {
		return nil, fmt.Errorf("terrain has no columns: %w", ErrEmptyColumn)
	}
	if noise == nil {
		return nil, fmt.Errorf("terrain needs a noise source")
	}
	for col, row := range boundary {
		if row < 0 || row >= height {
			return nil, fmt.Errorf("column %d boundary row %d outside [0, %d): %w", col, row, height, ErrEmptyColumn)
		}
	}
	t := &Terrain{
		boundary:    make([]int, len(boundary)),
		height:      height,
		SensorSigma: sensorSigma,
		noise:       noise,
	}
	copy(t.boundary, boundary)
	return t, nil
}

func (t *Terrain) Width() int  { return len(t.boundary) }
func (t *Terrain) Height() int { return t.height }

// Boundary returns the first terrain row of column col.
func (t *Terrain) Boundary(col int) int { return t.boundary[col] }

// Contains reports whether x rounds to a column of the raster.
func (t *Terrain) Contains(x float64) bool {
	col := math.Round(x)
	return col >= 0 && col <= float64(len(t.boundary)-1)
}

// MeasureDistance returns the vertical distance from (x, y) down to the
// terrain boundary of the column nearest x. withNoise adds sensor error.
// x must satisfy Contains.
func (t *Terrain) MeasureDistance(x, y float64, withNoise bool) float64 {
	d := float64(t.boundary[int(math.Round(x))]) - y
	if withNoise {
		d += t.noise.Gaussian(0, t.SensorSigma)
	}
	return d
}
