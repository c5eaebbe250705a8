// Package terrainmap loads or synthesizes the terrain raster the airplane
// example flies over. Terrain pixels have a zero blue channel; sky is white.
package terrainmap

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"math"
	"math/rand/v2"
	"os"
)

var (
	sky    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ground = color.RGBA{R: 60, G: 110, B: 0, A: 255}
)

// LoadImage decodes the map image at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode map %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("map %s (%s) is empty", path, format)
	}
	return img, nil
}

// Generate draws a mountain range as a sum of a few random sine ridges. The
// surface always stays between 40% and 95% of height, so every column has
// terrain.
func Generate(width, height int, seed uint64) *image.RGBA {
	rng := rand.New(rand.NewPCG(seed, seed+1))

	type ridge struct{ amp, freq, phase float64 }
	ridges := make([]ridge, 4)
	for i := range ridges {
		ridges[i] = ridge{
			amp:   1 / float64(i+1),
			freq:  float64(i+1) * (1 + rng.Float64()) * 2 * math.Pi / float64(width),
			phase: rng.Float64() * 2 * math.Pi,
		}
	}
	var total float64
	for _, r := range ridges {
		total += r.amp
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	top, bottom := 0.4*float64(height), 0.95*float64(height)
	for x := 0; x < width; x++ {
		s := 0.0
		for _, r := range ridges {
			s += r.amp * math.Sin(r.freq*float64(x)+r.phase)
		}
		// s/total is in [-1, 1]
		surface := int(top + (bottom-top)*(s/total+1)/2)
		for y := 0; y < height; y++ {
			if y >= surface {
				img.SetRGBA(x, y, ground)
			} else {
				img.SetRGBA(x, y, sky)
			}
		}
	}
	return img
}
