package particlefilter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Resample draws len(particles) value copies from particles with probability
// proportional to weight, using the resampling wheel: one pass around the
// population with a step of U(0, 2*maxWeight), never sorting.
//
// The input is not modified. A population of one is returned as a copy
// whatever its weight.
func Resample(particles []Particle, noise Noise) ([]Particle, error) {
	n := len(particles)
	if n == 0 {
		return nil, ErrEmptyPopulation
	}
	if n == 1 {
		return []Particle{particles[0]}, nil
	}

	weights := make([]float64, n)
	for i, p := range particles {
		if p.Weight < 0 || math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) {
			return nil, fmt.Errorf("particle %d weight %v: %w", i, p.Weight, ErrInvalidWeight)
		}
		weights[i] = p.Weight
	}

	mw := floats.Max(weights)
	if mw <= 0 {
		return nil, fmt.Errorf("resampling %d particles: %w", n, ErrZeroMaxWeight)
	}

	index := int(noise.Uniform() * float64(n))
	if index >= n {
		index = n - 1
	}
	beta := 0.0

	resampled := make([]Particle, n)
	for i := range resampled {
		beta += noise.Uniform() * 2 * mw
		for beta > weights[index] {
			beta -= weights[index]
			index = (index + 1) % n
		}
		resampled[i] = particles[index]
	}
	return resampled, nil
}
