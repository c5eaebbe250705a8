package particlefilter

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noise is the randomness used by the vehicle, the sensor, the particles and
// the resampling wheel. Tests substitute a deterministic implementation.
type Noise interface {
	// Gaussian draws from N(mean, sigma^2).
	Gaussian(mean, sigma float64) float64
	// Uniform draws from [0, 1).
	Uniform() float64
}

// DistNoise draws from gonum distributions sharing a single seeded source.
type DistNoise struct {
	src     rand.Source
	uniform distuv.Uniform
}

// NewNoise creates a DistNoise seeded with seed. The same seed reproduces the
// same run.
func NewNoise(seed uint64) *DistNoise {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &DistNoise{
		src:     src,
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

func (n *DistNoise) Gaussian(mean, sigma float64) float64 {
	if sigma == 0 {
		return mean
	}
	norm := distuv.Normal{
		Mu:    mean,
		Sigma: sigma,
		Src:   n.src,
	}
	return norm.Rand()
}

func (n *DistNoise) Uniform() float64 {
	return n.uniform.Rand()
}
