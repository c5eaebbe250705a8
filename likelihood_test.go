package particlefilter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateNormDist_Formula(t *testing.T) {
	for _, tc := range []struct {
		predicted, measured, sigma float64
	}{
		{200, 200, 100},
		{150, 200, 100},
		{0, 1, 1},
		{-3, 4, 2.5},
	} {
		d := tc.predicted - tc.measured
		want := math.Exp(-d*d/(2*tc.sigma*tc.sigma)) / math.Sqrt(2*math.Pi*tc.sigma*tc.sigma)
		assert.InDelta(t, want, CalculateNormDist(tc.predicted, tc.measured, tc.sigma), 1e-12)
	}
}

func TestCalculateNormDist_PeakAtZeroDiscrepancy(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 100} {
		for _, eps := range []float64{1e-3, 0.5, 10, 1000} {
			peak := CalculateNormDist(200, 200, sigma)
			off := CalculateNormDist(200, 200+eps, sigma)
			assert.Greater(t, peak, off, "sigma=%v eps=%v", sigma, eps)
			assert.False(t, math.IsInf(peak, 0))
		}
	}
}

func TestCalculateNormDist_NonNegativeAndFinite(t *testing.T) {
	for _, d := range []float64{0, 1, 100, 1e4, 1e8, 1e200} {
		w := CalculateNormDist(d, -d, 100)
		assert.GreaterOrEqual(t, w, 0.0, "d=%v", d)
		assert.False(t, math.IsNaN(w), "d=%v", d)
		assert.False(t, math.IsInf(w, 0), "d=%v", d)
	}
}
