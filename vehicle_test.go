package particlefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicleAdvance(t *testing.T) {
	v := NewVehicle(100, 100, 10, 0.01, &fixedNoise{offset: 0.005})

	v.Advance(0.5)
	assert.InDelta(t, 105.005, v.X, 1e-9)
	assert.Equal(t, 100.0, v.Y)
	assert.Equal(t, 10.0, v.V)
}

func TestVehicleAdvance_ZeroDt(t *testing.T) {
	v := NewVehicle(100, 100, 10, 0, &fixedNoise{offset: 3})

	// no validation: a zero step with zero drift leaves the vehicle in place
	v.Advance(0)
	assert.Equal(t, 100.0, v.X)
}

func TestVehicleAdvance_Drift(t *testing.T) {
	v := NewVehicle(0, 100, 0, 0.01, NewNoise(42))

	for i := 0; i < 1000; i++ {
		v.Advance(1)
	}
	// a random walk of 1000 steps with sigma 0.01 stays well inside 1.5
	assert.InDelta(t, 0, v.X, 1.5)
}
