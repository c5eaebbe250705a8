package particlefilter

import "errors"

// Fatal conditions. Each one means an invariant of the filter broke; the
// cycle that hit it is aborted and the previous population is kept.
var (
	ErrEmptyColumn        = errors.New("terrain column has no boundary")
	ErrEmptyPopulation    = errors.New("particle population is empty")
	ErrZeroMaxWeight      = errors.New("max particle weight is not positive")
	ErrInvalidWeight      = errors.New("particle weight is negative or not finite")
	ErrPopulationSize     = errors.New("particle population size changed")
	ErrAlreadyInitialized = errors.New("particle filter already initialized")
	ErrVehicleOutOfBounds = errors.New("vehicle is outside the terrain")
)
