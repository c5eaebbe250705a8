package particlefilter

import (
	"fmt"
	"math"
	"sync"

	"github.com/jhoydich/terrain-particle-filter/internal/monitoring"
	"gonum.org/v1/gonum/stat"
)

type Particle struct {
	X      float64
	Y      float64
	Weight float64
}

func (p *Particle) UpdateWeight(weight float64) {
	p.Weight = weight
}

// Move applies the control velocity with process noise of standard deviation
// sigma and saturates X into [0, maxX]. Particles pushed past an edge pile up
// on it rather than being discarded.
func (p *Particle) Move(v, dt, sigma, maxX float64, noise Noise) {
	p.X += v*dt + noise.Gaussian(0, sigma)
	p.X = math.Max(0, math.Min(p.X, maxX))
}

// State is the lifecycle of a ParticleFilter.
type State int

const (
	Uninitialized State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Frame is what one cycle hands to a rendering sink. The slices are copies.
type Frame struct {
	Iteration   int
	VehicleX    float64
	VehicleY    float64
	Measurement float64
	// Weighted is the population after weighting, before resampling.
	Weighted []Particle
	// Resampled is the population the filter carries into the next cycle.
	Resampled       []Particle
	EstimatedX      float64
	EstimatedSpread float64
}

type ParticleFilter struct {
	NumSamples      int
	Sigma           float64
	MotionSigma     float64
	XLimit          float64
	EstimatedX      float64
	EstimatedSpread float64
	MaxWeight       float64
	iteration       int
	state           State
	terrain         *Terrain
	vehicle         *Vehicle
	noise           Noise

	mu        sync.RWMutex
	particles []Particle
}

// CreatePF creates a particle filter with numSamps particles tracking vehicle
// over terrain. sigma is the likelihood kernel width and motionSigma the
// per-particle process noise. The population is drawn on the first Step or
// on an explicit Initialize.
func CreatePF(numSamps int, sigma, motionSigma float64, terrain *Terrain, vehicle *Vehicle, noise Noise) (*ParticleFilter, error) {
	switch {
	case numSamps <= 0:
		return nil, fmt.Errorf("number of particles must be positive, got %d", numSamps)
	case !(sigma > 0):
		return nil, fmt.Errorf("likelihood sigma must be positive, got %v", sigma)
	case !(motionSigma >= 0):
		return nil, fmt.Errorf("motion sigma must be non-negative, got %v", motionSigma)
	case terrain == nil || vehicle == nil || noise == nil:
		return nil, fmt.Errorf("terrain, vehicle and noise are required")
	}

	pf := &ParticleFilter{
		NumSamples:  numSamps,
		Sigma:       sigma,
		MotionSigma: motionSigma,
		XLimit:      float64(terrain.Width() - 1),
		state:       Uninitialized,
		terrain:     terrain,
		vehicle:     vehicle,
		noise:       noise,
	}
	return pf, nil
}

func (pf *ParticleFilter) State() State {
	return pf.state
}

func (pf *ParticleFilter) Iteration() int {
	return pf.iteration
}

func (pf *ParticleFilter) Vehicle() *Vehicle {
	return pf.vehicle
}

// Particles returns a copy of the current population.
func (pf *ParticleFilter) Particles() []Particle {
	pf.mu.RLock()
	defer pf.mu.RUnlock()
	out := make([]Particle, len(pf.particles))
	copy(out, pf.particles)
	return out
}

// Initialize draws the initial population uniformly over [0, width) at the
// vehicle altitude. It may only be called once.
func (pf *ParticleFilter) Initialize(width int, vehicleY float64) error {
	if pf.state != Uninitialized {
		return ErrAlreadyInitialized
	}
	if width <= 0 {
		return fmt.Errorf("initialize over width %d: width must be positive", width)
	}

	particles := make([]Particle, pf.NumSamples)
	for i := range particles {
		x := pf.noise.Uniform() * float64(width)
		particles[i] = Particle{X: math.Min(x, pf.XLimit), Y: vehicleY, Weight: 0}
	}

	pf.setParticles(particles)
	pf.state = Running
	monitoring.Logf("particle filter: initialized %d particles over width %d at y=%.1f", pf.NumSamples, width, vehicleY)
	return nil
}

// check if weight is greater than current max weight
func (pf *ParticleFilter) checkAndSetMaxWeight(weight float64, override bool) {
	if weight > pf.MaxWeight {
		pf.MaxWeight = weight
	}

	// when we want to reset to zero
	if override {
		pf.MaxWeight = weight
	}
}

// CalculateWeights scores every particle's noise-free predicted distance
// against the noisy measurement.
func (pf *ParticleFilter) CalculateWeights(particles []Particle, measured float64) {
	pf.checkAndSetMaxWeight(0.0, true)
	for i := range particles {
		p := &particles[i]
		predicted := pf.terrain.MeasureDistance(p.X, p.Y, false)
		newWeight := CalculateNormDist(predicted, measured, pf.Sigma)

		pf.checkAndSetMaxWeight(newWeight, false)
		p.UpdateWeight(newWeight)
	}
}

// Step runs one predict, weight, resample cycle. dt is the elapsed time
// since the previous cycle and is not validated. On error the cycle is
// abandoned and the population from the previous cycle is kept.
func (pf *ParticleFilter) Step(dt float64) (Frame, error) {
	if pf.state == Uninitialized {
		if err := pf.Initialize(pf.terrain.Width(), pf.vehicle.Y); err != nil {
			return Frame{}, err
		}
	}

	pf.vehicle.Advance(dt)
	if !pf.terrain.Contains(pf.vehicle.X) {
		return Frame{}, fmt.Errorf("cycle %d: vehicle x=%.2f outside [0, %.0f]: %w",
			pf.iteration+1, pf.vehicle.X, pf.XLimit, ErrVehicleOutOfBounds)
	}
	measured := pf.terrain.MeasureDistance(pf.vehicle.X, pf.vehicle.Y, true)

	particles := pf.Particles()
	if len(particles) != pf.NumSamples {
		return Frame{}, fmt.Errorf("cycle %d: have %d particles, want %d: %w",
			pf.iteration+1, len(particles), pf.NumSamples, ErrPopulationSize)
	}
	for i := range particles {
		particles[i].Move(pf.vehicle.V, dt, pf.MotionSigma, pf.XLimit, pf.noise)
	}

	pf.CalculateWeights(particles, measured)

	resampled, err := Resample(particles, pf.noise)
	if err != nil {
		monitoring.Logf("particle filter: cycle %d aborted: %v", pf.iteration+1, err)
		return Frame{}, fmt.Errorf("cycle %d: %w", pf.iteration+1, err)
	}
	if len(resampled) != pf.NumSamples {
		return Frame{}, fmt.Errorf("cycle %d: resampled %d particles, want %d: %w",
			pf.iteration+1, len(resampled), pf.NumSamples, ErrPopulationSize)
	}

	pf.estimate(particles)
	pf.setParticles(resampled)
	pf.iteration++

	frame := Frame{
		Iteration:       pf.iteration,
		VehicleX:        pf.vehicle.X,
		VehicleY:        pf.vehicle.Y,
		Measurement:     measured,
		Weighted:        particles,
		Resampled:       pf.Particles(),
		EstimatedX:      pf.EstimatedX,
		EstimatedSpread: pf.EstimatedSpread,
	}
	return frame, nil
}

// estimate sets the weighted mean and standard deviation of the particle
// positions.
func (pf *ParticleFilter) estimate(particles []Particle) {
	xs := make([]float64, len(particles))
	ws := make([]float64, len(particles))
	for i, p := range particles {
		xs[i] = p.X
		ws[i] = p.Weight
	}
	pf.EstimatedX, pf.EstimatedSpread = stat.PopMeanStdDev(xs, ws)
}

func (pf *ParticleFilter) setParticles(particles []Particle) {
	pf.mu.Lock()
	pf.particles = particles
	pf.mu.Unlock()
}
