package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TuningConfig holds the parameters of one airplane simulation run. Fields
// are pointers so a partial JSON file only overrides what it names; the Get*
// methods fall back to the canonical values.
type TuningConfig struct {
	// Filter params
	NumParticles        *int     `json:"num_particles,omitempty"`
	LikelihoodSigma     *float64 `json:"likelihood_sigma,omitempty"`
	ParticleMotionSigma *float64 `json:"particle_motion_sigma,omitempty"`

	// Truth and sensor params
	VehicleProcessSigma *float64 `json:"vehicle_process_sigma,omitempty"`
	SensorSigma         *float64 `json:"sensor_sigma,omitempty"`
	VehicleX            *float64 `json:"vehicle_x,omitempty"`
	VehicleY            *float64 `json:"vehicle_y,omitempty"`
	VehicleVelocity     *float64 `json:"vehicle_velocity,omitempty"`

	// Run params
	FixedDt  *string `json:"fixed_dt,omitempty"` // duration string like "100ms"; empty uses the wall clock
	MaxSteps *int    `json:"max_steps,omitempty"`
	Seed     *uint64 `json:"seed,omitempty"` // 0 seeds from the clock

	// Synthetic map, used when no map image is given
	MapWidth  *int `json:"map_width,omitempty"`
	MapHeight *int `json:"map_height,omitempty"`

	// Render params
	PlotEvery *int    `json:"plot_every,omitempty"`
	PlotDir   *string `json:"plot_dir,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns the reference airplane scenario.
func DefaultTuningConfig() *TuningConfig {
	return &TuningConfig{
		NumParticles:        ptrInt(1000),
		LikelihoodSigma:     ptrFloat64(100.0),
		ParticleMotionSigma: ptrFloat64(0.5),
		VehicleProcessSigma: ptrFloat64(0.01),
		SensorSigma:         ptrFloat64(1.0),
		VehicleX:            ptrFloat64(100),
		VehicleY:            ptrFloat64(100),
		VehicleVelocity:     ptrFloat64(10),
		FixedDt:             ptrString(""),
		MaxSteps:            ptrInt(0),
		Seed:                ptrUint64(0),
		MapWidth:            ptrInt(800),
		MapHeight:           ptrInt(500),
		PlotEvery:           ptrInt(0),
		PlotDir:             ptrString("plots"),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the fields that are set.
func (c *TuningConfig) Validate() error {
	if c.NumParticles != nil && *c.NumParticles <= 0 {
		return fmt.Errorf("num_particles must be positive, got %d", *c.NumParticles)
	}
	if c.LikelihoodSigma != nil && !(*c.LikelihoodSigma > 0) {
		return fmt.Errorf("likelihood_sigma must be positive, got %v", *c.LikelihoodSigma)
	}
	for name, v := range map[string]*float64{
		"particle_motion_sigma": c.ParticleMotionSigma,
		"vehicle_process_sigma": c.VehicleProcessSigma,
		"sensor_sigma":          c.SensorSigma,
	} {
		if v != nil && !(*v >= 0) {
			return fmt.Errorf("%s must be non-negative, got %v", name, *v)
		}
	}
	if c.FixedDt != nil && *c.FixedDt != "" {
		d, err := time.ParseDuration(*c.FixedDt)
		if err != nil {
			return fmt.Errorf("invalid fixed_dt %q: %w", *c.FixedDt, err)
		}
		if d <= 0 {
			return fmt.Errorf("fixed_dt must be positive, got %s", d)
		}
	}
	if c.MaxSteps != nil && *c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must be non-negative, got %d", *c.MaxSteps)
	}
	if c.MapWidth != nil && *c.MapWidth <= 0 {
		return fmt.Errorf("map_width must be positive, got %d", *c.MapWidth)
	}
	if c.MapHeight != nil && *c.MapHeight <= 0 {
		return fmt.Errorf("map_height must be positive, got %d", *c.MapHeight)
	}
	if c.PlotEvery != nil && *c.PlotEvery < 0 {
		return fmt.Errorf("plot_every must be non-negative, got %d", *c.PlotEvery)
	}
	return nil
}

var defaults = DefaultTuningConfig()

func (c *TuningConfig) GetNumParticles() int {
	if c.NumParticles == nil {
		return *defaults.NumParticles
	}
	return *c.NumParticles
}

func (c *TuningConfig) GetLikelihoodSigma() float64 {
	if c.LikelihoodSigma == nil {
		return *defaults.LikelihoodSigma
	}
	return *c.LikelihoodSigma
}

func (c *TuningConfig) GetParticleMotionSigma() float64 {
	if c.ParticleMotionSigma == nil {
		return *defaults.ParticleMotionSigma
	}
	return *c.ParticleMotionSigma
}

func (c *TuningConfig) GetVehicleProcessSigma() float64 {
	if c.VehicleProcessSigma == nil {
		return *defaults.VehicleProcessSigma
	}
	return *c.VehicleProcessSigma
}

func (c *TuningConfig) GetSensorSigma() float64 {
	if c.SensorSigma == nil {
		return *defaults.SensorSigma
	}
	return *c.SensorSigma
}

func (c *TuningConfig) GetVehicleX() float64 {
	if c.VehicleX == nil {
		return *defaults.VehicleX
	}
	return *c.VehicleX
}

func (c *TuningConfig) GetVehicleY() float64 {
	if c.VehicleY == nil {
		return *defaults.VehicleY
	}
	return *c.VehicleY
}

func (c *TuningConfig) GetVehicleVelocity() float64 {
	if c.VehicleVelocity == nil {
		return *defaults.VehicleVelocity
	}
	return *c.VehicleVelocity
}

// GetFixedDt returns the configured step length, or zero when the run should
// use wall-clock time between cycles.
func (c *TuningConfig) GetFixedDt() time.Duration {
	if c.FixedDt == nil || *c.FixedDt == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.FixedDt)
	if err != nil {
		return 0
	}
	return d
}

func (c *TuningConfig) GetMaxSteps() int {
	if c.MaxSteps == nil {
		return *defaults.MaxSteps
	}
	return *c.MaxSteps
}

func (c *TuningConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return *defaults.Seed
	}
	return *c.Seed
}

func (c *TuningConfig) GetMapWidth() int {
	if c.MapWidth == nil {
		return *defaults.MapWidth
	}
	return *c.MapWidth
}

func (c *TuningConfig) GetMapHeight() int {
	if c.MapHeight == nil {
		return *defaults.MapHeight
	}
	return *c.MapHeight
}

func (c *TuningConfig) GetPlotEvery() int {
	if c.PlotEvery == nil {
		return *defaults.PlotEvery
	}
	return *c.PlotEvery
}

func (c *TuningConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return *defaults.PlotDir
	}
	return *c.PlotDir
}
