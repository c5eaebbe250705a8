package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	pf "github.com/jhoydich/terrain-particle-filter"
	"github.com/jhoydich/terrain-particle-filter/internal/config"
	"github.com/jhoydich/terrain-particle-filter/internal/monitoring"
	"github.com/jhoydich/terrain-particle-filter/internal/render"
	"github.com/jhoydich/terrain-particle-filter/internal/terrainmap"
)

func main() {
	configPath := flag.String("config", "", "Tuning config file (.json); defaults are used when empty")
	mapPath := flag.String("map", "", "Terrain map image (PNG); a synthetic mountain range is used when empty")
	quiet := flag.Bool("quiet", false, "Suppress per-frame progress logs")
	flag.Parse()

	cfg := config.DefaultTuningConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadTuningConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	runID := uuid.NewString()
	seed := cfg.GetSeed()
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	noise := pf.NewNoise(seed)

	terrain, err := loadTerrain(*mapPath, cfg, seed, noise)
	if err != nil {
		log.Fatalf("Failed to build terrain: %v", err)
	}

	vehicle := pf.NewVehicle(cfg.GetVehicleX(), cfg.GetVehicleY(), cfg.GetVehicleVelocity(),
		cfg.GetVehicleProcessSigma(), noise)
	filter, err := pf.CreatePF(cfg.GetNumParticles(), cfg.GetLikelihoodSigma(),
		cfg.GetParticleMotionSigma(), terrain, vehicle, noise)
	if err != nil {
		log.Fatalf("Failed to create particle filter: %v", err)
	}

	plotter, err := render.NewFramePlotter(terrain, filepath.Join(cfg.GetPlotDir(), runID), cfg.GetPlotEvery())
	if err != nil {
		log.Fatalf("Failed to create plotter: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitoring.Logf("run %s: %d particles over %dx%d terrain, seed %d",
		runID, cfg.GetNumParticles(), terrain.Width(), terrain.Height(), seed)
	if err := run(ctx, filter, plotter, cfg, *quiet); err != nil {
		log.Fatalf("run %s: %v", runID, err)
	}
	monitoring.Logf("run %s: finished after %d cycles, %d frames plotted", runID, filter.Iteration(), plotter.Written())
}

func loadTerrain(mapPath string, cfg *config.TuningConfig, seed uint64, noise pf.Noise) (*pf.Terrain, error) {
	if mapPath == "" {
		img := terrainmap.Generate(cfg.GetMapWidth(), cfg.GetMapHeight(), seed)
		return pf.NewTerrain(img, pf.BlueChannelZero, cfg.GetSensorSigma(), noise)
	}
	img, err := terrainmap.LoadImage(mapPath)
	if err != nil {
		return nil, err
	}
	return pf.NewTerrain(img, pf.BlueChannelZero, cfg.GetSensorSigma(), noise)
}

// run cycles the filter until the context is cancelled, max_steps is reached
// or the vehicle flies off the map. With no fixed_dt, dt is the wall-clock
// time spent on the previous cycle.
func run(ctx context.Context, filter *pf.ParticleFilter, plotter *render.FramePlotter, cfg *config.TuningConfig, quiet bool) error {
	fixed := cfg.GetFixedDt()
	maxSteps := cfg.GetMaxSteps()
	last := time.Now()

	// wall-clock runs are paced like a 100Hz display loop
	var pace <-chan time.Time
	if fixed == 0 {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		pace = ticker.C
	}

	for step := 0; maxSteps == 0 || step < maxSteps; step++ {
		if pace != nil {
			select {
			case <-ctx.Done():
			case <-pace:
			}
		}
		if ctx.Err() != nil {
			monitoring.Logf("interrupted after %d cycles", filter.Iteration())
			return nil
		}

		dt := fixed.Seconds()
		if fixed == 0 {
			now := time.Now()
			dt = now.Sub(last).Seconds()
			last = now
		}

		frame, err := filter.Step(dt)
		if errors.Is(err, pf.ErrVehicleOutOfBounds) {
			monitoring.Logf("vehicle left the map: %v", err)
			return nil
		}
		if err != nil {
			return err
		}

		if !quiet && frame.Iteration%10 == 0 {
			monitoring.Logf("cycle %d: truth %.2f estimate %.2f (±%.2f) measurement %.2f",
				frame.Iteration, frame.VehicleX, frame.EstimatedX, frame.EstimatedSpread, frame.Measurement)
		}
		if err := plotter.Observe(frame); err != nil {
			return err
		}
	}
	return nil
}
