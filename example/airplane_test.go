package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pf "github.com/jhoydich/terrain-particle-filter"
	"github.com/jhoydich/terrain-particle-filter/internal/config"
	"github.com/jhoydich/terrain-particle-filter/internal/monitoring"
	"github.com/jhoydich/terrain-particle-filter/internal/render"
)

func testSetup(t *testing.T, body string) (*pf.ParticleFilter, *render.FramePlotter, *config.TuningConfig, string) {
	t.Helper()
	original := monitoring.Logf
	monitoring.SetLogger(t.Logf)
	t.Cleanup(func() { monitoring.Logf = original })

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	cfg, err := config.LoadTuningConfig(path)
	require.NoError(t, err)

	noise := pf.NewNoise(cfg.GetSeed())
	terrain, err := loadTerrain("", cfg, cfg.GetSeed(), noise)
	require.NoError(t, err)
	vehicle := pf.NewVehicle(cfg.GetVehicleX(), cfg.GetVehicleY(), cfg.GetVehicleVelocity(),
		cfg.GetVehicleProcessSigma(), noise)
	filter, err := pf.CreatePF(cfg.GetNumParticles(), cfg.GetLikelihoodSigma(),
		cfg.GetParticleMotionSigma(), terrain, vehicle, noise)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "plots")
	plotter, err := render.NewFramePlotter(terrain, dir, cfg.GetPlotEvery())
	require.NoError(t, err)
	return filter, plotter, cfg, dir
}

func TestRun_MaxSteps(t *testing.T) {
	filter, plotter, cfg, dir := testSetup(t, `{
  "num_particles": 200,
  "fixed_dt": "100ms",
  "max_steps": 20,
  "seed": 5,
  "map_width": 300,
  "map_height": 200,
  "vehicle_y": 20,
  "plot_every": 10
}`)

	require.NoError(t, run(context.Background(), filter, plotter, cfg, true))
	assert.Equal(t, 20, filter.Iteration())
	assert.Len(t, filter.Particles(), 200)
	assert.Equal(t, 2, plotter.Written())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRun_StopsWhenVehicleLeavesMap(t *testing.T) {
	filter, plotter, cfg, _ := testSetup(t, `{
  "num_particles": 50,
  "fixed_dt": "1s",
  "seed": 6,
  "map_width": 150,
  "map_height": 100,
  "vehicle_x": 10,
  "vehicle_y": 10,
  "vehicle_velocity": 20
}`)

	// max_steps 0 runs until the vehicle passes the right edge
	require.NoError(t, run(context.Background(), filter, plotter, cfg, false))
	assert.Equal(t, 6, filter.Iteration())
	assert.Greater(t, filter.Vehicle().X, 149.5)
}

func TestRun_Cancelled(t *testing.T) {
	filter, plotter, cfg, _ := testSetup(t, `{"num_particles": 10, "seed": 7, "map_width": 100, "map_height": 80, "vehicle_y": 5}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, run(ctx, filter, plotter, cfg, true))
	assert.Equal(t, 0, filter.Iteration())
	assert.Equal(t, pf.Uninitialized, filter.State())
}
