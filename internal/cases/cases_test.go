package cases

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/sphlab/internal/config"
	"github.com/san-kum/sphlab/internal/recording"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	want := []string{"dambreak3d", "diffusion2d", "floating2d"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	for _, name := range want {
		if _, err := r.Get(name); err != nil {
			t.Errorf("Get(%s): %v", name, err)
		}
	}
	if _, err := r.Get("pendulum"); err == nil {
		t.Error("Get on an unknown case succeeded")
	}
}

// A coarse diffusion run is deterministic in serial mode, so generating
// the baseline and re-running must pass its own regression test.
func TestDiffusion2DSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("smoke run")
	}
	dir := t.TempDir()
	cfg := &config.Config{
		Case:                   "diffusion2d",
		Dx:                     0.02,
		EndTime:                0.5,
		Parallel:               false,
		DataDir:                dir,
		GenerateRegressionData: true,
		Snapshots:              1,
	}
	if err := RunDiffusion2D(cfg, nil); err != nil {
		t.Fatalf("generating run: %v", err)
	}

	cfg.GenerateRegressionData = false
	reported := 0
	if err := RunDiffusion2D(cfg, func(Progress) { reported++ }); err != nil {
		t.Fatalf("testing run: %v", err)
	}
	if reported == 0 {
		t.Error("progress callback never fired")
	}
}

// A short coarse dam break stays within the energy budget: mechanical
// energy never exceeds its initial value beyond dissipation noise.
func TestDamBreak3DEnergyBound(t *testing.T) {
	if testing.Short() {
		t.Skip("smoke run")
	}
	dir := t.TempDir()
	cfg := &config.Config{
		Case:                   "dambreak3d",
		Dx:                     0.25,
		EndTime:                0.5,
		Parallel:               false,
		DataDir:                dir,
		GenerateRegressionData: true,
		Snapshots:              1,
	}
	reported := 0
	if err := RunDamBreak3D(cfg, func(Progress) { reported++ }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if reported == 0 {
		t.Error("progress callback never fired")
	}

	store := recording.NewRunStore(dir)
	runDir, err := store.LatestRun("dambreak3d")
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	_, values, err := recording.ReadSeries(filepath.Join(runDir, "mechanical_energy.csv"))
	if err != nil {
		t.Fatalf("energy series: %v", err)
	}
	if len(values) < 2 {
		t.Fatalf("energy series has %d samples", len(values))
	}
	e0 := values[0][0]
	if e0 <= 0 {
		t.Fatalf("initial mechanical energy = %v, want positive", e0)
	}
	for i, v := range values {
		if v[0] > 1.05*e0 {
			t.Fatalf("sample %d: energy %v exceeds the initial %v", i, v[0], e0)
		}
	}
}

func TestFloating2DSmoke(t *testing.T) {
	if testing.Short() {
		t.Skip("smoke run")
	}
	dir := t.TempDir()
	cfg := &config.Config{
		Case:                   "floating2d",
		Dx:                     0.2,
		EndTime:                1.2, // crosses the coupling switch-on at t=1
		Parallel:               false,
		DataDir:                dir,
		GenerateRegressionData: true,
		Snapshots:              1,
	}
	reported := 0
	if err := RunFloating2D(cfg, func(Progress) { reported++ }); err != nil {
		t.Fatalf("run: %v", err)
	}
	if reported == 0 {
		t.Error("progress callback never fired")
	}
}
