package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Case == "" {
		t.Error("default case should be set")
	}
	if cfg.DataDir == "" {
		t.Error("data dir should be set")
	}
	if cfg.Snapshots <= 0 {
		t.Error("snapshot count should be positive")
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Case = "floating2d"
	cfg.Dx = 0.025
	cfg.EndTime = 3.5
	cfg.GenerateRegressionData = true
	cfg.RestartStep = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch: got %+v want %+v", got, cfg)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, &Config{Case: "diffusion2d"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Case != "diffusion2d" {
		t.Errorf("case = %q", got.Case)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("dambreak3d", "smoke")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.EndTime >= GetPreset("dambreak3d", "full").EndTime {
		t.Error("smoke preset should be shorter than full")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("dambreak3d", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "smoke"); cfg != nil {
		t.Error("expected nil for nonexistent case")
	}
}

func TestListPresets(t *testing.T) {
	for _, name := range []string{"diffusion2d", "floating2d", "dambreak3d"} {
		if len(ListPresets(name)) == 0 {
			t.Errorf("expected presets for %s", name)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent case")
	}
}
