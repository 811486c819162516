package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != "riccati" {
		t.Errorf("expected model riccati, got %s", cfg.Model)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "gpe"
	cfg.Evolver = "split"
	cfg.ImaginaryTime = true
	cfg.Normalize = true
	cfg.Interaction = 10
	cfg.Grid = GridConfig{N: 128, Length: 20}
	cfg.InitState = InitStateConfig{X0: 1.5, Sigma: 0.5, K0: 2}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Model != "gpe" || loaded.Evolver != "split" {
		t.Errorf("model/evolver lost: %s/%s", loaded.Model, loaded.Evolver)
	}
	if !loaded.ImaginaryTime || !loaded.Normalize {
		t.Error("boolean flags lost in round trip")
	}
	if loaded.Interaction != 10 {
		t.Errorf("interaction lost: %v", loaded.Interaction)
	}
	if loaded.Grid.N != 128 || loaded.Grid.Length != 20 {
		t.Errorf("grid lost: %+v", loaded.Grid)
	}
	if loaded.InitState.X0 != 1.5 || loaded.InitState.Sigma != 0.5 || loaded.InitState.K0 != 2 {
		t.Errorf("init state lost: %+v", loaded.InitState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, false},
		{"negative steps", func(c *Config) { c.Steps = -1 }, false},
		{"unknown evolver", func(c *Config) { c.Evolver = "euler" }, false},
		{"split evolver", func(c *Config) { c.Evolver = "split" }, true},
		{"non-power-of-two grid", func(c *Config) { c.Grid.N = 100 }, false},
		{"power-of-two grid", func(c *Config) { c.Grid.N = 512 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("trap", "sloshing")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.InitState.X0 != 2 {
		t.Errorf("expected x0 2, got %f", cfg.InitState.X0)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	cfg := GetPreset("trap", "nonexistent")
	if cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}

	cfg = GetPreset("nonexistent", "default")
	if cfg != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("gpe")
	if len(presets) == 0 {
		t.Error("expected presets for gpe")
	}

	presets = ListPresets("nonexistent")
	if presets != nil {
		t.Error("expected nil for nonexistent model")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for model, group := range Presets {
		for name, cfg := range group {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s invalid: %v", model, name, err)
			}
		}
	}
}
