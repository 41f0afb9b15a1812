package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/touch"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Policy != touch.RadialName {
		t.Errorf("expected policy radial, got %s", cfg.Policy)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.PhysicsParams().SubSteps() != 4 {
		t.Errorf("expected 4 sub-steps, got %d", cfg.PhysicsParams().SubSteps())
	}
	if cfg.Ticks() != 250 {
		t.Errorf("expected 250 ticks, got %d", cfg.Ticks())
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("classic")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Policy != touch.DragName {
		t.Errorf("expected drag policy, got %s", cfg.Policy)
	}
	if cfg.Gravity.Factor != 1.0 {
		t.Errorf("expected gravity factor 1, got %f", cfg.Gravity.Factor)
	}

	cfg.Gravity.Factor = 99
	if GetPreset("classic").Gravity.Factor != 1.0 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != 3 {
		t.Errorf("expected 3 presets, got %v", names)
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero draw rate", func(c *Config) { c.DrawRate = 0 }},
		{"zero sim rate", func(c *Config) { c.SimRate = 0 }},
		{"negative width", func(c *Config) { c.Surface.Width = -1 }},
		{"zero scale", func(c *Config) { c.Surface.Scale = 0 }},
		{"huge radius", func(c *Config) { c.Balls.RadiusRatio = 0.6 }},
		{"inverted friction", func(c *Config) { c.Balls.FrictionMin, c.Balls.FrictionMax = 0.9, 0.7 }},
		{"smoothing one", func(c *Config) { c.Gravity.Smoothing = 1 }},
		{"unknown policy", func(c *Config) { c.Policy = "pinch" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Surface.Rotation = 45
	if err := cfg.Validate(); !errors.Is(err, orient.ErrInvalidRotation) {
		t.Errorf("expected ErrInvalidRotation, got %v", err)
	}
}

func TestSlowSimRateIsOneSubStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SimRate = 10
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sim rate below draw rate should be valid: %v", err)
	}
	if n := cfg.PhysicsParams().SubSteps(); n != 1 {
		t.Errorf("expected 1 sub-step, got %d", n)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spheres.yaml")
	cfg := GetPreset("drag")
	cfg.Surface.Rotation = 270
	cfg.Seed = 17

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Policy != touch.DragName || loaded.Seed != 17 || loaded.Surface.Rotation != 270 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("policy: drag\ngravity:\n  factor: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Gravity.Factor != 2 {
		t.Errorf("expected factor 2, got %v", cfg.Gravity.Factor)
	}
	if cfg.Gravity.Max != DefaultConfig().Gravity.Max {
		t.Errorf("unset field should keep its default, got %v", cfg.Gravity.Max)
	}
	if cfg.Touch.Force != 50 {
		t.Errorf("expected default force, got %v", cfg.Touch.Force)
	}
}

func TestSceneOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Surface.Rotation = 90
	opts, err := cfg.SceneOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Rotation != orient.Rotation90 {
		t.Errorf("expected rotation 90, got %v", opts.Rotation)
	}
	if opts.Scale != DefaultScale || opts.RadiusRatio != DefaultRadiusRatio {
		t.Errorf("unexpected options %+v", opts)
	}
}
