package config

import (
	"sort"

	"github.com/san-kum/spheres/internal/touch"
)

// Presets mirror the configurations the arena has shipped with.
var Presets = map[string]*Config{
	"wallpaper": preset(func(c *Config) {}),
	"drag": preset(func(c *Config) {
		c.Policy = touch.DragName
		c.Balls.RadiusRatio = 0.1
		c.Balls.FrictionMin = 0.7
		c.Balls.FrictionMax = 0.9
	}),
	"classic": preset(func(c *Config) {
		c.Policy = touch.DragName
		c.Balls.RadiusRatio = 0.1
		c.Balls.FrictionMin = 0.7
		c.Balls.FrictionMax = 0.9
		c.Gravity.Factor = 1.0
	}),
}

func preset(mutate func(*Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
