package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spheres/internal/arena"
	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/touch"
)

const (
	DefaultWidth       = 640
	DefaultHeight      = 480
	DefaultScale       = 40.0
	DefaultRadiusRatio = 0.11
	DefaultDuration    = 10.0
	DefaultFactor      = 4.0
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Policy     string        `yaml:"policy"`
	DrawRate   float64       `yaml:"draw_rate"`
	SimRate    float64       `yaml:"sim_rate"`
	Duration   float64       `yaml:"duration"`
	Seed       int64         `yaml:"seed"`
	MaxSpeed   float64       `yaml:"max_speed"`
	Background string        `yaml:"background,omitempty"`
	Surface    SurfaceConfig `yaml:"surface"`
	Balls      BallConfig    `yaml:"balls"`
	Walls      WallConfig    `yaml:"walls"`
	Gravity    GravityConfig `yaml:"gravity"`
	Touch      touch.Params  `yaml:"touch"`
}

type SurfaceConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Rotation int     `yaml:"rotation"`
	Scale    float64 `yaml:"scale"`
}

type BallConfig struct {
	RadiusRatio float64 `yaml:"radius_ratio"`
	FrictionMin float64 `yaml:"friction_min"`
	FrictionMax float64 `yaml:"friction_max"`
	Restitution float64 `yaml:"restitution"`
}

type WallConfig struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

type GravityConfig struct {
	Factor    float64 `yaml:"factor"`
	Smoothing float64 `yaml:"smoothing"`
	Max       float64 `yaml:"max"`
}

func DefaultConfig() *Config {
	return &Config{
		Policy:   touch.RadialName,
		DrawRate: physics.DefaultDrawRate,
		SimRate:  physics.DefaultSimRate,
		Duration: DefaultDuration,
		MaxSpeed: physics.DefaultMaxSpeed,
		Surface: SurfaceConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Scale:  DefaultScale,
		},
		Balls: BallConfig{
			RadiusRatio: DefaultRadiusRatio,
			FrictionMin: 0.9,
			FrictionMax: 0.9,
			Restitution: physics.DefaultBallRestitution,
		},
		Walls: WallConfig{
			Friction:    physics.DefaultWallFriction,
			Restitution: physics.DefaultWallRestitution,
		},
		Gravity: GravityConfig{
			Factor: DefaultFactor,
			Max:    physics.DefaultMaxGravity,
		},
		Touch: touch.DefaultParams(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	check := []struct {
		ok   bool
		name string
		val  any
	}{
		{c.DrawRate > 0, "draw_rate", c.DrawRate},
		{c.SimRate > 0, "sim_rate", c.SimRate},
		{c.Duration >= 0, "duration", c.Duration},
		{c.Surface.Width > 0, "surface.width", c.Surface.Width},
		{c.Surface.Height > 0, "surface.height", c.Surface.Height},
		{c.Surface.Scale > 0, "surface.scale", c.Surface.Scale},
		{c.Balls.RadiusRatio > 0 && c.Balls.RadiusRatio <= arena.MaxRadiusRatio, "balls.radius_ratio", c.Balls.RadiusRatio},
		{c.Balls.FrictionMin >= 0 && c.Balls.FrictionMax >= c.Balls.FrictionMin, "balls.friction_max", c.Balls.FrictionMax},
		{c.Gravity.Smoothing >= 0 && c.Gravity.Smoothing < 1, "gravity.smoothing", c.Gravity.Smoothing},
		{c.Policy == touch.RadialName || c.Policy == touch.DragName, "policy", c.Policy},
	}
	for _, ch := range check {
		if !ch.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, ch.name, ch.val)
		}
	}
	if _, err := orient.ParseRotation(c.Surface.Rotation); err != nil {
		return err
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		SimRate:         c.SimRate,
		DrawRate:        c.DrawRate,
		WallFriction:    c.Walls.Friction,
		WallRestitution: c.Walls.Restitution,
		BallRestitution: c.Balls.Restitution,
		MaxSpeed:        c.MaxSpeed,
		MaxGravity:      c.Gravity.Max,
	}
}

func (c *Config) SceneOptions() (scene.Options, error) {
	rot, err := orient.ParseRotation(c.Surface.Rotation)
	if err != nil {
		return scene.Options{}, err
	}
	return scene.Options{
		Physics: c.PhysicsParams(),
		Arena: arena.Options{
			FrictionMin: c.Balls.FrictionMin,
			FrictionMax: c.Balls.FrictionMax,
			Seed:        c.Seed,
		},
		Touch:            c.Touch,
		Policy:           c.Policy,
		RadiusRatio:      c.Balls.RadiusRatio,
		Scale:            c.Surface.Scale,
		GravityFactor:    c.Gravity.Factor,
		GravitySmoothing: c.Gravity.Smoothing,
		Rotation:         rot,
	}, nil
}

// Ticks is the number of draw ticks covering Duration.
func (c *Config) Ticks() int {
	return int(c.Duration*c.DrawRate + 0.5)
}
