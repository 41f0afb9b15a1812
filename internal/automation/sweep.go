package automation

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/config"
	"github.com/san-kum/spheres/internal/metrics"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/sim"
)

var ErrUnknownParam = errors.New("automation: unknown sweep parameter")

var sweepParams = map[string]func(*config.Config, float64){
	"radius_ratio":      func(c *config.Config, v float64) { c.Balls.RadiusRatio = v },
	"gravity_factor":    func(c *config.Config, v float64) { c.Gravity.Factor = v },
	"gravity_smoothing": func(c *config.Config, v float64) { c.Gravity.Smoothing = v },
	"max_speed":         func(c *config.Config, v float64) { c.MaxSpeed = v },
	"ball_restitution":  func(c *config.Config, v float64) { c.Balls.Restitution = v },
	"wall_restitution":  func(c *config.Config, v float64) { c.Walls.Restitution = v },
}

// ParameterSweep replays one scenario across a range of values of a single
// configuration parameter.
type ParameterSweep struct {
	Base      *config.Config
	Scenario  *Scenario
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds the metrics of one sweep point
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *log.Logger) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, sweep.ParamName)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("%w: need at least 2 steps, got %d", sim.ErrInvalidRun, sweep.NumSteps)
	}

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := sweep.Base.Clone()
		set(cfg, paramVal)
		if err := cfg.Validate(); err != nil {
			return results, fmt.Errorf("%s=%v: %w", sweep.ParamName, paramVal, err)
		}

		res, err := Play(ctx, cfg, sweep.Scenario, nil)
		if err != nil {
			return results, fmt.Errorf("%s=%v: %w", sweep.ParamName, paramVal, err)
		}
		results = append(results, SweepResult{ParamValue: paramVal, Metrics: res.Metrics})

		if logger != nil {
			logger.Info("sweep point", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
		}
	}

	return results, nil
}

// Play builds a scene from cfg and replays sc against it headlessly. A nil
// scenario runs cfg.Duration seconds with no events.
func Play(ctx context.Context, cfg *config.Config, sc *Scenario, logger *log.Logger) (*sim.Result, error) {
	duration := cfg.Duration
	width, height := cfg.Surface.Width, cfg.Surface.Height
	if sc != nil {
		if sc.Duration > 0 {
			duration = sc.Duration
		}
		if sc.Width > 0 && sc.Height > 0 {
			width, height = sc.Width, sc.Height
		}
	}

	opts, err := cfg.SceneOptions()
	if err != nil {
		return nil, err
	}
	s, err := scene.New(opts, logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.Resize(width, height); err != nil {
		return nil, err
	}

	r := sim.New(s, logger)
	for _, m := range metrics.Standard() {
		r.AddMetric(m)
	}
	if sc != nil {
		r.AddDriver(sc.Player(cfg.DrawRate))
	}
	return r.Run(ctx, sim.Config{
		Ticks:    int(duration*cfg.DrawRate + 0.5),
		DrawRate: cfg.DrawRate,
		Record:   true,
	})
}
