package sim

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/metrics"
	"github.com/san-kum/spheres/internal/scene"
)

// Runner plays the host loop headlessly: it calls Update once per tick and
// collects metrics and traces.
type Runner struct {
	scene     *scene.Scene
	metrics   []metrics.Metric
	observers []Observer
	drivers   []Driver
	logger    *log.Logger
}

func New(sc *scene.Scene, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{scene: sc, logger: logger}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }
func (r *Runner) AddDriver(d Driver)         { r.drivers = append(r.drivers, d) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Times:   make([]float64, 0, cfg.Ticks),
		Energy:  make([]float64, 0, cfg.Ticks),
		Metrics: make(map[string]float64),
	}
	for _, m := range r.metrics {
		m.Reset()
	}

	var tick <-chan time.Time
	if cfg.Realtime {
		ticker := time.NewTicker(cfg.Period())
		defer ticker.Stop()
		tick = ticker.C
	}

	for i := 0; i < cfg.Ticks; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			default:
			}
		}

		for _, d := range r.drivers {
			if err := d.BeforeTick(i, r.scene); err != nil {
				return result, fmt.Errorf("tick %d: %w", i, err)
			}
		}
		if err := r.scene.Update(); err != nil {
			return result, fmt.Errorf("tick %d: %w", i, err)
		}
		st, err := r.scene.Stats()
		if err != nil {
			return result, err
		}

		for _, m := range r.metrics {
			m.Observe(st)
		}
		poses := r.scene.Poses()
		for _, o := range r.observers {
			o.OnTick(i, st, poses)
		}

		result.Ticks++
		result.Times = append(result.Times, float64(i+1)/cfg.DrawRate)
		result.Energy = append(result.Energy, st.KineticEnergy)
		if cfg.Record {
			result.Poses = append(result.Poses, poses)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	r.logger.Debug("run finished", "ticks", result.Ticks, "metrics", result.Metrics)
	return result, nil
}

func validate(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalidRun, cfg.Ticks)
	}
	if cfg.DrawRate <= 0 {
		return fmt.Errorf("%w: draw rate must be positive, got %f", ErrInvalidRun, cfg.DrawRate)
	}
	return nil
}
