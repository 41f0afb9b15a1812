package sim

import (
	"context"
	"sync"

	"github.com/san-kum/spheres/internal/metrics"
	"github.com/san-kum/spheres/internal/scene"
)

// SceneFactory builds a ready-to-run scene for one seed.
type SceneFactory func(seed int64) (*scene.Scene, error)

// Ensemble runs independent scenes with consecutive seeds in parallel. Solver
// steps are serialized inside the physics package, so members overlap only
// outside Box2D.
type Ensemble struct {
	build     SceneFactory
	numRuns   int
	seedStart int64
}

func NewEnsemble(build SceneFactory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	cfg.Realtime = false

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sc, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			r := New(sc, nil)
			for _, m := range metrics.Standard() {
				r.AddMetric(m)
			}
			results[idx], errs[idx] = r.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
