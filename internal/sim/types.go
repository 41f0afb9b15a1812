package sim

import (
	"errors"
	"time"

	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/snapshot"
)

var ErrInvalidRun = errors.New("sim: invalid run config")

// Driver injects host events before a tick is simulated.
type Driver interface {
	BeforeTick(tick int, sc *scene.Scene) error
}

// Observer sees every tick after it has been published.
type Observer interface {
	OnTick(tick int, st scene.Stats, poses []snapshot.Pose)
}

type Config struct {
	Ticks    int
	DrawRate float64
	// Realtime paces ticks at DrawRate instead of running flat out.
	Realtime bool
	// Record keeps every published pose in the result.
	Record bool
}

// Period is the wall-clock duration of one tick.
func (c Config) Period() time.Duration {
	return time.Duration(float64(time.Second) / c.DrawRate)
}

type Result struct {
	Ticks   int
	Times   []float64
	Energy  []float64
	Poses   [][]snapshot.Pose
	Metrics map[string]float64
}
