// Package arena builds the rectangular play area and seeds it with balls.
package arena

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

// BallCount is the number of balls seeded into every new world.
const BallCount = 10

const (
	jitterMin = 0.9
	jitterMax = 1.1

	// MaxRadiusRatio keeps the largest jittered ball narrower than the short
	// axis so every seed range is non-empty.
	MaxRadiusRatio = 0.45
)

var ErrInvalidArena = errors.New("arena: invalid dimensions or radius ratio")

// Options control how balls are seeded.
type Options struct {
	FrictionMin float64
	FrictionMax float64
	Seed        int64
}

func DefaultOptions() Options {
	return Options{FrictionMin: 0.9, FrictionMax: 0.9}
}

// Manager owns the current world and rebuilds it when the play area changes.
type Manager struct {
	params   physics.Params
	opts     Options
	rng      *rand.Rand
	logger   *log.Logger
	world    *physics.World
	width    float64
	height   float64
	ratio    float64
	rebuilds int
}

func NewManager(p physics.Params, opts Options, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		params: p,
		opts:   opts,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

// Recreate discards the current world and builds a new one spanning
// (0,0)-(width,height) with BallCount balls of nominal radius
// ratio*min(width,height). Dimensions are normalized so world x is the long
// axis. It reports false without touching the world when the normalized
// dimensions match the current ones. Invalid arguments leave the prior world
// in place and return ErrInvalidArena.
func (m *Manager) Recreate(width, height, ratio float64) (bool, error) {
	if !positiveFinite(width) || !positiveFinite(height) || !positiveFinite(ratio) || ratio > MaxRadiusRatio {
		m.logger.Warn("rejected arena", "width", width, "height", height, "ratio", ratio)
		return false, fmt.Errorf("%w: %vx%v ratio %v", ErrInvalidArena, width, height, ratio)
	}

	long, short := math.Max(width, height), math.Min(width, height)
	if m.world != nil && long == m.width && short == m.height {
		m.logger.Debug("skipped arena rebuild", "width", long, "height", short)
		return false, nil
	}

	w, err := physics.NewWorld(long, short, m.params, m.logger)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArena, err)
	}
	if m.world != nil {
		w.SetGravity(m.world.Gravity())
	}

	nominal := ratio * short
	for i := 0; i < BallCount; i++ {
		r := nominal * (jitterMin + m.rng.Float64()*(jitterMax-jitterMin))
		pos := vec.Vec2{
			X: r + m.rng.Float64()*(long-2*r),
			Y: r + m.rng.Float64()*(short-2*r),
		}
		if _, err := w.AddBall(pos, r, m.friction()); err != nil {
			return false, fmt.Errorf("seed ball %d: %w", i, err)
		}
	}

	m.world = w
	m.width, m.height, m.ratio = long, short, ratio
	m.rebuilds++
	m.logger.Info("rebuilt arena", "width", long, "height", short, "balls", BallCount, "radius", nominal)
	return true, nil
}

func (m *Manager) friction() float64 {
	lo, hi := m.opts.FrictionMin, m.opts.FrictionMax
	if hi <= lo {
		return lo
	}
	return lo + m.rng.Float64()*(hi-lo)
}

// World returns the current world, or nil before the first successful
// Recreate.
func (m *Manager) World() *physics.World {
	return m.world
}

func (m *Manager) Size() (width, height float64) {
	return m.width, m.height
}

// NominalRadius is the unjittered ball radius of the current world.
func (m *Manager) NominalRadius() float64 {
	return m.ratio * math.Min(m.width, m.height)
}

// Rebuilds counts successful rebuilds.
func (m *Manager) Rebuilds() int {
	return m.rebuilds
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
