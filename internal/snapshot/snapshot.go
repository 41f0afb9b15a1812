// Package snapshot publishes ball poses from the simulation goroutine to
// readers on other goroutines.
//
// # Thread Safety
//
// A Publisher has one writer (the goroutine that steps the world) and any
// number of readers. Publish and Reset take the write lock; Read, Poses and
// Len take the read lock and never see a half-written buffer.
package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

var ErrLengthMismatch = errors.New("snapshot: world size differs from buffer")

// Pose is one ball's published state in world units.
type Pose struct {
	Position vec.Vec2 `json:"position"`
	Angle    float64  `json:"angle"`
	Radius   float64  `json:"radius"`
}

// Sprite is a pose mapped to screen space, ready to draw.
type Sprite struct {
	Position vec.Vec2 `json:"position"`
	Angle    float64  `json:"angle"`
	Radius   float64  `json:"radius"`
}

type Publisher struct {
	mu      sync.RWMutex
	xs      []float64
	ys      []float64
	angles  []float64
	radii   []float64
	version uint64
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// Reset allocates a buffer sized to w and fills it. The new buffer replaces
// the old one in a single step under the write lock.
func (p *Publisher) Reset(w *physics.World) {
	n := w.Len()
	xs, ys, angles, radii := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i, b := range w.Bodies() {
		pos := b.Position()
		xs[i], ys[i], angles[i], radii[i] = pos.X, pos.Y, b.Angle(), b.Radius
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.xs, p.ys, p.angles, p.radii = xs, ys, angles, radii
	p.version++
}

// Publish copies the current poses of w into the existing buffer.
func (p *Publisher) Publish(w *physics.World) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w.Len() != len(p.xs) {
		return fmt.Errorf("%w: %d bodies, %d slots", ErrLengthMismatch, w.Len(), len(p.xs))
	}
	for i, b := range w.Bodies() {
		pos := b.Position()
		p.xs[i], p.ys[i], p.angles[i] = pos.X, pos.Y, b.Angle()
	}
	p.version++
	return nil
}

// Read maps every published pose to screen space with m.
func (p *Publisher) Read(m orient.Mapper) []Sprite {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Sprite, len(p.xs))
	for i := range p.xs {
		out[i] = Sprite{
			Position: m.ToScreen(vec.Vec2{X: p.xs[i], Y: p.ys[i]}),
			Angle:    m.AngleToScreen(p.angles[i]),
			Radius:   p.radii[i] * m.Scale,
		}
	}
	return out
}

// Poses returns a copy of the published poses in world units.
func (p *Publisher) Poses() []Pose {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Pose, len(p.xs))
	for i := range p.xs {
		out[i] = Pose{
			Position: vec.Vec2{X: p.xs[i], Y: p.ys[i]},
			Angle:    p.angles[i],
			Radius:   p.radii[i],
		}
	}
	return out
}

// Radius returns the world radius of ball i.
func (p *Publisher) Radius(i int) (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if i < 0 || i >= len(p.radii) {
		return 0, false
	}
	return p.radii[i], true
}

func (p *Publisher) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.xs)
}

// Version increases on every Reset and Publish.
func (p *Publisher) Version() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.version
}
