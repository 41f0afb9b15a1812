package touch

import (
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

// RadialPush adds a velocity kick directed away from the touch point to every
// ball closer than the capture radius. The kick falls off linearly from
// MaxSpeed at the touch point to zero at the capture radius. Down, Move and Up
// behave identically, so a drag compounds kicks sample after sample.
type RadialPush struct {
	MaxSpeed        float64
	CaptureFraction float64
}

func NewRadialPush(p Params) *RadialPush {
	return &RadialPush{MaxSpeed: p.MaxSpeed, CaptureFraction: p.CaptureFraction}
}

func (r *RadialPush) Name() string { return RadialName }

// CaptureRadius is the reach of a sample in w.
func (r *RadialPush) CaptureRadius(w *physics.World) float64 {
	return w.MinAxis() * r.CaptureFraction
}

func (r *RadialPush) Down(w *physics.World, p vec.Vec2) int { return r.push(w, p) }
func (r *RadialPush) Move(w *physics.World, p vec.Vec2) int { return r.push(w, p) }
func (r *RadialPush) Up(w *physics.World, p vec.Vec2) int   { return r.push(w, p) }
func (r *RadialPush) Reset()                                {}

func (r *RadialPush) push(w *physics.World, p vec.Vec2) int {
	radius := r.CaptureRadius(w)
	if radius <= 0 {
		return 0
	}
	n := 0
	for _, b := range w.Bodies() {
		dir, dist := b.Position().Sub(p).Normalize()
		if dist >= radius {
			continue
		}
		if dir.IsZero() {
			dir = awayFromPointer(b)
		}
		b.AddVelocity(dir.Scale(r.MaxSpeed * (1 - dist/radius)))
		n++
	}
	return n
}

// awayFromPointer picks a push direction for a ball sitting exactly under the
// pointer: along its current motion, or +x when it is at rest.
func awayFromPointer(b *physics.Body) vec.Vec2 {
	if dir, speed := b.Velocity().Normalize(); speed > 0 {
		return dir
	}
	return vec.Vec2{X: 1}
}
