package touch

import (
	"math"

	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

// State is the gesture in progress. The held ball is an index into the
// world's body list rather than a pointer, so a replaced world never leaves a
// dangling reference.
type State struct {
	Held   bool
	Index  int
	Offset vec.Vec2
}

// GrabDrag picks up the nearest ball under the pointer on Down and pulls it
// toward the pointer on every Move with an impulse of constant magnitude.
type GrabDrag struct {
	Force      float64
	GrabFactor float64
	state      State
}

func NewGrabDrag(p Params) *GrabDrag {
	return &GrabDrag{Force: p.Force, GrabFactor: p.GrabFactor}
}

func (g *GrabDrag) Name() string { return DragName }

// State returns the current gesture.
func (g *GrabDrag) State() State { return g.state }

func (g *GrabDrag) Reset() { g.state = State{} }

func (g *GrabDrag) Down(w *physics.World, p vec.Vec2) int {
	g.state = State{}
	limit := g.GrabFactor * w.MinAxis()
	best, bestDist := -1, math.Inf(1)
	for i, b := range w.Bodies() {
		d := b.Position().Sub(p).Length()
		if d < b.Radius && d < limit && d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0
	}
	g.state = State{
		Held:   true,
		Index:  best,
		Offset: w.Bodies()[best].Position().Sub(p),
	}
	return 1
}

func (g *GrabDrag) Move(w *physics.World, p vec.Vec2) int {
	b := g.held(w)
	if b == nil {
		return 0
	}
	dir, _ := p.Add(g.state.Offset).Sub(b.Position()).Normalize()
	b.ApplyImpulse(dir.Scale(g.Force))
	return 1
}

func (g *GrabDrag) Up(w *physics.World, p vec.Vec2) int {
	held := g.state.Held
	g.state = State{}
	if held {
		return 1
	}
	return 0
}

func (g *GrabDrag) held(w *physics.World) *physics.Body {
	if !g.state.Held || g.state.Index >= w.Len() {
		return nil
	}
	return w.Bodies()[g.state.Index]
}
