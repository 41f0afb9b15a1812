package physics

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ByteArena/box2d"
	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/vec"
)

// solverMu serializes Box2D steps. The solver keeps TOI and GJK counters in
// package-level variables, so separate worlds still share memory.
var solverMu sync.Mutex

// World is the simulation aggregate: a static rectangular boundary, the
// dynamic balls inside it and the current gravity. It is rebuilt wholesale
// when the arena changes size, never resized in place.
type World struct {
	params  Params
	b2      *box2d.B2World
	walls   *box2d.B2Body
	width   float64
	height  float64
	gravity vec.Vec2
	bodies  []*Body
	steps   int
	resets  int
	logger  *log.Logger
}

// NewWorld builds an empty arena spanning (0,0)-(width,height) with zero
// gravity.
func NewWorld(width, height float64, p Params, logger *log.Logger) (*World, error) {
	if !positiveFinite(width) || !positiveFinite(height) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	b2 := box2d.MakeB2World(box2d.MakeB2Vec2(0, 0))
	b2.M_continuousPhysics = true
	b2.M_warmStarting = true

	w := &World{
		params: p,
		b2:     &b2,
		width:  width,
		height: height,
		logger: logger,
	}
	w.buildBoundary()
	return w, nil
}

func (w *World) buildBoundary() {
	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_staticBody
	w.walls = w.b2.CreateBody(&def)

	corners := [4]vec.Vec2{
		{X: 0, Y: 0},
		{X: w.width, Y: 0},
		{X: w.width, Y: w.height},
		{X: 0, Y: w.height},
	}
	for i := range corners {
		w.addEdge(corners[i], corners[(i+1)%len(corners)])
	}
}

func (w *World) addEdge(from, to vec.Vec2) {
	shape := box2d.MakeB2EdgeShape()
	shape.Set(toB2(from), toB2(to))

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = Density
	fd.Friction = w.params.WallFriction
	fd.Restitution = w.params.WallRestitution
	w.walls.CreateFixtureFromDef(&fd)
}

// AddBall creates a dynamic ball centred at pos.
func (w *World) AddBall(pos vec.Vec2, radius, friction float64) (*Body, error) {
	if !positiveFinite(radius) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	if !pos.IsFinite() {
		return nil, fmt.Errorf("%w: position %v", ErrNonFinite, pos)
	}

	def := box2d.MakeB2BodyDef()
	def.Type = box2d.B2BodyType.B2_dynamicBody
	def.Position.Set(pos.X, pos.Y)
	def.AllowSleep = false
	handle := w.b2.CreateBody(&def)

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = radius

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = Density
	fd.Friction = friction
	fd.Restitution = w.params.BallRestitution
	handle.CreateFixtureFromDef(&fd)
	handle.ResetMassData()

	b := &Body{
		b2:          handle,
		Radius:      radius,
		Friction:    friction,
		Restitution: w.params.BallRestitution,
	}
	w.bodies = append(w.bodies, b)
	return b, nil
}

// Step advances every body by one fixed time slice.
func (w *World) Step() {
	solverMu.Lock()
	w.b2.Step(w.params.TimeStep(), VelocityIterations, PositionIterations)
	solverMu.Unlock()
	w.steps++
	w.enforceBounds()
}

// Update runs one draw tick worth of sub-steps.
func (w *World) Update() {
	for i := 0; i < w.params.SubSteps(); i++ {
		w.Step()
	}
}

func (w *World) enforceBounds() {
	for i, b := range w.bodies {
		p, v := b.Position(), b.Velocity()
		if !p.IsFinite() || !v.IsFinite() || math.IsNaN(b.Angle()) {
			if debugAssertions {
				panic(fmt.Sprintf("%v: body %d pos=%v vel=%v", ErrNonFinite, i, p, v))
			}
			b.reset(w.Center())
			w.resets++
			w.logger.Warn("reset non-finite body", "body", i)
			continue
		}
		if w.params.MaxSpeed > 0 && v.LengthSquared() > w.params.MaxSpeed*w.params.MaxSpeed {
			b.SetVelocity(v.ClampLength(w.params.MaxSpeed))
		}
	}
}

// SetGravity replaces the gravity vector, clamping its magnitude to
// MaxGravity. It reports whether the applied value differs from g.
// Non-finite input is ignored and reports false.
func (w *World) SetGravity(g vec.Vec2) bool {
	if !g.IsFinite() {
		w.logger.Warn("ignored non-finite gravity", "x", g.X, "y", g.Y)
		return false
	}
	applied := g
	if w.params.MaxGravity > 0 {
		applied = g.ClampLength(w.params.MaxGravity)
	}
	w.gravity = applied
	w.b2.SetGravity(toB2(applied))
	return applied != g
}

func (w *World) Gravity() vec.Vec2 {
	return w.gravity
}

// Bodies returns the balls in creation order. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

func (w *World) Len() int {
	return len(w.bodies)
}

func (w *World) Size() (width, height float64) {
	return w.width, w.height
}

func (w *World) MinAxis() float64 {
	return math.Min(w.width, w.height)
}

func (w *World) Center() vec.Vec2 {
	return vec.Vec2{X: w.width / 2, Y: w.height / 2}
}

func (w *World) Params() Params {
	return w.params
}

// Steps is the number of sub-steps taken since creation.
func (w *World) Steps() int {
	return w.steps
}

// Resets counts bodies recovered from non-finite state.
func (w *World) Resets() int {
	return w.resets
}

// KineticEnergy sums the kinetic energy of every ball.
func (w *World) KineticEnergy() float64 {
	e := 0.0
	for _, b := range w.bodies {
		e += b.KineticEnergy()
	}
	return e
}

// Contains reports whether p lies inside the arena rectangle.
func (w *World) Contains(p vec.Vec2) bool {
	return p.X >= 0 && p.X <= w.width && p.Y >= 0 && p.Y <= w.height
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
