package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/san-kum/spheres/internal/vec"
)

// Body is one sphere. Its identity is stable for the lifetime of the World
// that created it.
type Body struct {
	b2          *box2d.B2Body
	Radius      float64
	Friction    float64
	Restitution float64
}

func (b *Body) Position() vec.Vec2 {
	return fromB2(b.b2.GetPosition())
}

func (b *Body) Velocity() vec.Vec2 {
	return fromB2(b.b2.GetLinearVelocity())
}

// Angle is the body orientation in radians.
func (b *Body) Angle() float64 {
	return b.b2.GetAngle()
}

func (b *Body) AngularVelocity() float64 {
	return b.b2.GetAngularVelocity()
}

func (b *Body) Mass() float64 {
	return b.b2.GetMass()
}

func (b *Body) SetVelocity(v vec.Vec2) {
	b.b2.SetLinearVelocity(toB2(v))
}

// AddVelocity applies an instantaneous velocity delta regardless of mass.
func (b *Body) AddVelocity(dv vec.Vec2) {
	b.SetVelocity(b.Velocity().Add(dv))
}

// ApplyImpulse applies a linear impulse at the centre of mass, changing the
// velocity by impulse/mass.
func (b *Body) ApplyImpulse(impulse vec.Vec2) {
	b.b2.ApplyLinearImpulse(toB2(impulse), b.b2.GetWorldCenter(), true)
}

// KineticEnergy is the translational plus rotational kinetic energy.
func (b *Body) KineticEnergy() float64 {
	v := b.Velocity()
	w := b.AngularVelocity()
	return 0.5*b.Mass()*v.LengthSquared() + 0.5*b.b2.GetInertia()*w*w
}

func (b *Body) reset(p vec.Vec2) {
	b.b2.SetTransform(toB2(p), 0)
	b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.b2.SetAngularVelocity(0)
}

func toB2(v vec.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X, v.Y)
}

func fromB2(v box2d.B2Vec2) vec.Vec2 {
	return vec.Vec2{X: v.X, Y: v.Y}
}
