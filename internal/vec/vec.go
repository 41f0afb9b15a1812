// Package vec provides the 2D vector used for world-space and screen-space
// points throughout the simulation.
package vec

import "math"

// Vec2 is a 2D vector. The zero value is the origin.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector along v and the original length.
// A zero-length vector yields the zero vector and length 0.
func (v Vec2) Normalize() (Vec2, float64) {
	l := v.Length()
	if l < Epsilon {
		return Vec2{}, 0
	}
	return Vec2{X: v.X / l, Y: v.Y / l}, l
}

// ClampLength scales v down so that its length does not exceed max.
func (v Vec2) ClampLength(max float64) Vec2 {
	l2 := v.LengthSquared()
	if max <= 0 || l2 <= max*max {
		return v
	}
	return v.Scale(max / math.Sqrt(l2))
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// ApproxEqual compares component-wise within tol.
func (v Vec2) ApproxEqual(o Vec2, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol
}

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-12
