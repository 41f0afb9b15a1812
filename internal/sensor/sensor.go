// Package sensor converts raw accelerometer samples into world gravity.
package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/spheres/internal/vec"
)

var (
	ErrInvalidFactor    = errors.New("sensor: gravity factor must be finite")
	ErrInvalidSmoothing = errors.New("sensor: smoothing must be in [0, 1)")
)

// ToWorld maps device accelerometer axes onto world axes. World x runs along
// the device's long axis, so the sensor's y becomes world x and the sensor's
// x, negated, becomes world y.
func ToWorld(sx, sy float64) vec.Vec2 {
	return vec.Vec2{X: sy, Y: -sx}
}

// Gravity turns a stream of accelerometer samples into a gravity vector.
// With Smoothing 0 every sample replaces the previous one outright; values
// closer to 1 blend each sample into a running average.
type Gravity struct {
	Factor    float64
	Smoothing float64

	current vec.Vec2
	primed  bool
}

func NewGravity(factor, smoothing float64) (*Gravity, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	if !(smoothing >= 0 && smoothing < 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSmoothing, smoothing)
	}
	return &Gravity{Factor: factor, Smoothing: smoothing}, nil
}

// Sample feeds one raw reading and returns the gravity to apply.
func (g *Gravity) Sample(sx, sy float64) vec.Vec2 {
	raw := ToWorld(sx, sy)
	if !raw.IsFinite() {
		return g.Current()
	}
	if !g.primed || g.Smoothing == 0 {
		g.current = raw
		g.primed = true
	} else {
		g.current = g.current.Scale(g.Smoothing).Add(raw.Scale(1 - g.Smoothing))
	}
	return g.Current()
}

// Current is the most recent filtered gravity, already scaled by Factor.
func (g *Gravity) Current() vec.Vec2 {
	return g.current.Scale(g.Factor)
}

func (g *Gravity) Reset() {
	g.current = vec.Vec2{}
	g.primed = false
}
