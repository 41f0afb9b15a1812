package physics

import (
	"fmt"
	"math"
)

// Solver iteration counts per sub-step. Fixed for stability at the default
// time delta; not configurable at runtime.
const (
	VelocityIterations = 3
	PositionIterations = 8
)

// Density is the material density of every ball.
const Density = 1.0

const (
	DefaultSimRate         = 100.0
	DefaultDrawRate        = 25.0
	DefaultWallFriction    = 0.9
	DefaultWallRestitution = 0.7
	DefaultBallRestitution = 0.7
	DefaultMaxSpeed        = 50.0
	DefaultMaxGravity      = 60.0
)

// Params configures a World. Rates are in Hz, speeds in world units per
// second, accelerations in world units per second squared. A non-positive
// MaxSpeed or MaxGravity disables that clamp.
type Params struct {
	SimRate         float64
	DrawRate        float64
	WallFriction    float64
	WallRestitution float64
	BallRestitution float64
	MaxSpeed        float64
	MaxGravity      float64
}

func DefaultParams() Params {
	return Params{
		SimRate:         DefaultSimRate,
		DrawRate:        DefaultDrawRate,
		WallFriction:    DefaultWallFriction,
		WallRestitution: DefaultWallRestitution,
		BallRestitution: DefaultBallRestitution,
		MaxSpeed:        DefaultMaxSpeed,
		MaxGravity:      DefaultMaxGravity,
	}
}

func (p Params) Validate() error {
	if !(p.SimRate > 0) || !(p.DrawRate > 0) || math.IsInf(p.SimRate, 0) || math.IsInf(p.DrawRate, 0) {
		return fmt.Errorf("%w: sim=%v draw=%v", ErrInvalidRates, p.SimRate, p.DrawRate)
	}
	return nil
}

// SubSteps is round(SimRate/DrawRate), at least 1.
func (p Params) SubSteps() int {
	n := int(math.Round(p.SimRate / p.DrawRate))
	if n < 1 {
		return 1
	}
	return n
}

// TimeStep is the constant sub-step delta, 1/SimRate seconds.
func (p Params) TimeStep() float64 {
	return 1.0 / p.SimRate
}

// MaxSafeSpeed is the fastest a body can move without the solver's per-step
// translation cap kicking in.
func (p Params) MaxSafeSpeed() float64 {
	return maxTranslation * p.SimRate
}

// maxTranslation mirrors the solver's per-step translation limit.
const maxTranslation = 2.0
