// Package touch turns pointer samples into forces on the balls of a world.
//
// Two policies exist. RadialPush kicks every ball near the pointer away from
// it on every sample. GrabDrag picks up the ball under the pointer and pulls
// it toward the pointer with impulses while the pointer moves.
//
// Positions passed to a Policy are in world units. Policies are not safe for
// concurrent use; callers serialize them with the world they act on.
package touch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

var ErrUnknownPolicy = errors.New("touch: unknown policy")

const (
	RadialName = "radial"
	DragName   = "drag"
)

// Policy reacts to the three phases of a pointer gesture. Each method returns
// the number of balls it acted on.
type Policy interface {
	Name() string
	Down(w *physics.World, p vec.Vec2) int
	Move(w *physics.World, p vec.Vec2) int
	Up(w *physics.World, p vec.Vec2) int
	// Reset forgets any gesture state. It is called whenever the world is
	// replaced.
	Reset()
}

// Params holds the constants of both policies.
type Params struct {
	MaxSpeed        float64 `yaml:"max_speed"`
	CaptureFraction float64 `yaml:"capture_fraction"`
	Force           float64 `yaml:"force"`
	GrabFactor      float64 `yaml:"grab_factor"`
}

func DefaultParams() Params {
	return Params{
		MaxSpeed:        2.0,
		CaptureFraction: 0.5,
		Force:           50.0,
		GrabFactor:      4.0,
	}
}

var registry = map[string]func(Params) Policy{
	RadialName: func(p Params) Policy { return NewRadialPush(p) },
	DragName:   func(p Params) Policy { return NewGrabDrag(p) },
}

// New returns the policy registered under name.
func New(name string, p Params) (Policy, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return ctor(p), nil
}

// Names lists the registered policies.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
