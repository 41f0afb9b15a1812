// Package orient maps between screen space (device pixels) and world space
// (simulation units) for each of the four device rotations.
//
// The world keeps a fixed orientation with its long axis on world x. Screen
// dimensions are normalized so that Long >= Short regardless of how the
// device is held; the rotation decides which screen axis the long side runs
// along and which edges are mirrored.
package orient

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/spheres/internal/vec"
)

// Rotation is the device rotation in degrees.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

var ErrInvalidRotation = errors.New("orient: rotation must be 0, 90, 180 or 270")

// Rotations lists every valid rotation in clockwise order.
var Rotations = []Rotation{Rotation0, Rotation90, Rotation180, Rotation270}

func ParseRotation(deg int) (Rotation, error) {
	r := Rotation(((deg % 360) + 360) % 360)
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return r, nil
	}
	return Rotation0, fmt.Errorf("%w: %d", ErrInvalidRotation, deg)
}

// Next returns the rotation 90 degrees further.
func (r Rotation) Next() Rotation {
	return Rotation((int(r) + 90) % 360)
}

// Portrait reports whether the long axis runs along screen y.
func (r Rotation) Portrait() bool {
	return r == Rotation0 || r == Rotation180
}

func (r Rotation) String() string {
	return fmt.Sprintf("%d°", int(r))
}

// Normalize orders a surface size so the long side comes first.
func Normalize(width, height int) (long, short int) {
	if width >= height {
		return width, height
	}
	return height, width
}

// Mapper converts between screen pixels and world units. Scale is pixels per
// world unit and applies uniformly to both axes.
type Mapper struct {
	Rotation Rotation
	Long     float64
	Short    float64
	Scale    float64
}

// NewMapper builds a mapper for a surface of the given pixel size.
func NewMapper(r Rotation, width, height int, scale float64) Mapper {
	long, short := Normalize(width, height)
	return Mapper{Rotation: r, Long: float64(long), Short: float64(short), Scale: scale}
}

// ScreenSize is the physical pixel size of the surface in the current
// rotation.
func (m Mapper) ScreenSize() (width, height float64) {
	if m.Rotation.Portrait() {
		return m.Short, m.Long
	}
	return m.Long, m.Short
}

// WorldSize is the arena size in world units.
func (m Mapper) WorldSize() (width, height float64) {
	return m.Long / m.Scale, m.Short / m.Scale
}

func (m Mapper) ToScreen(p vec.Vec2) vec.Vec2 {
	s := m.Scale
	switch m.Rotation {
	case Rotation90:
		return vec.Vec2{X: p.X * s, Y: m.Short - p.Y*s}
	case Rotation180:
		return vec.Vec2{X: m.Short - p.Y*s, Y: m.Long - p.X*s}
	case Rotation270:
		return vec.Vec2{X: m.Long - p.X*s, Y: p.Y * s}
	default:
		return vec.Vec2{X: p.Y * s, Y: p.X * s}
	}
}

func (m Mapper) ToWorld(p vec.Vec2) vec.Vec2 {
	s := m.Scale
	switch m.Rotation {
	case Rotation90:
		return vec.Vec2{X: p.X / s, Y: (m.Short - p.Y) / s}
	case Rotation180:
		return vec.Vec2{X: (m.Long - p.Y) / s, Y: (m.Short - p.X) / s}
	case Rotation270:
		return vec.Vec2{X: (m.Long - p.X) / s, Y: p.Y / s}
	default:
		return vec.Vec2{X: p.Y / s, Y: p.X / s}
	}
}

// AngleToScreen converts a world orientation (radians, counter-clockwise) to
// a screen orientation (radians) so a sprite's spin matches its translated
// position.
func (m Mapper) AngleToScreen(worldAngle float64) float64 {
	return -worldAngle + angleOffset(m.Rotation)
}

// VectorToScreen maps a world-space direction without translation.
func (m Mapper) VectorToScreen(d vec.Vec2) vec.Vec2 {
	o := m.ToScreen(vec.Vec2{})
	return m.ToScreen(d).Sub(o)
}

func angleOffset(r Rotation) float64 {
	switch r {
	case Rotation0:
		return -math.Pi / 2
	case Rotation90:
		return -math.Pi
	case Rotation180:
		return -3 * math.Pi / 2
	default:
		return 0
	}
}
