package scene

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/san-kum/spheres/internal/arena"
	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/sensor"
	"github.com/san-kum/spheres/internal/snapshot"
	"github.com/san-kum/spheres/internal/touch"
	"github.com/san-kum/spheres/internal/vec"
)

var (
	ErrNoArena      = errors.New("scene: arena not built yet")
	ErrInvalidScale = errors.New("scene: scale must be positive")
)

// Options configure a Scene. Scale is pixels per world unit.
type Options struct {
	Physics          physics.Params
	Arena            arena.Options
	Touch            touch.Params
	Policy           string
	RadiusRatio      float64
	Scale            float64
	GravityFactor    float64
	GravitySmoothing float64
	Rotation         orient.Rotation
}

func DefaultOptions() Options {
	return Options{
		Physics:       physics.DefaultParams(),
		Arena:         arena.DefaultOptions(),
		Touch:         touch.DefaultParams(),
		Policy:        touch.RadialName,
		RadiusRatio:   0.11,
		Scale:         40,
		GravityFactor: 4,
	}
}

type Scene struct {
	mu      sync.Mutex
	manager *arena.Manager
	policy  touch.Policy
	filter  *sensor.Gravity
	gravity vec.Vec2
	ratio   float64
	ticks   int

	layoutMu sync.RWMutex
	mapper   orient.Mapper

	pub    *snapshot.Publisher
	logger *log.Logger
}

func New(opts Options, logger *log.Logger) (*Scene, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := opts.Physics.Validate(); err != nil {
		return nil, err
	}
	if !(opts.Scale > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, opts.Scale)
	}
	if !(opts.RadiusRatio > 0 && opts.RadiusRatio <= arena.MaxRadiusRatio) {
		return nil, fmt.Errorf("%w: radius ratio %v", arena.ErrInvalidArena, opts.RadiusRatio)
	}
	policy, err := touch.New(opts.Policy, opts.Touch)
	if err != nil {
		return nil, err
	}
	filter, err := sensor.NewGravity(opts.GravityFactor, opts.GravitySmoothing)
	if err != nil {
		return nil, err
	}

	return &Scene{
		manager: arena.NewManager(opts.Physics, opts.Arena, logger),
		policy:  policy,
		filter:  filter,
		ratio:   opts.RadiusRatio,
		mapper:  orient.Mapper{Rotation: opts.Rotation, Scale: opts.Scale},
		pub:     snapshot.NewPublisher(),
		logger:  logger,
	}, nil
}

// Resize adopts a new surface size in pixels and rebuilds the arena when the
// normalized size changed. A rejected size leaves both the layout and the
// world untouched.
func (s *Scene) Resize(widthPx, heightPx int) (bool, error) {
	long, short := orient.Normalize(widthPx, heightPx)
	scale := s.Mapper().Scale

	s.mu.Lock()
	defer s.mu.Unlock()

	rebuilt, err := s.recreate(float64(long)/scale, float64(short)/scale, s.ratio)
	if err != nil {
		return false, err
	}

	s.layoutMu.Lock()
	s.mapper.Long, s.mapper.Short = float64(long), float64(short)
	s.layoutMu.Unlock()
	return rebuilt, nil
}

// Recreate rebuilds the arena directly in world units. The screen layout
// follows the arena at the current scale.
func (s *Scene) Recreate(width, height, ratio float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rebuilt, err := s.recreate(width, height, ratio)
	if err != nil {
		return false, err
	}
	s.ratio = ratio

	s.layoutMu.Lock()
	s.mapper.Long = math.Max(width, height) * s.mapper.Scale
	s.mapper.Short = math.Min(width, height) * s.mapper.Scale
	s.layoutMu.Unlock()
	return rebuilt, nil
}

func (s *Scene) recreate(width, height, ratio float64) (bool, error) {
	rebuilt, err := s.manager.Recreate(width, height, ratio)
	if err != nil || !rebuilt {
		return rebuilt, err
	}
	w := s.manager.World()
	w.SetGravity(s.gravity)
	s.policy.Reset()
	s.pub.Reset(w)
	return true, nil
}

func (s *Scene) SetRotation(r orient.Rotation) {
	s.layoutMu.Lock()
	defer s.layoutMu.Unlock()
	if s.mapper.Rotation != r {
		s.logger.Debug("rotation changed", "from", s.mapper.Rotation, "to", r)
	}
	s.mapper.Rotation = r
}

// Mapper returns a copy of the current layout.
func (s *Scene) Mapper() orient.Mapper {
	s.layoutMu.RLock()
	defer s.layoutMu.RUnlock()
	return s.mapper
}

// Update advances one draw tick and publishes the result.
func (s *Scene) Update() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.manager.World()
	if w == nil {
		return ErrNoArena
	}
	w.Update()
	s.ticks++
	return s.pub.Publish(w)
}

// Touch applies a single pointer sample at a screen position. With the drag
// policy it behaves like a move.
func (s *Scene) Touch(screen vec.Vec2) int {
	return s.pointer(screen, s.policy.Move)
}

func (s *Scene) TouchDown(screen vec.Vec2) int {
	return s.pointer(screen, s.policy.Down)
}

func (s *Scene) TouchMove(screen vec.Vec2) int {
	return s.pointer(screen, s.policy.Move)
}

func (s *Scene) TouchUp(screen vec.Vec2) int {
	return s.pointer(screen, s.policy.Up)
}

func (s *Scene) pointer(screen vec.Vec2, fn func(*physics.World, vec.Vec2) int) int {
	p := s.Mapper().ToWorld(screen)

	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.manager.World()
	if w == nil || !p.IsFinite() {
		return 0
	}
	return fn(w, p)
}

// SetGravity sets gravity to direction scaled by scale, in world axes.
func (s *Scene) SetGravity(direction vec.Vec2, scale float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyGravity(direction.Scale(scale))
}

// Tilt feeds a raw accelerometer sample through the gravity filter.
func (s *Scene) Tilt(sx, sy float64) vec.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyGravity(s.filter.Sample(sx, sy))
	return s.gravity
}

func (s *Scene) applyGravity(g vec.Vec2) {
	if !g.IsFinite() {
		s.logger.Warn("ignored non-finite gravity", "x", g.X, "y", g.Y)
		return
	}
	w := s.manager.World()
	if w == nil {
		s.gravity = g
		return
	}
	if w.SetGravity(g) {
		s.logger.Warn("clamped gravity", "x", g.X, "y", g.Y)
	}
	s.gravity = w.Gravity()
}

func (s *Scene) Gravity() vec.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gravity
}

// PolicyName is the active touch policy.
func (s *Scene) PolicyName() string {
	return s.policy.Name()
}

func (s *Scene) BallCount() int {
	return s.pub.Len()
}

// BallRadius returns the radius of ball i in world units.
func (s *Scene) BallRadius(i int) (float64, bool) {
	return s.pub.Radius(i)
}

// Sprites maps the latest published poses to screen space.
func (s *Scene) Sprites() []snapshot.Sprite {
	return s.pub.Read(s.Mapper())
}

// Poses returns the latest published poses in world units.
func (s *Scene) Poses() []snapshot.Pose {
	return s.pub.Poses()
}

// Stats is a consistent view of live world state.
type Stats struct {
	Tick          int
	Width         float64
	Height        float64
	Balls         int
	KineticEnergy float64
	PeakSpeed     float64
	Contained     bool
	Resets        int
}

// Stats reads live world state under the simulation lock.
func (s *Scene) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.manager.World()
	if w == nil {
		return Stats{}, ErrNoArena
	}
	width, height := w.Size()
	st := Stats{
		Tick:          s.ticks,
		Width:         width,
		Height:        height,
		Balls:         w.Len(),
		KineticEnergy: w.KineticEnergy(),
		Contained:     true,
		Resets:        w.Resets(),
	}
	for _, b := range w.Bodies() {
		if v := b.Velocity().Length(); v > st.PeakSpeed {
			st.PeakSpeed = v
		}
		if !w.Contains(b.Position()) {
			st.Contained = false
		}
	}
	return st, nil
}
