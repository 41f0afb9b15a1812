package automation

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/vec"
)

var (
	ErrUnknownEvent = errors.New("automation: unknown event type")
	ErrBadEvent     = errors.New("automation: malformed event")
)

// Event types understood by a Scenario.
const (
	EventTouch     = "touch"
	EventTouchDown = "touch_down"
	EventTouchMove = "touch_move"
	EventTouchUp   = "touch_up"
	EventTilt      = "tilt"
	EventGravity   = "gravity"
	EventRotate    = "rotate"
	EventResize    = "resize"
)

// Scenario is a scripted sequence of host events
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Duration    float64 `yaml:"duration"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Events      []Event `yaml:"events"`
}

// Event is one host callback at a point in time. X and Y are screen pixels
// for touches, raw accelerometer axes for tilt and the direction for gravity.
type Event struct {
	At       float64 `yaml:"at"`
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Scale    float64 `yaml:"scale"`
	Rotation int     `yaml:"rotation"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	for i, ev := range s.Events {
		if ev.At < 0 || math.IsNaN(ev.At) {
			return fmt.Errorf("event %d: %w: negative time %v", i+1, ErrBadEvent, ev.At)
		}
		switch ev.Type {
		case EventTouch, EventTouchDown, EventTouchMove, EventTouchUp, EventTilt, EventGravity:
		case EventRotate:
			if _, err := orient.ParseRotation(ev.Rotation); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		case EventResize:
			if ev.Width <= 0 || ev.Height <= 0 {
				return fmt.Errorf("event %d: %w: resize to %dx%d", i+1, ErrBadEvent, ev.Width, ev.Height)
			}
		default:
			return fmt.Errorf("event %d: %w: %q", i+1, ErrUnknownEvent, ev.Type)
		}
	}
	return nil
}

// Player replays a scenario against a scene one tick at a time.
type Player struct {
	events   []Event
	drawRate float64
	next     int
	applied  int
}

// Player schedules the events for a host loop running at drawRate.
func (s *Scenario) Player(drawRate float64) *Player {
	events := append([]Event(nil), s.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })
	return &Player{events: events, drawRate: drawRate}
}

// BeforeTick applies every event due at or before tick.
func (p *Player) BeforeTick(tick int, sc *scene.Scene) error {
	now := float64(tick) / p.drawRate
	for p.next < len(p.events) && p.events[p.next].At <= now+1e-9 {
		if err := Apply(sc, p.events[p.next]); err != nil {
			return err
		}
		p.next++
		p.applied++
	}
	return nil
}

// Applied counts events delivered so far.
func (p *Player) Applied() int {
	return p.applied
}

// Apply delivers a single event to sc.
func Apply(sc *scene.Scene, ev Event) error {
	at := vec.Vec2{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case EventTouch:
		sc.Touch(at)
	case EventTouchDown:
		sc.TouchDown(at)
	case EventTouchMove:
		sc.TouchMove(at)
	case EventTouchUp:
		sc.TouchUp(at)
	case EventTilt:
		sc.Tilt(ev.X, ev.Y)
	case EventGravity:
		scale := ev.Scale
		if scale == 0 {
			scale = 1
		}
		sc.SetGravity(at, scale)
	case EventRotate:
		r, err := orient.ParseRotation(ev.Rotation)
		if err != nil {
			return err
		}
		sc.SetRotation(r)
	case EventResize:
		if _, err := sc.Resize(ev.Width, ev.Height); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}
