package touch

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

func newWorld(t *testing.T, balls ...vec.Vec2) *physics.World {
	t.Helper()
	w, err := physics.NewWorld(16, 12, physics.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	for _, p := range balls {
		if _, err := w.AddBall(p, 0.5, 0.9); err != nil {
			t.Fatalf("AddBall: %v", err)
		}
	}
	return w
}

func TestNew(t *testing.T) {
	for _, name := range Names() {
		p, err := New(name, DefaultParams())
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("expected name %q, got %q", name, p.Name())
		}
	}

	if _, err := New("swipe", DefaultParams()); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("expected ErrUnknownPolicy, got %v", err)
	}
}

func TestRadialPushFalloff(t *testing.T) {
	// capture radius is half of min(16, 12) = 6
	tests := []struct {
		name     string
		offset   vec.Vec2
		expected vec.Vec2
	}{
		{"at centre", vec.Vec2{}, vec.Vec2{X: 2}},
		{"half way", vec.Vec2{Y: 3}, vec.Vec2{Y: 1}},
		{"quarter way", vec.Vec2{X: -1.5}, vec.Vec2{X: -1.5}},
		{"at capture radius", vec.Vec2{X: 6}, vec.Vec2{}},
		{"outside", vec.Vec2{X: 7}, vec.Vec2{}},
	}

	touchAt := vec.Vec2{X: 8, Y: 6}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(t, touchAt.Add(tt.offset))
			r := NewRadialPush(DefaultParams())
			r.Down(w, touchAt)

			got := w.Bodies()[0].Velocity()
			if !got.ApproxEqual(tt.expected, 1e-9) {
				t.Errorf("expected velocity %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRadialPushZeroDistanceFollowsMotion(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 8, Y: 6})
	b := w.Bodies()[0]
	b.SetVelocity(vec.Vec2{Y: -3})

	NewRadialPush(DefaultParams()).Move(w, vec.Vec2{X: 8, Y: 6})

	got := b.Velocity()
	if math.Abs(got.Y-(-5)) > 1e-9 || math.Abs(got.X) > 1e-9 {
		t.Errorf("expected (0,-5), got %v", got)
	}
}

func TestRadialPushCompounds(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 8, Y: 9})
	r := NewRadialPush(DefaultParams())
	touchAt := vec.Vec2{X: 8, Y: 6}

	n := r.Down(w, touchAt) + r.Move(w, touchAt) + r.Up(w, touchAt)
	if n != 3 {
		t.Errorf("expected 3 affected samples, got %d", n)
	}
	if got := w.Bodies()[0].Velocity().Y; math.Abs(got-3) > 1e-9 {
		t.Errorf("expected compounded speed 3, got %v", got)
	}
}

func TestGrabDragPicksNearest(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 4.6, Y: 4})
	g := NewGrabDrag(DefaultParams())

	if n := g.Down(w, vec.Vec2{X: 4.4, Y: 4}); n != 1 {
		t.Fatalf("expected a grab, got %d", n)
	}
	s := g.State()
	if !s.Held || s.Index != 1 {
		t.Errorf("expected ball 1 held, got %+v", s)
	}
	if !s.Offset.ApproxEqual(vec.Vec2{X: 0.2}, 1e-9) {
		t.Errorf("expected offset (0.2,0), got %v", s.Offset)
	}
}

func TestGrabDragMissesOutsideRadius(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 4, Y: 4})
	g := NewGrabDrag(DefaultParams())

	if n := g.Down(w, vec.Vec2{X: 4.5, Y: 4}); n != 0 {
		t.Errorf("touch on the rim must not grab, got %d", n)
	}
	if g.State().Held {
		t.Error("nothing should be held")
	}
	if n := g.Move(w, vec.Vec2{X: 10, Y: 4}); n != 0 {
		t.Errorf("move without a grab must do nothing, got %d", n)
	}
	if !w.Bodies()[0].Velocity().IsZero() {
		t.Error("ball should be untouched")
	}
}

func TestGrabDragImpulse(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 4, Y: 4})
	b := w.Bodies()[0]
	g := NewGrabDrag(DefaultParams())

	g.Down(w, vec.Vec2{X: 4, Y: 4})
	g.Move(w, vec.Vec2{X: 8, Y: 4})

	expected := 50.0 / b.Mass()
	v := b.Velocity()
	if math.Abs(v.X-expected) > 1e-6 || math.Abs(v.Y) > 1e-9 {
		t.Errorf("expected velocity (%v,0), got %v", expected, v)
	}

	if n := g.Up(w, vec.Vec2{X: 8, Y: 4}); n != 1 {
		t.Errorf("expected release, got %d", n)
	}
	g.Move(w, vec.Vec2{X: 12, Y: 4})
	if got := b.Velocity(); !got.ApproxEqual(v, 1e-9) {
		t.Errorf("released ball must not be pushed, got %v", got)
	}
}

func TestGrabDragStaleHandle(t *testing.T) {
	w := newWorld(t, vec.Vec2{X: 4, Y: 4}, vec.Vec2{X: 10, Y: 4})
	g := NewGrabDrag(DefaultParams())
	g.Down(w, vec.Vec2{X: 10, Y: 4})

	smaller := newWorld(t, vec.Vec2{X: 4, Y: 4})
	if n := g.Move(smaller, vec.Vec2{X: 12, Y: 4}); n != 0 {
		t.Errorf("stale handle must be ignored, got %d", n)
	}

	g.Reset()
	if g.State().Held {
		t.Error("Reset should release the ball")
	}
}
