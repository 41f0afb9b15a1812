package vec

import (
	"math"
	"testing"
)

func TestVec2_Arithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(4, 6)

	if got := a.Add(b); got != (Vec2{5, 8}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec2{3, 4}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(3); got != (Vec2{3, 6}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := a.Dot(b); got != 16 {
		t.Errorf("Dot failed: got %v", got)
	}
}

func TestVec2_Length(t *testing.T) {
	tests := []struct {
		v        Vec2
		expected float64
	}{
		{Vec2{3, 4}, 5},
		{Vec2{0, 0}, 0},
		{Vec2{-1, 0}, 1},
	}

	for _, tt := range tests {
		if got := tt.v.Length(); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Length(%v) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestVec2_Normalize(t *testing.T) {
	u, l := New(3, 4).Normalize()
	if math.Abs(l-5) > 1e-12 {
		t.Errorf("expected length 5, got %v", l)
	}
	if !u.ApproxEqual(Vec2{0.6, 0.8}, 1e-12) {
		t.Errorf("expected unit (0.6, 0.8), got %v", u)
	}

	z, l := Vec2{}.Normalize()
	if !z.IsZero() || l != 0 {
		t.Errorf("zero vector should normalize to zero, got %v (%v)", z, l)
	}
}

func TestVec2_ClampLength(t *testing.T) {
	v := New(30, 40).ClampLength(10)
	if math.Abs(v.Length()-10) > 1e-9 {
		t.Errorf("expected length 10, got %v", v.Length())
	}

	short := New(1, 1)
	if short.ClampLength(10) != short {
		t.Error("short vector should be unchanged")
	}
	if short.ClampLength(0) != short {
		t.Error("non-positive max disables clamping")
	}
}

func TestVec2_IsFinite(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"normal", Vec2{1, 2}, true},
		{"NaN", Vec2{math.NaN(), 0}, false},
		{"+Inf", Vec2{0, math.Inf(1)}, false},
		{"-Inf", Vec2{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.valid {
				t.Errorf("IsFinite() = %v, want %v", got, tt.valid)
			}
		})
	}
}
