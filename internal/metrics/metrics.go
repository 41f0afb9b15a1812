// Package metrics accumulates summary values over the ticks of a run.
package metrics

import "github.com/san-kum/spheres/internal/scene"

// Metric observes one tick of world state at a time.
type Metric interface {
	Name() string
	Observe(st scene.Stats)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run.
func Standard() []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyGain(),
		NewPeakSpeed(),
		NewContainment(),
		NewResets(),
	}
}

type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(st scene.Stats) {
	if st.PeakSpeed > p.peak {
		p.peak = st.PeakSpeed
	}
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// Resets reports how many non-finite bodies the world recovered.
type Resets struct {
	last int
}

func NewResets() *Resets { return &Resets{} }

func (r *Resets) Name() string           { return "resets" }
func (r *Resets) Observe(st scene.Stats) { r.last = st.Resets }
func (r *Resets) Value() float64         { return float64(r.last) }
func (r *Resets) Reset()                 { r.last = 0 }
