package metrics

import (
	"math"

	"github.com/san-kum/spheres/internal/scene"
)

// Energy is the mean total kinetic energy per tick.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(st scene.Stats) {
	e.totalEnergy += st.KineticEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyGain is the largest tick-to-tick increase in kinetic energy, relative
// to the previous tick. With no gravity and no touches it stays near zero
// because restitution only removes energy.
type EnergyGain struct {
	name     string
	previous float64
	maxGain  float64
	samples  int
}

func NewEnergyGain() *EnergyGain {
	return &EnergyGain{name: "energy_gain"}
}

func (e *EnergyGain) Name() string { return e.name }

func (e *EnergyGain) Observe(st scene.Stats) {
	energy := st.KineticEnergy
	if e.samples > 0 && e.previous > 1e-9 && energy > e.previous {
		e.maxGain = math.Max(e.maxGain, (energy-e.previous)/e.previous)
	}
	e.previous = energy
	e.samples++
}

func (e *EnergyGain) Value() float64 {
	return e.maxGain
}

func (e *EnergyGain) Reset() {
	e.previous = 0
	e.maxGain = 0
	e.samples = 0
}
