// Package sim provides the hardware-free operating modes: a 1-DOF rotor
// plant model for in-process closed-loop runs, and the serial link to an
// external co-simulation orchestrator.
package sim

import (
	"math"
	"time"
)

// Plant is a deliberately simple one-degree-of-freedom rotor model
// mapping pitch to rotor speed: aerodynamic torque falls with pitch
// (feathering) and rises with the cube of wind speed, drag rises with
// speed. Good enough to exercise the controller; not a turbine.
type Plant struct {
	wind    float64 // m/s
	rpm     float64
	inertia float64

	torqueGain float64 // c1, torque per (m/s)^3
	dragGain   float64 // c2, torque per RPM
}

// NewPlant creates a rotor at rest in the given wind (m/s).
func NewPlant(windSpeed float64) *Plant {
	return &Plant{
		wind:       windSpeed,
		inertia:    1.0,
		torqueGain: 0.0008,
		dragGain:   0.002,
	}
}

// Step advances the model by dt with the blade at pitchDeg degrees and
// returns the new rotor speed in RPM. Speed never goes negative.
func (p *Plant) Step(pitchDeg float64, dt time.Duration) float64 {
	torque := p.torqueGain*math.Pow(p.wind, 3)*math.Max(0, math.Cos(pitchDeg*math.Pi/180)) - p.dragGain*p.rpm
	p.rpm += torque / (0.1 + p.inertia) * dt.Seconds()
	if p.rpm < 0 {
		p.rpm = 0
	}
	return p.rpm
}

// Speed returns the current rotor speed in RPM.
func (p *Plant) Speed() float64 {
	return p.rpm
}

// SetSpeed overrides the rotor speed (RPM), e.g. to start a scenario
// already spinning.
func (p *Plant) SetSpeed(rpm float64) {
	p.rpm = math.Max(0, rpm)
}

// SetWind changes the wind speed (m/s) mid-run.
func (p *Plant) SetWind(windSpeed float64) {
	p.wind = windSpeed
}

// IntervalMicros converts a rotor speed to the pulse interval a
// one-pulse-per-revolution shaft sensor would produce, in microseconds.
// Returns 0 for a stopped rotor (no pulses).
func IntervalMicros(rpm float64) int64 {
	if rpm <= 0 {
		return 0
	}
	return int64(60_000_000.0 / rpm)
}
