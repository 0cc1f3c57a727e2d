// Package dsp provides the sample-level arithmetic primitives the rest of
// hacktv is built on: phase-accumulator oscillators, FIR filter design, a
// Hilbert transformer for single-sideband work, and a low-pass plus
// linear-interpolation resampler.
package dsp

import "math"

// NCO is a phase-accumulator oscillator. Its phase is absolute: callers never
// reset it between lines, matching the colour subcarrier's "absolute to line
// 1 field 1" requirement.
type NCO struct {
	phase     float64 // radians, unwrapped internally to [0, 2π)
	increment float64
}

// NewNCO creates an oscillator generating freqHz at sampleRate.
func NewNCO(freqHz, sampleRate float64) *NCO {
	return &NCO{increment: 2.0 * math.Pi * freqHz / sampleRate}
}

// Phase returns the current phase in radians.
func (o *NCO) Phase() float64 { return o.phase }

// SetPhase forces the oscillator to a specific phase, used when a scrambler
// or VBI line needs to resynchronise the carrier deterministically.
func (o *NCO) SetPhase(phase float64) { o.phase = math.Mod(phase, 2*math.Pi) }

// Next advances the oscillator by one sample and returns sin/cos of the
// pre-advance phase.
func (o *NCO) Next() (sin, cos float64) {
	sin, cos = math.Sincos(o.phase)
	o.phase += o.increment
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}
	return
}

// NextFM advances the oscillator by one sample with its base increment
// perturbed by deviationRadians (2π·deviationHz/sampleRate, pre-scaled by
// the caller's modulating sample), returning sin/cos of the pre-advance
// phase. Used for FM audio subcarriers, where each sample's instantaneous
// frequency depends on the modulating signal.
func (o *NCO) NextFM(deviationRadians float64) (sin, cos float64) {
	sin, cos = math.Sincos(o.phase)
	o.phase += o.increment + deviationRadians
	o.phase = math.Mod(o.phase, 2*math.Pi)
	if o.phase < 0 {
		o.phase += 2 * math.Pi
	}
	return
}

// Skip advances the oscillator by n samples without generating output,
// used for VBI lines where no subcarrier is mixed in but phase continuity
// must be preserved.
func (o *NCO) Skip(n int) {
	o.phase += o.increment * float64(n)
	o.phase = math.Mod(o.phase, 2*math.Pi)
	if o.phase < 0 {
		o.phase += 2 * math.Pi
	}
}
