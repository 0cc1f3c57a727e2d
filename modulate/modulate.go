// Package modulate implements the IQ modulator / output shaper: up-converts
// real baseband to I/Q with vestigial-sideband filtering for AM-VSB modes,
// direct passthrough for baseband, FM-wide for MAC, SSB via a Hilbert
// transform, gain scaling, and sample-type conversion to 8-/16-bit signed
// interleaved output. Grounded on the teacher's sdr/transmitter.go (which
// hand-rolls a single AM-VSB path with a Blackman-windowed low-pass filter
// before handing samples to hackrf.Device), generalized into a
// mode-selectable set and rebuilt on dsp.DesignFIR/dsp.Hilbert.
package modulate

import (
	"math"

	"hacktv/dsp"
)

// Mode selects the up-conversion scheme: baseband-real, AM-VSB, FM-wide, or SSB.
type Mode int

const (
	ModeBasebandReal Mode = iota
	ModeAMVSB
	ModeFMWide
	ModeSSB
)

// Modulator up-converts a stream of real baseband samples into interleaved
// I/Q (or real passthrough), with its FIR coefficients precomputed once at
// open; the modulator is purely per-sample after that.
type Modulator struct {
	mode       Mode
	ifFreqHz   float64
	sampleRate float64
	gain       float64

	carrier    *dsp.NCO
	vsbTaps    []float64
	vsbState   []float64
	hilbert    *dsp.Hilbert
	fmDeviationHz float64
	fmPhaseAccum  float64
}

// Options configures a new Modulator.
type Options struct {
	Mode          Mode
	IFFrequencyHz float64 // mode_if_frequency; 0 for baseband
	SampleRate    float64
	GainDB        float64
	VSBBandwidthHz float64 // AM-VSB band-pass width (Blackman windowed-sinc, symmetric about the IF; not a raised-cosine shape)
	FMDeviationHz  float64 // peak deviation for FM-wide (MAC)
}

// New builds a Modulator and precomputes any filter coefficients its mode
// needs.
func New(opt Options) *Modulator {
	m := &Modulator{
		mode:          opt.Mode,
		ifFreqHz:      opt.IFFrequencyHz,
		sampleRate:    opt.SampleRate,
		gain:          dbToLinear(opt.GainDB),
		fmDeviationHz: opt.FMDeviationHz,
	}
	if opt.IFFrequencyHz != 0 {
		m.carrier = dsp.NewNCO(opt.IFFrequencyHz, opt.SampleRate)
	}
	switch opt.Mode {
	case ModeAMVSB:
		bw := opt.VSBBandwidthHz
		if bw == 0 {
			bw = opt.SampleRate / 8
		}
		m.vsbTaps = dsp.DesignBandpass(127, bw, opt.IFFrequencyHz, opt.SampleRate)
		m.vsbState = make([]float64, len(m.vsbTaps)-1)
	case ModeSSB:
		m.hilbert = dsp.NewHilbert(65)
	}
	return m
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// IQ is one complex baseband sample.
type IQ struct {
	I, Q float64
}

// Process up-converts one block of real baseband samples according to the
// configured Mode and returns the I/Q (or real, packed into I with Q=0 for
// baseband passthrough) result, gain-scaled.
func (m *Modulator) Process(in []float64) []IQ {
	out := make([]IQ, len(in))

	switch m.mode {
	case ModeBasebandReal:
		for i, s := range in {
			out[i] = IQ{I: s * m.gain, Q: 0}
		}

	case ModeAMVSB:
		shaped := dsp.Convolve(in, m.vsbTaps, m.vsbState)
		for i, s := range shaped {
			sin, cos := m.carrier.Next()
			out[i] = IQ{I: s * cos * m.gain, Q: s * sin * m.gain}
		}

	case ModeFMWide:
		for i, s := range in {
			increment := 2 * math.Pi * m.fmDeviationHz * s / m.sampleRate
			m.fmPhaseAccum += increment
			sin, cos := math.Sincos(m.fmPhaseAccum)
			out[i] = IQ{I: cos * m.gain, Q: sin * m.gain}
		}

	case ModeSSB:
		quadrature := m.hilbert.Transform(in)
		delay := m.hilbert.Delay()
		for i := range in {
			var inPhase float64
			if i-delay >= 0 && i-delay < len(in) {
				inPhase = in[i-delay]
			}
			sin, cos := m.carrier.Next()
			out[i] = IQ{
				I: (inPhase*cos - quadrature[i]*sin) * m.gain,
				Q: (inPhase*sin + quadrature[i]*cos) * m.gain,
			}
		}
	}
	return out
}

// ToInt16Interleaved converts I/Q samples to interleaved 16-bit signed
// integers (I0,Q0,I1,Q1,...), clamping to the int16 range.
func ToInt16Interleaved(samples []IQ, fullScale float64) []int16 {
	out := make([]int16, len(samples)*2)
	for i, s := range samples {
		out[i*2] = clampInt16(s.I * fullScale)
		out[i*2+1] = clampInt16(s.Q * fullScale)
	}
	return out
}

// ToInt8Interleaved is the 8-bit sibling of ToInt16Interleaved, used by
// sinks that only accept 8-bit signed I/Q (e.g. raw HackRF sample files).
func ToInt8Interleaved(samples []IQ, fullScale float64) []int8 {
	out := make([]int8, len(samples)*2)
	for i, s := range samples {
		out[i*2] = clampInt8(s.I * fullScale)
		out[i*2+1] = clampInt8(s.Q * fullScale)
	}
	return out
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

func clampInt8(v float64) int8 {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return int8(v)
}
