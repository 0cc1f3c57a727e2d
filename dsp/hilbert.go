package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"
)

// Hilbert is a finite-impulse-response approximation of the Hilbert
// transform, used to derive the quadrature component for single-sideband
// and vestigial-sideband modulation.
type Hilbert struct {
	taps  []float64
	state []float64
}

// NewHilbert builds an odd-length, odd-symmetric Hilbert kernel with the
// given number of taps (must be odd; even is rounded up).
func NewHilbert(numTaps int) *Hilbert {
	if numTaps%2 == 0 {
		numTaps++
	}
	taps := make([]float64, numTaps)
	m := numTaps / 2
	for i := range taps {
		n := i - m
		if n == 0 || n%2 == 0 {
			taps[i] = 0
			continue
		}
		taps[i] = 2.0 / (math.Pi * float64(n))
	}
	window.Hamming(taps)
	return &Hilbert{taps: taps, state: make([]float64, numTaps-1)}
}

// Transform returns the quadrature (90°-shifted) version of in.
func (h *Hilbert) Transform(in []float64) []float64 {
	return Convolve(in, h.taps, h.state)
}

// Delay returns the group delay in samples introduced by the Hilbert
// kernel, so the in-phase path can be matched with a pure delay line.
func (h *Hilbert) Delay() int {
	return len(h.taps) / 2
}
