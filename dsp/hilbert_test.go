package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

// hilbertResponse zero-pads the kernel's own taps and checks its FFT
// coefficient at freqHz, the same coefficient-verification approach
// fir_test.go uses for DesignFIR. The linear phase of the kernel's
// Delay()-sample centre tap is removed so the phase is the quadrature shift
// alone.
func hilbertResponse(h *Hilbert, freqHz, sampleRate float64, fftSize int) (mag, phaseDeg float64) {
	padded := make([]float64, fftSize)
	copy(padded, h.taps)
	k := int(math.Round(freqHz / sampleRate * float64(fftSize)))
	c := fourier.NewFFT(fftSize).Coefficients(nil, padded)[k]
	c *= cmplx.Exp(complex(0, 2*math.Pi*float64(k)*float64(h.Delay())/float64(fftSize)))
	return cmplx.Abs(c), cmplx.Phase(c) * 180 / math.Pi
}

func TestHilbertFrequencyResponse(t *testing.T) {
	const sampleRate = 8_000_000.0
	const fftSize = 4096
	h := NewHilbert(65)

	for _, freqHz := range []float64{sampleRate * 0.15, sampleRate * 0.25, sampleRate * 0.35} {
		mag, phaseDeg := hilbertResponse(h, freqHz, sampleRate, fftSize)
		if mag < 0.8 {
			t.Fatalf("magnitude at %vHz = %v, want near 1.0 (all-pass in the mid-band)", freqHz, mag)
		}
		if d := math.Abs(math.Abs(phaseDeg) - 90); d > 15 {
			t.Fatalf("phase at %vHz = %v deg, want close to ±90 deg", freqHz, phaseDeg)
		}
	}
}

func TestHilbertDelayMatchesTapCount(t *testing.T) {
	h := NewHilbert(64) // even input rounds up to 65
	if got, want := h.Delay(), 65/2; got != want {
		t.Fatalf("Delay() = %d, want %d", got, want)
	}
}

func TestHilbertTransformPreservesLength(t *testing.T) {
	h := NewHilbert(31)
	in := make([]float64, 128)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 16)
	}
	out := h.Transform(in)
	if len(out) != len(in) {
		t.Fatalf("Transform returned %d samples, want %d", len(out), len(in))
	}
}
