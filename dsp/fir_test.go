package dsp

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

func TestDesignFIRUnityDCGain(t *testing.T) {
	taps := DesignFIR(65, 2_000_000, 20_000_000)
	var sum float64
	for _, c := range taps {
		sum += c
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("DC gain = %v, want 1.0", sum)
	}
}

// magnitudeAt zero-pads taps to fftSize and returns the magnitude of the
// coefficient nearest freqHz, verified against gonum's FFT rather than an
// assumed closed-form response.
func magnitudeAt(taps []float64, freqHz, sampleRate float64, fftSize int) float64 {
	padded := make([]float64, fftSize)
	copy(padded, taps)
	coeffs := fourier.NewFFT(fftSize).Coefficients(nil, padded)
	bin := int(math.Round(freqHz / sampleRate * float64(fftSize)))
	return cmplx.Abs(coeffs[bin])
}

func TestDesignFIRFrequencyResponse(t *testing.T) {
	const sampleRate = 20_000_000.0
	const bandwidth = 2_000_000.0 // cutoff = bandwidth/2 = 1MHz
	const fftSize = 4096
	taps := DesignFIR(129, bandwidth, sampleRate)

	passband := magnitudeAt(taps, 200_000, sampleRate, fftSize)
	stopband := magnitudeAt(taps, 8_000_000, sampleRate, fftSize)

	if passband < 0.9 {
		t.Fatalf("passband magnitude = %v, want near 1.0", passband)
	}
	if stopband > 0.1 {
		t.Fatalf("stopband magnitude = %v, want well attenuated", stopband)
	}
	if stopband >= passband {
		t.Fatalf("stopband magnitude %v not attenuated relative to passband %v", stopband, passband)
	}
}

func TestDesignBandpassCentersOnCenterHz(t *testing.T) {
	const sampleRate = 20_000_000.0
	const centerHz = 6_000_000.0
	const fftSize = 4096
	taps := DesignBandpass(129, 500_000, centerHz, sampleRate)

	atCenter := magnitudeAt(taps, centerHz, sampleRate, fftSize)
	atDC := magnitudeAt(taps, 0, sampleRate, fftSize)
	atFarAway := magnitudeAt(taps, 2_000_000, sampleRate, fftSize)

	if atCenter <= atDC {
		t.Fatalf("bandpass peak %v at centerHz not above DC response %v", atCenter, atDC)
	}
	if atCenter <= atFarAway {
		t.Fatalf("bandpass peak %v at centerHz not above far-band response %v", atCenter, atFarAway)
	}
}

func TestConvolveIsContinuousAcrossCalls(t *testing.T) {
	taps := []float64{0.25, 0.5, 0.25}
	state := make([]float64, len(taps)-1)

	whole := Convolve([]float64{1, 2, 3, 4, 5, 6}, taps, make([]float64, len(taps)-1))

	first := Convolve([]float64{1, 2, 3}, taps, state)
	second := Convolve([]float64{4, 5, 6}, taps, state)
	split := append(first, second...)

	for i := range whole {
		if math.Abs(whole[i]-split[i]) > 1e-12 {
			t.Fatalf("split convolution diverges at %d: whole=%v split=%v", i, whole[i], split[i])
		}
	}
}
