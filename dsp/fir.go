package dsp

import (
	"math"

	"gonum.org/v1/gonum/dsp/window"
)

// DesignFIR builds a windowed-sinc low-pass filter with numTaps coefficients,
// a cutoff of bandwidth/2 and unity DC gain. This generalizes the teacher's
// sdr/transmitter.go NewLowPassFilterTaps (a hand-rolled Blackman window) to
// reuse gonum's window functions so the same routine can also be used
// (through DesignBandpass) for the VSB shaping filter.
func DesignFIR(numTaps int, bandwidth, sampleRate float64) []float64 {
	taps := make([]float64, numTaps)
	cutoff := bandwidth / 2.0
	normalizedCutoff := cutoff / sampleRate
	m := float64(numTaps - 1)

	for i := range taps {
		n := float64(i)
		var sinc float64
		if i == numTaps/2 && numTaps%2 == 1 {
			sinc = 2 * math.Pi * normalizedCutoff
		} else {
			x := n - m/2
			sinc = math.Sin(2*math.Pi*normalizedCutoff*x) / x
		}
		taps[i] = sinc
	}

	window.Blackman(taps)

	var sum float64
	for _, t := range taps {
		sum += t
	}
	if sum != 0 {
		for i := range taps {
			taps[i] /= sum
		}
	}
	return taps
}

// DesignBandpass shifts a low-pass design to be centred on centerHz, used by
// the AM-VSB shaping filter, which centres it on the IF frequency rather
// than DC.
func DesignBandpass(numTaps int, bandwidth, centerHz, sampleRate float64) []float64 {
	lp := DesignFIR(numTaps, bandwidth, sampleRate)
	shiftIncrement := 2.0 * math.Pi * centerHz / sampleRate
	phase := 0.0
	out := make([]float64, numTaps)
	for i, t := range lp {
		out[i] = t * math.Cos(phase)
		phase += shiftIncrement
	}
	return out
}

// Convolve applies FIR taps to in, returning a same-length output using
// history carried in state (length len(taps)-1, caller-owned, zero-initialised
// on first use) so successive calls over streamed samples are continuous.
func Convolve(in []float64, taps []float64, state []float64) []float64 {
	out := make([]float64, len(in))
	n := len(taps)
	buf := make([]float64, len(state)+len(in))
	copy(buf, state)
	copy(buf[len(state):], in)

	for i := range in {
		var acc float64
		base := i + len(state)
		for k := 0; k < n; k++ {
			idx := base - k
			if idx < 0 {
				continue
			}
			acc += taps[k] * buf[idx]
		}
		out[i] = acc
	}

	if len(state) > 0 {
		copy(state, buf[len(buf)-len(state):])
	}
	return out
}
