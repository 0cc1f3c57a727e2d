package dsp

import (
	"math"
	"testing"
)

func constantSignal(n int, v float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestResamplerPreservesDCLevel(t *testing.T) {
	r := NewResampler(8000, 16000, 65)
	in := constantSignal(4000, 0.5)

	var out []float64
	for i := 0; i < len(in); i += 200 {
		out = append(out, r.Process(in[i:i+200])...)
	}

	// Skip the filter's settling region at the start; check the steady state.
	tail := out[len(out)-500:]
	var sum float64
	for _, v := range tail {
		sum += v
	}
	mean := sum / float64(len(tail))
	if math.Abs(mean-0.5) > 0.02 {
		t.Fatalf("steady-state mean = %v, want close to 0.5", mean)
	}
}

func TestResamplerUpsampleProducesMoreSamples(t *testing.T) {
	r := NewResampler(8000, 16000, 33)
	out := r.Process(constantSignal(800, 1.0))
	// 2x upsampling over 800 input samples should produce roughly 1600 output
	// samples, allowing slack for the fractional-position carry.
	if len(out) < 1500 || len(out) > 1700 {
		t.Fatalf("len(out) = %d, want close to 1600 for 2x upsampling", len(out))
	}
}

func TestResamplerDownsampleProducesFewerSamples(t *testing.T) {
	r := NewResampler(16000, 8000, 33)
	out := r.Process(constantSignal(1600, 1.0))
	if len(out) < 700 || len(out) > 900 {
		t.Fatalf("len(out) = %d, want close to 800 for 0.5x downsampling", len(out))
	}
}

func TestResamplerProcessNPadsOrTruncates(t *testing.T) {
	r := NewResampler(8000, 8000, 17)
	out := r.ProcessN(constantSignal(100, 1.0), 64)
	if len(out) != 64 {
		t.Fatalf("ProcessN returned %d samples, want exactly 64", len(out))
	}

	out = r.ProcessN(constantSignal(10, 1.0), 3)
	if len(out) != 3 {
		t.Fatalf("ProcessN returned %d samples, want exactly 3", len(out))
	}
}
