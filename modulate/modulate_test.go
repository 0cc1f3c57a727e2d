package modulate

import "testing"

func TestBasebandPassthrough(t *testing.T) {
	m := New(Options{Mode: ModeBasebandReal, SampleRate: 20_250_000, GainDB: 0})
	in := []float64{0.1, -0.2, 0.5}
	out := m.Process(in)
	for i, s := range in {
		if out[i].I != s || out[i].Q != 0 {
			t.Fatalf("baseband passthrough mismatch at %d: got %+v, want I=%v Q=0", i, out[i], s)
		}
	}
}

func TestGainScaling(t *testing.T) {
	m := New(Options{Mode: ModeBasebandReal, SampleRate: 20_250_000, GainDB: 20}) // x10
	out := m.Process([]float64{1.0})
	if out[0].I < 9.9 || out[0].I > 10.1 {
		t.Fatalf("GainDB=20 should scale by ~10x, got %v", out[0].I)
	}
}

func TestAMVSBProducesComplexOutput(t *testing.T) {
	m := New(Options{
		Mode:           ModeAMVSB,
		IFFrequencyHz:  1_000_000,
		SampleRate:     20_250_000,
		GainDB:         0,
		VSBBandwidthHz: 5_000_000,
	})
	in := make([]float64, 256)
	for i := range in {
		in[i] = 0.5
	}
	out := m.Process(in)
	if len(out) != len(in) {
		t.Fatalf("AM-VSB output length = %d, want %d", len(out), len(in))
	}
	nonZeroQ := false
	for _, s := range out {
		if s.Q != 0 {
			nonZeroQ = true
			break
		}
	}
	if !nonZeroQ {
		t.Fatalf("AM-VSB output has no quadrature component, carrier not being applied")
	}
}

func TestToInt16InterleavedClamps(t *testing.T) {
	samples := []IQ{{I: 2.0, Q: -2.0}}
	out := ToInt16Interleaved(samples, 32767)
	if out[0] != 32767 || out[1] != -32768 {
		t.Fatalf("ToInt16Interleaved did not clamp: got %v", out)
	}
}

func TestSSBProducesOutput(t *testing.T) {
	m := New(Options{Mode: ModeSSB, IFFrequencyHz: 100000, SampleRate: 2_000_000})
	in := make([]float64, 200)
	for i := range in {
		in[i] = 0.3
	}
	out := m.Process(in)
	if len(out) != len(in) {
		t.Fatalf("SSB output length = %d, want %d", len(out), len(in))
	}
}
