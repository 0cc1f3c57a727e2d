package sound

import (
	"testing"

	"hacktv/mode"
)

func TestFMCarrierMixStaysBounded(t *testing.T) {
	spec := mode.AudioSubcarrier{FrequencyHz: 6000000, DeviationHz: 50000, Left: true, Right: true}
	c := NewFMCarrier(spec, 20_250_000)
	for i := 0; i < 1000; i++ {
		v := c.Mix(0.5, 20_250_000, 1.0)
		if v < -1.0001 || v > 1.0001 {
			t.Fatalf("Mix() = %v out of expected unit-amplitude range", v)
		}
	}
}

func TestA2StereoMixStaysInRange(t *testing.T) {
	spec := mode.AudioSubcarrier{FrequencyHz: 5500000, DeviationHz: 50000, Left: true, Right: true}
	a := NewA2Stereo(spec, 242000, 20_250_000)
	v := a.Mix(1.0, -1.0, 20_250_000, 1.0)
	if v < -2.0001 || v > 2.0001 {
		t.Fatalf("A2Stereo.Mix() = %v out of expected range", v)
	}
}

func TestCompandingMonotonicForPositiveSamples(t *testing.T) {
	a := companding(100)
	b := companding(20000)
	if a >= b {
		t.Fatalf("companding() codes not increasing with magnitude: %d for 100, %d for 20000", a, b)
	}
}

func TestNicamScramblerIsDeterministic(t *testing.T) {
	e1 := NewNicamEncoder(728000, 20_250_000)
	e2 := NewNicamEncoder(728000, 20_250_000)
	for i := 0; i < 20; i++ {
		b1 := e1.scramble(byte(i % 2))
		b2 := e2.scramble(byte(i % 2))
		if b1 != b2 {
			t.Fatalf("scramble() diverged between two identically-seeded encoders at bit %d", i)
		}
	}
}

func TestNicamEncodeFrameLength(t *testing.T) {
	n := NewNicamEncoder(728000, 20_250_000)
	left := make([]int16, nicamSamplesPerChannel)
	right := make([]int16, nicamSamplesPerChannel)
	bits := n.EncodeFrame(left, right)
	want := 5 + nicamSamplesPerChannel*2*nicamBitsPerSample
	if len(bits) != want {
		t.Fatalf("EncodeFrame produced %d bits, want %d", len(bits), want)
	}
}

func TestDQPSKPhaseStepCoversAllDibits(t *testing.T) {
	seen := map[float64]bool{}
	for d := byte(0); d < 4; d++ {
		seen[dqpskPhaseStep(d)] = true
	}
	if len(seen) != 4 {
		t.Fatalf("dqpskPhaseStep produced %d distinct phase steps, want 4", len(seen))
	}
}
