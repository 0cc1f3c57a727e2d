package dsp

import (
	"math"
	"testing"
)

func TestNCONextMatchesFrequency(t *testing.T) {
	const freqHz = 1000.0
	const sampleRate = 8000.0
	o := NewNCO(freqHz, sampleRate)

	wantIncrement := 2 * math.Pi * freqHz / sampleRate
	sin0, cos0 := o.Next()
	if sin0 != 0 || cos0 != 1 {
		t.Fatalf("first sample = (%v,%v), want (0,1) at zero initial phase", sin0, cos0)
	}
	if math.Abs(o.Phase()-wantIncrement) > 1e-12 {
		t.Fatalf("phase after one sample = %v, want %v", o.Phase(), wantIncrement)
	}
}

func TestNCOPhaseWraps(t *testing.T) {
	o := NewNCO(4000, 8000) // increment = pi per sample
	for i := 0; i < 4; i++ {
		o.Next()
	}
	if o.Phase() < 0 || o.Phase() >= 2*math.Pi {
		t.Fatalf("phase %v out of [0, 2pi) range after wraparound", o.Phase())
	}
}

func TestNCOSetPhase(t *testing.T) {
	o := NewNCO(1000, 8000)
	o.SetPhase(math.Pi)
	sin, cos := o.Next()
	if math.Abs(sin) > 1e-9 || cos > -0.999 {
		t.Fatalf("Next() after SetPhase(pi) = (%v,%v), want (~0,~-1)", sin, cos)
	}
}

func TestNCOSkipMatchesRepeatedNext(t *testing.T) {
	a := NewNCO(1234, 44100)
	b := NewNCO(1234, 44100)

	for i := 0; i < 17; i++ {
		a.Next()
	}
	b.Skip(17)

	if math.Abs(a.Phase()-b.Phase()) > 1e-9 {
		t.Fatalf("Skip(17) phase %v does not match 17 calls to Next() phase %v", b.Phase(), a.Phase())
	}
}

func TestNCONextFMZeroDeviationMatchesNext(t *testing.T) {
	a := NewNCO(2000, 8000)
	b := NewNCO(2000, 8000)

	sinA, cosA := a.Next()
	sinB, cosB := b.NextFM(0)
	if sinA != sinB || cosA != cosB {
		t.Fatalf("NextFM(0) = (%v,%v), want to match Next() = (%v,%v)", sinB, cosB, sinA, cosA)
	}
	if math.Abs(a.Phase()-b.Phase()) > 1e-12 {
		t.Fatalf("post-call phases diverge: Next()=%v NextFM(0)=%v", a.Phase(), b.Phase())
	}
}
