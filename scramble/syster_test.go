package scramble

import "testing"

func TestSysterPermutationIsBijective(t *testing.T) {
	s := NewSyster(0x0123456789ABC)
	seen := make(map[int]bool, systerPermutationSize)
	for _, v := range s.table {
		if v < 0 || v >= systerPermutationSize {
			t.Fatalf("permutation entry %d out of range", v)
		}
		if seen[v] {
			t.Fatalf("permutation entry %d repeated, not a bijection", v)
		}
		seen[v] = true
	}
}

func TestSysterNextFrameChangesPermutation(t *testing.T) {
	s := NewSyster(42)
	before := s.table
	s.NextFrame()
	if before == s.table {
		t.Fatalf("NextFrame did not change the permutation table")
	}
}

func TestSysterSourceLineWraps(t *testing.T) {
	s := NewSyster(1)
	got := s.SourceLine(systerPermutationSize + 3)
	want := s.SourceLine(3)
	if got != want {
		t.Fatalf("SourceLine did not wrap modulo the permutation size: got %d want %d", got, want)
	}
}

func TestDiscret11DelaySelectsOneOfThree(t *testing.T) {
	d := NewDiscret11(7, 20_250_000)
	for i := 0; i < 20; i++ {
		sel := d.next()
		if sel < 0 || sel > 2 {
			t.Fatalf("delay selector %d out of range [0,2]", sel)
		}
	}
}

func TestDiscret11DelayLineShiftsSamples(t *testing.T) {
	d := NewDiscret11(1, 20_250_000)
	d.delaysSec = [3]float64{0, 1e-6, 2e-6} // force a visible delay regardless of LFSR state
	line := make([]float64, 100)
	for i := range line {
		line[i] = float64(i + 1)
	}
	original := append([]float64(nil), line...)
	d.DelayLine(line, 10, 90)

	changed := false
	for i := range line {
		if line[i] != original[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatalf("DelayLine left the active region unchanged")
	}
}
