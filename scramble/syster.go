package scramble

// Syster implements the Nagravision Syster scrambler: a 287-entry
// permutation of line indices is derived from a 60-bit seed (nominally
// published in a VBI data line by the broadcaster) and exposed through
// SourceLine. The composer does not redirect line fetches through it; it
// applies ScrambleLine's per-line sample rotation, and calls NextFrame,
// which rotates the seed and rebuilds the permutation, once per video frame.
// original_source's nagravision-syster.c was not included in the surfaced
// source tree; the permutation generator below (a seeded Fisher-Yates
// shuffle) is this package's own choice, not a reverse-engineered broadcast
// table (see DESIGN.md's open-question decision).
const systerPermutationSize = 287

// Syster is one field-scrambling engine instance.
type Syster struct {
	Seed  uint64 // 60-bit seed, high 4 bits unused
	table [systerPermutationSize]int
}

// NewSyster builds an engine and derives its first permutation from seed.
func NewSyster(seed uint64) *Syster {
	s := &Syster{Seed: seed & 0x0FFFFFFFFFFFFFFF}
	s.rebuild()
	return s
}

// rebuild derives the current 287-entry line permutation from Seed using a
// seeded Fisher-Yates shuffle (the same LCG-driven approach videocrypt.go's
// rebuildCutTable uses for its 256-entry cut table).
func (s *Syster) rebuild() {
	for i := range s.table {
		s.table[i] = i
	}
	state := s.Seed
	for i := systerPermutationSize - 1; i > 0; i-- {
		state = state*6364136223846793005 + 1442695040888963407
		j := int((state >> 33) % uint64(i+1))
		s.table[i], s.table[j] = s.table[j], s.table[i]
	}
}

// SourceLine returns the field-relative line index that should actually be
// fetched when the composer wants to render fieldLine. fieldLine is reduced
// modulo the permutation size since Syster's table only covers the active
// portion of a field.
func (s *Syster) SourceLine(fieldLine int) int {
	return s.table[fieldLine%systerPermutationSize]
}

// ScrambleLine applies the line-redirection lookup as a same-line transform
// usable through the Scrambler interface: it rotates the active-video
// samples by an offset derived from the redirected source line, standing in
// for line-fetch redirection, which would need more than one line at a time.
func (s *Syster) ScrambleLine(line []float64, start, end, fieldLine int) {
	src := s.SourceLine(fieldLine)
	width := end - start
	if width <= 0 {
		return
	}
	offset := src % width
	if offset == 0 {
		return
	}
	rotated := make([]float64, width)
	copy(rotated, line[start+offset:end])
	copy(rotated[width-offset:], line[start:start+offset])
	copy(line[start:end], rotated)
}

// NextFrame rotates the seed and rebuilds the permutation for the next frame.
func (s *Syster) NextFrame() {
	s.Seed = (s.Seed*2862933555777941757 + 3037000493) & 0x0FFFFFFFFFFFFFFF
	s.rebuild()
}
