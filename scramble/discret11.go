package scramble

// Discret11 implements the Discret 11 line-delay scrambler: each active
// line is shifted by one of three horizontal delays (0, 902ns, 1804ns)
// selected by a 2-bit sequence drawn from a mode-defined LFSR.
// original_source's discret11.c was not present in the surfaced tree, so
// the LFSR polynomial (x^9+x^5+1, a standard 9-bit maximal-length
// sequence) is this package's own choice, not a reverse-engineered
// broadcast constant; only the three delay values and the "2-bit sequence
// selects one of three delays" structure are load-bearing.
type Discret11 struct {
	lfsr       uint16 // 9-bit shift register, non-zero
	sampleRate float64
	delaysSec  [3]float64
}

// NewDiscret11 creates an engine seeded with a non-zero 9-bit value,
// deriving its three delay depths in samples from sampleRate (Hz).
func NewDiscret11(seed uint16, sampleRate float64) *Discret11 {
	if seed == 0 {
		seed = 1
	}
	return &Discret11{
		lfsr:       seed & 0x1FF,
		sampleRate: sampleRate,
		delaysSec:  [3]float64{0, 902e-9, 1804e-9},
	}
}

// next advances the LFSR by one step (taps at bits 9 and 5) and returns a
// 2-bit delay-select value derived from the new state.
func (d *Discret11) next() int {
	bit := ((d.lfsr >> 8) ^ (d.lfsr >> 4)) & 1
	d.lfsr = ((d.lfsr << 1) | bit) & 0x1FF
	return int(d.lfsr & 0x3 % 3)
}

// DelayLine writes line_buffer[x] = active[x - delay] over the active-video
// region [start,end), where delay is the sample count equivalent to the
// LFSR-selected horizontal delay.
func (d *Discret11) DelayLine(line []float64, start, end int) {
	sel := d.next()
	delay := int(d.delaysSec[sel] * d.sampleRate)
	width := end - start
	if delay <= 0 || delay >= width {
		return
	}

	shifted := make([]float64, width)
	fill := line[start]
	for i := 0; i < delay; i++ {
		shifted[i] = fill
	}
	copy(shifted[delay:], line[start:end-delay])
	copy(line[start:end], shifted)
}

// Reset reseeds the LFSR, used at the start of each new scrambling epoch.
func (d *Discret11) Reset(seed uint16) {
	if seed == 0 {
		seed = 1
	}
	d.lfsr = seed & 0x1FF
}
