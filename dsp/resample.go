package dsp

// Resampler converts a stream sampled at inRate into one sampled at outRate
// using a FIR low-pass filter followed by linear interpolation between
// filtered samples (not a polyphase filter bank), playing the same role as
// the ffmpeg swr converter names for the audio path, without pulling in a
// C binding: audio here is always PCM already decoded by the upstream media
// pipeline, so only the rate-conversion arithmetic belongs in this module.
type Resampler struct {
	ratio    float64 // outRate / inRate
	taps     []float64
	state    []float64
	position float64
}

// NewResampler builds a resampler from inRate to outRate with a low-pass
// cutoff at the lower of the two Nyquist rates to avoid aliasing.
func NewResampler(inRate, outRate float64, numTaps int) *Resampler {
	cutoff := inRate
	if outRate < inRate {
		cutoff = outRate
	}
	return &Resampler{
		ratio: outRate / inRate,
		taps:  DesignFIR(numTaps, cutoff*0.9, inRate),
		state: make([]float64, numTaps-1),
	}
}

// Process filters in and resamples it, returning exactly the number of
// samples needed to advance the internal phase by len(in) input samples times
// the ratio; fractional remainders are carried to the next call so that long
// streams never drift.
func (r *Resampler) Process(in []float64) []float64 {
	filtered := Convolve(in, r.taps, r.state)

	var out []float64
	pos := r.position
	for pos < float64(len(filtered)) {
		i0 := int(pos)
		frac := pos - float64(i0)
		var s0, s1 float64
		s0 = filtered[i0]
		if i0+1 < len(filtered) {
			s1 = filtered[i0+1]
		} else {
			s1 = s0
		}
		out = append(out, s0+(s1-s0)*frac)
		pos += 1.0 / r.ratio
	}
	r.position = pos - float64(len(filtered))
	return out
}

// ProcessN resamples in and pads/truncates the result to exactly n samples,
// used by the audio resampler stage which must always hand the composer
// exactly a fixed frame size of samples per call.
func (r *Resampler) ProcessN(in []float64, n int) []float64 {
	out := r.Process(in)
	if len(out) == n {
		return out
	}
	fixed := make([]float64, n)
	copy(fixed, out)
	return fixed
}
