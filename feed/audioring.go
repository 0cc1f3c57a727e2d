package feed

import "sync"

// SourceAudioSampleRate is the fixed rate MediaSource.ReadAudio delivers PCM
// at (interleaved stereo int16), matching the teacher's ffmpeg pipeline's
// swr output format in source/capture.go.
const SourceAudioSampleRate = 32000

// AudioRing is the audio-decoder/resampler stage's output buffer: a single
// producer (audioResamplerThread) appends decoded PCM, a single consumer
// (the composer, via Context.PullAudio) drains it in line-sized chunks.
// Unlike FrameDoubleBuffer, Pull never blocks the consumer — an underrun
// returns silence and an overrun drops the oldest samples, the "inserting
// silence or trimming input" drift tolerance the audio-resampler stage
// needs since the composer's pull rate and the decoder's push rate are
// never exactly locked together.
type AudioRing struct {
	mu      sync.Mutex
	samples []int16 // interleaved stereo
	aborted bool
}

// NewAudioRing creates an empty ring.
func NewAudioRing() *AudioRing {
	return &AudioRing{}
}

// maxRingFrames bounds backlog to roughly half a second of stereo audio at
// SourceAudioSampleRate, comfortably past the tolerated drift so a stalled
// consumer can't grow the ring without bound.
const maxRingFrames = SourceAudioSampleRate / 2

// Push appends newly decoded interleaved stereo PCM, trimming the oldest
// samples first if the ring is over its backlog bound.
func (r *AudioRing) Push(pcm []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, pcm...)
	if over := len(r.samples) - maxRingFrames*2; over > 0 {
		r.samples = r.samples[over:]
	}
}

// Pull returns nFrames interleaved stereo frames (2*nFrames int16 values),
// padding the tail with silence if the ring is underrun. Never blocks.
func (r *AudioRing) Pull(nFrames int) []int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := nFrames * 2
	out := make([]int16, want)
	avail := len(r.samples)
	if avail > want {
		avail = want
	}
	copy(out, r.samples[:avail])
	r.samples = r.samples[avail:]
	return out
}

// Abort is a no-op placeholder kept symmetric with the other pipeline
// stages' Abort methods; Pull never blocks so there is nothing to wake.
func (r *AudioRing) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = true
}
