package feed

import (
	"time"

	"hacktv/frame"
)

// TestPatternSource is a MediaSource that generates SMPTE colour bars at a
// fixed frame rate with silence for audio, standing in for an external
// demuxer when no media file/device is configured. Grounded on the
// teacher's video/testpattern.go FillColorBars, moved here since the
// frame-buffer ownership model it assumed (a package-level mutex-guarded
// raw buffer) no longer exists once frame.Buffer/MediaSource replace it.
type TestPatternSource struct {
	Width, Height int
	FrameDuration time.Duration

	pts      int64
	ptsStep  int64
	lastTime time.Time
}

// NewTestPatternSource builds a source producing width×height colour-bar
// frames, one every frameDuration, with PTS in the given timebase units
// (ptsStep added per frame, e.g. 1 for a 1/fps timebase).
func NewTestPatternSource(width, height int, frameDuration time.Duration, ptsStep int64) *TestPatternSource {
	return &TestPatternSource{Width: width, Height: height, FrameDuration: frameDuration, ptsStep: ptsStep}
}

var smpteBarColors = [7]frame.RGB{
	{R: 192, G: 192, B: 192},
	{R: 192, G: 192, B: 0},
	{R: 0, G: 192, B: 192},
	{R: 0, G: 192, B: 0},
	{R: 192, G: 0, B: 192},
	{R: 192, G: 0, B: 0},
	{R: 0, G: 0, B: 192},
}

// ReadVideo blocks until the next frame's notional generation time, then
// returns one fresh colour-bars frame (the same 7-vertical-stripe pattern
// FillColorBars drew, now written directly into a frame.Buffer).
func (s *TestPatternSource) ReadVideo() (*frame.Buffer, error) {
	if !s.lastTime.IsZero() {
		elapsed := time.Since(s.lastTime)
		if elapsed < s.FrameDuration {
			time.Sleep(s.FrameDuration - elapsed)
		}
	}
	s.lastTime = time.Now()

	buf := frame.NewBuffer(s.Width, s.Height)
	barWidth := s.Width / 7
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			idx := x / barWidth
			if idx >= 7 {
				idx = 6
			}
			buf.Set(x, y, smpteBarColors[idx])
		}
	}
	buf.PTS = s.pts
	s.pts += s.ptsStep
	return buf, nil
}

// ReadAudio returns n silent stereo samples; the test pattern carries no
// real audio.
func (s *TestPatternSource) ReadAudio(n int) ([]int16, error) {
	return make([]int16, n*2), nil
}

func (s *TestPatternSource) EOF() bool { return false }
func (s *TestPatternSource) Close()    {}
