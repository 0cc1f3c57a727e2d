package feed

import (
	"sync"
	"sync/atomic"

	"hacktv/frame"
	"hacktv/metrics"
	"hacktv/overlay"
	"hacktv/rational"
)

// MediaSource is the boundary to the upstream demuxer/decoder this module
// does not implement: a two-function callback interface, grounded on
// source/capture.go's ffmpeg-backed reader but narrowed to the pull shape
// the pipeline's worker threads need.
type MediaSource interface {
	ReadVideo() (*frame.Buffer, error)
	ReadAudio(n int) ([]int16, error) // interleaved stereo PCM at SourceAudioSampleRate
	EOF() bool
	Close()
}

// Context is the per-pipeline state every worker goroutine and callback
// shares (design note: no legitimate global state, pass a Context instead of
// the teacher's package-level mutable fields).
type Context struct {
	Source  MediaSource
	Metrics *metrics.Registry
	Overlay *overlay.Compositor

	ModeTB        rational.Rational
	Width, Height int

	VideoQueue *PacketQueue
	Audio      *AudioRing

	DecodedVideo *FrameDoubleBuffer
	ScaledVideo  *FrameDoubleBuffer

	aborted atomic.Bool
	wg      sync.WaitGroup

	lastPTS int64
}

// NewContext wires up the queues and double-buffers for one pipeline
// instance. Every shared resource owns its own mutex/condvar pair rather
// than sharing one lock across stages, the same design note queue.go
// follows.
func NewContext(src MediaSource, m *metrics.Registry, ov *overlay.Compositor, modeTB rational.Rational, width, height int) *Context {
	return &Context{
		Source:       src,
		Metrics:      m,
		Overlay:      ov,
		ModeTB:       modeTB,
		Width:        width,
		Height:       height,
		VideoQueue:   NewPacketQueue(DefaultQueueCapacity),
		Audio:        NewAudioRing(),
		DecodedVideo: NewFrameDoubleBuffer(),
		ScaledVideo:  NewFrameDoubleBuffer(),
	}
}

// Start launches the video-scaler and audio-resampler worker goroutines;
// the composer itself runs on the caller's thread, pulling from ScaledVideo
// and Audio synchronously. hacktv-go's MediaSource boundary folds the
// demux+decode split the teacher's av_ffmpeg.c keeps separate into one
// ReadVideo/ReadAudio call pair, so only the scaler/time-align stage and
// the audio-resampler stage need their own goroutines here.
func (c *Context) Start(streamTB rational.Rational, sourceAudioRate int) {
	c.wg.Add(2)
	go c.videoScalerThread(streamTB)
	go c.audioResamplerThread(sourceAudioRate)
}

// Abort sets the process-wide-per-pipeline abort flag and wakes every
// blocked queue/double-buffer.
func (c *Context) Abort() {
	c.aborted.Store(true)
	c.VideoQueue.Abort()
	c.Audio.Abort()
	c.DecodedVideo.Abort()
	c.ScaledVideo.Abort()
}

// PullAudio drains nFrames interleaved stereo frames from the decoded audio
// ring for the composer to downmix into its subcarrier mixers. Exposed as a
// bound method value so main.go can hand it to compose.Composer.SetAudioSource
// without compose importing feed.
func (c *Context) PullAudio(nFrames int) []int16 {
	return c.Audio.Pull(nFrames)
}

// Wait blocks until all pipeline goroutines have exited.
func (c *Context) Wait() {
	c.wg.Wait()
}

func (c *Context) videoScalerThread(streamTB rational.Rational) {
	defer c.wg.Done()
	align := NewTimeAlign(streamTB, c.ModeTB)

	for !c.aborted.Load() {
		src, err := c.Source.ReadVideo()
		if err != nil {
			if c.Source.EOF() {
				c.ScaledVideo.Abort()
				return
			}
			// Treat a decode error as soft EOF for this stream: stop
			// cleanly rather than propagating the error upward.
			c.ScaledVideo.Abort()
			return
		}

		pts := src.PTS
		if pts == c.lastPTS && pts != 0 {
			// Unknown-timestamp frame inherits last_pts + 1/fps.
			pts = c.lastPTS + rational.Rescale(1, c.ModeTB, streamTB)
		}
		c.lastPTS = pts

		decision := align.Next(pts)
		if decision.Drop {
			if c.Metrics != nil {
				c.Metrics.FramesDropped.Inc()
			}
			continue
		}

		scaled := scaleAndLetterbox(src, c.Width, c.Height)
		if c.Overlay != nil {
			c.Overlay.Apply(scaled)
		}

		for i := 0; i < decision.Repeats; i++ {
			back := c.ScaledVideo.BackBuffer(c.Width, c.Height)
			*back = *scaled
			c.ScaledVideo.Ready(true)
			if c.Metrics != nil {
				c.Metrics.FramesRepeated.Inc()
			}
		}

		back := c.ScaledVideo.BackBuffer(c.Width, c.Height)
		*back = *scaled
		c.ScaledVideo.Ready(false)
	}
}

// scaleAndLetterbox resizes src to width×height using nearest-neighbour
// projection (no interpolation between pixels), operating on whole frames
// ahead of line composition rather than per-sample. The image is stretched
// to fill width×height; no letterbox or pillarbox bars are added.
func scaleAndLetterbox(src *frame.Buffer, width, height int) *frame.Buffer {
	dst := frame.NewBuffer(width, height)
	dst.PTS = src.PTS
	dst.PixelAspect = src.PixelAspect
	dst.Interlace = src.Interlace

	if src.Width == 0 || src.Height == 0 {
		return dst
	}

	for y := 0; y < height; y++ {
		sy := y * src.Height / height
		for x := 0; x < width; x++ {
			sx := x * src.Width / width
			dst.Set(x, y, src.At(sx, sy))
		}
	}
	return dst
}

// audioResamplerThread keeps pulling decoded PCM from the MediaSource and
// pushing it into the audio ring the composer drains from. sourceAudioRate
// is the MediaSource's own PCM rate (SourceAudioSampleRate); the chunk size
// is sized to roughly one NTSC/PAL frame period so a stalled or slow
// MediaSource never blocks the ring consumer for long.
func (c *Context) audioResamplerThread(sourceAudioRate int) {
	defer c.wg.Done()
	chunk := sourceAudioRate / 25
	if chunk < 1 {
		chunk = 1
	}
	for !c.aborted.Load() {
		if c.Source.EOF() {
			c.Audio.Abort()
			return
		}
		pcm, err := c.Source.ReadAudio(chunk)
		if err != nil {
			c.Audio.Abort()
			return
		}
		c.Audio.Push(pcm)
	}
}
