// Package compose implements the master line composer / field scheduler: a
// synchronous, pull-mode state machine that tracks (field, line, sample),
// produces one baseband line at a time, and is entirely table-driven off a
// mode.Descriptor. Grounded on the teacher's pal.go/ntsc.go GenerateFullFrame
// loops (the per-line sample-filling walk they hand-roll per standard),
// generalized here into one state machine shared by every mode family and
// driven synchronously from the sink's own thread rather than a goroutine,
// so its resume point stays exactly (field, line, sample) with no implicit
// concurrency to reason about.
package compose

import (
	"hacktv/color"
	"hacktv/dsp"
	"hacktv/frame"
	"hacktv/mode"
	"hacktv/scramble"
	"hacktv/sound"
	"hacktv/teletext"
)

// LineKind classifies one scanline for the purposes of generateLine's fixed
// recipe (sync/blanking always first, then a kind-specific body).
type LineKind int

const (
	LineNormal LineKind = iota
	LineHalf
	LineEqualiser
	LineVSyncBroad
	LineVBI
	LineTeletext
)

// Composer is the field scheduler. It holds no mode-specific code: every
// per-standard decision is a table lookup against Mode.
type Composer struct {
	Mode *mode.Descriptor

	FetchFrame func() *frame.Buffer // pulls the current scaled-video frame, called once per new frame boundary

	ChromaNCO     *dsp.NCO
	AudioCarriers []audioMixer
	Teletext      *teletext.Store
	Scrambler     scramble.Scrambler

	fetchAudio      func(nFrames int) []int16 // pulls decoded PCM, wired by SetAudioSource
	audioSourceRate float64

	field     int
	line      int // 0-indexed within LinesPerFrame
	sample    int
	lineBuf   []float64
	lineValid bool

	currentFrame *frame.Buffer
}

type audioMixer interface {
	Mix(audioSample, sampleRate, amplitude float64) float64
}

// New builds a composer for a resolved mode descriptor (the caller must
// have called Descriptor.Resolve first).
func New(d *mode.Descriptor) *Composer {
	return &Composer{
		Mode:      d,
		ChromaNCO: dsp.NewNCO(d.ChromaSubcarrierHz, d.SampleRate.Float64()),
		lineBuf:   make([]float64, d.SamplesPerLine),
	}
}

// SetAudioSource wires the feed pipeline's decoded-audio ring into the
// composer: fetch pulls nFrames interleaved stereo frames (never blocking,
// padding with silence on underrun — see feed.AudioRing), and sourceRate is
// the rate those frames were decoded at. Once wired, mixAudio drives every
// FM/NICAM subcarrier with the real downmixed PCM instead of silence.
func (c *Composer) SetAudioSource(fetch func(nFrames int) []int16, sourceRate float64) {
	c.fetchAudio = fetch
	c.audioSourceRate = sourceRate
}

// Read fills out with up to len(out) baseband samples, refilling its
// internal line buffer by generating the next line whenever empty: the sink
// requests N samples, the composer fills N from its internal line buffer,
// refilling by generating the next line whenever empty. Returns the number
// of samples written.
func (c *Composer) Read(out []float64) int {
	n := 0
	for n < len(out) {
		if !c.lineValid {
			c.generateLine()
		}
		avail := len(c.lineBuf) - c.sample
		take := len(out) - n
		if take > avail {
			take = avail
		}
		copy(out[n:n+take], c.lineBuf[c.sample:c.sample+take])
		c.sample += take
		n += take

		if c.sample >= len(c.lineBuf) {
			c.advanceLine()
		}
	}
	return n
}

// advanceLine moves the resume point to the next line, wrapping fields and
// frames as needed, and invalidates the line buffer so the next Read call
// regenerates it.
func (c *Composer) advanceLine() {
	c.sample = 0
	c.lineValid = false
	c.line++
	if c.line >= c.Mode.LinesPerFrame/c.Mode.FieldsPerFrame {
		c.line = 0
		c.field = (c.field + 1) % c.Mode.FieldsPerFrame
		if c.field == 0 {
			c.currentFrame = nil // force a fresh pull on the next active line
			if c.Scrambler != nil {
				c.Scrambler.NextFrame()
			}
		}
	}
}

// absoluteLine returns this line's 1-indexed position within the whole
// frame (interlacing-aware), used for active-video row lookups and the
// "absolute to line 1 field 1" NCO phase requirement.
func (c *Composer) absoluteLine() int {
	linesPerField := c.Mode.LinesPerFrame / c.Mode.FieldsPerFrame
	return c.field*linesPerField + c.line + 1
}

// classify determines this line's LineKind from the mode's VBI line
// assignments, given the current (field, line) coordinate.
func (c *Composer) classify() LineKind {
	abs := c.absoluteLine()
	linesPerField := c.Mode.LinesPerFrame / c.Mode.FieldsPerFrame

	if c.line < 3 {
		return LineVSyncBroad
	}
	if c.line < 5 {
		return LineEqualiser
	}

	for _, tl := range c.Mode.TeletextLines {
		if tl == abs || tl == c.line+1 {
			return LineTeletext
		}
	}
	if c.Mode.WSSLine != 0 && (c.Mode.WSSLine == abs || c.Mode.WSSLine == c.line+1) {
		return LineVBI
	}
	if c.line >= linesPerField-c.Mode.ActiveLines/c.Mode.FieldsPerFrame {
		return LineNormal
	}
	return LineVBI
}

// generateLine produces exactly one line's worth of baseband into lineBuf:
// sync/blanking first, then a kind-specific body.
func (c *Composer) generateLine() {
	d := c.Mode
	buf := c.lineBuf
	for i := range buf {
		buf[i] = d.LevelBlanking
	}

	c.drawSync()

	kind := c.classify()
	switch kind {
	case LineNormal:
		c.drawActiveVideo()
	case LineTeletext:
		c.drawTeletext()
	case LineVBI:
		c.ChromaNCO.Skip(d.SamplesPerLine - d.ActiveStart)
	case LineEqualiser, LineVSyncBroad:
		// Sync already drawn; no active content, no subcarrier phase to
		// preserve since these lines precede the first active line.
	}

	c.mixAudio()
	c.lineValid = true
}

// drawSync writes the horizontal sync pulse at the front of the line at
// sample resolution.
func (c *Composer) drawSync() {
	d := c.Mode
	for i := 0; i < d.HSyncSamples && i < len(c.lineBuf); i++ {
		c.lineBuf[i] = d.LevelSync
	}
	if d.Family == mode.FamilyPAL || d.Family == mode.FamilySECAM {
		// PAL swings its burst phase by ±(180°-45°) every other line,
		// tracking the same V-axis switch ModulatePAL applies to active
		// video on odd lines.
		sign := 1.0
		if d.Family == mode.FamilyPAL && c.line%2 == 1 {
			sign = -1.0
		}
		for i := d.BurstStart; i < d.BurstEnd && i < len(c.lineBuf); i++ {
			sin, cos := c.ChromaNCO.Next()
			c.lineBuf[i] += d.BurstAmplitude * (-sin + sign*cos) * 0.5
		}
	} else {
		c.ChromaNCO.Skip(d.BurstEnd - d.BurstStart)
	}
}

// drawActiveVideo projects the current frame's row for this line into
// sample space: each active sample takes the nearest source pixel of the
// corresponding row (no interpolation between pixels and no gamma
// correction), which is matrixed to Y and chroma channels and summed at
// sample level. The colour subcarrier comes
// from an NCO whose phase is absolute to line 1 field 1.
func (c *Composer) drawActiveVideo() {
	d := c.Mode
	if c.currentFrame == nil && c.FetchFrame != nil {
		c.currentFrame = c.FetchFrame()
	}
	if c.currentFrame == nil {
		c.ChromaNCO.Skip(d.ActiveSamples)
		return
	}

	linesPerField := d.LinesPerFrame / d.FieldsPerFrame
	activeLineIdx := c.line - (linesPerField - d.ActiveLines/d.FieldsPerFrame)
	if activeLineIdx < 0 {
		activeLineIdx = 0
	}
	row := activeLineIdx*d.FieldsPerFrame + c.field
	if row >= c.currentFrame.Height {
		row = c.currentFrame.Height - 1
	}

	for i := 0; i < d.ActiveSamples; i++ {
		x := i * c.currentFrame.Width / d.ActiveSamples
		px := c.currentFrame.At(x, row)
		r, g, b := float64(px.R), float64(px.G), float64(px.B)

		idx := d.ActiveStart + i
		if idx >= len(c.lineBuf) {
			break
		}

		switch d.Family {
		case mode.FamilyNTSC:
			yiq := color.RGBToYIQ(r, g, b, d)
			sin, cos := c.ChromaNCO.Next()
			c.lineBuf[idx] = yiq.Y + color.ModulateNTSC(yiq, sin, cos)
		case mode.FamilySECAM:
			secam := color.RGBToSECAM(r, g, b, d, c.line%2 == 1)
			c.ChromaNCO.Skip(1)
			c.lineBuf[idx] = secam.Y + secam.Color*d.SECAMDeviation
		default: // PAL and MAC share the QAM composite path here
			yuv := color.RGBToYUV(r, g, b, d)
			sin, cos := c.ChromaNCO.Next()
			c.lineBuf[idx] = yuv.Y + color.ModulatePAL(yuv, sin, cos, c.line%2 == 1)
		}
	}

	if c.Scrambler != nil {
		c.Scrambler.ScrambleLine(c.lineBuf, d.ActiveStart, d.ActiveStart+d.ActiveSamples, c.absoluteLine())
	}
}

// drawTeletext overrides the active-video region with one VBI teletext
// packet.
func (c *Composer) drawTeletext() {
	d := c.Mode
	c.ChromaNCO.Skip(d.ActiveSamples)
	if c.Teletext == nil {
		return
	}
	page := c.Teletext.Next()
	if page == nil {
		return
	}
	row := c.line % len(page.Rows)
	packet := teletext.EncodeRow(1, row, page.Rows[row])

	start := d.ActiveStart
	samplesPerBit := d.ActiveSamples / (len(packet) * 8)
	if samplesPerBit == 0 {
		return
	}
	pos := start
	for _, b := range packet {
		for bit := 7; bit >= 0; bit-- {
			level := d.LevelBlack
			if (b>>uint(bit))&1 != 0 {
				level = d.LevelWhite
			}
			for s := 0; s < samplesPerBit && pos < len(c.lineBuf); s++ {
				c.lineBuf[pos] = level
				pos++
			}
		}
	}
}

// mixAudio sums every configured audio subcarrier's contribution into this
// line: one NCO per FM subcarrier, phase continuous across lines, each
// driven by this line's downmixed PCM sample from nextAudioSample.
func (c *Composer) mixAudio() {
	if len(c.AudioCarriers) == 0 {
		return
	}
	sample := c.nextAudioSample()
	sampleRate := c.Mode.SampleRate.Float64()
	for _, m := range c.AudioCarriers {
		for i := range c.lineBuf {
			v := m.Mix(sample, sampleRate, 1.0)
			if i >= c.Mode.ActiveStart {
				c.lineBuf[i] += v * 0.1
			}
		}
	}
}

// nextAudioSample pulls this line's share of decoded PCM from the wired
// audio source and downmixes it to one mono sample scaled to ±1.0, the unit
// every audioMixer.Mix expects. A TV line lasts 1/(lines-per-second)
// seconds, so its share of a audioSourceRate-Hz stream is
// audioSourceRate/linesPerSecond frames, rounded to the nearest frame with
// a minimum of one frame so fast line rates never starve the ring.
func (c *Composer) nextAudioSample() float64 {
	if c.fetchAudio == nil {
		return 0
	}
	linesPerSecond := c.Mode.FrameRate.Float64() * float64(c.Mode.LinesPerFrame)
	n := int(c.audioSourceRate/linesPerSecond + 0.5)
	if n < 1 {
		n = 1
	}
	pcm := c.fetchAudio(n)
	if len(pcm) == 0 {
		return 0
	}
	var sum float64
	for _, s := range pcm {
		sum += float64(s)
	}
	return (sum / float64(len(pcm))) / 32768.0
}

// AddFMCarrier appends an FM mono/matrixed subcarrier built from the mode's
// own AudioSubcarrier table.
func (c *Composer) AddFMCarrier(spec mode.AudioSubcarrier) {
	c.AudioCarriers = append(c.AudioCarriers, sound.NewFMCarrier(spec, c.Mode.SampleRate.Float64()))
}
