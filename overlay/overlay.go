// Package overlay alpha-blends a PNG logo and a translucent caption bar onto
// a decoded frame buffer before line composition. Grounded on
// source/capture.go's ffmpeg drawtext/drawbox callsign overlay, the same
// concern moved in-process, using stdlib image/png for the logo. No text is
// rasterized: the timestamp/callsign caption is drawn as a blank bar, and
// Subtitles are held but not drawn.
package overlay

import (
	"image"
	"image/png"
	"io"
	"time"

	"hacktv/frame"
)

// Logo is a decoded PNG image positioned in the top-left by convention,
// blended with its own alpha channel.
type Logo struct {
	img    *image.NRGBA
	x, y   int
}

// LoadLogo decodes a PNG logo from r.
func LoadLogo(r io.Reader) (*Logo, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		b := img.Bounds()
		nrgba = image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				nrgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return &Logo{img: nrgba}, nil
}

// Subtitle is one timed line of burned-in subtitle text.
type Subtitle struct {
	StartMS, EndMS int64
	Text           string
}

// SubtitleList is an ordered sequence of subtitle entries with a monotonic
// read cursor.
type SubtitleList struct {
	entries []Subtitle
	cursor  int
}

// NewSubtitleList builds a list, entries must already be sorted by StartMS.
func NewSubtitleList(entries []Subtitle) *SubtitleList {
	return &SubtitleList{entries: entries}
}

// Active returns the subtitle text active at timeMS, or "" if none, advancing
// the monotonic cursor (subtitles never need to be looked up out of order
// since playback only moves forward).
func (s *SubtitleList) Active(timeMS int64) string {
	for s.cursor < len(s.entries) && s.entries[s.cursor].EndMS < timeMS {
		s.cursor++
	}
	if s.cursor < len(s.entries) {
		e := s.entries[s.cursor]
		if timeMS >= e.StartMS && timeMS < e.EndMS {
			return e.Text
		}
	}
	return ""
}

// Compositor blends overlays onto a frame buffer prior to line composition.
// It is the per-pipeline replacement for source/capture.go's ffmpeg
// drawtext/drawbox filter string.
type Compositor struct {
	Logo         *Logo
	ShowTimestamp bool
	Callsign     string
	Subtitles    *SubtitleList
	StartTime    time.Time
}

// Apply blends the configured overlays onto buf in place.
func (c *Compositor) Apply(buf *frame.Buffer) {
	if c == nil {
		return
	}
	if c.Logo != nil {
		c.blendLogo(buf)
	}
	if c.ShowTimestamp || c.Callsign != "" {
		c.drawCaptionBar(buf)
	}
}

func (c *Compositor) blendLogo(buf *frame.Buffer) {
	b := c.Logo.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		dy := c.Logo.y + y - b.Min.Y
		if dy < 0 || dy >= buf.Height {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := c.Logo.x + x - b.Min.X
			if dx < 0 || dx >= buf.Width {
				continue
			}
			lc := c.Logo.img.NRGBAAt(x, y)
			if lc.A == 0 {
				continue
			}
			bg := buf.At(dx, dy)
			buf.Set(dx, dy, alphaBlend(bg, frame.RGB{R: lc.R, G: lc.G, B: lc.B, A: lc.A}))
		}
	}
}

func alphaBlend(bg, fg frame.RGB) frame.RGB {
	a := float64(fg.A) / 255.0
	return frame.RGB{
		R: uint8(float64(fg.R)*a + float64(bg.R)*(1-a)),
		G: uint8(float64(fg.G)*a + float64(bg.G)*(1-a)),
		B: uint8(float64(fg.B)*a + float64(bg.B)*(1-a)),
	}
}

// drawCaptionBar draws a translucent black bar across the bottom 40 pixel
// rows, the same visual convention as source/capture.go's
// "drawbox=...color=black@0.6:t=fill" strip, as a stand-in for full glyph
// rasterization.
func (c *Compositor) drawCaptionBar(buf *frame.Buffer) {
	barHeight := 40
	if barHeight > buf.Height {
		barHeight = buf.Height
	}
	for y := buf.Height - barHeight; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			bg := buf.At(x, y)
			buf.Set(x, y, alphaBlend(bg, frame.RGB{A: 153})) // 0.6 * 255
		}
	}
}
