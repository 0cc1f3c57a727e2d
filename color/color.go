// Package color implements the RGB-to-luminance/chrominance matrices and
// chroma modulation schemes a colour encoder needs: PAL's line-inverted-V
// QAM, NTSC's balanced-AM QAM, and SECAM's line-sequential FM. It
// generalizes the per-pixel matrix math the teacher inlines in pal.go's
// getPixelYUV and ntsc.go's getPixelYIQ.
package color

import (
	"math"

	"hacktv/mode"
)

// YUV is a luma/chroma triple already scaled to the mode's black/white
// levels.
type YUV struct {
	Y, U, V float64
}

// RGBToYUV applies the PAL/SECAM 601-style matrix, matching pal.go's
// constants (0.493/0.877 U/V scale factors).
func RGBToYUV(r, g, b float64, d *mode.Descriptor) YUV {
	y := 0.299*r + 0.587*g + 0.114*b
	u := -0.147*r - 0.289*g + 0.436*b
	v := 0.615*r - 0.515*g - 0.100*b

	scale := d.LevelWhite - d.LevelBlack
	return YUV{
		Y: d.LevelBlack + y/255.0*scale,
		U: u / 255.0 * scale * 0.493,
		V: v / 255.0 * scale * 0.877,
	}
}

// YIQ is NTSC's luma/in-phase/quadrature triple, matching ntsc.go's
// getPixelYIQ matrix exactly.
type YIQ struct {
	Y, I, Q float64
}

// RGBToYIQ applies the NTSC matrix.
func RGBToYIQ(r, g, b float64, d *mode.Descriptor) YIQ {
	y := 0.299*r + 0.587*g + 0.114*b
	i := 0.596*r - 0.274*g - 0.322*b
	q := 0.211*r - 0.523*g + 0.312*b

	scale := d.LevelWhite - d.LevelBlack
	return YIQ{
		Y: d.LevelBlack + y/255.0*scale,
		I: i / 255.0 * scale,
		Q: q / 255.0 * scale,
	}
}

// ModulatePAL returns the chroma contribution to add to the luma sample:
// U*sin(phase) + V'*cos(phase), where V' is inverted on odd lines — PAL's
// defining trick for cancelling phase errors that plain NTSC QAM lacks.
func ModulatePAL(c YUV, sinPhase, cosPhase float64, lineOdd bool) float64 {
	v := c.V
	if lineOdd {
		v = -v
	}
	return c.U*sinPhase + v*cosPhase
}

// ModulateNTSC returns the balanced-AM chroma contribution for NTSC:
// I*cos(phase) + Q*sin(phase), matching ntsc.go's GenerateFullFrame.
func ModulateNTSC(c YIQ, sinPhase, cosPhase float64) float64 {
	return c.I*cosPhase + c.Q*sinPhase
}

// Dr, Db are SECAM's alternating colour-difference signals, each carried as
// frequency modulation on its own line rather than multiplexed in quadrature.
type SECAMLine struct {
	Y       float64
	Color   float64 // Dr on odd lines, Db on even lines
	IsDr    bool
}

// RGBToSECAM computes luma plus the unmodulated colour-difference value this
// line carries. It applies no FM subcarrier modulation and no de-emphasis.
func RGBToSECAM(r, g, b float64, d *mode.Descriptor, isDrLine bool) SECAMLine {
	y := 0.299*r + 0.587*g + 0.114*b
	scale := d.LevelWhite - d.LevelBlack
	yScaled := d.LevelBlack + y/255.0*scale

	var diff float64
	if isDrLine {
		// Dr = -1.902*(B'-Y') in the CCIR 601 SECAM definition
		diff = -1.902 * ((b / 255.0) - y/255.0)
	} else {
		// Db = 1.505*(R'-Y')
		diff = 1.505 * ((r / 255.0) - y/255.0)
	}
	return SECAMLine{Y: yScaled, Color: diff, IsDr: isDrLine}
}

// FMDeviationIncrement gives the phase-increment delta for frequency-
// modulating one SECAM colour-difference sample onto a carrier whose
// instantaneous frequency is restHz + value*deviationHz, for a single sample
// period. The caller supplies the rest phase increment
// (2π*restHz/sampleRate); this returns the delta to add for one sample's
// worth of deviation.
func FMDeviationIncrement(value, deviationHz, sampleRate float64) float64 {
	return 2.0 * math.Pi * value * deviationHz / sampleRate
}
