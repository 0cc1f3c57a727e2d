// Package sound synthesizes the audio subcarriers a broadcast mode carries:
// FM mono, A2/Zweiton two-carrier stereo, and NICAM-728 DQPSK. Grounded on
// dsp.NCO (the same phase-continuous oscillator the colour subcarrier uses)
// and mode.AudioSubcarrier, which already carries each carrier's
// frequency/deviation/channel-mix from the mode descriptor.
package sound

import (
	"math"

	"hacktv/dsp"
	"hacktv/mode"
)

// FMCarrier synthesizes one FM mono/stereo-matrixed audio subcarrier. Its
// NCO phase is continuous across lines, mirroring the colour subcarrier's
// "absolute to line 1 field 1" phase requirement for the vision carrier.
type FMCarrier struct {
	spec mode.AudioSubcarrier
	nco  *dsp.NCO
}

// NewFMCarrier builds a carrier for one mode.AudioSubcarrier entry.
func NewFMCarrier(spec mode.AudioSubcarrier, sampleRate float64) *FMCarrier {
	return &FMCarrier{spec: spec, nco: dsp.NewNCO(spec.FrequencyHz, sampleRate)}
}

// Mix returns one sample of this carrier's contribution, frequency-modulated
// by audioSample (already mixed down to mono or matrixed per spec.Left/Right)
// scaled to ±1.0, added at amplitude.
func (c *FMCarrier) Mix(audioSample, sampleRate, amplitude float64) float64 {
	deviation := 2.0 * math.Pi * audioSample * c.spec.DeviationHz / sampleRate
	sin, _ := c.nco.NextFM(deviation)
	return amplitude * sin
}

// A2Stereo carries the two-carrier Zweiton/A2 stereo scheme: a second FM
// carrier at a fixed offset above the primary mono carrier, switchable
// between mono-compatible and stereo/dual-mono modes via a low-rate
// pilot tone added to the summed output of both carriers.
type A2Stereo struct {
	Primary, Secondary *FMCarrier
	pilot              *dsp.NCO
}

// NewA2Stereo builds the A2 carrier pair. secondaryOffsetHz is conventionally
// 242kHz (System B/G) above the primary for FM stereo television sound.
func NewA2Stereo(primary mode.AudioSubcarrier, secondaryOffsetHz, sampleRate float64) *A2Stereo {
	secondary := primary
	secondary.FrequencyHz += secondaryOffsetHz
	return &A2Stereo{
		Primary:   NewFMCarrier(primary, sampleRate),
		Secondary: NewFMCarrier(secondary, sampleRate),
		pilot:     dsp.NewNCO(54687.5, sampleRate), // dual-carrier identification pilot
	}
}

// Mix sums the primary (left+right sum, mono-compatible) and secondary
// (left-right difference, carries stereo/dual-mono identification) carrier
// contributions for one sample.
func (a *A2Stereo) Mix(left, right, sampleRate, amplitude float64) float64 {
	sum := (left + right) / 2
	diff := (left - right) / 2
	pilotSin, _ := a.pilot.Next()
	return a.Primary.Mix(sum, sampleRate, amplitude) +
		a.Secondary.Mix(diff, sampleRate, amplitude) +
		0.05*amplitude*pilotSin
}
