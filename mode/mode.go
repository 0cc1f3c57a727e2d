// Package mode holds the immutable per-standard timing and level tables.
// It generalizes the hard-coded constants the teacher scatters across
// video/pal.go and video/ntsc.go into one data table
// keyed by mode name, so the composer can be a single table-driven state
// machine instead of one Go type per standard.
package mode

import "hacktv/rational"

// Family distinguishes the colour/line-count family a mode belongs to. The
// composer and colour encoder dispatch on this rather than on the mode name.
type Family int

const (
	FamilyPAL Family = iota
	FamilyNTSC
	FamilySECAM
	FamilyMAC
)

// AudioSubcarrier describes one FM or NICAM sound carrier riding alongside
// the vision carrier.
type AudioSubcarrier struct {
	FrequencyHz float64
	DeviationHz float64
	Left, Right bool // which channel(s) this carrier mixes
	NICAM       bool
}

// Timings holds the standard's line geometry expressed in seconds, the form
// every broadcast spec publishes it in. Resolve turns these into integral
// sample counts for a given sample rate.
type Timings struct {
	HSync       float64
	VSyncPulse  float64
	EqPulse     float64
	BurstStart  float64
	BurstWidth  float64
	ActiveStart float64
	ActiveWidth float64
}

// Descriptor is the immutable set of parameters for one TV standard. A
// Descriptor returned by Get is a template; Resolve(sampleRate) returns a
// concrete copy with *Samples fields filled in for that rate.
type Descriptor struct {
	Name   string
	Family Family

	FrameRate      rational.Rational
	LinesPerFrame  int
	ActiveLines    int
	Interlaced     bool
	FieldsPerFrame int

	Timings Timings

	// Derived sample counts, valid only after Resolve.
	SampleRate     rational.Rational
	SamplesPerLine int
	HSyncSamples   int
	VSyncSamples   int
	EqPulseSamples int
	BurstStart     int
	BurstEnd       int
	ActiveStart    int
	ActiveSamples  int

	// Levels are expressed on the same 0-100 IRE-like scale the teacher uses
	// (levelSync=-40, levelBlack=0 or 7.5, levelWhite=100).
	LevelSync      float64
	LevelBlanking  float64
	LevelBlack     float64
	LevelWhite     float64
	BurstAmplitude float64

	ChromaSubcarrierHz float64
	VInverted          bool // PAL's line-alternating V axis
	SECAMDeviation     float64

	AudioSubcarriers []AudioSubcarrier

	// VBI line assignments, 1-indexed within a frame.
	TeletextLines []int
	WSSLine       int
	CCLine        int
}

// Resolve returns a copy of d with sample counts computed for sampleRate,
// mirroring NewPAL/NewNTSC's int(seconds * sampleRate) arithmetic.
func (d Descriptor) Resolve(sampleRate rational.Rational) *Descriptor {
	sr := sampleRate.Float64()
	lineDuration := 1.0 / (d.FrameRate.Float64() * float64(d.LinesPerFrame))

	d.SampleRate = sampleRate
	d.SamplesPerLine = int(lineDuration * sr)
	d.HSyncSamples = int(d.Timings.HSync * sr)
	d.VSyncSamples = int(d.Timings.VSyncPulse * sr)
	d.EqPulseSamples = int(d.Timings.EqPulse * sr)
	d.BurstStart = int(d.Timings.BurstStart * sr)
	d.BurstEnd = d.BurstStart + int(d.Timings.BurstWidth*sr)
	d.ActiveStart = int(d.Timings.ActiveStart * sr)
	d.ActiveSamples = int(d.Timings.ActiveWidth * sr)
	return &d
}

// SamplesPerFrame returns the total baseband samples in one complete frame.
func (d *Descriptor) SamplesPerFrame() int {
	return d.SamplesPerLine * d.LinesPerFrame
}

// Catalogue is the set of built-in modes, addressable by the §6 `mode` knob.
var Catalogue = map[string]*Descriptor{}

func register(d *Descriptor) {
	Catalogue[d.Name] = d
}

// Get looks up a mode by its §6 configuration name.
func Get(name string) (*Descriptor, bool) {
	d, ok := Catalogue[name]
	return d, ok
}

func init() {
	registerPALFamily()
	registerNTSCFamily()
	registerSECAMFamily()
	registerMACFamily()
}
