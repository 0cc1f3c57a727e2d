package scramble

// Scrambler is the common per-line transform every conditional-access
// engine implements, letting the composer dispatch without knowing which
// scheme is active (design note 9 "Dynamic dispatch across scramblers":
// one interface, tagged construction, no scheme-specific branching in the
// composer).
type Scrambler interface {
	// ScrambleLine transforms the active-video samples of one line in
	// place. frameLine is the absolute line number within the current
	// field/frame, used to select per-line keys/permutations/delays.
	ScrambleLine(line []float64, activeStart, activeEnd, frameLine int)

	// NextFrame advances any per-frame key/cadence state. Called once per
	// video frame, after its last line has been scrambled.
	NextFrame()

	// Name identifies the active scheme for logging/metrics labels.
	Name() string
}

// Kind enumerates the conditional-access schemes this package implements.
type Kind string

const (
	KindNone       Kind = "none"
	KindVideocrypt1 Kind = "videocrypt1"
	KindVideocrypt2 Kind = "videocrypt2"
	KindSyster     Kind = "syster"
	KindDiscret11  Kind = "discret11"
)

// vc1Adapter/vc2Adapter/systerAdapter/discret11Adapter wrap the
// per-scheme types so they satisfy Scrambler with a stable Name(); Block
// and Block2 take a *CardMode at call time rather than storing it, so the
// adapters close over the mode chosen at construction.

type vc1Adapter struct {
	block *Block
	mode  *CardMode
}

func (a *vc1Adapter) ScrambleLine(line []float64, start, end, frameLine int) {
	a.block.ApplyScramble(line, start, end, frameLine)
}
func (a *vc1Adapter) NextFrame() {
	a.block.Phase = (a.block.Phase + 1) % 64
	if a.block.Phase == 0 {
		a.block.DeriveControlWord(a.mode)
	}
}
func (a *vc1Adapter) Name() string { return string(KindVideocrypt1) }

type vc2Adapter struct {
	block *Block2
	mode  *CardMode
}

func (a *vc2Adapter) ScrambleLine(line []float64, start, end, frameLine int) {
	a.block.ApplyScramble(line, start, end, frameLine)
}
func (a *vc2Adapter) NextFrame() {
	a.block.Phase = (a.block.Phase + 1) % 64
	if a.block.Phase == 0 {
		a.block.DeriveControlWord(a.mode)
	}
}
func (a *vc2Adapter) Name() string { return string(KindVideocrypt2) }

type systerAdapter struct{ s *Syster }

func (a *systerAdapter) ScrambleLine(line []float64, start, end, frameLine int) {
	a.s.ScrambleLine(line, start, end, frameLine)
}
func (a *systerAdapter) NextFrame() { a.s.NextFrame() }
func (a *systerAdapter) Name() string { return string(KindSyster) }

type discret11Adapter struct{ d *Discret11 }

func (a *discret11Adapter) ScrambleLine(line []float64, start, end, frameLine int) {
	a.d.DelayLine(line, start, end)
}
func (a *discret11Adapter) NextFrame() {}
func (a *discret11Adapter) Name() string { return string(KindDiscret11) }

// New constructs the Scrambler named by kind. mode/seed/sampleRate are
// interpreted according to kind and otherwise ignored (e.g. seed and
// sampleRate are unused for the two Videocrypt variants).
func New(kind Kind, mode *CardMode, seed uint64, sampleRate float64) Scrambler {
	switch kind {
	case KindVideocrypt1:
		b := &Block{}
		b.DeriveControlWord(mode)
		return &vc1Adapter{block: b, mode: mode}
	case KindVideocrypt2:
		b := &Block2{}
		b.DeriveControlWord(mode)
		return &vc2Adapter{block: b, mode: mode}
	case KindSyster:
		return &systerAdapter{s: NewSyster(seed)}
	case KindDiscret11:
		return &discret11Adapter{d: NewDiscret11(uint16(seed), sampleRate)}
	default:
		return nil
	}
}
