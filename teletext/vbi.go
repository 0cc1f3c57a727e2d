package teletext

// WSS encodes Wide Screen Signalling for line 23: a 14-bit data word
// carrying aspect ratio and a handful of subtitling/enhancement flags, per
// ETSI EN 300 294. The word is returned as plain bits; no biphase coding is
// applied.
type WSSAspect int

const (
	WSSAuto WSSAspect = iota
	WSS4x3
	WSS16x9
	WSSOff
)

// wssGroupCodes is the group 1 aspect-ratio code for each WSSAspect value
// that actually transmits (WSSAuto/WSSOff carry no line).
var wssGroupCodes = map[WSSAspect]uint16{
	WSS4x3:  0b0000, // full format 4:3
	WSS16x9: 0b0111, // 16:9 full format, letterbox centre (common broadcast value)
}

// EncodeWSS returns the 14-bit WSS data word for aspect (group 1 aspect
// code in the low 4 bits, groups 2-4 zero, not biphase-coded), or
// (0, false) if aspect carries no WSS line (auto/off).
func EncodeWSS(aspect WSSAspect) (bits uint16, ok bool) {
	code, present := wssGroupCodes[aspect]
	if !present {
		return 0, false
	}
	// Groups 2-4 (subtitling, camera/film, open/closed) left at their
	// broadcast-safe defaults (all zero: no subtitles, camera source, no
	// enhancement), matching a plain aspect-only transmission.
	return code, true
}

// CCByte pairs the two 7-bit (with parity) bytes line 21 closed-captioning
// carries per NTSC-style Line 21 Data Services.
type CCByte struct {
	B1, B2 byte
}

// EncodeCC applies odd parity to each caption byte, the same protection
// teletext's parityByte uses but independently named since closed
// captioning is not a teletext service.
func EncodeCC(b1, b2 byte) CCByte {
	return CCByte{B1: parityByte(b1), B2: parityByte(b2)}
}
