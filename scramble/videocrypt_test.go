package scramble

import "testing"

// fixtureTACKey is a fixed, clearly-synthetic key table: the real Sky/TAC
// card key is proprietary and is not present anywhere in
// videocrypt-ca.c, so no "real" key can be wired into a reproducible test.
// Using key.Bytes[i] = i lets every test in this file pin an exact,
// rerunnable control-word value derived by actually running processP07/
// kernel07 against this key, instead of asserting only cw != 0.
func fixtureTACKey() *Key {
	k := &Key{}
	for i := range k.Bytes {
		k.Bytes[i] = byte(i)
	}
	return k
}

// TestCRC checks the two's-complement-negation identity crc() implements:
// for any message whose first 31 bytes sum (mod 256) to 0x17, byte 31 must
// come out 0xE9. The TAC EMM prefix bytes are used for the first two bytes
// so the fixture reads like a real message, with one filler byte solved for
// to hit the documented sum.
func TestCRC(t *testing.T) {
	msg := make([]byte, 32)
	msg[0] = 0xE0
	msg[1] = 0x3F
	want := byte(0xE9)
	sum := byte(0)
	for i := 0; i < 31; i++ {
		sum += msg[i]
	}
	msg[2] = 0x17 - sum // remaining bytes are 0; solve msg[2] for sum(0..30) == 0x17
	got := crc(msg)
	if got != want {
		t.Fatalf("crc() = 0x%02X, want 0x%02X", got, want)
	}
}

// TestCRCOnTACMessage runs crc() over the message that xorSerial actually
// produces for the TAC EMM scenario (prefix E0 3F 3E EC 1C 60 0F, cmd 0x09,
// serial 0x12345678), pinning the real byte crc() emits for genuine message
// content rather than a solved-for filler.
func TestCRCOnTACMessage(t *testing.T) {
	msg := make([]byte, 32)
	copy(msg, []byte{0xE0, 0x3F, 0x3E, 0xEC, 0x1C, 0x60, 0x0F})
	xorSerial(msg, 0x09, 0x12345678, 0xA7)
	want := byte(0xD5)
	if got := crc(msg); got != want {
		t.Fatalf("crc(TAC message) = 0x%02X, want 0x%02X", got, want)
	}
}

// TestRevCW packs a hand-picked byte sequence and checks the little-endian
// assembly and high-nibble mask directly, rather than feeding in the
// byte-reversal of the expected output.
func TestRevCW(t *testing.T) {
	in := [8]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x18}
	want := uint64(0x0807060504030201) // in[7]&0x0F == 0x08, already masked
	got := revCW(in)
	if got != want {
		t.Fatalf("revCW(%v) = 0x%016X, want 0x%016X", in, got, want)
	}
}

// TestXTEAKernel runs 32 XTEA rounds over message bytes 11..18 = 0x00..07
// with the hard-coded key, exactly as videocrypt-ca.c's vc_seed_xtea does,
// and pins the resulting control word to the value that arithmetic actually
// produces (0x00889E2A6F4241C3): no proprietary key material is involved, so
// this vector is fully reproducible from the algorithm alone.
func TestXTEAKernel(t *testing.T) {
	message := make([]byte, 32)
	for i := 0; i < 8; i++ {
		message[11+i] = byte(i)
	}
	want := uint64(0x00889E2A6F4241C3)
	cw := processXTEA(message)
	if cw != want {
		t.Fatalf("processXTEA() = 0x%016X, want 0x%016X", cw, want)
	}
	if cw>>60 != 0 {
		t.Fatalf("processXTEA result has bits set above bit 59: 0x%016X", cw)
	}
	// Deterministic: same input always derives the same control word.
	message2 := make([]byte, 32)
	for i := 0; i < 8; i++ {
		message2[11+i] = byte(i)
	}
	again := processXTEA(message2)
	if cw != again {
		t.Fatalf("processXTEA is not deterministic: 0x%016X != 0x%016X", cw, again)
	}
}

// TestProcessPPV pins the control word the PPV/"dumb card" hash produces for
// an all-zero broadcast message and a simple card response, checking the
// hashPPV mixing pass and the final revCW packing end to end.
func TestProcessPPV(t *testing.T) {
	message := make([]byte, 32)
	cardData := [7]byte{1, 2, 3, 4, 5, 6, 7}

	want := uint64(0x05E6F9F34EA25137)
	if got := processPPV(message, cardData); got != want {
		t.Fatalf("processPPV() = 0x%016X, want 0x%016X", got, want)
	}
}

func TestRotateLeftAndSwapNibbles(t *testing.T) {
	if got := rotateLeft(0x81); got != 0x03 {
		t.Fatalf("rotateLeft(0x81) = 0x%02X, want 0x03", got)
	}
	if got := swapNibbles(0xAB); got != 0xBA {
		t.Fatalf("swapNibbles(0xAB) = 0x%02X, want 0xBA", got)
	}
}

func TestBlockApplyScrambleRoundTrips(t *testing.T) {
	b := &Block{}
	b.Codeword = 0x0E7A8B1A4F2C5D30
	b.rebuildCutTable()

	line := make([]float64, 64)
	for i := range line {
		line[i] = float64(i)
	}
	original := append([]float64(nil), line...)

	b.ApplyScramble(line, 8, 56, 42)
	if equalSlices(line, original) {
		t.Fatalf("ApplyScramble did not alter the active region")
	}

	// Applying the inverse cut (swap back at the complementary point
	// width-c, where c is the cut ApplyScramble used) restores the
	// original ordering.
	width := 56 - 8
	c := b.CutPoint(42) % width
	left := append([]float64(nil), line[8:8+width-c]...)
	right := append([]float64(nil), line[8+width-c:56]...)
	restored := append(append([]float64(nil), right...), left...)
	for i, v := range restored {
		line[8+i] = v
	}
	if !equalSlices(line, original) {
		t.Fatalf("cut-and-rotate is not its own inverse when reapplied manually")
	}
}

func equalSlices(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEMMCommandTables(t *testing.T) {
	sky07 := &CardMode{Kernel: ModeSky07}
	if got := EMMCommand(sky07, true, 0); got != 0x2C {
		t.Fatalf("EMMCommand(sky07, on, 0) = 0x%02X, want 0x2C", got)
	}
	if got := EMMCommand(sky07, false, 0); got != 0x0C {
		t.Fatalf("EMMCommand(sky07, off, 0) = 0x%02X, want 0x0C", got)
	}

	tac := &CardMode{Kernel: ModeTAC1}
	if got := EMMCommand(tac, true, 1); got != 0x09 {
		t.Fatalf("EMMCommand(tac, on, 1) = 0x%02X, want 0x09", got)
	}
}

// TestProcessP07MatchesTACVector runs the TAC EMM scenario (prefix E0 3F 3E
// EC 1C 60 0F, cmd 0x09 "enable card", serial 0x12345678) through the real
// xorSerial + processP07 pipeline against fixtureTACKey and pins the exact
// resulting control word. The real Sky/TAC card key is proprietary and
// absent from videocrypt-ca.c, so this test cannot reproduce a broadcast
// fixture's control word; what it can and does check is that the documented
// algorithm, run end to end against a fixed reproducible key, yields a
// fixed reproducible answer rather than a vacuous cw != 0.
func TestProcessP07MatchesTACVector(t *testing.T) {
	key := fixtureTACKey()

	message := make([]byte, 32)
	copy(message, []byte{0xE0, 0x3F, 0x3E, 0xEC, 0x1C, 0x60, 0x0F})
	xorSerial(message, 0x09, 0x12345678, 0xA7)

	want := uint64(0x01B865D2721FF9E6)
	cw := processP07(message, key, 0, ModeTAC1)
	if cw != want {
		t.Fatalf("processP07() = 0x%016X, want 0x%016X", cw, want)
	}
	if message[31] != crc(message) {
		t.Fatalf("message signature byte does not match crc() of the finished message")
	}
}

// TestBlockDeriveControlWordIsRandomized checks the property DeriveControlWord
// actually guarantees: every card reseed produces a control word, and
// consecutive reseeds differ (original vc_seed_sky/vc_seed_xtea randomize
// message bytes 8..26 per transmission), so no single fixed control word can
// ever be "the" documented value for this entry point.
func TestBlockDeriveControlWordIsRandomized(t *testing.T) {
	key := fixtureTACKey()
	mode := &CardMode{Name: "tac", Kernel: ModeTAC1, Key: key, KeyOffset: 0}

	b := &Block{}
	copy(b.Messages[5][:7], []byte{0xE0, 0x3F, 0x3E, 0xEC, 0x1C, 0x60, 0x0F})
	first := b.DeriveControlWord(mode)
	if first == 0 {
		t.Fatalf("DeriveControlWord produced a zero control word")
	}
	if b.Messages[5][31] != crc(b.Messages[5][:]) {
		t.Fatalf("message signature byte does not match crc() of the finished message")
	}

	second := b.DeriveControlWord(mode)
	if first == second {
		t.Fatalf("DeriveControlWord did not reseed: got the same control word twice")
	}
}
