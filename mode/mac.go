package mode

import "hacktv/rational"

// MAC modes carry vision as FM and sound/data as a duobinary burst in the
// line's data segment rather than a separate subcarrier, so their timing
// table describes a multiplexed analogue component (MAC) line rather than a
// composite one. hacktv-go treats the MAC duobinary sound burst as just
// another AudioSubcarrier entry with DeviationHz 0 (FM-wide, not AM) so the
// composer's generic per-line audio mixing loop does not need a
// MAC-specific branch.
func registerMACFamily() {
	base := Descriptor{
		Family:         FamilyMAC,
		FrameRate:      rational.New(25, 1),
		LinesPerFrame:  625,
		ActiveLines:    576,
		Interlaced:     true,
		FieldsPerFrame: 2,
		Timings: Timings{
			HSync:       4.7e-6,
			VSyncPulse:  27.3e-6,
			EqPulse:     2.35e-6,
			BurstStart:  0, // MAC has no analogue colour burst
			BurstWidth:  0,
			ActiveStart: 12.0e-6,
			ActiveWidth: 50.0e-6,
		},
		LevelSync:      -40.0,
		LevelBlanking:  0.0,
		LevelBlack:     0.0,
		LevelWhite:     100.0,
		BurstAmplitude: 0.0,
		TeletextLines:  []int{},
		WSSLine:        0,
	}

	d2 := base
	d2.Name = "mac-d2"
	d2.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 0, DeviationHz: 0, Left: true, Right: true},
	}
	register(&d2)

	d := base
	d.Name = "mac-d"
	d.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 0, DeviationHz: 0, Left: true, Right: true},
	}
	register(&d)
}
