package mode

import "hacktv/rational"

// SECAM carries colour as FM, alternating Dr/Db between lines rather than
// QAM-multiplexing both as PAL/NTSC do, so ChromaSubcarrierHz here is the
// *rest* frequency the FM deviates around.
func registerSECAMFamily() {
	base := Descriptor{
		Family:         FamilySECAM,
		FrameRate:      rational.New(25, 1),
		LinesPerFrame:  625,
		ActiveLines:    576,
		Interlaced:     true,
		FieldsPerFrame: 2,
		Timings: Timings{
			HSync:       4.7e-6,
			VSyncPulse:  27.3e-6,
			EqPulse:     2.35e-6,
			BurstStart:  5.6e-6,
			BurstWidth:  2.25e-6,
			ActiveStart: 10.5e-6,
			ActiveWidth: 52.0e-6,
		},
		LevelSync:          -40.0,
		LevelBlanking:      0.0,
		LevelBlack:         0.0,
		LevelWhite:         100.0,
		BurstAmplitude:     0.0, // SECAM has no colour burst; line-ident bottle replaces it
		ChromaSubcarrierHz: 4406250.0,
		SECAMDeviation:     280000.0,
		TeletextLines:      []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22},
		WSSLine:            23,
	}

	secamL := base
	secamL.Name = "secam-l"
	secamL.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 6500000, DeviationHz: 50000, Left: true, Right: true},
	}
	register(&secamL)

	secamD := base
	secamD.Name = "secam-d"
	secamD.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 6500000, DeviationHz: 50000, Left: true, Right: true},
	}
	register(&secamD)
}
