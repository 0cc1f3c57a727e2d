package mode

import "hacktv/rational"

func registerPALFamily() {
	base := Descriptor{
		Family:         FamilyPAL,
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
		LevelSync:         -40.0,
		LevelBlanking:     0.0,
		LevelBlack:        0.0,
		LevelWhite:        100.0,
		BurstAmplitude:    20.0,
		ChromaSubcarrierHz: 4433618.75,
		VInverted:         true,
		TeletextLines:     []int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22},
		WSSLine:           23,
	}

	palI := base
	palI.Name = "pal-i"
	palI.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 6000000, DeviationHz: 50000, Left: true, Right: true},
		{FrequencyHz: 6552000, DeviationHz: 0, Left: true, Right: true, NICAM: true},
	}
	register(&palI)

	palB := base
	palB.Name = "pal-b"
	palB.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 5500000, DeviationHz: 50000, Left: true, Right: true},
	}
	register(&palB)

	palG := base
	palG.Name = "pal-g"
	palG.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 5500000, DeviationHz: 50000, Left: true, Right: true},
		{FrequencyHz: 5742000, DeviationHz: 0, Left: true, Right: true, NICAM: true},
	}
	register(&palG)
}
