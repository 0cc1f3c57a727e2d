package mode

import "hacktv/rational"

func registerNTSCFamily() {
	base := Descriptor{
		Family:         FamilyNTSC,
		FrameRate:      rational.New(30000, 1001),
		LinesPerFrame:  525,
		ActiveLines:    480,
		Interlaced:     true,
		FieldsPerFrame: 2,
		Timings: Timings{
			HSync:       4.7e-6,
			VSyncPulse:  27.1e-6,
			EqPulse:     2.3e-6,
			BurstStart:  5.6e-6,
			BurstWidth:  2.5e-6,
			ActiveStart: 10.7e-6,
			ActiveWidth: 52.6e-6,
		},
		LevelSync:          -40.0,
		LevelBlanking:      0.0,
		LevelBlack:         7.5,
		LevelWhite:         100.0,
		BurstAmplitude:     20.0,
		ChromaSubcarrierHz: 3579545.4545,
		VInverted:          false,
		TeletextLines:      []int{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		CCLine:             21,
	}

	ntscM := base
	ntscM.Name = "ntsc-m"
	ntscM.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 4500000, DeviationHz: 25000, Left: true, Right: true},
	}
	register(&ntscM)

	ntscJ := base
	ntscJ.Name = "ntsc-j"
	ntscJ.LevelBlack = 0.0 // Japan NTSC carries no pedestal
	ntscJ.AudioSubcarriers = []AudioSubcarrier{
		{FrequencyHz: 4500000, DeviationHz: 25000, Left: true, Right: true},
	}
	register(&ntscJ)
}
