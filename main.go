package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samuel/go-hackrf/hackrf"

	"hacktv/compose"
	"hacktv/config"
	"hacktv/feed"
	"hacktv/frame"
	"hacktv/metrics"
	"hacktv/mode"
	"hacktv/modulate"
	"hacktv/overlay"
	"hacktv/rational"
	"hacktv/scramble"
	"hacktv/sink"
	"hacktv/teletext"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	d, ok := mode.Get(cfg.Mode)
	if !ok {
		log.Fatalf("unknown mode %q", cfg.Mode)
	}

	sampleRate := cfg.SampleRateHz
	if sampleRate == 0 {
		sampleRate = 20_250_000 // the teacher's fixed UHF-System-I sample rate
	}
	resolved := d.Resolve(rational.New(int64(sampleRate), 1))

	reg, _ := metrics.New()

	var compositor *overlay.Compositor
	if cfg.Timestamp || cfg.Callsign != "NOCALL" || cfg.Logo != "" {
		compositor = &overlay.Compositor{ShowTimestamp: cfg.Timestamp, Callsign: cfg.Callsign, StartTime: time.Now()}
		if cfg.Logo != "" {
			if logo, err := loadLogoFile(cfg.Logo); err != nil {
				log.Printf("logo: %v", err)
			} else {
				compositor.Logo = logo
			}
		}
	}

	const pictureWidth = 720 // fixed capture width; active lines supply the height

	src := buildMediaSource(cfg, resolved, pictureWidth)
	defer src.Close()

	modeTB := resolved.FrameRate.Invert() // one tick per frame period
	pipeline := feed.NewContext(src, reg, compositor, modeTB, pictureWidth, resolved.ActiveLines)
	pipeline.Start(modeTB, feed.SourceAudioSampleRate)
	defer pipeline.Abort()

	composer := compose.New(resolved)
	composer.FetchFrame = func() *frame.Buffer {
		f, _, err := pipeline.ScaledVideo.Flip()
		if err != nil {
			return nil
		}
		return f
	}
	composer.SetAudioSource(pipeline.PullAudio, feed.SourceAudioSampleRate)
	wireComposer(composer, resolved, cfg)

	mod := modulate.New(modulate.Options{
		Mode:          outputModulationMode(cfg),
		IFFrequencyHz: cfg.FrequencyHz,
		SampleRate:    sampleRate,
		GainDB:        cfg.GainDB,
	})

	out, err := buildSink(cfg)
	if err != nil {
		log.Fatalf("sink: %v", err)
	}
	defer out.Close()

	log.Printf("hacktv-go: mode=%s frequency=%.3fMHz sample-rate=%.3fMsps output=%s",
		cfg.Mode, cfg.FrequencyHz/1e6, sampleRate/1e6, cfg.OutputType)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go runTransmitLoop(composer, mod, out, done)

	select {
	case <-sigChan:
		log.Println("shutting down...")
	case <-done:
		log.Println("end of stream")
	}
}

// runTransmitLoop pulls baseband from the composer, up-converts it, and
// writes it to the sink in fixed-size chunks via a callback-style
// write(samples, count) loop.
func runTransmitLoop(c *compose.Composer, m *modulate.Modulator, out sink.Sink, done chan<- struct{}) {
	const chunkSize = 4096
	baseband := make([]float64, chunkSize)
	for {
		n := c.Read(baseband)
		if n == 0 {
			close(done)
			return
		}
		iq := m.Process(baseband[:n])
		samples := modulate.ToInt16Interleaved(iq, 32767)
		if _, err := out.WriteInt16(samples); err != nil {
			log.Printf("sink write error: %v", err)
			close(done)
			return
		}
	}
}

// buildMediaSource selects a synthetic colour-bars source or an ffmpeg
// device capture depending on whether -device was given. MediaSource is the
// boundary to the upstream demuxer/decoder this module does not implement.
func buildMediaSource(cfg *config.Config, d *mode.Descriptor, width int) feed.MediaSource {
	frameTick := time.Duration(float64(time.Second) / d.FrameRate.Float64())
	if cfg.Device == "" {
		return feed.NewTestPatternSource(width, d.ActiveLines, frameTick, 1)
	}

	fps := "25"
	if d.Family == mode.FamilyNTSC {
		fps = "30000/1001"
	}
	// Callsign/timestamp burn-in is the overlay.Compositor's job, applied
	// uniformly to every MediaSource, so ffmpeg's own drawtext stays unused here.
	src, err := feed.OpenFFmpegSource(cfg.Device, width, d.ActiveLines, fps, "", 1)
	if err != nil {
		log.Printf("falling back to test pattern: %v", err)
		return feed.NewTestPatternSource(width, d.ActiveLines, frameTick, 1)
	}
	return src
}

func outputModulationMode(cfg *config.Config) modulate.Mode {
	if cfg.FrequencyHz == 0 {
		return modulate.ModeBasebandReal
	}
	if familyOf(cfg.Mode) == mode.FamilyMAC {
		return modulate.ModeFMWide
	}
	return modulate.ModeAMVSB
}

func familyOf(name string) mode.Family {
	if d, ok := mode.Get(name); ok {
		return d.Family
	}
	return mode.FamilyPAL
}

// wireComposer attaches the mode's audio subcarriers, the teletext store
// (if -teletext was given), and the configured scrambler to composer.
func wireComposer(c *compose.Composer, d *mode.Descriptor, cfg *config.Config) {
	for _, ac := range d.AudioSubcarriers {
		c.AddFMCarrier(ac)
	}

	if cfg.Teletext != "" {
		store, err := teletext.LoadDirectory(cfg.Teletext)
		if err != nil {
			log.Printf("teletext: %v", err)
		} else {
			c.Teletext = store
		}
	}

	if cfg.ScramblerMode != config.ScramblerNone {
		c.Scrambler = buildScrambler(cfg, d.SampleRate.Float64())
	}
}

func buildScrambler(cfg *config.Config, sampleRate float64) scramble.Scrambler {
	switch cfg.ScramblerMode {
	case config.ScramblerSyster:
		return scramble.New(scramble.KindSyster, nil, 1, sampleRate)
	case config.ScramblerDiscret11:
		return scramble.New(scramble.KindDiscret11, nil, 1, sampleRate)
	case config.ScramblerVC2MC:
		return scramble.New(scramble.KindVideocrypt2, defaultCardMode(cfg), 0, sampleRate)
	default:
		return scramble.New(scramble.KindVideocrypt1, defaultCardMode(cfg), 0, sampleRate)
	}
}

func defaultCardMode(cfg *config.Config) *scramble.CardMode {
	kernel := scramble.ModeSky07
	switch cfg.ScramblerMode {
	case config.ScramblerVCSky06:
		kernel = scramble.ModeSky06
	case config.ScramblerVCSky07:
		kernel = scramble.ModeSky07
	case config.ScramblerVCSky09:
		kernel = scramble.ModeSky09
	case config.ScramblerVCSky10:
		kernel = scramble.ModeSky10
	case config.ScramblerVCSky11:
		kernel = scramble.ModeSky11
	case config.ScramblerVCSky12:
		kernel = scramble.ModeSky12
	case config.ScramblerVCTAC:
		kernel = scramble.ModeTAC1
	case config.ScramblerVCXTEA:
		kernel = scramble.ModeXTEA
	case config.ScramblerVCMC:
		kernel = scramble.ModeMultichoice
	case config.ScramblerVCPPV:
		kernel = scramble.ModePPV
	}
	mode := &scramble.CardMode{Name: string(cfg.ScramblerMode), Kernel: kernel, Key: &scramble.Key{}}
	if kernel == scramble.ModePPV && cfg.Key != "" {
		copy(mode.PPVCardData[:], []byte(cfg.Key))
	}
	return mode
}

func loadLogoFile(path string) (*overlay.Logo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return overlay.LoadLogo(f)
}

func buildSink(cfg *config.Config) (sink.Sink, error) {
	switch cfg.OutputType {
	case config.OutputHackRF:
		if err := hackrf.Init(); err != nil {
			return nil, err
		}
		dev, err := hackrf.Open()
		if err != nil {
			hackrf.Exit()
			return nil, err
		}
		return sink.OpenHackRF(dev, uint64(cfg.FrequencyHz), cfg.SampleRateHz, int(cfg.GainDB))
	case config.OutputFL2K:
		return sink.NewFL2K()
	default:
		path := cfg.OutputPath
		if path == "" {
			path = "hacktv.iq"
		}
		return sink.NewFile(path)
	}
}
