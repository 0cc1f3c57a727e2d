// Package config parses the command-line and optional file configuration.
// The flag layer is the teacher's exact pattern (the original config.New's
// flag.*Var calls); a YAML file, grounded on madpsy-ka9q_ubersdr's own
// config-file convention, is loaded underneath it when -config points at a
// file, so the CLI keeps working with flags alone.
package config

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputType selects the sample sink the transmit loop writes to.
type OutputType string

const (
	OutputFile   OutputType = "file"
	OutputHackRF OutputType = "hackrf"
	OutputFL2K   OutputType = "fl2k"
)

// WSSMode selects the wide-screen-signalling aspect ratio.
type WSSMode string

const (
	WSSAuto WSSMode = "auto"
	WSS43   WSSMode = "4:3"
	WSS169  WSSMode = "16:9"
	WSSOff  WSSMode = "off"
)

// Scrambler selects the conditional-access engine.
type Scrambler string

const (
	ScramblerNone      Scrambler = "none"
	ScramblerVCSky06   Scrambler = "vc-sky-06"
	ScramblerVCSky07   Scrambler = "vc-sky-07"
	ScramblerVCSky09   Scrambler = "vc-sky-09"
	ScramblerVCSky10   Scrambler = "vc-sky-10"
	ScramblerVCSky11   Scrambler = "vc-sky-11"
	ScramblerVCSky12   Scrambler = "vc-sky-12"
	ScramblerVCTAC     Scrambler = "vc-tac"
	ScramblerVCXTEA    Scrambler = "vc-xtea"
	ScramblerVCMC      Scrambler = "vc-mc"
	ScramblerVCPPV     Scrambler = "vc-ppv"
	ScramblerVC2MC     Scrambler = "vc2-mc"
	ScramblerSyster    Scrambler = "syster"
	ScramblerDiscret11 Scrambler = "d11"
)

// Config is the full transmit knob set: video source and mode, RF/output
// parameters, teletext/subtitle/overlay options, and the conditional-access
// selection. Fields not settable from the command line (only from a YAML
// file) are noted below.
type Config struct {
	Mode         string     `yaml:"mode"`
	FrequencyHz  float64    `yaml:"frequency"`
	SampleRateHz float64    `yaml:"sample_rate"`
	GainDB       float64    `yaml:"gain"`
	OutputType   OutputType `yaml:"output_type"`
	OutputPath   string     `yaml:"output_path"`

	Teletext     string  `yaml:"teletext"`
	Subtitles    string  `yaml:"subtitles"` // "" = off, "true" or a stream index
	TxSubtitles  string  `yaml:"tx_subtitles"`
	Logo         string  `yaml:"logo"`
	Timestamp    bool    `yaml:"timestamp"`
	PositionMins float64 `yaml:"position"`
	Letterbox    bool    `yaml:"letterbox"`
	Pillarbox    bool    `yaml:"pillarbox"`
	Downmix      bool    `yaml:"downmix"`
	Volume       float64 `yaml:"volume"`
	WSS          WSSMode `yaml:"wss"`

	ScramblerMode Scrambler `yaml:"scrambler"`
	Key           string    `yaml:"key"`

	Device   string `yaml:"device"`
	Callsign string `yaml:"callsign"`

	// ConfigFile is set by -config and is not itself persisted to file.
	ConfigFile string `yaml:"-"`
}

// Default returns a Config with the spec's documented default values.
func Default() *Config {
	return &Config{
		Mode:          "pal-i",
		FrequencyHz:   1280e6,
		SampleRateHz:  0, // 0 means "derive from mode", resolved at Open
		GainDB:        30,
		OutputType:    OutputFile,
		Volume:        1.0,
		WSS:           WSSAuto,
		ScramblerMode: ScramblerNone,
		Callsign:      "NOCALL",
	}
}

// Parse reads flags (in the teacher's flag.*Var style) layered on top of an
// optional -config YAML file, flags always winning over file values.
func Parse(args []string) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("hacktv", flag.ContinueOnError)
	configFile := fs.String("config", "", "Optional YAML configuration file")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "TV standard (pal-i, pal-b, ntsc-m, secam-l, mac-d, mac-d2, ...)")
	fs.Float64Var(&cfg.FrequencyHz, "frequency", cfg.FrequencyHz, "Transmit frequency in Hz (0 = baseband)")
	fs.Float64Var(&cfg.SampleRateHz, "sample-rate", cfg.SampleRateHz, "Output sample rate in Hz")
	fs.Float64Var(&cfg.GainDB, "gain", cfg.GainDB, "Output gain in dB")
	fs.StringVar((*string)(&cfg.OutputType), "output-type", string(cfg.OutputType), "file, hackrf or fl2k")
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "Output file path (output-type=file)")
	fs.StringVar(&cfg.Teletext, "teletext", cfg.Teletext, "Directory of .tti teletext pages")
	fs.StringVar(&cfg.Subtitles, "subtitles", cfg.Subtitles, "Subtitle stream index, or empty for off")
	fs.StringVar(&cfg.TxSubtitles, "tx-subtitles", cfg.TxSubtitles, "Transmit subtitles as teletext, or empty for off")
	fs.StringVar(&cfg.Logo, "logo", cfg.Logo, "PNG logo overlay path")
	fs.BoolVar(&cfg.Timestamp, "timestamp", cfg.Timestamp, "Overlay a clock/timestamp")
	fs.Float64Var(&cfg.PositionMins, "position", cfg.PositionMins, "Start offset into the source, in minutes")
	fs.BoolVar(&cfg.Letterbox, "letterbox", cfg.Letterbox, "Letterbox 16:9 content into 4:3")
	fs.BoolVar(&cfg.Pillarbox, "pillarbox", cfg.Pillarbox, "Pillarbox 4:3 content into 16:9")
	fs.BoolVar(&cfg.Downmix, "downmix", cfg.Downmix, "Downmix stereo audio to mono")
	fs.Float64Var(&cfg.Volume, "volume", cfg.Volume, "Audio volume scale")
	fs.StringVar((*string)(&cfg.WSS), "wss", string(cfg.WSS), "auto, 4:3, 16:9 or off")
	fs.StringVar((*string)(&cfg.ScramblerMode), "scrambler", string(cfg.ScramblerMode), "Conditional access scheme")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "Scrambler key selector")
	fs.StringVar(&cfg.Device, "device", cfg.Device, "Video device name or index")
	fs.StringVar(&cfg.Callsign, "callsign", cfg.Callsign, "Callsign to overlay on the video")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		// Re-parse flags so command-line values still win over the file.
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadFile unmarshals YAML file values into cfg, overwriting every field the
// file sets; callers re-parse flags afterwards so flags win.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}
