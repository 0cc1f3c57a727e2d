// Package sink implements the sample output boundary the composer writes
// finished IQ/baseband samples into. Grounded on the teacher's
// sdr/transmitter.go Transmit, which opens a hackrf.Device and
// drives it from a StartTX callback; generalized here into a small Sink
// interface so the same composer/modulator pipeline can target a HackRF
// device, a raw sample file, or (documented stub, hardware not in the
// retrieval pack) an fl2k VGA-DAC dongle.
package sink

import (
	"fmt"
	"os"

	"github.com/samuel/go-hackrf/hackrf"

	"hacktv/errs"
)

// Sink is the output boundary every transmit target implements.
type Sink interface {
	// WriteInt16 writes interleaved 16-bit signed samples (I/Q, or real
	// baseband with Q omitted upstream) and returns the count written.
	WriteInt16(samples []int16) (int, error)
	// WriteInt8 is the 8-bit sibling used by HackRF (native 8-bit IQ) and
	// raw-file output when a smaller sample size is selected.
	WriteInt8(samples []int8) (int, error)
	Close() error
}

// File writes raw interleaved samples to a file (`output-type=file`); each
// call picks the sample width through WriteInt16 or WriteInt8.
type File struct {
	f *os.File
}

// NewFile opens path for raw sample output, truncating any existing file.
func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrIoError, fmt.Errorf("sink: opening %s: %w", path, err))
	}
	return &File{f: f}, nil
}

func (s *File) WriteInt16(samples []int16) (int, error) {
	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		buf[i*2] = byte(v)
		buf[i*2+1] = byte(v >> 8)
	}
	n, err := s.f.Write(buf)
	if err != nil {
		return n / 2, errs.Wrap(errs.ErrIoError, err)
	}
	return len(samples), nil
}

func (s *File) WriteInt8(samples []int8) (int, error) {
	buf := make([]byte, len(samples))
	for i, v := range samples {
		buf[i] = byte(v)
	}
	n, err := s.f.Write(buf)
	if err != nil {
		return n, errs.Wrap(errs.ErrIoError, err)
	}
	return len(samples), nil
}

func (s *File) Close() error {
	return s.f.Close()
}

// HackRF wraps a github.com/samuel/go-hackrf/hackrf.Device as a Sink,
// pushing samples through a buffered channel into the device's StartTX
// callback (`output-type=hackrf`), generalizing the teacher's Transmit
// function from a single hard-coded video standard to any
// composer/modulator pipeline.
type HackRF struct {
	dev     *hackrf.Device
	samples chan int8
	closed  chan struct{}
}

// OpenHackRF configures and starts TX on dev at the given frequency (Hz),
// sample rate (Hz) and VGA gain (dB), mirroring sdr/transmitter.go's
// SetFreq/SetSampleRate/SetTXVGAGain/SetAmpEnable sequence.
func OpenHackRF(dev *hackrf.Device, frequencyHz uint64, sampleRate float64, gainDB int) (*HackRF, error) {
	if err := dev.SetFreq(frequencyHz); err != nil {
		return nil, errs.Wrap(errs.ErrDeviceError, err)
	}
	if err := dev.SetSampleRate(sampleRate); err != nil {
		return nil, errs.Wrap(errs.ErrDeviceError, err)
	}
	if err := dev.SetTXVGAGain(gainDB); err != nil {
		return nil, errs.Wrap(errs.ErrDeviceError, err)
	}
	if err := dev.SetAmpEnable(false); err != nil {
		return nil, errs.Wrap(errs.ErrDeviceError, err)
	}

	h := &HackRF{dev: dev, samples: make(chan int8, 1<<20), closed: make(chan struct{})}

	err := dev.StartTX(func(buf []byte) error {
		for i := range buf {
			select {
			case s := <-h.samples:
				buf[i] = byte(s)
			case <-h.closed:
				return nil
			default:
				buf[i] = 0
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrDeviceError, err)
	}
	return h, nil
}

func (h *HackRF) WriteInt8(samples []int8) (int, error) {
	for _, s := range samples {
		select {
		case h.samples <- s:
		case <-h.closed:
			return 0, errs.Wrap(errs.ErrDeviceError, fmt.Errorf("sink: hackrf closed"))
		}
	}
	return len(samples), nil
}

// WriteInt16 downsamples a 16-bit stream to HackRF's native 8-bit I/Q by
// scaling, since the hardware interface only accepts 8-bit samples.
func (h *HackRF) WriteInt16(samples []int16) (int, error) {
	s8 := make([]int8, len(samples))
	for i, v := range samples {
		s8[i] = int8(v >> 8)
	}
	return h.WriteInt8(s8)
}

func (h *HackRF) Close() error {
	close(h.closed)
	return h.dev.Close()
}

// FL2K is a documented stub for the fl2k VGA-DAC output path the teacher's
// sibling rtl_tv command references only as a receive-side decoder target;
// no fl2k driver package appears anywhere in the retrieval pack (neither as
// a teacher dependency nor in other_examples/), so this type exists only to
// give the `output-type=fl2k` knob a named, clearly-unimplemented target
// rather than silently accepting the value and doing nothing.
type FL2K struct{}

func NewFL2K() (*FL2K, error) {
	return nil, errs.Wrap(errs.ErrDeviceError, fmt.Errorf("sink: fl2k output is not implemented (no fl2k driver in the available dependency set)"))
}

func (f *FL2K) WriteInt16(samples []int16) (int, error) { return 0, errs.ErrDeviceError }
func (f *FL2K) WriteInt8(samples []int8) (int, error)   { return 0, errs.ErrDeviceError }
func (f *FL2K) Close() error                            { return nil }
