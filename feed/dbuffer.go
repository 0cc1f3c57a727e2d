package feed

import (
	"sync"

	"hacktv/errs"
	"hacktv/frame"
)

// ReadyState is a frame double-buffer's ready-flag state.
type ReadyState int

const (
	Empty ReadyState = iota
	ReadyNew
	ReadyRepeat
)

// FrameDoubleBuffer is a two-slot front/back buffer: exactly one producer
// and one consumer, guarded by one mutex/condvar pair, grounded on
// _frame_dbuffer_init/_back_buffer/_ready/_flip in
// original_source/src/av_ffmpeg.c.
type FrameDoubleBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	front    *frame.Buffer
	back     *frame.Buffer
	ready    ReadyState
	aborted  bool
}

// NewFrameDoubleBuffer creates an empty double-buffer.
func NewFrameDoubleBuffer() *FrameDoubleBuffer {
	d := &FrameDoubleBuffer{}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// BackBuffer returns the producer's back slot to fill, allocating one of
// width×height if none exists yet.
func (d *FrameDoubleBuffer) BackBuffer(width, height int) *frame.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.back == nil || d.back.Width != width || d.back.Height != height {
		d.back = frame.NewBuffer(width, height)
	}
	return d.back
}

// Ready signals that the back buffer is complete and flips it to front,
// marking it ReadyRepeat if repeat is true.
func (d *FrameDoubleBuffer) Ready(repeat bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.front, d.back = d.back, d.front
	if repeat {
		d.ready = ReadyRepeat
	} else {
		d.ready = ReadyNew
	}
	d.cond.Broadcast()
}

// Flip blocks until a frame is ready (or the buffer is aborted), then
// returns it and resets the ready flag to Empty. Exactly one consumer calls
// this per TV frame period; the composer does so on the first active line
// of each frame.
func (d *FrameDoubleBuffer) Flip() (*frame.Buffer, ReadyState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.ready == Empty && !d.aborted {
		d.cond.Wait()
	}
	if d.aborted {
		return nil, Empty, errs.ErrAborted
	}
	state := d.ready
	d.ready = Empty
	return d.front, state, nil
}

// Abort wakes any blocked Flip call with errs.ErrAborted.
func (d *FrameDoubleBuffer) Abort() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.aborted = true
	d.cond.Broadcast()
}
