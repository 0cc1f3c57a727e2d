package feed

import "hacktv/rational"

// TimeAlign keeps the composer supplied with exactly one video frame per TV
// frame period, either fresh or repeated, by comparing each incoming
// frame's rescaled PTS against a running start_time.
//
// pts′ = rescale(pts, stream_tb, mode_tb) − start_time
//   pts′ < 0: drop the frame.
//   pts′ > 0: emit that many ready=repeat ticks before this new frame,
//             advancing start_time once per tick.
//   pts′ == 0: emit the frame as ready=new.
// The fresh frame itself advances start_time by one more tick.
type TimeAlign struct {
	streamTB rational.Rational
	modeTB   rational.Rational
	started  bool
	startTime int64
}

// NewTimeAlign builds a policy converting timestamps in streamTB units into
// modeTB (one tick per mode frame period) units.
func NewTimeAlign(streamTB, modeTB rational.Rational) *TimeAlign {
	return &TimeAlign{streamTB: streamTB, modeTB: modeTB}
}

// Decision is the action the time-align policy took for one incoming frame.
type Decision struct {
	Drop    bool
	Repeats int // number of ready=repeat ticks to emit before the fresh frame
}

// Next consumes one incoming frame's PTS (in streamTB units) and returns the
// action to take. The very first frame is always emitted fresh, and
// start_time is initialised to one tick past its rescaled PTS.
func (t *TimeAlign) Next(pts int64) Decision {
	rescaled := rational.Rescale(pts, t.streamTB, t.modeTB)
	if !t.started {
		t.started = true
		t.startTime = rescaled + 1
		return Decision{}
	}

	delta := rescaled - t.startTime
	if delta < 0 {
		return Decision{Drop: true}
	}
	t.startTime += delta + 1
	return Decision{Repeats: int(delta)}
}
