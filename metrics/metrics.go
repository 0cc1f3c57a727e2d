// Package metrics exposes the pipeline's Prometheus gauges/counters
// (queue depth, dropped/repeated frames, scrambler block rotations).
// Grounded on madpsy-ka9q_ubersdr's use of github.com/prometheus/client_golang
// for its own SDR pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric a pipeline instance emits. Per-pipeline
// (not global) so multiple Context instances in the same process don't
// collide, matching the design note against global mutable state.
type Registry struct {
	QueueBytes     *prometheus.GaugeVec
	FramesRepeated prometheus.Counter
	FramesDropped  prometheus.Counter
	BlocksRotated  prometheus.Counter
	SamplesWritten prometheus.Counter
}

// New creates and registers a fresh Registry against its own registry
// instance so tests can create any number of pipelines without colliding
// with prometheus's global default registry.
func New() (*Registry, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	r := &Registry{
		QueueBytes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hacktv_queue_bytes",
			Help: "Current payload bytes held in a packet queue.",
		}, []string{"queue"}),
		FramesRepeated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hacktv_frames_repeated_total",
			Help: "Video frames repeated by the time-align policy.",
		}),
		FramesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hacktv_frames_dropped_total",
			Help: "Video frames dropped by the time-align policy.",
		}),
		BlocksRotated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hacktv_scrambler_blocks_rotated_total",
			Help: "Scrambler control-word blocks rotated.",
		}),
		SamplesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hacktv_samples_written_total",
			Help: "Samples written to the output sink.",
		}),
	}
	reg.MustRegister(r.QueueBytes, r.FramesRepeated, r.FramesDropped, r.BlocksRotated, r.SamplesWritten)
	return r, reg
}
