// Package feed implements the producer/consumer pipeline between the media
// source and the composer. Its packet queue and frame double-buffer are
// grounded on original_source/src/av_ffmpeg.c's _packet_queue_*/
// _frame_dbuffer_* functions, reworked per the design notes to give each
// queue its own mutex/condvar instead of sharing one across both queues.
// Only two stages run (Context.Start): video scaling/time alignment into a
// frame double-buffer, and audio resampling into a ring. The packet queue
// and the decoded-video double-buffer are allocated but not used.
package feed

import (
	"sync"

	"hacktv/errs"
)

// Packet is an opaque compressed payload from the demuxer. It has no
// separate size field; its size is len(Data).
type Packet struct {
	Data       []byte
	PTS        int64
	StreamTime int64
	EOF        bool
}

// QueueState is the packet queue's lifecycle: open, drained, or aborted.
type QueueState int

const (
	QueueOpen QueueState = iota
	QueueEOF
	QueueAborted
)

// PacketQueue is a bounded FIFO of packets bound by total payload bytes
// (15 MiB default). Each queue owns its own mutex+condvar pair, unlike the
// C original's shared mutex across both queues.
type PacketQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []Packet
	bytes    int64
	capacity int64
	state    QueueState

	lastStreamTime int64
}

// NewPacketQueue creates an empty queue with the given byte capacity.
func NewPacketQueue(capacityBytes int64) *PacketQueue {
	q := &PacketQueue{capacity: capacityBytes}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// DefaultQueueCapacity is the default packet queue byte cap.
const DefaultQueueCapacity = 15 * 1024 * 1024

// Write blocks while the queue is at capacity, then appends pkt. Returns
// errs.ErrAborted if the queue is aborted while waiting or afterwards.
// Packets must arrive in non-decreasing StreamTime order — violating this
// is a programmer error, not a runtime one, so it is not checked here.
func (q *PacketQueue) Write(pkt Packet) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.bytes+int64(len(pkt.Data)) > q.capacity && q.state == QueueOpen {
		q.notFull.Wait()
	}
	if q.state == QueueAborted {
		return errs.ErrAborted
	}

	q.items = append(q.items, pkt)
	q.bytes += int64(len(pkt.Data))
	q.lastStreamTime = pkt.StreamTime
	q.notEmpty.Signal()
	return nil
}

// Read blocks while the queue is empty and not at EOF, then pops the front
// packet. Returns errs.ErrEndOfStream once the queue is drained and at EOF,
// or errs.ErrAborted if aborted.
func (q *PacketQueue) Read() (Packet, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && q.state == QueueOpen {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		if q.state == QueueAborted {
			return Packet{}, errs.ErrAborted
		}
		return Packet{}, errs.ErrEndOfStream
	}

	pkt := q.items[0]
	q.items = q.items[1:]
	q.bytes -= int64(len(pkt.Data))
	q.notFull.Signal()
	return pkt, nil
}

// CloseEOF marks the queue as drained after the current contents; readers
// will see errs.ErrEndOfStream once those are consumed.
func (q *PacketQueue) CloseEOF() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == QueueOpen {
		q.state = QueueEOF
	}
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Abort immediately wakes all waiters with errs.ErrAborted.
func (q *PacketQueue) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.state = QueueAborted
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Bytes reports the current payload bytes held, for backpressure metrics.
func (q *PacketQueue) Bytes() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.bytes
}
