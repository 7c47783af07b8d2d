// Package node implements AudioPluginNode: one plugin instance paired
// with lock-free event ingress, active-note tracking, and
// parameter-change/metadata-change forwarding.
package node

import (
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

const defaultQueueCapacity = 1024

// Node wraps one PluginInstance with per-instance event delivery: a
// lock-free SPSC queue, a pending-events buffer drained from it each
// block, and an active-note multiset for stuck-note recovery.
type Node struct {
	InstanceID int32
	Instance   format.PluginInstance

	queue   *spscQueue
	pending []ump.Packet
	notes   *noteTracker
}

// New wraps instance as a Node with the given host-wide instance id.
func New(instanceID int32, instance format.PluginInstance) *Node {
	n := &Node{
		InstanceID: instanceID,
		Instance:   instance,
		queue:      newSPSCQueue(defaultQueueCapacity),
		pending:    make([]ump.Packet, 0, defaultQueueCapacity),
		notes:      newNoteTracker(),
	}
	return n
}

// OnParameterChange forwards the instance's parameter-change signal.
func (n *Node) OnParameterChange(l param.ChangeListener) {
	n.Instance.Parameters().OnChange(l)
}

// OnParameterMetadataChange forwards the instance's
// parameter-metadata-change signal (a parameter-list rebuild).
func (n *Node) OnParameterMetadataChange(l param.MetadataListener) {
	n.Instance.Parameters().OnMetadataChange(l)
}

// ScheduleEvents enqueues packets in order. Note-tracking is applied to
// each packet before it is pushed, so an interleaved StopAllNotes call
// sees every note-on/off already reflected in the refcount map. Returns
// false (stopping at the first failure) if the queue fills up partway
// through the batch.
func (n *Node) ScheduleEvents(packets ...ump.Packet) bool {
	for _, p := range packets {
		n.notes.Observe(p.FirstWord(), p.SecondWord())
		if !n.queue.Push(p) {
			return false
		}
	}
	return true
}

// DrainQueueToPending moves every currently-queued packet into the
// node's pending buffer. Called once per block on the audio thread; the
// pending slice's backing array is reused, so steady-state operation
// never allocates.
func (n *Node) DrainQueueToPending() {
	n.pending = n.queue.DrainTo(n.pending)
}

// FillEventBufferForGroup copies pending packets whose group matches
// (or every pending packet, when group == 0xFF) into seq, up to seq's
// remaining capacity. Copied packets are removed from pending; anything
// left over (non-matching group, or truncated for capacity) remains
// pending for the next block.
func (n *Node) FillEventBufferForGroup(seq *ump.Sequence, group uint8, capacity int) {
	remaining := n.pending[:0]
	filled := 0
	for _, p := range n.pending {
		matches := group == 0xFF || ump.Group(p.FirstWord()) == group
		if matches && filled < capacity {
			seq.Add(p)
			filled++
			continue
		}
		remaining = append(remaining, p)
	}
	n.pending = remaining
}

// PendingLen reports how many packets are waiting in the pending buffer
// (diagnostic / test use).
func (n *Node) PendingLen() int { return len(n.pending) }

// QueueLen reports how many packets are currently queued but not yet
// drained (diagnostic / test use).
func (n *Node) QueueLen() int { return n.queue.Len() }

// ScheduleSmoothParamChange ramps nativeID from its current normalized
// value to target over rampBlocks blocks, enqueueing one NRPN
// parameter-change packet per block on group rather than writing the
// full jump in a single block. This is the host-side counterpart to a
// plugin's own internal zipper-noise smoothing: the ramp is generated
// once, up front, and flows through the same per-instance queue every
// other scheduled event does.
func (n *Node) ScheduleSmoothParamChange(group uint8, nativeID uint32, target float64, rampBlocks int, timeConstantBlocks float64) bool {
	p := n.Instance.Parameters().Get(nativeID)
	if p == nil {
		return false
	}

	smoother := param.NewSmoother(p.Value(), timeConstantBlocks)
	smoother.SetTarget(target)
	steps := smoother.Steps(rampBlocks)

	bank := uint8(nativeID >> 7)
	index := uint8(nativeID & 0x7F)
	packets := make([]ump.Packet, len(steps))
	for i, v := range steps {
		data := uint32(v * float64(maxNRPNData))
		packets[i] = ump.BuildNRPN(group, 0, bank, index, data)
	}
	return n.ScheduleEvents(packets...)
}

const maxNRPNData = 1<<32 - 1

// StopAllNotes snapshots the active-note map and synthesizes one MIDI 2.0
// note-off per still-outstanding note-on for each (group, channel, note)
// key — i.e. exactly count note-offs for a key last observed with
// refcount count, not just one — enqueueing them. Note-offs that could
// not be enqueued (queue full) leave their share of the refcount in
// place so a later call can retry just the remainder. This is the host's
// recovery mechanism for stuck notes on plugin removal or transport
// stop.
func (n *Node) StopAllNotes() {
	snapshot := n.notes.Snapshot()
	for key, count := range snapshot {
		group, channel, note := ump.DecodeNoteKey(key)
		first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
			uint32(ump.StatusNoteOff)<<20 | uint32(channel&0xF)<<16 | uint32(note&0x7F)<<8
		off := ump.NewPacket(0, first, 0)
		pushed := 0
		for i := 0; i < count; i++ {
			if !n.queue.Push(off) {
				break
			}
			pushed++
		}
		if pushed > 0 {
			n.notes.Release(key, pushed)
		}
	}
}

// Process delegates to the wrapped instance.
func (n *Node) Process(ctx *process.Context) hosterr.Status {
	return n.Instance.Process(ctx)
}
