package cfe

import (
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

const maxUint32 = 1<<32 - 1

// inputEventQueue presents ctx.InputUMP's buffered NRPN and per-note-NRPN
// packets as the ABI's InputEventQueue, decoding parameter changes and
// per-note modulation targets in one pass.
type inputEventQueue struct {
	params []paramEvent
	notes  []noteEvent
}

type paramEvent struct {
	id    uint32
	value float64
}

type noteEvent struct {
	target NoteTarget
	value  float64
}

func newInputEventQueue(seq *ump.Sequence) *inputEventQueue {
	packets := seq.All()
	q := &inputEventQueue{
		params: make([]paramEvent, 0, len(packets)),
		notes:  make([]noteEvent, 0, len(packets)),
	}
	for _, p := range packets {
		if bank, index, data, ok := ump.DecodeNRPN(p); ok {
			id := uint32(bank)<<7 | uint32(index)
			q.params = append(q.params, paramEvent{id: id, value: float64(data) / float64(maxUint32)})
			continue
		}
		if channel, note, index, data, ok := ump.DecodePerNoteNRPN(p); ok {
			q.notes = append(q.notes, noteEvent{
				target: NoteTarget{PortIndex: 0, Channel: int16(channel), Key: int16(note), NoteID: int32(index)},
				value:  float64(data) / float64(maxUint32),
			})
		}
	}
	return q
}

func (q *inputEventQueue) Count() int32 { return int32(len(q.params) + len(q.notes)) }

func (q *inputEventQueue) ParamChange(i int32) (id uint32, value float64, ok bool) {
	if i < 0 || int(i) >= len(q.params) {
		return 0, 0, false
	}
	e := q.params[i]
	return e.id, e.value, true
}

func (q *inputEventQueue) NoteModulation(i int32) (target NoteTarget, value float64, ok bool) {
	if i < 0 || int(i) >= len(q.notes) {
		return NoteTarget{}, 0, false
	}
	e := q.notes[i]
	return e.target, e.value, true
}

// outputEventQueue re-encodes parameter changes the plugin reports back as
// NRPN UMP packets appended to ctx.OutputUMP. Group/channel are rewritten
// by the sequencer before dispatch, so 0 here is a placeholder.
type outputEventQueue struct {
	ctx *process.Context
}

func (q *outputEventQueue) AddParamChange(id uint32, value float64) {
	bank := uint8(id >> 7 & 0xFF)
	index := uint8(id & 0x7F)
	data := uint32(value * float64(maxUint32))
	q.ctx.OutputUMP.Add(ump.BuildNRPN(0, 0, bank, index, data))
}
