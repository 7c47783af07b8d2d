package v3c

import (
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// inputEventAdapter presents ctx.InputUMP's buffered NRPN parameter-change
// packets as the ABI's InputEventList, resolving each packet's (bank,
// index) pair back to the plugin's native parameter id via idToIndex's
// inverse — built once per parameter load, not per block.
type inputEventAdapter struct {
	packets   []ump.Packet
	idByBank  map[uint16]uint32 // (bank<<8|index) -> nativeID
}

func newInputEventAdapter(seq *ump.Sequence, idToIndex map[uint32]int32) *inputEventAdapter {
	a := &inputEventAdapter{packets: seq.All(), idByBank: make(map[uint16]uint32, len(idToIndex))}
	for nativeID := range idToIndex {
		key := uint16(nativeID>>7&0xFF)<<8 | uint16(nativeID&0x7F)
		a.idByBank[key] = nativeID
	}
	return a
}

func (a *inputEventAdapter) Count() int32 { return int32(len(a.packets)) }

func (a *inputEventAdapter) ParamChange(i int32) (nativeID uint32, value float64, ok bool) {
	if i < 0 || int(i) >= len(a.packets) {
		return 0, 0, false
	}
	bank, index, data, isNRPN := ump.DecodeNRPN(a.packets[i])
	if !isNRPN {
		return 0, 0, false
	}
	key := uint16(bank)<<8 | uint16(index)
	id, found := a.idByBank[key]
	if !found {
		return 0, 0, false
	}
	return id, float64(data) / float64(maxUint32), true
}

const maxUint32 = 1<<32 - 1

// outputEventAdapter re-encodes the plugin's reported parameter changes as
// NRPN UMP packets appended to ctx.OutputUMP; the sequencer rewrites the
// group nibble to the instance's assigned group before dispatch, so group 0
// here is a placeholder.
type outputEventAdapter struct {
	ctx *process.Context
}

func (a *outputEventAdapter) AddParamChange(nativeID uint32, value float64) {
	bank := uint8(nativeID >> 7 & 0xFF)
	index := uint8(nativeID & 0x7F)
	data := uint32(value * float64(maxUint32))
	a.ctx.OutputUMP.Add(ump.BuildNRPN(0, 0, bank, index, data))
}
