package umpmap

import (
	"math"

	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// OutputIDTable resolves a registry's native parameter id back to the
// UMP-facing parameter id (bank*128+index) the output mapper encodes
// into an NRPN, the inverse of ParamIDTable.
type OutputIDTable interface {
	ParamIDForNativeID(nativeID uint32) (int32, bool)
}

// Sink receives one encoded UMP packet, routed to an external MIDI I/O
// consumer by the caller.
type Sink func(ump.Packet)

// OutputMapper subscribes to a plugin instance's parameter-change signal
// and re-encodes each notification as a UMP NRPN, handed to Emit.
type OutputMapper struct {
	Table   OutputIDTable
	Group   uint8
	Channel uint8
	Emit    Sink
}

// NewOutputMapper returns a mapper that encodes onto the given group and
// channel, emitting via emit.
func NewOutputMapper(table OutputIDTable, group, channel uint8, emit Sink) *OutputMapper {
	return &OutputMapper{Table: table, Group: group, Channel: channel, Emit: emit}
}

// Subscribe installs this mapper as a change listener on registry, so
// every parameter-change signal is immediately re-encoded and emitted.
func (m *OutputMapper) Subscribe(registry *param.Registry) {
	registry.OnChange(m.NotifyParameterChange)
}

// NotifyParameterChange encodes p's current normalized value as an
// absolute NRPN and emits it.
func (m *OutputMapper) NotifyParameterChange(p *param.Parameter) {
	paramID, ok := m.Table.ParamIDForNativeID(p.NativeID)
	if !ok {
		return
	}
	bank := uint8(paramID / 128)
	index := uint8(paramID % 128)
	raw := uint32(p.Value() * float64(math.MaxUint32))
	m.emit(ump.BuildNRPN(m.Group, m.Channel, bank, index, raw))
}

// NotifyPerNoteController encodes a per-note assignable controller
// change and emits it.
func (m *OutputMapper) NotifyPerNoteController(note, index uint8, value uint32) {
	m.emit(ump.BuildPerNoteNRPN(m.Group, m.Channel, note, index, value))
}

// NotifyProgramChange emits a MIDI 2.0 Program Change with bank MSB/LSB,
// per the spec's output-mapper program-change behavior.
func (m *OutputMapper) NotifyProgramChange(bankMSB, bankLSB, program uint8) {
	w0 := uint32(ump.TypeMIDI2Channel)<<28 | uint32(m.Group&0xF)<<24 |
		uint32(ump.StatusProgramChange)<<20 | uint32(m.Channel&0xF)<<16 | 1
	w1 := uint32(program)<<24 | uint32(bankMSB&0x7F)<<8 | uint32(bankLSB&0x7F)
	m.emit(ump.Packet{Words: [4]uint32{w0, w1}, WordCount: 2})
}

func (m *OutputMapper) emit(p ump.Packet) {
	if m.Emit != nil {
		m.Emit(p)
	}
}
