// Package umpmap bridges MIDI 2.0 UMP semantics to a plugin instance's
// native parameter/event model: an input mapper drives a target
// instance's parameter and per-note-controller APIs from decoded UMP,
// and an output mapper re-encodes a plugin's own change signals back
// into UMP for an external sink.
package umpmap

import (
	"math"

	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
	"github.com/atsu-uapmd/pluginhost/pkg/umpdispatch"
)

// ParamIDTable maps a UMP-derived parameter id (bank*128+index) to the
// native id an adapter's param.Registry keys parameters by — the "small
// table the adapter maintains" per the NRPN-to-parameter mapping.
type ParamIDTable interface {
	NativeIDForParamID(paramID int32) (uint32, bool)
}

// PerNoteTarget receives per-note controller changes the input mapper
// decodes (PNAC/PNRC), for adapters that support per-note modulation.
type PerNoteTarget interface {
	SetPerNoteController(group, channel, note, index uint8, value uint32)
}

// ProgramChangeTarget receives decoded program-change messages, for
// adapters whose native model has a preset/program list.
type ProgramChangeTarget interface {
	SelectProgram(group, channel uint8, bankMSB, bankLSB, program uint8)
}

// InputMapper decodes a context's input UMP sequence and drives the
// registry's parameter values plus any optional per-note/program
// targets. It implements umpdispatch.Handler directly so it can be
// driven by umpdispatch.Dispatch one packet at a time.
type InputMapper struct {
	umpdispatch.BaseHandler

	Registry *param.Registry
	Table    ParamIDTable

	PerNote PerNoteTarget   // optional
	Program ProgramChangeTarget // optional
}

// NewInputMapper returns a mapper driving registry's parameter values
// using table to resolve UMP parameter ids to native ids.
func NewInputMapper(registry *param.Registry, table ParamIDTable) *InputMapper {
	return &InputMapper{Registry: registry, Table: table}
}

// DispatchSequence decodes and applies every packet in seq, in order.
func (m *InputMapper) DispatchSequence(seq *ump.Sequence) {
	for _, p := range seq.All() {
		umpdispatch.Dispatch(p, m)
	}
}

// AbsoluteNRPN sets a parameter's normalized value directly from the raw
// 32-bit NRPN payload.
func (m *InputMapper) AbsoluteNRPN(group, channel, bank, index uint8, value uint32) {
	nativeID, ok := m.resolveParam(bank, index)
	if !ok {
		return
	}
	normalized := float64(value) / float64(math.MaxUint32)
	m.Registry.SetValue(nativeID, normalized)
}

// RelativeNRPN reads the parameter's current value and adds the signed
// delta, scaled to [-1, 1] by dividing by INT32_MAX, per the relative-AC
// semantics in the spec's input-mapper description.
func (m *InputMapper) RelativeNRPN(group, channel, bank, index uint8, delta int32) {
	nativeID, ok := m.resolveParam(bank, index)
	if !ok {
		return
	}
	p := m.Registry.Get(nativeID)
	if p == nil {
		return
	}
	adjust := float64(delta) / float64(math.MaxInt32)
	m.Registry.SetValue(nativeID, p.Value()+adjust)
}

// PerNoteAC forwards a per-note assignable controller change.
func (m *InputMapper) PerNoteAC(group, channel, note, index uint8, value uint32) {
	if m.PerNote != nil {
		m.PerNote.SetPerNoteController(group, channel, note, index, value)
	}
}

// PerNoteRC forwards a per-note registered controller change.
func (m *InputMapper) PerNoteRC(group, channel, note, index uint8, value uint32) {
	if m.PerNote != nil {
		m.PerNote.SetPerNoteController(group, channel, note, index, value)
	}
}

// ProgramChange forwards a decoded program-change to the Program target.
func (m *InputMapper) ProgramChange(group, channel uint8, bankMSB, bankLSB, program uint8) {
	if m.Program != nil {
		m.Program.SelectProgram(group, channel, bankMSB, bankLSB, program)
	}
}

func (m *InputMapper) resolveParam(bank, index uint8) (uint32, bool) {
	paramID := int32(bank)*128 + int32(index)
	return m.Table.NativeIDForParamID(paramID)
}
