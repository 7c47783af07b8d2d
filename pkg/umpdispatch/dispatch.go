// Package umpdispatch provides the shared MIDI 2.0 UMP decode dispatcher
// every format adapter's input mapper builds on: decode one packet and
// invoke the matching category callback (note-on/off, AC, RC, CC, PNAC,
// PNRC, pitch-bend, pressure, program-change).
package umpdispatch

import "github.com/atsu-uapmd/pluginhost/pkg/ump"

// Handler receives one decoded category at a time. Implementations only
// need to override the categories they care about; umpmap's adapters
// embed a struct satisfying this to translate into native ABI calls.
type Handler interface {
	NoteOn(group, channel, note uint8, velocity uint32)
	NoteOff(group, channel, note uint8, velocity uint32)
	ControlChange(group, channel, controller uint8, value uint32)
	AbsoluteNRPN(group, channel, bank, index uint8, value uint32)
	RelativeNRPN(group, channel, bank, index uint8, delta int32)
	RegisteredController(group, channel, bank, index uint8, value uint32)
	PerNoteAC(group, channel, note, index uint8, value uint32)
	PerNoteRC(group, channel, note, index uint8, value uint32)
	PitchBend(group, channel uint8, value uint32)
	PerNotePitchBend(group, channel, note uint8, value uint32)
	ChannelPressure(group, channel uint8, value uint32)
	PolyPressure(group, channel, note uint8, value uint32)
	ProgramChange(group, channel uint8, bankMSB, bankLSB, program uint8)
}

// Dispatch decodes p and invokes the matching method on h. Packets of a
// message type or status the dispatcher doesn't recognize are ignored.
func Dispatch(p ump.Packet, h Handler) {
	t := ump.Type(p.FirstWord())
	if t != ump.TypeMIDI1Channel && t != ump.TypeMIDI2Channel {
		return
	}
	group := ump.Group(p.FirstWord())
	channel := ump.Channel(p.FirstWord())
	status := ump.Status(p.FirstWord())
	note := ump.NoteNumber(p.FirstWord())

	switch status {
	case ump.StatusNoteOn:
		if ump.IsNoteOff(p.FirstWord(), p.SecondWord()) {
			h.NoteOff(group, channel, note, velocity(t, p.SecondWord()))
		} else {
			h.NoteOn(group, channel, note, velocity(t, p.SecondWord()))
		}
	case ump.StatusNoteOff:
		h.NoteOff(group, channel, note, velocity(t, p.SecondWord()))
	case ump.StatusControlChange:
		controller := uint8(p.FirstWord() >> 8 & 0x7F)
		h.ControlChange(group, channel, controller, p.SecondWord())
	case ump.StatusNRPN:
		bank := uint8(p.FirstWord() >> 8 & 0xFF)
		index := uint8(p.FirstWord() & 0xFF)
		h.AbsoluteNRPN(group, channel, bank, index, p.SecondWord())
	case ump.StatusRelativeNRPN:
		bank := uint8(p.FirstWord() >> 8 & 0xFF)
		index := uint8(p.FirstWord() & 0xFF)
		h.RelativeNRPN(group, channel, bank, index, int32(p.SecondWord()))
	case ump.StatusRPN:
		bank := uint8(p.FirstWord() >> 8 & 0xFF)
		index := uint8(p.FirstWord() & 0xFF)
		h.RegisteredController(group, channel, bank, index, p.SecondWord())
	case ump.StatusPerNoteNRPN:
		index := uint8(p.Words[1] >> 24 & 0xFF)
		h.PerNoteAC(group, channel, note, index, p.Words[2])
	case ump.StatusPerNoteRPN:
		index := uint8(p.Words[1] >> 24 & 0xFF)
		h.PerNoteRC(group, channel, note, index, p.Words[2])
	case ump.StatusPitchBend:
		h.PitchBend(group, channel, p.SecondWord())
	case ump.StatusPerNotePitch:
		h.PerNotePitchBend(group, channel, note, p.Words[2])
	case ump.StatusChannelPressure:
		h.ChannelPressure(group, channel, p.SecondWord())
	case ump.StatusPolyPressure:
		h.PolyPressure(group, channel, note, p.SecondWord())
	case ump.StatusProgramChange:
		bankMSB := uint8(p.Words[1] >> 8 & 0x7F)
		bankLSB := uint8(p.Words[1] & 0x7F)
		program := uint8(p.Words[1] >> 24 & 0x7F)
		h.ProgramChange(group, channel, bankMSB, bankLSB, program)
	}
}

// velocity returns the note velocity scaled to a 32-bit unsigned range
// regardless of source: MIDI1 7-bit velocities are scaled up, MIDI2
// 16-bit velocities (in the top half of secondWord) are scaled up from
// there.
func velocity(t ump.MessageType, secondWord uint32) uint32 {
	if t == ump.TypeMIDI1Channel {
		v7 := secondWord & 0x7F
		return v7 * 0x02040816 // spread 7 bits across 32 bits, like MIDI 2.0 upscaling
	}
	v16 := secondWord >> 16
	return v16<<16 | v16 // repeat the 16 bits to fill 32, matching UMP's M2-to-M2 passthrough convention
}

// BaseHandler implements Handler with no-op methods so adapter-specific
// handlers can embed it and only override the categories they use.
type BaseHandler struct{}

func (BaseHandler) NoteOn(group, channel, note uint8, velocity uint32)  {}
func (BaseHandler) NoteOff(group, channel, note uint8, velocity uint32) {}
func (BaseHandler) ControlChange(group, channel, controller uint8, value uint32)    {}
func (BaseHandler) AbsoluteNRPN(group, channel, bank, index uint8, value uint32)    {}
func (BaseHandler) RelativeNRPN(group, channel, bank, index uint8, delta int32)     {}
func (BaseHandler) RegisteredController(group, channel, bank, index uint8, value uint32) {}
func (BaseHandler) PerNoteAC(group, channel, note, index uint8, value uint32)       {}
func (BaseHandler) PerNoteRC(group, channel, note, index uint8, value uint32)       {}
func (BaseHandler) PitchBend(group, channel uint8, value uint32)                    {}
func (BaseHandler) PerNotePitchBend(group, channel, note uint8, value uint32)       {}
func (BaseHandler) ChannelPressure(group, channel uint8, value uint32)              {}
func (BaseHandler) PolyPressure(group, channel, note uint8, value uint32)           {}
func (BaseHandler) ProgramChange(group, channel uint8, bankMSB, bankLSB, program uint8) {}
