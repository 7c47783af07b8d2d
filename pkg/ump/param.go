package ump

// BuildNRPN encodes a 2-word MIDI 2.0 assignable (unregistered) per-channel
// controller UMP carrying a 14-bit parameter bank/index (split as MSB/LSB
// across the two controller-number bytes, matching MIDI 2.0's reuse of the
// classic RPN/NRPN addressing) and a full 32-bit normalized data word.
func BuildNRPN(group, channel uint8, bank, index uint8, data uint32) Packet {
	w0 := uint32(TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
		uint32(StatusNRPN)<<20 | uint32(channel&0xF)<<16 |
		uint32(bank)<<8 | uint32(index)
	return Packet{Words: [4]uint32{w0, data}, WordCount: 2}
}

// DecodeNRPN extracts (bank, index, data) from a 2-word MIDI 2.0 assignable
// per-channel controller packet. ok is false if p is not an NRPN message.
func DecodeNRPN(p Packet) (bank, index uint8, data uint32, ok bool) {
	if Type(p.FirstWord()) != TypeMIDI2Channel || Status(p.FirstWord()) != StatusNRPN {
		return 0, 0, 0, false
	}
	bank = uint8(p.FirstWord() >> 8 & 0xFF)
	index = uint8(p.FirstWord() & 0xFF)
	data = p.SecondWord()
	return bank, index, data, true
}

// BuildRelativeNRPN encodes a 2-word MIDI 2.0 relative assignable
// (unregistered) per-channel controller UMP: same bank/index addressing as
// BuildNRPN, but data is a signed delta to add to the target's current
// value rather than an absolute replacement.
func BuildRelativeNRPN(group, channel uint8, bank, index uint8, delta int32) Packet {
	w0 := uint32(TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
		uint32(StatusRelativeNRPN)<<20 | uint32(channel&0xF)<<16 |
		uint32(bank)<<8 | uint32(index)
	return Packet{Words: [4]uint32{w0, uint32(delta)}, WordCount: 2}
}

// DecodeRelativeNRPN extracts (bank, index, delta) from a 2-word MIDI 2.0
// relative assignable per-channel controller packet. ok is false if p is
// not a relative-NRPN message.
func DecodeRelativeNRPN(p Packet) (bank, index uint8, delta int32, ok bool) {
	if Type(p.FirstWord()) != TypeMIDI2Channel || Status(p.FirstWord()) != StatusRelativeNRPN {
		return 0, 0, 0, false
	}
	bank = uint8(p.FirstWord() >> 8 & 0xFF)
	index = uint8(p.FirstWord() & 0xFF)
	delta = int32(p.SecondWord())
	return bank, index, delta, true
}

// BuildPerNoteNRPN encodes a 4-word MIDI 2.0 per-note assignable controller
// (PNAC) message, used for per-note modulation targets in the CFE and AUX
// adapters. Word layout: w0 carries group/status/channel/note, w1 carries
// the 8-bit controller index in its top byte, w2 carries the full 32-bit
// data value.
func BuildPerNoteNRPN(group, channel, note, index uint8, data uint32) Packet {
	w0 := uint32(TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
		uint32(StatusPerNoteNRPN)<<20 | uint32(channel&0xF)<<16 |
		uint32(note&0x7F)<<8
	w1 := uint32(index) << 24
	return Packet{Words: [4]uint32{w0, w1, data, 0}, WordCount: 4}
}

// DecodePerNoteNRPN extracts (channel, note, index, data) from a 4-word
// MIDI 2.0 per-note assignable controller packet built by
// BuildPerNoteNRPN. ok is false if p is not such a message.
func DecodePerNoteNRPN(p Packet) (channel, note, index uint8, data uint32, ok bool) {
	if Type(p.FirstWord()) != TypeMIDI2Channel || Status(p.FirstWord()) != StatusPerNoteNRPN {
		return 0, 0, 0, 0, false
	}
	channel = Channel(p.FirstWord())
	note = uint8(p.FirstWord() >> 8 & 0x7F)
	index = uint8(p.Words[1] >> 24 & 0xFF)
	data = p.Words[2]
	return channel, note, index, data, true
}

// NoteKey packs (group, channel, note) into a compact uint16 for use as a
// multiset key in the active-note tracker: group in bits 15-12, channel in
// bits 11-8, note in bits 7-0.
func NoteKey(group, channel, note uint8) uint16 {
	return uint16(group&0xF)<<12 | uint16(channel&0xF)<<8 | uint16(note&0x7F)
}

// DecodeNoteKey reverses NoteKey.
func DecodeNoteKey(key uint16) (group, channel, note uint8) {
	return uint8(key >> 12 & 0xF), uint8(key >> 8 & 0xF), uint8(key & 0x7F)
}
