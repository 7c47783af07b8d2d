package umpdispatch

import (
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

type recorder struct {
	BaseHandler
	noteOnCalled  bool
	noteOffCalled bool
	lastNote      uint8
	lastNRPN      struct{ bank, index uint8; value uint32 }
	lastRelNRPN   struct{ bank, index uint8; delta int32 }
}

func (r *recorder) NoteOn(group, channel, note uint8, velocity uint32) {
	r.noteOnCalled = true
	r.lastNote = note
}

func (r *recorder) NoteOff(group, channel, note uint8, velocity uint32) {
	r.noteOffCalled = true
	r.lastNote = note
}

func (r *recorder) AbsoluteNRPN(group, channel, bank, index uint8, value uint32) {
	r.lastNRPN.bank = bank
	r.lastNRPN.index = index
	r.lastNRPN.value = value
}

func TestDispatchNoteOn(t *testing.T) {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(2)<<24 | uint32(ump.StatusNoteOn)<<20 | uint32(60)<<8
	second := uint32(0x8000) << 16
	p := ump.NewPacket(0, first, second)

	r := &recorder{}
	Dispatch(p, r)
	if !r.noteOnCalled || r.lastNote != 60 {
		t.Fatalf("expected note-on for note 60, got %+v", r)
	}
}

func TestDispatchVelocityZeroIsNoteOff(t *testing.T) {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(ump.StatusNoteOn)<<20 | uint32(40)<<8
	p := ump.NewPacket(0, first, 0)

	r := &recorder{}
	Dispatch(p, r)
	if !r.noteOffCalled {
		t.Fatal("expected velocity-0 note-on to dispatch as note-off")
	}
}

func TestDispatchNRPN(t *testing.T) {
	p := ump.BuildNRPN(0, 1, 5, 10, 0xABCDEF00)
	r := &recorder{}
	Dispatch(p, r)
	if r.lastNRPN.bank != 5 || r.lastNRPN.index != 10 || r.lastNRPN.value != 0xABCDEF00 {
		t.Fatalf("unexpected NRPN dispatch: %+v", r.lastNRPN)
	}
}

func (r *recorder) RelativeNRPN(group, channel, bank, index uint8, delta int32) {
	r.lastRelNRPN.bank = bank
	r.lastRelNRPN.index = index
	r.lastRelNRPN.delta = delta
}

func TestDispatchRelativeNRPN(t *testing.T) {
	p := ump.BuildRelativeNRPN(0, 1, 5, 10, -4096)
	r := &recorder{}
	Dispatch(p, r)
	if r.lastRelNRPN.bank != 5 || r.lastRelNRPN.index != 10 || r.lastRelNRPN.delta != -4096 {
		t.Fatalf("unexpected relative-NRPN dispatch: %+v", r.lastRelNRPN)
	}
}
