package umpmap

import (
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

type identityTable struct{}

func (identityTable) NativeIDForParamID(paramID int32) (uint32, bool) { return uint32(paramID) + 1, true }
func (identityTable) ParamIDForNativeID(nativeID uint32) (int32, bool) { return int32(nativeID) - 1, true }

func TestInputMapperAbsoluteNRPNSetsValue(t *testing.T) {
	reg := param.NewRegistry()
	p := param.NewParameter(0, 396+1, "Cutoff", 0, 1, 0, param.CanAutomate)
	reg.Add(p)

	m := NewInputMapper(reg, identityTable{})
	seq := ump.NewSequence(1)
	seq.Add(ump.BuildNRPN(0, 0, 3, 12, 0x80000000))
	m.DispatchSequence(seq)

	if v := reg.Get(397).Value(); v < 0.49999 || v > 0.50001 {
		t.Fatalf("expected ~0.5, got %v", v)
	}
}

func TestInputMapperRelativeNRPNAdjustsValue(t *testing.T) {
	reg := param.NewRegistry()
	p := param.NewParameter(0, 1, "Gain", 0, 1, 0.5, param.CanAutomate)
	reg.Add(p)

	m := NewInputMapper(reg, constTable{nativeID: 1})
	seq := ump.NewSequence(1)
	seq.Add(ump.BuildRelativeNRPN(0, 0, 0, 0, 1<<20))
	m.DispatchSequence(seq)

	if v := reg.Get(1).Value(); v <= 0.5 {
		t.Fatalf("expected value to increase from 0.5, got %v", v)
	}
}

type constTable struct{ nativeID uint32 }

func (c constTable) NativeIDForParamID(int32) (uint32, bool) { return c.nativeID, true }

func TestOutputMapperEncodesParameterChange(t *testing.T) {
	var emitted ump.Packet
	m := NewOutputMapper(identityTable{}, 2, 0, func(p ump.Packet) { emitted = p })
	p := param.NewParameter(0, 397, "Cutoff", 0, 1, 0, param.CanAutomate)
	p.SetValue(0.5)

	m.NotifyParameterChange(p)

	bank, index, data, ok := ump.DecodeNRPN(emitted)
	if !ok {
		t.Fatal("expected an NRPN packet")
	}
	if bank != 3 || index != 12 {
		t.Fatalf("expected bank=3 index=12, got bank=%d index=%d", bank, index)
	}
	if data == 0 {
		t.Fatal("expected nonzero encoded data for 0.5")
	}
	if ump.Group(emitted.FirstWord()) != 2 {
		t.Fatalf("expected group 2, got %d", ump.Group(emitted.FirstWord()))
	}
}
