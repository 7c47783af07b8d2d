package node

import (
	"io"
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/bus"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

type fakeInstance struct {
	params       *param.Registry
	processCalls int
}

func newFakeInstance() *fakeInstance {
	return &fakeInstance{params: param.NewRegistry()}
}

func (f *fakeInstance) Family() format.Family { return format.FamilyV3C }
func (f *fakeInstance) Configure(float64, int, process.SampleType, bool, int32, int32) (hosterr.Status, error) {
	return hosterr.StatusOK, nil
}
func (f *fakeInstance) StartProcessing() (hosterr.Status, error) { return hosterr.StatusOK, nil }
func (f *fakeInstance) StopProcessing() (hosterr.Status, error)  { return hosterr.StatusOK, nil }
func (f *fakeInstance) Process(ctx *process.Context) hosterr.Status {
	f.processCalls++
	return hosterr.StatusOK
}
func (f *fakeInstance) Parameters() *param.Registry          { return f.params }
func (f *fakeInstance) States() format.StateIO                { return nil }
func (f *fakeInstance) Presets() []format.PresetInfo          { return nil }
func (f *fakeInstance) AudioBuses() *bus.Set                  { return &bus.Set{} }
func (f *fakeInstance) UI() format.UIHandle                   { return nil }
func (f *fakeInstance) RequiresUIThreadOn() format.UIThreadRequirement {
	return format.UIThreadNotRequired
}
func (f *fakeInstance) Destroy() error { return nil }

var _ format.PluginInstance = (*fakeInstance)(nil)
var _ io.Writer = (*discard)(nil)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func noteOn(group, channel, note uint8) ump.Packet {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
		uint32(ump.StatusNoteOn)<<20 | uint32(channel&0xF)<<16 | uint32(note&0x7F)<<8
	return ump.NewPacket(0, first, uint32(0x8000)<<16)
}

func noteOff(group, channel, note uint8) ump.Packet {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(group&0xF)<<24 |
		uint32(ump.StatusNoteOff)<<20 | uint32(channel&0xF)<<16 | uint32(note&0x7F)<<8
	return ump.NewPacket(0, first, 0)
}

func TestScheduleAndDrain(t *testing.T) {
	n := New(1, newFakeInstance())
	if !n.ScheduleEvents(noteOn(0, 0, 60), noteOn(0, 0, 64)) {
		t.Fatal("expected schedule to succeed")
	}
	if n.QueueLen() != 2 {
		t.Fatalf("expected 2 queued, got %d", n.QueueLen())
	}
	n.DrainQueueToPending()
	if n.PendingLen() != 2 {
		t.Fatalf("expected 2 pending after drain, got %d", n.PendingLen())
	}
}

func TestFillEventBufferForGroupFiltersAndLeavesRemainder(t *testing.T) {
	n := New(1, newFakeInstance())
	n.ScheduleEvents(noteOn(0, 0, 60), noteOn(1, 0, 61))
	n.DrainQueueToPending()

	seq := ump.NewSequence(4)
	n.FillEventBufferForGroup(seq, 0, 10)

	if seq.Len() != 1 {
		t.Fatalf("expected 1 event matching group 0, got %d", seq.Len())
	}
	if n.PendingLen() != 1 {
		t.Fatalf("expected remaining 1 pending event for group 1, got %d", n.PendingLen())
	}
}

func TestFillEventBufferAllGroupsWhenWildcard(t *testing.T) {
	n := New(1, newFakeInstance())
	n.ScheduleEvents(noteOn(0, 0, 60), noteOn(1, 0, 61))
	n.DrainQueueToPending()

	seq := ump.NewSequence(4)
	n.FillEventBufferForGroup(seq, 0xFF, 10)
	if seq.Len() != 2 {
		t.Fatalf("expected wildcard group to match all, got %d", seq.Len())
	}
}

func TestStopAllNotesSynthesizesNoteOffs(t *testing.T) {
	n := New(1, newFakeInstance())
	n.ScheduleEvents(noteOn(2, 3, 60))
	n.DrainQueueToPending() // clear the original note-on out of the way

	n.StopAllNotes()
	if n.QueueLen() != 1 {
		t.Fatalf("expected 1 synthesized note-off queued, got %d", n.QueueLen())
	}

	var drained []ump.Packet
	drained = n.queue.DrainTo(drained)
	if len(drained) != 1 || !ump.IsNoteOff(drained[0].FirstWord(), drained[0].SecondWord()) {
		t.Fatalf("expected a note-off packet, got %+v", drained)
	}
	if ump.Group(drained[0].FirstWord()) != 2 || ump.Channel(drained[0].FirstWord()) != 3 {
		t.Fatalf("expected group 2 channel 3, got %+v", drained[0])
	}
}

func TestStopAllNotesSynthesizesOneNoteOffPerRefcount(t *testing.T) {
	n := New(1, newFakeInstance())
	n.ScheduleEvents(noteOn(0, 0, 64), noteOn(0, 0, 64), noteOn(0, 0, 64))
	n.DrainQueueToPending() // clear the original note-ons out of the way

	n.StopAllNotes()
	if n.QueueLen() != 3 {
		t.Fatalf("expected 3 synthesized note-offs for a refcount-3 key, got %d", n.QueueLen())
	}

	var drained []ump.Packet
	drained = n.queue.DrainTo(drained)
	if len(drained) != 3 {
		t.Fatalf("expected 3 drained note-offs, got %d", len(drained))
	}
	for _, p := range drained {
		if !ump.IsNoteOff(p.FirstWord(), p.SecondWord()) {
			t.Fatalf("expected a note-off packet, got %+v", p)
		}
	}

	n.notes.mu.Lock()
	remaining := len(n.notes.count)
	n.notes.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected active-note map to be empty after 3 note-offs for a refcount-3 key, got %d entries", remaining)
	}
}

func TestStopAllNotesNoopWhenNoActiveNotes(t *testing.T) {
	n := New(1, newFakeInstance())
	n.StopAllNotes()
	if n.QueueLen() != 0 {
		t.Fatalf("expected no synthesized events, got %d", n.QueueLen())
	}
}

func TestNoteOffClearsTrackerEntry(t *testing.T) {
	n := New(1, newFakeInstance())
	n.ScheduleEvents(noteOn(0, 0, 60))
	n.ScheduleEvents(noteOff(0, 0, 60))
	n.DrainQueueToPending()

	n.StopAllNotes()
	if n.QueueLen() != 0 {
		t.Fatalf("expected no stuck notes after matched note-off, got %d", n.QueueLen())
	}
}
