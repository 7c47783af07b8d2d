package graph

import (
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/bus"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/node"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// gainInstance doubles every input sample on process, so chaining two of
// them proves Context.Advance actually carries buffers from one node to
// the next.
type gainInstance struct {
	params *param.Registry
	status hosterr.Status
	calls  int
}

func newGainInstance() *gainInstance {
	return &gainInstance{params: param.NewRegistry(), status: hosterr.StatusOK}
}

func (g *gainInstance) Family() format.Family { return format.FamilyV3C }
func (g *gainInstance) Configure(float64, int, process.SampleType, bool, int32, int32) (hosterr.Status, error) {
	return hosterr.StatusOK, nil
}
func (g *gainInstance) StartProcessing() (hosterr.Status, error) { return hosterr.StatusOK, nil }
func (g *gainInstance) StopProcessing() (hosterr.Status, error)  { return hosterr.StatusOK, nil }
func (g *gainInstance) Process(ctx *process.Context) hosterr.Status {
	g.calls++
	for ch := range ctx.Output[0] {
		for i := range ctx.Output[0][ch] {
			ctx.Output[0][ch][i] = ctx.Input[0][ch][i] * 2
		}
	}
	return g.status
}
func (g *gainInstance) Parameters() *param.Registry                    { return g.params }
func (g *gainInstance) States() format.StateIO                         { return nil }
func (g *gainInstance) Presets() []format.PresetInfo                   { return nil }
func (g *gainInstance) AudioBuses() *bus.Set                           { return &bus.Set{} }
func (g *gainInstance) UI() format.UIHandle                            { return nil }
func (g *gainInstance) RequiresUIThreadOn() format.UIThreadRequirement { return format.UIThreadNotRequired }
func (g *gainInstance) Destroy() error                                 { return nil }

var _ format.PluginInstance = (*gainInstance)(nil)

func stereoContext(frames int) *process.Context {
	master := process.NewMasterContext(48000)
	ctx := process.NewContext(frames, master)
	ctx.FrameCount = frames
	ctx.Input = [][][]float32{{make([]float32, frames), make([]float32, frames)}}
	ctx.Output = [][][]float32{{make([]float32, frames), make([]float32, frames)}}
	return ctx
}

func TestGraphChainsTwoNodes(t *testing.T) {
	inst1 := newGainInstance()
	inst2 := newGainInstance()
	n1 := node.New(1, inst1)
	n2 := node.New(2, inst2)

	g := New(nil, nil)
	ctx1 := stereoContext(8)
	ctx2 := stereoContext(8)
	ctx1.Input[0][0][0] = 1.0
	ctx1.Input[0][1][0] = 1.0

	g.Append(n1, ctx1)
	g.Append(n2, ctx2)

	status := g.Process(8)
	if status != hosterr.StatusOK {
		t.Fatalf("expected OK status, got %v", status)
	}
	if inst1.calls != 1 || inst2.calls != 1 {
		t.Fatalf("expected each node processed once, got %d %d", inst1.calls, inst2.calls)
	}
	if ctx2.Output[0][0][0] != 4.0 {
		t.Fatalf("expected chained doubling (1 -> 2 -> 4), got %v", ctx2.Output[0][0][0])
	}
}

func TestGraphStopsOnFirstFailure(t *testing.T) {
	inst1 := newGainInstance()
	inst1.status = hosterr.StatusFailedToProcess
	inst2 := newGainInstance()

	n1 := node.New(1, inst1)
	n2 := node.New(2, inst2)

	g := New(nil, nil)
	g.Append(n1, stereoContext(8))
	g.Append(n2, stereoContext(8))

	status := g.Process(8)
	if status != hosterr.StatusFailedToProcess {
		t.Fatalf("expected failure status propagated, got %v", status)
	}
	if inst2.calls != 0 {
		t.Fatal("expected second node to be skipped after first node's failure")
	}
}

func TestGraphInvokesOutputSink(t *testing.T) {
	inst := newGainInstanceWithEvent()
	n := node.New(1, inst)

	var sunkInstance int32
	var sunkCount int
	sink := func(instanceID int32, events *ump.Sequence) {
		sunkInstance = instanceID
		sunkCount = events.Len()
	}

	g := New(nil, sink)
	g.Append(n, stereoContext(8))

	if status := g.Process(8); status != hosterr.StatusOK {
		t.Fatalf("expected OK status, got %v", status)
	}
	if sunkInstance != 1 || sunkCount != 1 {
		t.Fatalf("expected sink invoked with 1 event for instance 1, got instance=%d count=%d", sunkInstance, sunkCount)
	}
}

// eventEmittingInstance appends one output UMP event during Process, to
// exercise the graph's output-sink dispatch path.
type eventEmittingInstance struct {
	*gainInstance
}

func newGainInstanceWithEvent() *eventEmittingInstance {
	return &eventEmittingInstance{gainInstance: newGainInstance()}
}

func (e *eventEmittingInstance) Process(ctx *process.Context) hosterr.Status {
	status := e.gainInstance.Process(ctx)
	ctx.OutputUMP.Add(ump.NewPacket(0, uint32(ump.TypeMIDI2Channel)<<28|uint32(ump.StatusNoteOn)<<20))
	return status
}
