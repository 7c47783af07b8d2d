package track

import (
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/graph"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

func stereoCtx(frames int) *process.Context {
	master := process.NewMasterContext(48000)
	ctx := process.NewContext(frames, master)
	ctx.FrameCount = frames
	ctx.Input = [][][]float32{{make([]float32, frames), make([]float32, frames)}}
	ctx.Output = [][][]float32{{make([]float32, frames), make([]float32, frames)}}
	return ctx
}

func TestBypassPassesAudioThrough(t *testing.T) {
	ctx := stereoCtx(4)
	ctx.Input[0][0][0] = 0.5
	g := graph.New(nil, nil)
	tr := New(g, ctx)
	tr.SetBypassed(true)

	tr.ProcessAudio(4)
	if ctx.Output[0][0][0] != 0.5 {
		t.Fatalf("expected bypass to pass input through, got %v", ctx.Output[0][0][0])
	}
}

func TestFreezeEmitsSilence(t *testing.T) {
	ctx := stereoCtx(4)
	ctx.Output[0][0][0] = 0.9
	g := graph.New(nil, nil)
	tr := New(g, ctx)
	tr.SetFrozen(true)

	tr.ProcessAudio(4)
	if ctx.Output[0][0][0] != 0 {
		t.Fatalf("expected freeze to clear output, got %v", ctx.Output[0][0][0])
	}
}

func TestPerInstanceOutputHandlerRouting(t *testing.T) {
	g := graph.New(nil, nil)
	tr := New(g, stereoCtx(4))

	var received int
	tr.SetPluginOutputHandler(7, func(events *ump.Sequence) {
		received = events.Len()
	})

	seq := ump.NewSequence(1)
	seq.Add(ump.NewPacket(0, 0))
	tr.DispatchPluginOutput(7, seq)

	if received != 1 {
		t.Fatalf("expected handler invoked with 1 event, got %d", received)
	}

	tr.SetPluginOutputHandler(7, nil)
	received = -1
	tr.DispatchPluginOutput(7, seq)
	if received != -1 {
		t.Fatal("expected handler removal to stop dispatch")
	}
}
