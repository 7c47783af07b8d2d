// Package track implements AudioPluginTrack: a plugin graph plus
// bypass/freeze transport state and per-instance UMP output routing.
package track

import (
	"sync"
	"sync/atomic"

	"github.com/atsu-uapmd/pluginhost/pkg/graph"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/node"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// OutputHandler receives one instance's UMP output events, already
// group-rewritten by the owning sequencer.
type OutputHandler func(events *ump.Sequence)

// Track pairs a Graph with bypass/freeze flags. Bypassed tracks pass the
// main bus through unchanged; frozen tracks stop consuming newly
// scheduled events but continue emitting silence rather than the last
// rendered block, distinguishing freeze from bypass.
type Track struct {
	graph *graph.Graph

	bypassed int32 // atomic bool
	frozen   int32 // atomic bool

	handlersMu          sync.Mutex // guards perInstanceHandlers: written from the app thread, read from the audio thread's output dispatch
	perInstanceHandlers map[int32]OutputHandler
	mainIOCtx           *process.Context
}

// New wraps g as a Track, with ctx supplying the track-level main bus
// buffers used for bypass pass-through and silence-on-freeze.
func New(g *graph.Graph, ctx *process.Context) *Track {
	return &Track{
		graph:               g,
		mainIOCtx:           ctx,
		perInstanceHandlers: make(map[int32]OutputHandler),
	}
}

// SetBypassed toggles bypass: when true, ProcessAudio copies the main
// input bus straight to the main output bus without running any node.
func (t *Track) SetBypassed(bypassed bool) {
	v := int32(0)
	if bypassed {
		v = 1
	}
	atomic.StoreInt32(&t.bypassed, v)
}

// Bypassed reports the current bypass state.
func (t *Track) Bypassed() bool { return atomic.LoadInt32(&t.bypassed) != 0 }

// SetFrozen toggles freeze: when true, ProcessAudio skips graph
// execution and emits silence, but scheduled events already queued on
// each node are left untouched for when freeze is lifted.
func (t *Track) SetFrozen(frozen bool) {
	v := int32(0)
	if frozen {
		v = 1
	}
	atomic.StoreInt32(&t.frozen, v)
}

// Frozen reports the current freeze state.
func (t *Track) Frozen() bool { return atomic.LoadInt32(&t.frozen) != 0 }

// SetPluginOutputHandler registers a per-instance UMP output route,
// letting the application direct one plugin's output independently of
// the track-level sink installed on the graph.
func (t *Track) SetPluginOutputHandler(instanceID int32, handler OutputHandler) {
	t.handlersMu.Lock()
	defer t.handlersMu.Unlock()
	if handler == nil {
		delete(t.perInstanceHandlers, instanceID)
		return
	}
	t.perInstanceHandlers[instanceID] = handler
}

// DispatchPluginOutput is the entry point the owning sequencer calls
// from the graph's output sink, routing to any per-instance handler
// registered for instanceID.
func (t *Track) DispatchPluginOutput(instanceID int32, events *ump.Sequence) {
	t.handlersMu.Lock()
	h, ok := t.perInstanceHandlers[instanceID]
	t.handlersMu.Unlock()
	if ok {
		h(events)
	}
}

// Nodes exposes the underlying graph's node chain, for the sequencer's
// group-allocation and parameter-listener bookkeeping.
func (t *Track) Nodes() []*node.Node { return t.graph.Nodes() }

// AppendNode adds n to the end of the track's graph, processed against
// ctx on every subsequent ProcessAudio call.
func (t *Track) AppendNode(n *node.Node, ctx *process.Context) {
	t.graph.Append(n, ctx)
}

// MainContext returns the track-level Context used for bypass/freeze
// pass-through, so the sequencer can wire device input/output into it.
func (t *Track) MainContext() *process.Context { return t.mainIOCtx }

// ProcessAudio runs the track for one block: pass-through when
// bypassed, silence when frozen, else the full graph chain.
func (t *Track) ProcessAudio(frameCount int) hosterr.Status {
	if t.Bypassed() {
		if t.mainIOCtx != nil {
			t.mainIOCtx.PassThrough()
		}
		return hosterr.StatusOK
	}
	if t.Frozen() {
		if t.mainIOCtx != nil {
			t.mainIOCtx.ClearOutput()
		}
		return hosterr.StatusOK
	}
	return t.graph.Process(frameCount)
}
