// Package sequencer implements the SequencerEngine: owns tracks, drives
// the audio callback, performs group-based UMP routing, transport state,
// and parameter-update propagation between plugin instances and the
// application.
package sequencer

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/atsu-uapmd/pluginhost/pkg/graph"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/node"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/track"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// PreprocessFunc runs once per block before any track is processed,
// letting an application wire in source-node integration (e.g. a live
// input monitor) ahead of the plugin chains.
type PreprocessFunc func(frameCount int)

// Engine owns every track, the shared master transport, UMP group
// allocation, and per-instance parameter-update coalescing for one
// device callback stream.
type Engine struct {
	mu sync.RWMutex

	master *process.MasterContext

	tracks         []*track.Track
	tracksSnapshot atomic.Pointer[[]*track.Track] // lock-free, allocation-free read for ProcessBlock
	instanceTrack  map[int32]int32
	instanceNode   map[int32]*node.Node

	groups *groupAllocator
	params *paramListeners

	transport transport
	spectrum  spectrum

	preprocess PreprocessFunc

	offlineRendering int32 // atomic bool via transport-style helper below
}

// New returns an Engine driving playback at sampleRate.
func New(sampleRate float64) *Engine {
	e := &Engine{
		master:        process.NewMasterContext(sampleRate),
		instanceTrack: make(map[int32]int32),
		instanceNode:  make(map[int32]*node.Node),
		groups:        newGroupAllocator(),
		params:        newParamListeners(),
	}
	empty := []*track.Track(nil)
	e.tracksSnapshot.Store(&empty)
	return e
}

// Master returns the shared master transport context lent to every
// track's process contexts.
func (e *Engine) Master() *process.MasterContext { return e.master }

// SetPreprocess installs the optional per-block preprocessing callback.
func (e *Engine) SetPreprocess(fn PreprocessFunc) { e.preprocess = fn }

// AddTrack creates a new track whose graph routes group resolution and
// plugin-output dispatch through this engine, and returns both the track
// and its index (used by AddInstance/RemoveInstance).
func (e *Engine) AddTrack(mainCtx *process.Context) (*track.Track, int32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := int32(len(e.tracks))
	g := newTrackGraph(e, idx)
	tr := track.New(g, mainCtx)
	e.tracks = append(e.tracks, tr)

	snapshot := append([]*track.Track(nil), e.tracks...)
	e.tracksSnapshot.Store(&snapshot)
	return tr, idx
}

// AddInstance registers n as belonging to trackIndex's track, assigning
// it a UMP group and subscribing the engine's parameter listeners.
func (e *Engine) AddInstance(trackIndex int32, instanceID int32, n *node.Node, ctx *process.Context) uint8 {
	e.mu.Lock()
	tr := e.tracks[trackIndex]
	e.instanceTrack[instanceID] = trackIndex
	e.instanceNode[instanceID] = n
	e.mu.Unlock()

	tr.AppendNode(n, ctx)
	e.params.Subscribe(instanceID, n)
	return e.groups.Assign(instanceID)
}

// RemoveInstance releases instanceID's UMP group and bookkeeping. The
// node itself remains in its track's graph until the caller rebuilds the
// track — removing nodes from a live graph mid-block is outside the
// engine's scope.
func (e *Engine) RemoveInstance(instanceID int32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.instanceTrack, instanceID)
	delete(e.instanceNode, instanceID)
	e.groups.Release(instanceID)
}

func (e *Engine) resolveGroup(instanceID int32) uint8 {
	return e.groups.GroupFor(instanceID)
}

// newTrackGraph builds a graph.Graph whose group resolver and output
// sink both route through this engine, scoped to trackIndex so the
// sink can find the owning track when dispatching plugin output.
func newTrackGraph(e *Engine, trackIndex int32) *graph.Graph {
	return graph.New(e.resolveGroup, func(instanceID int32, events *ump.Sequence) {
		e.dispatchPluginOutput(trackIndex, instanceID, events)
	})
}

// SetOfflineRendering flips the offline-rendering flag, consulted by
// adapters that support non-realtime render mode at their next
// configuration call.
func (e *Engine) SetOfflineRendering(offline bool) {
	v := int32(0)
	if offline {
		v = 1
	}
	atomic.StoreInt32(&e.offlineRendering, v)
}

// OfflineRendering reports the current offline-rendering flag.
func (e *Engine) OfflineRendering() bool {
	return atomic.LoadInt32(&e.offlineRendering) != 0
}

// EnqueueUMP finds the track containing instanceID and rewrites the
// group nibble of every packet to the assigned group before scheduling
// on that instance's node — centralising group rewriting so a virtual
// MIDI device can post using group 0 and still route correctly.
func (e *Engine) EnqueueUMP(instanceID int32, packets ...ump.Packet) bool {
	e.mu.RLock()
	n, ok := e.instanceNode[instanceID]
	e.mu.RUnlock()
	if !ok {
		return false
	}
	group := e.groups.GroupFor(instanceID)
	rewritten := make([]ump.Packet, len(packets))
	for i, p := range packets {
		p.Words[0] = ump.WithGroup(p.Words[0], group)
		rewritten[i] = p
	}
	return n.ScheduleEvents(rewritten...)
}

// dispatchPluginOutput is installed as every track's graph output sink.
// It rewrites the group nibble to the owning instance's assigned group,
// extracts NRPN parameter updates, and routes the rewritten buffer to
// whatever per-instance output handler the track has registered.
func (e *Engine) dispatchPluginOutput(trackIndex int32, instanceID int32, events *ump.Sequence) {
	group := e.groups.GroupFor(instanceID)
	events.RewriteGroups(group)

	for _, p := range events.All() {
		if bank, index, data, ok := ump.DecodeNRPN(p); ok {
			paramIndex := int32(bank)*128 + int32(index)
			value := float64(data) / float64(math.MaxUint32)
			e.params.AddUpdate(instanceID, ParameterUpdate{
				ParameterIndex: paramIndex,
				Value:          value,
			})
		}
	}

	e.mu.RLock()
	tr := e.tracks[trackIndex]
	e.mu.RUnlock()
	tr.DispatchPluginOutput(instanceID, events)
}

// GetParameterUpdates drains instanceID's pending parameter-update queue.
func (e *Engine) GetParameterUpdates(instanceID int32) []ParameterUpdate {
	return e.params.GetParameterUpdates(instanceID)
}

// ConsumeParameterMetadataRefresh tests-and-clears instanceID's
// metadata-refresh flag.
func (e *Engine) ConsumeParameterMetadataRefresh(instanceID int32) bool {
	return e.params.ConsumeParameterMetadataRefresh(instanceID)
}

// NotifyRestart is the host-side response to a plugin's
// restartComponent(param values changed) signal: every parameter-change
// listener receives one notification per parameter at its current value.
func (e *Engine) NotifyRestart(instanceID int32, registry *param.Registry) {
	e.params.NotifyRestart(instanceID, registry)
}

// StartPlayback, PausePlayback, ResumePlayback, StopPlayback, and
// PlaybackPosition expose the transport to the application.
func (e *Engine) StartPlayback()          { e.transport.StartPlayback() }
func (e *Engine) PausePlayback()          { e.transport.PausePlayback() }
func (e *Engine) ResumePlayback()         { e.transport.ResumePlayback() }
func (e *Engine) StopPlayback()           { e.transport.StopPlayback() }
func (e *Engine) PlaybackPosition() int64 { return e.transport.Position() }
func (e *Engine) IsPlaying() bool         { return e.transport.IsPlaying() }

// ReadSpectrum returns the most recently published input/output spectrum
// bars, safe to call from the UI thread concurrently with processing.
func (e *Engine) ReadSpectrum() (in, out [spectrumBars]float32) {
	return e.spectrum.Read()
}

// ProcessBlock drives one device callback: copies deviceInput into every
// track's main input (or zero-fills when deviceInput is nil), runs the
// optional preprocessing callback, processes every track, mixes each
// track's main output bus additively into deviceOutput with tanh
// soft-clipping, bins the spectrum, and advances the transport.
func (e *Engine) ProcessBlock(frameCount int, deviceInput, deviceOutput [][]float32) hosterr.Status {
	tracks := *e.tracksSnapshot.Load()

	if e.preprocess != nil {
		e.preprocess(frameCount)
	}

	for ch := range deviceOutput {
		for i := range deviceOutput[ch] {
			deviceOutput[ch][i] = 0
		}
	}

	var firstFailure hosterr.Status = hosterr.StatusOK
	for _, tr := range tracks {
		if ctx := tr.MainContext(); ctx != nil {
			for ch, in := range ctx.InputChannels(0) {
				if deviceInput != nil && ch < len(deviceInput) {
					copy(in, deviceInput[ch])
				} else {
					for i := range in {
						in[i] = 0
					}
				}
			}
		}

		status := tr.ProcessAudio(frameCount)
		if status != hosterr.StatusOK && firstFailure == hosterr.StatusOK {
			firstFailure = status
		}

		if ctx := tr.MainContext(); ctx != nil {
			mixAdditive(deviceOutput, ctx.OutputChannels(0))
		}
	}

	for ch := range deviceOutput {
		for i, v := range deviceOutput[ch] {
			deviceOutput[ch][i] = float32(math.Tanh(float64(v)))
		}
	}

	e.spectrum.BinBlock(deviceInput, deviceOutput)
	e.transport.Advance(frameCount)

	return firstFailure
}

func mixAdditive(dst, src [][]float32) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for ch := 0; ch < n; ch++ {
		frames := len(src[ch])
		if len(dst[ch]) < frames {
			frames = len(dst[ch])
		}
		for i := 0; i < frames; i++ {
			dst[ch][i] += src[ch][i]
		}
	}
}

// sendNoteOn, sendNoteOff, sendPitchBend, and sendChannelPressure are
// thin convenience wrappers over EnqueueUMP that build the 1-2 word UMP
// themselves, grounded on SequencerEngine::sendNoteOn et al. in the
// original implementation this spec was distilled from.

// SendNoteOn enqueues a MIDI 2.0 note-on for instanceID.
func (e *Engine) SendNoteOn(instanceID int32, channel, note uint8, velocity16 uint16) bool {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(ump.StatusNoteOn)<<20 |
		uint32(channel&0xF)<<16 | uint32(note&0x7F)<<8
	second := uint32(velocity16) << 16
	return e.EnqueueUMP(instanceID, ump.NewPacket(0, first, second))
}

// SendNoteOff enqueues a MIDI 2.0 note-off for instanceID.
func (e *Engine) SendNoteOff(instanceID int32, channel, note uint8, velocity16 uint16) bool {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(ump.StatusNoteOff)<<20 |
		uint32(channel&0xF)<<16 | uint32(note&0x7F)<<8
	second := uint32(velocity16) << 16
	return e.EnqueueUMP(instanceID, ump.NewPacket(0, first, second))
}

// SendPitchBend enqueues a MIDI 2.0 channel pitch-bend for instanceID;
// value32 is the full 32-bit normalized bend value.
func (e *Engine) SendPitchBend(instanceID int32, channel uint8, value32 uint32) bool {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(ump.StatusPitchBend)<<20 |
		uint32(channel&0xF)<<16
	return e.EnqueueUMP(instanceID, ump.NewPacket(0, first, value32))
}

// SendChannelPressure enqueues a MIDI 2.0 channel pressure for instanceID;
// value32 is the full 32-bit normalized pressure value.
func (e *Engine) SendChannelPressure(instanceID int32, channel uint8, value32 uint32) bool {
	first := uint32(ump.TypeMIDI2Channel)<<28 | uint32(ump.StatusChannelPressure)<<20 |
		uint32(channel&0xF)<<16
	return e.EnqueueUMP(instanceID, ump.NewPacket(0, first, value32))
}
