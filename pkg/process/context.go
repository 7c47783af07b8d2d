// Package process models the per-invocation process context the
// sequencer lends to each plugin instance: audio bus buffers in both
// directions, an input and output UMP event sequence, and a reference to
// the shared master transport context. The sequencer owns every Context
// and its buffers; a plugin instance may read its input buffers and
// events but must never retain the pointers past the call, and must never
// write into an input buffer.
package process

import "github.com/atsu-uapmd/pluginhost/pkg/ump"

// SampleType is the symbolic sample width a Context's buffers use.
type SampleType int32

const (
	SampleType32 SampleType = 32
	SampleType64 SampleType = 64
)

// MasterContext is the transport state shared by every node processed in
// one sequencer tick: sample rate, playback position, transport state,
// and tempo/time-signature for host-synced plugins.
type MasterContext struct {
	SampleRate            float64
	PositionSamples       int64
	IsPlaying             bool
	TempoMicrosPerQuarter float64 // default 500000 = 120 BPM
	TimeSigNumerator      uint8
	TimeSigDenominator    uint8
}

// NewMasterContext returns a MasterContext at 120 BPM, 4/4, stopped.
func NewMasterContext(sampleRate float64) *MasterContext {
	return &MasterContext{
		SampleRate:            sampleRate,
		TempoMicrosPerQuarter: 500000,
		TimeSigNumerator:      4,
		TimeSigDenominator:    4,
	}
}

// Context is the per-call snapshot lent to one plugin instance's Process.
// Bus buffers are indexed [bus][channel], each a slice of FrameCount
// samples backed by the sequencer's pre-allocated pool — no allocation
// happens on the audio thread.
type Context struct {
	FrameCount int
	SampleType SampleType
	Input      [][][]float32 // [bus][channel][frame]
	Output     [][][]float32
	InputUMP   *ump.Sequence
	OutputUMP  *ump.Sequence
	Master     *MasterContext

	workBuffer []float32
	tempBuffer []float32
}

// NewContext allocates a Context with work buffers sized to maxBlockSize;
// bus buffer slices are assigned by the caller (graph/node) per block.
func NewContext(maxBlockSize int, master *MasterContext) *Context {
	return &Context{
		Master:     master,
		workBuffer: make([]float32, maxBlockSize),
		tempBuffer: make([]float32, maxBlockSize),
		InputUMP:   ump.NewSequence(64),
		OutputUMP:  ump.NewSequence(64),
	}
}

// WorkBuffer and TempBuffer return pre-allocated scratch space sized to
// the current FrameCount, reused across calls to avoid RT-thread
// allocation.
func (c *Context) WorkBuffer() []float32 { return c.workBuffer[:c.FrameCount] }
func (c *Context) TempBuffer() []float32 { return c.tempBuffer[:c.FrameCount] }

// InputChannels and OutputChannels return the channel buffers for bus
// index i, or nil if the bus doesn't exist.
func (c *Context) InputChannels(bus int) [][]float32 {
	if bus < 0 || bus >= len(c.Input) {
		return nil
	}
	return c.Input[bus]
}

func (c *Context) OutputChannels(bus int) [][]float32 {
	if bus < 0 || bus >= len(c.Output) {
		return nil
	}
	return c.Output[bus]
}

// PassThrough copies the main input bus (0) into the main output bus (0)
// channel-for-channel, up to the smaller channel count — used when a
// track is bypassed.
func (c *Context) PassThrough() {
	in := c.InputChannels(0)
	out := c.OutputChannels(0)
	n := len(in)
	if len(out) < n {
		n = len(out)
	}
	for ch := 0; ch < n; ch++ {
		copy(out[ch], in[ch])
	}
}

// ClearOutput zeros every output bus, used when a track is frozen or a
// plugin instance fails to process.
func (c *Context) ClearOutput() {
	for bus := range c.Output {
		for ch := range c.Output[bus] {
			for i := range c.Output[bus][ch] {
				c.Output[bus][ch][i] = 0
			}
		}
	}
}

// Advance copies this context's output buffers into next's input buffers,
// implementing the graph's "outputs become the next node's inputs"
// invariant between successive nodes in one process call.
func (c *Context) Advance(next *Context) {
	n := len(c.Output)
	if len(next.Input) < n {
		n = len(next.Input)
	}
	for bus := 0; bus < n; bus++ {
		chCount := len(c.Output[bus])
		if len(next.Input[bus]) < chCount {
			chCount = len(next.Input[bus])
		}
		for ch := 0; ch < chCount; ch++ {
			copy(next.Input[bus][ch], c.Output[bus][ch])
		}
	}
}
