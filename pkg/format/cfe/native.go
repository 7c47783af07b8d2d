// Package cfe adapts the C-entry-point plugin ABI (a single factory-style
// entry point returning a flat vtable of lifecycle/process callbacks,
// 64-bit-promoted sample processing, id-keyed parameters) to the host's
// uniform PluginInstance contract.
//
// As with package v3c, no vendor headers exist in this workspace, so the
// native call boundary is this package's Native/Plugin interfaces rather
// than cgo; a cgo shim against a real CLAP-style bundle is the only piece
// missing to link a production build.
package cfe

// Plugin is the seam over the plugin's single flat vtable (clap_plugin's
// init/activate/process/deactivate/destroy family in the real ABI).
type Plugin interface {
	Init() error
	Destroy() error

	Activate(sampleRate float64, minFrames, maxFrames uint32) error
	Deactivate() error
	StartProcessing() error
	StopProcessing() error
	Reset()

	Process(frameCount int, input, output [][][]float32, events InputEventQueue, out OutputEventQueue) error

	ParameterCount() uint32
	ParameterInfo(index uint32) (id uint32, name, module string, min, max, def float64, flags uint32, err error)
	ParamValue(id uint32) (float64, error)
	SetParamValue(id uint32, value float64) error

	BusCount(isInput bool) uint32
	BusInfo(isInput bool, index uint32) (name string, channelCount uint32, isMain bool, err error)

	GetState() ([]byte, error)
	SetState(data []byte) error
}

// Native is one instantiated plugin's native surface. Unlike V3C, CFE has
// no separate controller object — Plugin is both processor and parameter
// surface, matching the single-flat-vtable ABI shape.
type Native interface {
	Plugin() Plugin
}

// InputEventQueue and OutputEventQueue stand in for the ABI's sorted
// input/output event lists: notes, per-note/per-channel modulation,
// parameter changes, each timestamped by sample offset within the block.
type InputEventQueue interface {
	Count() int32
	ParamChange(i int32) (id uint32, value float64, ok bool)
	NoteModulation(i int32) (key NoteTarget, value float64, ok bool)
}

type OutputEventQueue interface {
	AddParamChange(id uint32, value float64)
}

// NoteTarget addresses a per-note or per-channel modulation target, the
// CFE family's native analogue of UMP's per-note assignable controller.
type NoteTarget struct {
	PortIndex int16
	Channel   int16 // -1 = wildcard across channels
	Key       int16 // -1 = wildcard across keys (per-channel modulation)
	NoteID    int32 // -1 = no note-id match required
}
