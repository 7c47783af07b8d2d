// Package v3c adapts the vtable-based component/controller plugin ABI
// (separate processing and controller objects, connection-point
// crosslinking, normalized [0,1] parameters) to the host's uniform
// PluginInstance contract.
//
// The real ABI is consumed through cgo against vendor headers in a
// production build; since no such headers exist in this workspace and
// fabricating them is out of scope, the native call boundary is this
// package's Native/Component/Controller interfaces. A cgo shim
// implementing them is the only piece missing to link against a real
// V3C bundle — every lifecycle/translation decision below is real.
package v3c

// Component is the seam over the plugin's main processing object
// (IComponent + IAudioProcessor in the real ABI).
type Component interface {
	Initialize() error
	Terminate() error
	SetIOMode(mode int32) error
	BusCount(mediaType, direction int32) int32
	BusInfo(mediaType, direction, index int32) (name string, channelCount int32, isMain bool, err error)
	ActivateBus(mediaType, direction, index int32, active bool) error
	SetBusArrangements(inputs, outputs []int64) error
	SetupProcessing(sampleRate float64, maxBlockFrames int32, symbolicSampleSize int32) error
	SetActive(active bool) error
	SetProcessing(processing bool) error
	Process(frameCount int, input, output [][][]float32, events InputEventList, outputEvents OutputEventList) error
	GetState() ([]byte, error)
	SetState(data []byte) error
}

// Controller is the seam over the plugin's separate parameter/editor
// object (IEditController in the real ABI). May be the same underlying
// object as Component for single-object plugins; the adapter doesn't
// care either way.
type Controller interface {
	Initialize() error
	Terminate() error
	SetComponentState(data []byte) error
	ParameterCount() int32
	ParameterInfo(index int32) (nativeID uint32, name, unitPath string, min, max, def float64, flags int32, err error)
	ParamNormalized(nativeID uint32) float64
	SetParamNormalized(nativeID uint32, value float64) error
	GetState() ([]byte, error)
	SetState(data []byte) error
}

// Native is one instantiated plugin's full native surface: its
// component and (possibly nil, meaning same-object) controller.
type Native interface {
	Component() Component
	Controller() Controller // nil if the component doubles as controller
}

// InputEventList and OutputEventList stand in for V3C's event-list
// interfaces (notes, polyphonic pressure, parameter changes); the
// adapter converts to/from these at the process-call boundary only, so
// a cgo shim's concrete list types slot in without touching the
// adapter's control-surface logic.
type InputEventList interface {
	Count() int32
	ParamChange(i int32) (nativeID uint32, value float64, ok bool)
}

type OutputEventList interface {
	AddParamChange(nativeID uint32, value float64)
}
