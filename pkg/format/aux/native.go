// Package aux adapts the component-manager-style plugin ABI (AudioUnit's
// render callback + linked-list render events + parameter observer
// tokens, one flat component object with no separate controller) to the
// host's uniform PluginInstance contract.
//
// As with v3c and cfe, no vendor headers exist in this workspace, so the
// native call boundary is this package's Native/Component interfaces
// rather than cgo.
package aux

// Component is the seam over the plugin's single AudioComponent instance:
// initialize/uninitialize, render-notify-free parameter get/set, and the
// render callback itself.
type Component interface {
	Initialize(sampleRate float64, maxFrames int) error
	Uninitialize() error

	Render(frameCount int, input, output [][][]float32, events RenderEventList) error

	ParameterCount() int
	ParameterInfo(index int) (id uint32, name string, min, max, def float32, writable bool, err error)
	ParameterValue(id uint32) (float32, error)
	SetParameterValue(id uint32, value float32) error

	ElementCount(isInput bool) int
	ElementInfo(isInput bool, index int) (name string, channelCount int, isMain bool, err error)

	GetState() (map[string]any, error)
	SetState(state map[string]any) error
}

// Native is one instantiated plugin's native surface.
type Native interface {
	Component() Component
}

// RenderEvent is one node of the ABI's linked render-event list: a
// parameter change scheduled to take effect at a given sample offset
// within the current render call, AudioUnit's AURenderEvent shape.
type RenderEvent struct {
	SampleOffset int
	ParameterID  uint32
	Value        float32
}

// RenderEventList is the seam over the linked list of RenderEvent nodes
// the host hands to Render.
type RenderEventList interface {
	Events() []RenderEvent
	AddReported(id uint32, value float32)
	Reported() []RenderEvent
}
