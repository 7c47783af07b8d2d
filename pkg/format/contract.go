// Package format defines the uniform contract every plugin format
// adapter (V3C, CFE, AUX) implements, so the node/graph/track/sequencer
// layers above never need to know which native ABI a given instance
// speaks.
package format

import (
	"io"

	"github.com/atsu-uapmd/pluginhost/pkg/bus"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
)

// Family identifies which native ABI an adapter speaks.
type Family string

const (
	FamilyV3C Family = "v3c"
	FamilyCFE Family = "cfe"
	FamilyAUX Family = "aux"
)

// UIThreadRequirement discloses whether a plugin instance's lifecycle
// must run on the host's designated main thread.
type UIThreadRequirement int

const (
	UIThreadNotRequired UIThreadRequirement = iota
	UIThreadRequired
)

// PresetInfo is one entry in an instance's factory or user preset list.
type PresetInfo struct {
	Name string
	ID   string
}

// PluginInstance is the uniform contract every format adapter satisfies.
// Lifecycle: created → configured → processing-active →
// processing-stopped → destroyed. Every method except Process must be
// invoked from the host's main thread.
type PluginInstance interface {
	Family() Family

	// Configure prepares the instance for processing at the given
	// sample rate / buffer size / sample type, optionally requesting a
	// specific main-bus channel count (0 = no preference) and whether
	// offline (non-realtime) rendering is active.
	Configure(sampleRate float64, maxBufferFrames int, sampleType process.SampleType, offline bool, requestedMainIn, requestedMainOut int32) (hosterr.Status, error)

	StartProcessing() (hosterr.Status, error)
	StopProcessing() (hosterr.Status, error)

	// Process runs one audio block. Must only be called from the
	// realtime audio thread, never the main thread.
	Process(ctx *process.Context) hosterr.Status

	Parameters() *param.Registry
	States() StateIO
	Presets() []PresetInfo
	AudioBuses() *bus.Set
	UI() UIHandle

	RequiresUIThreadOn() UIThreadRequirement

	Destroy() error
}

// StateIO saves/restores an instance's full parameter + custom state.
type StateIO interface {
	Save(w io.Writer) error
	Load(r io.Reader) error
}

// UIHandle is an opaque editor-embedding handle; GUI embedding itself is
// out of scope, so this is a narrow marker interface adapters can return
// nil for when no editor is available.
type UIHandle interface {
	HasEditor() bool
}
