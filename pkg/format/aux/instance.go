package aux

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/atsu-uapmd/pluginhost/pkg/bus"
	"github.com/atsu-uapmd/pluginhost/pkg/busintrospect"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
)

var errNoComponent = errors.New("aux: native component is nil")

// Instance adapts one instantiated AUX plugin to format.PluginInstance.
// The component manager style ABI has a single object (no separate
// controller) and reports parameter changes back through its render-event
// list rather than a process-call output list.
type Instance struct {
	native Native
	params *param.Registry
	buses  *bus.Set
	states stateIO
}

func New(native Native) *Instance {
	i := &Instance{native: native, params: param.NewRegistry()}
	i.states = stateIO{inst: i}
	return i
}

func (i *Instance) Family() format.Family { return format.FamilyAUX }

// Configure initializes the component at the given sample rate / buffer
// size, then loads its parameter list and bus topology — AudioUnit has no
// separate bus-activation step, so this is the full setup sequence.
func (i *Instance) Configure(sampleRate float64, maxBufferFrames int, sampleType process.SampleType, offline bool, requestedMainIn, requestedMainOut int32) (hosterr.Status, error) {
	component := i.native.Component()
	if component == nil {
		return hosterr.StatusNoInterface, errNoComponent
	}
	if err := component.Initialize(sampleRate, maxBufferFrames); err != nil {
		return hosterr.StatusFailedToInstantiate, err
	}
	i.loadParameters(component)
	i.refreshBuses(component)
	return hosterr.StatusOK, nil
}

func (i *Instance) loadParameters(component Component) {
	count := component.ParameterCount()
	params := make([]*param.Parameter, 0, count)
	for idx := 0; idx < count; idx++ {
		id, name, min, max, def, writable, err := component.ParameterInfo(idx)
		if err != nil {
			continue
		}
		flags := param.IsReadable
		if writable {
			flags |= param.CanAutomate
		}
		params = append(params, param.NewParameter(int32(idx), id, name, float64(min), float64(max), float64(def), flags))
	}
	i.params.Reset(params...)
}

func (i *Instance) refreshBuses(component Component) {
	inputs := collectPorts(component, true)
	outputs := collectPorts(component, false)
	i.buses = busintrospect.Inspect(inputs, outputs)
}

func collectPorts(component Component, isInput bool) []busintrospect.Port {
	count := component.ElementCount(isInput)
	ports := make([]busintrospect.Port, 0, count)
	for idx := 0; idx < count; idx++ {
		name, channelCount, isMain, err := component.ElementInfo(isInput, idx)
		if err != nil {
			continue
		}
		ports = append(ports, busintrospect.Port{Name: name, ChannelCount: int32(channelCount), RawIsMain: isMain})
	}
	return ports
}

// StartProcessing and StopProcessing are no-ops beyond Configure/Destroy
// for the component-manager ABI, which has no distinct activation state
// machine separate from initialize/uninitialize.
func (i *Instance) StartProcessing() (hosterr.Status, error) { return hosterr.StatusOK, nil }
func (i *Instance) StopProcessing() (hosterr.Status, error)  { return hosterr.StatusOK, nil }

func (i *Instance) Process(ctx *process.Context) hosterr.Status {
	component := i.native.Component()
	events := newRenderEventList(ctx.InputUMP)
	if err := component.Render(ctx.FrameCount, ctx.Input, ctx.Output, events); err != nil {
		return hosterr.StatusFailedToProcess
	}
	flushReported(ctx, events)
	return hosterr.StatusOK
}

func (i *Instance) Parameters() *param.Registry  { return i.params }
func (i *Instance) States() format.StateIO       { return i.states }
func (i *Instance) Presets() []format.PresetInfo { return nil }
func (i *Instance) AudioBuses() *bus.Set         { return i.buses }
func (i *Instance) UI() format.UIHandle          { return nil }
func (i *Instance) RequiresUIThreadOn() format.UIThreadRequirement {
	return format.UIThreadRequired
}

func (i *Instance) Destroy() error {
	return i.native.Component().Uninitialize()
}

// stateIO serializes the component's property-list-style state dictionary
// as JSON — the natural stdlib fit for a string-keyed map of arbitrary
// plist-compatible values; no pack library offers AU-specific plist
// encoding.
type stateIO struct {
	inst *Instance
}

func (s stateIO) Save(w io.Writer) error {
	state, err := s.inst.native.Component().GetState()
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(state)
}

func (s stateIO) Load(r io.Reader) error {
	var state map[string]any
	if err := json.NewDecoder(r).Decode(&state); err != nil {
		return err
	}
	component := s.inst.native.Component()
	if err := component.SetState(state); err != nil {
		return err
	}
	s.inst.loadParameters(component)
	return nil
}
