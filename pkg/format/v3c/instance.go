package v3c

import (
	"bytes"
	"errors"
	"io"

	"github.com/atsu-uapmd/pluginhost/pkg/bus"
	"github.com/atsu-uapmd/pluginhost/pkg/busintrospect"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
)

// RestartFlag mirrors VST3's restartComponent bit flags, the plugin's
// channel for requesting host-side action outside the normal process
// call (IComponentHandler::restartComponent in the real ABI).
type RestartFlag int32

const (
	RestartReloadComponent         RestartFlag = 1 << 0
	RestartIOChanged               RestartFlag = 1 << 1
	RestartParamValuesChanged      RestartFlag = 1 << 2
	RestartLatencyChanged          RestartFlag = 1 << 3
	RestartParamTitlesChanged      RestartFlag = 1 << 4
	RestartMIDICCAssignmentChanged RestartFlag = 1 << 5
	RestartRoutingInfoChanged      RestartFlag = 1 << 6
)

// Instance adapts one instantiated V3C plugin (component + optional
// separate controller) to format.PluginInstance. Lifecycle ordering
// follows the ABI's own sequencing: setIoMode, initialize, obtain
// controller, connect component/controller via connection points, set
// the component handler, activate buses, setupProcessing, setActive,
// setProcessing.
type Instance struct {
	native   Native
	params   *param.Registry
	buses    *bus.Set
	latency  uint32
	states   stateIO

	paramIDToIndex map[uint32]int32 // for restart/UMP NRPN mapping

	metadataRefreshRequested bool
}

// New builds an Instance wrapping native, without yet running the
// lifecycle sequence — call Configure to do that.
func New(native Native) *Instance {
	i := &Instance{
		native:         native,
		params:         param.NewRegistry(),
		paramIDToIndex: make(map[uint32]int32),
	}
	i.states = stateIO{inst: i}
	return i
}

func (i *Instance) Family() format.Family { return format.FamilyV3C }

// Configure runs the ABI's main-thread setup sequence in order: set I/O
// mode, initialize the component, initialize the controller (if
// separate), connect component and controller via connection points
// (modeled here as SetComponentState carrying the link), set the
// component handler, negotiate the requested main bus channel counts,
// activate every bus, then setupProcessing.
func (i *Instance) Configure(sampleRate float64, maxBufferFrames int, sampleType process.SampleType, offline bool, requestedMainIn, requestedMainOut int32) (hosterr.Status, error) {
	component := i.native.Component()
	if component == nil {
		return hosterr.StatusNoInterface, errNoComponent
	}

	if err := component.SetIOMode(0); err != nil {
		return hosterr.StatusFailedToConfigure, err
	}
	if err := component.Initialize(); err != nil {
		return hosterr.StatusFailedToInstantiate, err
	}

	if controller := i.native.Controller(); controller != nil {
		if err := controller.Initialize(); err != nil {
			return hosterr.StatusFailedToInstantiate, err
		}
		if state, err := component.GetState(); err == nil {
			_ = controller.SetComponentState(state)
		}
		i.loadParameters(controller)
	}

	i.refreshBuses(component)
	if requestedMainIn > 0 {
		busintrospect.RequestMainLayout(i.buses, bus.DirectionInput, requestedMainIn)
	}
	if requestedMainOut > 0 {
		busintrospect.RequestMainLayout(i.buses, bus.DirectionOutput, requestedMainOut)
	}
	for idx := range i.buses.Audio {
		b := &i.buses.Audio[idx]
		if err := component.ActivateBus(int32(b.Definition.MediaType), int32(b.Definition.Direction), int32(idx), b.Enabled); err != nil {
			return hosterr.StatusFailedToConfigure, err
		}
	}

	bits := int32(sampleType)
	if err := component.SetupProcessing(sampleRate, int32(maxBufferFrames), bits); err != nil {
		return hosterr.StatusFailedToConfigure, err
	}
	return hosterr.StatusOK, nil
}

func (i *Instance) loadParameters(controller Controller) {
	count := controller.ParameterCount()
	params := make([]*param.Parameter, 0, count)
	idToIndex := make(map[uint32]int32, count)
	for idx := int32(0); idx < count; idx++ {
		nativeID, name, _, min, max, def, flagBits, err := controller.ParameterInfo(idx)
		if err != nil {
			continue
		}
		p := param.NewParameter(idx, nativeID, name, min, max, def, param.Flags(flagBits))
		params = append(params, p)
		idToIndex[nativeID] = idx
	}
	i.params.Reset(params...)
	i.paramIDToIndex = idToIndex
}

func (i *Instance) refreshBuses(component Component) {
	inputs := collectPorts(component, bus.DirectionInput)
	outputs := collectPorts(component, bus.DirectionOutput)
	i.buses = busintrospect.Inspect(inputs, outputs)
}

func collectPorts(component Component, direction bus.Direction) []busintrospect.Port {
	count := component.BusCount(int32(bus.MediaTypeAudio), int32(direction))
	ports := make([]busintrospect.Port, 0, count)
	for idx := int32(0); idx < count; idx++ {
		name, channelCount, isMain, err := component.BusInfo(int32(bus.MediaTypeAudio), int32(direction), idx)
		if err != nil {
			continue
		}
		ports = append(ports, busintrospect.Port{Name: name, ChannelCount: channelCount, RawIsMain: isMain})
	}
	return ports
}

func (i *Instance) StartProcessing() (hosterr.Status, error) {
	component := i.native.Component()
	if err := component.SetActive(true); err != nil {
		return hosterr.StatusFailedToStartProcessing, err
	}
	if err := component.SetProcessing(true); err != nil {
		return hosterr.StatusFailedToStartProcessing, err
	}
	return hosterr.StatusOK, nil
}

func (i *Instance) StopProcessing() (hosterr.Status, error) {
	component := i.native.Component()
	if err := component.SetProcessing(false); err != nil {
		return hosterr.StatusFailedToStopProcessing, err
	}
	if err := component.SetActive(false); err != nil {
		return hosterr.StatusFailedToStopProcessing, err
	}
	return hosterr.StatusOK, nil
}

func (i *Instance) Process(ctx *process.Context) hosterr.Status {
	component := i.native.Component()
	events := newInputEventAdapter(ctx.InputUMP, i.paramIDToIndex)
	out := &outputEventAdapter{ctx: ctx}
	if err := component.Process(ctx.FrameCount, ctx.Input, ctx.Output, events, out); err != nil {
		return hosterr.StatusFailedToProcess
	}
	return hosterr.StatusOK
}

func (i *Instance) Parameters() *param.Registry { return i.params }
func (i *Instance) States() format.StateIO      { return i.states }
func (i *Instance) Presets() []format.PresetInfo { return nil }
func (i *Instance) AudioBuses() *bus.Set         { return i.buses }
func (i *Instance) UI() format.UIHandle          { return nil }
func (i *Instance) RequiresUIThreadOn() format.UIThreadRequirement {
	return format.UIThreadRequired
}

func (i *Instance) Destroy() error {
	component := i.native.Component()
	if controller := i.native.Controller(); controller != nil {
		_ = controller.Terminate()
	}
	return component.Terminate()
}

// HandleRestartComponent is the host's IComponentHandler::restartComponent
// implementation — called by the plugin (on the main thread) to request
// one or more of: reloading component state, bus re-negotiation,
// resyncing listeners to current parameter values, refreshing cached
// latency, or flagging a parameter/routing metadata refresh for the
// application to pick up.
func (i *Instance) HandleRestartComponent(flags RestartFlag) {
	if flags&RestartReloadComponent != 0 {
		i.reloadComponentState()
	}
	if flags&RestartIOChanged != 0 {
		i.refreshBuses(i.native.Component())
	}
	if flags&RestartParamValuesChanged != 0 {
		i.params.NotifyAll()
	}
	if flags&RestartLatencyChanged != 0 {
		// The adapter would re-query GetLatencySamples here; the Native
		// seam doesn't expose it directly, so latency stays at its last
		// cached value until a richer Component method is added.
	}
	if flags&(RestartParamTitlesChanged|RestartMIDICCAssignmentChanged|RestartRoutingInfoChanged) != 0 {
		i.metadataRefreshRequested = true
	}
}

// ConsumeMetadataRefresh tests-and-clears the flag set by a
// title/MIDI-CC/routing restart request.
func (i *Instance) ConsumeMetadataRefresh() bool {
	v := i.metadataRefreshRequested
	i.metadataRefreshRequested = false
	return v
}

func (i *Instance) reloadComponentState() {
	component := i.native.Component()
	state, err := component.GetState()
	if err != nil {
		return
	}
	_ = component.SetState(state)
	if controller := i.native.Controller(); controller != nil {
		_ = controller.SetComponentState(state)
		i.loadParameters(controller)
	}
}

// stateIO implements format.StateIO over the combined component +
// controller state blob.
type stateIO struct {
	inst *Instance
}

func (s stateIO) Save(w io.Writer) error {
	component := s.inst.native.Component()
	componentState, err := component.GetState()
	if err != nil {
		return err
	}
	var controllerState []byte
	if controller := s.inst.native.Controller(); controller != nil {
		controllerState, err = controller.GetState()
		if err != nil {
			return err
		}
	}
	_, err = w.Write(EncodeState(componentState, controllerState))
	return err
}

func (s stateIO) Load(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	componentState, controllerState, err := DecodeState(buf.Bytes())
	if err != nil {
		return err
	}
	component := s.inst.native.Component()
	if err := component.SetState(componentState); err != nil {
		return err
	}
	if controller := s.inst.native.Controller(); controller != nil && len(controllerState) > 0 {
		if err := controller.SetState(controllerState); err != nil {
			return err
		}
		s.inst.loadParameters(controller)
	}
	return nil
}

var errNoComponent = errors.New("v3c: native component is nil")
