package cfe

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

var errNoPlugin = errors.New("cfe: native plugin is nil")

// Instance adapts one instantiated CFE plugin to format.PluginInstance.
// Unlike V3C there is a single flat object: init, activate, start/stop
// processing, process, deactivate, destroy — no separate controller to
// cross-link.
type Instance struct {
	native Native
	params *param.Registry
	buses  *bus.Set
	states stateIO
}

// New builds an Instance wrapping native, without running Init/Activate —
// call Configure to do that.
func New(native Native) *Instance {
	i := &Instance{native: native, params: param.NewRegistry()}
	i.states = stateIO{inst: i}
	return i
}

func (i *Instance) Family() format.Family { return format.FamilyCFE }

// Configure runs the ABI's setup sequence: Init, then Activate with the
// negotiated sample rate / block-size range, loading the parameter list
// and bus topology once the plugin is initialized.
func (i *Instance) Configure(sampleRate float64, maxBufferFrames int, sampleType process.SampleType, offline bool, requestedMainIn, requestedMainOut int32) (hosterr.Status, error) {
	plugin := i.native.Plugin()
	if plugin == nil {
		return hosterr.StatusNoInterface, errNoPlugin
	}
	if err := plugin.Init(); err != nil {
		return hosterr.StatusFailedToInstantiate, err
	}
	i.loadParameters(plugin)
	i.refreshBuses(plugin)

	if err := plugin.Activate(sampleRate, 1, uint32(maxBufferFrames)); err != nil {
		return hosterr.StatusFailedToConfigure, err
	}
	return hosterr.StatusOK, nil
}

func (i *Instance) loadParameters(plugin Plugin) {
	count := plugin.ParameterCount()
	params := make([]*param.Parameter, 0, count)
	for idx := uint32(0); idx < count; idx++ {
		id, name, _, min, max, def, flagBits, err := plugin.ParameterInfo(idx)
		if err != nil {
			continue
		}
		params = append(params, param.NewParameter(int32(idx), id, name, min, max, def, param.Flags(flagBits)))
	}
	i.params.Reset(params...)
}

func (i *Instance) refreshBuses(plugin Plugin) {
	inputs := collectPorts(plugin, true)
	outputs := collectPorts(plugin, false)
	i.buses = busintrospect.Inspect(inputs, outputs)
}

func collectPorts(plugin Plugin, isInput bool) []busintrospect.Port {
	count := plugin.BusCount(isInput)
	ports := make([]busintrospect.Port, 0, count)
	for idx := uint32(0); idx < count; idx++ {
		name, channelCount, isMain, err := plugin.BusInfo(isInput, idx)
		if err != nil {
			continue
		}
		ports = append(ports, busintrospect.Port{Name: name, ChannelCount: int32(channelCount), RawIsMain: isMain})
	}
	return ports
}

func (i *Instance) StartProcessing() (hosterr.Status, error) {
	if err := i.native.Plugin().StartProcessing(); err != nil {
		return hosterr.StatusFailedToStartProcessing, err
	}
	return hosterr.StatusOK, nil
}

func (i *Instance) StopProcessing() (hosterr.Status, error) {
	i.native.Plugin().StopProcessing()
	return hosterr.StatusOK, nil
}

func (i *Instance) Process(ctx *process.Context) hosterr.Status {
	plugin := i.native.Plugin()
	events := newInputEventQueue(ctx.InputUMP)
	out := &outputEventQueue{ctx: ctx}
	if err := plugin.Process(ctx.FrameCount, ctx.Input, ctx.Output, events, out); err != nil {
		return hosterr.StatusFailedToProcess
	}
	return hosterr.StatusOK
}

func (i *Instance) Parameters() *param.Registry  { return i.params }
func (i *Instance) States() format.StateIO       { return i.states }
func (i *Instance) Presets() []format.PresetInfo { return nil }
func (i *Instance) AudioBuses() *bus.Set         { return i.buses }
func (i *Instance) UI() format.UIHandle          { return nil }
func (i *Instance) RequiresUIThreadOn() format.UIThreadRequirement {
	return format.UIThreadNotRequired
}

func (i *Instance) Destroy() error {
	plugin := i.native.Plugin()
	plugin.Deactivate()
	return plugin.Destroy()
}

type stateIO struct {
	inst *Instance
}

func (s stateIO) Save(w io.Writer) error {
	state, err := s.inst.native.Plugin().GetState()
	if err != nil {
		return err
	}
	_, err = w.Write(state)
	return err
}

func (s stateIO) Load(r io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return err
	}
	plugin := s.inst.native.Plugin()
	if err := plugin.SetState(buf.Bytes()); err != nil {
		return err
	}
	s.inst.loadParameters(plugin)
	return nil
}
