package v3c

import (
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/param"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
)

// fakeComponent and fakeController below provide just enough behavior to
// drive Configure/HandleRestartComponent without a real V3C bundle.

type restartComponent struct {
	state []byte
}

func (c *restartComponent) Initialize() error   { return nil }
func (c *restartComponent) Terminate() error    { return nil }
func (c *restartComponent) SetIOMode(int32) error { return nil }
func (c *restartComponent) BusCount(mediaType, direction int32) int32 { return 1 }
func (c *restartComponent) BusInfo(mediaType, direction, index int32) (string, int32, bool, error) {
	return "Main", 2, true, nil
}
func (c *restartComponent) ActivateBus(mediaType, direction, index int32, active bool) error {
	return nil
}
func (c *restartComponent) SetBusArrangements(inputs, outputs []int64) error { return nil }
func (c *restartComponent) SetupProcessing(sampleRate float64, maxBlockFrames, symbolicSampleSize int32) error {
	return nil
}
func (c *restartComponent) SetActive(bool) error     { return nil }
func (c *restartComponent) SetProcessing(bool) error { return nil }
func (c *restartComponent) Process(frameCount int, input, output [][][]float32, events InputEventList, out OutputEventList) error {
	return nil
}
func (c *restartComponent) GetState() ([]byte, error) { return c.state, nil }
func (c *restartComponent) SetState(data []byte) error {
	c.state = data
	return nil
}

type restartController struct {
	values map[uint32]float64
}

func newRestartController() *restartController {
	return &restartController{values: map[uint32]float64{1: 0.25, 2: 0.75}}
}

func (c *restartController) Initialize() error              { return nil }
func (c *restartController) Terminate() error                { return nil }
func (c *restartController) SetComponentState([]byte) error  { return nil }
func (c *restartController) ParameterCount() int32            { return 2 }
func (c *restartController) ParameterInfo(index int32) (uint32, string, string, float64, float64, float64, int32, error) {
	id := uint32(index + 1)
	return id, "Param", "", 0, 1, c.values[id], int32(param.CanAutomate), nil
}
func (c *restartController) ParamNormalized(nativeID uint32) float64 { return c.values[nativeID] }
func (c *restartController) SetParamNormalized(nativeID uint32, value float64) error {
	c.values[nativeID] = value
	return nil
}
func (c *restartController) GetState() ([]byte, error)  { return nil, nil }
func (c *restartController) SetState(data []byte) error { return nil }

type restartNative struct {
	component  *restartComponent
	controller *restartController
}

func (n *restartNative) Component() Component   { return n.component }
func (n *restartNative) Controller() Controller { return n.controller }

func TestRestartParamValuesChangedNotifiesAllListenersWithCurrentValues(t *testing.T) {
	native := &restartNative{component: &restartComponent{}, controller: newRestartController()}
	inst := New(native)

	if status, err := inst.Configure(48000, 512, process.SampleType32, false, 0, 0); err != nil {
		t.Fatalf("configure failed: status=%v err=%v", status, err)
	}

	type seen struct {
		id    uint32
		value float64
	}
	var notifications []seen
	inst.Parameters().OnChange(func(p *param.Parameter) {
		notifications = append(notifications, seen{id: p.NativeID, value: p.Value()})
	})

	inst.HandleRestartComponent(RestartParamValuesChanged)

	if len(notifications) != 2 {
		t.Fatalf("expected one notification per parameter, got %d", len(notifications))
	}
	want := map[uint32]float64{1: 0.25, 2: 0.75}
	for _, n := range notifications {
		if n.value != want[n.id] {
			t.Fatalf("parameter %d: expected current value %v, got %v", n.id, want[n.id], n.value)
		}
	}
}

func TestRestartReloadComponentResyncsControllerState(t *testing.T) {
	native := &restartNative{component: &restartComponent{state: []byte("saved-state")}, controller: newRestartController()}
	inst := New(native)
	if _, err := inst.Configure(48000, 512, process.SampleType32, false, 0, 0); err != nil {
		t.Fatalf("configure failed: %v", err)
	}

	inst.HandleRestartComponent(RestartReloadComponent)

	if inst.Parameters().Count() != 2 {
		t.Fatalf("expected parameter list reloaded, count=%d", inst.Parameters().Count())
	}
}
