// Package busintrospect provides the generic audio-bus inspector every
// format adapter shares: enumerate an ABI's ports, pick a main bus per
// direction, and label the channel-count with a nominal layout name.
package busintrospect

import "github.com/atsu-uapmd/pluginhost/pkg/bus"

// Port is the minimal per-port data an adapter's native layer can supply;
// RawIsMain reflects whatever ABI-native "main" flag the format exposes
// (VST3's kMain, CLAP's is_main, AU's element 0).
type Port struct {
	Name         string
	ChannelCount int32
	RawIsMain    bool
}

// layoutLabel returns a nominal layout name for a channel count, matching
// the Mono/Stereo/<empty> convention adapters use for display.
func layoutLabel(channels int32) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return ""
	}
}

// Inspect builds a bus.Set from the native ports an adapter reports. The
// first port carrying RawIsMain, or else index 0, becomes the Main bus
// for its direction; all others are Aux.
func Inspect(inputs, outputs []Port) *bus.Set {
	set := &bus.Set{
		Audio: make([]bus.Configuration, 0, len(inputs)+len(outputs)),
	}
	set.Audio = append(set.Audio, inspectDirection(inputs, bus.DirectionInput)...)
	set.Audio = append(set.Audio, inspectDirection(outputs, bus.DirectionOutput)...)
	return set
}

func inspectDirection(ports []Port, direction bus.Direction) []bus.Configuration {
	out := make([]bus.Configuration, 0, len(ports))
	mainIndex := findMainIndex(ports)
	for i, p := range ports {
		role := bus.RoleAux
		if i == mainIndex {
			role = bus.RoleMain
		}
		layout := bus.Layout{Label: layoutLabel(p.ChannelCount), ChannelCount: p.ChannelCount}
		out = append(out, bus.Configuration{
			Definition: bus.Definition{
				Name: p.Name, MediaType: bus.MediaTypeAudio, Direction: direction,
				Role: role, Layouts: []bus.Layout{layout},
			},
			Layout:  layout,
			Enabled: true,
		})
	}
	return out
}

func findMainIndex(ports []Port) int {
	for i, p := range ports {
		if p.RawIsMain {
			return i
		}
	}
	if len(ports) > 0 {
		return 0
	}
	return -1
}

// RequestMainLayout attempts to reconfigure set's main bus (in the given
// direction) to requestedChannels. Returns the resulting channel count
// and whether the request was honored; callers should log a warning and
// re-inspect when ok is false, per the adapter contract.
func RequestMainLayout(set *bus.Set, direction bus.Direction, requestedChannels int32) (actual int32, ok bool) {
	if requestedChannels <= 0 {
		return mainChannelCount(set, direction), true
	}
	main := mainBus(set, direction)
	if main == nil {
		return 0, false
	}
	if layout, found := main.Definition.LayoutByChannelCount(requestedChannels); found {
		main.Layout = layout
		return layout.ChannelCount, true
	}
	return main.Layout.ChannelCount, false
}

func mainBus(set *bus.Set, direction bus.Direction) *bus.Configuration {
	if direction == bus.DirectionOutput {
		return set.MainOutput()
	}
	return set.MainInput()
}

func mainChannelCount(set *bus.Set, direction bus.Direction) int32 {
	if b := mainBus(set, direction); b != nil {
		return b.ChannelCount()
	}
	return 0
}
