// Package bus models the audio/event bus layout a plugin instance exposes:
// a definition per bus (name, role, candidate channel layouts) and a
// configuration that pins one of those layouts plus an enabled flag. The
// host queries these from each adapter (package busintrospect) rather than
// declaring them itself, inverting the role this shape plays in a plugin
// SDK — but the data shape itself is unchanged.
package bus

// MediaType distinguishes audio buses from event (UMP) buses.
type MediaType int32

const (
	MediaTypeAudio MediaType = 0
	MediaTypeEvent MediaType = 1
)

// Direction is input or output, from the plugin's point of view.
type Direction int32

const (
	DirectionInput  Direction = 0
	DirectionOutput Direction = 1
)

// Role distinguishes the main signal path from auxiliary buses (sidechains,
// send/return pairs, analysis taps).
type Role int32

const (
	RoleMain Role = 0
	RoleAux  Role = 1
)

// Layout is one candidate channel layout a bus can be configured to use.
type Layout struct {
	Label        string
	ChannelCount int32
}

// Definition describes one bus a plugin instance exposes: its name, media
// type, direction, role, and the ordered list of channel layouts the
// adapter is willing to configure it to.
type Definition struct {
	Name      string
	MediaType MediaType
	Direction Direction
	Role      Role
	Layouts   []Layout
}

// Configuration pins one of a Definition's candidate layouts and records
// whether the bus is currently enabled for processing.
type Configuration struct {
	Definition Definition
	Layout     Layout
	Enabled    bool
}

// ChannelCount is the invariant the host relies on when sizing process
// context buffers: a configuration's channel count is exactly the number
// of audio pointers the adapter will present for this bus.
func (c Configuration) ChannelCount() int32 {
	if c.Definition.MediaType != MediaTypeAudio {
		return 0
	}
	return c.Layout.ChannelCount
}

// Layout looks up a candidate layout by channel count; ok is false if the
// definition has no layout with that count.
func (d Definition) LayoutByChannelCount(n int32) (Layout, bool) {
	for _, l := range d.Layouts {
		if l.ChannelCount == n {
			return l, true
		}
	}
	return Layout{}, false
}

// Set is the full bus layout of one plugin instance: an ordered list of
// audio buses and an ordered list of event buses, each already pinned to a
// Configuration. This is what busintrospect.Inspect returns and what the
// node/graph/track layers read to size process buffers.
type Set struct {
	Audio []Configuration
	Event []Configuration
}

// Count returns the number of buses of the given media type and direction.
func (s *Set) Count(mediaType MediaType, direction Direction) int32 {
	buses := s.Audio
	if mediaType == MediaTypeEvent {
		buses = s.Event
	}
	var n int32
	for _, b := range buses {
		if b.Definition.Direction == direction {
			n++
		}
	}
	return n
}

// At returns the index-th bus (within mediaType/direction), or nil if out
// of range.
func (s *Set) At(mediaType MediaType, direction Direction, index int32) *Configuration {
	buses := s.Audio
	if mediaType == MediaTypeEvent {
		buses = s.Event
	}
	var i int32
	for idx := range buses {
		if buses[idx].Definition.Direction != direction {
			continue
		}
		if i == index {
			return &buses[idx]
		}
		i++
	}
	return nil
}

// MainInput and MainOutput return the first Main-role bus in the given
// direction, which is what the graph uses to chain one node's output into
// the next node's input.
func (s *Set) MainOutput() *Configuration { return s.mainBus(DirectionOutput) }
func (s *Set) MainInput() *Configuration  { return s.mainBus(DirectionInput) }

func (s *Set) mainBus(direction Direction) *Configuration {
	for i := range s.Audio {
		if s.Audio[i].Definition.Direction == direction && s.Audio[i].Definition.Role == RoleMain {
			return &s.Audio[i]
		}
	}
	return nil
}

// HasSidechain reports whether any aux input bus is present.
func (s *Set) HasSidechain() bool {
	for _, b := range s.Audio {
		if b.Definition.Direction == DirectionInput && b.Definition.Role == RoleAux {
			return true
		}
	}
	return false
}

// TotalOutputChannels sums the channel counts of every enabled output
// audio bus, used to size the graph's context advance buffer.
func (s *Set) TotalOutputChannels() int32 {
	var n int32
	for _, b := range s.Audio {
		if b.Definition.Direction == DirectionOutput && b.Enabled {
			n += b.ChannelCount()
		}
	}
	return n
}
