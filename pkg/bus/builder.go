package bus

// Builder provides a fluent API for constructing a bus Set, used by
// adapter tests and fakes to describe what a fake plugin instance reports
// for its bus layout. Mirrors the fluent builder the teacher SDK exposes
// to plugin authors, repurposed here to build host-side expectations.
type Builder struct {
	set Set
}

// NewBuilder starts an empty bus Set.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) withAudio(name string, direction Direction, role Role, channels int32, enabled bool) *Builder {
	layout := Layout{Label: name, ChannelCount: channels}
	b.set.Audio = append(b.set.Audio, Configuration{
		Definition: Definition{
			Name: name, MediaType: MediaTypeAudio, Direction: direction,
			Role: role, Layouts: []Layout{layout},
		},
		Layout:  layout,
		Enabled: enabled,
	})
	return b
}

// WithStereoInput/Output and WithMonoInput/Output add main buses with a
// single candidate layout pinned and enabled.
func (b *Builder) WithStereoInput(name string) *Builder  { return b.withAudio(name, DirectionInput, RoleMain, 2, true) }
func (b *Builder) WithStereoOutput(name string) *Builder { return b.withAudio(name, DirectionOutput, RoleMain, 2, true) }
func (b *Builder) WithMonoInput(name string) *Builder    { return b.withAudio(name, DirectionInput, RoleMain, 1, true) }
func (b *Builder) WithMonoOutput(name string) *Builder   { return b.withAudio(name, DirectionOutput, RoleMain, 1, true) }

// WithSidechain adds a stereo auxiliary input, disabled by default like a
// plugin's optional sidechain bus typically starts.
func (b *Builder) WithSidechain(name string) *Builder {
	return b.withAudio(name, DirectionInput, RoleAux, 2, false)
}

// WithAudioInput/Output add a bus with an arbitrary channel count.
func (b *Builder) WithAudioInput(name string, channels int32) *Builder {
	return b.withAudio(name, DirectionInput, RoleMain, channels, true)
}
func (b *Builder) WithAudioOutput(name string, channels int32) *Builder {
	return b.withAudio(name, DirectionOutput, RoleMain, channels, true)
}

// WithEventInput/Output add a single-channel event (UMP) bus.
func (b *Builder) WithEventInput(name string) *Builder  { return b.withEvent(name, DirectionInput) }
func (b *Builder) WithEventOutput(name string) *Builder { return b.withEvent(name, DirectionOutput) }

func (b *Builder) withEvent(name string, direction Direction) *Builder {
	layout := Layout{Label: name, ChannelCount: 1}
	b.set.Event = append(b.set.Event, Configuration{
		Definition: Definition{Name: name, MediaType: MediaTypeEvent, Direction: direction, Role: RoleMain, Layouts: []Layout{layout}},
		Layout:     layout,
		Enabled:    true,
	})
	return b
}

// Build returns the constructed Set.
func (b *Builder) Build() Set { return b.set }
