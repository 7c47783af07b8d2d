package aux

import (
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

const maxUint32 = 1<<32 - 1

// renderEventList decodes ctx.InputUMP's NRPN packets into the ABI's
// linked-list render-event shape (AudioUnit observer tokens deliver
// parameter changes this way, one node per sample-accurate change) and
// collects the plugin's own reported changes for re-encoding.
type renderEventList struct {
	events   []RenderEvent
	reported []RenderEvent
}

func newRenderEventList(seq *ump.Sequence) *renderEventList {
	packets := seq.All()
	l := &renderEventList{events: make([]RenderEvent, 0, len(packets))}
	for _, p := range packets {
		bank, index, data, ok := ump.DecodeNRPN(p)
		if !ok {
			continue
		}
		id := uint32(bank)<<7 | uint32(index)
		l.events = append(l.events, RenderEvent{
			SampleOffset: int(p.SampleOffset),
			ParameterID:  id,
			Value:        float32(float64(data) / float64(maxUint32)),
		})
	}
	return l
}

func (l *renderEventList) Events() []RenderEvent { return l.events }

func (l *renderEventList) AddReported(id uint32, value float32) {
	l.reported = append(l.reported, RenderEvent{ParameterID: id, Value: value})
}

func (l *renderEventList) Reported() []RenderEvent { return l.reported }

// flushReported re-encodes every parameter change the plugin reported
// during Render as NRPN UMP packets on ctx.OutputUMP.
func flushReported(ctx *process.Context, l *renderEventList) {
	for _, e := range l.reported {
		bank := uint8(e.ParameterID >> 7 & 0xFF)
		index := uint8(e.ParameterID & 0x7F)
		data := uint32(float64(e.Value) * float64(maxUint32))
		ctx.OutputUMP.Add(ump.BuildNRPN(0, 0, bank, index, data))
	}
}
