package sequencer

import (
	"sync"

	"github.com/atsu-uapmd/pluginhost/pkg/node"
	"github.com/atsu-uapmd/pluginhost/pkg/param"
)

// ParameterUpdate is one coalesced parameter-change notification, plain
// (normalized [0,1]) value, ready for getParameterUpdates to hand back
// to the application.
type ParameterUpdate struct {
	ParameterIndex int32
	Value          float64
}

// paramListeners holds, per plugin instance, a pending queue of
// coalesced parameter-change notifications and a metadata-refresh flag,
// both guarded by one mutex shared across every instance (the critical
// section is brief: append-or-drain, never held across a plugin call).
type paramListeners struct {
	mu               sync.Mutex
	pending          map[int32][]ParameterUpdate
	metadataRefresh  map[int32]bool
}

func newParamListeners() *paramListeners {
	return &paramListeners{
		pending:         make(map[int32][]ParameterUpdate),
		metadataRefresh: make(map[int32]bool),
	}
}

// Subscribe installs change/metadata-change listeners on n's instance
// that coalesce into the per-instance pending queue and refresh flag.
func (p *paramListeners) Subscribe(instanceID int32, n *node.Node) {
	n.OnParameterChange(func(parameter *param.Parameter) {
		p.mu.Lock()
		p.pending[instanceID] = append(p.pending[instanceID], ParameterUpdate{
			ParameterIndex: parameter.Index,
			Value:          parameter.Value(),
		})
		p.mu.Unlock()
	})
	n.OnParameterMetadataChange(func(*param.Registry) {
		p.mu.Lock()
		p.metadataRefresh[instanceID] = true
		p.mu.Unlock()
	})
}

// AddUpdate appends one coalesced update to instanceID's pending queue,
// used by the engine's plugin-output dispatch path when it extracts a
// parameter update from an outbound NRPN.
func (p *paramListeners) AddUpdate(instanceID int32, u ParameterUpdate) {
	p.mu.Lock()
	p.pending[instanceID] = append(p.pending[instanceID], u)
	p.mu.Unlock()
}

// GetParameterUpdates drains and returns every pending update for
// instanceID.
func (p *paramListeners) GetParameterUpdates(instanceID int32) []ParameterUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	updates := p.pending[instanceID]
	delete(p.pending, instanceID)
	return updates
}

// ConsumeParameterMetadataRefresh tests and clears instanceID's
// metadata-refresh flag in one atomic step.
func (p *paramListeners) ConsumeParameterMetadataRefresh(instanceID int32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	refresh := p.metadataRefresh[instanceID]
	delete(p.metadataRefresh, instanceID)
	return refresh
}

// NotifyRestart fires one parameter-change notification per parameter at
// its current value — the response to a plugin's restartComponent(param
// values changed) signal, ensuring every listener observes the plugin's
// new values as if each had changed individually.
func (p *paramListeners) NotifyRestart(instanceID int32, registry *param.Registry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, parameter := range registry.All() {
		p.pending[instanceID] = append(p.pending[instanceID], ParameterUpdate{
			ParameterIndex: parameter.Index,
			Value:          parameter.Value(),
		})
	}
}
