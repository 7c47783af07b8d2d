package param

import "sync"

// ChangeListener is notified when a parameter's value changes, forwarding
// the instance's parameter-change signal the way AudioPluginNode is
// specified to.
type ChangeListener func(p *Parameter)

// MetadataListener is notified when the registry is rebuilt wholesale,
// forwarding the instance's parameter-metadata-change signal.
type MetadataListener func(r *Registry)

// Registry holds one plugin instance's parameter list, keyed by the
// adapter's opaque native id with a stable index order. The index↔id
// mapping only changes when Reset is called, matching the invariant that
// it is otherwise stable for the instance's lifetime.
type Registry struct {
	mu                sync.RWMutex
	byNativeID        map[uint32]*Parameter
	order             []uint32
	changeListeners   []ChangeListener
	metadataListeners []MetadataListener
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byNativeID: make(map[uint32]*Parameter)}
}

// Add registers parameters, assigning each the next available index.
// Duplicate native ids are ignored.
func (r *Registry) Add(params ...*Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range params {
		if _, exists := r.byNativeID[p.NativeID]; exists {
			continue
		}
		p.Index = int32(len(r.order))
		r.byNativeID[p.NativeID] = p
		r.order = append(r.order, p.NativeID)
	}
}

// Reset replaces the entire parameter list, firing metadata listeners —
// the parameter-list rebuild path a plugin can request.
func (r *Registry) Reset(params ...*Parameter) {
	r.mu.Lock()
	r.byNativeID = make(map[uint32]*Parameter, len(params))
	r.order = r.order[:0]
	for _, p := range params {
		p.Index = int32(len(r.order))
		r.byNativeID[p.NativeID] = p
		r.order = append(r.order, p.NativeID)
	}
	listeners := append([]MetadataListener(nil), r.metadataListeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(r)
	}
}

// Get retrieves a parameter by native id.
func (r *Registry) Get(nativeID uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byNativeID[nativeID]
}

// GetByIndex retrieves a parameter by its host-assigned index.
func (r *Registry) GetByIndex(index int32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= int32(len(r.order)) {
		return nil
	}
	return r.byNativeID[r.order[index]]
}

// Count returns the number of registered parameters.
func (r *Registry) Count() int32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int32(len(r.order))
}

// All returns every parameter in index order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		out[i] = r.byNativeID[id]
	}
	return out
}

// SetValue sets a parameter's normalized value by native id and notifies
// change listeners; returns false if the id is unknown.
func (r *Registry) SetValue(nativeID uint32, normalized float64) bool {
	p := r.Get(nativeID)
	if p == nil {
		return false
	}
	p.SetValue(normalized)
	r.mu.RLock()
	listeners := r.changeListeners
	r.mu.RUnlock()
	for _, l := range listeners {
		l(p)
	}
	return true
}

// NotifyAll fires every registered change listener once per parameter at
// its current value, without modifying any value — used when a plugin
// signals a restart that requires listeners to resync (e.g. VST3's
// kParamValuesChanged restart flag).
func (r *Registry) NotifyAll() {
	r.mu.RLock()
	listeners := append([]ChangeListener(nil), r.changeListeners...)
	ids := append([]uint32(nil), r.order...)
	r.mu.RUnlock()

	for _, id := range ids {
		p := r.Get(id)
		if p == nil {
			continue
		}
		for _, l := range listeners {
			l(p)
		}
	}
}

// OnChange registers a parameter-change listener.
func (r *Registry) OnChange(l ChangeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changeListeners = append(r.changeListeners, l)
}

// OnMetadataChange registers a parameter-metadata-change listener.
func (r *Registry) OnMetadataChange(l MetadataListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadataListeners = append(r.metadataListeners, l)
}
