package sequencer

import "sync"

const maxGroups = 16

// groupAllocator assigns each plugin instance the lowest free UMP group
// (0..15), returning 0xFF when exhausted. Releasing an instance returns
// its group to the free list for reuse.
type groupAllocator struct {
	mu            sync.Mutex
	free          [maxGroups]bool // true = available
	instanceGroup map[int32]uint8
	groupInstance map[uint8]int32
}

func newGroupAllocator() *groupAllocator {
	g := &groupAllocator{
		instanceGroup: make(map[int32]uint8),
		groupInstance: make(map[uint8]int32),
	}
	for i := range g.free {
		g.free[i] = true
	}
	return g
}

// Assign allocates the lowest free group to instanceID, or 0xFF if every
// group is in use. Re-assigning an already-assigned instance returns its
// existing group.
func (g *groupAllocator) Assign(instanceID int32) uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()

	if group, ok := g.instanceGroup[instanceID]; ok {
		return group
	}
	for i := 0; i < maxGroups; i++ {
		if g.free[i] {
			g.free[i] = false
			group := uint8(i)
			g.instanceGroup[instanceID] = group
			g.groupInstance[group] = instanceID
			return group
		}
	}
	return 0xFF
}

// Release returns instanceID's group to the free list.
func (g *groupAllocator) Release(instanceID int32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	group, ok := g.instanceGroup[instanceID]
	if !ok {
		return
	}
	delete(g.instanceGroup, instanceID)
	delete(g.groupInstance, group)
	if group < maxGroups {
		g.free[group] = true
	}
}

// GroupFor returns instanceID's currently assigned group, or 0xFF if
// unassigned.
func (g *groupAllocator) GroupFor(instanceID int32) uint8 {
	g.mu.Lock()
	defer g.mu.Unlock()
	group, ok := g.instanceGroup[instanceID]
	if !ok {
		return 0xFF
	}
	return group
}

// InstanceFor returns the instance id currently owning group, or (0,
// false) if the group is unassigned.
func (g *groupAllocator) InstanceFor(group uint8) (int32, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.groupInstance[group]
	return id, ok
}

// ResolveTarget maps a caller-supplied value that may be either a raw
// track index or a plugin instance id to a concrete track index,
// carrying forward the original's function-block routing table: if
// trackOrInstanceID names a known instance, its owning track is
// returned; otherwise it is treated as a literal track index.
func (e *Engine) ResolveTarget(trackOrInstanceID int32) int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if trackIdx, ok := e.instanceTrack[trackOrInstanceID]; ok {
		return trackIdx
	}
	return trackOrInstanceID
}
