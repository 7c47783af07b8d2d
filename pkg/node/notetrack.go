package node

import (
	"sync"

	"github.com/atsu-uapmd/pluginhost/pkg/ump"
)

// noteTracker is the active-note multiset keyed by (group, channel,
// note), refcounted so overlapping note-ons for the same key (e.g. a
// sustain pedal retriggering, or a remapped-group collision) are only
// fully released once every matching note-off has arrived. Guarded by a
// short mutex, per the node's invariant that note-tracking runs before
// the lock-free enqueue so an interleaved stopAllNotes sees a consistent
// picture.
type noteTracker struct {
	mu    sync.Mutex
	count map[uint16]int
}

func newNoteTracker() *noteTracker {
	return &noteTracker{count: make(map[uint16]int)}
}

// Observe updates the refcount for a decoded note-on/off packet.
func (t *noteTracker) Observe(firstWord, secondWord uint32) {
	if !(ump.Type(firstWord) == ump.TypeMIDI1Channel || ump.Type(firstWord) == ump.TypeMIDI2Channel) {
		return
	}
	group := ump.Group(firstWord)
	channel := ump.Channel(firstWord)
	note := ump.NoteNumber(firstWord)
	key := ump.NoteKey(group, channel, note)

	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case ump.IsNoteOn(firstWord, secondWord):
		t.count[key]++
	case ump.IsNoteOff(firstWord, secondWord):
		if t.count[key] > 0 {
			t.count[key]--
			if t.count[key] == 0 {
				delete(t.count, key)
			}
		}
	}
}

// Snapshot returns a copy of the current refcounts, for stopAllNotes to
// synthesize note-offs from without holding the lock during enqueue.
func (t *noteTracker) Snapshot() map[uint16]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[uint16]int, len(t.count))
	for k, v := range t.count {
		out[k] = v
	}
	return out
}

// Release decrements key's refcount by n, used as each synthesized
// note-off for that key is successfully enqueued. Deletes the entry once
// its refcount reaches zero.
func (t *noteTracker) Release(key uint16, n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count[key] -= n
	if t.count[key] <= 0 {
		delete(t.count, key)
	}
}
