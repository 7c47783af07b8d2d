// Package mainthread implements the blocking main-thread dispatch barrier
// the host's lifecycle operations (instantiate, configure, start/stop
// processing, destroy) must go through: every PluginInstance transition
// except Process is required to run on the single designated main
// thread, while Process itself runs on the realtime audio thread.
package mainthread

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

type task struct {
	id   string
	fn   func()
	done chan struct{}
}

// Dispatcher drains queued tasks on whichever goroutine calls Run, which
// callers designate as "the main thread" by running Run in a loop from
// that goroutine (e.g. the daemon's top-level event loop).
type Dispatcher struct {
	tasks   chan task
	running int32
}

// NewDispatcher returns a Dispatcher with room for queueDepth pending
// tasks before Submit blocks.
func NewDispatcher(queueDepth int) *Dispatcher {
	return &Dispatcher{tasks: make(chan task, queueDepth)}
}

// Run drains tasks until stop is closed. Call this from the goroutine
// that is to be considered the main thread; it sets IsMainThread() true
// for the duration of each task's execution.
func (d *Dispatcher) Run(stop <-chan struct{}) {
	atomic.StoreInt32(&d.running, 1)
	defer atomic.StoreInt32(&d.running, 0)
	for {
		select {
		case <-stop:
			return
		case t := <-d.tasks:
			t.fn()
			close(t.done)
		}
	}
}

// Submit enqueues fn to run on the main-thread loop and blocks the caller
// until it completes. This is the runOnMainThread primitive the
// sequencer and adapters use for every lifecycle transition.
func (d *Dispatcher) Submit(fn func()) error {
	if atomic.LoadInt32(&d.running) == 0 {
		return fmt.Errorf("mainthread: dispatcher is not running")
	}
	t := task{id: uuid.NewString(), fn: fn, done: make(chan struct{})}
	d.tasks <- t
	<-t.done
	return nil
}

// IsRunning reports whether a goroutine is currently draining this
// dispatcher's task queue.
func (d *Dispatcher) IsRunning() bool {
	return atomic.LoadInt32(&d.running) != 0
}
