package sequencer

import "sync/atomic"

// transport holds the sequencer's playback state: an atomic is-playing
// flag and an atomic sample-accurate position counter, advanced once per
// processed block while playing.
type transport struct {
	playing  int32 // atomic bool
	position int64 // atomic, samples
}

// StartPlayback resets position to 0 and sets the playing flag.
func (t *transport) StartPlayback() {
	atomic.StoreInt64(&t.position, 0)
	atomic.StoreInt32(&t.playing, 1)
}

// PausePlayback clears the playing flag without resetting position.
func (t *transport) PausePlayback() {
	atomic.StoreInt32(&t.playing, 0)
}

// ResumePlayback sets the playing flag again without resetting position
// — the supplemented counterpart to PausePlayback.
func (t *transport) ResumePlayback() {
	atomic.StoreInt32(&t.playing, 1)
}

// StopPlayback clears both the playing flag and the position.
func (t *transport) StopPlayback() {
	atomic.StoreInt32(&t.playing, 0)
	atomic.StoreInt64(&t.position, 0)
}

// IsPlaying reports the current transport state.
func (t *transport) IsPlaying() bool {
	return atomic.LoadInt32(&t.playing) != 0
}

// Position returns the current playback position in samples.
func (t *transport) Position() int64 {
	return atomic.LoadInt64(&t.position)
}

// Advance moves the position forward by frameCount samples, only while
// playing; called once per processed block.
func (t *transport) Advance(frameCount int) {
	if t.IsPlaying() {
		atomic.AddInt64(&t.position, int64(frameCount))
	}
}
