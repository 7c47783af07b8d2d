// Package device defines the narrow external collaborator the host
// consumes for audio I/O: something that can deliver a process.Context
// once per hardware block and accept the host's filled-in output. The
// backend that actually talks to a sound card is out of core; the
// reference implementation lives in package malgo.
package device

import "github.com/atsu-uapmd/pluginhost/pkg/process"

// Callback is invoked once per hardware audio block with a Context whose
// Input buffers already hold the captured audio and whose Output buffers
// the callback must fill before returning. A non-nil error silences the
// block (the backend clears Output itself) but does not stop the stream.
type Callback func(ctx *process.Context) error

// IO starts and stops a full-duplex audio stream, invoking a Callback
// once per block at the given sample rate and nominal buffer size.
// Implementations own the actual device handle; Start blocks only long
// enough to bring the stream up and returns, with the callback running
// on whatever thread the backend's hardware driver schedules.
type IO interface {
	Start(sampleRate float64, bufferFrames int, cb Callback) error
	Stop() error
}
