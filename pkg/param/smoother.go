package param

import "math"

// Smoother generates a one-pole ramp curve from a starting value toward a
// target, used to spread a host-originated parameter write (e.g. a UI
// knob jump) across several blocks instead of a single-block step that
// would otherwise reach the plugin as a zipper-noise-inducing jump.
//
// Adapted from the plugin-side parameter smoother this module's teacher
// used to prevent zipper noise inside a single plugin's own DSP; here it
// runs host-side, shaping the sequence of automation values the host
// itself writes out to a plugin instance.
type Smoother struct {
	current float64
	target  float64
	coeff   float64
}

// NewSmoother returns a Smoother starting at initial, with a ramp time
// constant of timeConstantBlocks blocks (how many blocks it takes to
// close roughly 63% of the distance to a new target).
func NewSmoother(initial float64, timeConstantBlocks float64) *Smoother {
	if timeConstantBlocks < 1 {
		timeConstantBlocks = 1
	}
	return &Smoother{
		current: initial,
		target:  initial,
		coeff:   math.Exp(-1.0 / timeConstantBlocks),
	}
}

// SetTarget starts ramping toward target from the smoother's current
// value.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
}

// Steps returns the next n smoothed values as the ramp advances one
// block per value, without mutating the Smoother — callers that want to
// commit the advance call Advance(n) afterward.
func (s *Smoother) Steps(n int) []float64 {
	out := make([]float64, n)
	current := s.current
	for i := range out {
		current = s.target + (current-s.target)*s.coeff
		out[i] = current
	}
	return out
}

// Advance commits n blocks of ramping, moving the smoother's current
// value to where Steps(n) would have left it.
func (s *Smoother) Advance(n int) {
	for i := 0; i < n; i++ {
		s.current = s.target + (s.current-s.target)*s.coeff
	}
}

// Settled reports whether current has converged to target within a
// small epsilon, meaning no further ramp steps are needed.
func (s *Smoother) Settled() bool {
	return math.Abs(s.current-s.target) < 1e-4
}
