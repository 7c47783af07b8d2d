package param

import "testing"

func TestSmootherStepsRampTowardTarget(t *testing.T) {
	s := NewSmoother(0.0, 8)
	s.SetTarget(1.0)

	steps := s.Steps(16)
	if len(steps) != 16 {
		t.Fatalf("expected 16 steps, got %d", len(steps))
	}
	for i := 1; i < len(steps); i++ {
		if steps[i] < steps[i-1] {
			t.Fatalf("ramp should be monotonically non-decreasing toward target, step %d (%f) < step %d (%f)", i, steps[i], i-1, steps[i-1])
		}
	}
	if last := steps[len(steps)-1]; last < 0.9 {
		t.Fatalf("expected ramp to nearly reach target after 16 blocks, got %f", last)
	}
}

func TestSmootherAdvanceMatchesStepsTail(t *testing.T) {
	s := NewSmoother(0.0, 4)
	s.SetTarget(1.0)
	steps := s.Steps(5)

	s.Advance(5)
	if s.current != steps[4] {
		t.Fatalf("expected Advance(5) to land on Steps(5)'s last value %f, got %f", steps[4], s.current)
	}
}

func TestSmootherSettledWithinEpsilon(t *testing.T) {
	s := NewSmoother(0.5, 1)
	if !s.Settled() {
		t.Fatal("expected a smoother with no target change to already be settled")
	}
	s.SetTarget(0.9)
	if s.Settled() {
		t.Fatal("expected an unconverged smoother to report not settled")
	}
}
