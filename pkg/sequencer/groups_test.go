package sequencer

import "testing"

func TestGroupAllocatorAssignsLowestFree(t *testing.T) {
	g := newGroupAllocator()
	if got := g.Assign(1); got != 0 {
		t.Fatalf("expected group 0, got %d", got)
	}
	if got := g.Assign(2); got != 1 {
		t.Fatalf("expected group 1, got %d", got)
	}
	g.Release(1)
	if got := g.Assign(3); got != 0 {
		t.Fatalf("expected released group 0 to be reused, got %d", got)
	}
}

func TestGroupAllocatorExhaustion(t *testing.T) {
	g := newGroupAllocator()
	for i := int32(0); i < maxGroups; i++ {
		if got := g.Assign(i); got == 0xFF {
			t.Fatalf("expected group assignment to succeed for instance %d", i)
		}
	}
	if got := g.Assign(maxGroups); got != 0xFF {
		t.Fatalf("expected exhaustion to return 0xFF, got %d", got)
	}
}
