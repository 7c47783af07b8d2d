package param

import "testing"

func TestParameterNormalizeDenormalize(t *testing.T) {
	p := NewParameter(0, 1, "Cutoff", 20, 20000, 1000, CanAutomate)
	if got := p.PlainValue(); got != 1000 {
		t.Fatalf("expected default 1000, got %v", got)
	}
	p.SetPlainValue(20000)
	if got := p.Value(); got != 1 {
		t.Fatalf("expected normalized 1 at max, got %v", got)
	}
	p.SetPlainValue(20)
	if got := p.Value(); got != 0 {
		t.Fatalf("expected normalized 0 at min, got %v", got)
	}
}

func TestParameterEnumeratedFormat(t *testing.T) {
	p := NewParameter(0, 2, "Mode", 0, 2, 0, IsEnumerated)
	p.Choices = []Choice{{Name: "Lowpass", Value: 0}, {Name: "Highpass", Value: 1}, {Name: "Bandpass", Value: 2}}
	p.SetPlainValue(1)
	if got := p.FormatValue(p.Value()); got != "Highpass" {
		t.Fatalf("expected Highpass, got %q", got)
	}
}

func TestRegistryIndexStability(t *testing.T) {
	r := NewRegistry()
	p1 := NewParameter(0, 10, "A", 0, 1, 0, CanAutomate)
	p2 := NewParameter(0, 20, "B", 0, 1, 0, CanAutomate)
	r.Add(p1, p2)

	if r.GetByIndex(0).NativeID != 10 || r.GetByIndex(1).NativeID != 20 {
		t.Fatal("index assignment not in insertion order")
	}
	if r.Count() != 2 {
		t.Fatalf("expected count 2, got %d", r.Count())
	}

	// duplicate add is a no-op
	r.Add(NewParameter(0, 10, "A-dup", 0, 1, 0, CanAutomate))
	if r.Count() != 2 {
		t.Fatalf("expected duplicate add to be ignored, count=%d", r.Count())
	}
}

func TestRegistryChangeListener(t *testing.T) {
	r := NewRegistry()
	p := NewParameter(0, 1, "Gain", 0, 1, 0, CanAutomate)
	r.Add(p)

	var notified *Parameter
	r.OnChange(func(p *Parameter) { notified = p })

	if !r.SetValue(1, 0.5) {
		t.Fatal("expected SetValue to succeed")
	}
	if notified == nil || notified.NativeID != 1 {
		t.Fatal("expected change listener to fire with updated parameter")
	}
}

func TestRegistryNotifyAllFiresOncePerParameterUnchanged(t *testing.T) {
	r := NewRegistry()
	p1 := NewParameter(0, 1, "A", 0, 1, 0.25, CanAutomate)
	p2 := NewParameter(0, 2, "B", 0, 1, 0.75, CanAutomate)
	r.Add(p1, p2)

	var notified []uint32
	r.OnChange(func(p *Parameter) { notified = append(notified, p.NativeID) })

	r.NotifyAll()

	if len(notified) != 2 {
		t.Fatalf("expected one notification per parameter, got %d", len(notified))
	}
	if p1.Value() != 0.25 || p2.Value() != 0.75 {
		t.Fatal("expected NotifyAll to leave values unchanged")
	}
}

func TestRegistryResetFiresMetadataListener(t *testing.T) {
	r := NewRegistry()
	r.Add(NewParameter(0, 1, "Old", 0, 1, 0, CanAutomate))

	fired := false
	r.OnMetadataChange(func(r *Registry) { fired = true })
	r.Reset(NewParameter(0, 2, "New", 0, 1, 0, CanAutomate))

	if !fired {
		t.Fatal("expected metadata listener to fire on Reset")
	}
	if r.Count() != 1 || r.GetByIndex(0).NativeID != 2 {
		t.Fatal("expected registry to contain only the reset parameter")
	}
}
