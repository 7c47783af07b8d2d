package hosterr

import (
	"errors"
	"testing"
)

func TestBuilderBuild(t *testing.T) {
	err := Newf("plugin %s failed to load", "foo.vst3").
		WithStatus(StatusFailedToInstantiate).
		WithCategory(CategoryAdapter).
		WithComponent("v3c").
		WithContext("path", "/plugins/foo.vst3").
		Build()

	if err.Status != StatusFailedToInstantiate {
		t.Errorf("unexpected status: %s", err.Status)
	}
	if err.GetContext()["path"] != "/plugins/foo.vst3" {
		t.Errorf("unexpected context: %v", err.GetContext())
	}
	if err.Error() == "" {
		t.Error("expected non-empty error string")
	}
}

func TestIsMatchesByStatus(t *testing.T) {
	a := New(errors.New("boom")).WithStatus(StatusFailedToProcess).Build()
	b := New(errors.New("different")).WithStatus(StatusFailedToProcess).Build()
	if !errors.Is(a, b) {
		t.Error("expected errors with same status to match via errors.Is")
	}
}

func TestDefaultComponentUnknown(t *testing.T) {
	err := Newf("oops").Build()
	if err.Component != ComponentUnknown {
		t.Errorf("expected unknown component, got %s", err.Component)
	}
}
