package hostconfig

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestBindFlagsAppliesDefaults(t *testing.T) {
	s := Defaults()
	cmd := &cobra.Command{Use: "test"}
	if err := BindFlags(cmd, s); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if s.SampleRate != 48000 {
		t.Errorf("expected default sample rate preserved, got %v", s.SampleRate)
	}
}

func TestBindFlagsOverride(t *testing.T) {
	s := Defaults()
	cmd := &cobra.Command{Use: "test"}
	if err := BindFlags(cmd, s); err != nil {
		t.Fatalf("BindFlags failed: %v", err)
	}
	if err := cmd.PersistentFlags().Set("sample-rate", "44100"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if s.SampleRate != 44100 {
		t.Errorf("expected overridden sample rate, got %v", s.SampleRate)
	}
}
