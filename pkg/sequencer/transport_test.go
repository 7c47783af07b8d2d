package sequencer

import "testing"

func TestTransportStartAdvanceStop(t *testing.T) {
	var tr transport
	tr.StartPlayback()
	if !tr.IsPlaying() {
		t.Fatal("expected playing after start")
	}
	tr.Advance(256)
	tr.Advance(256)
	if tr.Position() != 512 {
		t.Fatalf("expected position 512, got %d", tr.Position())
	}

	tr.StopPlayback()
	if tr.IsPlaying() || tr.Position() != 0 {
		t.Fatal("expected stop to clear both playing flag and position")
	}
}

func TestTransportPauseResumePreservesPosition(t *testing.T) {
	var tr transport
	tr.StartPlayback()
	tr.Advance(100)
	tr.PausePlayback()
	tr.Advance(100) // must not advance while paused
	if tr.Position() != 100 {
		t.Fatalf("expected position frozen at 100, got %d", tr.Position())
	}
	tr.ResumePlayback()
	tr.Advance(50)
	if tr.Position() != 150 {
		t.Fatalf("expected position 150 after resume, got %d", tr.Position())
	}
}
