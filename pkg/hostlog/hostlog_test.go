package hostlog

import (
	"bytes"
	"log/slog"
	"testing"
	"time"
)

func TestNewStderrLogger(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo})
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestThrottleAllowsFirstThenBlocks(t *testing.T) {
	th := NewThrottle()
	if !th.Allow("k", time.Hour) {
		t.Fatal("expected first call to be allowed")
	}
	if th.Allow("k", time.Hour) {
		t.Fatal("expected second call within window to be blocked")
	}
}

func TestThrottleDifferentKeysIndependent(t *testing.T) {
	th := NewThrottle()
	if !th.Allow("a", time.Hour) || !th.Allow("b", time.Hour) {
		t.Fatal("expected independent keys to both be allowed")
	}
}

func TestReplaceAttrCustomLevelNames(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(LevelTrace)
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: levelVar, ReplaceAttr: replaceAttr})
	logger := slog.New(h)
	logger.Log(nil, LevelTrace, "trace message")
	if !bytes.Contains(buf.Bytes(), []byte("TRACE")) {
		t.Fatalf("expected TRACE level name in output, got %s", buf.String())
	}
}
