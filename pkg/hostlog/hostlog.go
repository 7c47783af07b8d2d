// Package hostlog provides the host's structured logger: a slog.Logger
// backed by a rotating file sink, with two extra levels (Trace/Fatal) and
// a throttle helper for the process-error-logging discipline the
// sequencer's realtime path requires (errors during Process must not
// flood the log at block rate).
package hostlog

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LevelTrace = slog.Level(-8)
	LevelFatal = slog.Level(12)
)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
	LevelFatal: "FATAL",
}

// Config controls where and how verbosely the host logs.
type Config struct {
	Level      slog.Level
	FilePath   string // empty = stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a slog.Logger per Config. When FilePath is set, output is
// written through a lumberjack rotating writer; otherwise to stderr.
func New(cfg Config) *slog.Logger {
	var writer interface {
		Write([]byte) (int, error)
	} = os.Stderr

	if cfg.FilePath != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    orDefault(cfg.MaxSizeMB, 50),
			MaxBackups: orDefault(cfg.MaxBackups, 5),
			MaxAge:     orDefault(cfg.MaxAgeDays, 30),
			Compress:   true,
		}
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.Level)

	handler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:       levelVar,
		ReplaceAttr: replaceAttr,
	})
	return slog.New(handler)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if level, ok := a.Value.Any().(slog.Level); ok {
			if name, known := levelNames[level]; known {
				a.Value = slog.StringValue(name)
			}
		}
	}
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
	}
	return a
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Throttle rate-limits repeated log lines keyed by an arbitrary string
// (typically "<adapter>/<instance-id>/process-error"), allowing at most
// one emission per `every` interval per key. Used by adapters so a
// plugin failing every block at 48kHz/256 frames doesn't produce ~187
// log lines per second.
type Throttle struct {
	mu   sync.Mutex
	last map[string]time.Time
}

// NewThrottle returns a ready-to-use Throttle.
func NewThrottle() *Throttle {
	return &Throttle{last: make(map[string]time.Time)}
}

// Allow reports whether a log line for key may be emitted now, given it
// was last allowed more than `every` ago (or never).
func (t *Throttle) Allow(key string, every time.Duration) bool {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.last[key]; ok && now.Sub(last) < every {
		return false
	}
	t.last[key] = now
	return true
}
