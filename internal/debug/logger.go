// Package debug provides the process-wide log/slog logger used by psyker.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  = newLogger(os.Stderr, false, false)
	enabled bool
	// mu protects logger and enabled
	mu sync.RWMutex
)

func newLogger(w io.Writer, enable, json bool) *slog.Logger {
	level := slog.Level(slog.LevelError + 1)
	if enable {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Init configures the logger. When enable is false every record is dropped.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = newLogger(os.Stderr, enable, false)
}

// SetOutput redirects the logger to w, optionally as JSON lines.
func SetOutput(w io.Writer, enable, json bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = newLogger(w, enable, json)
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }

func Info(msg string, args ...any) { current().Info(msg, args...) }

func Warn(msg string, args ...any) { current().Warn(msg, args...) }

func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns a child logger carrying args.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// Logger returns the underlying logger.
func Logger() *slog.Logger {
	return current()
}
