// Package logging configures the process-wide slog logger. Init is called
// explicitly once at startup (from the CLI root or a test); importing this
// package has no side effects.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var initOnce sync.Once

// Init configures the default slog logger. Subsequent calls are no-ops.
// A nil writer logs to stderr.
func Init(level string, w io.Writer) {
	initOnce.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
		slog.SetDefault(slog.New(h))
	})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
