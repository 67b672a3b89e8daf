// Package logging configures the process-wide structured logger.
//
// Logs always go to stderr: stdout carries the MCP JSON-RPC stream and must
// stay clean.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Component names attached to loggers via the "component" attribute.
const (
	ComponentStartup = "startup"
	ComponentServer  = "server"
	ComponentBatch   = "batch"
)

// ParseLevel maps debug, info, warn/warning and error to slog levels.
// Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// New returns a tint-backed logger writing to w. Colour is enabled only
// when w is a terminal.
func New(w io.Writer, level string) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(level),
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}))
}

// Setup installs a stderr logger at the given level as the slog default
// and returns it.
func Setup(level string) *slog.Logger {
	logger := New(os.Stderr, level)
	slog.SetDefault(logger)
	return logger
}

// For returns the default logger tagged with a component name.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
