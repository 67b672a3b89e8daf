package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden message")
	logger.Warn("visible message", "component", ComponentBatch)

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info line should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("warn line missing:\n%s", out)
	}
	if !strings.Contains(out, "component=batch") {
		t.Errorf("component attribute missing:\n%s", out)
	}
}

func TestNew_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Info("plain")

	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no ANSI escapes for a non-terminal writer: %q", buf.String())
	}
}
