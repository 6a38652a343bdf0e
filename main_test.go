package main

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetupLoggerLevels(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level, format string
		debug, info   bool
	}{
		{"debug", "text", true, true},
		{"", "json", false, true},
		{"info", "", false, true},
		{"warn", "text", false, false},
		{"error", "json", false, false},
		{"loud", "text", false, true},
	}
	for _, tt := range tests {
		setupLogger(tt.level, tt.format)
		h := slog.Default().Handler()
		if got := h.Enabled(context.Background(), slog.LevelDebug); got != tt.debug {
			t.Errorf("level %q: debug enabled = %v, want %v", tt.level, got, tt.debug)
		}
		if got := h.Enabled(context.Background(), slog.LevelInfo); got != tt.info {
			t.Errorf("level %q: info enabled = %v, want %v", tt.level, got, tt.info)
		}
		_, isJSON := h.(*slog.JSONHandler)
		if isJSON != (tt.format == "json") {
			t.Errorf("format %q: json handler = %v", tt.format, isJSON)
		}
	}
}
