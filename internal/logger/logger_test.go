package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("parseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestInit_JSON(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	l := Init("warn", "json", &buf)
	l.Info("dropped")
	l.Warn("kept", "call", "vkCreateInstance")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON, got %q", lines[0])
	}
	if rec["msg"] != "kept" || rec["call"] != "vkCreateInstance" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestInit_TextAndFallback(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	Init("info", "xml", &buf)
	slog.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "Unsupported log format") || !strings.Contains(out, "msg=hello") {
		t.Errorf("unexpected text output %q", out)
	}
}
