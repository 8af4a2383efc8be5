package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeFn()

	WithMode(WithRenderID(logger, "r-1"), "quote").Info("render started")
	logger.Debug("hidden")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "render started" || entry["render_id"] != "r-1" || entry["mode"] != "quote" {
		t.Errorf("entry = %v", entry)
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNew_FanOutToFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "reelgen.log")

	logger, closeFn, err := New(Options{Level: "info", Output: &buf, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	WithComponent(logger, "studio").Warn("render failed", "error", "boom")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"component":"studio"`) {
		t.Errorf("file log = %q", data)
	}
	if !strings.Contains(buf.String(), "render failed") {
		t.Errorf("stdout log = %q", buf.String())
	}
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("cannot determine home dir")
	}
	got := SanitizePath(filepath.Join(home, ".reelgen", "reelgen.db"))
	if got != "~/.reelgen/reelgen.db" {
		t.Errorf("SanitizePath() = %q, want %q", got, "~/.reelgen/reelgen.db")
	}
	if got := SanitizePath("/srv/out.mp4"); got != "/srv/out.mp4" && !strings.HasPrefix(home, "/srv") {
		t.Errorf("SanitizePath() = %q, want unchanged", got)
	}
}
