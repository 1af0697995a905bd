package logger

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
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetup_JSONFormat(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := Setup("info", "json", &buf)
	l.Info("hello", "k", "v")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if rec["msg"] != "hello" || rec["k"] != "v" {
		t.Errorf("record = %v, want msg=hello k=v", rec)
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := Setup("warn", "text", &buf)
	l.Info("quiet")
	l.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record should be filtered at warn level:\n%s", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("warn record missing:\n%s", out)
	}
}

func TestWithComponent(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := Setup("info", "text", &buf)
	WithComponent(l, "cache").Info("x")
	WithComponent(nil, "metrics").Info("y")

	out := buf.String()
	for _, want := range []string{"component=cache", "component=metrics"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should carry %s:\n%s", want, out)
		}
	}
}

func TestWithComponent_KeepsDiscardedLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var def bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&def, nil)))
	WithComponent(Discard(), "metrics").Error("listening")

	if def.Len() != 0 {
		t.Errorf("discarded logger leaked to the default handler:\n%s", def.String())
	}
}

func TestOpenFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dexterm.log")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
