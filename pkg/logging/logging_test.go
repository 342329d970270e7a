package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn,
		"warning": slog.LevelWarn, "error": slog.LevelError, "bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn", "trainer")
	log.Info("hidden")
	log.Warn("shown", "puzzle", "00tQe")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	for _, want := range []string{"shown", "component=trainer", "puzzle=00tQe"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestNewAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesspuzzle.log")
	for i := 0; i < 2; i++ {
		log, closer, err := New(path, "info", "")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		log.Info("line")
		closer.Close()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(b), "msg=line"); n != 2 {
		t.Errorf("log file has %d lines, want 2:\n%s", n, b)
	}
}
