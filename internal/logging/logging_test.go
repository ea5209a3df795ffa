package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/sweepduel/internal/config"
)

func TestNewWritesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "info"}, &buf, "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("match saved", "match", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "match saved") || !strings.Contains(out, "abc") {
		t.Errorf("output %q lacks the info line", out)
	}
	if !strings.Contains(out, "test") {
		t.Errorf("output %q lacks the prefix", out)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sweepduel.log")
	var buf bytes.Buffer

	logger, closer, err := New(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}, &buf, "")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	logger.Debug("countdown started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "countdown started") {
		t.Errorf("log file = %q", data)
	}
	if buf.Len() != 0 {
		t.Errorf("fallback must stay unused when a file is set, got %q", buf.String())
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}, nil, ""); err == nil {
		t.Error("New() with an unknown level expected an error")
	}
}
