package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mastoarchiver/pkg/config"
)

func TestNewWithValidLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "warning", "error", "fatal", "disabled"}
	for _, level := range levels {
		cfg := &config.LoggingConfig{Level: level}
		if _, err := New(cfg); err != nil {
			t.Errorf("New with level %q failed: %v", level, err)
		}
	}
}

func TestNewWithInvalidLevel(t *testing.T) {
	cfg := &config.LoggingConfig{Level: "loud"}
	if _, err := New(cfg); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestFileOutputAppends(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "archiver.log")

	cfg := &config.LoggingConfig{Level: "info", File: logFile}

	// Two separate loggers simulate two successive runs
	for i := 0; i < 2; i++ {
		log, err := New(cfg)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		log.Info("run completed")
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	if got := strings.Count(string(data), "run completed"); got != 2 {
		t.Errorf("expected 2 log lines across runs, got %d", got)
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "info"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	child := log.WithField("category", "favorite")
	if child == log {
		t.Error("WithField should return a new logger")
	}

	parent, ok := log.(*zerologLogger)
	if !ok {
		t.Fatal("unexpected logger type")
	}
	if len(parent.fields) != 0 {
		t.Error("parent logger fields should be unchanged")
	}
}
