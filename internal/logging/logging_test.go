package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/mshevtsov/dapconfig/internal/config"
)

func newTestTree(t *testing.T, cfg config.LoggingSettings) *Tree {
	t.Helper()

	tree, err := NewTree(cfg, WithDirectory(t.TempDir()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		_ = tree.Close()
	})
	return tree
}

func TestNewTreeDefaults(t *testing.T) {
	tree := newTestTree(t, config.Default().Logging)

	if len(tree.cores) != 3 {
		t.Fatalf("expected 3 handler cores, got %d", len(tree.cores))
	}
	logger := tree.Logger("server")
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	logger.Info("startup complete")
}

func TestFileHandlerWrites(t *testing.T) {
	dir := t.TempDir()
	tree, err := NewTree(config.Default().Logging, WithDirectory(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tree.Logger("server").Error("boom")
	if err := tree.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("expected app.log to exist: %v", err)
	}
	if !strings.Contains(string(data), "boom") {
		t.Fatalf("expected log entry in app.log, got %q", data)
	}

	errData, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("expected error.log to exist: %v", err)
	}
	if !strings.Contains(string(errData), "boom") {
		t.Fatalf("expected error entry in error.log, got %q", errData)
	}
}

func TestLevelResolutionWalksHierarchy(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Loggers["analytics"] = config.LogLevelSetting{Level: config.SeverityWarning}
	cfg.Loggers["analytics.engine.stats"] = config.LogLevelSetting{Level: config.SeverityError}
	tree := newTestTree(t, cfg)

	cases := map[string]zapcore.Level{
		"analytics.engine.stats":       zapcore.ErrorLevel,
		"analytics.engine.stats.ttest": zapcore.ErrorLevel,
		"analytics.engine":             zapcore.WarnLevel,
		"analytics":                    zapcore.WarnLevel,
		"visualization":                zapcore.DebugLevel, // root default
		"":                             zapcore.DebugLevel,
	}
	for name, want := range cases {
		if got := tree.levelFor(name); got != want {
			t.Fatalf("levelFor(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestLoggerGatesBelowThreshold(t *testing.T) {
	cfg := config.Default().Logging
	cfg.Loggers["quiet"] = config.LogLevelSetting{Level: config.SeverityError}

	dir := t.TempDir()
	tree, err := NewTree(cfg, WithDirectory(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := tree.Logger("quiet")
	logger.Info("should be suppressed")
	logger.Error("should appear")
	if err := tree.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("expected app.log to exist: %v", err)
	}
	if strings.Contains(string(data), "suppressed") {
		t.Fatalf("expected INFO entry to be gated, got %q", data)
	}
	if !strings.Contains(string(data), "should appear") {
		t.Fatalf("expected ERROR entry to pass, got %q", data)
	}
}

func TestSeverityLevelMapping(t *testing.T) {
	t.Parallel()

	cases := map[config.Severity]zapcore.Level{
		config.SeverityDebug:    zapcore.DebugLevel,
		config.SeverityInfo:     zapcore.InfoLevel,
		config.SeverityWarning:  zapcore.WarnLevel,
		config.SeverityError:    zapcore.ErrorLevel,
		config.SeverityCritical: zapcore.FatalLevel,
	}
	for severity, want := range cases {
		if got := severityLevel(severity); got != want {
			t.Fatalf("severityLevel(%s) = %s, want %s", severity, got, want)
		}
	}
}
