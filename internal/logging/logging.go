// Package logging turns LoggingSettings into a tree of zap loggers: one
// output core per configured handler, and per-logger severity thresholds
// resolved hierarchically by dotted name, falling back to the root logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mshevtsov/dapconfig/internal/config"
)

const (
	defaultLogDir = "logs"
	appLogFile    = "app.log"
	errorLogFile  = "error.log"
)

// Tree builds named loggers according to the logging configuration.
type Tree struct {
	cores  []zapcore.Core
	levels map[string]zapcore.Level
	files  []*os.File
}

// Option configures tree construction.
type Option func(*options)

type options struct {
	dir string
}

// WithDirectory overrides the directory file handlers write into,
// primarily for tests.
func WithDirectory(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// NewTree builds the handler cores described by the configuration. File
// handlers write JSON lines under the log directory; the console handler
// writes to stdout. Handler names without a known output are skipped.
func NewTree(cfg config.LoggingSettings, opts ...Option) (*Tree, error) {
	o := options{dir: defaultLogDir}
	for _, opt := range opts {
		opt(&o)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	t := &Tree{levels: make(map[string]zapcore.Level, len(cfg.Loggers))}
	for name, entry := range cfg.Loggers {
		t.levels[name] = severityLevel(entry.Level)
	}

	for name, entry := range cfg.Handlers {
		level := severityLevel(entry.Level)
		switch name {
		case config.HandlerConsole:
			core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level)
			t.cores = append(t.cores, core)
		case config.HandlerFile:
			if err := t.addFileCore(o.dir, appLogFile, encCfg, level); err != nil {
				t.Close()
				return nil, err
			}
		case config.HandlerErrorFile:
			if err := t.addFileCore(o.dir, errorLogFile, encCfg, level); err != nil {
				t.Close()
				return nil, err
			}
		}
	}

	return t, nil
}

func (t *Tree) addFileCore(dir, name string, encCfg zapcore.EncoderConfig, level zapcore.Level) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	t.files = append(t.files, f)
	t.cores = append(t.cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(f), level))
	return nil
}

// Logger returns a named logger gated at the most specific configured
// level for that name. Handler levels still apply on top, so an entry
// must clear both thresholds to be written.
func (t *Tree) Logger(name string) *zap.Logger {
	min := t.levelFor(name)
	gated := make([]zapcore.Core, 0, len(t.cores))
	for _, core := range t.cores {
		gated = append(gated, &thresholdCore{Core: core, min: min})
	}
	logger := zap.New(zapcore.NewTee(gated...))
	if name != config.RootLogger {
		logger = logger.Named(name)
	}
	return logger
}

// levelFor walks the dotted name towards the root until a configured
// level is found, mirroring how a hierarchical logging tree resolves
// effective levels.
func (t *Tree) levelFor(name string) zapcore.Level {
	for n := name; ; {
		if level, ok := t.levels[n]; ok {
			return level
		}
		i := strings.LastIndex(n, ".")
		if i < 0 {
			break
		}
		n = n[:i]
	}
	if level, ok := t.levels[config.RootLogger]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// Close syncs and closes every file handler.
func (t *Tree) Close() error {
	var firstErr error
	for _, f := range t.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.files = nil
	return firstErr
}

func severityLevel(s config.Severity) zapcore.Level {
	switch s {
	case config.SeverityDebug:
		return zapcore.DebugLevel
	case config.SeverityInfo:
		return zapcore.InfoLevel
	case config.SeverityWarning:
		return zapcore.WarnLevel
	case config.SeverityError:
		return zapcore.ErrorLevel
	case config.SeverityCritical:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// thresholdCore applies a logger-level gate in front of a handler core.
type thresholdCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *thresholdCore) Enabled(level zapcore.Level) bool {
	return level >= c.min && c.Core.Enabled(level)
}

func (c *thresholdCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}
	return c.Core.Check(ent, ce)
}

func (c *thresholdCore) With(fields []zapcore.Field) zapcore.Core {
	return &thresholdCore{Core: c.Core.With(fields), min: c.min}
}
