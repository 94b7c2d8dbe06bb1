// package shared defines helpers used across jellytrek packages
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that writes only to a rotating log file.
//
// Used when something else (the review UI) owns the terminal.
func NewFileLogger(cfg LogConfig) (*log.Logger, error) {
	w, err := newRotatingWriter(cfg)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(w)
	applyLevel(logger, cfg.Level)
	return logger, nil
}

// NewConfiguredLogger builds the default CLI logger from [LogConfig]: stderr, plus a rotating file when one is configured.
func NewConfiguredLogger(stderr io.Writer, cfg LogConfig) (*log.Logger, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	if cfg.File == "" {
		logger := NewLogger(stderr)
		applyLevel(logger, cfg.Level)
		return logger, nil
	}

	fileWriter, err := newRotatingWriter(cfg)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(io.MultiWriter(stderr, fileWriter))
	applyLevel(logger, cfg.Level)
	return logger, nil
}

func newRotatingWriter(cfg LogConfig) (*lumberjack.Logger, error) {
	if cfg.File == "" {
		return nil, fmt.Errorf("%w: log file path is empty", ErrInvalidConfig)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}, nil
}

func applyLevel(l *log.Logger, level string) {
	if level == "" {
		return
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		SetLogLevel(l, lvl)
	}
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}
