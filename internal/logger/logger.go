// =============================================================================
// rfmaker - Logger
// =============================================================================
//
// Diagnostics are written through the Logger interface. The concrete logger is
// built on charmbracelet/log and is switched on or off by a plain boolean:
//
//   verbose = false  -> every message is discarded
//   verbose = true   -> every message (debug and up) goes to stderr
//
// =============================================================================

package logger

import (
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the logging interface used across the converter.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// Config controls logger construction.
type Config struct {
	// Verbose enables diagnostics. When false nothing is written.
	Verbose bool

	// Output receives diagnostics. Defaults to os.Stderr.
	Output io.Writer

	// JSON switches the formatter to JSON lines.
	JSON bool

	// TimeFormat is used for the timestamp. Empty disables timestamps.
	TimeFormat string
}

// DefaultConfig returns a quiet logger configuration.
func DefaultConfig() Config {
	return Config{
		Verbose:    false,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

type loggerImpl struct {
	charmLogger *charmlog.Logger
}

func (l *loggerImpl) Debug(msg string, keyvals ...any) { l.charmLogger.Debug(msg, keyvals...) }
func (l *loggerImpl) Info(msg string, keyvals ...any)  { l.charmLogger.Info(msg, keyvals...) }
func (l *loggerImpl) Warn(msg string, keyvals ...any)  { l.charmLogger.Warn(msg, keyvals...) }
func (l *loggerImpl) Error(msg string, keyvals ...any) { l.charmLogger.Error(msg, keyvals...) }

// New creates a Logger from cfg.
func New(cfg Config) Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.Verbose {
		out = io.Discard
	}

	charmLogger := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: cfg.TimeFormat != "",
		TimeFormat:      cfg.TimeFormat,
		Level:           charmlog.DebugLevel,
	})
	if cfg.JSON {
		charmLogger.SetFormatter(charmlog.JSONFormatter)
	}

	return &loggerImpl{charmLogger: charmLogger}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return New(Config{Verbose: false})
}
