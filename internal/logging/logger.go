// Package logging provides the categorized trace logger used across the
// solver. It keeps the shape of fan-atpg's pkg/utils.Logger (one method per
// concern, an indent stack for nested tracing) but backs it with zerolog
// instead of raw fmt.Fprint.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level mirrors the teacher's LogLevel, from quietest to loudest.
type Level int

const (
	ErrorLevel Level = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case ErrorLevel:
		return zerolog.ErrorLevel
	case WarningLevel:
		return zerolog.WarnLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case DebugLevel:
		return zerolog.DebugLevel
	case TraceLevel:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a categorized, indent-aware wrapper around a zerolog.Logger.
type Logger struct {
	level  Level
	zl     zerolog.Logger
	indent int
}

// New creates a logger writing human-readable console output to w at the
// given verbosity.
func New(level Level, w io.Writer) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		Level(level.zerolog()).
		With().Timestamp().Logger()
	return &Logger{level: level, zl: zl}
}

// NewFile creates a logger writing to the named file.
func NewFile(level Level, filename string) (*Logger, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return New(level, f), nil
}

// Indent increases nested-trace indentation.
func (l *Logger) Indent() { l.indent++ }

// Outdent decreases nested-trace indentation.
func (l *Logger) Outdent() {
	if l.indent > 0 {
		l.indent--
	}
}

func (l *Logger) event(lvl zerolog.Level, category string) *zerolog.Event {
	ev := l.zl.WithLevel(lvl)
	if category != "" {
		ev = ev.Str("category", category)
	}
	if l.indent > 0 {
		ev = ev.Int("indent", l.indent)
	}
	return ev
}

func (l *Logger) logf(lvl zerolog.Level, category, format string, args ...interface{}) {
	l.event(lvl, category).Msgf(format, args...)
}

// Error logs an error-level message.
func (l *Logger) Error(format string, args ...interface{}) { l.logf(zerolog.ErrorLevel, "", format, args...) }

// Warning logs a warning-level message.
func (l *Logger) Warning(format string, args ...interface{}) {
	l.logf(zerolog.WarnLevel, "", format, args...)
}

// Info logs an info-level message.
func (l *Logger) Info(format string, args ...interface{}) { l.logf(zerolog.InfoLevel, "", format, args...) }

// Debug logs a debug-level message.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(zerolog.DebugLevel, "", format, args...)
}

// Trace logs the highest-verbosity messages.
func (l *Logger) Trace(format string, args ...interface{}) {
	l.logf(zerolog.TraceLevel, "", format, args...)
}

// Propagate logs BCP activity (direct and indirect implication phases).
func (l *Logger) Propagate(format string, args ...interface{}) {
	l.logf(zerolog.TraceLevel, "propagate", format, args...)
}

// Decide logs decision-heuristic activity (J-frontier picks).
func (l *Logger) Decide(format string, args ...interface{}) {
	l.logf(zerolog.DebugLevel, "decide", format, args...)
}

// Conflict logs conflict detection.
func (l *Logger) Conflict(format string, args ...interface{}) {
	l.logf(zerolog.DebugLevel, "conflict", format, args...)
}

// Learn logs learned-gate installation.
func (l *Logger) Learn(format string, args ...interface{}) {
	l.logf(zerolog.DebugLevel, "learn", format, args...)
}

// Backjump logs non-chronological backtracking.
func (l *Logger) Backjump(format string, args ...interface{}) {
	l.logf(zerolog.DebugLevel, "backjump", format, args...)
}

// Discard returns a logger that drops everything; used by tests that don't
// care about trace output.
func Discard() *Logger {
	return New(ErrorLevel, io.Discard)
}
