// Package log provides a structured logging interface for gomvpa.
//
// This package defines a minimal, slog-compatible logging interface backed by
// zerolog by default. Classifiers obtain a component logger with
// GetLoggerWithName and attach the standard attribute keys from
// attributes.go.
//
// Example usage:
//   logger := log.GetLoggerWithName("clfs.multiclass").With(
//       log.ModelNameKey, "MulticlassClassifier",
//   )
//   logger.Debug("Created binary classifiers",
//       log.ChildrenKey, 3,
//       log.LabelsKey, []float64{1, 2, 3},
//   )

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key-value pairs. The With method returns a logger
// that adds its fields to every subsequent record.
type Logger interface {
	// Debug logs a debug-level message. The composition layer reports
	// dataset subsetting and child construction at this level.
	Debug(msg string, fields ...any)

	// Info logs an info-level message.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it
	// is attached as the record's error together with its stack trace.
	//
	// Example:
	//   logger.Error("Cross-validation failed",
	//       err,
	//       log.SplitIndexKey, 3,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits records at the given level,
	// so callers can skip building expensive fields.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers. Swapping the provider is how
// tests capture library output.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
