// Package log provides a structured logging interface for seqlearn.
//
// This package defines a minimal, slog-compatible logging interface backed by
// zerolog. Components accept a Logger through their options; when none is
// given they fall back to GetLogger(), which can be replaced with SetLogger.
//
// Example usage:
//
//	logger := log.GetLogger().With(
//	    log.ComponentKey, "crossval",
//	    log.FoldsKey, 10,
//	)
//	logger.Info("Fold completed",
//	    log.FoldKey, 3,
//	    log.SamplesKey, 1800,
//	    log.ScoreKey, 0.97,
//	)

package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Every method takes a message followed by alternating key/value pairs. The
// With method returns a derived logger whose fields are attached to every
// subsequent record.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	// Debug logs are used for per-fold progress details and are usually
	// disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	//
	// Example:
	//   logger.Info("Cross-validation finished",
	//       log.DurationMsKey, 5432,
	//       log.ScoreKey, 0.95,
	//   )
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	// Warnings indicate conditions that do not stop the run, e.g. a parallel
	// run falling back to sequential execution.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value it is attached under the "error"
	// key together with its stack trace.
	//
	// Example:
	//   logger.Error("Fold failed",
	//       err,
	//       log.FoldKey, 2,
	//       log.PhaseKey, "train",
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	// Use it to skip building expensive fields for disabled levels.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
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
