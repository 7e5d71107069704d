// Package xlog provides the small logging helper used by the core
// tcpendpoint package. It follows the same shape as
// soypat/lneto's internal debug logging: a trace level below slog.LevelDebug,
// and an Attrs helper that skips formatting work when the level is disabled.
package xlog

import (
	"context"
	"log/slog"
)

// LevelTrace is a verbosity level below slog.LevelDebug, used for
// per-segment/per-byte-range tracing that would otherwise flood Debug.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Enabled reports whether l would emit a record at lvl. A nil logger is
// never enabled, matching the zero-value-friendly logger embedding used
// throughout this module.
func Enabled(l *slog.Logger, lvl slog.Level) bool {
	return l != nil && l.Handler().Enabled(context.Background(), lvl)
}

// Attrs logs msg at lvl with attrs if l is non-nil. Callers should guard
// expensive attribute construction with Enabled first.
func Attrs(l *slog.Logger, lvl slog.Level, msg string, attrs ...slog.Attr) {
	if l != nil {
		l.LogAttrs(context.Background(), lvl, msg, attrs...)
	}
}

// Logger is embedded by core types that support an optional logger. Its
// zero value is silent, so types using it need no special construction.
type Logger struct {
	log *slog.Logger
}

// SetLogger assigns the logger used for trace/debug/error output.
func (lg *Logger) SetLogger(log *slog.Logger) { lg.log = log }

func (lg *Logger) enabled(lvl slog.Level) bool { return Enabled(lg.log, lvl) }

// Trace logs at LevelTrace.
func (lg *Logger) Trace(msg string, attrs ...slog.Attr) {
	if lg.enabled(LevelTrace) {
		Attrs(lg.log, LevelTrace, msg, attrs...)
	}
}

// Debug logs at slog.LevelDebug.
func (lg *Logger) Debug(msg string, attrs ...slog.Attr) {
	if lg.enabled(slog.LevelDebug) {
		Attrs(lg.log, slog.LevelDebug, msg, attrs...)
	}
}

// Error logs at slog.LevelError.
func (lg *Logger) Error(msg string, attrs ...slog.Attr) {
	Attrs(lg.log, slog.LevelError, msg, attrs...)
}
