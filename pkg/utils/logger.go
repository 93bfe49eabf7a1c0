package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger provides structured logging for the shell and the CLI. The
// simulation hot paths do not log.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger writing to out at the given level.
// Format "json" emits machine-readable lines; anything else uses the
// human console writer. Unknown levels fall back to info.
func NewLogger(level, format string, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lv, err := zerolog.ParseLevel(level)
	if err != nil || lv == zerolog.NoLevel {
		lv = zerolog.InfoLevel
	}
	return &Logger{zl: zerolog.New(out).With().Timestamp().Logger().Level(lv)}
}

// WithField returns a child logger carrying an additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zl: l.zl.With().Interface(key, value).Logger()}
}

// Debug logs a debug message with optional key-value fields.
func (l *Logger) Debug(msg string, fields ...interface{}) {
	emit(l.zl.Debug(), msg, fields)
}

// Info logs an info message with optional key-value fields.
func (l *Logger) Info(msg string, fields ...interface{}) {
	emit(l.zl.Info(), msg, fields)
}

// Warn logs a warning message with optional key-value fields.
func (l *Logger) Warn(msg string, fields ...interface{}) {
	emit(l.zl.Warn(), msg, fields)
}

// Error logs an error message with optional key-value fields.
func (l *Logger) Error(msg string, fields ...interface{}) {
	emit(l.zl.Error(), msg, fields)
}

func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}
