// Package logger provides the structured, leveled logging contract used
// throughout the engine, plus a zerolog-backed implementation.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the logging interface consumed by the engine's components.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type zeroLogger struct {
	base zerolog.Logger
}

// New creates a Logger with component metadata, writing JSON lines to stdout.
func New(component string) Logger {
	return NewWithWriter(os.Stdout, component)
}

// NewWithWriter creates a Logger writing to the given writer. Useful for tests
// and for routing logs through a console writer.
func NewWithWriter(w io.Writer, component string) Logger {
	l := zerolog.New(w).With().
		Timestamp().
		Str("component", component).
		Logger().
		Level(zerolog.InfoLevel)
	zerolog.DurationFieldUnit = time.Millisecond
	return &zeroLogger{base: l}
}

func (l *zeroLogger) Debug(msg string, keyvals ...any) {
	l.base.Debug().Fields(kvToMap(keyvals...)).Msg(msg)
}

func (l *zeroLogger) Info(msg string, keyvals ...any) {
	l.base.Info().Fields(kvToMap(keyvals...)).Msg(msg)
}

func (l *zeroLogger) Warn(msg string, keyvals ...any) {
	l.base.Warn().Fields(kvToMap(keyvals...)).Msg(msg)
}

func (l *zeroLogger) Error(msg string, keyvals ...any) {
	l.base.Error().Fields(kvToMap(keyvals...)).Msg(msg)
}

// kvToMap converts a flat list of key/value pairs into a map for zerolog.
func kvToMap(kv ...any) map[string]any {
	fields := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv)-1; i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = kv[i+1]
	}
	return fields
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Noop returns a Logger that discards everything.
func Noop() Logger { return noopLogger{} }
