// Package common holds ambient concerns shared across AsyncFlow packages:
// structured logging, run configuration defaults, and the error registry.
package common

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// LogLevel mirrors zerolog's level enum behind a small facade so callers
// never import zerolog directly.
type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a leveled, structured logger exposing Debug/Info/Warn/Error/
// Fatal. Fields are passed as key/value pairs instead of a printf format;
// every event also carries the logger's "component" field.
type Logger struct {
	mu   sync.Mutex
	zl   zerolog.Logger
	name string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// NewLogger creates a Logger writing structured events to out.
func NewLogger(out io.Writer, name string, level LogLevel) *Logger {
	zl := zerolog.New(out).With().Timestamp().Str("component", name).Logger().Level(level.zerolog())
	return &Logger{zl: zl, name: name}
}

func defaultLog() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(os.Stdout, "asyncflow", InfoLevel)
	})
	return defaultLogger
}

// SetLevel changes the minimum level logged.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = l.zl.Level(level.zerolog())
}

// With returns a child logger carrying additional structured fields,
// e.g. l.With("server_id", "srv-1").
func (l *Logger) With(kv ...interface{}) *Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ctx = ctx.Interface(key, kv[i+1])
	}
	return &Logger{zl: ctx.Logger(), name: l.name}
}

func (l *Logger) event(level zerolog.Level, msg string, kv []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := l.zl.WithLevel(level)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		ev = ev.Interface(key, kv[i+1])
	}
	ev.Msg(msg)
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.event(zerolog.DebugLevel, msg, kv) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.event(zerolog.InfoLevel, msg, kv) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.event(zerolog.WarnLevel, msg, kv) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.event(zerolog.ErrorLevel, msg, kv) }

// Fatal logs at fatal level and terminates the process.
func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.event(zerolog.FatalLevel, msg, kv)
	os.Exit(1)
}

// Default returns the package-level default logger.
func Default() *Logger { return defaultLog() }
