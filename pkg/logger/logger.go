package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log zerolog.Logger
)

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel sets the global log level ("debug", "info", "warn", "error").
// Unknown values fall back to info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	log = log.Level(parsed)
}

// SetJSON switches output to plain JSON lines, for non-interactive use.
func SetJSON() {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(log.GetLevel())
}

func event(e *zerolog.Event, component, msg string, fields map[string]any) {
	e = e.Str("component", component)
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

// DebugCF logs a debug message with component and fields.
func DebugCF(component, msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	event(log.Debug(), component, msg, fields)
}

// InfoC logs an info message with component.
func InfoC(component, msg string) {
	InfoCF(component, msg, nil)
}

// InfoCF logs an info message with component and fields.
func InfoCF(component, msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	event(log.Info(), component, msg, fields)
}

// WarnC logs a warning with component.
func WarnC(component, msg string) {
	WarnCF(component, msg, nil)
}

// WarnCF logs a warning with component and fields.
func WarnCF(component, msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	event(log.Warn(), component, msg, fields)
}

// ErrorCF logs an error with component and fields.
func ErrorCF(component, msg string, fields map[string]any) {
	mu.RLock()
	defer mu.RUnlock()
	event(log.Error(), component, msg, fields)
}
