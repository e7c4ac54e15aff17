package telemetry

import "log"

// Logger is the minimal logging surface threaded through subsystems that
// should not depend on the event pipeline.
type Logger interface {
	Printf(format string, args ...any)
}

type LoggerFunc func(format string, args ...any)

func (f LoggerFunc) Printf(format string, args ...any) {
	if f != nil {
		f(format, args...)
	}
}

// WrapLogger adapts a *log.Logger, falling back to the default logger when nil.
func WrapLogger(l *log.Logger) Logger {
	if l == nil {
		return LoggerFunc(log.Printf)
	}
	return LoggerFunc(l.Printf)
}

// NopLogger discards everything.
func NopLogger() Logger {
	return LoggerFunc(func(string, ...any) {})
}

// Metrics records counters and gauges. Implementations must tolerate
// unregistered names by ignoring them.
type Metrics interface {
	Add(name string, delta float64)
	Store(name string, value float64)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, float64) {}
func (nopMetrics) Store(string, float64) {}

func NopMetrics() Metrics {
	return nopMetrics{}
}
