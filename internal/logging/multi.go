package logging

import "github.com/LTangData/customer-info-analysis/pkg/cia"

// multiLogger forwards every call to each wrapped logger in order.
type multiLogger struct {
	sinks []cia.Logger
}

// Multi returns a logger that fans each call out to all given sinks.
// The CLI uses this to log to the console and the entry-point log file
// at the same time.
func Multi(sinks ...cia.Logger) cia.Logger {
	return &multiLogger{sinks: sinks}
}

// Verbose forwards to every sink.
func (l *multiLogger) Verbose(format string, args ...interface{}) {
	for _, s := range l.sinks {
		s.Verbose(format, args...)
	}
}

// Info forwards to every sink.
func (l *multiLogger) Info(format string, args ...interface{}) {
	for _, s := range l.sinks {
		s.Info(format, args...)
	}
}

// Warn forwards to every sink.
func (l *multiLogger) Warn(format string, args ...interface{}) {
	for _, s := range l.sinks {
		s.Warn(format, args...)
	}
}

// Error forwards to every sink.
func (l *multiLogger) Error(format string, args ...interface{}) {
	for _, s := range l.sinks {
		s.Error(format, args...)
	}
}
