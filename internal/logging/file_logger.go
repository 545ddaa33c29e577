package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger appends structured lines of the form
//
//	2024-01-15T10:30:00Z INFO message
//
// to a log file named after the invoking entry point. The log directory is
// created on first use. Safe for concurrent use by multiple goroutines.
type FileLogger struct {
	verbose bool
	mu      sync.Mutex
	w       io.WriteCloser
	now     func() time.Time
}

// NewFileLogger opens (or creates) the log file at dir/<name>.log in append
// mode. If verbose is false, Verbose() calls are no-ops.
func NewFileLogger(dir, name string, verbose bool) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &FileLogger{
		verbose: verbose,
		w:       f,
		now:     time.Now,
	}, nil
}

// Verbose logs detailed diagnostic information if verbose mode is enabled.
func (l *FileLogger) Verbose(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.write("VERBOSE", format, args...)
}

// Info logs informational messages about normal operations.
func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

// Warn logs warning messages.
func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

// Error logs error messages.
func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// Close flushes and closes the underlying file. Safe to call once; the
// logger must not be used afterwards.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

func (l *FileLogger) write(level, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s %s\n", l.now().UTC().Format(time.RFC3339), level, msg)
}
