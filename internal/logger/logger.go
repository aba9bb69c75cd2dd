// Package logger provides logging facilities for the pidlock application.
//
// It separates debug logging, written via log/slog to an optional log file,
// from user-facing messages written to stdout and stderr. Components receive
// the interface defined in the common package; this package supplies the
// standard implementation.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/marbeck/pidlock/internal/common"
)

// DefaultLogger writes debug logs through slog and user-facing messages to
// the configured stdout/stderr writers. It implements common.Logger.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

var _ common.Logger = (*DefaultLogger)(nil)

// New creates a new Logger instance. When enabled is true, debug messages
// are appended to logFile; otherwise they go to stderr as text.
func New(enabled bool, logFile string, verbose bool) *DefaultLogger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var file *os.File
	var handler slog.Handler = slog.NewTextHandler(stderr, opts)

	if enabled && logFile != "" {
		if dir := filepath.Dir(logFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				_, _ = fmt.Fprintf(stderr, "failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "failed to open log file: %v, using stderr instead\n", err)
		} else {
			file = f
			handler = slog.NewTextHandler(f, opts)
		}
	}

	return &DefaultLogger{
		logger:  slog.New(handler),
		enabled: enabled,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// log emits a debug record when debug logging is enabled.
func (l *DefaultLogger) log(level slog.Level, msg string) {
	if l.enabled {
		l.logger.Log(context.Background(), level, msg)
	}
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warning logs a warning message. It is echoed to the user in verbose mode.
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.log(slog.LevelWarn, msg)

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "warning: %s\n", msg)
	}
}

// Error logs an error message and always shows it to the user.
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.log(slog.LevelError, msg)
	_, _ = fmt.Fprintf(l.stderr, "error: %s\n", msg)
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.log(slog.LevelInfo, msg)
	_, _ = fmt.Fprintf(l.stdout, "%s\n", msg)
}

// WarningToUser logs a warning message to both file and stdout
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	l.log(slog.LevelWarn, msg)
	_, _ = fmt.Fprintf(l.stdout, "warning: %s\n", msg)
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintf(l.stdout, format+"\n", args...)
}

// Close flushes and closes the log file handle if one is open.
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			return err
		}
		return l.file.Close()
	}
	return nil
}
