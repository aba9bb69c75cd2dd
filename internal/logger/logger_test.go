package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUserFacingOutput(t *testing.T) {
	tests := map[string]struct {
		emit       func(l *DefaultLogger)
		wantStdout string
		wantStderr string
	}{
		"InfoToUser": {
			emit:       func(l *DefaultLogger) { l.InfoToUser("acquired %s", "/tmp/x.lock") },
			wantStdout: "acquired /tmp/x.lock\n",
		},
		"WarningToUser": {
			emit:       func(l *DefaultLogger) { l.WarningToUser("lock contended") },
			wantStdout: "warning: lock contended\n",
		},
		"StatusMessage": {
			emit:       func(l *DefaultLogger) { l.StatusMessage("held by PID %d", 42) },
			wantStdout: "held by PID 42\n",
		},
		"Error": {
			emit:       func(l *DefaultLogger) { l.Error("unlock failed") },
			wantStderr: "error: unlock failed\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			l := NewWithOutput(false, "", false, &stdout, &stderr)

			test.emit(l)

			if stdout.String() != test.wantStdout {
				t.Errorf("Expected stdout %q, got %q", test.wantStdout, stdout.String())
			}
			if stderr.String() != test.wantStderr {
				t.Errorf("Expected stderr %q, got %q", test.wantStderr, stderr.String())
			}
		})
	}
}

func TestWarningRespectsVerbose(t *testing.T) {
	var stdout, stderr bytes.Buffer

	quiet := NewWithOutput(false, "", false, &stdout, &stderr)
	quiet.Warning("should be silent")
	if stdout.Len() != 0 {
		t.Errorf("Expected no user output without verbose, got %q", stdout.String())
	}

	verbose := NewWithOutput(false, "", true, &stdout, &stderr)
	verbose.Warning("should be visible")
	if !strings.Contains(stdout.String(), "should be visible") {
		t.Errorf("Expected warning in stdout with verbose, got %q", stdout.String())
	}
}

func TestDebugFileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "pidlock.log")

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(true, logFile, false, &stdout, &stderr)

	l.Info("takeover of %s", "/tmp/x.lock")
	if err := l.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "takeover of /tmp/x.lock") {
		t.Errorf("Expected log file to contain message, got %q", string(data))
	}

	// Info is debug-only and never echoed to the user
	if stdout.Len() != 0 {
		t.Errorf("Expected no stdout output from Info, got %q", stdout.String())
	}
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "pidlock.log")

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(false, logFile, false, &stdout, &stderr)

	l.Info("invisible")
	if err := l.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	if _, err := os.Stat(logFile); !os.IsNotExist(err) {
		t.Errorf("Expected no log file when disabled, stat err = %v", err)
	}
}
