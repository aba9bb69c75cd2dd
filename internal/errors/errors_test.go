package errors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrap(originalErr, "wrapped message")

	if !Is(wrappedErr, originalErr) {
		t.Errorf("Expected wrapped error to match original, but it didn't")
	}

	expectedMsg := "wrapped message: original error"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, wrappedErr.Error())
	}
}

func TestWrapf(t *testing.T) {
	originalErr := New("original error")
	wrappedErr := Wrapf(originalErr, "wrapped message with %s", "format")

	if !Is(wrappedErr, originalErr) {
		t.Errorf("Expected wrapped error to match original, but it didn't")
	}

	expectedMsg := "wrapped message with format: original error"
	if wrappedErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, wrappedErr.Error())
	}
}

func TestLockError(t *testing.T) {
	err := errors.New("file not found")
	lockErr := NewLockError("/tmp/x.lock", "read", 1234, err)

	expectedMsg := "lock read failed for /tmp/x.lock (PID: 1234): file not found"
	if lockErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, lockErr.Error())
	}

	// Without a known owner PID the message omits it
	lockErr = NewLockError("/tmp/x.lock", "create", 0, err)
	expectedMsg = "lock create failed for /tmp/x.lock: file not found"
	if lockErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, lockErr.Error())
	}

	if !errors.Is(lockErr, err) {
		t.Errorf("Expected LockError.Unwrap() to return the original error")
	}
}

func TestConfigError(t *testing.T) {
	err := errors.New("invalid value")
	configErr := NewConfigError("min-backoff", 0, err)

	expectedMsg := "configuration error for min-backoff = 0: invalid value"
	if configErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, configErr.Error())
	}

	configErr = NewConfigError("log-file", nil, err)
	expectedMsg = "configuration error for log-file: invalid value"
	if configErr.Error() != expectedMsg {
		t.Errorf("Expected message %q, got %q", expectedMsg, configErr.Error())
	}

	if !errors.Is(configErr, err) {
		t.Errorf("Expected ConfigError.Unwrap() to return the original error")
	}
}

func TestErrorMatching(t *testing.T) {
	lockErr := NewLockError("/tmp/x.lock", "acquire", 0, ErrLockTimeout)

	if !Is(lockErr, ErrLockTimeout) {
		t.Errorf("Expected lockErr to match ErrLockTimeout")
	}

	var le *LockError
	if !As(lockErr, &le) {
		t.Errorf("Expected lockErr to match LockError type")
	}

	wrappedErr := Wrap(lockErr, "acquisition failed")

	if !Is(wrappedErr, ErrLockTimeout) {
		t.Errorf("Expected wrappedErr to match ErrLockTimeout")
	}

	if !As(wrappedErr, &le) {
		t.Errorf("Expected wrappedErr to match LockError type")
	}
}

func TestSentinelDistinctness(t *testing.T) {
	sentinels := map[string]error{
		"ErrLockTimeout":          ErrLockTimeout,
		"ErrNotLocked":            ErrNotLocked,
		"ErrLockStolen":           ErrLockStolen,
		"ErrMarkerAbandoned":      ErrMarkerAbandoned,
		"ErrInvalidConfiguration": ErrInvalidConfiguration,
	}

	for name, sentinel := range sentinels {
		t.Run(name, func(t *testing.T) {
			for otherName, other := range sentinels {
				if name == otherName {
					continue
				}
				if Is(sentinel, other) {
					t.Errorf("Expected %s to be distinct from %s", name, otherName)
				}
			}
		})
	}
}
