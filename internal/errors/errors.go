package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrLockTimeout indicates the acquisition deadline elapsed before the
	// lock could be taken
	ErrLockTimeout = errors.New("lock timeout exceeded")

	// ErrNotLocked indicates an unlock was requested on an instance that
	// does not hold the lock
	ErrNotLocked = errors.New("lock is not held")

	// ErrLockStolen indicates the lock file no longer records this process
	// as the owner at release time
	ErrLockStolen = errors.New("lock was taken over by another process")

	// ErrMarkerAbandoned indicates the takeover marker itself was abandoned
	// by a crashed process and must be cleaned up manually
	ErrMarkerAbandoned = errors.New("takeover marker is abandoned")

	// ErrInvalidConfiguration indicates an invalid or conflicting user configuration
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// LockError represents a failure while operating on a lock file. It carries
// the lock file path, the filesystem operation that failed, the owner PID
// when one is known, and the underlying error.
type LockError struct {
	Path string
	Op   string
	PID  int
	Err  error
}

// Error implements the error interface with details about the lock file and operation.
func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("lock %s failed for %s (PID: %d): %v", e.Op, e.Path, e.PID, e.Err)
	}
	return fmt.Sprintf("lock %s failed for %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(path, op string, pid int, err error) *LockError {
	return &LockError{
		Path: path,
		Op:   op,
		PID:  pid,
		Err:  err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}
