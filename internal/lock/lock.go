package lock

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/marbeck/pidlock/internal/common"
	pidlockErrors "github.com/marbeck/pidlock/internal/errors"
)

// Default protocol tunables. All three are configurable per Locker; the
// in-progress window is a heuristic dead-writer detector, not a
// correctness bound.
const (
	// DefaultMinBackoff is the floor for retry delays under contention.
	DefaultMinBackoff = 25 * time.Millisecond

	// DefaultMaxBackoff caps the jittered exponential growth of retry delays.
	DefaultMaxBackoff = 2 * time.Second

	// DefaultInProgressTimeout bounds how long a malformed lock file is
	// attributed to a still-active writer before takeover is attempted.
	DefaultInProgressTimeout = 5 * time.Second
)

// takeoverSuffix derives the marker path protecting lock recovery.
const takeoverSuffix = ".takeover"

const lockFileMode = 0644

// Locker is a cross-process mutex bound to a single filesystem path.
//
// The locked flag tracks this process's belief about holding the lock; it
// is kept consistent with best-effort semantics and is independent of the
// filesystem state, which other processes may change at any time.
type Locker struct {
	path   string
	pid    int
	locked bool

	minBackoff        time.Duration
	maxBackoff        time.Duration
	inProgressTimeout time.Duration

	logger common.Logger
}

// Option configures a Locker.
type Option func(*Locker)

// WithMinBackoff sets the floor for retry delays.
func WithMinBackoff(d time.Duration) Option {
	return func(l *Locker) { l.minBackoff = d }
}

// WithMaxBackoff sets the ceiling for retry delays.
func WithMaxBackoff(d time.Duration) Option {
	return func(l *Locker) { l.maxBackoff = d }
}

// WithInProgressTimeout sets how long a partially written lock file is
// attributed to a live writer before takeover is attempted.
func WithInProgressTimeout(d time.Duration) Option {
	return func(l *Locker) { l.inProgressTimeout = d }
}

// WithLogger attaches an optional diagnostic logger.
func WithLogger(logger common.Logger) Option {
	return func(l *Locker) { l.logger = logger }
}

// New creates a Locker for the given lock file path
func New(path string, opts ...Option) (*Locker, error) {
	if runtime.GOOS == "windows" {
		return nil, pidlockErrors.NewLockError(path, "create", 0,
			pidlockErrors.New("pidlock only supports Unix-like operating systems (Linux, macOS, BSD)"))
	}

	l := &Locker{
		path:              path,
		pid:               os.Getpid(),
		minBackoff:        DefaultMinBackoff,
		maxBackoff:        DefaultMaxBackoff,
		inProgressTimeout: DefaultInProgressTimeout,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.minBackoff <= 0 {
		return nil, pidlockErrors.NewConfigError("min-backoff", l.minBackoff,
			pidlockErrors.Wrap(pidlockErrors.ErrInvalidConfiguration, "must be positive"))
	}
	if l.maxBackoff < l.minBackoff {
		return nil, pidlockErrors.NewConfigError("max-backoff", l.maxBackoff,
			pidlockErrors.Wrap(pidlockErrors.ErrInvalidConfiguration, "must not be below min-backoff"))
	}
	if l.inProgressTimeout <= 0 {
		return nil, pidlockErrors.NewConfigError("in-progress-timeout", l.inProgressTimeout,
			pidlockErrors.Wrap(pidlockErrors.ErrInvalidConfiguration, "must be positive"))
	}

	return l, nil
}

// LockOptions controls a single acquisition.
type LockOptions struct {
	// Timeout bounds the whole acquisition including takeover. Zero waits
	// indefinitely (subject to context cancellation).
	Timeout time.Duration

	// Verify makes the returned Handle verify ownership at release.
	Verify bool
}

// UnlockOptions controls a single release.
type UnlockOptions struct {
	// Idempotent turns an unlock without a held lock into a no-op.
	Idempotent bool

	// Verify re-reads the owner PID before deletion and fails if the lock
	// no longer records this process as the owner.
	Verify bool
}

// Lock acquires the lock, retrying with jittered exponential backoff while
// it is contended and taking it over when its recorded owner is dead. On
// success it returns a Handle that releases the lock exactly once when
// closed. Failures are *errors.LockError values; a deadline failure wraps
// errors.ErrLockTimeout.
func (l *Locker) Lock(ctx context.Context, opts LockOptions) (*Handle, error) {
	var deadline time.Time
	if opts.Timeout > 0 {
		deadline = time.Now().Add(opts.Timeout)
	}

	if err := l.acquire(ctx, l.path, deadline, 0); err != nil {
		return nil, err
	}

	l.locked = true
	l.debugf("acquired lock %s (PID %d)", l.path, l.pid)
	return &Handle{locker: l, verify: opts.Verify}, nil
}

// Unlock releases the lock. The local held flag is cleared before any
// filesystem work so that a failed deletion still leaves the instance
// unlocked.
func (l *Locker) Unlock(opts UnlockOptions) error {
	if !l.locked {
		if opts.Idempotent {
			return nil
		}
		return pidlockErrors.NewLockError(l.path, "unlock", l.pid, pidlockErrors.ErrNotLocked)
	}

	l.locked = false

	if opts.Verify {
		pid, state, err := readOwner(l.path)
		if err != nil {
			return err
		}
		if state != ownerHeld || pid != l.pid {
			return pidlockErrors.NewLockError(l.path, "unlock", l.pid, pidlockErrors.ErrLockStolen)
		}
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return pidlockErrors.NewLockError(l.path, "remove", l.pid, err)
	}

	l.debugf("released lock %s (PID %d)", l.path, l.pid)
	return nil
}

// IsLocked reports whether this instance believes it holds the lock.
func (l *Locker) IsLocked() bool {
	return l.locked
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// State describes what the lock file on disk currently records.
type State int

const (
	// StateFree means no lock file exists.
	StateFree State = iota

	// StateWriteInProgress means the lock file exists but does not record
	// a valid owner yet.
	StateWriteInProgress

	// StateHeld means the lock file records an owner PID.
	StateHeld
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateWriteInProgress:
		return "write in progress"
	case StateHeld:
		return "held"
	}
	return "unknown"
}

// Inspect reads the lock file without mutating anything and reports its
// state along with the owner PID when one is recorded.
func (l *Locker) Inspect() (State, int, error) {
	pid, state, err := readOwner(l.path)
	if err != nil {
		return StateFree, 0, err
	}
	switch state {
	case ownerFree:
		return StateFree, 0, nil
	case ownerInProgress:
		return StateWriteInProgress, 0, nil
	}
	return StateHeld, pid, nil
}

// Handle is a scoped wrapper around a held lock. Its sole responsibility is
// releasing the lock exactly once, no matter how many times it is closed.
type Handle struct {
	locker *Locker
	verify bool
	once   sync.Once
}

// Close releases the underlying lock. Subsequent calls are no-ops.
func (h *Handle) Close() error {
	var err error
	h.once.Do(func() {
		err = h.locker.Unlock(UnlockOptions{Verify: h.verify})
	})
	return err
}

func (l *Locker) debugf(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Info(format, args...)
	}
}

func (l *Locker) warnf(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Warning(format, args...)
	}
}
