package lock

import (
	"context"
	"os"
	"time"

	pidlockErrors "github.com/marbeck/pidlock/internal/errors"
)

// tryStatus classifies the outcome of a single acquisition probe.
type tryStatus int

const (
	// trySuccess: this process now owns the lock file.
	trySuccess tryStatus = iota

	// tryInProgress: another process is mid-creation; retry quickly.
	tryInProgress

	// tryHeldElsewhere: a live process owns the lock; back off.
	tryHeldElsewhere

	// tryTakeoverNeeded: the recorded owner is dead; recovery is required.
	tryTakeoverNeeded
)

// tryLock makes one non-blocking acquisition attempt against path.
//
// Atomic exclusive creation is the sole source of mutual exclusion: winning
// the create makes this process the owner, and the PID record is written in
// a single pass afterwards. A failed write never leaves an orphaned empty
// lock file behind. When the path already exists, its content decides the
// outcome; finding our own PID means a previous attempt by this process
// already succeeded.
func (l *Locker) tryLock(path string) (tryStatus, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, lockFileMode)
	if err == nil {
		if werr := writeOwner(f, l.pid); werr != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return 0, pidlockErrors.NewLockError(path, "write", l.pid, werr)
		}
		if cerr := f.Close(); cerr != nil {
			_ = os.Remove(path)
			return 0, pidlockErrors.NewLockError(path, "close", l.pid, cerr)
		}
		return trySuccess, nil
	}
	if !os.IsExist(err) {
		return 0, pidlockErrors.NewLockError(path, "create", 0, err)
	}

	pid, state, err := readOwner(path)
	if err != nil {
		return 0, err
	}

	switch state {
	case ownerFree:
		// Released between the failed create and the read; retry quickly.
		return tryInProgress, nil
	case ownerInProgress:
		return tryInProgress, nil
	}

	if pid == l.pid {
		return trySuccess, nil
	}

	alive, err := processAlive(pid)
	if err != nil {
		// Probe failures other than "no such process" are fatal.
		return 0, err
	}
	if !alive {
		return tryTakeoverNeeded, nil
	}
	return tryHeldElsewhere, nil
}

// acquire runs the retry loop against path until it owns the lock, the
// deadline passes, or the context is canceled.
//
// The takeover marker (<path>.takeover) is itself acquired through a
// recursive call to this same routine; depth asserts that the recursion
// never exceeds one level. Holding the marker does not grant the lock:
// recovery happens only through the atomic rename of the marker onto path,
// and only after a further probe re-observes a dead owner while the marker
// is held, which proves no competing takeover renamed first. A held marker
// is released on every exit path.
func (l *Locker) acquire(ctx context.Context, path string, deadline time.Time, depth int) error {
	if depth > 1 {
		// A marker whose own marker needs recovery means a process died
		// inside takeover twice over; require manual cleanup instead of
		// suffixing paths without bound.
		return pidlockErrors.NewLockError(path, "takeover", 0, pidlockErrors.ErrMarkerAbandoned)
	}

	markerPath := path + takeoverSuffix
	markerHeld := false

	defer func() {
		if markerHeld {
			if rerr := os.Remove(markerPath); rerr != nil && !os.IsNotExist(rerr) {
				l.warnf("failed to remove takeover marker %s: %v", markerPath, rerr)
			}
		}
	}()

	wait := newBackoff(l.minBackoff, l.maxBackoff)
	var inProgressSince time.Time

	for {
		status, terr := l.tryLock(path)
		if terr != nil {
			return terr
		}

		switch status {
		case trySuccess:
			return nil

		case tryHeldElsewhere:
			inProgressSince = time.Time{}

		case tryInProgress:
			// The writer may finish momentarily; retry at the floor delay.
			wait.reset()
			if inProgressSince.IsZero() {
				inProgressSince = time.Now()
				continue
			}
			if time.Since(inProgressSince) >= l.inProgressTimeout {
				// The write has been in flight for the whole window; treat
				// the writer as dead.
				status = tryTakeoverNeeded
			}
		}

		if status == tryTakeoverNeeded {
			if markerHeld {
				// Re-observed a dead owner while holding the marker: no
				// competing takeover remains. The rename is the recovery.
				if rerr := os.Rename(markerPath, path); rerr != nil {
					return pidlockErrors.NewLockError(path, "rename", l.pid, rerr)
				}
				markerHeld = false
				l.debugf("took over abandoned lock %s (PID %d)", path, l.pid)
				return nil
			}

			l.warnf("lock %s owner appears dead, attempting takeover", path)
			if aerr := l.acquire(ctx, markerPath, deadline, depth+1); aerr != nil {
				return aerr
			}
			// Do not rename yet: another process may have raced through the
			// same takeover and renamed first. Probe again holding the
			// marker; only a repeated dead-owner observation proves the
			// takeover is still ours to finish.
			markerHeld = true
			wait.reset()
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return pidlockErrors.NewLockError(path, "acquire", 0, pidlockErrors.ErrLockTimeout)
		}

		delay := wait.current()
		if !deadline.IsZero() {
			if remaining := time.Until(deadline); remaining < delay {
				delay = remaining
			}
		}
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
		wait.advance()
	}
}

// sleep waits for d or until the context is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
