// Package lock provides a cross-process mutex built on atomic lock file
// creation, with automatic recovery when a lock holder dies without
// releasing.
//
// Processes coordinate through nothing but a shared filesystem path. The
// lock file's content is exactly the owner's decimal PID followed by a
// newline; any other content means a writer is mid-creation and is never
// treated as a valid owner or as a free lock.
//
// # Core Components
//
// - Locker: per-path lock instance with Lock, Unlock and IsLocked
// - Handle: scoped wrapper returned by Lock that releases exactly once
// - backoff: jittered exponential retry delays
//
// # Protocol
//
// Acquisition attempts an atomic O_CREATE|O_EXCL creation and writes the
// caller's PID. When the path already exists its content is classified:
// a malformed file is a write in progress and retried quickly; a live
// owner backs the caller off with jittered exponential delays; a dead
// owner triggers takeover. Takeover is guarded by a secondary marker path
// (<path>.takeover) protected by this same protocol, and completes only
// through an atomic rename of the marker onto the lock path, so competing
// recoveries cannot both win.
//
// # Usage
//
//	locker, err := lock.New("/tmp/build.lock")
//	if err != nil {
//	    // handle error
//	}
//
//	handle, err := locker.Lock(ctx, lock.LockOptions{Timeout: time.Minute})
//	if err != nil {
//	    // timed out or failed
//	}
//	defer handle.Close()
//
// # Guarantees and Limits
//
// Mutual exclusion rests solely on the atomicity of exclusive creation and
// rename, which holds for local filesystems but not for all network
// filesystems. There is no fairness or queueing among waiters; livelock is
// mitigated probabilistically through jitter. A Locker is not reentrant: a
// second Lock on an instance that already holds the lock is undefined. A
// Locker must not be shared between goroutines.
package lock
