// Package pidlock is a cross-process mutex over a shared filesystem path
//
// pidlock serializes independent operating-system processes that share
// nothing but a filesystem path: no shared memory, no daemon, no
// coordinator. The lock file's atomic exclusive creation is the
// mutual-exclusion primitive, and the file records the owner's PID so that
// a lock abandoned by a crashed process is detected and recovered
// automatically, without manual cleanup.
//
// # Quick Start
//
//	# Run a command while holding a lock
//	pidlock run /tmp/build.lock -- make release
//
//	# Give up after a minute instead of waiting forever
//	pidlock run --timeout 1m /tmp/build.lock -- make release
//
//	# See who holds a lock
//	pidlock status /tmp/build.lock
//
// # Key Features
//
//   - Mutual exclusion built solely on atomic create and atomic rename
//   - Dead-owner takeover guarded by a marker file under the same protocol
//   - Jittered exponential backoff to avoid synchronized retry storms
//   - Partial-write detection: a malformed lock file is never "free"
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - cmd/pidlock: Command-line interface
//   - internal/lock: The locking protocol
//   - internal/config: Configuration loading and validation
//   - internal/logger: Logging facilities
//   - internal/errors: Error handling utilities
//   - internal/common: Shared interfaces
//
// # Requirements
//
// pidlock requires a Unix-like operating system and a filesystem with
// atomic exclusive creation and atomic rename. Local disks qualify;
// network filesystems may not.
package pidlock
