package lock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ProcessAlive reports whether pid refers to a live process, using the same
// probe the acquisition loop uses for recorded owners.
func ProcessAlive(pid int) (bool, error) {
	return processAlive(pid)
}

// processAlive probes whether pid exists using a null signal. ESRCH is the
// only outcome treated as dead; any other failure (EPERM included) is
// returned to the caller rather than conflated with a dead process.
func processAlive(pid int) (bool, error) {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.ESRCH) {
		return false, nil
	}
	return false, err
}
