package lock

import (
	"os"
	"strconv"

	pidlockErrors "github.com/marbeck/pidlock/internal/errors"
)

// ownerState classifies what a lock file's content says about its owner.
type ownerState int

const (
	// ownerFree: the lock file does not exist.
	ownerFree ownerState = iota

	// ownerInProgress: the file exists but its content is not a complete
	// owner record, so a writer is presumed to be mid-creation.
	ownerInProgress

	// ownerHeld: the file records a complete owner PID.
	ownerHeld
)

// readOwner reads and classifies the lock file at path. Only a missing file
// is free; a file holding anything but an exact "<digits>\n" record is a
// write in progress, never a valid owner and never free. Read errors other
// than ENOENT are wrapped with path context.
func readOwner(path string) (int, ownerState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ownerFree, nil
		}
		return 0, ownerFree, pidlockErrors.NewLockError(path, "read", 0, err)
	}

	pid, ok := parseOwner(data)
	if !ok {
		return 0, ownerInProgress, nil
	}
	return pid, ownerHeld, nil
}

// parseOwner accepts exactly ASCII decimal digits terminated by a single
// trailing newline.
func parseOwner(data []byte) (int, bool) {
	if len(data) < 2 || data[len(data)-1] != '\n' {
		return 0, false
	}
	digits := data[:len(data)-1]
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	pid, err := strconv.Atoi(string(digits))
	if err != nil {
		// Digits only, so this is an overflow
		return 0, false
	}
	return pid, true
}

// writeOwner records pid as the owner in a single write.
func writeOwner(f *os.File, pid int) error {
	_, err := f.Write([]byte(strconv.Itoa(pid) + "\n"))
	return err
}
