package loudml

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Locker provides mutual exclusion for file operations.
type Locker interface {
	// Lock acquires an exclusive lock on the file.
	// Blocks until lock is acquired or timeout expires.
	Lock() error

	// Unlock releases the lock.
	// Safe to call multiple times.
	Unlock() error
}

// Backoff bounds between lock attempts.
const (
	lockPollMin = 10 * time.Millisecond
	lockPollMax = 100 * time.Millisecond
)

// fileLock implements Locker with an OS-level exclusive lock on a file.
// The lock primitives live in lock_unix.go and lock_windows.go.
type fileLock struct {
	// file is the lock file handle. Nil once unlocked.
	file *os.File

	// timeout is the maximum duration to wait for lock acquisition.
	timeout time.Duration

	// locked tracks whether the lock is currently held.
	locked bool
}

var _ Locker = (*fileLock)(nil)

// newFileLock opens (creating if needed) the lock file at path.
func newFileLock(path string, timeout time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	return &fileLock{file: file, timeout: timeout}, nil
}

// Lock polls the non-blocking OS lock with exponential backoff until it
// succeeds, fails with a non-contention error, or the timeout expires.
func (l *fileLock) Lock() error {
	if l.locked {
		return nil
	}
	if l.file == nil {
		return errors.New("lock file already released")
	}

	deadline := time.Now().Add(l.timeout)
	wait := lockPollMin
	for {
		err := tryLockFile(l.file)
		if err == nil {
			l.locked = true
			return nil
		}
		if !isLockContended(err) {
			return fmt.Errorf("lock %s: %w", l.file.Name(), err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("lock timeout after %v", l.timeout)
		}

		time.Sleep(wait)
		if wait < lockPollMax {
			wait *= 2
		}
	}
}

// Unlock releases the lock, if held, and closes the file handle.
func (l *fileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	var err error
	if l.locked {
		err = unlockFile(l.file)
		l.locked = false
	}
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
