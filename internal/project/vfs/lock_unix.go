//go:build unix

package vfs

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FileLock holds an advisory exclusive lock on a file, used to guard a
// swap/crash-recovery file against a second editor instance writing it
// at the same time.
type FileLock struct {
	f *os.File
}

// Lock acquires a non-blocking exclusive advisory lock on path, creating
// it if necessary. Returns ErrLocked if another process already holds it.
func Lock(path string) (*FileLock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	return &FileLock{f: f}, nil
}

// Unlock releases the lock and removes the lock file.
func (l *FileLock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	path := l.f.Name()
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	if err := l.f.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// HolderLive reports whether the process that holds path's swap lock is
// still alive, by sending it signal 0 (no-op, delivery-check only). A
// swap file whose holder is dead is a crash-recovery candidate rather
// than a live conflict.
func HolderLive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return unix.Kill(pid, 0) == nil
}
