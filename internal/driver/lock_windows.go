//go:build windows

package driver

import (
	"os"

	"golang.org/x/sys/windows"
)

// BuildLock is an advisory exclusive lock on the build cache directory,
// held for the duration of one driver invocation so two concurrent
// builds of the same project can't interleave writes into the same
// bundle cache entries.
type BuildLock struct {
	f *os.File
}

// AcquireBuildLock takes an exclusive LockFileEx range over a sentinel
// file under dir, blocking until any other holder releases it.
func AcquireBuildLock(dir string) (*BuildLock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(dir+"\\.lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	ol := new(windows.Overlapped)
	const reserved = ^uint32(0)
	if err := windows.LockFileEx(windows.Handle(f.Fd()), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, reserved, reserved, ol); err != nil {
		f.Close()
		return nil, err
	}
	return &BuildLock{f: f}, nil
}

// Release drops the lock and closes the sentinel file.
func (l *BuildLock) Release() error {
	ol := new(windows.Overlapped)
	const reserved = ^uint32(0)
	if err := windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, reserved, reserved, ol); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
