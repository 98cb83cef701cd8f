//go:build !windows

package driver

import "testing"

func TestBuildLockCanBeReacquiredAfterRelease(t *testing.T) {
	dir := t.TempDir()

	l1, err := AcquireBuildLock(dir)
	if err != nil {
		t.Fatalf("unexpected error acquiring first lock: %v", err)
	}
	if err := l1.Release(); err != nil {
		t.Fatalf("unexpected error releasing first lock: %v", err)
	}

	l2, err := AcquireBuildLock(dir)
	if err != nil {
		t.Fatalf("unexpected error re-acquiring lock after release: %v", err)
	}
	if err := l2.Release(); err != nil {
		t.Fatalf("unexpected error releasing second lock: %v", err)
	}
}
