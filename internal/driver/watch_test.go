package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRebuildsOnWriteAndRunsOnceUpFront(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "main.tk")
	if err := os.WriteFile(watched, []byte("fn main() void {}"), 0o644); err != nil {
		t.Fatalf("unexpected error writing fixture: %v", err)
	}

	builds := make(chan struct{}, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{watched}, func() {
			builds <- struct{}{}
		})
	}()

	select {
	case <-builds:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an immediate build on Watch startup")
	}

	if err := os.WriteFile(watched, []byte("fn main() void { i32 x; }"), 0o644); err != nil {
		t.Fatalf("unexpected error rewriting fixture: %v", err)
	}

	select {
	case <-builds:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected a rebuild after the watched file changed")
	}

	cancel()
	<-done
}

func TestWatchPathsListsEntryAndDependencyBundles(t *testing.T) {
	m := &Manifest{Entry: "src/main.tk"}
	resolved := []ResolvedDependency{
		{Name: "mathlib", Version: "1.0.0", Path: "/libs/mathlib-1.0.0.tlib"},
	}
	paths := WatchPaths(m, resolved)
	if len(paths) != 2 || paths[0] != "src/main.tk" || paths[1] != "/libs/mathlib-1.0.0.tlib" {
		t.Fatalf("unexpected watch path list: %+v", paths)
	}
}
