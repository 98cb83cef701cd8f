package driver

import (
	"context"

	"github.com/fsnotify/fsnotify"
)

// WatchPaths returns every file BuildProject's last run actually read:
// the entry source plus each resolved dependency's bundle file. A watch
// loop re-triggers a build whenever any of these changes, rather than
// watching whole directories, since only these specific files feed the
// compile.
func WatchPaths(m *Manifest, resolved []ResolvedDependency) []string {
	paths := []string{m.Entry}
	for _, d := range resolved {
		paths = append(paths, d.Path)
	}
	return paths
}

// Watch rebuilds the project every time one of paths changes, invoking
// onBuild once immediately and again after every subsequent write, until
// ctx is cancelled. It does not itself retry on build errors; onBuild is
// responsible for reporting them, mirroring how the entry-point compiler
// has always kept going after an error rather than aborting the process.
func Watch(ctx context.Context, paths []string, onBuild func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, p := range paths {
		if err := w.Add(p); err != nil {
			return err
		}
	}

	onBuild()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onBuild()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
