package driver

import (
	"path/filepath"
	"strings"
)

// ScanBundles globs every "<name>-<version>.tlib" file under each of
// dirs into an AvailableBundle, the form ResolveDependencies expects.
// A file whose stem has no "-" (no embedded version) is skipped rather
// than guessed at: a bundle produced by tarikc directly (no build-tool
// wrapper in front of it) has no version to offer.
func ScanBundles(dirs []string) ([]AvailableBundle, error) {
	var out []AvailableBundle
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.tlib"))
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			stem := strings.TrimSuffix(filepath.Base(m), ".tlib")
			i := strings.LastIndex(stem, "-")
			if i < 0 {
				continue
			}
			out = append(out, AvailableBundle{Name: stem[:i], Version: stem[i+1:], Path: m})
		}
	}
	return out, nil
}
