package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanBundlesParsesNameAndVersionFromFilename(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"mathlib-1.2.0.tlib", "mathlib-2.0.0.tlib", "no-version-here.tlib"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("unexpected error writing fixture: %v", err)
		}
	}

	got, err := ScanBundles([]string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byVersion := map[string]bool{}
	for _, b := range got {
		if b.Name != "mathlib" && b.Name != "no-version" {
			t.Fatalf("unexpected bundle name %q", b.Name)
		}
		byVersion[b.Name+"@"+b.Version] = true
	}
	if !byVersion["mathlib@1.2.0"] || !byVersion["mathlib@2.0.0"] {
		t.Fatalf("expected both mathlib versions, got %+v", got)
	}
}
