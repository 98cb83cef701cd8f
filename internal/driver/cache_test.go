package driver

import (
	"path/filepath"
	"testing"
)

func TestFSBundleCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewFSBundleCache(filepath.Join(dir, "bundles"))
	if err != nil {
		t.Fatalf("unexpected error creating cache: %v", err)
	}

	data := []byte("pretend this is an encoded bundle")
	key := HashBundle(data)

	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("expected a miss on an empty cache, got ok=%v err=%v", ok, err)
	}

	if err := cache.Put(key, data); err != nil {
		t.Fatalf("unexpected error on put: %v", err)
	}

	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("expected a hit after put, got ok=%v err=%v", ok, err)
	}
	if string(got) != string(data) {
		t.Fatalf("round-tripped bytes don't match: got %q", got)
	}
}

func TestHashBundleIsStableAndSensitiveToContent(t *testing.T) {
	a := HashBundle([]byte("one"))
	b := HashBundle([]byte("one"))
	c := HashBundle([]byte("two"))
	if a != b {
		t.Fatalf("expected identical content to hash identically")
	}
	if a == c {
		t.Fatalf("expected different content to hash differently")
	}
}
