package driver

import (
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// BundleKey is the content hash of a compiled library bundle's encoded
// bytes, used as the build cache's lookup key: two units that compile to
// byte-identical bundles share one cache entry regardless of what source
// path produced them.
type BundleKey string

// HashBundle derives a BundleKey from an encoded bundle's bytes.
func HashBundle(encoded []byte) BundleKey {
	sum := blake2b.Sum256(encoded)
	return BundleKey(hex.EncodeToString(sum[:]))
}

// BundleCache stores encoded declaration sets keyed by content hash. The
// driver Puts each prepared dependency's re-encoded declarations into it;
// no build step reads an entry back to skip work.
type BundleCache interface {
	Get(key BundleKey) ([]byte, bool, error)
	Put(key BundleKey, encoded []byte) error
}

// FSBundleCache stores one gzip-compressed blob per key under root,
// written via a temp-file-then-rename so a crash mid-write never leaves
// a corrupt entry behind for a later Get to trip over.
type FSBundleCache struct {
	root string
}

// NewFSBundleCache ensures root exists and returns a cache rooted there.
func NewFSBundleCache(root string) (*FSBundleCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &FSBundleCache{root: root}, nil
}

func (c *FSBundleCache) blobPath(key BundleKey) string {
	return filepath.Join(c.root, string(key)+".gz")
}

func (c *FSBundleCache) Get(key BundleKey) ([]byte, bool, error) {
	b, err := os.ReadFile(c.blobPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, false, err
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *FSBundleCache) Put(key BundleKey, encoded []byte) error {
	tmp := c.blobPath(key) + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(f)
	if _, err := gw.Write(encoded); err != nil {
		gw.Close()
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := gw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.blobPath(key))
}
