// Package tlib implements the library bundle codec: the declaration
// subset of a fully analysed file (function signatures, struct layouts,
// nested import structure) serialised to a compact binary form so a
// dependent compilation can import another module's public surface
// without re-parsing its source.
package tlib

import (
	"encoding/binary"
	"io"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Magic opens every bundle file; Import rejects anything else outright.
var Magic = [4]byte{'T', 'L', 'I', 'B'}

var byteOrder = binary.LittleEndian

func writeSize(w io.Writer, n int) error {
	var buf [8]byte
	byteOrder.PutUint64(buf[:], uint64(n))
	_, err := w.Write(buf[:])
	return err
}

func readSize(r io.Reader) (int, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int(byteOrder.Uint64(buf[:])), nil
}

func writeBool(w io.Writer, b bool) error {
	var buf [1]byte
	if b {
		buf[0] = 1
	}
	_, err := w.Write(buf[:])
	return err
}

func readBool(r io.Reader) (bool, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, err
	}
	return buf[0] != 0, nil
}

func writeString(w io.Writer, s string) error {
	if err := writeSize(w, len(s)); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readSize(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeStrings(w io.Writer, parts []string) error {
	if err := writeSize(w, len(parts)); err != nil {
		return err
	}
	for _, p := range parts {
		if err := writeString(w, p); err != nil {
			return err
		}
	}
	return nil
}

func readStrings(r io.Reader) ([]string, error) {
	n, err := readSize(r)
	if err != nil {
		return nil, err
	}
	parts := make([]string, n)
	for i := range parts {
		if parts[i], err = readString(r); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

// writePath serialises a path by its parts vector; the global-anchor flag
// isn't carried, so readPath always yields an unanchored path.
func writePath(w io.Writer, p path.Path) error {
	return writeStrings(w, p.Parts())
}

func readPath(r io.Reader) (path.Path, error) {
	parts, err := readStrings(r)
	if err != nil {
		return path.Path{}, err
	}
	return path.New(parts...), nil
}

// writeType serialises pointer_level, then either a primitive tag or a
// user path, matching the analyser's closed Type lattice.
func writeType(w io.Writer, t types.Type) error {
	if err := writeSize(w, t.PointerLevel); err != nil {
		return err
	}
	if err := writeBool(w, t.IsPrimitive()); err != nil {
		return err
	}
	if t.IsPrimitive() {
		return writeSize(w, int(t.Primitive()))
	}
	return writePath(w, t.User())
}

func readType(r io.Reader) (types.Type, error) {
	level, err := readSize(r)
	if err != nil {
		return types.Type{}, err
	}
	isPrimitive, err := readBool(r)
	if err != nil {
		return types.Type{}, err
	}
	if isPrimitive {
		tag, err := readSize(r)
		if err != nil {
			return types.Type{}, err
		}
		return types.NewPrimitive(types.Primitive(tag), level), nil
	}
	p, err := readPath(r)
	if err != nil {
		return types.Type{}, err
	}
	return types.NewUser(p, level, position.Range{}), nil
}
