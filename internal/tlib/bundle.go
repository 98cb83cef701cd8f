package tlib

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Tag identifies which decoder a bundle item needs.
type Tag int

const (
	TagFunc Tag = iota
	TagStruct
	TagImport
)

// Param is a parameter or struct member: a type plus a name kept only for
// documentation (diagnostics rendered against an imported signature).
type Param struct {
	Name string
	Type types.Type
}

// FuncDecl is an importable function signature: enough to type-check
// calls against it, never a body.
type FuncDecl struct {
	Path       path.Path
	ReturnType types.Type
	Params     []Param
	VarArg     bool
}

func (d *FuncDecl) tag() Tag { return TagFunc }

func (d *FuncDecl) encode(w io.Writer) error {
	if err := writePath(w, d.Path); err != nil {
		return err
	}
	if err := writeType(w, d.ReturnType); err != nil {
		return err
	}
	if err := writeSize(w, len(d.Params)); err != nil {
		return err
	}
	for _, p := range d.Params {
		if err := writeString(w, p.Name); err != nil {
			return err
		}
		if err := writeType(w, p.Type); err != nil {
			return err
		}
	}
	return writeBool(w, d.VarArg)
}

func decodeFunc(r io.Reader) (*FuncDecl, error) {
	d := &FuncDecl{}
	var err error
	if d.Path, err = readPath(r); err != nil {
		return nil, err
	}
	if d.ReturnType, err = readType(r); err != nil {
		return nil, err
	}
	n, err := readSize(r)
	if err != nil {
		return nil, err
	}
	d.Params = make([]Param, n)
	for i := range d.Params {
		if d.Params[i].Name, err = readString(r); err != nil {
			return nil, err
		}
		if d.Params[i].Type, err = readType(r); err != nil {
			return nil, err
		}
	}
	if d.VarArg, err = readBool(r); err != nil {
		return nil, err
	}
	return d, nil
}

// StructDecl is an importable structure layout: path plus member list.
type StructDecl struct {
	Path    path.Path
	Members []Param
}

func (d *StructDecl) tag() Tag { return TagStruct }

func (d *StructDecl) encode(w io.Writer) error {
	if err := writePath(w, d.Path); err != nil {
		return err
	}
	if err := writeSize(w, len(d.Members)); err != nil {
		return err
	}
	for _, m := range d.Members {
		if err := writeString(w, m.Name); err != nil {
			return err
		}
		if err := writeType(w, m.Type); err != nil {
			return err
		}
	}
	return nil
}

func decodeStruct(r io.Reader) (*StructDecl, error) {
	d := &StructDecl{}
	var err error
	if d.Path, err = readPath(r); err != nil {
		return nil, err
	}
	n, err := readSize(r)
	if err != nil {
		return nil, err
	}
	d.Members = make([]Param, n)
	for i := range d.Members {
		if d.Members[i].Name, err = readString(r); err != nil {
			return nil, err
		}
		if d.Members[i].Type, err = readType(r); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// ImportDecl preserves a nested import block's module structure: the
// prefix it was imported under, plus the declarations it carried in.
type ImportDecl struct {
	Prefix path.Path
	Decls  []Decl
}

func (d *ImportDecl) tag() Tag { return TagImport }

func (d *ImportDecl) encode(w io.Writer) error {
	if err := writePath(w, d.Prefix); err != nil {
		return err
	}
	return writeDecls(w, d.Decls)
}

func decodeImport(r io.Reader) (*ImportDecl, error) {
	d := &ImportDecl{}
	var err error
	if d.Prefix, err = readPath(r); err != nil {
		return nil, err
	}
	if d.Decls, err = readDecls(r); err != nil {
		return nil, err
	}
	return d, nil
}

// Decl is any top-level item the codec knows how to carry; Export walks a
// list of these rather than a typedast.File directly, so the driver
// layer decides which declarations are worth exporting.
type Decl interface {
	tag() Tag
	encode(w io.Writer) error
}

func writeDecls(w io.Writer, decls []Decl) error {
	if err := writeSize(w, len(decls)); err != nil {
		return err
	}
	for _, d := range decls {
		if err := writeSize(w, int(d.tag())); err != nil {
			return err
		}
		// Each item is framed by its own encoded length so an unknown
		// future tag can be skipped without desynchronising the rest
		// of the stream.
		var buf bytes.Buffer
		if err := d.encode(&buf); err != nil {
			return err
		}
		if err := writeSize(w, buf.Len()); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func readDecls(r io.Reader) ([]Decl, error) {
	n, err := readSize(r)
	if err != nil {
		return nil, err
	}
	decls := make([]Decl, 0, n)
	for i := 0; i < n; i++ {
		tagVal, err := readSize(r)
		if err != nil {
			return nil, err
		}
		size, err := readSize(r)
		if err != nil {
			return nil, err
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		body := bytes.NewReader(payload)
		var d Decl
		switch Tag(tagVal) {
		case TagFunc:
			d, err = decodeFunc(body)
		case TagStruct:
			d, err = decodeStruct(body)
		case TagImport:
			d, err = decodeImport(body)
		default:
			// Unknown tag from a newer writer: its length was already
			// consumed above, so skipping it is just not appending.
			continue
		}
		if err != nil {
			return nil, err
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// Export writes the TLIB magic followed by the declaration list.
func Export(w io.Writer, decls []Decl) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return writeDecls(w, decls)
}

// Import reads a bundle written by Export. A bad magic is reported as an
// error rather than silently returning an empty list, so a driver can
// tell "not a bundle" apart from "bundle with nothing exported".
func Import(r io.Reader) ([]Decl, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("tlib: reading magic: %w", err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("tlib: bad magic %q, want %q", magic, Magic)
	}
	return readDecls(r)
}
