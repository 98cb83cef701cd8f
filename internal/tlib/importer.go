package tlib

import (
	"os"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Importer resolves a library name to its exported declarations; the
// driver's default reads the bundle file version resolution picked for
// each dependency, and tests
// substitute MockImporter to avoid touching the filesystem.
type Importer interface {
	Import(name string) ([]Decl, error)
}

// FileImporter reads bundles from a single root directory, one file per
// library named "<name>.tlib".
type FileImporter struct {
	Root string
}

func (fi *FileImporter) Import(name string) ([]Decl, error) {
	f, err := os.Open(fi.Root + "/" + name + ".tlib")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Import(f)
}

// LiftPrefix rewrites every unqualified or library-internal reference in
// decls to be anchored under prefix, leaving references to another
// library's root alone: first collect every multi-segment declared
// path's root segment, then re-walk prefixing anything whose root was
// seen or that was only ever single-segment.
func LiftPrefix(decls []Decl, prefix path.Path) []Decl {
	seenRoots := map[string]bool{}
	collectRoots(decls, seenRoots)
	out := make([]Decl, len(decls))
	for i, d := range decls {
		out[i] = liftDecl(d, prefix, seenRoots)
	}
	return out
}

func collectRoots(decls []Decl, seen map[string]bool) {
	for _, d := range decls {
		switch v := d.(type) {
		case *FuncDecl:
			addSeenRoot(v.Path, seen)
		case *StructDecl:
			addSeenRoot(v.Path, seen)
		case *ImportDecl:
			collectRoots(v.Decls, seen)
		}
	}
}

func addSeenRoot(p path.Path, seen map[string]bool) {
	parts := p.Parts()
	if len(parts) > 1 {
		seen[parts[0]] = true
	}
}

func addPrefixIfSeen(p path.Path, prefix path.Path, seen map[string]bool) path.Path {
	parts := p.Parts()
	if len(parts) == 1 || seen[parts[0]] {
		return p.WithPrefix(prefix)
	}
	return p
}

func liftDecl(d Decl, prefix path.Path, seen map[string]bool) Decl {
	switch v := d.(type) {
	case *FuncDecl:
		lifted := *v
		lifted.Path = addPrefixIfSeen(v.Path, prefix, seen)
		lifted.ReturnType = liftType(v.ReturnType, prefix, seen)
		lifted.Params = make([]Param, len(v.Params))
		for i, p := range v.Params {
			lifted.Params[i] = Param{Name: p.Name, Type: liftType(p.Type, prefix, seen)}
		}
		return &lifted
	case *StructDecl:
		lifted := *v
		lifted.Path = addPrefixIfSeen(v.Path, prefix, seen)
		lifted.Members = make([]Param, len(v.Members))
		for i, m := range v.Members {
			lifted.Members[i] = Param{Name: m.Name, Type: liftType(m.Type, prefix, seen)}
		}
		return &lifted
	case *ImportDecl:
		lifted := *v
		lifted.Decls = make([]Decl, len(v.Decls))
		for i, nested := range v.Decls {
			lifted.Decls[i] = liftDecl(nested, prefix, seen)
		}
		return &lifted
	default:
		return d
	}
}

// liftType rewrites only a user-struct type's path; a primitive has no
// path to lift and passes through unchanged.
func liftType(t types.Type, prefix path.Path, seen map[string]bool) types.Type {
	if t.IsPrimitive() {
		return t
	}
	return t.WithUser(addPrefixIfSeen(t.User(), prefix, seen))
}
