package tlib_test

import (
	"bytes"
	"testing"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/types"
)

func sampleDecls() []tlib.Decl {
	return []tlib.Decl{
		&tlib.FuncDecl{
			Path:       path.New("math", "add"),
			ReturnType: types.NewPrimitive(types.I32, 0),
			Params: []tlib.Param{
				{Name: "a", Type: types.NewPrimitive(types.I32, 0)},
				{Name: "b", Type: types.NewPrimitive(types.I32, 0)},
			},
		},
		&tlib.StructDecl{
			Path: path.New("math", "Point"),
			Members: []tlib.Param{
				{Name: "x", Type: types.NewPrimitive(types.I32, 0)},
				{Name: "y", Type: types.NewPrimitive(types.I32, 0)},
			},
		},
		&tlib.ImportDecl{
			Prefix: path.New("math", "geo"),
			Decls: []tlib.Decl{
				&tlib.FuncDecl{
					Path:       path.New("geo", "dist"),
					ReturnType: types.NewPrimitive(types.F64, 0),
					Params:     []tlib.Param{{Name: "p", Type: types.NewUser(path.New("math", "Point"), 1, position.Range{})}},
				},
			},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := tlib.Export(&buf, sampleDecls()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	decls, err := tlib.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(decls) != 3 {
		t.Fatalf("expected 3 decls, got %d", len(decls))
	}

	fn, ok := decls[0].(*tlib.FuncDecl)
	if !ok {
		t.Fatalf("decls[0] is %T, want *tlib.FuncDecl", decls[0])
	}
	if fn.Path.Key() != path.New("math", "add").Key() {
		t.Errorf("func path round-tripped as %q", fn.Path.Key())
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" {
		t.Errorf("func params round-tripped wrong: %+v", fn.Params)
	}

	st, ok := decls[1].(*tlib.StructDecl)
	if !ok {
		t.Fatalf("decls[1] is %T, want *tlib.StructDecl", decls[1])
	}
	if len(st.Members) != 2 || st.Members[1].Name != "y" {
		t.Errorf("struct members round-tripped wrong: %+v", st.Members)
	}

	imp, ok := decls[2].(*tlib.ImportDecl)
	if !ok {
		t.Fatalf("decls[2] is %T, want *tlib.ImportDecl", decls[2])
	}
	if len(imp.Decls) != 1 {
		t.Errorf("nested import decls round-tripped wrong: %+v", imp.Decls)
	}
}

func TestImportRejectsBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE")
	if _, err := tlib.Import(buf); err == nil {
		t.Fatalf("expected an error for a non-bundle file, got none")
	}
}

func TestImportSkipsUnknownTag(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(tlib.Magic[:])

	// Hand-roll a two-item list: one unknown tag (99) with a bogus
	// payload, one real FuncDecl, to confirm the unknown tag's length
	// prefix is enough to skip past it without desyncing the reader.
	var body bytes.Buffer
	known := &tlib.FuncDecl{Path: path.New("ok"), ReturnType: types.NewPrimitive(types.Void, 0)}
	if err := tlib.Export(&body, []tlib.Decl{known}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	knownBytes := body.Bytes()[len(tlib.Magic):]

	writeSizeForTest(&buf, 2)
	writeSizeForTest(&buf, 99) // unknown tag
	writeSizeForTest(&buf, 5)
	buf.Write([]byte{1, 2, 3, 4, 5})
	buf.Write(knownBytes[8:]) // re-use the count-1 encoded single-decl body's item bytes

	decls, err := tlib.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(decls) != 1 {
		t.Fatalf("expected the unknown-tagged item to be skipped, leaving 1 decl, got %d", len(decls))
	}
	if fn, ok := decls[0].(*tlib.FuncDecl); !ok || fn.Path.Key() != "ok" {
		t.Errorf("surviving decl is wrong: %+v", decls[0])
	}
}

func writeSizeForTest(buf *bytes.Buffer, n int) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}
	buf.Write(b[:])
}
