package tlib_test

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/types"
)

func TestLiftPrefixRewritesLibraryInternalReferences(t *testing.T) {
	decls := []tlib.Decl{
		&tlib.StructDecl{Path: path.New("math", "Point")},
		&tlib.FuncDecl{
			Path:       path.New("length"),
			ReturnType: types.NewUser(path.New("math", "Point"), 0, position.Range{}),
			Params:     []tlib.Param{{Name: "p", Type: types.NewUser(path.New("math", "Point"), 1, position.Range{})}},
		},
	}

	lifted := tlib.LiftPrefix(decls, path.New("geometry"))

	st := lifted[0].(*tlib.StructDecl)
	if st.Path.Key() != path.New("geometry", "math", "Point").Key() {
		t.Errorf("struct path not lifted: %q", st.Path.Key())
	}

	fn := lifted[1].(*tlib.FuncDecl)
	if fn.Path.Key() != path.New("geometry", "length").Key() {
		t.Errorf("single-segment func path not lifted: %q", fn.Path.Key())
	}
	if fn.ReturnType.User().Key() != path.New("geometry", "math", "Point").Key() {
		t.Errorf("return type reference not lifted: %q", fn.ReturnType.User().Key())
	}
	if fn.Params[0].Type.User().Key() != path.New("geometry", "math", "Point").Key() {
		t.Errorf("param type reference not lifted: %q", fn.Params[0].Type.User().Key())
	}
}

// A multi-segment reference whose root never appears among this
// library's own declared paths names something outside the library
// (already fully qualified against another import's prefix) and must be
// left untouched, even while the library's own declarations are lifted.
func TestLiftPrefixLeavesForeignRootsAlone(t *testing.T) {
	decls := []tlib.Decl{
		&tlib.FuncDecl{
			Path:       path.New("mylib", "length"),
			ReturnType: types.NewUser(path.New("other", "Unrelated"), 0, position.Range{}),
		},
	}

	lifted := tlib.LiftPrefix(decls, path.New("geometry"))

	fn := lifted[0].(*tlib.FuncDecl)
	if fn.Path.Key() != path.New("geometry", "mylib", "length").Key() {
		t.Errorf("own multi-segment path should still be lifted, got %q", fn.Path.Key())
	}
	if fn.ReturnType.User().Key() != path.New("other", "Unrelated").Key() {
		t.Errorf("reference to a foreign root should be left alone, got %q", fn.ReturnType.User().Key())
	}
}
