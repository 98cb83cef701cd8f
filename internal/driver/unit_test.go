package driver

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/types"
)

func TestCompileUnitCleanSourceProducesABundle(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn len2(Point p) i32 {
	return p.x;
}
`
	res := compileSource("geo.tarik", src, path.New("geo"), nil, nil)
	if res.Bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %v", res.Bucket.Diagnostics())
	}
	if !res.Ran.Parsed || !res.Ran.Analysed || !res.Ran.Checked {
		t.Fatalf("expected every pass to run, got %+v", res.Ran)
	}
	if len(res.Bundle) != 2 {
		t.Fatalf("expected 2 exported decls, got %d", len(res.Bundle))
	}
}

func TestCompileUnitStopsAfterParseErrors(t *testing.T) {
	src := `fn broken( {`
	res := compileSource("broken.tarik", src, path.New("broken"), nil, nil)
	if res.Bucket.ErrorCount() == 0 {
		t.Fatalf("expected a parse error, got none")
	}
	if res.Ran.Analysed || res.Ran.Checked {
		t.Fatalf("analysis and lifetime checking must not run after a parse error, got %+v", res.Ran)
	}
	if res.Bundle != nil {
		t.Fatalf("expected no bundle from a unit that never compiled cleanly")
	}
}

func TestCompileUnitStopsAfterLifetimeErrors(t *testing.T) {
	src := `
fn dangling() i32* {
	i32 x;
	x = 1;
	return &x;
}
`
	res := compileSource("dangling.tarik", src, path.New("dangling"), nil, nil)
	if res.Bucket.ErrorCount() == 0 {
		t.Fatalf("expected a dangling-pointer error, got none")
	}
	if !res.Ran.Checked {
		t.Fatalf("expected lifetime checking to have run and caught the error")
	}
	if res.Bundle != nil {
		t.Fatalf("expected no bundle from a unit with lifetime errors")
	}
}

func TestCompileUnitUsesImportedLibraryDeclarations(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	x = math.square(3);
}
`
	imported := []tlib.Decl{
		&tlib.FuncDecl{
			Path:       path.New("math", "square"),
			ReturnType: types.NewPrimitive(types.I32, 0),
			Params:     []tlib.Param{{Name: "n", Type: types.NewPrimitive(types.I32, 0)}},
		},
	}
	res := compileSource("main.tarik", src, path.New("app"), imported, nil)
	if res.Bucket.ErrorCount() != 0 {
		t.Fatalf("expected a call into an imported library to resolve cleanly, got %v", res.Bucket.Diagnostics())
	}
}
