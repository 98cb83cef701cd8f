package tlib_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tarik-lang/tarikc/internal/parser"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/sema"
	"github.com/tarik-lang/tarikc/internal/tlib"
)

func TestFromFileCollectsFuncsAndStructs(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn len2(Point p) i32 {
	return p.x;
}
`
	bucket := position.NewBucket()
	file := parser.ParseFile("geo.tarik", src, nil, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected parse errors: %v", bucket.Diagnostics())
	}
	prog := sema.NewProgram()
	sema.PreScan(prog, file, bucket)
	typed := sema.AnalyseFile(prog, file, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected semantic errors: %v", bucket.Diagnostics())
	}

	decls := tlib.FromFile(typed, path.New("geo"))
	if len(decls) != 2 {
		t.Fatalf("expected 2 top-level decls, got %d: %+v", len(decls), decls)
	}

	var sawStruct, sawFunc bool
	for _, d := range decls {
		switch v := d.(type) {
		case *tlib.StructDecl:
			sawStruct = true
			if v.Path.Key() != path.New("geo", "Point").Key() {
				t.Errorf("struct path wrong: %q", v.Path.Key())
			}
		case *tlib.FuncDecl:
			sawFunc = true
			if v.Path.Key() != path.New("geo", "len2").Key() {
				t.Errorf("func path wrong: %q", v.Path.Key())
			}
			if len(v.Params) != 1 || v.Params[0].Name != "p" {
				t.Errorf("func params wrong: %+v", v.Params)
			}
		}
	}
	if !sawStruct || !sawFunc {
		t.Fatalf("expected both a struct and a func decl, got %+v", decls)
	}
}

func TestFromFileWrapsImportedDeclsInImportDecl(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shapes.tk"), []byte("struct Square { i32 side; }"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	src := `import shapes;`
	bucket := position.NewBucket()
	file := parser.ParseFile("main.tk", src, []string{dir}, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected parse errors: %v", bucket.Diagnostics())
	}
	prog := sema.NewProgram()
	sema.PreScan(prog, file, bucket)
	typed := sema.AnalyseFile(prog, file, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected semantic errors: %v", bucket.Diagnostics())
	}

	decls := tlib.FromFile(typed, path.New("main"))
	if len(decls) != 1 {
		t.Fatalf("expected 1 top-level decl wrapping the import, got %d: %+v", len(decls), decls)
	}
	imp, ok := decls[0].(*tlib.ImportDecl)
	if !ok {
		t.Fatalf("expected an *tlib.ImportDecl, got %T", decls[0])
	}
	if imp.Prefix.Key() != path.New("shapes").Key() {
		t.Fatalf("expected import prefix %q, got %q", "shapes", imp.Prefix.Key())
	}
	if len(imp.Decls) != 1 {
		t.Fatalf("expected the imported file's one struct to be nested inside, got %d", len(imp.Decls))
	}
	sd, ok := imp.Decls[0].(*tlib.StructDecl)
	if !ok || sd.Path.Key() != path.New("main", "shapes", "Square").Key() {
		t.Fatalf("expected the nested struct decl at %q, got %+v", path.New("main", "shapes", "Square").Key(), imp.Decls[0])
	}
}
