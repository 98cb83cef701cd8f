package sema_test

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/parser"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/sema"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/types"
)

func analyse(t *testing.T, src string) *position.Bucket {
	t.Helper()
	bucket := position.NewBucket()
	file := parser.ParseFile("test.tarik", src, nil, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected parse errors: %v", bucket.Diagnostics())
	}
	prog := sema.NewProgram()
	sema.PreScan(prog, file, bucket)
	sema.AnalyseFile(prog, file, bucket)
	return bucket
}

func TestStructRedefinitionIsError(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
struct Point { i32 x; }
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a redefinition error, got none")
	}
}

func TestFuncRedefinitionIsError(t *testing.T) {
	src := `
fn main() void { }
fn main() void { }
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a redefinition error, got none")
	}
}

func TestForwardDeclarationIsNotRedefinition(t *testing.T) {
	src := `
fn helper() void;
fn helper() void { }
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors for a forward declaration followed by its definition, got %v", bucket.Diagnostics())
	}
}

func TestUseOfUndefinedVariableIsError(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	i32 y;
	y = x;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a use-before-definition error, got none")
	}
}

func TestDefiniteAssignmentThenReadIsFine(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	x = 1;
	i32 y;
	y = x;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors, got %v", bucket.Diagnostics())
	}
}

func TestConditionalAssignmentIsOnlyMaybeDefined(t *testing.T) {
	src := `
fn main() void {
	bool c;
	c = true;
	i32 x;
	if c {
		x = 1;
	}
	i32 y;
	y = x;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a use-of-possibly-undefined error after a one-sided if, got none")
	}
}

func TestAssignmentInBothBranchesIsDefinite(t *testing.T) {
	src := `
fn main() void {
	bool c;
	c = true;
	i32 x;
	if c {
		x = 1;
	} else {
		x = 2;
	}
	i32 y;
	y = x;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors when both branches assign x, got %v", bucket.Diagnostics())
	}
}

func TestFunctionReturnTypeMismatchIsError(t *testing.T) {
	src := `
fn give() i32 {
	return true;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a type-mismatch error on return, got none")
	}
}

func TestStructLiteralInitializationIsAccepted(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn main() void {
	Point p;
	p = Point [ 1, 2 ];
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors constructing a struct literal, got %v", bucket.Diagnostics())
	}
}

func TestMemberAccessOfUnknownFieldIsError(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn main() void {
	Point p;
	p = Point [ 1, 2 ];
	i32 z;
	z = p.q;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected an unknown-member error, got none")
	}
}

func TestAsCastBetweenPrimitivesIsFine(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	x = 1;
	i64 y;
	y = as!(x, i64);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors from a primitive-to-primitive cast, got %v", bucket.Diagnostics())
	}
}

func TestExternDeclaresACallableFunction(t *testing.T) {
	src := `
fn main() void {
	extern!(i32, "puts", u8);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected no errors registering an extern declaration, got %v", bucket.Diagnostics())
	}
}

func TestVariableShadowingAcrossScopesIsAllowed(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	x = 1;
	if true {
		i32 x;
		x = 2;
	}
	{
		i32 x;
		x = 3;
	}
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected cross-scope name reuse to be allowed, got %v", bucket.Diagnostics())
	}
}

func TestImportedLibraryDeclarationIsUsableWithoutItsSource(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	x = math.square(3);
}
`
	bucket := position.NewBucket()
	file := parser.ParseFile("test.tarik", src, nil, bucket)
	if bucket.ErrorCount() > 0 {
		t.Fatalf("unexpected parse errors: %v", bucket.Diagnostics())
	}
	prog := sema.NewProgram()
	prog.ImportDecls([]tlib.Decl{
		&tlib.FuncDecl{
			Path:       path.New("math", "square"),
			ReturnType: types.NewPrimitive(types.I32, 0),
			Params:     []tlib.Param{{Name: "n", Type: types.NewPrimitive(types.I32, 0)}},
		},
	})
	sema.PreScan(prog, file, bucket)
	sema.AnalyseFile(prog, file, bucket)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected a call into an imported library to resolve cleanly, got %v", bucket.Diagnostics())
	}
}

func TestVariableRedeclarationInSameScopeIsError(t *testing.T) {
	src := `
fn main() void {
	i32 x;
	i32 x;
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a same-scope redeclaration error, got none")
	}
}

func TestCallArgumentTypeMismatchIsError(t *testing.T) {
	src := `
fn takeInt(i32 n) void { }
fn main() void {
	takeInt("hi");
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected an argument-type-mismatch error, got none")
	}
}

func TestCallArgumentIntLiteralPromotesToFloatParam(t *testing.T) {
	src := `
fn takeFloat(f32 f) void { }
fn main() void {
	takeFloat(3);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected an integer literal to promote to a float parameter, got %v", bucket.Diagnostics())
	}
}

func TestCallWithTooFewArgumentsIsError(t *testing.T) {
	src := `
fn add(i32 a, i32 b) i32 { return a; }
fn main() void {
	i32 r;
	r = add(1);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a not-enough-arguments error, got none")
	}
}

func TestCallWithTooManyArgumentsIsError(t *testing.T) {
	src := `
fn add(i32 a, i32 b) i32 { return a; }
fn main() void {
	i32 r;
	r = add(1, 2, 3);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected a too-many-arguments error, got none")
	}
}

func TestVariadicExternAllowsExtraArguments(t *testing.T) {
	src := `
fn main() void {
	extern_var!(i32, "printf", str);
	i32 r;
	r = printf("fmt", 1, 2, 3);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected a variadic extern to accept extra arguments, got %v", bucket.Diagnostics())
	}
}

func TestMemberCallAutoRefsValueReceiverToPointerThis(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn Point*.setX(this, i32 v) void { }
fn main() void {
	Point p;
	p = Point [ 1, 2 ];
	p.setX(5);
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected a value receiver to auto-ref to a pointer-this method, got %v", bucket.Diagnostics())
	}
}

func TestMemberCallAutoDerefsPointerReceiverToValueThis(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn Point.getX(this) i32 { return this.x; }
fn takesPtr(Point* pp) i32 {
	return pp.getX();
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("expected a pointer receiver to auto-deref to a value-this method, got %v", bucket.Diagnostics())
	}
}

func TestMemberCallAmbiguousBetweenValueAndPointerThisIsError(t *testing.T) {
	src := `
struct Point { i32 x; i32 y; }
fn Point.get(this) i32 { return this.x; }
fn Point*.get(this) i32 { return this.x; }
fn main() void {
	Point p;
	p = Point [ 1, 2 ];
	i32 v;
	v = p.get();
}
`
	bucket := analyse(t, src)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected an ambiguous-call error when both a value-this and pointer-this method match, got none")
	}
}
