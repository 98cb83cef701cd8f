package parser

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/position"
)

// TestExpressionParsePrecedence is a worked example.
func TestExpressionParsePrecedence(t *testing.T) {
	bucket := position.NewBucket()
	p := New("t.tk", "3 + 4 * 5", bucket)
	expr := p.ParseExpression(Lowest)
	want := "(3+(4*5))"
	if got := expr.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if bucket.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bucket.Diagnostics())
	}
}

func TestVarDeclVsExprStmtDisambiguation(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "i32 x; x = 4;", nil, bucket)
	if len(file.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(file.Stmts))
	}
	if file.Stmts[0].String() != "i32 x;" {
		t.Fatalf("expected var decl, got %q", file.Stmts[0].String())
	}
	if file.Stmts[1].String() != "x=4;" {
		t.Fatalf("expected expr stmt, got %q", file.Stmts[1].String())
	}
}

func TestFuncDeclarationOnly(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "fn add(i32 a, i32 b) i32;", nil, bucket)
	if len(file.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(file.Stmts))
	}
	want := "fn add(i32 a, i32 b) i32;"
	if got := file.Stmts[0].String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFuncImplicitVoidReturn(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "fn main() { return; }", nil, bucket)
	want := "fn main() void {\nreturn;\n}"
	if got := file.Stmts[0].String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIfElseChain(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "fn f() void { if true { return; } else { return; } }", nil, bucket)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bucket.Diagnostics())
	}
	if len(file.Stmts) != 1 {
		t.Fatalf("expected 1 top-level statement, got %d", len(file.Stmts))
	}
}

func TestStructParsing(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "struct Point { i32 x; i32 y; }", nil, bucket)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bucket.Diagnostics())
	}
	want := "struct Point {\ni32 x;\ni32 y;\n}"
	if got := file.Stmts[0].String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMemberFunctionParsing(t *testing.T) {
	bucket := position.NewBucket()
	file := ParseFile("t.tk", "fn Point.len(this) i32 { return 0; }", nil, bucket)
	if bucket.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bucket.Diagnostics())
	}
	want := "fn len(Point this) i32 {\nreturn 0;\n}"
	if got := file.Stmts[0].String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSyntaxErrorRecoveryNeverPanics(t *testing.T) {
	bucket := position.NewBucket()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("parser panicked: %v", r)
		}
	}()
	ParseFile("t.tk", "fn ) + * broken {{{", nil, bucket)
	if bucket.ErrorCount() == 0 {
		t.Fatalf("expected at least one diagnostic for malformed input")
	}
}
