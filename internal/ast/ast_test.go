package ast

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

func TestBinaryExprPrint(t *testing.T) {
	e := &BinaryExpr{
		Op:   Add,
		Left: &IntExpr{Value: 1},
		Right: &BinaryExpr{
			Op:    Mul,
			Left:  &IntExpr{Value: 2},
			Right: &IntExpr{Value: 3},
		},
	}
	want := "(1+(2*3))"
	if got := e.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPathExprToPath(t *testing.T) {
	e := &PathExpr{Segments: []string{"a", "b"}, Global: true}
	p := e.ToPath()
	if !p.IsGlobal() || p.Key() != "::a.b" {
		t.Fatalf("unexpected path from PathExpr: %q", p.Key())
	}
}

func TestFuncStmtHeadRendersSignature(t *testing.T) {
	fn := &FuncStmt{
		Name:       "add",
		ReturnType: types.NewPrimitive(types.I32, 0),
		Arguments: []*VarDeclStmt{
			{Type: types.NewPrimitive(types.I32, 0), Name: "a"},
			{Type: types.NewPrimitive(types.I32, 0), Name: "b"},
		},
	}
	want := "fn add(i32 a, i32 b) i32"
	if got := fn.Head(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFuncStmtDeclarationOnlyPrintsSemicolon(t *testing.T) {
	fn := &FuncStmt{Name: "f", ReturnType: types.Void_()}
	want := "fn f() void;"
	if got := fn.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestStructStmtMemberLookup(t *testing.T) {
	s := &StructStmt{
		Name: "Point",
		Members: []*VarDeclStmt{
			{Name: "x", Type: types.NewPrimitive(types.I32, 0)},
			{Name: "y", Type: types.NewPrimitive(types.I32, 0)},
		},
	}
	if !s.HasMember("x") || s.HasMember("z") {
		t.Fatalf("HasMember mismatch")
	}
	if idx := s.MemberIndex("y"); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
}

func TestIfStmtWithElsePrint(t *testing.T) {
	rng := position.Range{Filename: "t.tk", Line: 1, Column: 1, Length: 1}
	stmt := &IfStmt{
		Rng:       rng,
		Condition: &BoolExpr{Value: true},
		Body:      &Block{},
		Else:      &ElseStmt{Body: &Block{}},
	}
	want := "if true {\n} else {\n}"
	if got := stmt.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
