package ast

import (
	"strings"

	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Block is a `{ ... }` sequence of statements, embedded by every node that
// introduces a scope.
type Block struct {
	Rng   position.Range
	Stmts []Stmt
}

func (b *Block) Range() position.Range { return b.Rng }
func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
func (*Block) stmtNode() {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Rng  position.Range
	Expr Expr
}

func (s *ExprStmt) Range() position.Range { return s.Rng }
func (s *ExprStmt) String() string        { return s.Expr.String() + ";" }
func (*ExprStmt) stmtNode()               {}

// ElseStmt is the optional tail of an IfStmt.
type ElseStmt struct {
	Rng  position.Range
	Body *Block
}

func (s *ElseStmt) Range() position.Range { return s.Rng }
func (s *ElseStmt) String() string        { return "else " + s.Body.String() }
func (*ElseStmt) stmtNode()               {}

// IfStmt is `if cond { ... } [else ...]`.
type IfStmt struct {
	Rng       position.Range
	Condition Expr
	Body      *Block
	Else      *ElseStmt
}

func (s *IfStmt) Range() position.Range { return s.Rng }
func (s *IfStmt) String() string {
	res := "if " + s.Condition.String() + " " + s.Body.String()
	if s.Else != nil {
		res += " " + s.Else.String()
	}
	return res
}
func (*IfStmt) stmtNode() {}

// WhileStmt is `while cond { ... }`.
type WhileStmt struct {
	Rng       position.Range
	Condition Expr
	Body      *Block
}

func (s *WhileStmt) Range() position.Range { return s.Rng }
func (s *WhileStmt) String() string        { return "while " + s.Condition.String() + " " + s.Body.String() }
func (*WhileStmt) stmtNode()               {}

// ReturnStmt is `return [value];`. Value is nil for a bare return.
type ReturnStmt struct {
	Rng   position.Range
	Value Expr
}

func (s *ReturnStmt) Range() position.Range { return s.Rng }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
func (*ReturnStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct {
	Rng position.Range
}

func (s *BreakStmt) Range() position.Range { return s.Rng }
func (s *BreakStmt) String() string        { return "break;" }
func (*BreakStmt) stmtNode()               {}

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	Rng position.Range
}

func (s *ContinueStmt) Range() position.Range { return s.Rng }
func (s *ContinueStmt) String() string        { return "continue;" }
func (*ContinueStmt) stmtNode()               {}

// VarDeclStmt is `Type name;`, a declaration without an initializer — the
// language's only form of local declaration; assignment
// happens via a following AssignExpr statement.
type VarDeclStmt struct {
	Rng  position.Range
	Type types.Type
	Name string
}

func (s *VarDeclStmt) Range() position.Range { return s.Rng }
func (s *VarDeclStmt) String() string        { return s.Type.Render() + " " + s.Name + ";" }
func (*VarDeclStmt) stmtNode()               {}

// FuncStmt is a function declaration or definition. Body is nil for a
// declaration-only form.
// MemberOf is set when the function is a method-like struct member
// function; VarArg marks a trailing `...` parameter.
type FuncStmt struct {
	Rng        position.Range
	Name       string
	ReturnType types.Type
	Arguments  []*VarDeclStmt
	VarArg     bool
	MemberOf   *types.Type
	Body       *Block
}

func (s *FuncStmt) Range() position.Range { return s.Rng }

func (s *FuncStmt) Head() string {
	args := make([]string, len(s.Arguments))
	for i, a := range s.Arguments {
		args[i] = a.Type.Render() + " " + a.Name
	}
	varArg := ""
	if s.VarArg {
		varArg = "..."
	}
	return "fn " + s.Name + "(" + strings.Join(args, ", ") + varArg + ") " + s.ReturnType.Render()
}

func (s *FuncStmt) String() string {
	if s.Body == nil {
		return s.Head() + ";"
	}
	return s.Head() + " " + s.Body.String()
}
func (*FuncStmt) stmtNode() {}

// StructStmt is `struct Name { member; member; ... }`.
type StructStmt struct {
	Rng     position.Range
	Name    string
	Members []*VarDeclStmt
}

func (s *StructStmt) Range() position.Range { return s.Rng }

// HasMember reports whether name is a declared member.
func (s *StructStmt) HasMember(name string) bool {
	for _, m := range s.Members {
		if m.Name == name {
			return true
		}
	}
	return false
}

// MemberType returns the type of member name, or the zero Type if absent.
func (s *StructStmt) MemberType(name string) (types.Type, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m.Type, true
		}
	}
	return types.Type{}, false
}

// MemberIndex returns the ordinal position of member name, or -1.
func (s *StructStmt) MemberIndex(name string) int {
	for i, m := range s.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

func (s *StructStmt) String() string {
	var sb strings.Builder
	sb.WriteString("struct " + s.Name + " {\n")
	for _, m := range s.Members {
		sb.WriteString(m.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
func (*StructStmt) stmtNode() {}

// ImportStmt is one segment of a resolved `import a.b.c;`: nested one node
// per dotted segment, innermost node first, so Body holds the imported
// file's own top-level statements only once the last segment is reached.
// Body is nil when this absolute path was already imported earlier in the
// same parse.
type ImportStmt struct {
	Rng  position.Range
	Name string
	Body []Stmt
}

func (s *ImportStmt) Range() position.Range { return s.Rng }
func (s *ImportStmt) String() string {
	var sb strings.Builder
	sb.WriteString("import " + s.Name + " {\n")
	for _, st := range s.Body {
		sb.WriteString(st.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}
func (*ImportStmt) stmtNode() {}

// File is the root of a single parsed source file: a flat list of
// top-level statements (imports, structs, functions).
type File struct {
	Rng   position.Range
	Name  string
	Stmts []Stmt
}

func (f *File) Range() position.Range { return f.Rng }
func (f *File) String() string {
	parts := make([]string, len(f.Stmts))
	for i, s := range f.Stmts {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n\n")
}
