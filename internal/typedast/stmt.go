package typedast

import (
	"strings"

	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

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

type ExprStmt struct {
	Rng  position.Range
	Expr Expr
}

func (s *ExprStmt) Range() position.Range { return s.Rng }
func (s *ExprStmt) String() string        { return s.Expr.String() + ";" }
func (*ExprStmt) stmtNode()               {}

type ElseStmt struct {
	Rng  position.Range
	Body *Block
}

func (s *ElseStmt) Range() position.Range { return s.Rng }
func (s *ElseStmt) String() string        { return "else " + s.Body.String() }
func (*ElseStmt) stmtNode()               {}

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

type WhileStmt struct {
	Rng       position.Range
	Condition Expr
	Body      *Block
}

func (s *WhileStmt) Range() position.Range { return s.Rng }
func (s *WhileStmt) String() string {
	return "while " + s.Condition.String() + " " + s.Body.String()
}
func (*WhileStmt) stmtNode() {}

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

type BreakStmt struct{ Rng position.Range }

func (s *BreakStmt) Range() position.Range { return s.Rng }
func (s *BreakStmt) String() string        { return "break;" }
func (*BreakStmt) stmtNode()               {}

type ContinueStmt struct{ Rng position.Range }

func (s *ContinueStmt) Range() position.Range { return s.Rng }
func (s *ContinueStmt) String() string        { return "continue;" }
func (*ContinueStmt) stmtNode()               {}

// VarDeclStmt declares a local; Var is the Variable object every
// VariableExpr referencing it will point back to.
type VarDeclStmt struct {
	Rng position.Range
	Var *Variable
}

func (s *VarDeclStmt) Range() position.Range { return s.Rng }
func (s *VarDeclStmt) String() string        { return s.Var.Type.Render() + " " + s.Var.Name + ";" }
func (*VarDeclStmt) stmtNode()               {}

// FuncDeclStmt is a function header with no body — declared but not
// defined, distinct from FuncDefStmt.
type FuncDeclStmt struct {
	Rng        position.Range
	Name       string
	ReturnType types.Type
	Params     []types.Type
	VarArg     bool
}

func (s *FuncDeclStmt) Range() position.Range { return s.Rng }
func (s *FuncDeclStmt) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Render()
	}
	return "fn " + s.Name + "(" + strings.Join(params, ", ") + ") " + s.ReturnType.Render() + ";"
}
func (*FuncDeclStmt) stmtNode() {}

// FuncDefStmt is a function with a body.
type FuncDefStmt struct {
	Rng        position.Range
	Name       string
	ReturnType types.Type
	Params     []*Variable
	VarArg     bool
	MemberOf   *types.Type
	Body       *Block
}

func (s *FuncDefStmt) Range() position.Range { return s.Rng }

func (s *FuncDefStmt) Signature() *FuncSignature {
	params := make([]types.Type, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type
	}
	return &FuncSignature{Name: s.Name, ReturnType: s.ReturnType, Params: params, VarArg: s.VarArg}
}

func (s *FuncDefStmt) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type.Render() + " " + p.Name
	}
	return "fn " + s.Name + "(" + strings.Join(params, ", ") + ") " + s.ReturnType.Render() + " " + s.Body.String()
}
func (*FuncDefStmt) stmtNode() {}

// ImportStmt mirrors ast.ImportStmt in the typed tree: the nested body
// verified under the pushed module path, one node per dotted segment, so
// a bundle builder can reproduce the nesting without re-walking the
// source file.
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

// StructDefStmt is a fully verified structure, including the synthesized
// `$constructor` function.
type StructDefStmt struct {
	Rng         position.Range
	Name        string
	Members     []*Variable
	Constructor *FuncDefStmt
}

func (s *StructDefStmt) Range() position.Range { return s.Rng }
func (s *StructDefStmt) String() string {
	var sb strings.Builder
	sb.WriteString("struct " + s.Name + " {\n")
	for _, m := range s.Members {
		sb.WriteString(m.Type.Render() + " " + m.Name + ";\n")
	}
	sb.WriteString("}")
	return sb.String()
}
func (*StructDefStmt) stmtNode() {}

// File is a fully analysed compilation unit: its top-level
// declarations/definitions in source order, with each `import` kept as a
// nested ImportStmt.
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
