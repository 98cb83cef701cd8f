// Package ast defines the untyped syntax tree produced by package parser:
// one node per grammar production, each carrying the source range
// it covers so later phases can anchor diagnostics.
package ast

import (
	"strconv"
	"strings"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Node is the base of every tree element.
type Node interface {
	Range() position.Range
	String() string
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// ---- Expressions -----------------------------------------------------

// NameExpr is a bare identifier reference, possibly a macro name when
// Macro is set.
type NameExpr struct {
	Rng   position.Range
	Name  string
	Macro bool
}

func (e *NameExpr) Range() position.Range { return e.Rng }
func (e *NameExpr) String() string   { return e.Name }
func (*NameExpr) exprNode()          {}

// IntExpr is an integer literal.
type IntExpr struct {
	Rng   position.Range
	Value int64
}

func (e *IntExpr) Range() position.Range { return e.Rng }
func (e *IntExpr) String() string   { return itoa(e.Value) }
func (*IntExpr) exprNode()          {}

// RealExpr is a floating-point literal.
type RealExpr struct {
	Rng   position.Range
	Value float64
}

func (e *RealExpr) Range() position.Range { return e.Rng }
func (e *RealExpr) String() string   { return ftoa(e.Value) }
func (*RealExpr) exprNode()          {}

// BoolExpr is a `true`/`false` literal.
type BoolExpr struct {
	Rng   position.Range
	Value bool
}

func (e *BoolExpr) Range() position.Range { return e.Rng }
func (e *BoolExpr) String() string   { return btoa(e.Value) }
func (*BoolExpr) exprNode()          {}

// StringExpr is a string literal with escapes already decoded by the
// lexer.
type StringExpr struct {
	Rng   position.Range
	Value string
}

func (e *StringExpr) Range() position.Range { return e.Rng }
func (e *StringExpr) String() string   { return "\"" + e.Value + "\"" }
func (*StringExpr) exprNode()          {}

// TypeExpr wraps a parsed type in expression position, used for the type
// arguments of the `as!`/`extern!` macros.
type TypeExpr struct {
	Rng  position.Range
	Type types.Type
}

func (e *TypeExpr) Range() position.Range { return e.Rng }
func (e *TypeExpr) String() string   { return e.Type.Render() }
func (*TypeExpr) exprNode()          {}

// PrefixOp is the closed set of prefix operators.
type PrefixOp int

const (
	PrefixNeg PrefixOp = iota
	PrefixRef
	PrefixDeref
	PrefixNot
	PrefixGlobal
)

func (p PrefixOp) String() string {
	switch p {
	case PrefixNeg:
		return "-"
	case PrefixRef:
		return "&"
	case PrefixDeref:
		return "*"
	case PrefixNot:
		return "!"
	case PrefixGlobal:
		return "::"
	default:
		return "?"
	}
}

// PrefixExpr applies a single prefix operator to its operand.
type PrefixExpr struct {
	Rng     position.Range
	Op      PrefixOp
	Operand Expr
}

func (e *PrefixExpr) Range() position.Range { return e.Rng }
func (e *PrefixExpr) String() string   { return e.Op.String() + e.Operand.String() }
func (*PrefixExpr) exprNode()          {}

// BinOp is the closed set of infix operators. Path, member
// access and assignment get dedicated node types below because their
// operands and merging rules differ; every other binary op shares
// BinaryExpr.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Eq
	Ne
	Lt
	Gt
	Le
	Ge
)

var binOpText = map[BinOp]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Eq: "==", Ne: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
}

func (b BinOp) String() string { return binOpText[b] }

// BinaryExpr is a two-operand arithmetic/comparison expression.
type BinaryExpr struct {
	Rng         position.Range
	Op          BinOp
	Left, Right Expr
}

func (e *BinaryExpr) Range() position.Range { return e.Rng }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + e.Op.String() + e.Right.String() + ")"
}
func (*BinaryExpr) exprNode() {}

// PathExpr is a `::`-joined name chain, resolved against the module tree
//. It is kept distinct from MemberExpr because
// its segments are names only, never a general expression.
type PathExpr struct {
	Rng      position.Range
	Segments []string
	Global   bool
}

func (e *PathExpr) Range() position.Range { return e.Rng }
func (e *PathExpr) String() string {
	prefix := ""
	if e.Global {
		prefix = "::"
	}
	return prefix + strings.Join(e.Segments, "::")
}
func (*PathExpr) exprNode() {}

// ToPath converts a PathExpr's segments into a path.Path value, anchored
// at the global root when the expression is.
func (e *PathExpr) ToPath() path.Path {
	parts := e.Segments
	if e.Global {
		parts = append([]string{""}, parts...)
	}
	return path.New(parts...)
}

// MemberExpr is `object.field`.
type MemberExpr struct {
	Rng    position.Range
	Object Expr
	Field  string
}

func (e *MemberExpr) Range() position.Range { return e.Rng }
func (e *MemberExpr) String() string   { return e.Object.String() + "." + e.Field }
func (*MemberExpr) exprNode()          {}

// AssignExpr is `target = value`; assignment is an expression, not a
// statement
type AssignExpr struct {
	Rng           position.Range
	Target, Value Expr
}

func (e *AssignExpr) Range() position.Range { return e.Rng }
func (e *AssignExpr) String() string   { return e.Target.String() + "=" + e.Value.String() }
func (*AssignExpr) exprNode()          {}

// CallExpr is a function call or macro invocation; for a macro, Callee is
// a MacroIdentifier-derived NameExpr with its Macro flag set.
type CallExpr struct {
	Rng       position.Range
	Callee    Expr
	Arguments []Expr
}

func (e *CallExpr) Range() position.Range { return e.Rng }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return e.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}
func (*CallExpr) exprNode() {}

// StructInitExpr is `Type [ field, field, ... ]`.
type StructInitExpr struct {
	Rng    position.Range
	Type   Expr
	Fields []Expr
}

func (e *StructInitExpr) Range() position.Range { return e.Rng }
func (e *StructInitExpr) String() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.String()
	}
	return e.Type.String() + " [ " + strings.Join(fields, ", ") + " ]"
}
func (*StructInitExpr) exprNode() {}

// ListExpr is a `[a, b, c]` literal.
type ListExpr struct {
	Rng      position.Range
	Elements []Expr
}

func (e *ListExpr) Range() position.Range { return e.Rng }
func (e *ListExpr) String() string {
	elems := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = el.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
func (*ListExpr) exprNode() {}

// EmptyExpr is the placeholder operand the parser substitutes when
// recovering from a syntax error, so the tree stays total; a parser
// never panics on malformed input.
// "never panics").
type EmptyExpr struct {
	Rng position.Range
}

func (e *EmptyExpr) Range() position.Range { return e.Rng }
func (e *EmptyExpr) String() string   { return "<empty>" }
func (*EmptyExpr) exprNode()          {}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func btoa(v bool) string { return strconv.FormatBool(v) }
