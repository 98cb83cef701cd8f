// Package typedast is the output of package sema: the same shape as
// package ast, but every expression carries its resolved types.Type and
// function declarations are distinguished from function definitions.
package typedast

import (
	"strconv"
	"strings"

	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/types"
)

type Node interface {
	Range() position.Range
	String() string
}

// Expr is implemented by every typed expression node; Type reports the
// resolved type every typed expression carries.
type Expr interface {
	Node
	Type() types.Type
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Variable is the declaration a VariableExpr resolves to; sema allocates
// exactly one per declared name and every reference shares the pointer,
// so later passes can map a use back to its declaration.
type Variable struct {
	Name   string
	Type   types.Type
	Origin position.Range
}

// NameExpr survives into the typed tree only transiently during
// resolution; a fully resolved tree never contains one (every name became
// a VariableExpr or a diagnostic). Kept so partial/error trees
// still type-check structurally.
type NameExpr struct {
	Rng  position.Range
	Name string
	Typ  types.Type
}

func (e *NameExpr) Range() position.Range { return e.Rng }
func (e *NameExpr) Type() types.Type       { return e.Typ }
func (e *NameExpr) String() string         { return e.Name }
func (*NameExpr) exprNode()                {}

// VariableExpr is a reference to a previously declared variable.
type VariableExpr struct {
	Rng position.Range
	Var *Variable
}

func (e *VariableExpr) Range() position.Range { return e.Rng }
func (e *VariableExpr) Type() types.Type       { return e.Var.Type }
func (e *VariableExpr) String() string         { return e.Var.Name }
func (*VariableExpr) exprNode()                {}

type IntExpr struct {
	Rng   position.Range
	Value int64
	Typ   types.Type
}

func (e *IntExpr) Range() position.Range { return e.Rng }
func (e *IntExpr) Type() types.Type       { return e.Typ }
func (e *IntExpr) String() string         { return itoa(e.Value) }
func (*IntExpr) exprNode()                {}

type RealExpr struct {
	Rng   position.Range
	Value float64
	Typ   types.Type
}

func (e *RealExpr) Range() position.Range { return e.Rng }
func (e *RealExpr) Type() types.Type       { return e.Typ }
func (e *RealExpr) String() string         { return ftoa(e.Value) }
func (*RealExpr) exprNode()                {}

type BoolExpr struct {
	Rng   position.Range
	Value bool
}

func (e *BoolExpr) Range() position.Range { return e.Rng }
func (e *BoolExpr) Type() types.Type       { return types.NewPrimitive(types.Bool, 0) }
func (e *BoolExpr) String() string         { return btoa(e.Value) }
func (*BoolExpr) exprNode()                {}

// StringExpr has the primitive string type `str` (pointer level 0).
type StringExpr struct {
	Rng   position.Range
	Value string
}

func (e *StringExpr) Range() position.Range { return e.Rng }
func (e *StringExpr) Type() types.Type       { return types.NewPrimitive(types.Str, 0) }
func (e *StringExpr) String() string         { return "\"" + e.Value + "\"" }
func (*StringExpr) exprNode()                {}

type PrefixOp int

const (
	PrefixNeg PrefixOp = iota
	PrefixRef
	PrefixDeref
	PrefixNot
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
	default:
		return "?"
	}
}

type PrefixExpr struct {
	Rng     position.Range
	Op      PrefixOp
	Operand Expr
	Typ     types.Type
}

func (e *PrefixExpr) Range() position.Range { return e.Rng }
func (e *PrefixExpr) Type() types.Type       { return e.Typ }
func (e *PrefixExpr) String() string         { return e.Op.String() + e.Operand.String() }
func (*PrefixExpr) exprNode()                {}

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

type BinaryExpr struct {
	Rng         position.Range
	Op          BinOp
	Left, Right Expr
	Typ         types.Type
}

func (e *BinaryExpr) Range() position.Range { return e.Rng }
func (e *BinaryExpr) Type() types.Type       { return e.Typ }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + e.Op.String() + e.Right.String() + ")"
}
func (*BinaryExpr) exprNode() {}

// MemberExpr is `object.field`, resolved to the member's declared type.
type MemberExpr struct {
	Rng    position.Range
	Object Expr
	Field  string
	Typ    types.Type
}

func (e *MemberExpr) Range() position.Range { return e.Rng }
func (e *MemberExpr) Type() types.Type       { return e.Typ }
func (e *MemberExpr) String() string         { return e.Object.String() + "." + e.Field }
func (*MemberExpr) exprNode()                {}

// AssignExpr has void type, matching "assignment's own
// type is void" rule.
type AssignExpr struct {
	Rng           position.Range
	Target, Value Expr
}

func (e *AssignExpr) Range() position.Range { return e.Rng }
func (e *AssignExpr) Type() types.Type       { return types.Void_() }
func (e *AssignExpr) String() string         { return e.Target.String() + "=" + e.Value.String() }
func (*AssignExpr) exprNode()                {}

// CastExpr is the macro-expanded form of `as!(expr, Type)`.
type CastExpr struct {
	Rng        position.Range
	Expression Expr
	Target     types.Type
}

func (e *CastExpr) Range() position.Range { return e.Rng }
func (e *CastExpr) Type() types.Type       { return e.Target }
func (e *CastExpr) String() string {
	return "as!(" + e.Expression.String() + ", " + e.Target.Render() + ")"
}
func (*CastExpr) exprNode() {}

// CallExpr is a resolved function call; Typ is the callee's return type.
type CallExpr struct {
	Rng       position.Range
	Callee    *FuncSignature
	Arguments []Expr
	Typ       types.Type
}

func (e *CallExpr) Range() position.Range { return e.Rng }
func (e *CallExpr) Type() types.Type       { return e.Typ }
func (e *CallExpr) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return e.Callee.Name + "(" + strings.Join(args, ", ") + ")"
}
func (*CallExpr) exprNode() {}

// FuncSignature is the resolved identity a CallExpr binds to: enough to
// print and to check call arity (VarArg lifts the upper bound).
type FuncSignature struct {
	Name       string
	ReturnType types.Type
	Params     []types.Type
	VarArg     bool
}

// StructInitExpr is a resolved struct literal, its Fields given
// positionally in the struct's member declaration order.
type StructInitExpr struct {
	Rng    position.Range
	Typ    types.Type
	Fields []Expr
}

func (e *StructInitExpr) Range() position.Range { return e.Rng }
func (e *StructInitExpr) Type() types.Type       { return e.Typ }
func (e *StructInitExpr) String() string {
	fields := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		fields[i] = f.String()
	}
	return e.Typ.Render() + " [ " + strings.Join(fields, ", ") + " ]"
}
func (*StructInitExpr) exprNode() {}

func itoa(v int64) string   { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
func btoa(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
