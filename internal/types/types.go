// Package types implements the closed type lattice of the source language:
// primitive sizes plus a user-path variant, with a non-negative pointer
// level.
package types

import (
	"fmt"

	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
)

// Primitive is the closed set of non-user type tags.
type Primitive int

const (
	Void Primitive = iota
	I8
	I16
	I32
	I64
	U0 // untyped-integer-literal tag; narrows on first contextual use
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	Str
)

var primitiveNames = map[Primitive]string{
	Void: "void",
	I8:   "i8",
	I16:  "i16",
	I32:  "i32",
	I64:  "i64",
	U0:   "{untyped int}",
	U8:   "u8",
	U16:  "u16",
	U32:  "u32",
	U64:  "u64",
	F32:  "f32",
	F64:  "f64",
	Bool: "bool",
	Str:  "str",
}

func (p Primitive) String() string {
	if s, ok := primitiveNames[p]; ok {
		return s
	}
	return fmt.Sprintf("primitive(%d)", int(p))
}

// Type is either a primitive tag or a user path, plus a pointer level.
// Every user type carries the path under which it was originally written
// plus the origin range; name resolution (in package sema) may rewrite the
// path to its canonical global form.
type Type struct {
	isPrimitive bool
	primitive   Primitive
	user        path.Path

	PointerLevel int
	Origin       position.Range
}

// NewPrimitive builds a primitive type at pointer level pl.
func NewPrimitive(p Primitive, pl int) Type {
	return Type{isPrimitive: true, primitive: p, PointerLevel: pl}
}

// NewUser builds a user-struct type at pointer level pl.
func NewUser(p path.Path, pl int, origin position.Range) Type {
	return Type{isPrimitive: false, user: p, PointerLevel: pl, Origin: origin}
}

// Void is the unit return type.
func Void_() Type { return NewPrimitive(Void, 0) }

// IsPrimitive reports whether the type names a primitive.
func (t Type) IsPrimitive() bool { return t.isPrimitive }

// Primitive returns the primitive tag; only valid when IsPrimitive.
func (t Type) Primitive() Primitive { return t.primitive }

// User returns the user path; only valid when !IsPrimitive.
func (t Type) User() path.Path { return t.user }

// WithUser rewrites the user path in place (used by name resolution to
// canonicalize to a global path) and returns the updated type.
func (t Type) WithUser(p path.Path) Type {
	t.user = p
	return t
}

// PointerTo returns the type one pointer level deeper.
func (t Type) PointerTo() Type {
	t.PointerLevel++
	return t
}

// Deref returns the type one pointer level shallower. Callers must check
// PointerLevel > 0 first.
func (t Type) Deref() Type {
	t.PointerLevel--
	return t
}

func (t Type) IsVoid() bool {
	return t.isPrimitive && t.primitive == Void && t.PointerLevel == 0
}

func (t Type) IsBool() bool {
	return t.isPrimitive && t.primitive == Bool && t.PointerLevel == 0
}

func (t Type) IsFloat() bool {
	return t.isPrimitive && t.PointerLevel == 0 && (t.primitive == F32 || t.primitive == F64)
}

func (t Type) IsSignedInt() bool {
	return t.isPrimitive && t.PointerLevel == 0 && t.primitive >= I8 && t.primitive <= I64
}

func (t Type) IsUnsignedInt() bool {
	return t.isPrimitive && t.PointerLevel == 0 && t.primitive >= U0 && t.primitive <= U64
}

// IsCopyable reports whether values of this type transfer by copy rather
// than by move: primitives and any pointer (GLOSSARY "Copyable").
func (t Type) IsCopyable() bool {
	return t.isPrimitive || t.PointerLevel > 0
}

// bitwidth returns the integer bit width of a primitive; bool counts as
// width 1, and u0 (the untyped-literal tag) and non-integer primitives as 0.
func (t Type) bitwidth() int {
	if !t.isPrimitive {
		return 0
	}
	switch t.primitive {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	case Bool:
		return 1
	default:
		return 0
	}
}

// Equal is structural equality: same variant, same pointer level, same
// underlying tag/path.
func (t Type) Equal(o Type) bool {
	if t.isPrimitive != o.isPrimitive || t.PointerLevel != o.PointerLevel {
		return false
	}
	if t.isPrimitive {
		return t.primitive == o.primitive
	}
	return t.user.Equal(o.user)
}

// IsCompatible implements is_compatible rule.
func (t Type) IsCompatible(o Type) bool {
	if t.IsVoid() || o.IsVoid() {
		return false
	}
	if t.Equal(o) {
		return true
	}
	// Pointer arithmetic is never implicit.
	if t.PointerLevel > 0 || o.PointerLevel > 0 {
		return false
	}
	if !t.isPrimitive || !o.isPrimitive {
		return false
	}
	if t.IsBool() || o.IsBool() {
		return false
	}
	if t.IsFloat() != o.IsFloat() {
		return false
	}
	if t.IsUnsignedInt() {
		return o.IsUnsignedInt() || t.bitwidth() < o.bitwidth()
	}
	return !o.IsUnsignedInt() || o.bitwidth() < t.bitwidth()
}

// IsComparable implements is_comparable rule. Pointers are
// mutually comparable regardless of level; never against void.
func (t Type) IsComparable(o Type) bool {
	if t.IsVoid() || o.IsVoid() {
		return false
	}
	if t.Equal(o) {
		return true
	}
	if t.PointerLevel > 0 && o.PointerLevel > 0 {
		return true
	}
	if t.PointerLevel != o.PointerLevel {
		return (t.PointerLevel == 0 && !t.IsUnsignedInt()) || (o.PointerLevel == 0 && !o.IsUnsignedInt())
	}
	if !t.isPrimitive || !o.isPrimitive {
		return false
	}
	if t.IsFloat() != o.IsFloat() {
		return false
	}
	if t.IsBool() != o.IsBool() {
		return false
	}
	if t.IsUnsignedInt() {
		return o.IsUnsignedInt() || t.bitwidth() < o.bitwidth()
	}
	return !o.IsUnsignedInt() || o.bitwidth() < t.bitwidth()
}

// IsAssignableFrom reports whether a value of type src may be assigned
// into a location of type t ("does src fit into t")
func (t Type) IsAssignableFrom(src Type) bool {
	if t.IsVoid() || src.IsVoid() {
		return false
	}
	if t.Equal(src) {
		return true
	}
	if t.PointerLevel != src.PointerLevel {
		return false
	}
	if t.PointerLevel > 0 {
		return t.isPrimitive == src.isPrimitive && (t.isPrimitive && t.primitive == src.primitive || !t.isPrimitive && t.user.Equal(src.user))
	}
	if t.isPrimitive != src.isPrimitive {
		return false
	}
	if !t.isPrimitive {
		return t.user.Equal(src.user)
	}
	if t.IsBool() || src.IsBool() || t.primitive == Str || src.primitive == Str {
		return false
	}
	if t.IsFloat() != src.IsFloat() {
		return false
	}
	if t.IsUnsignedInt() && src.IsSignedInt() {
		return false
	}
	if t.IsSignedInt() && src.IsUnsignedInt() {
		return t.bitwidth() > src.bitwidth()
	}
	return t.bitwidth() >= src.bitwidth()
}

// GetResult implements get_result arithmetic-promotion
// rule: a non-primitive or pointer operand passes `t` through unchanged;
// otherwise the wider of the two sizes, bumping the signed rank up by one
// step when mixing signs so the result can represent both operands.
func (t Type) GetResult(o Type) Type {
	if t.PointerLevel > 0 || !t.isPrimitive {
		return t
	}
	if !t.IsFloat() && !t.IsBool() {
		unsigned, signed := Void, Void
		if t.IsUnsignedInt() && o.IsSignedInt() {
			unsigned, signed = t.primitive, o.primitive
		} else if t.IsSignedInt() && o.IsUnsignedInt() {
			unsigned, signed = o.primitive, t.primitive
		}

		switch unsigned {
		case U0:
			signed = maxPrimitive(signed, I8)
		case U8:
			signed = maxPrimitive(signed, I16)
		case U16:
			signed = maxPrimitive(signed, I32)
		case U32:
			signed = maxPrimitive(signed, I64)
		}

		if unsigned != Void {
			return NewPrimitive(signed, 0)
		}
	}
	return NewPrimitive(maxPrimitive(t.primitive, o.primitive), 0)
}

func maxPrimitive(a, b Primitive) Primitive {
	if a > b {
		return a
	}
	return b
}

// Render returns the human-readable form used in diagnostic messages.
func (t Type) Render() string {
	s := ""
	if t.isPrimitive {
		s = t.primitive.String()
	} else {
		s = t.user.String()
	}
	for i := 0; i < t.PointerLevel; i++ {
		s += "*"
	}
	return s
}

func (t Type) String() string { return t.Render() }
