// Package token defines the lexical token kinds of the source language and
// the fixed tables (keywords, operators) the lexer scans against.
package token

import (
	"fmt"

	"github.com/tarik-lang/tarikc/internal/position"
)

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Error

	// Literals.
	Identifier
	MacroIdentifier // identifier immediately followed by '!'
	Integer
	Real
	String
	Bool // true / false

	// Structural keywords.
	Fn
	Return
	If
	Else
	While
	Break
	Continue
	Struct
	Import
	Null

	// Primitive type keywords.
	I8
	I16
	I32
	I64
	U0
	U8
	U16
	U32
	U64
	F32
	F64
	BoolType
	Str
	Void

	// Punctuation / operators.
	Plus
	Minus
	Star
	Slash
	Assign
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Not
	Amp
	Dot
	Comma
	Semicolon
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Colon
	DoubleColon
	Arrow
	Ellipsis
)

var names = map[Kind]string{
	EOF:             "eof",
	Error:           "error",
	Identifier:      "identifier",
	MacroIdentifier: "macro-identifier",
	Integer:         "integer",
	Real:            "real",
	String:          "string",
	Bool:            "bool",
	Fn:              "fn",
	Return:          "return",
	If:              "if",
	Else:            "else",
	While:           "while",
	Break:           "break",
	Continue:        "continue",
	Struct:          "struct",
	Import:          "import",
	Null:            "null",
	I8:              "i8",
	I16:             "i16",
	I32:             "i32",
	I64:             "i64",
	U0:              "u0",
	U8:              "u8",
	U16:             "u16",
	U32:             "u32",
	U64:             "u64",
	F32:             "f32",
	F64:             "f64",
	BoolType:        "bool",
	Str:             "str",
	Void:            "void",
	Plus:            "+",
	Minus:           "-",
	Star:            "*",
	Slash:           "/",
	Assign:          "=",
	Eq:              "==",
	Ne:              "!=",
	Lt:              "<",
	Le:              "<=",
	Gt:              ">",
	Ge:              ">=",
	Not:             "!",
	Amp:             "&",
	Dot:             ".",
	Comma:           ",",
	Semicolon:       ";",
	LParen:          "(",
	RParen:          ")",
	LBrace:          "{",
	RBrace:          "}",
	LBracket:        "[",
	RBracket:        "]",
	Colon:           ":",
	DoubleColon:     "::",
	Arrow:           "->",
	Ellipsis:        "...",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Keywords maps reserved lexemes to their token kind. Primitive type names
// are a sub-kind of keyword, identified separately by IsPrimitiveType.
var Keywords = map[string]Kind{
	"fn":       Fn,
	"return":   Return,
	"if":       If,
	"else":     Else,
	"while":    While,
	"break":    Break,
	"continue": Continue,
	"struct":   Struct,
	"import":   Import,
	"true":     Bool,
	"false":    Bool,
	"null":     Null,
	"i8":       I8,
	"i16":      I16,
	"i32":      I32,
	"i64":      I64,
	"u0":       U0,
	"u8":       U8,
	"u16":      U16,
	"u32":      U32,
	"u64":      U64,
	"f32":      F32,
	"f64":      F64,
	"bool":     BoolType,
	"str":      Str,
	"void":     Void,
}

// IsPrimitiveType reports whether k names one of the primitive type
// keywords.
func IsPrimitiveType(k Kind) bool {
	switch k {
	case I8, I16, I32, I64, U0, U8, U16, U32, U64, F32, F64, BoolType, Str, Void:
		return true
	default:
		return false
	}
}

// Token is one lexical unit: (kind, lexeme, range).
type Token struct {
	Kind   Kind
	Lexeme string
	Range  position.Range
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Lexeme, t.Range)
}
