// Package lexer turns source bytes into a token stream for the tarikc
// parser. It is a single pass over a seekable in-memory buffer with a free,
// unlimited checkpoint/rollback mechanism used by the parser for
// speculative type-parsing.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/token"
)

// escapeSet is the fixed set of characters accepted after a backslash
// inside a string literal.
var escapeSet = map[byte]byte{
	'?':  '?',
	'\\': '\\',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// operators is the longest-match table of multi-character operators; it is
// walked longest-prefix-first by scanOperator().
var operators = []struct {
	text string
	kind token.Kind
}{
	{"...", token.Ellipsis},
	{"::", token.DoubleColon},
	{"==", token.Eq},
	{"!=", token.Ne},
	{"<=", token.Le},
	{">=", token.Ge},
	{"->", token.Arrow},
	{"+", token.Plus},
	{"-", token.Minus},
	{"*", token.Star},
	{"/", token.Slash},
	{"=", token.Assign},
	{"<", token.Lt},
	{">", token.Gt},
	{"!", token.Not},
	{"&", token.Amp},
	{".", token.Dot},
	{",", token.Comma},
	{";", token.Semicolon},
	{"(", token.LParen},
	{")", token.RParen},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{":", token.Colon},
}

// Checkpoint is a free, unlimited save-point for speculative lexing. It is
// a plain value — taking one never touches the underlying buffer.
type Checkpoint struct {
	offset int
	line   int
	column int
}

// Lexer scans one source file.
type Lexer struct {
	filename string
	src      string
	offset   int
	line     int
	column   int
}

// New creates a lexer over src, reporting positions under filename.
func New(filename, src string) *Lexer {
	return &Lexer{filename: filename, src: src, offset: 0, line: 1, column: 1}
}

// Save takes a checkpoint of the current scan position.
func (l *Lexer) Save() Checkpoint {
	return Checkpoint{offset: l.offset, line: l.line, column: l.column}
}

// Restore rewinds the lexer to a previously saved checkpoint.
func (l *Lexer) Restore(c Checkpoint) {
	l.offset, l.line, l.column = c.offset, c.line, c.column
}

func (l *Lexer) atEnd() bool {
	return l.offset >= len(l.src)
}

func (l *Lexer) peekByte() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.offset]
}

func (l *Lexer) peekByteAt(n int) byte {
	if l.offset+n >= len(l.src) {
		return 0
	}
	return l.src[l.offset+n]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.offset]
	l.offset++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) pos() position.Position {
	return position.Position{Filename: l.filename, Line: l.line, Column: l.column, Offset: l.offset}
}

func (l *Lexer) rangeFrom(start position.Position, length int) position.Range {
	return position.Range{Filename: l.filename, Line: start.Line, Column: start.Column, Length: length}
}

// skipTrivia consumes whitespace and '#'-to-end-of-line comments between
// tokens; position is still tracked through them.
func (l *Lexer) skipTrivia() {
	for !l.atEnd() {
		switch l.peekByte() {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for !l.atEnd() && l.peekByte() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch >= 0x80
}

func isIdentCont(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// Next scans and returns the next token.
func (l *Lexer) Next() token.Token {
	l.skipTrivia()
	start := l.pos()

	if l.atEnd() {
		return token.Token{Kind: token.EOF, Range: l.rangeFrom(start, 0)}
	}

	ch := l.peekByte()

	switch {
	case ch == '"':
		return l.scanString(start)
	case isDigit(ch):
		return l.scanNumber(start)
	case isIdentStart(ch):
		return l.scanIdentifier(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) scanIdentifier(start position.Position) token.Token {
	begin := l.offset
	for !l.atEnd() {
		ch := l.peekByte()
		if ch >= 0x80 {
			r, size := utf8.DecodeRuneInString(l.src[l.offset:])
			if size == 0 || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
				break
			}
			for i := 0; i < size; i++ {
				l.advance()
			}
			continue
		}
		if !isIdentCont(ch) {
			break
		}
		l.advance()
	}
	lexeme := norm.NFC.String(l.src[begin:l.offset])

	// "name!" is a macro-identifier; the '!' is appended and the kind
	// changes, with no whitespace permitted between them.
	if l.peekByte() == '!' {
		l.advance()
		return token.Token{Kind: token.MacroIdentifier, Lexeme: lexeme + "!", Range: l.rangeFrom(start, l.offset-begin)}
	}

	kind := token.Identifier
	if k, ok := token.Keywords[lexeme]; ok {
		kind = k
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Range: l.rangeFrom(start, l.offset-begin)}
}

func (l *Lexer) scanNumber(start position.Position) token.Token {
	begin := l.offset
	for isDigit(l.peekByte()) {
		l.advance()
	}
	kind := token.Integer
	// A '.' inside a digit run promotes the token to a real literal
	// exactly once; a trailing '.' not followed by a digit is a separate
	// token.
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		kind = token.Real
		l.advance() // consume '.'
		for isDigit(l.peekByte()) {
			l.advance()
		}
	}
	lexeme := l.src[begin:l.offset]
	return token.Token{Kind: kind, Lexeme: lexeme, Range: l.rangeFrom(start, l.offset-begin)}
}

func (l *Lexer) scanString(start position.Position) token.Token {
	l.advance() // opening quote
	var b strings.Builder
	terminated := false
	for !l.atEnd() {
		ch := l.peekByte()
		if ch == '"' {
			l.advance()
			terminated = true
			break
		}
		if ch == '\\' {
			l.advance()
			if l.atEnd() {
				break
			}
			esc := l.advance()
			if mapped, ok := escapeSet[esc]; ok {
				b.WriteByte(mapped)
			} else {
				b.WriteByte(esc)
			}
			continue
		}
		b.WriteByte(l.advance())
	}
	length := l.offset - (start.Offset)
	if !terminated {
		return token.Token{Kind: token.Error, Lexeme: "unterminated string literal", Range: l.rangeFrom(start, length)}
	}
	return token.Token{Kind: token.String, Lexeme: b.String(), Range: l.rangeFrom(start, length)}
}

func (l *Lexer) scanOperator(start position.Position) token.Token {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			for range op.text {
				l.advance()
			}
			return token.Token{Kind: op.kind, Lexeme: op.text, Range: l.rangeFrom(start, len(op.text))}
		}
	}
	ch := l.advance()
	return token.Token{Kind: token.Error, Lexeme: string(ch), Range: l.rangeFrom(start, 1)}
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.offset+len(s) > len(l.src) {
		return false
	}
	return l.src[l.offset:l.offset+len(s)] == s
}

// Peek returns the next n tokens without consuming them, via a
// checkpoint/restore round trip, so calling Peek is never observable in
// subsequent Next calls.
func (l *Lexer) Peek(n int) []token.Token {
	cp := l.Save()
	defer l.Restore(cp)

	out := make([]token.Token, 0, n)
	for i := 0; i < n; i++ {
		tok := l.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}
