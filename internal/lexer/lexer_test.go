package lexer

import (
	"testing"

	"github.com/tarik-lang/tarikc/internal/token"
)

func TestBasicTokens(t *testing.T) {
	input := `fn main() void { return; }`

	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.Fn, "fn"},
		{token.Identifier, "main"},
		{token.LParen, "("},
		{token.RParen, ")"},
		{token.Void, "void"},
		{token.LBrace, "{"},
		{token.Return, "return"},
		{token.Semicolon, ";"},
		{token.RBrace, "}"},
		{token.EOF, ""},
	}

	l := New("t.tk", input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.kind, tok.Kind)
		}
		if tok.Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lexeme, tok.Lexeme)
		}
	}
}

// TestOperatorDisambiguation is a worked example.
func TestOperatorDisambiguation(t *testing.T) {
	input := "hello under_score test4 4test ( ) +-===- > fn i32 42 12.34 . ... \"a string\"# comment\nback"

	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.Identifier, "hello"},
		{token.Identifier, "under_score"},
		{token.Identifier, "test4"},
		{token.Integer, "4"},
		{token.Identifier, "test"},
		{token.LParen, "("},
		{token.RParen, ")"},
		{token.Plus, "+"},
		{token.Minus, "-"},
		{token.Eq, "=="},
		{token.Assign, "="},
		{token.Minus, "-"},
		{token.Gt, ">"},
		{token.Fn, "fn"},
		{token.I32, "i32"},
		{token.Integer, "42"},
		{token.Real, "12.34"},
		{token.Dot, "."},
		{token.Ellipsis, "..."},
		{token.String, "a string"},
		{token.Identifier, "back"},
		{token.EOF, ""},
	}

	l := New("t.tk", input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.Kind != tt.kind || tok.Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - expected=%s(%q), got=%s(%q)", i, tt.kind, tt.lexeme, tok.Kind, tok.Lexeme)
		}
	}
}

func TestMacroIdentifier(t *testing.T) {
	l := New("t.tk", "as!(x, i32) extern!")
	tok := l.Next()
	if tok.Kind != token.MacroIdentifier || tok.Lexeme != "as!" {
		t.Fatalf("expected macro-identifier as!, got %s(%q)", tok.Kind, tok.Lexeme)
	}
}

func TestTrailingDotIsSeparate(t *testing.T) {
	l := New("t.tk", "3.")
	first := l.Next()
	if first.Kind != token.Integer || first.Lexeme != "3" {
		t.Fatalf("expected integer 3, got %s(%q)", first.Kind, first.Lexeme)
	}
	second := l.Next()
	if second.Kind != token.Dot {
		t.Fatalf("expected trailing dot, got %s(%q)", second.Kind, second.Lexeme)
	}
}

func TestCheckpointRollbackNotObservable(t *testing.T) {
	l := New("t.tk", "a b c")
	first := l.Next()
	cp := l.Save()
	_ = l.Next() // b
	l.Restore(cp)
	second := l.Next()
	if first.Lexeme != "a" || second.Lexeme != "b" {
		t.Fatalf("rollback leaked state: got %q then %q", first.Lexeme, second.Lexeme)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	l := New("t.tk", "a b c")
	peeked := l.Peek(2)
	if len(peeked) != 2 || peeked[0].Lexeme != "a" || peeked[1].Lexeme != "b" {
		t.Fatalf("unexpected peek result: %v", peeked)
	}
	next := l.Next()
	if next.Lexeme != "a" {
		t.Fatalf("Peek was position-observable: expected a, got %q", next.Lexeme)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("t.tk", `"unterminated`)
	tok := l.Next()
	if tok.Kind != token.Error {
		t.Fatalf("expected error token for unterminated string, got %s", tok.Kind)
	}
}

func TestStringEscapes(t *testing.T) {
	l := New("t.tk", `"a\nb\tc\\d"`)
	tok := l.Next()
	if tok.Kind != token.String {
		t.Fatalf("expected string, got %s", tok.Kind)
	}
	want := "a\nb\tc\\d"
	if tok.Lexeme != want {
		t.Fatalf("expected %q, got %q", want, tok.Lexeme)
	}
}

func TestCommentSkipped(t *testing.T) {
	l := New("t.tk", "a # this is a comment\nb")
	first := l.Next()
	second := l.Next()
	if first.Lexeme != "a" || second.Lexeme != "b" {
		t.Fatalf("comment not skipped: got %q, %q", first.Lexeme, second.Lexeme)
	}
}
