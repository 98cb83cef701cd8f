// Package parser implements the Pratt expression parser and the
// statement-level recursive-descent driver: two token-kind-keyed tables
// (prefix and infix parselets) drive expression parsing; statements
// dispatch on their leading token.
package parser

import (
	"fmt"
	"path/filepath"

	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/lexer"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/token"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Precedence levels, low to high, matching the language's precedence
// ladder exactly:
// assignment, equality, compare, sum, product, prefix, call, name-concat.
type Precedence int

const (
	Lowest Precedence = iota
	Assignment
	Equality
	Compare
	Sum
	Product
	Prefix
	Call
	NameConcat
)

var precedences = map[token.Kind]Precedence{
	token.Assign:      Assignment,
	token.Eq:          Equality,
	token.Ne:          Equality,
	token.Lt:          Compare,
	token.Le:          Compare,
	token.Gt:          Compare,
	token.Ge:          Compare,
	token.Plus:        Sum,
	token.Minus:       Sum,
	token.Star:        Product,
	token.Slash:       Product,
	token.LParen:      Call,
	token.LBracket:    Call,
	token.Dot:         Call,
	token.DoubleColon: NameConcat,
}

type prefixParselet func(p *Parser) ast.Expr
type infixParselet func(p *Parser, left ast.Expr) ast.Expr

// Parser drives a single file's token stream into an *ast.File. It never
// panics: unexpected tokens are recorded into the Bucket and an
// ast.EmptyExpr sentinel stands in, so every call returns a usable tree
//.
type Parser struct {
	lex    *lexer.Lexer
	bucket *position.Bucket

	cur, peek token.Token

	prefixParselets map[token.Kind]prefixParselet
	infixParselets  map[token.Kind]infixParselet

	// searchPaths is consulted by parseImport after the working
	// directory, and imported is the set of absolute paths already
	// pulled in by this ParseFile call, shared by pointer across every
	// recursively constructed sub-parser for that call's lifetime so a
	// file imported from two places in the tree is only parsed once.
	searchPaths []string
	imported    *importSet
}

// importSet dedups import resolution within one ParseFile call: a file is
// parsed in full the first time anything imports it and contributes an
// empty body on every later import of the same absolute path.
type importSet struct {
	seen map[string]bool
}

func newImportSet() *importSet { return &importSet{seen: map[string]bool{}} }

// checkpoint captures enough parser state to roll back a speculative
// parse.
type checkpoint struct {
	lex  lexer.Checkpoint
	cur  token.Token
	peek token.Token
}

// New builds a parser over src, reporting positions under filename and
// recording diagnostics into bucket.
func New(filename, src string, bucket *position.Bucket) *Parser {
	p := &Parser{lex: lexer.New(filename, src), bucket: bucket, imported: newImportSet()}
	p.initParselets()
	p.advance()
	p.advance()
	return p
}

func (p *Parser) initParselets() {
	p.prefixParselets = map[token.Kind]prefixParselet{
		token.Identifier:      parseName,
		token.MacroIdentifier: parseMacroName,
		token.Integer:         parseInt,
		token.Real:            parseReal,
		token.String:          parseString,
		token.Bool:            parseBool,
		token.Minus:           parsePrefix(ast.PrefixNeg),
		token.Amp:             parsePrefix(ast.PrefixRef),
		token.Star:            parsePrefix(ast.PrefixDeref),
		token.Not:             parsePrefix(ast.PrefixNot),
		token.DoubleColon:     parseGlobalPrefix,
		token.LParen:          parseGroup,
		token.LBracket:        parseList,
	}
	// A primitive type keyword in expression position (a macro's type
	// argument, as in `as!(x, i64)`) becomes an ast.TypeExpr.
	typeExpr := func(p *Parser) ast.Expr {
		rng := p.cur.Range
		ty, _ := p.tryParseType()
		return &ast.TypeExpr{Rng: rng, Type: ty}
	}
	for _, k := range []token.Kind{token.I8, token.I16, token.I32, token.I64, token.U0, token.U8,
		token.U16, token.U32, token.U64, token.F32, token.F64, token.BoolType, token.Str, token.Void} {
		p.prefixParselets[k] = typeExpr
	}
	p.infixParselets = map[token.Kind]infixParselet{
		token.DoubleColon: parsePathInfix,
		token.Plus:        parseBinary(ast.Add),
		token.Minus:       parseBinary(ast.Sub),
		token.Star:        parseBinary(ast.Mul),
		token.Slash:       parseBinary(ast.Div),
		token.Eq:          parseBinary(ast.Eq),
		token.Ne:          parseBinary(ast.Ne),
		token.Lt:          parseBinary(ast.Lt),
		token.Gt:          parseBinary(ast.Gt),
		token.Le:          parseBinary(ast.Le),
		token.Ge:          parseBinary(ast.Ge),
		token.Dot:         parseMember,
		token.LParen:      parseCall,
		token.LBracket:    parseStructInit,
		token.Assign:      parseAssign,
	}
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) save() checkpoint {
	return checkpoint{lex: p.lex.Save(), cur: p.cur, peek: p.peek}
}

func (p *Parser) restore(c checkpoint) {
	p.lex.Restore(c.lex)
	p.cur, p.peek = c.cur, c.peek
}

func (p *Parser) curPrecedence() Precedence {
	if prec, ok := precedences[p.cur.Kind]; ok {
		return prec
	}
	return Lowest
}

func (p *Parser) expect(k token.Kind) token.Token {
	tok := p.cur
	p.bucket.IAssert(tok.Kind == k, tok.Range, "expected a %s found %q instead", k, tok.Lexeme)
	p.advance()
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }

// ParseFile parses a whole source file into a flat top-level statement
// list, resolving any `import` statement against the working directory
// and searchPaths in turn. It always terminates, even on malformed input.
func ParseFile(filename, src string, searchPaths []string, bucket *position.Bucket) *ast.File {
	p := New(filename, src, bucket)
	p.searchPaths = searchPaths
	if abs, err := filepath.Abs(filename); err == nil {
		p.imported.seen[abs] = true
	}
	start := p.cur.Range
	stmts := parseTopLevelStmts(p)
	return &ast.File{Rng: start.Cover(p.cur.Range), Name: filename, Stmts: stmts}
}

// parseTopLevelStmts drains p to EOF, collecting every top-level
// statement; shared between ParseFile and parseImport's recursive parse
// of an imported file.
func parseTopLevelStmts(p *Parser) []ast.Stmt {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

// ---- Expressions -------------------------------------------------------

// ParseExpression parses a single expression at the given minimum binding
// power, climbing the precedence ladder via the infix table (the core
// Pratt loop).
func (p *Parser) ParseExpression(min Precedence) ast.Expr {
	if p.at(token.EOF) {
		return &ast.EmptyExpr{Rng: p.cur.Range}
	}
	prefix, ok := p.prefixParselets[p.cur.Kind]
	if !ok {
		p.bucket.Error(p.cur.Range, "expected expression, found %q", p.cur.Lexeme)
		p.advance()
		return &ast.EmptyExpr{Rng: p.cur.Range}
	}
	left := prefix(p)

	for min < p.curPrecedence() {
		infix, ok := p.infixParselets[p.cur.Kind]
		if !ok {
			break
		}
		left = infix(p, left)
	}
	return left
}

func parseName(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.NameExpr{Rng: tok.Range, Name: tok.Lexeme}
}

func parseMacroName(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.NameExpr{Rng: tok.Range, Name: tok.Lexeme, Macro: true}
}

func parseInt(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	var v int64
	fmt.Sscanf(tok.Lexeme, "%d", &v)
	return &ast.IntExpr{Rng: tok.Range, Value: v}
}

func parseReal(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	var v float64
	fmt.Sscanf(tok.Lexeme, "%g", &v)
	return &ast.RealExpr{Rng: tok.Range, Value: v}
}

func parseString(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.StringExpr{Rng: tok.Range, Value: tok.Lexeme}
}

func parseBool(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	return &ast.BoolExpr{Rng: tok.Range, Value: tok.Lexeme == "true"}
}

func parsePrefix(op ast.PrefixOp) prefixParselet {
	return func(p *Parser) ast.Expr {
		tok := p.cur
		p.advance()
		operand := p.ParseExpression(Prefix)
		return &ast.PrefixExpr{Rng: tok.Range.Cover(operand.Range()), Op: op, Operand: operand}
	}
}

func parseGlobalPrefix(p *Parser) ast.Expr {
	tok := p.cur
	p.advance()
	// `::name` starts a path rooted at the global module; parseName (or a
	// nested `::` chain) supplies the rest and the infix path parselet
	// folds it together the same way as any other `::` chain.
	rest := p.ParseExpression(NameConcat)
	if name, ok := rest.(*ast.NameExpr); ok {
		return &ast.PathExpr{Rng: tok.Range.Cover(rest.Range()), Segments: []string{name.Name}, Global: true}
	}
	if pe, ok := rest.(*ast.PathExpr); ok {
		pe.Global = true
		pe.Rng = tok.Range.Cover(pe.Rng)
		return pe
	}
	return &ast.PrefixExpr{Rng: tok.Range.Cover(rest.Range()), Op: ast.PrefixGlobal, Operand: rest}
}

func parseGroup(p *Parser) ast.Expr {
	p.advance() // '('
	inner := p.ParseExpression(Lowest)
	p.expect(token.RParen)
	return inner
}

func parseList(p *Parser) ast.Expr {
	start := p.cur.Range
	p.advance() // '['
	var elems []ast.Expr
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		elems = append(elems, p.ParseExpression(Lowest))
		if !p.at(token.RBracket) {
			p.expect(token.Comma)
		}
	}
	end := p.cur.Range
	p.expect(token.RBracket)
	return &ast.ListExpr{Rng: start.Cover(end), Elements: elems}
}

func parseBinary(op ast.BinOp) infixParselet {
	return func(p *Parser, left ast.Expr) ast.Expr {
		prec := precedences[p.cur.Kind]
		p.advance()
		right := p.ParseExpression(prec)
		return &ast.BinaryExpr{Rng: left.Range().Cover(right.Range()), Op: op, Left: left, Right: right}
	}
}

func parsePathInfix(p *Parser, left ast.Expr) ast.Expr {
	p.advance() // '::'
	rightTok := p.expect(token.Identifier)
	switch l := left.(type) {
	case *ast.PathExpr:
		l.Segments = append(l.Segments, rightTok.Lexeme)
		l.Rng = l.Rng.Cover(rightTok.Range)
		return l
	case *ast.NameExpr:
		return &ast.PathExpr{Rng: l.Rng.Cover(rightTok.Range), Segments: []string{l.Name, rightTok.Lexeme}}
	default:
		p.bucket.Error(left.Range(), "left side of '::' must be a name or path")
		return left
	}
}

func parseMember(p *Parser, left ast.Expr) ast.Expr {
	p.advance() // '.'
	field := p.expect(token.Identifier)
	return &ast.MemberExpr{Rng: left.Range().Cover(field.Range), Object: left, Field: field.Lexeme}
}

func parseCall(p *Parser, left ast.Expr) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.at(token.RParen) && !p.at(token.EOF) {
		args = append(args, p.ParseExpression(Lowest))
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	end := p.cur.Range
	p.expect(token.RParen)
	return &ast.CallExpr{Rng: left.Range().Cover(end), Callee: left, Arguments: args}
}

func parseStructInit(p *Parser, left ast.Expr) ast.Expr {
	p.advance() // '['
	var fields []ast.Expr
	for !p.at(token.RBracket) && !p.at(token.EOF) {
		fields = append(fields, p.ParseExpression(Lowest))
		if !p.at(token.RBracket) {
			p.expect(token.Comma)
		}
	}
	end := p.cur.Range
	p.expect(token.RBracket)
	return &ast.StructInitExpr{Rng: left.Range().Cover(end), Type: left, Fields: fields}
}

func parseAssign(p *Parser, left ast.Expr) ast.Expr {
	p.advance() // '='
	// Assignment is right-associative: recurse at Assignment-1 so a
	// following '=' binds to the right operand rather than terminating it.
	right := p.ParseExpression(Assignment - 1)
	return &ast.AssignExpr{Rng: left.Range().Cover(right.Range()), Target: left, Value: right}
}

// ---- Types --------------------------------------------------------------

// tryParseType speculatively consumes a type expression, the
// `Type name` lookahead) without rolling back; callers that only want to
// probe should save/restore around the call themselves.
func (p *Parser) tryParseType() (types.Type, bool) {
	start := p.cur.Range
	global := false
	if p.at(token.DoubleColon) {
		global = true
		p.advance()
	}

	if token.IsPrimitiveType(p.cur.Kind) {
		prim := primitiveFromKind(p.cur.Kind)
		p.advance()
		level := p.consumeStars()
		return types.NewPrimitive(prim, level), true
	}

	if !p.at(token.Identifier) {
		return types.Type{}, false
	}

	segments := []string{p.cur.Lexeme}
	end := p.cur.Range
	p.advance()
	for p.at(token.DoubleColon) {
		p.advance()
		if !p.at(token.Identifier) {
			return types.Type{}, false
		}
		segments = append(segments, p.cur.Lexeme)
		end = p.cur.Range
		p.advance()
	}

	level := p.consumeStars()
	parts := segments
	if global {
		parts = append([]string{""}, parts...)
	}
	return types.NewUser(path.New(parts...), level, start.Cover(end)), true
}

func (p *Parser) consumeStars() int {
	level := 0
	for p.at(token.Star) {
		level++
		p.advance()
	}
	return level
}

// looksLikeVarDecl peeks (with full rollback) at whether the upcoming
// tokens form `Type name`, used to disambiguate a variable declaration
// statement from an expression statement.
func (p *Parser) looksLikeVarDecl() (types.Type, bool) {
	cp := p.save()
	ty, ok := p.tryParseType()
	if !ok || !p.at(token.Identifier) {
		p.restore(cp)
		return types.Type{}, false
	}
	p.restore(cp)
	return ty, true
}

func primitiveFromKind(k token.Kind) types.Primitive {
	switch k {
	case token.I8:
		return types.I8
	case token.I16:
		return types.I16
	case token.I32:
		return types.I32
	case token.I64:
		return types.I64
	case token.U0:
		return types.U0
	case token.U8:
		return types.U8
	case token.U16:
		return types.U16
	case token.U32:
		return types.U32
	case token.U64:
		return types.U64
	case token.F32:
		return types.F32
	case token.F64:
		return types.F64
	case token.BoolType:
		return types.Bool
	case token.Str:
		return types.Str
	default:
		return types.Void
	}
}
