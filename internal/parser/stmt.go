package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/token"
	"github.com/tarik-lang/tarikc/internal/types"
)

// parseStatement dispatches on the leading token
// statement-dispatch table. It never returns nil except at end of input.
func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.EOF:
		return nil
	case token.Semicolon:
		p.advance()
		return p.parseStatement()
	case token.Fn:
		return p.parseFunc()
	case token.Return:
		return p.parseReturn()
	case token.If:
		return p.parseIf()
	case token.Else:
		return p.parseElse()
	case token.While:
		return p.parseWhile()
	case token.Break:
		tok := p.cur
		p.advance()
		p.expect(token.Semicolon)
		return &ast.BreakStmt{Rng: tok.Range}
	case token.Continue:
		tok := p.cur
		p.advance()
		p.expect(token.Semicolon)
		return &ast.ContinueStmt{Rng: tok.Range}
	case token.LBrace:
		return p.parseBlock()
	case token.Struct:
		return p.parseStruct()
	case token.Import:
		return p.parseImport()
	}

	// Type-starting statement: `Type name;` is a variable declaration;
	// anything else falls through to an expression statement. The probe
	// fully rolls back regardless of outcome.
	if p.cur.Kind == token.Identifier || p.cur.Kind == token.Star || p.cur.Kind == token.DoubleColon || token.IsPrimitiveType(p.cur.Kind) {
		if ty, ok := p.looksLikeVarDecl(); ok {
			start := p.cur.Range
			p.tryParseType() // re-consume for real, discarding the probe's result
			name := p.expect(token.Identifier)
			p.expect(token.Semicolon)
			return &ast.VarDeclStmt{Rng: start.Cover(name.Range), Type: ty, Name: name.Lexeme}
		}
	}

	start := p.cur.Range
	expr := p.ParseExpression(Lowest)
	end := p.cur.Range
	p.expect(token.Semicolon)
	return &ast.ExprStmt{Rng: start.Cover(end), Expr: expr}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Range
	p.expect(token.LBrace)
	b := &ast.Block{Rng: start}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		b.Stmts = append(b.Stmts, p.parseStatement())
	}
	end := p.cur.Range
	p.expect(token.RBrace)
	b.Rng = start.Cover(end)
	return b
}

func (p *Parser) parseReturn() *ast.ReturnStmt {
	start := p.cur.Range
	p.advance()
	var val ast.Expr
	if !p.at(token.Semicolon) {
		val = p.ParseExpression(Lowest)
	}
	end := p.cur.Range
	p.expect(token.Semicolon)
	rng := start.Cover(end)
	if val != nil {
		rng = rng.Cover(val.Range())
	}
	return &ast.ReturnStmt{Rng: rng, Value: val}
}

func (p *Parser) parseIf() *ast.IfStmt {
	start := p.cur.Range
	p.advance()
	cond := p.ParseExpression(Lowest)
	body := p.parseBlock()
	stmt := &ast.IfStmt{Rng: start.Cover(body.Rng), Condition: cond, Body: body}
	if p.at(token.Else) {
		stmt.Else = p.parseElse()
		stmt.Rng = stmt.Rng.Cover(stmt.Else.Rng)
	}
	return stmt
}

func (p *Parser) parseElse() *ast.ElseStmt {
	start := p.cur.Range
	p.advance()
	body := p.parseBlock()
	return &ast.ElseStmt{Rng: start.Cover(body.Rng), Body: body}
}

func (p *Parser) parseWhile() *ast.WhileStmt {
	start := p.cur.Range
	p.advance()
	cond := p.ParseExpression(Lowest)
	body := p.parseBlock()
	return &ast.WhileStmt{Rng: start.Cover(body.Rng), Condition: cond, Body: body}
}

// parseFunc handles both free functions and struct member functions:
// `fn [Type .] name(args) ReturnType { block }`, with an optional trailing
// `...` marking a variadic parameter list and an optional `{` meaning the
// return type was omitted (defaults to void)
func (p *Parser) parseFunc() *ast.FuncStmt {
	start := p.cur.Range
	p.advance() // 'fn'

	var memberOf *types.Type
	name := ""

	if ty, ok := p.tryParseType(); ok {
		if p.at(token.Dot) {
			p.advance()
			nameTok := p.expect(token.Identifier)
			name = nameTok.Lexeme
			tyCopy := ty
			memberOf = &tyCopy
		} else {
			// Speculative type was actually the function name.
			name = ty.Render()
		}
	} else {
		nameTok := p.expect(token.Identifier)
		name = nameTok.Lexeme
	}

	p.expect(token.LParen)

	var args []*ast.VarDeclStmt
	varArg := false

	if memberOf != nil && p.at(token.Identifier) && p.cur.Lexeme == "this" {
		thisTok := p.cur
		p.advance()
		args = append(args, &ast.VarDeclStmt{Rng: thisTok.Range, Type: *memberOf, Name: "this"})
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}

	for !p.at(token.RParen) && !p.at(token.EOF) {
		if p.at(token.Ellipsis) {
			varArg = true
			p.advance()
			break
		}
		argType, ok := p.tryParseType()
		p.bucket.IAssert(ok, p.cur.Range, "expected type name")
		argName := p.expect(token.Identifier)
		args = append(args, &ast.VarDeclStmt{Rng: argName.Range, Type: argType, Name: argName.Lexeme})
		if !p.at(token.RParen) {
			p.expect(token.Comma)
		}
	}
	p.expect(token.RParen)

	retType := types.Void_()
	if !p.at(token.LBrace) && !p.at(token.Semicolon) {
		ty, ok := p.tryParseType()
		p.bucket.IAssert(ok, p.cur.Range, "expected type name")
		retType = ty
	}

	var body *ast.Block
	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		p.expect(token.Semicolon)
	}

	fn := &ast.FuncStmt{Rng: start, Name: name, ReturnType: retType, Arguments: args, VarArg: varArg, Body: body, MemberOf: memberOf}
	return fn
}

func (p *Parser) parseStruct() *ast.StructStmt {
	start := p.cur.Range
	p.advance()
	name := p.expect(token.Identifier)
	p.expect(token.LBrace)

	var members []*ast.VarDeclStmt
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		ty, ok := p.tryParseType()
		p.bucket.IAssert(ok, p.cur.Range, "expected type name")
		memberName := p.expect(token.Identifier)
		members = append(members, &ast.VarDeclStmt{Rng: memberName.Range, Type: ty, Name: memberName.Lexeme})
		p.expect(token.Semicolon)
	}
	end := p.cur.Range
	p.expect(token.RBrace)
	return &ast.StructStmt{Rng: start.Cover(end), Name: name.Lexeme, Members: members}
}

// parseImport handles `import a.b.c;`: resolves the dotted path against
// the working directory and then each configured search path, parses the
// referenced file whole the first time it's reached in this compilation,
// and wraps its statements in one ImportStmt per segment, innermost
// (last segment) first. A path already imported earlier in the same
// parse contributes an empty body; a path that can't be found is a
// single error at the import's range.
func (p *Parser) parseImport() *ast.ImportStmt {
	start := p.cur.Range
	p.advance()
	first := p.expect(token.Identifier)
	segments := []string{first.Lexeme}
	end := first.Range
	for p.at(token.Dot) {
		p.advance()
		part := p.expect(token.Identifier)
		segments = append(segments, part.Lexeme)
		end = part.Range
	}
	rng := start.Cover(end)
	p.expect(token.Semicolon)

	var body []ast.Stmt
	if found, ok := findImport(segments, p.searchPaths); ok {
		abs, err := filepath.Abs(found)
		if err == nil && !p.imported.seen[abs] {
			p.imported.seen[abs] = true
			if src, rerr := os.ReadFile(found); rerr == nil {
				sub := New(found, string(src), p.bucket)
				sub.searchPaths = p.searchPaths
				sub.imported = p.imported
				body = parseTopLevelStmts(sub)
			} else {
				p.bucket.Error(rng, "tried to import %q, but could not read it: %v", found, rerr)
			}
		}
	} else {
		p.bucket.Error(rng, "tried to import %q, but the file can't be found", strings.Join(segments, "."))
	}

	var node *ast.ImportStmt
	for i := len(segments) - 1; i >= 0; i-- {
		stmts := body
		if node != nil {
			stmts = []ast.Stmt{node}
		}
		node = &ast.ImportStmt{Rng: rng, Name: segments[i], Body: stmts}
	}
	return node
}

// findImport resolves dotted segments to a file path: a/b/c.tk checked
// against the working directory first, then each search path in order.
func findImport(segments []string, searchPaths []string) (string, bool) {
	rel := filepath.Join(segments...) + ".tk"
	if _, err := os.Stat(rel); err == nil {
		return rel, true
	}
	for _, sp := range searchPaths {
		candidate := filepath.Join(sp, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}
