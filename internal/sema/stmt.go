package sema

import (
	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/typedast"
)

func (a *Analyser) verifyStmt(stmt ast.Stmt) typedast.Stmt {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		decl := a.declareVar(s.Name, s.Type, s.Rng)
		return &typedast.VarDeclStmt{Rng: s.Rng, Var: decl}
	case *ast.ExprStmt:
		return &typedast.ExprStmt{Rng: s.Rng, Expr: a.resolveExpr(s.Expr, modeRead)}
	case *ast.Block:
		return a.verifyScope(s, false)
	case *ast.IfStmt:
		return a.verifyIf(s)
	case *ast.WhileStmt:
		return a.verifyWhile(s)
	case *ast.ReturnStmt:
		return a.verifyReturn(s)
	case *ast.BreakStmt:
		if a.loop == 0 {
			a.bucket.Error(s.Rng, "break outside of a loop")
		}
		return &typedast.BreakStmt{Rng: s.Rng}
	case *ast.ContinueStmt:
		if a.loop == 0 {
			a.bucket.Error(s.Rng, "continue outside of a loop")
		}
		return &typedast.ContinueStmt{Rng: s.Rng}
	case *ast.StructStmt:
		a.bucket.Error(s.Rng, "structures may only be declared at file scope")
		return &typedast.ExprStmt{Rng: s.Rng}
	case *ast.FuncStmt:
		a.bucket.Error(s.Rng, "functions may only be declared at file scope")
		return &typedast.ExprStmt{Rng: s.Rng}
	default:
		a.bucket.Error(stmt.Range(), "unsupported statement")
		return &typedast.ExprStmt{Rng: stmt.Range()}
	}
}

func (a *Analyser) verifyIf(s *ast.IfStmt) *typedast.IfStmt {
	cond := a.resolveExpr(s.Condition, modeRead)
	a.bucket.IAssert(cond.Type().IsBool(), s.Condition.Range(), "if condition must be bool, got %s", cond.Type().Render())
	body := a.verifyScope(s.Body, true)
	out := &typedast.IfStmt{Rng: s.Rng, Condition: cond, Body: body}
	if s.Else != nil {
		elseBody := a.verifyScope(s.Else.Body, true)
		out.Else = &typedast.ElseStmt{Rng: s.Else.Rng, Body: elseBody}
	}
	return out
}

func (a *Analyser) verifyWhile(s *ast.WhileStmt) *typedast.WhileStmt {
	cond := a.resolveExpr(s.Condition, modeRead)
	a.bucket.IAssert(cond.Type().IsBool(), s.Condition.Range(), "while condition must be bool, got %s", cond.Type().Render())
	a.loop++
	body := a.verifyScope(s.Body, true)
	a.loop--
	return &typedast.WhileStmt{Rng: s.Rng, Condition: cond, Body: body}
}

func (a *Analyser) verifyReturn(s *ast.ReturnStmt) *typedast.ReturnStmt {
	if s.Value == nil {
		a.bucket.IAssert(a.retType.IsVoid(), s.Rng, "missing return value, expected %s", a.retType.Render())
		return &typedast.ReturnStmt{Rng: s.Rng}
	}
	mode := modeRead
	if !a.retType.IsCopyable() {
		mode = modeMoveSource
	}
	val := a.resolveExpr(s.Value, mode)
	a.bucket.IAssert(a.retType.IsAssignableFrom(val.Type()), s.Value.Range(),
		"cannot return %s as %s", val.Type().Render(), a.retType.Render())
	return &typedast.ReturnStmt{Rng: s.Rng, Value: val}
}
