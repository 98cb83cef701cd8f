package lifetime

import (
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/sema"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

// Edge records a borrow constraint: the lifetime it's filed under must
// not outlive Target, justified by the source range that introduced it.
type Edge struct {
	Target *Lifetime
	Origin position.Range
}

type trackedVar struct {
	name  string
	decl  *typedast.Variable
	state State
}

// Checker runs the lifetime pass one function at a time. relations
// accumulates every borrow edge seen in the function currently being
// checked; a lifetime with no outgoing edge is a bare local value, and
// tracing through zero or more edges to something static is what makes a
// return legal.
type Checker struct {
	bucket    *position.Bucket
	prog      *sema.Program
	stmtIndex int
	vars      []*trackedVar
	relations map[*Lifetime][]Edge
}

func NewChecker(bucket *position.Bucket, prog *sema.Program) *Checker {
	return &Checker{bucket: bucket, prog: prog}
}

// CheckFile runs the pass over every function body in file, including
// those nested in import statements. A struct constructor is checked only
// when it carries a body; the ones sema synthesizes have none.
func (c *Checker) CheckFile(file *typedast.File) {
	for _, stmt := range file.Stmts {
		switch s := stmt.(type) {
		case *typedast.ImportStmt:
			c.CheckFile(&typedast.File{Rng: s.Rng, Name: file.Name, Stmts: s.Body})
		case *typedast.FuncDefStmt:
			c.checkFunc(s)
		case *typedast.StructDefStmt:
			if s.Constructor != nil && s.Constructor.Body != nil {
				c.checkFunc(s.Constructor)
			}
		}
	}
}

func (c *Checker) checkFunc(f *typedast.FuncDefStmt) {
	c.vars = nil
	c.stmtIndex = 0
	c.relations = map[*Lifetime][]Edge{}

	for _, p := range f.Params {
		c.vars = append(c.vars, &trackedVar{name: p.Name, decl: p, state: c.newParamState(p.Type)})
	}
	if f.Body != nil {
		c.checkScope(f.Body)
	}
}

func (c *Checker) declare(v *typedast.Variable) *trackedVar {
	tv := &trackedVar{name: v.Name, decl: v, state: c.newState(v.Type, c.stmtIndex)}
	c.vars = append(c.vars, tv)
	return tv
}

func (c *Checker) newState(ty types.Type, at int) State {
	if ty.IsPrimitive() || ty.PointerLevel > 0 {
		return NewPrimitiveState(at)
	}
	info, ok := c.prog.LookupStruct(ty.User().Key())
	if !ok {
		return NewPrimitiveState(at)
	}
	var names []string
	var children []State
	for _, m := range info.Members {
		names = append(names, m.Name)
		children = append(children, c.newState(m.Type, at))
	}
	return NewCompoundState(at, names, children)
}

// newParamState mirrors newState but seeds every leaf as caller-owned: a
// parameter's lifetime is guaranteed for the call's duration regardless of
// where inside the function body it's read or re-borrowed.
func (c *Checker) newParamState(ty types.Type) State {
	if ty.IsPrimitive() || ty.PointerLevel > 0 {
		return NewPrimitiveStateStatic()
	}
	info, ok := c.prog.LookupStruct(ty.User().Key())
	if !ok {
		return NewPrimitiveStateStatic()
	}
	var names []string
	var children []State
	for _, m := range info.Members {
		names = append(names, m.Name)
		children = append(children, c.newParamState(m.Type))
	}
	return NewCompoundStateStatic(names, children)
}

func (c *Checker) lookupVar(name string) (*trackedVar, bool) {
	for i := len(c.vars) - 1; i >= 0; i-- {
		if c.vars[i].name == name {
			return c.vars[i], true
		}
	}
	return nil, false
}

func (c *Checker) relate(from, to *Lifetime, origin position.Range) {
	c.relations[from] = append(c.relations[from], Edge{Target: to, Origin: origin})
}

// checkScope walks a block's statements in order, then kills every local
// declared directly inside it at the statement the block ends on.
func (c *Checker) checkScope(block *typedast.Block) {
	oldCount := len(c.vars)
	for _, st := range block.Stmts {
		c.checkStmt(st)
	}
	at := c.stmtIndex
	for _, tv := range c.vars[oldCount:] {
		tv.state.Kill(at)
	}
	c.vars = c.vars[:oldCount]
}

func (c *Checker) checkStmt(stmt typedast.Stmt) {
	c.stmtIndex++
	at := c.stmtIndex
	switch s := stmt.(type) {
	case *typedast.VarDeclStmt:
		c.declare(s.Var)
	case *typedast.ExprStmt:
		c.checkExpr(s.Expr, at)
	case *typedast.Block:
		c.checkScope(s)
	case *typedast.IfStmt:
		c.checkIf(s, at)
	case *typedast.WhileStmt:
		c.checkWhile(s, at)
	case *typedast.ReturnStmt:
		c.checkReturn(s, at)
	}
}

// checkIf runs the then/else bodies against independent copies of the
// pre-branch variable state, then merges them back: each variable's
// lifetime takes the later of the two branches' Death and the earlier of
// their LastDeath, since only one branch actually executes.
func (c *Checker) checkIf(s *typedast.IfStmt, at int) {
	c.checkExpr(s.Condition, at)
	base := c.cloneVars()

	c.checkScope(s.Body)
	thenVars := c.vars

	c.vars = cloneTrackedVars(base)
	if s.Else != nil {
		c.checkScope(s.Else.Body)
	}
	elseVars := c.vars

	for i := range thenVars {
		mergeLifetime(thenVars[i].state.Lifetime(), elseVars[i].state.Lifetime())
	}
	c.vars = thenVars
}

// checkWhile re-enters the body until no tracked variable's lifetime
// endpoints change, bounded so a pathological program can't loop forever
// here; real convergence happens well inside the bound for the
// monotonically-widening endpoints the body can produce.
func (c *Checker) checkWhile(s *typedast.WhileStmt, at int) {
	const maxIterations = 16
	for i := 0; i < maxIterations; i++ {
		c.checkExpr(s.Condition, at)
		before := snapshotLifetimes(c.vars)
		c.checkScope(s.Body)
		if lifetimesEqual(before, snapshotLifetimes(c.vars)) {
			break
		}
	}
}

func (c *Checker) checkReturn(s *typedast.ReturnStmt, at int) {
	if s.Value == nil {
		return
	}
	lt := c.checkExpr(s.Value, at)
	if lt == nil || lt.Static || s.Value.Type().PointerLevel == 0 {
		return
	}
	if escapes, origin := c.escapesLocal(lt, map[*Lifetime]bool{}); escapes {
		err := c.bucket.Error(s.Rng, "returned value does not outlive the function")
		if origin.IsValid() {
			err.Note(origin, "borrowed here")
		}
	}
}

// escapesLocal walks the relation graph from lt looking for a dead end
// that isn't static: that dead end is a local's own address, so
// returning anything that traces back to it returns a dangling pointer.
func (c *Checker) escapesLocal(lt *Lifetime, visited map[*Lifetime]bool) (bool, position.Range) {
	if visited[lt] {
		return false, position.Range{}
	}
	visited[lt] = true
	edges := c.relations[lt]
	if len(edges) == 0 {
		return !lt.Static, position.Range{}
	}
	for _, e := range edges {
		if e.Target.Static {
			continue
		}
		if escapes, origin := c.escapesLocal(e.Target, visited); escapes {
			if !origin.IsValid() {
				origin = e.Origin
			}
			return true, origin
		}
	}
	return false, position.Range{}
}

// checkExpr walks e for its use/assign/kill/move effects and returns the
// lifetime of the value it produces (Static for anything that isn't a
// borrow chasing back to a local).
func (c *Checker) checkExpr(e typedast.Expr, at int) *Lifetime {
	switch ex := e.(type) {
	case *typedast.VariableExpr:
		tv, ok := c.lookupVar(ex.Var.Name)
		if !ok {
			c.bucket.Error(ex.Rng, "undefined variable %q", ex.Var.Name)
			return StaticLifetime()
		}
		tv.state.Used(at)
		// The declaration-level lifetime is what relate() keys borrow
		// edges against, so it's what has to come back here: a clone
		// from CurrentContinuous would be a fresh pointer the relation
		// graph has never heard of.
		return tv.state.Lifetime()
	case *typedast.PrefixExpr:
		return c.checkPrefix(ex, at)
	case *typedast.BinaryExpr:
		c.checkExpr(ex.Left, at)
		c.checkExpr(ex.Right, at)
		return StaticLifetime()
	case *typedast.MemberExpr:
		return c.checkExpr(ex.Object, at)
	case *typedast.AssignExpr:
		return c.checkAssign(ex, at)
	case *typedast.CastExpr:
		return c.checkExpr(ex.Expression, at)
	case *typedast.CallExpr:
		for _, arg := range ex.Arguments {
			c.checkExpr(arg, at)
		}
		return StaticLifetime()
	case *typedast.StructInitExpr:
		for _, f := range ex.Fields {
			c.checkExpr(f, at)
		}
		return StaticLifetime()
	default:
		return StaticLifetime()
	}
}

func (c *Checker) checkPrefix(ex *typedast.PrefixExpr, at int) *Lifetime {
	switch ex.Op {
	case typedast.PrefixRef:
		referent := c.checkExpr(ex.Operand, at)
		borrow := NewLifetime(at)
		c.relate(borrow, referent, ex.Rng)
		return borrow
	case typedast.PrefixDeref:
		return c.checkExpr(ex.Operand, at)
	default:
		c.checkExpr(ex.Operand, at)
		return StaticLifetime()
	}
}

func (c *Checker) checkAssign(ex *typedast.AssignExpr, at int) *Lifetime {
	valueLt := c.checkExpr(ex.Value, at)
	if name := rootVariable(ex.Target); name != "" {
		if tv, ok := c.lookupVar(name); ok {
			tv.state.Assigned(at)
			if ex.Target.Type().PointerLevel > 0 {
				c.relate(tv.state.Lifetime(), valueLt, ex.Rng)
			}
		}
	}
	return StaticLifetime()
}

func rootVariable(e typedast.Expr) string {
	switch ex := e.(type) {
	case *typedast.VariableExpr:
		return ex.Var.Name
	case *typedast.MemberExpr:
		return rootVariable(ex.Object)
	default:
		return ""
	}
}

func (c *Checker) cloneVars() []*trackedVar {
	return cloneTrackedVars(c.vars)
}

func cloneTrackedVars(vars []*trackedVar) []*trackedVar {
	out := make([]*trackedVar, len(vars))
	for i, tv := range vars {
		out[i] = &trackedVar{name: tv.name, decl: tv.decl, state: tv.state.Clone()}
	}
	return out
}

func mergeLifetime(a, b *Lifetime) {
	if b.Death > a.Death {
		a.Death = b.Death
	}
	if b.LastDeath < a.LastDeath {
		a.LastDeath = b.LastDeath
	}
}

func snapshotLifetimes(vars []*trackedVar) []Lifetime {
	out := make([]Lifetime, len(vars))
	for i, tv := range vars {
		out[i] = *tv.state.Lifetime()
	}
	return out
}

func lifetimesEqual(a, b []Lifetime) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
