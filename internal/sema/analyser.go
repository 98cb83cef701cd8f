// Package sema implements semantic analysis: declaration registration,
// type checking, variable-state (definite-assignment/move) tracking, and
// built-in macro expansion, run as a two-pass declare-then-verify
// structure over the whole program.
package sema

import (
	"fmt"

	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

type accessMode int

const (
	modeRead accessMode = iota
	modeAssignTarget
	modeMoveSource
	modeMemberParent
)

// trackedVar pairs a source name with the state-tracker backing it.
// depth is the nesting level of the scope it was declared in, used to
// tell a same-scope redefinition from a shadowing cross-scope reuse.
type trackedVar struct {
	name  string
	v     Variable
	decl  *typedast.Variable
	depth int
}

// Analyser verifies a single file's statements against a shared
// Program-wide declaration table. One Analyser is created per file; the
// module path it carries is pushed/popped by import statements within
// that file.
type Analyser struct {
	bucket        *position.Bucket
	prog          *Program
	path          path.Path
	vars          []*trackedVar
	depth         int
	usedNames     map[string]int
	loop          int
	retType       types.Type
	externOrigins map[string]position.Range
}

// NewAnalyser ties a fresh per-file pass to a shared declaration table.
func NewAnalyser(prog *Program, bucket *position.Bucket) *Analyser {
	return &Analyser{bucket: bucket, prog: prog}
}

// PreScan registers every top-level struct and function in source order,
// without verifying bodies, so declarations are visible throughout the
// whole file regardless of where they appear in it. An ImportStmt pushes
// its name onto the module path for its nested body only; Go's value
// semantics on modPath pop it again on return from the recursive call.
func PreScan(prog *Program, file *ast.File, bucket *position.Bucket) {
	preScanStmts(prog, path.Global(), file.Stmts, bucket)
}

func preScanStmts(prog *Program, modPath path.Path, stmts []ast.Stmt, bucket *position.Bucket) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.ImportStmt:
			preScanStmts(prog, modPath.Append(s.Name), s.Body, bucket)
		case *ast.StructStmt:
			prog.DeclareStruct(modPath, s, bucket)
		case *ast.FuncStmt:
			prog.DeclareFunc(modPath, s, bucket)
		}
	}
}

// AnalyseFile verifies every statement of file against the already
// pre-scanned Program, returning the fully typed tree. A nested import's
// body is verified under the pushed module path and kept as a
// typedast.ImportStmt, so later passes (tlib.FromFile) can reproduce the
// nesting without re-walking the source.
func AnalyseFile(prog *Program, file *ast.File, bucket *position.Bucket) *typedast.File {
	a := NewAnalyser(prog, bucket)
	out := &typedast.File{Rng: file.Rng, Name: file.Name}
	out.Stmts = a.verifyTopLevelStmts(path.Global(), file.Stmts)
	return out
}

func (a *Analyser) verifyTopLevelStmts(modPath path.Path, stmts []ast.Stmt) []typedast.Stmt {
	var out []typedast.Stmt
	for _, stmt := range stmts {
		if imp, ok := stmt.(*ast.ImportStmt); ok {
			body := a.verifyTopLevelStmts(modPath.Append(imp.Name), imp.Body)
			out = append(out, &typedast.ImportStmt{Rng: imp.Rng, Name: imp.Name, Body: body})
			continue
		}
		a.path = modPath
		out = append(out, a.verifyTopLevel(stmt))
	}
	return out
}

func (a *Analyser) verifyTopLevel(stmt ast.Stmt) typedast.Stmt {
	switch s := stmt.(type) {
	case *ast.StructStmt:
		return a.verifyStruct(s)
	case *ast.FuncStmt:
		return a.verifyFunc(s)
	default:
		a.bucket.Error(stmt.Range(), "statement not allowed at file scope")
		return &typedast.ExprStmt{Rng: stmt.Range()}
	}
}

// verifyStruct emits the typed struct and synthesizes the `$constructor`
// function every structure gets: one parameter per member, returning the
// struct type. The constructor carries no body and is not entered in the
// function table, so a call by the struct's name does not reach it.
func (a *Analyser) verifyStruct(s *ast.StructStmt) *typedast.StructDefStmt {
	info, ok := a.prog.LookupStruct(a.path.Append(s.Name).Key())
	out := &typedast.StructDefStmt{Rng: s.Rng, Name: s.Name}
	if !ok {
		// PreScan registers every struct under this key, and a
		// redefinition keeps the first definition's entry.
		return out
	}
	params := make([]*typedast.Variable, len(info.Members))
	fields := make([]types.Type, len(info.Members))
	for i, m := range info.Members {
		out.Members = append(out.Members, m)
		params[i] = m
		fields[i] = m.Type
	}
	selfType := types.NewUser(info.Path, 0, s.Rng)
	out.Constructor = &typedast.FuncDefStmt{
		Rng:        s.Rng,
		Name:       "$constructor",
		ReturnType: selfType,
		Params:     params,
	}
	return out
}

// verifyFunc type-checks a function body under a fresh variable-state
// scope seeded with its parameters.
func (a *Analyser) verifyFunc(f *ast.FuncStmt) typedast.Stmt {
	if f.Body == nil {
		params := make([]types.Type, len(f.Arguments))
		for i, arg := range f.Arguments {
			params[i] = arg.Type
		}
		return &typedast.FuncDeclStmt{Rng: f.Rng, Name: f.Name, ReturnType: f.ReturnType, Params: params, VarArg: f.VarArg}
	}

	a.vars = nil
	a.depth = 0
	a.usedNames = nil
	a.retType = f.ReturnType

	var memberOf *types.Type
	if f.MemberOf != nil {
		memberOf = f.MemberOf
	}

	params := make([]*typedast.Variable, len(f.Arguments))
	for i, arg := range f.Arguments {
		decl := a.declareVar(arg.Name, arg.Type, arg.Rng)
		params[i] = decl
		// Every parameter, the `this` receiver included, holds the
		// caller's argument from the start of the body.
		a.vars[len(a.vars)-1].v.MakeDefinitelyDefined(arg.Rng)
	}

	body := a.verifyScope(f.Body, false)

	return &typedast.FuncDefStmt{
		Rng:        f.Rng,
		Name:       f.Name,
		ReturnType: f.ReturnType,
		Params:     params,
		VarArg:     f.VarArg,
		MemberOf:   memberOf,
		Body:       body,
	}
}

// declareVar creates the state tracker for a newly declared local,
// recursing into struct members when the type names a known structure.
// A redeclaration of a name still live in the current scope is an error;
// reuse of a name from an earlier, already-closed scope is allowed and
// renamed for flat storage rather than rejected.
func (a *Analyser) declareVar(name string, ty types.Type, origin position.Range) *typedast.Variable {
	if prev, ok := a.lookupVar(name); ok && prev.depth == a.depth {
		a.bucket.Error(origin, "redefinition of %q", name).Note(prev.decl.Origin, "previous definition here")
	}
	decl := &typedast.Variable{Name: a.renameForStorage(name), Type: ty, Origin: origin}
	a.vars = append(a.vars, &trackedVar{name: name, v: a.newVariable(ty), decl: decl, depth: a.depth})
	return decl
}

// renameForStorage appends a monotone numeric suffix to name the second
// and later time it's declared anywhere in the current function, so two
// shadowing locals with the same user-level name get distinct storage
// identifiers once scopes are flattened.
func (a *Analyser) renameForStorage(name string) string {
	if a.usedNames == nil {
		a.usedNames = map[string]int{}
	}
	n := a.usedNames[name]
	a.usedNames[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s$%d", name, n)
}

func (a *Analyser) newVariable(ty types.Type) Variable {
	if ty.IsPrimitive() || ty.PointerLevel > 0 {
		return NewPrimitiveVariable()
	}
	info, ok := a.prog.LookupStruct(ty.User().Key())
	if !ok {
		return NewPrimitiveVariable()
	}
	cv := &CompoundVariable{}
	for _, m := range info.Members {
		cv.Names = append(cv.Names, m.Name)
		cv.Children = append(cv.Children, a.newVariable(m.Type))
	}
	return cv
}

func (a *Analyser) lookupVar(name string) (*trackedVar, bool) {
	for i := len(a.vars) - 1; i >= 0; i-- {
		if a.vars[i].name == name {
			return a.vars[i], true
		}
	}
	return nil, false
}

// verifyScope implements the push-snapshot / verify / pop-and-join
// protocol for entering and leaving a block: conditional scopes
// (if/while/else bodies) OR-join the post-body state back with the
// pre-body snapshot, since the body may not execute; an unconditional
// plain `{ }` block always runs, so its post-body state simply replaces
// the snapshot.
func (a *Analyser) verifyScope(block *ast.Block, conditional bool) *typedast.Block {
	oldCount := len(a.vars)
	for _, tv := range a.vars {
		tv.v.PushSnapshot()
		if tv.v.Current().IsDefinitelyDefined() {
			tv.v.MakeDefinitelyRead(tv.decl.Origin)
		}
	}

	a.depth++
	out := &typedast.Block{Rng: block.Rng}
	for _, st := range block.Stmts {
		out.Stmts = append(out.Stmts, a.verifyStmt(st))
	}
	a.depth--

	a.vars = a.vars[:oldCount]
	for _, tv := range a.vars {
		tv.v.PopSnapshot(conditional)
	}
	return out
}
