package sema

import (
	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/tlib"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

// StructInfo is a fully registered structure: its resolved member list in
// declaration order, keyed by its canonical path.
type StructInfo struct {
	Path    path.Path
	Origin  position.Range
	Members []*typedast.Variable
}

func (si *StructInfo) MemberIndex(name string) int {
	for i, m := range si.Members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// Program is the declaration table built by the pre-scan pass: every user
// function and structure, registered under its module
// path before any function body is verified: declare everything first,
// then verify bodies against the shared table.
type Program struct {
	Funcs   map[string]*typedast.FuncSignature
	Structs map[string]*StructInfo
	// origins records where each declaration first appeared, for
	// redefinition diagnostics.
	origins map[string]position.Range
	// funcOrigins records where each function key was declared, for
	// ambiguous-call diagnostics that need to point at both candidates.
	funcOrigins map[string]position.Range
}

func NewProgram() *Program {
	return &Program{
		Funcs:       map[string]*typedast.FuncSignature{},
		Structs:     map[string]*StructInfo{},
		origins:     map[string]position.Range{},
		funcOrigins: map[string]position.Range{},
	}
}

// DeclareStruct registers a structure under modPath with its members'
// types as written. A redefinition is reported when another struct is
// already registered under the same key; functions are tracked
// separately, so a function with the same path is not reported here.
func (p *Program) DeclareStruct(modPath path.Path, s *ast.StructStmt, bucket *position.Bucket) *StructInfo {
	key := modPath.Append(s.Name).Key()
	if prev, ok := p.origins[key]; ok {
		bucket.Error(s.Rng, "redefinition of %q", s.Name).Note(prev, "previous definition here")
		return p.Structs[key]
	}
	info := &StructInfo{Path: modPath.Append(s.Name), Origin: s.Rng}
	for _, m := range s.Members {
		info.Members = append(info.Members, &typedast.Variable{Name: m.Name, Type: m.Type, Origin: m.Rng})
	}
	p.Structs[key] = info
	p.origins[key] = s.Rng
	return info
}

// DeclareFunc registers a function signature. A second FuncDeclStmt with
// the same signature is not a redefinition; repeated forward declarations
// are allowed. A second FuncDefStmt (one carrying a body) is a redefinition.
func (p *Program) DeclareFunc(modPath path.Path, f *ast.FuncStmt, bucket *position.Bucket) {
	key := funcKey(modPath, f)
	sig := &typedast.FuncSignature{Name: f.Name, ReturnType: f.ReturnType, VarArg: f.VarArg}
	for _, a := range f.Arguments {
		sig.Params = append(sig.Params, a.Type)
	}
	if prev, ok := p.Funcs[key]; ok && f.Body != nil {
		if prevOrigin, ok := p.origins[key+"#def"]; ok {
			bucket.Error(f.Rng, "redefinition of %q", f.Name).Note(prevOrigin, "previous definition here")
			return
		}
		_ = prev
	}
	p.Funcs[key] = sig
	p.funcOrigins[key] = f.Rng
	if f.Body != nil {
		p.origins[key+"#def"] = f.Rng
	}
}

// FuncOrigin returns where the function registered under key was declared,
// for diagnostics that need to point at a specific candidate.
func (p *Program) FuncOrigin(key string) (position.Range, bool) {
	r, ok := p.funcOrigins[key]
	return r, ok
}

func funcKey(modPath path.Path, f *ast.FuncStmt) string {
	base := modPath.Append(f.Name).Key()
	if f.MemberOf != nil {
		base = f.MemberOf.Render() + "." + base
	}
	return base
}

// LookupFunc returns the function signature registered under key.
func (p *Program) LookupFunc(key string) (*typedast.FuncSignature, bool) {
	sig, ok := p.Funcs[key]
	return sig, ok
}

func (p *Program) LookupStruct(key string) (*StructInfo, bool) {
	info, ok := p.Structs[key]
	return info, ok
}

// ImportDecls seeds the declaration table with a library's exported
// surface, ahead of PreScan: this is what lets a function body reference
// a struct or function whose source was never part of this compilation
// unit, only its bundle. A bundle's nested ImportDecl entries register
// under the full paths their declarations already carry; the ImportDecl's
// own Prefix is not applied, and nothing needs to match this file's
// import statements.
func (p *Program) ImportDecls(decls []tlib.Decl) {
	for _, d := range decls {
		switch v := d.(type) {
		case *tlib.FuncDecl:
			key := v.Path.Key()
			p.Funcs[key] = &typedast.FuncSignature{
				Name:       v.Path.Last(),
				ReturnType: v.ReturnType,
				Params:     paramTypes(v.Params),
				VarArg:     v.VarArg,
			}
		case *tlib.StructDecl:
			key := v.Path.Key()
			info := &StructInfo{Path: v.Path}
			for _, m := range v.Members {
				info.Members = append(info.Members, &typedast.Variable{Name: m.Name, Type: m.Type})
			}
			p.Structs[key] = info
		case *tlib.ImportDecl:
			p.ImportDecls(v.Decls)
		}
	}
}

func paramTypes(params []tlib.Param) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// resolveType rewrites a user type's path to its canonical registered
// form and confirms the struct exists, reporting an unknown-type
// diagnostic otherwise.
func (p *Program) resolveType(t types.Type, bucket *position.Bucket) types.Type {
	if t.IsPrimitive() {
		return t
	}
	key := t.User().Key()
	if _, ok := p.Structs[key]; !ok {
		bucket.Error(t.Origin, "unknown type %q", t.Render())
	}
	return t
}
