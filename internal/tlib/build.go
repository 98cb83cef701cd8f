package tlib

import (
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

// FromFile walks a fully analysed file's top-level statements and
// collects the declarations worth exporting: function declarations and
// definitions (by signature only, never a body) and struct definitions.
// Other statement kinds can't appear at file scope and are skipped.
func FromFile(file *typedast.File, modPath path.Path) []Decl {
	return fromStmts(file.Stmts, modPath)
}

// fromStmts is FromFile's recursive core: an ImportStmt contributes its
// own ImportDecl wrapping whatever its nested body exports, under the
// prefix its name pushed onto modPath.
func fromStmts(stmts []typedast.Stmt, modPath path.Path) []Decl {
	var decls []Decl
	for _, stmt := range stmts {
		if d := fromStmt(stmt, modPath); d != nil {
			decls = append(decls, d)
		}
	}
	return decls
}

func fromStmt(stmt typedast.Stmt, modPath path.Path) Decl {
	switch s := stmt.(type) {
	case *typedast.FuncDeclStmt:
		return &FuncDecl{
			Path:       modPath.Append(s.Name),
			ReturnType: s.ReturnType,
			Params:     paramsFromTypes(s.Params),
			VarArg:     s.VarArg,
		}
	case *typedast.FuncDefStmt:
		return &FuncDecl{
			Path:       modPath.Append(s.Name),
			ReturnType: s.ReturnType,
			Params:     paramsFromVars(s.Params),
			VarArg:     s.VarArg,
		}
	case *typedast.StructDefStmt:
		return &StructDecl{
			Path:    modPath.Append(s.Name),
			Members: paramsFromVars(s.Members),
		}
	case *typedast.ImportStmt:
		return &ImportDecl{
			Prefix: path.New(s.Name),
			Decls:  fromStmts(s.Body, modPath.Append(s.Name)),
		}
	default:
		return nil
	}
}

// paramsFromTypes handles a forward declaration's argument list, which
// the typed FuncDeclStmt keeps as types only: the exported names are left
// blank rather than invented.
func paramsFromTypes(argTypes []types.Type) []Param {
	params := make([]Param, len(argTypes))
	for i, t := range argTypes {
		params[i] = Param{Type: t}
	}
	return params
}

func paramsFromVars(vars []*typedast.Variable) []Param {
	params := make([]Param, len(vars))
	for i, v := range vars {
		params[i] = Param{Name: v.Name, Type: v.Type}
	}
	return params
}
