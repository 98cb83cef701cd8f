package sema

import (
	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

// primitiveKeywords maps primitive type names to their tags for
// exprAsType's NameExpr case. The lexer turns these names into keyword
// tokens, which the parser wraps in ast.TypeExpr, so a macro argument
// such as the `i32` in `as!(x, i32)` takes the TypeExpr case.
var primitiveKeywords = map[string]types.Primitive{
	"void": types.Void, "i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64,
	"f32": types.F32, "f64": types.F64, "bool": types.Bool, "str": types.Str,
}

// exprAsType reinterprets an already-parsed expression as a type, for
// macro arguments that are `type`-shaped rather than `expression`-shaped.
func (a *Analyser) exprAsType(e ast.Expr) (types.Type, bool) {
	switch ex := e.(type) {
	case *ast.TypeExpr:
		return ex.Type, true
	case *ast.NameExpr:
		if p, ok := primitiveKeywords[ex.Name]; ok {
			return types.NewPrimitive(p, 0), true
		}
		if _, ok := a.prog.LookupStruct(a.path.Append(ex.Name).Key()); ok {
			return types.NewUser(a.path.Append(ex.Name), 0, ex.Rng), true
		}
		if _, ok := a.prog.LookupStruct(path.Global().Append(ex.Name).Key()); ok {
			return types.NewUser(path.Global().Append(ex.Name), 0, ex.Rng), true
		}
	case *ast.PathExpr:
		p := ex.ToPath()
		if _, ok := a.prog.LookupStruct(p.Key()); ok {
			return types.NewUser(p, 0, ex.Rng), true
		}
	}
	return types.Type{}, false
}

// expandMacro expands the built-in macros (`as!`, `extern!` and
// `extern_var!`). When the call's callee is a member access,
// anyMemberReceiver prepends the receiver as the first argument; calls
// whose callee is the `parseMacroName`-derived ast.NameExpr keep their
// arguments as written.
func (a *Analyser) expandMacro(name *ast.NameExpr, call *ast.CallExpr) typedast.Expr {
	args := call.Arguments
	if mem, ok := anyMemberReceiver(call); ok {
		args = append([]ast.Expr{mem}, args...)
	}
	switch name.Name {
	case "as!":
		return a.expandCast(call, args)
	case "extern!":
		return a.expandExtern(call, args, false)
	case "extern_var!":
		return a.expandExtern(call, args, true)
	default:
		a.bucket.Error(call.Rng, "unknown macro %q", name.Name)
		return &typedast.NameExpr{Rng: call.Rng, Typ: types.Void_()}
	}
}

// anyMemberReceiver never actually fires for `as!`/`extern!` themselves
// (they're always called as bare names, never as `x.as!(T)` member
// accesses, since MacroIdentifier is a distinct lexical class from a
// field name) — kept so a future member-dispatched macro has a single
// place to add the receiver-as-first-argument rule asks for.
func anyMemberReceiver(call *ast.CallExpr) (ast.Expr, bool) {
	if mem, ok := call.Callee.(*ast.MemberExpr); ok {
		return mem.Object, true
	}
	return nil, false
}

func (a *Analyser) expandCast(call *ast.CallExpr, args []ast.Expr) typedast.Expr {
	if !a.bucket.IAssert(len(args) == 2, call.Rng, "as! expects (expr, Type), got %d arguments", len(args)) {
		return &typedast.NameExpr{Rng: call.Rng, Typ: types.Void_()}
	}
	value := a.resolveExpr(args[0], modeRead)
	target, ok := a.exprAsType(args[1])
	if !a.bucket.IAssert(ok, args[1].Range(), "expected a type name as the second argument of as!") {
		return &typedast.CastExpr{Rng: call.Rng, Expression: value, Target: value.Type()}
	}
	if !value.Type().IsPrimitive() || !target.IsPrimitive() {
		a.bucket.Error(call.Rng, "cannot cast %s to %s; define an as_%s method instead",
			value.Type().Render(), target.Render(), target.Render())
	}
	return &typedast.CastExpr{Rng: call.Rng, Expression: value, Target: target}
}

// expandExtern registers a declaration-only function under the current
// module path. The expansion itself is a void CallExpr bound to that
// signature, with no arguments.
func (a *Analyser) expandExtern(call *ast.CallExpr, args []ast.Expr, variadic bool) typedast.Expr {
	if !a.bucket.IAssert(len(args) >= 2, call.Rng,
		"extern! expects (ReturnType, name, ArgType, ...), got %d arguments", len(args)) {
		return &typedast.NameExpr{Rng: call.Rng, Typ: types.Void_()}
	}

	retTy, ok := a.exprAsType(args[0])
	if !a.bucket.IAssert(ok, args[0].Range(), "expected a return type as the first argument of extern!") {
		retTy = types.Void_()
	}

	var name string
	switch n := args[1].(type) {
	case *ast.StringExpr:
		name = n.Value
	case *ast.NameExpr:
		name = n.Name
	default:
		a.bucket.Error(args[1].Range(), "expected a name as the second argument of extern!")
		return &typedast.NameExpr{Rng: call.Rng, Typ: types.Void_()}
	}

	var params []types.Type
	for _, argExpr := range args[2:] {
		ty, ok := a.exprAsType(argExpr)
		if a.bucket.IAssert(ok, argExpr.Range(), "expected a type in extern!'s parameter list") {
			params = append(params, ty)
		}
	}

	key := a.path.Append(name).Key()
	sig := &typedast.FuncSignature{Name: name, ReturnType: retTy, Params: params, VarArg: variadic}
	if a.externOrigins == nil {
		a.externOrigins = map[string]position.Range{}
	}
	if prev, declared := a.externOrigins[key]; declared {
		a.bucket.Error(call.Rng, "redeclaration of extern function %q", name).Note(prev, "previous declaration here")
		return &typedast.CallExpr{Rng: call.Rng, Callee: sig, Typ: types.Void_()}
	}
	a.prog.Funcs[key] = sig
	a.prog.funcOrigins[key] = call.Rng
	a.externOrigins[key] = call.Rng
	return &typedast.CallExpr{Rng: call.Rng, Callee: sig, Typ: types.Void_()}
}
