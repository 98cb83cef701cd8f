package sema

import (
	"github.com/tarik-lang/tarikc/internal/ast"
	"github.com/tarik-lang/tarikc/internal/path"
	"github.com/tarik-lang/tarikc/internal/position"
	"github.com/tarik-lang/tarikc/internal/typedast"
	"github.com/tarik-lang/tarikc/internal/types"
)

var binOpMap = map[ast.BinOp]typedast.BinOp{
	ast.Add: typedast.Add, ast.Sub: typedast.Sub, ast.Mul: typedast.Mul, ast.Div: typedast.Div,
	ast.Eq: typedast.Eq, ast.Ne: typedast.Ne, ast.Lt: typedast.Lt, ast.Gt: typedast.Gt,
	ast.Le: typedast.Le, ast.Ge: typedast.Ge,
}

func (a *Analyser) resolveExpr(e ast.Expr, mode accessMode) typedast.Expr {
	switch expr := e.(type) {
	case *ast.IntExpr:
		return &typedast.IntExpr{Rng: expr.Rng, Value: expr.Value, Typ: types.NewPrimitive(types.U0, 0)}
	case *ast.RealExpr:
		return &typedast.RealExpr{Rng: expr.Rng, Value: expr.Value, Typ: types.NewPrimitive(types.F64, 0)}
	case *ast.BoolExpr:
		return &typedast.BoolExpr{Rng: expr.Rng, Value: expr.Value}
	case *ast.StringExpr:
		return &typedast.StringExpr{Rng: expr.Rng, Value: expr.Value}
	case *ast.NameExpr:
		return a.resolveName(expr, mode)
	case *ast.PrefixExpr:
		return a.resolvePrefix(expr)
	case *ast.BinaryExpr:
		return a.resolveBinary(expr)
	case *ast.MemberExpr:
		return a.resolveMember(expr, mode)
	case *ast.AssignExpr:
		return a.resolveAssign(expr)
	case *ast.CallExpr:
		return a.resolveCall(expr)
	case *ast.StructInitExpr:
		return a.resolveStructInit(expr)
	case *ast.PathExpr:
		a.bucket.Error(expr.Rng, "path %q is not a value", expr.String())
		return &typedast.NameExpr{Rng: expr.Rng, Name: expr.String(), Typ: types.Void_()}
	case *ast.ListExpr:
		a.bucket.Error(expr.Rng, "list literals are not a supported value form")
		return &typedast.NameExpr{Rng: expr.Rng, Typ: types.Void_()}
	case *ast.TypeExpr:
		a.bucket.Error(expr.Rng, "type name used as a value")
		return &typedast.NameExpr{Rng: expr.Rng, Typ: types.Void_()}
	case *ast.EmptyExpr:
		return &typedast.NameExpr{Rng: expr.Rng, Typ: types.Void_()}
	default:
		a.bucket.Error(e.Range(), "unsupported expression")
		return &typedast.NameExpr{Rng: e.Range(), Typ: types.Void_()}
	}
}

// transition applies a use of v (whose declared type is ty, for the
// copy-vs-move decision) at rng under mode, reporting diagnostics against
// name and mutating v's tracked state. This is the single choke point for
// definite-assignment and move rules.
func (a *Analyser) transition(v Variable, ty types.Type, name string, rng position.Range, mode accessMode) {
	st := v.Current()
	switch mode {
	case modeAssignTarget:
		v.MakeDefinitelyDefined(rng)
	case modeMemberParent:
		if st.IsDefinitelyUndefined() {
			a.bucket.Error(rng, "use of undefined variable %q", name)
		}
	case modeMoveSource:
		if st.IsMaybeUndefined() {
			a.bucket.Error(rng, "use of possibly undefined variable %q", name)
		}
		if st.IsMaybeMoved() {
			a.bucket.Error(rng, "use of possibly moved variable %q", name).Note(st.MovedPos, "moved here")
		}
		v.MakeDefinitelyMoved(rng)
	default: // modeRead
		if st.IsMaybeUndefined() {
			a.bucket.Error(rng, "use of possibly undefined variable %q", name)
		}
		if st.IsMaybeMoved() {
			a.bucket.Error(rng, "use of possibly moved variable %q", name).Note(st.MovedPos, "moved here")
		}
		if ty.IsCopyable() {
			v.MakeDefinitelyRead(rng)
		} else {
			v.MakeDefinitelyMoved(rng)
		}
	}
}

func (a *Analyser) resolveName(e *ast.NameExpr, mode accessMode) typedast.Expr {
	if e.Macro {
		a.bucket.Error(e.Rng, "macro %q must be called", e.Name)
		return &typedast.NameExpr{Rng: e.Rng, Name: e.Name, Typ: types.Void_()}
	}
	tv, ok := a.lookupVar(e.Name)
	if !ok {
		a.bucket.Error(e.Rng, "undefined variable %q", e.Name)
		return &typedast.NameExpr{Rng: e.Rng, Name: e.Name, Typ: types.Void_()}
	}
	a.transition(tv.v, tv.decl.Type, tv.name, e.Rng, mode)
	return &typedast.VariableExpr{Rng: e.Rng, Var: tv.decl}
}

func (a *Analyser) resolvePrefix(e *ast.PrefixExpr) typedast.Expr {
	switch e.Op {
	case ast.PrefixRef:
		operand := a.resolveExpr(e.Operand, modeMemberParent)
		return &typedast.PrefixExpr{Rng: e.Rng, Op: typedast.PrefixRef, Operand: operand, Typ: operand.Type().PointerTo()}
	case ast.PrefixDeref:
		operand := a.resolveExpr(e.Operand, modeRead)
		ty := operand.Type()
		if ty.PointerLevel == 0 {
			a.bucket.Error(e.Rng, "cannot dereference non-pointer type %s", ty.Render())
			return &typedast.PrefixExpr{Rng: e.Rng, Op: typedast.PrefixDeref, Operand: operand, Typ: ty}
		}
		return &typedast.PrefixExpr{Rng: e.Rng, Op: typedast.PrefixDeref, Operand: operand, Typ: ty.Deref()}
	case ast.PrefixNot:
		operand := a.resolveExpr(e.Operand, modeRead)
		a.bucket.IAssert(operand.Type().IsBool(), e.Rng, "operand of '!' must be bool, got %s", operand.Type().Render())
		return &typedast.PrefixExpr{Rng: e.Rng, Op: typedast.PrefixNot, Operand: operand, Typ: types.NewPrimitive(types.Bool, 0)}
	default: // PrefixNeg, and PrefixGlobal in the rare malformed-`::` case
		operand := a.resolveExpr(e.Operand, modeRead)
		return &typedast.PrefixExpr{Rng: e.Rng, Op: typedast.PrefixNeg, Operand: operand, Typ: operand.Type()}
	}
}

func (a *Analyser) resolveBinary(e *ast.BinaryExpr) typedast.Expr {
	left := a.resolveExpr(e.Left, modeRead)
	right := a.resolveExpr(e.Right, modeRead)
	var typ types.Type
	switch e.Op {
	case ast.Eq, ast.Ne, ast.Lt, ast.Gt, ast.Le, ast.Ge:
		a.bucket.IAssert(left.Type().IsComparable(right.Type()), e.Rng,
			"cannot compare %s and %s", left.Type().Render(), right.Type().Render())
		typ = types.NewPrimitive(types.Bool, 0)
	default:
		a.bucket.IAssert(left.Type().IsCompatible(right.Type()), e.Rng,
			"incompatible operand types %s and %s", left.Type().Render(), right.Type().Render())
		typ = left.Type().GetResult(right.Type())
	}
	return &typedast.BinaryExpr{Rng: e.Rng, Op: binOpMap[e.Op], Left: left, Right: right, Typ: typ}
}

// rootVariable walks a chain of member accesses back to the leading bare
// name, so a field write like `p.x = 1` can transition the exact tracked
// child instead of the whole struct.
func rootVariable(e ast.Expr) string {
	switch ex := e.(type) {
	case *ast.NameExpr:
		return ex.Name
	case *ast.MemberExpr:
		return rootVariable(ex.Object)
	default:
		return ""
	}
}

func (a *Analyser) resolveMember(e *ast.MemberExpr, mode accessMode) typedast.Expr {
	obj := a.resolveExpr(e.Object, modeMemberParent)
	base := obj.Type()
	if base.PointerLevel > 0 {
		base = base.Deref()
	}
	if base.IsPrimitive() {
		a.bucket.Error(e.Rng, "cannot access member %q of non-structure type %s", e.Field, obj.Type().Render())
		return &typedast.MemberExpr{Rng: e.Rng, Object: obj, Field: e.Field, Typ: types.Void_()}
	}
	info, ok := a.prog.LookupStruct(base.User().Key())
	if !ok {
		a.bucket.Error(e.Rng, "unknown structure %s", base.Render())
		return &typedast.MemberExpr{Rng: e.Rng, Object: obj, Field: e.Field, Typ: types.Void_()}
	}
	idx := info.MemberIndex(e.Field)
	if idx < 0 {
		a.bucket.Error(e.Rng, "structure %s has no member %q", base.Render(), e.Field)
		return &typedast.MemberExpr{Rng: e.Rng, Object: obj, Field: e.Field, Typ: types.Void_()}
	}
	memberTy := info.Members[idx].Type

	if name := rootVariable(e.Object); name != "" {
		if tv, ok := a.lookupVar(name); ok {
			if cv, ok := tv.v.(*CompoundVariable); ok {
				if child, ok := cv.Member(e.Field); ok {
					a.transition(child, memberTy, tv.name+"."+e.Field, e.Rng, mode)
				}
			}
		}
	}
	return &typedast.MemberExpr{Rng: e.Rng, Object: obj, Field: e.Field, Typ: memberTy}
}

// staticTypeOf resolves the declared type an lvalue expression will have,
// without transitioning any variable state — used to pick copy-vs-move
// for an assignment's RHS before the LHS commits.
func (a *Analyser) staticTypeOf(e ast.Expr) types.Type {
	switch ex := e.(type) {
	case *ast.NameExpr:
		if tv, ok := a.lookupVar(ex.Name); ok {
			return tv.decl.Type
		}
	case *ast.MemberExpr:
		objTy := a.staticTypeOf(ex.Object)
		if objTy.PointerLevel > 0 {
			objTy = objTy.Deref()
		}
		if objTy.IsPrimitive() {
			return types.Void_()
		}
		if info, ok := a.prog.LookupStruct(objTy.User().Key()); ok {
			if idx := info.MemberIndex(ex.Field); idx >= 0 {
				return info.Members[idx].Type
			}
		}
	case *ast.PrefixExpr:
		if ex.Op == ast.PrefixDeref {
			inner := a.staticTypeOf(ex.Operand)
			if inner.PointerLevel > 0 {
				return inner.Deref()
			}
		}
	}
	return types.Void_()
}

func (a *Analyser) resolveAssign(e *ast.AssignExpr) typedast.Expr {
	targetTy := a.staticTypeOf(e.Target)
	mode := modeRead
	if !targetTy.IsVoid() && !targetTy.IsCopyable() {
		mode = modeMoveSource
	}
	value := a.resolveExpr(e.Value, mode)
	target := a.resolveExpr(e.Target, modeAssignTarget)
	a.bucket.IAssert(target.Type().IsAssignableFrom(value.Type()), e.Rng,
		"cannot assign %s to %s", value.Type().Render(), target.Type().Render())
	return &typedast.AssignExpr{Rng: e.Rng, Target: target, Value: value}
}

func (a *Analyser) resolveCallee(e ast.Expr) (*typedast.FuncSignature, string) {
	switch ex := e.(type) {
	case *ast.NameExpr:
		if sig, ok := a.prog.LookupFunc(a.path.Append(ex.Name).Key()); ok {
			return sig, ex.Name
		}
		if sig, ok := a.prog.LookupFunc(path.Global().Append(ex.Name).Key()); ok {
			return sig, ex.Name
		}
		a.bucket.Error(ex.Rng, "undefined function %q", ex.Name)
		return nil, ex.Name
	case *ast.PathExpr:
		p := ex.ToPath()
		if sig, ok := a.prog.LookupFunc(p.Key()); ok {
			return sig, p.Key()
		}
		a.bucket.Error(ex.Rng, "undefined function %q", ex.String())
		return nil, ex.String()
	default:
		a.bucket.Error(e.Range(), "expression is not callable")
		return nil, ""
	}
}

// resolveMemberCallee resolves a member-call's callee (obj.method),
// matching the receiver's own pointer level against a declared `this`
// parameter with at most one implicit &/* adjustment: a value receiver may
// bind to a pointer-`this` method by auto-&, and a pointer receiver may
// bind to a value-`this` method by auto-deref. Member functions are keyed
// by their declared receiver type's rendered form (which, like the
// receiver's own Render, includes one "*" per pointer level), so the
// receiver's own type and its one-level adjustment are genuinely distinct
// lookup keys; if both resolve, the call is ambiguous.
func (a *Analyser) resolveMemberCallee(mem *ast.MemberExpr) (*typedast.FuncSignature, typedast.Expr) {
	recvTy := a.staticTypeOf(mem.Object)
	fieldKey := path.Global().Append(mem.Field).Key()
	directKey := recvTy.Render() + "." + fieldKey

	var altTy types.Type
	if recvTy.PointerLevel > 0 {
		altTy = recvTy.Deref()
	} else {
		altTy = recvTy.PointerTo()
	}
	altKey := altTy.Render() + "." + fieldKey

	direct, directOk := a.prog.LookupFunc(directKey)
	alt, altOk := a.prog.LookupFunc(altKey)

	if directOk && altOk {
		diag := a.bucket.Error(mem.Rng, "ambiguous call to %q on %s: matches both %s and %s",
			mem.Field, recvTy.Render(), recvTy.Render(), altTy.Render())
		if origin, ok := a.prog.FuncOrigin(directKey); ok {
			diag = diag.Note(origin, "candidate declared here")
		}
		if origin, ok := a.prog.FuncOrigin(altKey); ok {
			diag.Note(origin, "candidate declared here")
		}
	}

	obj := a.resolveExpr(mem.Object, modeMemberParent)
	switch {
	case directOk:
		return direct, obj
	case altOk:
		if recvTy.PointerLevel > 0 {
			return alt, &typedast.PrefixExpr{Rng: mem.Rng, Op: typedast.PrefixDeref, Operand: obj, Typ: altTy}
		}
		return alt, &typedast.PrefixExpr{Rng: mem.Rng, Op: typedast.PrefixRef, Operand: obj, Typ: altTy}
	default:
		a.bucket.Error(mem.Rng, "undefined member function %q on %s", mem.Field, recvTy.Render())
		return nil, obj
	}
}

func (a *Analyser) resolveCall(e *ast.CallExpr) typedast.Expr {
	if name, ok := e.Callee.(*ast.NameExpr); ok && name.Macro {
		return a.expandMacro(name, e)
	}

	var sig *typedast.FuncSignature
	var implicitThis typedast.Expr
	if mem, ok := e.Callee.(*ast.MemberExpr); ok {
		// `lib.func(...)` whose object names no local variable calls the
		// function registered under that two-segment path, if there is one.
		if obj, isName := mem.Object.(*ast.NameExpr); isName && !obj.Macro {
			if _, isVar := a.lookupVar(obj.Name); !isVar {
				sig, _ = a.prog.LookupFunc(path.New(obj.Name, mem.Field).Key())
			}
		}
		if sig == nil {
			sig, implicitThis = a.resolveMemberCallee(mem)
		}
	} else {
		sig, _ = a.resolveCallee(e.Callee)
	}
	if sig == nil {
		args := make([]typedast.Expr, len(e.Arguments))
		for i, arg := range e.Arguments {
			args[i] = a.resolveExpr(arg, modeRead)
		}
		return &typedast.CallExpr{Rng: e.Rng, Callee: &typedast.FuncSignature{Name: "<unresolved>", ReturnType: types.Void_()}, Arguments: args, Typ: types.Void_()}
	}

	var args []typedast.Expr
	offset := 0
	if implicitThis != nil {
		args = append(args, implicitThis)
		offset = 1
	}
	a.bucket.IAssert(len(e.Arguments)+offset >= len(sig.Params), e.Rng,
		"not enough arguments to call %q: expected %d, got %d", sig.Name, len(sig.Params)-offset, len(e.Arguments))
	if !sig.VarArg {
		a.bucket.IAssert(len(e.Arguments)+offset <= len(sig.Params), e.Rng,
			"too many arguments to call %q: expected %d, got %d", sig.Name, len(sig.Params)-offset, len(e.Arguments))
	}
	for i, argExpr := range e.Arguments {
		pi := i + offset
		paramTy := types.Void_()
		haveParam := pi < len(sig.Params)
		if haveParam {
			paramTy = sig.Params[pi]
		}
		mode := modeRead
		if !paramTy.IsVoid() && !paramTy.IsCopyable() {
			mode = modeMoveSource
		}
		arg := a.resolveExpr(argExpr, mode)
		if haveParam {
			argTy := arg.Type()
			if paramTy.IsFloat() && argTy.Equal(types.NewPrimitive(types.U0, 0)) {
				argTy = paramTy
			}
			a.bucket.IAssert(paramTy.IsAssignableFrom(argTy), argExpr.Range(),
				"argument %d: cannot assign %s to %s", i+1, arg.Type().Render(), paramTy.Render())
		}
		args = append(args, arg)
	}
	return &typedast.CallExpr{Rng: e.Rng, Callee: sig, Arguments: args, Typ: sig.ReturnType}
}

func (a *Analyser) resolveStructInit(e *ast.StructInitExpr) typedast.Expr {
	var structTy types.Type
	switch t := e.Type.(type) {
	case *ast.NameExpr:
		structTy = types.NewUser(a.path.Append(t.Name), 0, t.Rng)
	case *ast.PathExpr:
		structTy = types.NewUser(t.ToPath(), 0, t.Rng)
	default:
		a.bucket.Error(e.Rng, "struct initializer target is not a type name")
		return &typedast.NameExpr{Rng: e.Rng, Typ: types.Void_()}
	}

	info, ok := a.prog.LookupStruct(structTy.User().Key())
	if !ok {
		global := path.Global().Append(structTy.User().Last())
		if info2, ok2 := a.prog.LookupStruct(global.Key()); ok2 {
			info, ok = info2, true
			structTy = structTy.WithUser(global)
		}
	}
	if !ok {
		a.bucket.Error(e.Rng, "unknown structure %s", structTy.Render())
		return &typedast.NameExpr{Rng: e.Rng, Typ: types.Void_()}
	}

	a.bucket.IAssert(len(e.Fields) == len(info.Members), e.Rng,
		"structure %s expects %d fields, got %d", structTy.Render(), len(info.Members), len(e.Fields))

	fields := make([]typedast.Expr, 0, len(e.Fields))
	for i, f := range e.Fields {
		mode := modeRead
		if i < len(info.Members) && !info.Members[i].Type.IsCopyable() {
			mode = modeMoveSource
		}
		val := a.resolveExpr(f, mode)
		if i < len(info.Members) {
			a.bucket.IAssert(info.Members[i].Type.IsAssignableFrom(val.Type()), f.Range(),
				"field %d: cannot assign %s to %s", i, val.Type().Render(), info.Members[i].Type.Render())
		}
		fields = append(fields, val)
	}
	return &typedast.StructInitExpr{Rng: e.Rng, Typ: structTy, Fields: fields}
}
