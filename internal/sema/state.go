package sema

import "github.com/tarik-lang/tarikc/internal/position"

// State is the per-variable use-state triple, extended with a fourth
// `moved` flag per the explicit "undefined / defined / read / moved"
// enumeration, a fourth flag beyond the usual undefined/defined/read
// triple (see DESIGN.md "Open Question resolutions").
type State struct {
	IsUndefined                     bool
	WasDefined, WasRead, WasMoved   bool
	DefinedPos, ReadPos, MovedPos   position.Range
}

// NewState is the state of a just-declared, not-yet-assigned variable.
func NewState() State { return State{IsUndefined: true} }

func (s State) MakeDefinitelyDefined(pos position.Range) State {
	return State{WasDefined: true, DefinedPos: pos}
}

func (s State) MakeDefinitelyRead(pos position.Range) State {
	return State{WasRead: true, ReadPos: pos}
}

func (s State) MakeDefinitelyMoved(pos position.Range) State {
	return State{WasMoved: true, MovedPos: pos}
}

func (s State) IsDefinitelyUndefined() bool {
	return s.IsUndefined && !s.WasDefined && !s.WasRead && !s.WasMoved
}

func (s State) IsDefinitelyDefined() bool {
	return !s.IsUndefined && s.WasDefined && !s.WasRead && !s.WasMoved
}

func (s State) IsDefinitelyMoved() bool {
	return !s.IsUndefined && !s.WasDefined && !s.WasRead && s.WasMoved
}

func (s State) IsMaybeUndefined() bool { return s.IsUndefined }
func (s State) IsMaybeDefined() bool   { return s.WasDefined }
func (s State) IsMaybeMoved() bool     { return s.WasMoved }

// Join implements the branch-merge rule of: each flag is
// OR'd, and each position is whichever of the pair comes later in source
// order.
func (s State) Join(o State) State {
	return State{
		IsUndefined: s.IsUndefined || o.IsUndefined,
		WasDefined:  s.WasDefined || o.WasDefined,
		WasRead:     s.WasRead || o.WasRead,
		WasMoved:    s.WasMoved || o.WasMoved,
		DefinedPos:  laterOf(s.DefinedPos, o.DefinedPos),
		ReadPos:     laterOf(s.ReadPos, o.ReadPos),
		MovedPos:    laterOf(s.MovedPos, o.MovedPos),
	}
}

func laterOf(a, b position.Range) position.Range {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	if a.Start().Before(b.Start()) {
		return b
	}
	return a
}

// Variable is the per-declaration state tracker: either a PrimitiveVariable
// (a real stack of states, pushed on scope entry and popped/joined on
// exit) or a CompoundVariable (a struct variable whose own state is
// folded from its member variables' states).
type Variable interface {
	Current() State
	MakeDefinitelyDefined(pos position.Range)
	MakeDefinitelyRead(pos position.Range)
	MakeDefinitelyMoved(pos position.Range)
	PushSnapshot()
	// PopSnapshot removes the snapshot taken by the matching PushSnapshot
	// and folds it with the state accumulated since, per unconditional
	// (plain) vs. conditional scope exit.
	PopSnapshot(conditional bool)
}

// PrimitiveVariable tracks a single scalar or pointer local.
type PrimitiveVariable struct {
	stack []State
}

func NewPrimitiveVariable() *PrimitiveVariable {
	return &PrimitiveVariable{stack: []State{NewState()}}
}

func (v *PrimitiveVariable) Current() State { return v.stack[len(v.stack)-1] }

func (v *PrimitiveVariable) replaceTop(s State) { v.stack[len(v.stack)-1] = s }

func (v *PrimitiveVariable) MakeDefinitelyDefined(pos position.Range) {
	v.replaceTop(v.Current().MakeDefinitelyDefined(pos))
}

func (v *PrimitiveVariable) MakeDefinitelyRead(pos position.Range) {
	v.replaceTop(v.Current().MakeDefinitelyRead(pos))
}

func (v *PrimitiveVariable) MakeDefinitelyMoved(pos position.Range) {
	v.replaceTop(v.Current().MakeDefinitelyMoved(pos))
}

func (v *PrimitiveVariable) PushSnapshot() {
	v.stack = append(v.stack, v.Current())
}

func (v *PrimitiveVariable) PopSnapshot(conditional bool) {
	post := v.Current()
	v.stack = v.stack[:len(v.stack)-1] // drop post-body state
	pre := v.Current()
	v.stack = v.stack[:len(v.stack)-1] // drop pre-scope snapshot
	if conditional {
		v.stack = append(v.stack, post.Join(pre))
	} else {
		v.stack = append(v.stack, post)
	}
}

// CompoundVariable is a struct-typed local; its own state is always
// derived from its children, never stored directly: compound variables
// fold children via conjunction/disjunction.
type CompoundVariable struct {
	Names    []string
	Children []Variable
}

// Member returns the child variable tracking the named field, so a
// `target.field = value` assignment can transition just that one member
// instead of the whole struct.
func (v *CompoundVariable) Member(name string) (Variable, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Children[i], true
		}
	}
	return nil, false
}

func (v *CompoundVariable) Current() State {
	if len(v.Children) == 0 {
		// An empty struct has nothing left undefined, so it counts as
		// definitely-defined from the moment it's declared.
		return State{WasDefined: true}
	}
	definitelyUndefined, definitelyDefined := true, true
	maybeUndefined, maybeDefined, maybeMoved := false, false, false
	var definedPos, readPos, movedPos position.Range
	for _, c := range v.Children {
		cs := c.Current()
		definitelyUndefined = definitelyUndefined && cs.IsDefinitelyUndefined()
		definitelyDefined = definitelyDefined && cs.IsDefinitelyDefined()
		maybeUndefined = maybeUndefined || cs.IsMaybeUndefined()
		maybeDefined = maybeDefined || cs.IsMaybeDefined()
		maybeMoved = maybeMoved || cs.IsMaybeMoved()
		definedPos = laterOf(definedPos, cs.DefinedPos)
		readPos = laterOf(readPos, cs.ReadPos)
		movedPos = laterOf(movedPos, cs.MovedPos)
	}
	return State{
		IsUndefined: maybeUndefined && !definitelyDefined,
		WasDefined:  maybeDefined || definitelyDefined,
		WasMoved:    maybeMoved,
		DefinedPos:  definedPos,
		ReadPos:     readPos,
		MovedPos:    movedPos,
	}
}

// MakeDefinitelyDefined assigns the whole compound variable, transitioning
// every member ("assigning to the whole variable transitions
// all members").
func (v *CompoundVariable) MakeDefinitelyDefined(pos position.Range) {
	for _, c := range v.Children {
		c.MakeDefinitelyDefined(pos)
	}
}

func (v *CompoundVariable) MakeDefinitelyRead(pos position.Range) {
	for _, c := range v.Children {
		c.MakeDefinitelyRead(pos)
	}
}

func (v *CompoundVariable) MakeDefinitelyMoved(pos position.Range) {
	for _, c := range v.Children {
		c.MakeDefinitelyMoved(pos)
	}
}

func (v *CompoundVariable) PushSnapshot() {
	for _, c := range v.Children {
		c.PushSnapshot()
	}
}

func (v *CompoundVariable) PopSnapshot(conditional bool) {
	for _, c := range v.Children {
		c.PopSnapshot(conditional)
	}
}
