// Package lifetime implements the borrow-checking pass that runs over a
// fully type-checked function: every local gets an interval of statement
// indices it's guaranteed valid for, borrows relate their interval to the
// place they point into, and a function's return value must not escape a
// shorter-lived local.
package lifetime

// Lifetime is the interval, measured in per-function statement indices,
// over which a value is guaranteed reachable. Birth is the statement that
// created it; Death is the last statement known to use it; LastDeath is
// the last statement at which it could still validly be read before a
// later assignment or move supersedes it.
type Lifetime struct {
	Birth, Death, LastDeath int
	Static                  bool
}

// staticDeath stands in for "never dies within this function" so a
// static lifetime always compares as outliving any local's.
const staticDeath = int(^uint(0) >> 1)

// NewLifetime is the lifetime of a value born at statement at.
func NewLifetime(at int) *Lifetime {
	return &Lifetime{Birth: at, Death: at}
}

// StaticLifetime is compatible with a function's entire execution and
// beyond; a returned value must be at least this long-lived.
func StaticLifetime() *Lifetime {
	return &Lifetime{Static: true, Death: staticDeath, LastDeath: staticDeath}
}

func (l *Lifetime) extendLastDeath(at int) {
	if at > l.LastDeath {
		l.LastDeath = at
	}
}

func cloneLifetime(l *Lifetime) *Lifetime {
	dup := *l
	return &dup
}

// State tracks one local's sequence of values across a function body.
// PrimitiveState is a real value history; CompoundState keeps its own
// lifetime and forwards each update to its members' states.
type State interface {
	Lifetime() *Lifetime
	Used(at int)
	Assigned(at int)
	Kill(at int)
	Move(at int)
	Clone() State
}

// PrimitiveState is a scalar or pointer local.
type PrimitiveState struct {
	lifetime *Lifetime
	values   []*Lifetime
}

func NewPrimitiveState(at int) *PrimitiveState {
	return &PrimitiveState{lifetime: NewLifetime(at)}
}

// NewPrimitiveStateStatic is for a parameter: its lifetime is the caller's
// responsibility for the duration of the call, so it's never a candidate
// for a dangling-return error.
func NewPrimitiveStateStatic() *PrimitiveState {
	return &PrimitiveState{lifetime: StaticLifetime()}
}

func (s *PrimitiveState) Lifetime() *Lifetime { return s.lifetime }

func (s *PrimitiveState) Used(at int) {
	if len(s.values) == 0 {
		s.values = append(s.values, NewLifetime(at))
	}
	last := s.values[len(s.values)-1]
	if at > last.Death {
		last.Death = at
	}
	if at > s.lifetime.Death {
		s.lifetime.Death = at
	}
}

func (s *PrimitiveState) Assigned(at int) {
	if len(s.values) > 0 {
		last := s.values[len(s.values)-1]
		if last.LastDeath == 0 {
			last.LastDeath = at
		}
	}
	s.values = append(s.values, NewLifetime(at))
	s.lifetime.Death = at
}

func (s *PrimitiveState) Kill(at int) {
	s.lifetime.extendLastDeath(at)
	if len(s.values) > 0 {
		s.values[len(s.values)-1].extendLastDeath(at)
	}
}

func (s *PrimitiveState) Move(at int) {
	if len(s.values) > 0 {
		s.values[len(s.values)-1].LastDeath = at
	}
}

func (s *PrimitiveState) Clone() State {
	cp := &PrimitiveState{lifetime: cloneLifetime(s.lifetime)}
	for _, v := range s.values {
		cp.values = append(cp.values, cloneLifetime(v))
	}
	return cp
}

// CompoundState is a struct-typed local. Its own lifetime is tracked
// directly: Used, Assigned and Kill update it and every member, while Move
// updates only the members.
type CompoundState struct {
	lifetime *Lifetime
	Names    []string
	Children []State
}

func NewCompoundState(at int, names []string, children []State) *CompoundState {
	return &CompoundState{lifetime: NewLifetime(at), Names: names, Children: children}
}

// NewCompoundStateStatic is the parameter counterpart to
// NewPrimitiveStateStatic, for a struct-typed argument.
func NewCompoundStateStatic(names []string, children []State) *CompoundState {
	return &CompoundState{lifetime: StaticLifetime(), Names: names, Children: children}
}

func (s *CompoundState) Lifetime() *Lifetime { return s.lifetime }

// Member returns the child state tracking the named field.
func (s *CompoundState) Member(name string) (State, bool) {
	for i, n := range s.Names {
		if n == name {
			return s.Children[i], true
		}
	}
	return nil, false
}

func (s *CompoundState) Used(at int) {
	if at > s.lifetime.Death {
		s.lifetime.Death = at
	}
	for _, c := range s.Children {
		c.Used(at)
	}
}

func (s *CompoundState) Assigned(at int) {
	s.lifetime.Death = at
	for _, c := range s.Children {
		c.Assigned(at)
	}
}

func (s *CompoundState) Kill(at int) {
	s.lifetime.extendLastDeath(at)
	for _, c := range s.Children {
		c.Kill(at)
	}
}

func (s *CompoundState) Move(at int) {
	for _, c := range s.Children {
		c.Move(at)
	}
}

func (s *CompoundState) Clone() State {
	cp := &CompoundState{lifetime: cloneLifetime(s.lifetime), Names: append([]string(nil), s.Names...)}
	for _, c := range s.Children {
		cp.Children = append(cp.Children, c.Clone())
	}
	return cp
}
