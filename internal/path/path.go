// Package path implements the module-path model: an ordered sequence of
// name segments, possibly anchored at the global root, used as the
// canonical key for every user-defined function and structure.
package path

import "strings"

// Path is immutable; every mutating-looking operation returns a new value.
type Path struct {
	parts  []string
	global bool
}

// New builds a path from segments. An empty first segment denotes the
// global root (a leading "::"), by convention inserted as "" at index 0.
func New(parts ...string) Path {
	p := Path{parts: append([]string(nil), parts...)}
	if len(p.parts) > 0 && p.parts[0] == "" {
		p.global = true
		p.parts = p.parts[1:]
	}
	return p
}

// Global returns the anchored empty path ("::").
func Global() Path {
	return Path{global: true}
}

// IsGlobal reports whether the path is anchored at the root.
func (p Path) IsGlobal() bool {
	return p.global
}

// Parts returns the segment list, excluding the global marker.
func (p Path) Parts() []string {
	return append([]string(nil), p.parts...)
}

// Append returns a new path with name added as the last segment.
func (p Path) Append(name string) Path {
	next := Path{parts: append(append([]string(nil), p.parts...), name), global: p.global}
	return next
}

// Parent returns the path with its last segment removed. Parent of an
// empty path is itself.
func (p Path) Parent() Path {
	if len(p.parts) == 0 {
		return p
	}
	return Path{parts: append([]string(nil), p.parts[:len(p.parts)-1]...), global: p.global}
}

// WithPrefix prepends prefix's segments onto a non-global path.
// Prefixing a path that is already globally anchored is a no-op: a
// leading "::" always wins.
func (p Path) WithPrefix(prefix Path) Path {
	if p.global {
		return p
	}
	return Path{parts: append(append([]string(nil), prefix.parts...), p.parts...), global: prefix.global}
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	if p.global != other.global || len(p.parts) != len(other.parts) {
		return false
	}
	for i := range p.parts {
		if p.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}

// Key returns a string usable as a map key, since Go maps key on
// comparable values rather than a custom hash function.
func (p Path) Key() string {
	prefix := ""
	if p.global {
		prefix = "::"
	}
	return prefix + strings.Join(p.parts, ".")
}

func (p Path) String() string {
	return p.Key()
}

// Empty reports whether the path has no segments (regardless of anchor).
func (p Path) Empty() bool {
	return len(p.parts) == 0
}

// Last returns the final segment, or "" if the path is empty.
func (p Path) Last() string {
	if len(p.parts) == 0 {
		return ""
	}
	return p.parts[len(p.parts)-1]
}
