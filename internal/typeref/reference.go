// Package typeref converts language-neutral type references supplied by
// macro code into TypeIDs of a unit's type interner.
package typeref

import (
	"strings"

	"facet/internal/types"
)

// WildcardKind tells whether a reference is a wildcard and how it is bounded.
type WildcardKind uint8

const (
	NotWildcard WildcardKind = iota
	WildcardUnbounded
	WildcardExtends
	WildcardSuper
)

// Reference is an abstract type descriptor. It is either symbolic (name, type
// arguments, array dimensions, wildcard shape) or pre-resolved against one
// interner. References are never stored in the model; resolve them right away.
type Reference struct {
	Name      string
	Args      []*Reference
	ArrayDims int
	Wildcard  WildcardKind
	Bound     *Reference // wildcard bound for WildcardExtends / WildcardSuper

	resolved types.TypeID
	origin   *types.Interner
}

// Named builds a symbolic reference, e.g. Named("java.util.List", Named("String")).
func Named(name string, args ...*Reference) *Reference {
	return &Reference{Name: name, Args: args}
}

// Unbounded is the "?" wildcard.
func Unbounded() *Reference {
	return &Reference{Wildcard: WildcardUnbounded}
}

// Extends is "? extends bound".
func Extends(bound *Reference) *Reference {
	return &Reference{Wildcard: WildcardExtends, Bound: bound}
}

// Super is "? super bound".
func Super(bound *Reference) *Reference {
	return &Reference{Wildcard: WildcardSuper, Bound: bound}
}

// Resolved wraps an existing TypeID of in. Resolvers reject it when they work
// on a different interner.
func Resolved(in *types.Interner, id types.TypeID) *Reference {
	return &Reference{resolved: id, origin: in}
}

// ArrayOf returns a copy of r with one more array dimension.
func (r *Reference) ArrayOf() *Reference {
	cp := *r
	cp.ArrayDims++
	return &cp
}

// IsResolved reports whether r wraps a pre-resolved TypeID.
func (r *Reference) IsResolved() bool {
	return r != nil && r.origin != nil
}

// IsEmpty reports whether r names nothing.
func (r *Reference) IsEmpty() bool {
	return r == nil || (!r.IsResolved() && r.Wildcard == NotWildcard && strings.TrimSpace(r.Name) == "")
}

func (r *Reference) String() string {
	if r == nil {
		return "<nil>"
	}
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r *Reference) write(sb *strings.Builder) {
	switch r.Wildcard {
	case WildcardUnbounded:
		sb.WriteByte('?')
		return
	case WildcardExtends, WildcardSuper:
		sb.WriteString("? ")
		if r.Wildcard == WildcardExtends {
			sb.WriteString("extends ")
		} else {
			sb.WriteString("super ")
		}
		if r.Bound != nil {
			r.Bound.write(sb)
		}
		return
	}
	if r.IsResolved() {
		sb.WriteString(types.Label(r.origin, r.resolved))
	} else {
		sb.WriteString(r.Name)
	}
	if len(r.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range r.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			if a == nil {
				sb.WriteString("<nil>")
				continue
			}
			a.write(sb)
		}
		sb.WriteByte('>')
	}
	for range r.ArrayDims {
		sb.WriteString("[]")
	}
}
