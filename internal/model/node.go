package model

import (
	"fmt"
	"maps"
	"slices"

	"facet/internal/source"
)

// NodeID identifies a declaration node inside its Model.
type NodeID uint32

// NoNodeID marks the absence of a node.
const NoNodeID NodeID = 0

// IsValid reports whether the node ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }

// NodeKind classifies declaration nodes.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota
	KindType
	KindOperation
	KindField
	KindParameter
	KindTypeParameter
)

func (k NodeKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindOperation:
		return "method"
	case KindField:
		return "field"
	case KindParameter:
		return "parameter"
	case KindTypeParameter:
		return "type-parameter"
	default:
		return "invalid"
	}
}

// Origin tells whether a declaration comes from the compiled file or from a
// referenced library. Only source declarations may be mutated.
type Origin uint8

const (
	OriginSource Origin = iota
	OriginLibrary
)

func (o Origin) String() string {
	if o == OriginLibrary {
		return "library"
	}
	return "source"
}

// Visibility of types and members.
type Visibility uint8

const (
	VisibilityDefault Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	default:
		return "package"
	}
}

// ParseVisibility converts a keyword into a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch s {
	case "", "package", "default":
		return VisibilityDefault, nil
	case "private":
		return VisibilityPrivate, nil
	case "protected":
		return VisibilityProtected, nil
	case "public":
		return VisibilityPublic, nil
	}
	return VisibilityDefault, fmt.Errorf("invalid visibility %q (expected: package|private|protected|public)", s)
}

// Annotation is an annotation reference attached to a declaration.
type Annotation struct {
	Name   string
	Values map[string]string
	Pos    source.Pos
}

// Node is implemented by every declaration node of the model.
type Node interface {
	ID() NodeID
	Kind() NodeKind
	Model() *Model
	SimpleName() string
	Pos() source.Pos
	Origin() Origin
}

// node carries the state shared by all declaration kinds.
type node struct {
	id          NodeID
	model       *Model
	name        string
	pos         source.Pos
	doc         string
	deprecated  bool
	annotations []Annotation
}

func (n *node) ID() NodeID         { return n.id }
func (n *node) Model() *Model      { return n.model }
func (n *node) SimpleName() string { return n.name }
func (n *node) Pos() source.Pos    { return n.pos }

func (n *node) SetSimpleName(name string) { assign(n, &n.name, name) }

func (n *node) DocComment() string     { return n.doc }
func (n *node) SetDocComment(s string) { assign(n, &n.doc, s) }

func (n *node) IsDeprecated() bool   { return n.deprecated }
func (n *node) SetDeprecated(v bool) { assign(n, &n.deprecated, v) }

// Annotations returns a copy of the annotations in declaration order.
func (n *node) Annotations() []Annotation {
	out := slices.Clone(n.annotations)
	for i := range out {
		out[i].Values = maps.Clone(out[i].Values)
	}
	return out
}

// AddAnnotation attaches an annotation reference.
func (n *node) AddAnnotation(a Annotation) {
	n.mutate()
	n.annotations = append(n.annotations, a)
}

// mutate panics with ErrFrozen once the owning model is frozen.
func (n *node) mutate() {
	if n.model != nil {
		n.model.checkMutable(n.name)
	}
}

// assign stores v in dst, which must be a field of n.
func assign[T any](n *node, dst *T, v T) {
	n.mutate()
	*dst = v
}

// FindAnnotation returns the first annotation whose simple or qualified name matches.
func (n *node) FindAnnotation(name string) (Annotation, bool) {
	for _, a := range n.annotations {
		if a.Name == name || simpleName(a.Name) == name {
			a.Values = maps.Clone(a.Values)
			return a, true
		}
	}
	return Annotation{}, false
}

func simpleName(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
