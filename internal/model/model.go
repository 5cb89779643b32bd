package model

import (
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"fortio.org/safecast"

	"facet/internal/source"
	"facet/internal/types"
)

var (
	// ErrFrozen is the panic value of any setter called on a frozen model.
	ErrFrozen = errors.New("model is frozen")
	// ErrClaimed is returned when a second owner tries to claim a model.
	ErrClaimed = errors.New("model is already owned by a compilation unit")
)

// Model is the resolved declaration model of one compiled file together with
// the library types it references. Nodes are owned by exactly one Model and are
// addressed by pointer; the model never copies them.
type Model struct {
	Package string
	Imports []string
	File    source.FileID

	types    *types.Interner
	nodes    []Node // index 0 reserved for NoNodeID
	declared []*Type
	byName   map[string]*Type

	claimed atomic.Bool
	frozen  atomic.Bool
}

// New creates an empty model for the given package.
func New(pkg string, file source.FileID) *Model {
	return &Model{
		Package: pkg,
		File:    file,
		types:   types.NewInterner(),
		nodes:   make([]Node, 1, 64),
		byName:  make(map[string]*Type, 16),
	}
}

// TypeInterner exposes the type space every TypeID in this model belongs to.
func (m *Model) TypeInterner() *types.Interner { return m.types }

// Node returns the node with the given ID or nil.
func (m *Model) Node(id NodeID) Node {
	if !id.IsValid() || int(id) >= len(m.nodes) {
		return nil
	}
	return m.nodes[id]
}

// Claim records the single owner of m. Only the first call succeeds.
func (m *Model) Claim() error {
	if !m.claimed.CompareAndSwap(false, true) {
		return ErrClaimed
	}
	return nil
}

// Freeze makes the node graph read-only. It cannot be undone.
func (m *Model) Freeze() { m.frozen.Store(true) }

// Frozen reports whether Freeze was called.
func (m *Model) Frozen() bool { return m.frozen.Load() }

func (m *Model) checkMutable(what string) {
	if m.Frozen() {
		panic(fmt.Errorf("%w: cannot change %s", ErrFrozen, what))
	}
}

// Len reports the number of nodes excluding the sentinel.
func (m *Model) Len() int { return len(m.nodes) - 1 }

// Types returns every declared type (source and library) in declaration order.
func (m *Model) Types() []*Type { return slices.Clone(m.declared) }

// SourceTypes returns the types declared by the compiled file.
func (m *Model) SourceTypes() []*Type {
	out := make([]*Type, 0, len(m.declared))
	for _, t := range m.declared {
		if t.origin == OriginSource {
			out = append(out, t)
		}
	}
	return out
}

// FindType looks a declared type up by fully qualified name.
func (m *Model) FindType(qualified string) (*Type, bool) {
	t, ok := m.byName[qualified]
	return t, ok
}

// TypeFor maps a class TypeID (or a parameterization of one) back to its declaration.
func (m *Model) TypeFor(id types.TypeID) (*Type, bool) {
	base := m.types.Base(id)
	name := m.types.ClassName(base)
	if name == "" {
		return nil, false
	}
	return m.FindType(name)
}

// QualifiedName joins the model package and a simple name.
func (m *Model) QualifiedName(simple string) string {
	if m.Package == "" {
		return simple
	}
	return m.Package + "." + simple
}

// NewType declares a type. Source types are qualified with the model package;
// library types must pass their fully qualified name.
func (m *Model) NewType(name string, kind TypeKind, origin Origin, pos source.Pos) (*Type, error) {
	m.checkMutable(name)
	qualified := name
	if origin == OriginSource {
		qualified = m.QualifiedName(name)
	}
	if _, dup := m.byName[qualified]; dup {
		return nil, fmt.Errorf("duplicate type %q", qualified)
	}
	t := &Type{
		kind:      kind,
		origin:    origin,
		qualified: qualified,
		classType: m.types.RegisterClass(qualified),
	}
	t.name = types.SimpleName(qualified)
	t.pos = pos
	m.register(t, &t.node)
	m.declared = append(m.declared, t)
	m.byName[qualified] = t
	return t, nil
}

func (m *Model) register(n Node, base *node) {
	m.checkMutable(base.name)
	value, err := safecast.Conv[uint32](len(m.nodes))
	if err != nil {
		panic(fmt.Errorf("model nodes arena overflow: %w", err))
	}
	base.id = NodeID(value)
	base.model = m
	m.nodes = append(m.nodes, n)
}
