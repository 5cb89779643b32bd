// Package testkit holds structural checks shared by tests of several packages.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"facet/internal/model"
	"facet/internal/types"
)

// CheckModelInvariants runs a minimal set of structural checks on a model:
// 1) every arena slot resolves to a node carrying that ID
// 2) members point back to their declaring type or operation
// 3) every referenced TypeID is interned, member types are never NoTypeID
// 4) qualified type names are unique and FindType returns the declared type
// 5) field, parameter and type parameter names are unique within their owner
func CheckModelInvariants(m *model.Model) error {
	if m == nil {
		return errors.New("nil model")
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	// 1) arena identity
	for i := 1; i <= m.Len(); i++ {
		id, err := safecast.Conv[model.NodeID](i)
		if err != nil {
			return fmt.Errorf("node id overflow: %w", err)
		}
		n := m.Node(id)
		if n == nil || n.ID() != id {
			fail("node slot %d does not resolve to itself", i)
		}
	}

	in := m.TypeInterner()
	interned := func(id types.TypeID, allowNone bool, what string) {
		if id == types.NoTypeID {
			if !allowNone {
				fail("%s has no type", what)
			}
			return
		}
		if _, ok := in.Lookup(id); !ok {
			fail("%s refers to unknown type #%d", what, id)
		}
	}

	seen := make(map[string]bool, len(m.Types()))
	for _, t := range m.Types() {
		name := t.QualifiedName()
		// 4) unique names
		if seen[name] {
			fail("type %s declared twice", name)
		}
		seen[name] = true
		if found, ok := m.FindType(name); !ok || found != t {
			fail("FindType(%s) does not return the declared type", name)
		}

		interned(t.ClassType(), false, name)
		interned(t.Superclass(), true, name+" superclass")
		for _, id := range t.Interfaces() {
			interned(id, false, name+" interface")
		}
		checkTypeParams(t.TypeParameters(), t, interned, fail)
		uniqueNames(t.Fields(), name, fail)

		// 2) back links
		for _, f := range t.Fields() {
			what := model.DisplayName(f)
			if f.DeclaringType() != t {
				fail("%s is not owned by %s", what, name)
			}
			interned(f.Type(), false, what)
		}
		for _, op := range t.Operations() {
			what := model.DisplayName(op)
			if op.DeclaringType() != t {
				fail("%s is not owned by %s", what, name)
			}
			interned(op.ReturnType(), true, what+" return")
			checkTypeParams(op.TypeParameters(), op, interned, fail)
			uniqueNames(op.Parameters(), what, fail)
			for _, p := range op.Parameters() {
				if p.DeclaringOperation() != op {
					fail("%s is not owned by %s", model.DisplayName(p), what)
				}
				interned(p.Type(), false, model.DisplayName(p))
			}
		}
	}
	return errors.Join(errs...)
}

// uniqueNames reports every simple name used twice among nodes.
func uniqueNames[N model.Node](nodes []N, owner string, fail func(string, ...any)) {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		name := n.SimpleName()
		if seen[name] {
			fail("%s declares %s %q twice", owner, n.Kind(), name)
		}
		seen[name] = true
	}
}

func checkTypeParams(params []*model.TypeParameter, owner model.Node, interned func(types.TypeID, bool, string), fail func(string, ...any)) {
	uniqueNames(params, model.DisplayName(owner), fail)
	for _, tp := range params {
		what := model.DisplayName(tp)
		if tp.Declarator() != owner {
			fail("%s is not declared by %s", what, model.DisplayName(owner))
		}
		interned(tp.TypeID(), false, what)
		for _, b := range tp.UpperBounds() {
			interned(b, false, what+" bound")
		}
	}
}
