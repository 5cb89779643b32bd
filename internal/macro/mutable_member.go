package macro

import (
	"facet/internal/model"
	"facet/internal/typeref"
	"facet/internal/types"
)

type mutableFieldView struct {
	*fieldView
	mutableBase
}

func newMutableFieldView(v *fieldView) *mutableFieldView {
	return &mutableFieldView{fieldView: v, mutableBase: mutableBase{owner: v.unit, target: v.f}}
}

func (v *mutableFieldView) SetSimpleName(name string) error {
	return v.unit.gate.Guard("setSimpleName", v.f, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("field name %q is not an identifier", name)
		}
		if other, dup := v.f.DeclaringType().FindField(name); dup && other != v.f {
			return invalidArgument("field %q already exists", name)
		}
		v.f.SetSimpleName(name)
		return nil
	})
}

func (v *mutableFieldView) SetType(typ *typeref.Reference) error {
	return v.unit.gate.Guard("setType", v.f, func() error {
		id, err := v.unit.resolveValueType(v.f.DeclaringType(), typ)
		if err != nil {
			return err
		}
		v.f.SetType(id)
		return nil
	})
}

func (v *mutableFieldView) SetStatic(static bool) error {
	return v.setFlag("setStatic", v.f.SetStatic, static)
}

func (v *mutableFieldView) SetFinal(final bool) error {
	return v.setFlag("setFinal", v.f.SetFinal, final)
}

func (v *mutableFieldView) SetTransient(transient bool) error {
	return v.setFlag("setTransient", v.f.SetTransient, transient)
}

func (v *mutableFieldView) SetVolatile(volatile bool) error {
	return v.setFlag("setVolatile", v.f.SetVolatile, volatile)
}

func (v *mutableFieldView) SetVisibility(vis model.Visibility) error {
	return v.setVisibility(v.f.SetVisibility, vis)
}

func (v *mutableFieldView) SetInitializer(expr string) error {
	return v.unit.gate.Guard("setInitializer", v.f, func() error {
		v.f.SetInitializer(expr)
		if expr != "" {
			v.unit.markWritten(v.f)
		}
		return nil
	})
}

func (v *mutableFieldView) MarkAsRead() error {
	return v.unit.gate.Guard("markAsRead", v.f, func() error {
		v.unit.markRead(v.f)
		return nil
	})
}

func (v *mutableFieldView) MarkAsInitialized() error {
	return v.unit.gate.Guard("markAsInitialized", v.f, func() error {
		v.unit.markWritten(v.f)
		return nil
	})
}

func (v *mutableFieldView) MutableDeclaringType() (MutableTypeDeclaration, error) {
	return v.unit.AsMutableType(v.DeclaringType())
}

type mutableParameterView struct {
	*parameterView
	mutableBase
}

func newMutableParameterView(v *parameterView) *mutableParameterView {
	return &mutableParameterView{parameterView: v, mutableBase: mutableBase{owner: v.unit, target: v.p}}
}

func (v *mutableParameterView) SetSimpleName(name string) error {
	return v.unit.gate.Guard("setSimpleName", v.p, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("parameter name %q is not an identifier", name)
		}
		for _, other := range v.p.DeclaringOperation().Parameters() {
			if other != v.p && other.SimpleName() == name {
				return invalidArgument("parameter %q already exists", name)
			}
		}
		v.p.SetSimpleName(name)
		return nil
	})
}

func (v *mutableParameterView) SetType(typ *typeref.Reference) error {
	return v.unit.gate.Guard("setType", v.p, func() error {
		id, err := v.unit.resolveValueType(v.p.DeclaringOperation(), typ)
		if err != nil {
			return err
		}
		v.p.SetType(id)
		return nil
	})
}

func (v *mutableParameterView) MutableDeclaringMethod() (MutableMethodDeclaration, error) {
	return v.unit.AsMutableMethod(v.DeclaringMethod())
}

type mutableTypeParameterView struct {
	*typeParameterView
	mutableBase
}

func newMutableTypeParameterView(v *typeParameterView) *mutableTypeParameterView {
	return &mutableTypeParameterView{typeParameterView: v, mutableBase: mutableBase{owner: v.unit, target: v.tp}}
}

// SetUpperBounds replaces all bounds. Either every bound resolves or none is applied.
func (v *mutableTypeParameterView) SetUpperBounds(bounds ...*typeref.Reference) error {
	return v.unit.gate.Guard("setUpperBounds", v.tp, func() error {
		r := v.unit.resolverFor(v.tp.Declarator())
		ids := make([]types.TypeID, 0, len(bounds))
		for i, b := range bounds {
			if b == nil {
				return invalidArgument("upper bound %d is nil", i+1)
			}
			id, err := r.Resolve(b)
			if err != nil {
				return err
			}
			if v.unit.isPrimitive(id) {
				return invalidTypeReference("primitive %s cannot be an upper bound", b)
			}
			ids = append(ids, id)
		}
		v.tp.SetUpperBounds(ids)
		return nil
	})
}

func (v *mutableTypeParameterView) MutableDeclarator() (MutableDeclaration, error) {
	switch d := v.Declarator().(type) {
	case TypeDeclaration:
		return v.unit.AsMutableType(d)
	case MethodDeclaration:
		return v.unit.AsMutableMethod(d)
	default:
		return nil, ErrCapabilityMismatch
	}
}
