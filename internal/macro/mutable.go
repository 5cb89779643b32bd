package macro

import (
	"facet/internal/model"
	"facet/internal/typeref"
	"facet/internal/types"
)

// documentedNode is a model node whose documentation can be edited.
type documentedNode interface {
	model.Node
	SetDocComment(string)
	SetDeprecated(bool)
}

// mutableBase implements the setters shared by all mutable kinds.
type mutableBase struct {
	owner  *CompilationUnit
	target documentedNode
}

func (m mutableBase) SetDocComment(doc string) error {
	return m.owner.gate.Guard("setDocComment", m.target, func() error {
		m.target.SetDocComment(doc)
		return nil
	})
}

func (m mutableBase) SetDeprecated(deprecated bool) error {
	return m.owner.gate.Guard("setDeprecated", m.target, func() error {
		m.target.SetDeprecated(deprecated)
		return nil
	})
}

// setFlag is the common shape of boolean modifier setters.
func (m mutableBase) setFlag(op string, set func(bool), value bool) error {
	return m.owner.gate.Guard(op, m.target, func() error {
		set(value)
		return nil
	})
}

func (m mutableBase) setVisibility(set func(model.Visibility), v model.Visibility) error {
	return m.owner.gate.Guard("setVisibility", m.target, func() error {
		if v > model.VisibilityPublic {
			return invalidArgument("unknown visibility %d", v)
		}
		set(v)
		return nil
	})
}

type mutableTypeView struct {
	*typeView
	mutableBase
}

func newMutableTypeView(v *typeView) *mutableTypeView {
	return &mutableTypeView{typeView: v, mutableBase: mutableBase{owner: v.unit, target: v.t}}
}

func (v *mutableTypeView) SetAbstract(abstract bool) error {
	return v.setFlag("setAbstract", v.t.SetAbstract, abstract)
}

func (v *mutableTypeView) SetFinal(final bool) error {
	return v.setFlag("setFinal", v.t.SetFinal, final)
}

func (v *mutableTypeView) SetStatic(static bool) error {
	return v.setFlag("setStatic", v.t.SetStatic, static)
}

func (v *mutableTypeView) SetStrictFloatingPoint(strict bool) error {
	return v.setFlag("setStrictFloatingPoint", v.t.SetStrictFloatingPoint, strict)
}

func (v *mutableTypeView) SetVisibility(vis model.Visibility) error {
	return v.setVisibility(v.t.SetVisibility, vis)
}

func (v *mutableTypeView) AddField(name string, typ *typeref.Reference) (MutableFieldDeclaration, error) {
	var added MutableFieldDeclaration
	err := v.unit.gate.Guard("addField", v.t, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("field name %q is not an identifier", name)
		}
		if _, dup := v.t.FindField(name); dup {
			return invalidArgument("field %q already exists", name)
		}
		id, err := v.unit.resolveValueType(v.t, typ)
		if err != nil {
			return err
		}
		f := v.t.AddField(name, id, v.t.Pos())
		added, err = v.unit.AsMutableField(v.unit.fieldDecl(f))
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (v *mutableTypeView) AddMethod(name string) (MutableMethodDeclaration, error) {
	var added MutableMethodDeclaration
	err := v.unit.gate.Guard("addMethod", v.t, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("method name %q is not an identifier", name)
		}
		op := v.t.AddOperation(name, v.t.Pos())
		var err error
		added, err = v.unit.AsMutableMethod(v.unit.methodDecl(op))
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (v *mutableTypeView) MutableMethods() ([]MutableMethodDeclaration, error) {
	return convertAll(v.Methods(), v.unit.AsMutableMethod)
}

func (v *mutableTypeView) MutableFields() ([]MutableFieldDeclaration, error) {
	return convertAll(v.Fields(), v.unit.AsMutableField)
}

func (v *mutableTypeView) MutableTypeParameters() ([]MutableTypeParameterDeclaration, error) {
	return convertAll(v.TypeParameters(), v.unit.AsMutableTypeParameter)
}

type mutableMethodView struct {
	*methodView
	mutableBase
}

func newMutableMethodView(v *methodView) *mutableMethodView {
	return &mutableMethodView{methodView: v, mutableBase: mutableBase{owner: v.unit, target: v.op}}
}

func (v *mutableMethodView) SetSimpleName(name string) error {
	return v.unit.gate.Guard("setSimpleName", v.op, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("method name %q is not an identifier", name)
		}
		v.op.SetSimpleName(name)
		return nil
	})
}

func (v *mutableMethodView) SetReturnType(typ *typeref.Reference) error {
	return v.unit.gate.Guard("setReturnType", v.op, func() error {
		if typ == nil {
			return invalidArgument("return type cannot be nil")
		}
		id, err := v.unit.resolverFor(v.op).Resolve(typ)
		if err != nil {
			return err
		}
		v.op.SetReturnType(id)
		return nil
	})
}

func (v *mutableMethodView) SetStatic(static bool) error {
	return v.setFlag("setStatic", v.op.SetStatic, static)
}

func (v *mutableMethodView) SetFinal(final bool) error {
	return v.setFlag("setFinal", v.op.SetFinal, final)
}

func (v *mutableMethodView) SetAbstract(abstract bool) error {
	return v.setFlag("setAbstract", v.op.SetAbstract, abstract)
}

func (v *mutableMethodView) SetNative(native bool) error {
	return v.setFlag("setNative", v.op.SetNative, native)
}

func (v *mutableMethodView) SetSynchronized(synchronized bool) error {
	return v.setFlag("setSynchronized", v.op.SetSynchronized, synchronized)
}

func (v *mutableMethodView) SetDefault(isDefault bool) error {
	return v.setFlag("setDefault", v.op.SetDefault, isDefault)
}

func (v *mutableMethodView) SetStrictFloatingPoint(strict bool) error {
	return v.setFlag("setStrictFloatingPoint", v.op.SetStrictFloatingPoint, strict)
}

func (v *mutableMethodView) SetVarArgs(varArgs bool) error {
	return v.setFlag("setVarArgs", v.op.SetVarArgs, varArgs)
}

func (v *mutableMethodView) SetVisibility(vis model.Visibility) error {
	return v.setVisibility(v.op.SetVisibility, vis)
}

func (v *mutableMethodView) AddParameter(name string, typ *typeref.Reference) (MutableParameterDeclaration, error) {
	var added MutableParameterDeclaration
	err := v.unit.gate.Guard("addParameter", v.op, func() error {
		if !typeref.IsIdentifier(name) {
			return invalidArgument("parameter name %q is not an identifier", name)
		}
		for _, p := range v.op.Parameters() {
			if p.SimpleName() == name {
				return invalidArgument("parameter %q already exists", name)
			}
		}
		id, err := v.unit.resolveValueType(v.op, typ)
		if err != nil {
			return err
		}
		p := v.op.AddParameter(name, id, v.op.Pos())
		added, err = v.unit.AsMutableParameter(v.unit.parameterDecl(p))
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (v *mutableMethodView) MarkAsRead() error {
	return v.unit.gate.Guard("markAsRead", v.op, func() error {
		v.unit.markRead(v.op)
		return nil
	})
}

func (v *mutableMethodView) MutableParameters() ([]MutableParameterDeclaration, error) {
	return convertAll(v.Parameters(), v.unit.AsMutableParameter)
}

func (v *mutableMethodView) MutableTypeParameters() ([]MutableTypeParameterDeclaration, error) {
	return convertAll(v.TypeParameters(), v.unit.AsMutableTypeParameter)
}

func (v *mutableMethodView) MutableDeclaringType() (MutableTypeDeclaration, error) {
	return v.unit.AsMutableType(v.DeclaringType())
}

// resolveValueType resolves the type of a field or parameter. void is not a value type.
func (u *CompilationUnit) resolveValueType(scope model.Node, typ *typeref.Reference) (types.TypeID, error) {
	if typ == nil {
		return types.NoTypeID, invalidArgument("type cannot be nil")
	}
	id, err := u.resolverFor(scope).Resolve(typ)
	if err != nil {
		return types.NoTypeID, err
	}
	if id == u.model.TypeInterner().Builtins().Void {
		return types.NoTypeID, invalidArgument("void is not a value type")
	}
	return id, nil
}
