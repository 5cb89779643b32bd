package macro

import (
	"facet/internal/model"
	"facet/internal/source"
	"facet/internal/typeref"
	"facet/internal/types"
)

// annotatedNode is the part of the model node surface shared by all kinds.
type annotatedNode interface {
	model.Node
	DocComment() string
	IsDeprecated() bool
	Annotations() []model.Annotation
	FindAnnotation(name string) (model.Annotation, bool)
}

// base holds what every view carries: the owning unit and the delegate.
type base struct {
	unit *CompilationUnit
	node annotatedNode
}

func (b base) Unit() *CompilationUnit          { return b.unit }
func (b base) SimpleName() string              { return b.node.SimpleName() }
func (b base) DocComment() string              { return b.node.DocComment() }
func (b base) IsDeprecated() bool              { return b.node.IsDeprecated() }
func (b base) Pos() source.Pos                 { return b.node.Pos() }
func (b base) IsLibrary() bool                 { return b.node.Origin() == model.OriginLibrary }
func (b base) Name() string                    { return model.DisplayName(b.node) }
func (b base) delegate() model.Node            { return b.node }
func (b base) Annotations() []model.Annotation { return b.node.Annotations() }

func (b base) FindAnnotation(name string) (model.Annotation, bool) {
	return b.node.FindAnnotation(name)
}

func (b base) ref(id types.TypeID) *typeref.Reference {
	return b.unit.reference(id)
}

func (b base) refs(ids []types.TypeID) []*typeref.Reference {
	out := make([]*typeref.Reference, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.unit.reference(id))
	}
	return out
}

type typeView struct {
	base
	t *model.Type
}

func (v *typeView) QualifiedName() string          { return v.t.QualifiedName() }
func (v *typeView) TypeKind() model.TypeKind       { return v.t.TypeKind() }
func (v *typeView) Visibility() model.Visibility   { return v.t.Visibility() }
func (v *typeView) IsAbstract() bool               { return v.t.IsAbstract() }
func (v *typeView) IsFinal() bool                  { return v.t.IsFinal() }
func (v *typeView) IsStatic() bool                 { return v.t.IsStatic() }
func (v *typeView) IsStrictFloatingPoint() bool    { return v.t.IsStrictFloatingPoint() }
func (v *typeView) Type() *typeref.Reference       { return v.ref(v.t.ClassType()) }
func (v *typeView) Superclass() *typeref.Reference { return v.ref(v.t.Superclass()) }
func (v *typeView) Interfaces() []*typeref.Reference {
	return v.refs(v.t.Interfaces())
}

func (v *typeView) Methods() []MethodDeclaration {
	ops := v.t.Operations()
	out := make([]MethodDeclaration, 0, len(ops))
	for _, op := range ops {
		out = append(out, v.unit.methodDecl(op))
	}
	return out
}

func (v *typeView) Fields() []FieldDeclaration {
	fields := v.t.Fields()
	out := make([]FieldDeclaration, 0, len(fields))
	for _, f := range fields {
		out = append(out, v.unit.fieldDecl(f))
	}
	return out
}

func (v *typeView) TypeParameters() []TypeParameterDeclaration {
	return v.unit.typeParamDecls(v.t.TypeParameters())
}

func (v *typeView) FindMethod(name string) (MethodDeclaration, bool) {
	op, ok := v.t.FindOperation(name)
	if !ok {
		return nil, false
	}
	return v.unit.methodDecl(op), true
}

func (v *typeView) FindField(name string) (FieldDeclaration, bool) {
	f, ok := v.t.FindField(name)
	if !ok {
		return nil, false
	}
	return v.unit.fieldDecl(f), true
}

type methodView struct {
	base
	op *model.Operation
}

func (v *methodView) DeclaringType() TypeDeclaration {
	return v.unit.typeDecl(v.op.DeclaringType())
}

func (v *methodView) Visibility() model.Visibility   { return v.op.Visibility() }
func (v *methodView) ReturnType() *typeref.Reference { return v.ref(v.op.ReturnType()) }
func (v *methodView) IsStatic() bool                 { return v.op.IsStatic() }
func (v *methodView) IsFinal() bool                  { return v.op.IsFinal() }
func (v *methodView) IsAbstract() bool               { return v.op.IsAbstract() }
func (v *methodView) IsNative() bool                 { return v.op.IsNative() }
func (v *methodView) IsSynchronized() bool           { return v.op.IsSynchronized() }
func (v *methodView) IsDefault() bool                { return v.op.IsDefault() }
func (v *methodView) IsStrictFloatingPoint() bool    { return v.op.IsStrictFloatingPoint() }
func (v *methodView) IsVarArgs() bool                { return v.op.IsVarArgs() }

func (v *methodView) Parameters() []ParameterDeclaration {
	params := v.op.Parameters()
	out := make([]ParameterDeclaration, 0, len(params))
	for _, p := range params {
		out = append(out, v.unit.parameterDecl(p))
	}
	return out
}

func (v *methodView) TypeParameters() []TypeParameterDeclaration {
	return v.unit.typeParamDecls(v.op.TypeParameters())
}

type fieldView struct {
	base
	f *model.Field
}

func (v *fieldView) Visibility() model.Visibility   { return v.f.Visibility() }
func (v *fieldView) DeclaringType() TypeDeclaration { return v.unit.typeDecl(v.f.DeclaringType()) }
func (v *fieldView) Type() *typeref.Reference       { return v.ref(v.f.Type()) }
func (v *fieldView) IsStatic() bool                 { return v.f.IsStatic() }
func (v *fieldView) IsFinal() bool                  { return v.f.IsFinal() }
func (v *fieldView) IsTransient() bool              { return v.f.IsTransient() }
func (v *fieldView) IsVolatile() bool               { return v.f.IsVolatile() }
func (v *fieldView) Initializer() string            { return v.f.Initializer() }

type parameterView struct {
	base
	p *model.Parameter
}

func (v *parameterView) Type() *typeref.Reference { return v.ref(v.p.Type()) }

func (v *parameterView) DeclaringMethod() MethodDeclaration {
	return v.unit.methodDecl(v.p.DeclaringOperation())
}

type typeParameterView struct {
	base
	tp *model.TypeParameter
}

func (v *typeParameterView) Type() *typeref.Reference { return v.ref(v.tp.TypeID()) }

func (v *typeParameterView) UpperBounds() []*typeref.Reference {
	return v.refs(v.tp.UpperBounds())
}

func (v *typeParameterView) Declarator() Declaration {
	return v.unit.declarationFor(v.tp.Declarator())
}
