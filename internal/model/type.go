package model

import (
	"fmt"
	"slices"

	"facet/internal/source"
	"facet/internal/types"
)

// TypeKind distinguishes the flavours of declared types.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeInterface
	TypeEnum
	TypeAnnotation
)

func (k TypeKind) String() string {
	switch k {
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	case TypeAnnotation:
		return "annotation"
	default:
		return "class"
	}
}

// ParseTypeKind converts a keyword into a TypeKind.
func ParseTypeKind(s string) (TypeKind, error) {
	switch s {
	case "", "class":
		return TypeClass, nil
	case "interface":
		return TypeInterface, nil
	case "enum":
		return TypeEnum, nil
	case "annotation":
		return TypeAnnotation, nil
	}
	return TypeClass, fmt.Errorf("invalid type kind %q (expected: class|interface|enum|annotation)", s)
}

// Type is a declared class, interface, enum or annotation type.
type Type struct {
	node
	kind       TypeKind
	origin     Origin
	qualified  string
	classType  types.TypeID
	visibility Visibility
	abstract   bool
	final      bool
	static     bool
	strictfp   bool
	superclass types.TypeID
	interfaces []types.TypeID
	operations []*Operation
	fields     []*Field
	typeParams []*TypeParameter
}

func (t *Type) Kind() NodeKind        { return KindType }
func (t *Type) Origin() Origin        { return t.origin }
func (t *Type) TypeKind() TypeKind    { return t.kind }
func (t *Type) QualifiedName() string { return t.qualified }

// ClassType is the nominal TypeID registered for this declaration.
func (t *Type) ClassType() types.TypeID { return t.classType }

func (t *Type) Visibility() Visibility     { return t.visibility }
func (t *Type) SetVisibility(v Visibility) { assign(&t.node, &t.visibility, v) }

func (t *Type) IsAbstract() bool              { return t.abstract || t.kind == TypeInterface }
func (t *Type) SetAbstract(v bool)            { assign(&t.node, &t.abstract, v) }
func (t *Type) IsFinal() bool                 { return t.final }
func (t *Type) SetFinal(v bool)               { assign(&t.node, &t.final, v) }
func (t *Type) IsStatic() bool                { return t.static }
func (t *Type) SetStatic(v bool)              { assign(&t.node, &t.static, v) }
func (t *Type) IsStrictFloatingPoint() bool   { return t.strictfp }
func (t *Type) SetStrictFloatingPoint(v bool) { assign(&t.node, &t.strictfp, v) }

func (t *Type) Superclass() types.TypeID      { return t.superclass }
func (t *Type) SetSuperclass(id types.TypeID) { assign(&t.node, &t.superclass, id) }

// Interfaces returns a copy of the implemented interface types.
func (t *Type) Interfaces() []types.TypeID { return slices.Clone(t.interfaces) }

func (t *Type) SetInterfaces(ids []types.TypeID) {
	assign(&t.node, &t.interfaces, slices.Clone(ids))
}

// Operations returns declared methods in declaration order.
func (t *Type) Operations() []*Operation { return slices.Clone(t.operations) }

// Fields returns declared fields in declaration order.
func (t *Type) Fields() []*Field { return slices.Clone(t.fields) }

// TypeParameters returns the declared type parameters.
func (t *Type) TypeParameters() []*TypeParameter { return slices.Clone(t.typeParams) }

// AddOperation declares a method returning void.
func (t *Type) AddOperation(name string, pos source.Pos) *Operation {
	op := &Operation{declaring: t, returnType: t.model.types.Builtins().Void}
	op.name = name
	op.pos = pos
	t.model.register(op, &op.node)
	t.operations = append(t.operations, op)
	return op
}

// AddField declares a field of the given type.
func (t *Type) AddField(name string, typ types.TypeID, pos source.Pos) *Field {
	f := &Field{declaring: t, typ: typ}
	f.name = name
	f.pos = pos
	t.model.register(f, &f.node)
	t.fields = append(t.fields, f)
	return f
}

// AddTypeParameter declares a type parameter on the type and records it in
// the class metadata used for arity checks.
func (t *Type) AddTypeParameter(name string, pos source.Pos) *TypeParameter {
	t.mutate()
	tp := newTypeParameter(t, name, len(t.typeParams), pos)
	t.typeParams = append(t.typeParams, tp)
	ids := make([]types.TypeID, len(t.typeParams))
	for i, p := range t.typeParams {
		ids[i] = p.typeID
	}
	t.model.types.SetClassTypeParams(t.classType, ids)
	return tp
}

// FindOperation returns the first method with the given name.
func (t *Type) FindOperation(name string) (*Operation, bool) {
	for _, op := range t.operations {
		if op.name == name {
			return op, true
		}
	}
	return nil, false
}

// FindField returns the field with the given name.
func (t *Type) FindField(name string) (*Field, bool) {
	for _, f := range t.fields {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}
