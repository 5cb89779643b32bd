package model

import (
	"slices"

	"facet/internal/source"
	"facet/internal/types"
)

// Operation is a method declared by a Type.
type Operation struct {
	node
	declaring    *Type
	visibility   Visibility
	static       bool
	final        bool
	abstract     bool
	native       bool
	synchronized bool
	isDefault    bool
	strictfp     bool
	varArgs      bool
	returnType   types.TypeID
	params       []*Parameter
	typeParams   []*TypeParameter
}

func (op *Operation) Kind() NodeKind { return KindOperation }

// Origin follows the declaring type.
func (op *Operation) Origin() Origin { return op.declaring.origin }

// DeclaringType returns the enclosing type.
func (op *Operation) DeclaringType() *Type { return op.declaring }

func (op *Operation) Visibility() Visibility     { return op.visibility }
func (op *Operation) SetVisibility(v Visibility) { assign(&op.node, &op.visibility, v) }

func (op *Operation) IsStatic() bool                { return op.static }
func (op *Operation) SetStatic(v bool)              { assign(&op.node, &op.static, v) }
func (op *Operation) IsFinal() bool                 { return op.final }
func (op *Operation) SetFinal(v bool)               { assign(&op.node, &op.final, v) }
func (op *Operation) IsAbstract() bool              { return op.abstract }
func (op *Operation) SetAbstract(v bool)            { assign(&op.node, &op.abstract, v) }
func (op *Operation) IsNative() bool                { return op.native }
func (op *Operation) SetNative(v bool)              { assign(&op.node, &op.native, v) }
func (op *Operation) IsSynchronized() bool          { return op.synchronized }
func (op *Operation) SetSynchronized(v bool)        { assign(&op.node, &op.synchronized, v) }
func (op *Operation) IsDefault() bool               { return op.isDefault }
func (op *Operation) SetDefault(v bool)             { assign(&op.node, &op.isDefault, v) }
func (op *Operation) IsStrictFloatingPoint() bool   { return op.strictfp }
func (op *Operation) SetStrictFloatingPoint(v bool) { assign(&op.node, &op.strictfp, v) }
func (op *Operation) IsVarArgs() bool               { return op.varArgs }
func (op *Operation) SetVarArgs(v bool)             { assign(&op.node, &op.varArgs, v) }

func (op *Operation) ReturnType() types.TypeID      { return op.returnType }
func (op *Operation) SetReturnType(id types.TypeID) { assign(&op.node, &op.returnType, id) }

// Parameters returns the formal parameters in order.
func (op *Operation) Parameters() []*Parameter { return slices.Clone(op.params) }

// TypeParameters returns the method's own type parameters.
func (op *Operation) TypeParameters() []*TypeParameter { return slices.Clone(op.typeParams) }

// AddParameter appends a formal parameter.
func (op *Operation) AddParameter(name string, typ types.TypeID, pos source.Pos) *Parameter {
	p := &Parameter{declaring: op, typ: typ}
	p.name = name
	p.pos = pos
	op.declaring.model.register(p, &p.node)
	op.params = append(op.params, p)
	return p
}

// AddTypeParameter declares a method type parameter.
func (op *Operation) AddTypeParameter(name string, pos source.Pos) *TypeParameter {
	op.mutate()
	tp := newTypeParameter(op, name, len(op.typeParams), pos)
	op.typeParams = append(op.typeParams, tp)
	return tp
}
