package model

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"facet/internal/source"
	"facet/internal/types"
)

// Parameter is a formal parameter of an Operation.
type Parameter struct {
	node
	declaring *Operation
	typ       types.TypeID
}

func (p *Parameter) Kind() NodeKind                 { return KindParameter }
func (p *Parameter) Origin() Origin                 { return p.declaring.Origin() }
func (p *Parameter) DeclaringOperation() *Operation { return p.declaring }
func (p *Parameter) Type() types.TypeID             { return p.typ }
func (p *Parameter) SetType(id types.TypeID)        { assign(&p.node, &p.typ, id) }

// TypeParameter is a generic parameter declared by a Type or an Operation.
type TypeParameter struct {
	node
	declarator  Node
	typeID      types.TypeID
	upperBounds []types.TypeID
}

func newTypeParameter(declarator Node, name string, index int, pos source.Pos) *TypeParameter {
	m := declarator.Model()
	idx, err := safecast.Conv[uint32](index)
	if err != nil {
		panic(fmt.Errorf("type parameter index overflow: %w", err))
	}
	tp := &TypeParameter{
		declarator: declarator,
		typeID:     m.types.RegisterTypeParam(name, uint32(declarator.ID()), idx),
	}
	tp.name = name
	tp.pos = pos
	m.register(tp, &tp.node)
	return tp
}

func (tp *TypeParameter) Kind() NodeKind { return KindTypeParameter }
func (tp *TypeParameter) Origin() Origin { return tp.declarator.Origin() }

// Declarator is the declaring *Type or *Operation.
func (tp *TypeParameter) Declarator() Node { return tp.declarator }

// TypeID is the KindTypeParam type standing for this parameter.
func (tp *TypeParameter) TypeID() types.TypeID { return tp.typeID }

func (tp *TypeParameter) UpperBounds() []types.TypeID { return slices.Clone(tp.upperBounds) }

func (tp *TypeParameter) SetUpperBounds(ids []types.TypeID) {
	assign(&tp.node, &tp.upperBounds, slices.Clone(ids))
}
