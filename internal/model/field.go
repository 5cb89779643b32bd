package model

import "facet/internal/types"

// Field is a field declared by a Type.
type Field struct {
	node
	declaring   *Type
	visibility  Visibility
	static      bool
	final       bool
	transient   bool
	volatile    bool
	typ         types.TypeID
	initializer string
}

func (f *Field) Kind() NodeKind       { return KindField }
func (f *Field) Origin() Origin       { return f.declaring.origin }
func (f *Field) DeclaringType() *Type { return f.declaring }

func (f *Field) Visibility() Visibility     { return f.visibility }
func (f *Field) SetVisibility(v Visibility) { assign(&f.node, &f.visibility, v) }

func (f *Field) IsStatic() bool      { return f.static }
func (f *Field) SetStatic(v bool)    { assign(&f.node, &f.static, v) }
func (f *Field) IsFinal() bool       { return f.final }
func (f *Field) SetFinal(v bool)     { assign(&f.node, &f.final, v) }
func (f *Field) IsTransient() bool   { return f.transient }
func (f *Field) SetTransient(v bool) { assign(&f.node, &f.transient, v) }
func (f *Field) IsVolatile() bool    { return f.volatile }
func (f *Field) SetVolatile(v bool)  { assign(&f.node, &f.volatile, v) }

func (f *Field) Type() types.TypeID      { return f.typ }
func (f *Field) SetType(id types.TypeID) { assign(&f.node, &f.typ, id) }

// Initializer is the opaque initializer expression text, "" when absent.
func (f *Field) Initializer() string     { return f.initializer }
func (f *Field) SetInitializer(s string) { assign(&f.node, &f.initializer, s) }
