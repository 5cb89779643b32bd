package macro

import (
	"facet/internal/model"
	"facet/internal/source"
	"facet/internal/typeref"
)

// Declaration is the read-only capability set shared by every declaration kind.
type Declaration interface {
	Unit() *CompilationUnit
	SimpleName() string
	DocComment() string
	IsDeprecated() bool
	Annotations() []model.Annotation
	FindAnnotation(name string) (model.Annotation, bool)
	Pos() source.Pos
	// IsLibrary reports a declaration that was not compiled from the unit's file.
	IsLibrary() bool
	// Name is the display name used in diagnostics, e.g. "demo.Widget.compute".
	Name() string

	delegate() model.Node
}

// MemberDeclaration is a declaration owned by a type.
type MemberDeclaration interface {
	Declaration
	Visibility() model.Visibility
	DeclaringType() TypeDeclaration
}

type TypeDeclaration interface {
	Declaration
	QualifiedName() string
	TypeKind() model.TypeKind
	Visibility() model.Visibility
	IsAbstract() bool
	IsFinal() bool
	IsStatic() bool
	IsStrictFloatingPoint() bool
	// Type references the declared class itself.
	Type() *typeref.Reference
	Superclass() *typeref.Reference
	Interfaces() []*typeref.Reference
	Methods() []MethodDeclaration
	Fields() []FieldDeclaration
	TypeParameters() []TypeParameterDeclaration
	FindMethod(name string) (MethodDeclaration, bool)
	FindField(name string) (FieldDeclaration, bool)
}

type MethodDeclaration interface {
	MemberDeclaration
	ReturnType() *typeref.Reference
	IsStatic() bool
	IsFinal() bool
	IsAbstract() bool
	IsNative() bool
	IsSynchronized() bool
	IsDefault() bool
	IsStrictFloatingPoint() bool
	IsVarArgs() bool
	Parameters() []ParameterDeclaration
	TypeParameters() []TypeParameterDeclaration
}

type FieldDeclaration interface {
	MemberDeclaration
	Type() *typeref.Reference
	IsStatic() bool
	IsFinal() bool
	IsTransient() bool
	IsVolatile() bool
	Initializer() string
}

type ParameterDeclaration interface {
	Declaration
	Type() *typeref.Reference
	DeclaringMethod() MethodDeclaration
}

type TypeParameterDeclaration interface {
	Declaration
	// Type references the type variable itself.
	Type() *typeref.Reference
	UpperBounds() []*typeref.Reference
	// Declarator is the declaring TypeDeclaration or MethodDeclaration.
	Declarator() Declaration
}

// MutableDeclaration adds the setters every mutable kind shares.
type MutableDeclaration interface {
	Declaration
	SetDocComment(doc string) error
	SetDeprecated(deprecated bool) error
}

type MutableTypeDeclaration interface {
	TypeDeclaration
	MutableDeclaration
	SetAbstract(abstract bool) error
	SetFinal(final bool) error
	SetStatic(static bool) error
	SetStrictFloatingPoint(strict bool) error
	SetVisibility(v model.Visibility) error
	AddField(name string, typ *typeref.Reference) (MutableFieldDeclaration, error)
	AddMethod(name string) (MutableMethodDeclaration, error)
	MutableMethods() ([]MutableMethodDeclaration, error)
	MutableFields() ([]MutableFieldDeclaration, error)
	MutableTypeParameters() ([]MutableTypeParameterDeclaration, error)
}

type MutableMethodDeclaration interface {
	MethodDeclaration
	MutableDeclaration
	SetSimpleName(name string) error
	SetReturnType(typ *typeref.Reference) error
	SetStatic(static bool) error
	SetFinal(final bool) error
	SetAbstract(abstract bool) error
	SetNative(native bool) error
	SetSynchronized(synchronized bool) error
	SetDefault(isDefault bool) error
	SetStrictFloatingPoint(strict bool) error
	SetVarArgs(varArgs bool) error
	SetVisibility(v model.Visibility) error
	AddParameter(name string, typ *typeref.Reference) (MutableParameterDeclaration, error)
	// MarkAsRead records that generated code references this method.
	MarkAsRead() error
	MutableParameters() ([]MutableParameterDeclaration, error)
	MutableTypeParameters() ([]MutableTypeParameterDeclaration, error)
	MutableDeclaringType() (MutableTypeDeclaration, error)
}

type MutableFieldDeclaration interface {
	FieldDeclaration
	MutableDeclaration
	SetSimpleName(name string) error
	SetType(typ *typeref.Reference) error
	SetStatic(static bool) error
	SetFinal(final bool) error
	SetTransient(transient bool) error
	SetVolatile(volatile bool) error
	SetVisibility(v model.Visibility) error
	// SetInitializer replaces the initializer expression; a non-empty
	// expression counts as a write of the field.
	SetInitializer(expr string) error
	// MarkAsRead records that generated code reads the field.
	MarkAsRead() error
	// MarkAsInitialized records that generated code assigns the field.
	MarkAsInitialized() error
	MutableDeclaringType() (MutableTypeDeclaration, error)
}

type MutableParameterDeclaration interface {
	ParameterDeclaration
	MutableDeclaration
	SetSimpleName(name string) error
	SetType(typ *typeref.Reference) error
	MutableDeclaringMethod() (MutableMethodDeclaration, error)
}

type MutableTypeParameterDeclaration interface {
	TypeParameterDeclaration
	MutableDeclaration
	SetUpperBounds(bounds ...*typeref.Reference) error
	MutableDeclarator() (MutableDeclaration, error)
}
