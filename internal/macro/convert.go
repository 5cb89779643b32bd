package macro

import "fmt"

// The AsMutable* conversions are the only way from a read-only view to its
// mutable counterpart. They fail with ErrCapabilityMismatch for library
// declarations and for views that belong to another unit.

func (u *CompilationUnit) AsMutableType(d TypeDeclaration) (MutableTypeDeclaration, error) {
	return asMutable[TypeDeclaration, MutableTypeDeclaration](u, d)
}

func (u *CompilationUnit) AsMutableMethod(d MethodDeclaration) (MutableMethodDeclaration, error) {
	return asMutable[MethodDeclaration, MutableMethodDeclaration](u, d)
}

func (u *CompilationUnit) AsMutableField(d FieldDeclaration) (MutableFieldDeclaration, error) {
	return asMutable[FieldDeclaration, MutableFieldDeclaration](u, d)
}

func (u *CompilationUnit) AsMutableParameter(d ParameterDeclaration) (MutableParameterDeclaration, error) {
	return asMutable[ParameterDeclaration, MutableParameterDeclaration](u, d)
}

func (u *CompilationUnit) AsMutableTypeParameter(d TypeParameterDeclaration) (MutableTypeParameterDeclaration, error) {
	return asMutable[TypeParameterDeclaration, MutableTypeParameterDeclaration](u, d)
}

func asMutable[D Declaration, M Declaration](u *CompilationUnit, d D) (M, error) {
	var zero M
	decl := Declaration(d)
	if decl == nil {
		return zero, &DeclarationError{Op: "asMutable", Err: invalidArgument("declaration is nil")}
	}
	if decl.Unit() != u {
		return zero, &DeclarationError{
			Op:   "asMutable",
			Decl: decl.Name(),
			Err:  fmt.Errorf("%w: declaration belongs to another compilation unit", ErrCapabilityMismatch),
		}
	}
	m, ok := decl.(M)
	if !ok {
		return zero, &DeclarationError{
			Op:   "asMutable",
			Decl: decl.Name(),
			Err:  fmt.Errorf("%w: %s declaration is read-only", ErrCapabilityMismatch, decl.delegate().Origin()),
		}
	}
	return m, nil
}

func convertAll[D Declaration, M Declaration](in []D, conv func(D) (M, error)) ([]M, error) {
	out := make([]M, 0, len(in))
	for _, d := range in {
		m, err := conv(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
