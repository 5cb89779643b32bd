package typeref

import (
	"fmt"
	"maps"
	"strings"

	"facet/internal/types"
)

// ImplicitPackage is searched last for simple names.
const ImplicitPackage = "java.lang"

// Scope is the name-lookup context of one compilation unit.
type Scope struct {
	Package string
	Imports []string // "a.b.C" or "a.b.*"
}

// Resolver turns References into TypeIDs of a single interner. It only interns
// structural types (arrays, parameterizations, wildcards); it never touches
// declarations.
type Resolver struct {
	in         *types.Interner
	scope      Scope
	typeParams map[string]types.TypeID
}

// NewResolver creates a resolver over in with the given scope.
func NewResolver(in *types.Interner, scope Scope) *Resolver {
	return &Resolver{in: in, scope: scope}
}

// WithTypeParams returns a resolver that additionally sees the given type
// parameter names. The receiver is left untouched.
func (r *Resolver) WithTypeParams(params map[string]types.TypeID) *Resolver {
	merged := make(map[string]types.TypeID, len(r.typeParams)+len(params))
	maps.Copy(merged, r.typeParams)
	maps.Copy(merged, params)
	return &Resolver{in: r.in, scope: r.scope, typeParams: merged}
}

// Interner returns the type space this resolver produces IDs for.
func (r *Resolver) Interner() *types.Interner { return r.in }

// Resolve converts ref. Nil or empty references fail with ErrInvalidArgument;
// anything that does not denote a type of this interner fails with
// ErrInvalidTypeReference.
func (r *Resolver) Resolve(ref *Reference) (types.TypeID, error) {
	if ref.IsEmpty() {
		return types.NoTypeID, fmt.Errorf("%w: type reference is nil or empty", ErrInvalidArgument)
	}
	if ref.Wildcard != NotWildcard {
		return types.NoTypeID, fmt.Errorf("%w: wildcard %s is only allowed as a type argument", ErrInvalidTypeReference, ref)
	}
	return r.resolve(ref)
}

func (r *Resolver) resolve(ref *Reference) (types.TypeID, error) {
	if ref == nil {
		return types.NoTypeID, fmt.Errorf("%w: nil type argument", ErrInvalidTypeReference)
	}
	id, err := r.resolveBase(ref)
	if err != nil {
		return types.NoTypeID, err
	}
	for range ref.ArrayDims {
		if id == r.in.Builtins().Void {
			return types.NoTypeID, fmt.Errorf("%w: array of void", ErrInvalidTypeReference)
		}
		id = r.in.Array(id)
	}
	return id, nil
}

func (r *Resolver) resolveBase(ref *Reference) (types.TypeID, error) {
	if ref.IsResolved() {
		if ref.origin != r.in || !r.in.Owns(ref.resolved) {
			return types.NoTypeID, fmt.Errorf("%w: %s belongs to another compilation unit", ErrInvalidTypeReference, ref)
		}
		if len(ref.Args) > 0 {
			return types.NoTypeID, fmt.Errorf("%w: pre-resolved reference cannot take type arguments", ErrInvalidTypeReference)
		}
		return ref.resolved, nil
	}
	name := strings.TrimSpace(ref.Name)
	if id, ok := r.in.Primitive(name); ok {
		if len(ref.Args) > 0 {
			return types.NoTypeID, fmt.Errorf("%w: primitive %s cannot take type arguments", ErrInvalidTypeReference, name)
		}
		return id, nil
	}
	if id, ok := r.typeParams[name]; ok {
		if len(ref.Args) > 0 {
			return types.NoTypeID, fmt.Errorf("%w: type parameter %s cannot take type arguments", ErrInvalidTypeReference, name)
		}
		return id, nil
	}
	base, ok := r.lookupClass(name)
	if !ok {
		return types.NoTypeID, fmt.Errorf("%w: cannot resolve type %q", ErrInvalidTypeReference, name)
	}
	if len(ref.Args) == 0 {
		return base, nil
	}
	if info, ok := r.in.ClassInfo(base); ok && len(info.TypeParams) != len(ref.Args) {
		return types.NoTypeID, fmt.Errorf("%w: %s expects %d type arguments, got %d",
			ErrInvalidTypeReference, name, len(info.TypeParams), len(ref.Args))
	}
	args := make([]types.TypeID, len(ref.Args))
	for i, a := range ref.Args {
		arg, err := r.resolveArg(a)
		if err != nil {
			return types.NoTypeID, fmt.Errorf("type argument %d of %s: %w", i+1, name, err)
		}
		args[i] = arg
	}
	return r.in.Parameterized(base, args), nil
}

func (r *Resolver) resolveArg(a *Reference) (types.TypeID, error) {
	if a == nil {
		return types.NoTypeID, fmt.Errorf("%w: nil type argument", ErrInvalidTypeReference)
	}
	var (
		id  types.TypeID
		err error
	)
	switch a.Wildcard {
	case WildcardUnbounded:
		return r.in.Wildcard(types.VarianceNone, types.NoTypeID), nil
	case WildcardExtends, WildcardSuper:
		if a.Bound == nil || a.Bound.Wildcard != NotWildcard {
			return types.NoTypeID, fmt.Errorf("%w: wildcard bound must be a type", ErrInvalidTypeReference)
		}
		bound, err := r.resolveArg(a.Bound)
		if err != nil {
			return types.NoTypeID, err
		}
		v := types.VarianceExtends
		if a.Wildcard == WildcardSuper {
			v = types.VarianceSuper
		}
		return r.in.Wildcard(v, bound), nil
	}
	id, err = r.resolve(a)
	if err != nil {
		return types.NoTypeID, err
	}
	if tt := r.in.MustLookup(id); tt.Kind.IsPrimitive() {
		return types.NoTypeID, fmt.Errorf("%w: primitive %s cannot be a type argument", ErrInvalidTypeReference, tt.Kind)
	}
	return id, nil
}

func (r *Resolver) lookupClass(name string) (types.TypeID, bool) {
	if name == "" {
		return types.NoTypeID, false
	}
	if id, ok := r.in.FindClass(name); ok {
		return id, true
	}
	if strings.Contains(name, ".") {
		return types.NoTypeID, false
	}
	// single-type imports shadow the unit package, which shadows on-demand imports
	for _, imp := range r.scope.Imports {
		if strings.HasSuffix(imp, ".*") || types.SimpleName(imp) != name {
			continue
		}
		if id, ok := r.in.FindClass(imp); ok {
			return id, true
		}
	}
	if r.scope.Package != "" {
		if id, ok := r.in.FindClass(r.scope.Package + "." + name); ok {
			return id, true
		}
	}
	for _, imp := range r.scope.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if id, ok := r.in.FindClass(pkg + "." + name); ok {
				return id, true
			}
		}
	}
	return r.in.FindClass(ImplicitPackage + "." + name)
}
