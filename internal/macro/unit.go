package macro

import (
	"fmt"

	"github.com/google/uuid"

	"facet/internal/fsys"
	"facet/internal/model"
	"facet/internal/trace"
	"facet/internal/tracking"
	"facet/internal/typeref"
	"facet/internal/types"
)

// CompilationUnit owns the declaration model of one compiled file for the
// duration of its compilation: Active(mutable) -> Active(frozen) -> Disposed.
type CompilationUnit struct {
	id       uuid.UUID
	path     string
	model    *model.Model
	resolver *typeref.Resolver
	tracking *tracking.ReadAndWriteTracking
	gate     *Gate
	fs       *fsys.Support
	tracer   trace.Tracer
	views    map[model.NodeID]Declaration
	aborted  error
}

// Option configures a CompilationUnit.
type Option func(*CompilationUnit)

// WithFileSystem attaches the child-enumeration collaborator. Without it
// Children always returns an empty result.
func WithFileSystem(e fsys.ChildEnumerator) Option {
	return func(u *CompilationUnit) { u.fs = fsys.NewSupport(e) }
}

// WithTracer routes unit and declaration events to t.
func WithTracer(t trace.Tracer) Option {
	return func(u *CompilationUnit) {
		if t != nil {
			u.tracer = t
		}
	}
}

// WithPath records the path of the compiled file.
func WithPath(path string) Option {
	return func(u *CompilationUnit) { u.path = path }
}

// WithID overrides the generated unit identity.
func WithID(id uuid.UUID) Option {
	return func(u *CompilationUnit) { u.id = id }
}

// NewCompilationUnit wraps m and claims it. A model already wrapped by
// another unit is rejected with ErrInvalidArgument.
func NewCompilationUnit(m *model.Model, opts ...Option) (*CompilationUnit, error) {
	if m == nil {
		return nil, invalidArgument("model is nil")
	}
	if err := m.Claim(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	u := &CompilationUnit{
		id:       uuid.New(),
		model:    m,
		tracking: tracking.New(),
		tracer:   trace.Nop,
		views:    make(map[model.NodeID]Declaration, m.Len()),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.gate = newGate(u.tracer)
	u.resolver = typeref.NewResolver(m.TypeInterner(), typeref.Scope{Package: m.Package, Imports: m.Imports})
	if u.fs != nil {
		u.fs.Dropped = func(child fsys.Location) {
			trace.Point(u.tracer, trace.ScopeDecl, "children.drop", string(child))
		}
	}
	return u, nil
}

func (u *CompilationUnit) ID() uuid.UUID        { return u.id }
func (u *CompilationUnit) Path() string         { return u.path }
func (u *CompilationUnit) Phase() Phase         { return u.gate.Phase() }
func (u *CompilationUnit) Gate() *Gate          { return u.gate }
func (u *CompilationUnit) Package() string      { return u.model.Package }
func (u *CompilationUnit) Tracer() trace.Tracer { return u.tracer }

// Err returns the cause passed to Abort, or nil.
func (u *CompilationUnit) Err() error { return u.aborted }

// ReadAndWriteTracking returns the unit's access table.
func (u *CompilationUnit) ReadAndWriteTracking() *tracking.ReadAndWriteTracking {
	return u.tracking
}

// ToResolvedType resolves ref in the unit's scope.
func (u *CompilationUnit) ToResolvedType(ref *typeref.Reference) (types.TypeID, error) {
	if u.gate.Phase() == PhaseDisposed {
		return types.NoTypeID, ErrUnitDisposed
	}
	return u.resolver.Resolve(ref)
}

// ToTypeReference wraps a TypeID of this unit so that it can be handed to setters.
func (u *CompilationUnit) ToTypeReference(id types.TypeID) (*typeref.Reference, error) {
	if !u.model.TypeInterner().Owns(id) {
		return nil, invalidArgument("type %d does not belong to this unit", id)
	}
	return u.reference(id), nil
}

// TypeDeclarations returns views of all types known to the unit, library ones included.
func (u *CompilationUnit) TypeDeclarations() []TypeDeclaration {
	if u.gate.Phase() == PhaseDisposed {
		return nil
	}
	all := u.model.Types()
	out := make([]TypeDeclaration, 0, len(all))
	for _, t := range all {
		out = append(out, u.typeDecl(t))
	}
	return out
}

// SourceTypes returns views of the types declared by the compiled file.
func (u *CompilationUnit) SourceTypes() []TypeDeclaration {
	if u.gate.Phase() == PhaseDisposed {
		return nil
	}
	src := u.model.SourceTypes()
	out := make([]TypeDeclaration, 0, len(src))
	for _, t := range src {
		out = append(out, u.typeDecl(t))
	}
	return out
}

// FindType looks a type up by qualified name, falling back to the unit package.
func (u *CompilationUnit) FindType(name string) (TypeDeclaration, bool) {
	if u.gate.Phase() == PhaseDisposed {
		return nil, false
	}
	t, ok := u.model.FindType(name)
	if !ok {
		t, ok = u.model.FindType(u.model.QualifiedName(name))
	}
	if !ok {
		return nil, false
	}
	return u.typeDecl(t), true
}

// Freeze ends the macro phase. Every later mutation fails with ErrFrozenModel.
func (u *CompilationUnit) Freeze() error {
	switch u.gate.Phase() {
	case PhaseFrozen:
		return nil
	case PhaseDisposed:
		if u.aborted != nil {
			return fmt.Errorf("%w: %w", ErrUnitAborted, u.aborted)
		}
		return ErrUnitDisposed
	}
	u.gate.advance(PhaseFrozen)
	u.model.Freeze()
	trace.Point(u.tracer, trace.ScopeUnit, "freeze", u.path)
	return nil
}

// Abort discards a unit whose macro phase failed. The unit is disposed without
// being frozen and can no longer produce a generation model.
func (u *CompilationUnit) Abort(cause error) {
	if u.gate.Phase() == PhaseDisposed {
		return
	}
	if cause == nil {
		cause = ErrUnitAborted
	}
	u.aborted = cause
	trace.Point(u.tracer, trace.ScopeUnit, "abort", cause.Error())
	u.Dispose()
}

// Dispose releases the unit. Views handed out earlier reject every mutation.
func (u *CompilationUnit) Dispose() {
	if !u.gate.advance(PhaseDisposed) {
		return
	}
	u.model.Freeze()
	u.tracking.Reset()
	clear(u.views)
	u.fs = nil
	trace.Point(u.tracer, trace.ScopeUnit, "dispose", u.path)
}

// GenerationModel returns the frozen model for code generation. Its setters
// panic with model.ErrFrozen.
func (u *CompilationUnit) GenerationModel() (*model.Model, error) {
	switch u.gate.Phase() {
	case PhaseMutable:
		return nil, ErrNotFrozen
	case PhaseDisposed:
		if u.aborted != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnitAborted, u.aborted)
		}
		return nil, ErrUnitDisposed
	}
	return u.model, nil
}

// Children maps the children of loc to paths below parent. Without a file
// system collaborator the result is empty; unmappable children are dropped.
func (u *CompilationUnit) Children(loc fsys.Location, parent fsys.Path) []fsys.Path {
	return u.fs.Children(loc, parent)
}

func (u *CompilationUnit) markRead(n model.Node) {
	u.tracking.MarkReadAccess(n)
	accessesTotal.WithLabelValues("read").Inc()
}

func (u *CompilationUnit) markWritten(n model.Node) {
	u.tracking.MarkWriteAccess(n)
	accessesTotal.WithLabelValues("write").Inc()
}

func (u *CompilationUnit) reference(id types.TypeID) *typeref.Reference {
	if id == types.NoTypeID {
		return nil
	}
	return typeref.Resolved(u.model.TypeInterner(), id)
}

func (u *CompilationUnit) isPrimitive(id types.TypeID) bool {
	tt, ok := u.model.TypeInterner().Lookup(id)
	return ok && tt.Kind.IsPrimitive()
}

// resolverFor returns a resolver that sees the type parameters in scope at n.
func (u *CompilationUnit) resolverFor(n model.Node) *typeref.Resolver {
	scope := make(map[string]types.TypeID)
	var collect func(model.Node)
	collect = func(n model.Node) {
		switch v := n.(type) {
		case *model.Type:
			addTypeParams(scope, v.TypeParameters())
		case *model.Operation:
			collect(v.DeclaringType())
			addTypeParams(scope, v.TypeParameters())
		case *model.Field:
			collect(v.DeclaringType())
		case *model.Parameter:
			collect(v.DeclaringOperation())
		}
	}
	collect(n)
	if len(scope) == 0 {
		return u.resolver
	}
	return u.resolver.WithTypeParams(scope)
}

func addTypeParams(scope map[string]types.TypeID, params []*model.TypeParameter) {
	for _, tp := range params {
		scope[tp.SimpleName()] = tp.TypeID()
	}
}

// declarationFor returns the cached view of n, creating it on first use.
// Source declarations get mutable views, library declarations read-only ones.
func (u *CompilationUnit) declarationFor(n model.Node) Declaration {
	if d, ok := u.views[n.ID()]; ok {
		return d
	}
	b := base{unit: u, node: n.(annotatedNode)}
	mutable := n.Origin() == model.OriginSource
	var d Declaration
	switch v := n.(type) {
	case *model.Type:
		view := &typeView{base: b, t: v}
		d = view
		if mutable {
			d = newMutableTypeView(view)
		}
	case *model.Operation:
		view := &methodView{base: b, op: v}
		d = view
		if mutable {
			d = newMutableMethodView(view)
		}
	case *model.Field:
		view := &fieldView{base: b, f: v}
		d = view
		if mutable {
			d = newMutableFieldView(view)
		}
	case *model.Parameter:
		view := &parameterView{base: b, p: v}
		d = view
		if mutable {
			d = newMutableParameterView(view)
		}
	case *model.TypeParameter:
		view := &typeParameterView{base: b, tp: v}
		d = view
		if mutable {
			d = newMutableTypeParameterView(view)
		}
	default:
		panic(fmt.Errorf("macro: unsupported declaration node %T", n))
	}
	if u.gate.Phase() != PhaseDisposed {
		u.views[n.ID()] = d
	}
	return d
}

func (u *CompilationUnit) typeDecl(t *model.Type) TypeDeclaration {
	return u.declarationFor(t).(TypeDeclaration)
}

func (u *CompilationUnit) methodDecl(op *model.Operation) MethodDeclaration {
	return u.declarationFor(op).(MethodDeclaration)
}

func (u *CompilationUnit) fieldDecl(f *model.Field) FieldDeclaration {
	return u.declarationFor(f).(FieldDeclaration)
}

func (u *CompilationUnit) parameterDecl(p *model.Parameter) ParameterDeclaration {
	return u.declarationFor(p).(ParameterDeclaration)
}

func (u *CompilationUnit) typeParamDecls(params []*model.TypeParameter) []TypeParameterDeclaration {
	out := make([]TypeParameterDeclaration, 0, len(params))
	for _, tp := range params {
		out = append(out, u.declarationFor(tp).(TypeParameterDeclaration))
	}
	return out
}

// AccessOf reports the tracked access state of d.
func (u *CompilationUnit) AccessOf(d Declaration) tracking.Access {
	if d == nil || d.Unit() != u {
		return tracking.Access{}
	}
	return u.tracking.Access(d.delegate())
}
