package macro

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"facet/internal/fsys"
	"facet/internal/model"
	"facet/internal/trace"
	"facet/internal/typeref"
)

const widgetDecl = `package: demo
types:
  - name: Widget
    typeParams:
      - name: T
    fields:
      - name: count
        type: int
      - name: label
        type: String
        initializer: '"w"'
    methods:
      - name: compute
        returns: int
        typeParams:
          - name: R
        params:
          - name: amount
            type: long
          - name: scale
            type: T
`

func newUnit(t *testing.T, opts ...Option) *CompilationUnit {
	t.Helper()
	m, err := model.Load(1, []byte(widgetDecl))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	u, err := NewCompilationUnit(m, opts...)
	if err != nil {
		t.Fatalf("new unit: %v", err)
	}
	return u
}

func mustType(t *testing.T, u *CompilationUnit, name string) MutableTypeDeclaration {
	t.Helper()
	d, ok := u.FindType(name)
	if !ok {
		t.Fatalf("type %s not found", name)
	}
	m, err := u.AsMutableType(d)
	if err != nil {
		t.Fatalf("as mutable %s: %v", name, err)
	}
	return m
}

func mustMethod(t *testing.T, u *CompilationUnit, typ, name string) MutableMethodDeclaration {
	t.Helper()
	d, ok := mustType(t, u, typ).FindMethod(name)
	if !ok {
		t.Fatalf("method %s.%s not found", typ, name)
	}
	m, err := u.AsMutableMethod(d)
	if err != nil {
		t.Fatalf("as mutable %s: %v", name, err)
	}
	return m
}

func mustField(t *testing.T, u *CompilationUnit, typ, name string) MutableFieldDeclaration {
	t.Helper()
	d, ok := mustType(t, u, typ).FindField(name)
	if !ok {
		t.Fatalf("field %s.%s not found", typ, name)
	}
	f, err := u.AsMutableField(d)
	if err != nil {
		t.Fatalf("as mutable %s: %v", name, err)
	}
	return f
}

func TestNewCompilationUnitRejectsNilModel(t *testing.T) {
	if _, err := NewCompilationUnit(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSettersFailAfterFreezeAndLeaveValuesUnchanged(t *testing.T) {
	u := newUnit(t)
	widget := mustType(t, u, "Widget")
	compute := mustMethod(t, u, "Widget", "compute")
	count := mustField(t, u, "Widget", "count")
	params, err := compute.MutableParameters()
	if err != nil {
		t.Fatalf("parameters: %v", err)
	}
	tps, err := widget.MutableTypeParameters()
	if err != nil {
		t.Fatalf("type parameters: %v", err)
	}
	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}

	cases := []struct {
		name      string
		mutate    func() error
		unchanged func() bool
	}{
		{"type.setFinal", func() error { return widget.SetFinal(true) }, func() bool { return !widget.IsFinal() }},
		{"type.setAbstract", func() error { return widget.SetAbstract(true) }, func() bool { return !widget.IsAbstract() }},
		{"type.setVisibility", func() error { return widget.SetVisibility(model.VisibilityPublic) }, func() bool {
			return widget.Visibility() == model.VisibilityDefault
		}},
		{"type.addField", func() error { _, err := widget.AddField("extra", typeref.Named("int")); return err }, func() bool {
			_, ok := widget.FindField("extra")
			return !ok
		}},
		{"type.addMethod", func() error { _, err := widget.AddMethod("extra"); return err }, func() bool {
			_, ok := widget.FindMethod("extra")
			return !ok
		}},
		{"type.setStatic", func() error { return widget.SetStatic(true) }, func() bool { return !widget.IsStatic() }},
		{"type.setStrictFloatingPoint", func() error { return widget.SetStrictFloatingPoint(true) }, func() bool {
			return !widget.IsStrictFloatingPoint()
		}},
		{"method.setReturnType", func() error { return compute.SetReturnType(typeref.Named("long")) }, func() bool {
			return compute.ReturnType().String() == "int"
		}},
		{"method.setStatic", func() error { return compute.SetStatic(true) }, func() bool { return !compute.IsStatic() }},
		{"method.setNative", func() error { return compute.SetNative(true) }, func() bool { return !compute.IsNative() }},
		{"method.setSynchronized", func() error { return compute.SetSynchronized(true) }, func() bool { return !compute.IsSynchronized() }},
		{"method.setDefault", func() error { return compute.SetDefault(true) }, func() bool { return !compute.IsDefault() }},
		{"method.setStrictFloatingPoint", func() error { return compute.SetStrictFloatingPoint(true) }, func() bool {
			return !compute.IsStrictFloatingPoint()
		}},
		{"method.setSimpleName", func() error { return compute.SetSimpleName("run") }, func() bool { return compute.SimpleName() == "compute" }},
		{"method.setAbstract", func() error { return compute.SetAbstract(true) }, func() bool { return !compute.IsAbstract() }},
		{"method.setVarArgs", func() error { return compute.SetVarArgs(true) }, func() bool { return !compute.IsVarArgs() }},
		{"method.setVisibility", func() error { return compute.SetVisibility(model.VisibilityPrivate) }, func() bool {
			return compute.Visibility() == model.VisibilityDefault
		}},
		{"method.addParameter", func() error { _, err := compute.AddParameter("extra", typeref.Named("int")); return err }, func() bool {
			return len(compute.Parameters()) == 2
		}},
		{"method.markAsRead", compute.MarkAsRead, func() bool { return !u.AccessOf(compute).Read }},
		{"field.setType", func() error { return count.SetType(typeref.Named("long")) }, func() bool { return count.Type().String() == "int" }},
		{"field.setVolatile", func() error { return count.SetVolatile(true) }, func() bool { return !count.IsVolatile() }},
		{"field.setInitializer", func() error { return count.SetInitializer("1") }, func() bool { return count.Initializer() == "" }},
		{"field.setDocComment", func() error { return count.SetDocComment("doc") }, func() bool { return count.DocComment() == "" }},
		{"field.setFinal", func() error { return count.SetFinal(true) }, func() bool { return !count.IsFinal() }},
		{"field.setStatic", func() error { return count.SetStatic(true) }, func() bool { return !count.IsStatic() }},
		{"field.setSimpleName", func() error { return count.SetSimpleName("total") }, func() bool { return count.SimpleName() == "count" }},
		{"field.markAsRead", count.MarkAsRead, func() bool { return !u.AccessOf(count).Read }},
		{"field.markAsInitialized", count.MarkAsInitialized, func() bool { return !u.AccessOf(count).Written }},
		{"parameter.setSimpleName", func() error { return params[0].SetSimpleName("total") }, func() bool {
			return params[0].SimpleName() == "amount"
		}},
		{"parameter.setType", func() error { return params[1].SetType(typeref.Named("long")) }, func() bool {
			return params[1].Type().String() == "T"
		}},
		{"typeParameter.setUpperBounds", func() error { return tps[0].SetUpperBounds(typeref.Named("Number")) }, func() bool {
			return len(tps[0].UpperBounds()) == 0
		}},
	}
	for _, tc := range cases {
		err := tc.mutate()
		if !errors.Is(err, ErrFrozenModel) {
			t.Fatalf("%s: expected ErrFrozenModel, got %v", tc.name, err)
		}
		var declErr *DeclarationError
		if !errors.As(err, &declErr) || declErr.Decl == "" {
			t.Fatalf("%s: expected DeclarationError naming the declaration, got %v", tc.name, err)
		}
		if !tc.unchanged() {
			t.Fatalf("%s: value changed by a rejected call", tc.name)
		}
	}
}

func TestMutableMethodExposesMutableContainment(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")

	params, err := compute.MutableParameters()
	if err != nil {
		t.Fatalf("parameters: %v", err)
	}
	if len(params) != 2 {
		t.Fatalf("parameters = %d, want 2", len(params))
	}
	for _, p := range params {
		if err := p.SetType(typeref.Named("String")); err != nil {
			t.Fatalf("set type on %s: %v", p.SimpleName(), err)
		}
		if err := p.SetDocComment("doc"); err != nil {
			t.Fatalf("set doc on %s: %v", p.SimpleName(), err)
		}
		back, err := p.MutableDeclaringMethod()
		if err != nil || back != compute {
			t.Fatalf("declaring method mismatch: %v", err)
		}
	}
	if err := params[1].SetSimpleName("factor"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := params[1].SetSimpleName("amount"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("duplicate parameter name accepted: %v", err)
	}

	tps, err := compute.MutableTypeParameters()
	if err != nil || len(tps) != 1 {
		t.Fatalf("type parameters = %v, %v", tps, err)
	}
	if err := tps[0].SetUpperBounds(typeref.Named("Number")); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	declarator, err := tps[0].MutableDeclarator()
	if err != nil || declarator != MutableDeclaration(compute) {
		t.Fatalf("declarator mismatch: %v", err)
	}

	owner, err := compute.MutableDeclaringType()
	if err != nil {
		t.Fatalf("declaring type: %v", err)
	}
	if owner != mustType(t, u, "Widget") {
		t.Fatalf("declaring type is not the cached Widget view")
	}
	if err := owner.SetFinal(true); err != nil {
		t.Fatalf("set final through declaring type: %v", err)
	}
}

func TestNilReturnTypeFailsAndKeepsType(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")

	if _, err := u.ToResolvedType(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("resolve nil: %v", err)
	}
	if err := compute.SetReturnType(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("set nil return type: %v", err)
	}
	if err := compute.SetReturnType(typeref.Named("")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("set empty return type: %v", err)
	}
	if err := compute.SetReturnType(typeref.Named("NoSuchType")); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("set unknown return type: %v", err)
	}
	if got := compute.ReturnType().String(); got != "int" {
		t.Fatalf("return type changed to %s", got)
	}
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")
	tracker := u.ReadAndWriteTracking()

	if err := compute.MarkAsRead(); err != nil {
		t.Fatalf("mark: %v", err)
	}
	once := u.AccessOf(compute)
	onceLen := tracker.Len()
	if err := compute.MarkAsRead(); err != nil {
		t.Fatalf("mark again: %v", err)
	}
	if u.AccessOf(compute) != once || tracker.Len() != onceLen {
		t.Fatalf("second mark changed the record")
	}
	if !once.Read || once.Written {
		t.Fatalf("unexpected access %+v", once)
	}
}

func TestModifierRoundTrip(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")
	if err := compute.SetStatic(true); err != nil {
		t.Fatalf("set static: %v", err)
	}
	if !compute.IsStatic() {
		t.Fatalf("same view does not report static")
	}
	fresh := mustMethod(t, u, "Widget", "compute")
	if !fresh.IsStatic() {
		t.Fatalf("fresh view does not report static")
	}
	if fresh != compute {
		t.Fatalf("views of one declaration must be identical")
	}
}

func TestReturnTypeThenFreeze(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")
	ref := typeref.Named("java.util.List", typeref.Named("String"))
	want, err := u.ToResolvedType(ref)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if err := compute.SetReturnType(ref); err != nil {
		t.Fatalf("set return type: %v", err)
	}
	got, err := u.ToResolvedType(compute.ReturnType())
	if err != nil || got != want {
		t.Fatalf("return type = %v (%v), want %v", got, err, want)
	}
	if compute.ReturnType().String() != "java.util.List<java.lang.String>" {
		t.Fatalf("return type label = %s", compute.ReturnType())
	}

	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	before := compute.IsFinal()
	if err := compute.SetFinal(true); !errors.Is(err, ErrFrozenModel) {
		t.Fatalf("expected ErrFrozenModel, got %v", err)
	}
	if compute.IsFinal() != before {
		t.Fatalf("final changed after freeze")
	}
	if _, err := u.GenerationModel(); err != nil {
		t.Fatalf("generation model: %v", err)
	}
}

func TestChildrenWithoutEnumeratorIsEmpty(t *testing.T) {
	u := newUnit(t)
	if got := u.Children("/project", fsys.Root); len(got) != 0 {
		t.Fatalf("children = %v", got)
	}
	u = newUnit(t, WithFileSystem(nil))
	if got := u.Children("/project", fsys.Root); len(got) != 0 {
		t.Fatalf("children = %v", got)
	}
}

func TestChildrenThroughBilly(t *testing.T) {
	fs := memfs.New()
	if err := fs.MkdirAll("/project/src/demo", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	u := newUnit(t, WithFileSystem(fsys.BillyEnumerator{FS: fs}))
	got := u.Children("/project/src", fsys.ParsePath("/src"))
	if len(got) != 1 || got[0].String() != "/src/demo" {
		t.Fatalf("children = %v", got)
	}
	if got := u.Children("/missing", fsys.Root); len(got) != 0 {
		t.Fatalf("missing directory produced %v", got)
	}
}

func TestLibraryDeclarationsAreReadOnly(t *testing.T) {
	u := newUnit(t)
	str, ok := u.FindType("java.lang.String")
	if !ok {
		t.Fatalf("library type missing")
	}
	if !str.IsLibrary() {
		t.Fatalf("String must be a library type")
	}
	if _, err := u.AsMutableType(str); !errors.Is(err, ErrCapabilityMismatch) {
		t.Fatalf("expected ErrCapabilityMismatch, got %v", err)
	}
	if _, err := u.AsMutableType(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil conversion: %v", err)
	}
}

func TestCrossUnitSharingIsRejected(t *testing.T) {
	a := newUnit(t)
	b := newUnit(t)
	widgetA, _ := a.FindType("Widget")
	if _, err := b.AsMutableType(widgetA); !errors.Is(err, ErrCapabilityMismatch) {
		t.Fatalf("cross-unit conversion: %v", err)
	}
	compute := mustMethod(t, b, "Widget", "compute")
	if err := compute.SetReturnType(widgetA.Type()); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("cross-unit reference: %v", err)
	}
	widgetB, _ := b.FindType("Widget")
	if err := compute.SetReturnType(widgetB.Type()); err != nil {
		t.Fatalf("same-unit reference: %v", err)
	}
}

func TestModelBelongsToOneUnit(t *testing.T) {
	m, err := model.Load(1, []byte(widgetDecl))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	first, err := NewCompilationUnit(m)
	if err != nil {
		t.Fatalf("first unit: %v", err)
	}
	if _, err := NewCompilationUnit(m); !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, model.ErrClaimed) {
		t.Fatalf("second unit over the same model: %v", err)
	}
	if err := first.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	widget, _ := first.FindType("Widget")
	if widget.IsFinal() {
		t.Fatalf("frozen type changed")
	}
}

// expectFrozenPanic runs fn and fails unless it panics with model.ErrFrozen.
func expectFrozenPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, model.ErrFrozen) {
			t.Fatalf("%s: expected a model.ErrFrozen panic, got %v", name, r)
		}
	}()
	fn()
}

func TestGenerationModelIsReadOnly(t *testing.T) {
	u := newUnit(t)
	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	gen, err := u.GenerationModel()
	if err != nil {
		t.Fatalf("generation model: %v", err)
	}
	if !gen.Frozen() {
		t.Fatalf("generation model is not frozen")
	}
	w, ok := gen.FindType("demo.Widget")
	if !ok {
		t.Fatalf("Widget missing from generation model")
	}
	op := w.Operations()[0]
	f := w.Fields()[0]

	expectFrozenPanic(t, "type.SetFinal", func() { w.SetFinal(true) })
	expectFrozenPanic(t, "type.AddOperation", func() { w.AddOperation("extra", w.Pos()) })
	expectFrozenPanic(t, "type.AddTypeParameter", func() { w.AddTypeParameter("U", w.Pos()) })
	expectFrozenPanic(t, "operation.SetStatic", func() { op.SetStatic(true) })
	expectFrozenPanic(t, "operation.SetSimpleName", func() { op.SetSimpleName("run") })
	expectFrozenPanic(t, "field.SetInitializer", func() { f.SetInitializer("1") })
	expectFrozenPanic(t, "parameter.SetType", func() { op.Parameters()[0].SetType(w.ClassType()) })

	ops := w.Operations()
	ops[0] = nil
	anns := w.Annotations()
	if len(anns) > 0 {
		anns[0].Name = "Changed"
	}

	view, _ := u.FindType("Widget")
	compute, _ := view.FindMethod("compute")
	if view.IsFinal() || compute == nil || compute.IsStatic() || compute.SimpleName() != "compute" {
		t.Fatalf("frozen graph changed through the generation model")
	}
	if len(view.Methods()) != 1 || len(view.Fields()) != 2 || len(view.TypeParameters()) != 1 {
		t.Fatalf("frozen containment changed")
	}
}

func TestAbortDisposesWithoutFreezing(t *testing.T) {
	u := newUnit(t)
	compute := mustMethod(t, u, "Widget", "compute")
	if err := compute.MarkAsRead(); err != nil {
		t.Fatalf("mark: %v", err)
	}
	cause := errors.New("processor failed")
	u.Abort(cause)

	if u.Phase() != PhaseDisposed {
		t.Fatalf("phase = %s", u.Phase())
	}
	if err := u.Freeze(); !errors.Is(err, ErrUnitAborted) || !errors.Is(err, cause) {
		t.Fatalf("freeze after abort: %v", err)
	}
	if _, err := u.GenerationModel(); !errors.Is(err, ErrUnitAborted) {
		t.Fatalf("generation model after abort: %v", err)
	}
	if err := compute.SetStatic(true); !errors.Is(err, ErrUnitDisposed) || !errors.Is(err, ErrFrozenModel) {
		t.Fatalf("mutation after abort: %v", err)
	}
	if u.ReadAndWriteTracking().Len() != 0 {
		t.Fatalf("tracking not cleared")
	}
	if len(u.TypeDeclarations()) != 0 {
		t.Fatalf("disposed unit still hands out views")
	}
}

func TestGenerationModelRequiresFreeze(t *testing.T) {
	u := newUnit(t)
	if _, err := u.GenerationModel(); !errors.Is(err, ErrNotFrozen) {
		t.Fatalf("expected ErrNotFrozen, got %v", err)
	}
	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := u.Freeze(); err != nil {
		t.Fatalf("second freeze: %v", err)
	}
	u.Dispose()
	if _, err := u.GenerationModel(); !errors.Is(err, ErrUnitDisposed) {
		t.Fatalf("expected ErrUnitDisposed, got %v", err)
	}
	if _, err := u.ToResolvedType(typeref.Named("int")); !errors.Is(err, ErrUnitDisposed) {
		t.Fatalf("resolve after dispose: %v", err)
	}
}

func TestFieldAccessTracking(t *testing.T) {
	u := newUnit(t)
	count := mustField(t, u, "Widget", "count")
	label := mustField(t, u, "Widget", "label")

	if err := count.SetFinal(true); err != nil {
		t.Fatalf("set final: %v", err)
	}
	if err := count.SetType(typeref.Named("long")); err != nil {
		t.Fatalf("set type: %v", err)
	}
	if u.ReadAndWriteTracking().Len() != 0 {
		t.Fatalf("structural setters must not be tracked")
	}

	if err := count.SetInitializer("42"); err != nil {
		t.Fatalf("set initializer: %v", err)
	}
	if !u.AccessOf(count).Written || u.AccessOf(count).Read {
		t.Fatalf("count access = %+v", u.AccessOf(count))
	}
	if err := label.MarkAsRead(); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if err := label.MarkAsInitialized(); err != nil {
		t.Fatalf("mark initialized: %v", err)
	}
	if a := u.AccessOf(label); !a.Read || !a.Written {
		t.Fatalf("label access = %+v", a)
	}
}

func TestFieldSetTypeRejectsVoidAndPrimitiveArgs(t *testing.T) {
	u := newUnit(t)
	count := mustField(t, u, "Widget", "count")
	if err := count.SetType(typeref.Named("void")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("void field: %v", err)
	}
	if err := count.SetType(typeref.Named("java.util.List", typeref.Named("int"))); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("primitive type argument: %v", err)
	}
	if err := count.SetType(typeref.Named("T")); err != nil {
		t.Fatalf("type parameter of the declaring type: %v", err)
	}
	if count.Type().String() != "T" {
		t.Fatalf("field type = %s", count.Type())
	}
}

func TestAddFieldAndMethod(t *testing.T) {
	u := newUnit(t)
	widget := mustType(t, u, "Widget")

	f, err := widget.AddField("cache", typeref.Named("java.util.Map", typeref.Named("String"), typeref.Named("T")))
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if f.Type().String() != "java.util.Map<java.lang.String, T>" {
		t.Fatalf("field type = %s", f.Type())
	}
	if _, err := widget.AddField("cache", typeref.Named("int")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("duplicate field: %v", err)
	}
	if _, err := widget.AddField("1bad", typeref.Named("int")); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad name: %v", err)
	}

	getter, err := widget.AddMethod("getCache")
	if err != nil {
		t.Fatalf("add method: %v", err)
	}
	if getter.ReturnType().String() != "void" {
		t.Fatalf("new method returns %s", getter.ReturnType())
	}
	if err := getter.SetReturnType(f.Type()); err != nil {
		t.Fatalf("set return type from field: %v", err)
	}
	if _, err := getter.AddParameter("key", typeref.Named("String")); err != nil {
		t.Fatalf("add parameter: %v", err)
	}
	methods, err := widget.MutableMethods()
	if err != nil || len(methods) != 2 {
		t.Fatalf("methods = %d, %v", len(methods), err)
	}
	fields, err := widget.MutableFields()
	if err != nil || len(fields) != 3 {
		t.Fatalf("fields = %d, %v", len(fields), err)
	}
}

func TestSetUpperBoundsIsAllOrNothing(t *testing.T) {
	u := newUnit(t)
	widget := mustType(t, u, "Widget")
	tps, err := widget.MutableTypeParameters()
	if err != nil {
		t.Fatalf("type parameters: %v", err)
	}
	tp := tps[0]
	if err := tp.SetUpperBounds(typeref.Named("Number"), typeref.Named("Missing")); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("expected ErrInvalidTypeReference, got %v", err)
	}
	if len(tp.UpperBounds()) != 0 {
		t.Fatalf("partial bounds applied")
	}
	if err := tp.SetUpperBounds(typeref.Named("int")); !errors.Is(err, ErrInvalidTypeReference) {
		t.Fatalf("primitive bound: %v", err)
	}
	if err := tp.SetUpperBounds(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil bound: %v", err)
	}
	if err := tp.SetUpperBounds(typeref.Named("Number"), typeref.Named("Iterable", typeref.Named("T"))); err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if len(tp.UpperBounds()) != 2 || tp.UpperBounds()[1].String() != "java.lang.Iterable<T>" {
		t.Fatalf("bounds = %v", tp.UpperBounds())
	}
}

func TestGateCountsOutcomes(t *testing.T) {
	u := newUnit(t)
	widget := mustType(t, u, "Widget")
	applied := mutationsTotal.WithLabelValues("setStatic", outcomeApplied)
	rejected := mutationsTotal.WithLabelValues("setStatic", outcomeRejected)
	beforeApplied := testutil.ToFloat64(applied)
	beforeRejected := testutil.ToFloat64(rejected)

	if err := widget.SetStatic(true); err != nil {
		t.Fatalf("set static: %v", err)
	}
	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	_ = widget.SetStatic(false)

	if got := testutil.ToFloat64(applied) - beforeApplied; got != 1 {
		t.Fatalf("applied delta = %v", got)
	}
	if got := testutil.ToFloat64(rejected) - beforeRejected; got != 1 {
		t.Fatalf("rejected delta = %v", got)
	}
}

func TestGateCheckHasNoSideEffects(t *testing.T) {
	g := newGate(nil)
	if err := g.Check(); err != nil {
		t.Fatalf("mutable gate: %v", err)
	}
	if g.Phase() != PhaseMutable {
		t.Fatalf("check changed phase")
	}
	if !g.advance(PhaseFrozen) || g.advance(PhaseMutable) {
		t.Fatalf("phase must only move forward")
	}
	if err := g.Check(); !errors.Is(err, ErrFrozenModel) {
		t.Fatalf("frozen gate: %v", err)
	}
}

func TestMutationsAreTraced(t *testing.T) {
	ring := trace.NewRing(16, trace.LevelDebug)
	u := newUnit(t, WithTracer(ring), WithPath("src/widget.decl.yaml"))
	widget := mustType(t, u, "Widget")
	if err := widget.SetFinal(true); err != nil {
		t.Fatalf("set final: %v", err)
	}
	if err := u.Freeze(); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	var names []string
	for _, ev := range ring.Events() {
		names = append(names, ev.Name)
	}
	if len(names) != 2 || names[0] != "setFinal" || names[1] != "freeze" {
		t.Fatalf("events = %v", names)
	}
}
