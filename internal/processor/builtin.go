package processor

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"facet/internal/diag"
	"facet/internal/macro"
	"facet/internal/model"
	"facet/internal/typeref"
)

// Builtins returns a registry with every built-in processor.
func Builtins() *Registry {
	r, err := NewRegistry(
		Final{},
		Utility{},
		Synchronized{},
		ReturnType{},
		Used{},
		Accessors{},
		Validate{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Final makes a type and all its fields final, or a single field final.
type Final struct{}

func (Final) Name() string { return "Final" }

func (Final) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	u := ctx.Unit
	switch d := target.(type) {
	case macro.TypeDeclaration:
		t, err := u.AsMutableType(d)
		if err != nil {
			return err
		}
		if err := t.SetFinal(true); err != nil {
			return err
		}
		fields, err := t.MutableFields()
		if err != nil {
			return err
		}
		for _, f := range fields {
			if err := f.SetFinal(true); err != nil {
				return err
			}
		}
		return nil
	case macro.FieldDeclaration:
		f, err := u.AsMutableField(d)
		if err != nil {
			return err
		}
		return f.SetFinal(true)
	}
	return unsupportedTarget("Final", target)
}

// Utility turns a class into a final holder of static members.
type Utility struct{}

func (Utility) Name() string { return "Utility" }

func (Utility) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	d, ok := target.(macro.TypeDeclaration)
	if !ok {
		return unsupportedTarget("Utility", target)
	}
	if d.TypeKind() != model.TypeClass {
		return fmt.Errorf("%w: @Utility requires a class, %s is declared as %s", ErrValidation, d.QualifiedName(), d.TypeKind())
	}
	t, err := ctx.Unit.AsMutableType(d)
	if err != nil {
		return err
	}
	if err := t.SetFinal(true); err != nil {
		return err
	}
	methods, err := t.MutableMethods()
	if err != nil {
		return err
	}
	for _, m := range methods {
		if err := m.SetStatic(true); err != nil {
			return err
		}
	}
	fields, err := t.MutableFields()
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := f.SetStatic(true); err != nil {
			return err
		}
	}
	return nil
}

// Synchronized marks a method, or every concrete method of a type, synchronized.
type Synchronized struct{}

func (Synchronized) Name() string { return "Synchronized" }

func (Synchronized) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	u := ctx.Unit
	switch d := target.(type) {
	case macro.MethodDeclaration:
		m, err := u.AsMutableMethod(d)
		if err != nil {
			return err
		}
		return m.SetSynchronized(true)
	case macro.TypeDeclaration:
		t, err := u.AsMutableType(d)
		if err != nil {
			return err
		}
		methods, err := t.MutableMethods()
		if err != nil {
			return err
		}
		for _, m := range methods {
			if m.IsAbstract() {
				continue
			}
			if err := m.SetSynchronized(true); err != nil {
				return err
			}
		}
		return nil
	}
	return unsupportedTarget("Synchronized", target)
}

// ReturnType replaces a method's return type with the "type" annotation value.
type ReturnType struct{}

func (ReturnType) Name() string { return "ReturnType" }

func (ReturnType) Process(ctx *Context, target macro.Declaration, ann model.Annotation) error {
	d, ok := target.(macro.MethodDeclaration)
	if !ok {
		return unsupportedTarget("ReturnType", target)
	}
	text, ok := ann.Values["type"]
	if !ok {
		return fmt.Errorf("%w: @ReturnType needs a type value", macro.ErrInvalidArgument)
	}
	ref, err := typeref.Parse(text)
	if err != nil {
		return err
	}
	m, err := ctx.Unit.AsMutableMethod(d)
	if err != nil {
		return err
	}
	return m.SetReturnType(ref)
}

// Used records that generated code references a method or reads a field.
type Used struct{}

func (Used) Name() string { return "Used" }

func (Used) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	u := ctx.Unit
	switch d := target.(type) {
	case macro.MethodDeclaration:
		m, err := u.AsMutableMethod(d)
		if err != nil {
			return err
		}
		return m.MarkAsRead()
	case macro.FieldDeclaration:
		f, err := u.AsMutableField(d)
		if err != nil {
			return err
		}
		return f.MarkAsRead()
	}
	return unsupportedTarget("Used", target)
}

// Accessors generates getX for fields and setX for non-final fields. Placed
// on a type it covers every non-static field.
type Accessors struct{}

func (Accessors) Name() string { return "Accessors" }

func (a Accessors) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	u := ctx.Unit
	switch d := target.(type) {
	case macro.TypeDeclaration:
		t, err := u.AsMutableType(d)
		if err != nil {
			return err
		}
		fields, err := t.MutableFields()
		if err != nil {
			return err
		}
		for _, f := range fields {
			if f.IsStatic() {
				continue
			}
			if err := a.generate(t, f); err != nil {
				return err
			}
		}
		return nil
	case macro.FieldDeclaration:
		f, err := u.AsMutableField(d)
		if err != nil {
			return err
		}
		t, err := f.MutableDeclaringType()
		if err != nil {
			return err
		}
		return a.generate(t, f)
	}
	return unsupportedTarget("Accessors", target)
}

func (Accessors) generate(t macro.MutableTypeDeclaration, f macro.MutableFieldDeclaration) error {
	suffix := capitalize(f.SimpleName())
	if _, exists := t.FindMethod("get" + suffix); !exists {
		getter, err := t.AddMethod("get" + suffix)
		if err != nil {
			return err
		}
		if err := getter.SetReturnType(f.Type()); err != nil {
			return err
		}
		if err := getter.SetVisibility(model.VisibilityPublic); err != nil {
			return err
		}
		if err := getter.SetStatic(f.IsStatic()); err != nil {
			return err
		}
		if err := f.MarkAsRead(); err != nil {
			return err
		}
	}
	if f.IsFinal() {
		return nil
	}
	if _, exists := t.FindMethod("set" + suffix); exists {
		return nil
	}
	setter, err := t.AddMethod("set" + suffix)
	if err != nil {
		return err
	}
	if _, err := setter.AddParameter(f.SimpleName(), f.Type()); err != nil {
		return err
	}
	if err := setter.SetVisibility(model.VisibilityPublic); err != nil {
		return err
	}
	return f.MarkAsInitialized()
}

// Validate checks structural rules of a type and reports every violation.
// It fails when at least one error was reported.
type Validate struct{}

func (Validate) Name() string { return "Validate" }

func (Validate) Process(ctx *Context, target macro.Declaration, _ model.Annotation) error {
	t, ok := target.(macro.TypeDeclaration)
	if !ok {
		return unsupportedTarget("Validate", target)
	}
	failed := 0
	report := func(d macro.Declaration, format string, args ...any) {
		failed++
		diag.ReportError(ctx.Reporter, diag.MacroValidation, d.Pos(), fmt.Sprintf(format, args...)).
			WithNote(t.Pos(), "validated type declared here").
			Emit()
	}
	for _, m := range t.Methods() {
		switch {
		case m.IsAbstract() && t.IsFinal():
			report(m, "abstract method %s in final type %s", m.Name(), t.QualifiedName())
		case m.IsAbstract() && t.TypeKind() == model.TypeClass && !t.IsAbstract():
			report(m, "abstract method %s in concrete class %s", m.Name(), t.QualifiedName())
		case m.IsAbstract() && (m.IsStatic() || m.IsFinal() || m.IsNative()):
			report(m, "abstract method %s cannot be static, final or native", m.Name())
		case m.IsDefault() && t.TypeKind() != model.TypeInterface:
			report(m, "default method %s outside an interface", m.Name())
		}
	}
	for _, f := range t.Fields() {
		if f.IsFinal() && f.IsVolatile() {
			report(f, "field %s cannot be both final and volatile", f.Name())
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d problem(s) in %s", ErrValidation, failed, t.QualifiedName())
	}
	return nil
}

func unsupportedTarget(name string, target macro.Declaration) error {
	return fmt.Errorf("%w: @%s is not applicable to %s", macro.ErrInvalidArgument, name, target.Name())
}

func capitalize(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
