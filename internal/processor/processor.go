// Package processor runs annotation processors against a compilation unit
// during its macro phase.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"facet/internal/diag"
	"facet/internal/macro"
	"facet/internal/model"
	"facet/internal/source"
	"facet/internal/trace"
)

var (
	// ErrUnknownProcessor is returned when a configured processor is not registered.
	ErrUnknownProcessor = errors.New("unknown processor")
	// ErrValidation marks declarations rejected by a validating processor.
	ErrValidation = errors.New("validation failed")
)

// Context is what a processor sees besides its target.
type Context struct {
	Ctx      context.Context
	Unit     *macro.CompilationUnit
	Reporter diag.Reporter
}

// Processor transforms declarations carrying an annotation with its name.
type Processor interface {
	// Name is the simple annotation name the processor reacts to.
	Name() string
	Process(ctx *Context, target macro.Declaration, ann model.Annotation) error
}

// Registry holds processors by annotation name in registration order.
type Registry struct {
	byName map[string]Processor
	order  []string
}

func NewRegistry(ps ...Processor) (*Registry, error) {
	r := &Registry{byName: make(map[string]Processor, len(ps))}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds p. Names must be unique.
func (r *Registry) Register(p Processor) error {
	if p == nil || p.Name() == "" {
		return fmt.Errorf("processor: nil or unnamed processor")
	}
	if _, dup := r.byName[p.Name()]; dup {
		return fmt.Errorf("processor: %q registered twice", p.Name())
	}
	r.byName[p.Name()] = p
	r.order = append(r.order, p.Name())
	return nil
}

func (r *Registry) Lookup(name string) (Processor, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string { return append([]string(nil), r.order...) }

// Select returns a registry restricted to names. An empty list selects everything.
func (r *Registry) Select(names []string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	out := &Registry{byName: make(map[string]Processor, len(names))}
	for _, name := range names {
		p, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownProcessor, name, strings.Join(r.order, ", "))
		}
		if err := out.Register(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type invocation struct {
	proc   Processor
	target macro.Declaration
	ann    model.Annotation
}

// Run applies every matching processor to the unit's source declarations and
// returns the number of invocations. Targets are collected before the first
// processor runs, so declarations added by processors are not visited. The
// first failure stops the run.
func (r *Registry) Run(ctx context.Context, u *macro.CompilationUnit, rep diag.Reporter) (int, error) {
	var pending []invocation
	collect := func(d macro.Declaration) {
		for _, ann := range d.Annotations() {
			if p, ok := r.byName[simpleName(ann.Name)]; ok {
				pending = append(pending, invocation{proc: p, target: d, ann: ann})
			}
		}
	}
	for _, t := range u.SourceTypes() {
		collect(t)
		for _, tp := range t.TypeParameters() {
			collect(tp)
		}
		for _, f := range t.Fields() {
			collect(f)
		}
		for _, m := range t.Methods() {
			collect(m)
			for _, p := range m.Parameters() {
				collect(p)
			}
		}
	}

	pctx := &Context{Ctx: ctx, Unit: u, Reporter: rep}
	for i, inv := range pending {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		_, span := trace.Start(ctx, trace.ScopeMacro, inv.proc.Name())
		span.Set("target", inv.target.Name())
		err := inv.proc.Process(pctx, inv.target, inv.ann)
		if err != nil {
			span.End("failed")
			return i, &InvocationError{
				Processor: inv.proc.Name(),
				Target:    inv.target.Name(),
				Pos:       inv.ann.Pos,
				Err:       err,
			}
		}
		span.End("")
	}
	return len(pending), nil
}

// InvocationError reports the processor invocation that stopped a run.
type InvocationError struct {
	Processor string
	Target    string
	// Pos is the position of the annotation that triggered the processor.
	Pos source.Pos
	Err error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("@%s on %s: %v", e.Processor, e.Target, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
