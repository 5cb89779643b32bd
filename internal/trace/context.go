package trace

import "context"

type bindingKey struct{}

// binding is what a context carries: the tracer and the innermost open span.
type binding struct {
	tracer Tracer
	span   uint64
}

func lookup(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(bindingKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// WithTracer returns ctx carrying t. The current span, if any, is kept.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	b := lookup(ctx)
	b.tracer = t
	return context.WithValue(ctx, bindingKey{}, b)
}

// FromContext returns the tracer carried by ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return lookup(ctx).tracer
}

// SpanID returns the innermost span opened with Start, zero at the root.
func SpanID(ctx context.Context) uint64 {
	return lookup(ctx).span
}

// Start opens a span below the one carried by ctx. The returned context
// parents later spans under it. Filtered spans leave ctx untouched so
// children attach to the nearest recorded ancestor.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	b := lookup(ctx)
	s := Begin(b.tracer, scope, name, b.span)
	if s.id == 0 {
		return ctx, s
	}
	return context.WithValue(ctx, bindingKey{}, binding{tracer: b.tracer, span: s.id}), s
}
