package macro

import (
	"errors"

	"facet/internal/model"
	"facet/internal/trace"
)

// Phase is the unit-wide mutability state. It only moves forward.
type Phase uint8

const (
	PhaseMutable Phase = iota
	PhaseFrozen
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseMutable:
		return "mutable"
	case PhaseFrozen:
		return "frozen"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Gate guards every mutating entry point of one compilation unit.
type Gate struct {
	phase  Phase
	tracer trace.Tracer
}

func newGate(tracer trace.Tracer) *Gate {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Gate{tracer: tracer}
}

// Phase reports the current phase.
func (g *Gate) Phase() Phase { return g.phase }

// Check fails with ErrFrozenModel unless the unit is mutable. It has no side effects.
func (g *Gate) Check() error {
	switch g.phase {
	case PhaseMutable:
		return nil
	case PhaseDisposed:
		return ErrUnitDisposed
	default:
		return ErrFrozenModel
	}
}

// Guard runs fn if the unit is mutable. fn must validate its arguments before
// touching the delegate so that a failed call leaves the model unchanged.
func (g *Gate) Guard(op string, target model.Node, fn func() error) error {
	if err := g.Check(); err != nil {
		mutationsTotal.WithLabelValues(op, outcomeRejected).Inc()
		return &DeclarationError{Op: op, Decl: displayName(target), Err: err}
	}
	if err := fn(); err != nil {
		mutationsTotal.WithLabelValues(op, outcomeInvalid).Inc()
		var declErr *DeclarationError
		if errors.As(err, &declErr) {
			return err
		}
		return &DeclarationError{Op: op, Decl: displayName(target), Err: err}
	}
	mutationsTotal.WithLabelValues(op, outcomeApplied).Inc()
	trace.Point(g.tracer, trace.ScopeDecl, op, displayName(target))
	return nil
}

// advance moves the gate forward; moving backwards is ignored.
func (g *Gate) advance(to Phase) bool {
	if to <= g.phase {
		return false
	}
	g.phase = to
	unitTransitionsTotal.WithLabelValues(to.String()).Inc()
	return true
}

func displayName(n model.Node) string {
	if n == nil {
		return ""
	}
	return model.DisplayName(n)
}
