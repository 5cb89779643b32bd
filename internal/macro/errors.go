package macro

import (
	"errors"
	"fmt"

	"facet/internal/typeref"
)

var (
	// ErrFrozenModel is returned by every mutator once the unit left the macro phase.
	ErrFrozenModel = errors.New("declaration model is frozen")
	// ErrInvalidArgument reports a nil or malformed argument.
	ErrInvalidArgument = typeref.ErrInvalidArgument
	// ErrInvalidTypeReference reports a reference that does not denote a usable type.
	ErrInvalidTypeReference = typeref.ErrInvalidTypeReference
	// ErrCapabilityMismatch reports a declaration that cannot be viewed as mutable.
	ErrCapabilityMismatch = errors.New("declaration does not support mutation")
	// ErrUnitDisposed is returned after Dispose; it also matches ErrFrozenModel.
	ErrUnitDisposed = fmt.Errorf("%w: compilation unit disposed", ErrFrozenModel)
	// ErrUnitAborted marks a unit whose macro phase failed.
	ErrUnitAborted = errors.New("compilation unit aborted")
	// ErrNotFrozen is returned when the generation model is requested too early.
	ErrNotFrozen = errors.New("compilation unit is still in the macro phase")
)

// DeclarationError ties a failure to the operation and declaration involved.
type DeclarationError struct {
	Op   string
	Decl string
	Err  error
}

func (e *DeclarationError) Error() string {
	if e.Decl == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Decl, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func invalidTypeReference(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTypeReference, fmt.Sprintf(format, args...))
}
