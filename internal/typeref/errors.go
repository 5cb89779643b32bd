package typeref

import "errors"

var (
	// ErrInvalidArgument reports a caller error: nil or empty reference.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidTypeReference reports a reference that does not denote a type of the unit.
	ErrInvalidTypeReference = errors.New("invalid type reference")
)
