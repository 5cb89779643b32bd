package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBoolean
	KindByte
	KindShort
	KindChar
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindClass
	KindArray
	KindParameterized
	KindWildcard
	KindTypeParam
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBoolean:
		return "boolean"
	case KindByte:
		return "byte"
	case KindShort:
		return "short"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	case KindParameterized:
		return "parameterized"
	case KindWildcard:
		return "wildcard"
	case KindTypeParam:
		return "type-param"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k is void or one of the primitive value kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindVoid && k <= KindDouble
}

// Variance describes the bound direction of a wildcard.
type Variance uint8

const (
	// VarianceNone is the unbounded wildcard "?".
	VarianceNone Variance = iota
	// VarianceExtends is "? extends T".
	VarianceExtends
	// VarianceSuper is "? super T".
	VarianceSuper
)

func (v Variance) String() string {
	switch v {
	case VarianceExtends:
		return "extends"
	case VarianceSuper:
		return "super"
	default:
		return "none"
	}
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind     Kind
	Elem     TypeID   // array element, parameterized base, wildcard bound
	Variance Variance // for wildcards
	Payload  uint32   // slot in the side tables (classes, args, type params)
}

// Descriptor helpers ---------------------------------------------------------

// MakeArray describes an array of elem.
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeWildcard describes "?", "? extends bound" or "? super bound".
// bound must be NoTypeID for VarianceNone.
func MakeWildcard(v Variance, bound TypeID) Type {
	if v == VarianceNone {
		bound = NoTypeID
	}
	return Type{Kind: KindWildcard, Variance: v, Elem: bound}
}
