package types

import (
	"fmt"

	"fortio.org/safecast"

	"facet/internal/source"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Void    TypeID
	Boolean TypeID
	Byte    TypeID
	Short   TypeID
	Char    TypeID
	Int     TypeID
	Long    TypeID
	Float   TypeID
	Double  TypeID
}

// Interner provides stable TypeIDs by hashing structural descriptors.
// Nominal types (classes, type parameters) get a fresh ID per registration
// and keep their metadata in side tables addressed by Type.Payload.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	names    *source.Interner
	classes  []ClassInfo
	byName   map[string]TypeID
	params   []TypeParamInfo
	args     [][]TypeID
	argIndex map[string]uint32
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{
		index:    make(map[typeKey]TypeID, 64),
		names:    source.NewInterner(),
		byName:   make(map[string]TypeID, 32),
		argIndex: make(map[string]uint32, 16),
	}
	in.types = append(in.types, Type{}) // reserve 0 as NoTypeID
	in.classes = append(in.classes, ClassInfo{})
	in.params = append(in.params, TypeParamInfo{})
	in.args = append(in.args, nil)
	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Boolean = in.Intern(Type{Kind: KindBoolean})
	in.builtins.Byte = in.Intern(Type{Kind: KindByte})
	in.builtins.Short = in.Intern(Type{Kind: KindShort})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.Int = in.Intern(Type{Kind: KindInt})
	in.builtins.Long = in.Intern(Type{Kind: KindLong})
	in.builtins.Float = in.Intern(Type{Kind: KindFloat})
	in.builtins.Double = in.Intern(Type{Kind: KindDouble})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Primitive maps a primitive keyword ("int", "void", ...) to its TypeID.
func (in *Interner) Primitive(name string) (TypeID, bool) {
	b := in.builtins
	switch name {
	case "void":
		return b.Void, true
	case "boolean":
		return b.Boolean, true
	case "byte":
		return b.Byte, true
	case "short":
		return b.Short, true
	case "char":
		return b.Char, true
	case "int":
		return b.Int, true
	case "long":
		return b.Long, true
	case "float":
		return b.Float, true
	case "double":
		return b.Double, true
	}
	return NoTypeID, false
}

// Intern ensures the provided structural descriptor has a stable TypeID.
// Nominal kinds must go through RegisterClass / RegisterTypeParam, which
// allocate a unique payload slot first.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	id := in.internRaw(t)
	in.index[key] = id
	return id
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(n)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Owns reports whether id was issued by this interner.
func (in *Interner) Owns(id TypeID) bool {
	_, ok := in.Lookup(id)
	return ok
}

// Array interns elem[].
func (in *Interner) Array(elem TypeID) TypeID {
	return in.Intern(MakeArray(elem))
}

// Wildcard interns a wildcard with the given variance and bound.
func (in *Interner) Wildcard(v Variance, bound TypeID) TypeID {
	return in.Intern(MakeWildcard(v, bound))
}

// Len reports the number of interned types excluding the sentinel.
func (in *Interner) Len() int { return len(in.types) - 1 }

type typeKey Type
