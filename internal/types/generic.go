package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Parameterized interns base<args...>. Equal (base, args) pairs share an ID.
// An empty args slice returns base unchanged.
func (in *Interner) Parameterized(base TypeID, args []TypeID) TypeID {
	if len(args) == 0 {
		return base
	}
	slot := in.argsSlot(args)
	return in.Intern(Type{Kind: KindParameterized, Elem: base, Payload: slot})
}

// TypeArgs returns a copy of the type arguments of a parameterized type.
func (in *Interner) TypeArgs(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindParameterized {
		return nil
	}
	if int(tt.Payload) >= len(in.args) {
		return nil
	}
	return append([]TypeID(nil), in.args[tt.Payload]...)
}

// Base returns the raw class of a parameterized type, or id itself otherwise.
func (in *Interner) Base(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if ok && tt.Kind == KindParameterized {
		return tt.Elem
	}
	return id
}

func (in *Interner) argsSlot(args []TypeID) uint32 {
	var sb strings.Builder
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	key := sb.String()
	if slot, ok := in.argIndex[key]; ok {
		return slot
	}
	in.args = append(in.args, append([]TypeID(nil), args...))
	slot, err := safecast.Conv[uint32](len(in.args) - 1)
	if err != nil {
		panic(fmt.Errorf("type args overflow: %w", err))
	}
	in.argIndex[key] = slot
	return slot
}
