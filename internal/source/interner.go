package source

import (
	"fmt"

	"fortio.org/safecast"
)

// StringID identifies an interned qualified name.
type StringID uint32

// NoStringID always maps to the empty string.
const NoStringID StringID = 0

// Interner hands out dense IDs for the qualified names a type table refers
// to. It belongs to one model and is not safe for concurrent use.
type Interner struct {
	names []string
	ids   map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{names: []string{""}, ids: map[string]StringID{"": NoStringID}}
}

// Intern returns the ID for name, allocating one on first use.
func (in *Interner) Intern(name string) StringID {
	if id, ok := in.ids[name]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.names))
	if err != nil {
		panic(fmt.Errorf("name table overflow: %w", err))
	}
	// names often come from a YAML document buffer; keep a private copy
	name = string([]byte(name))
	id := StringID(n)
	in.names = append(in.names, name)
	in.ids[name] = id
	return id
}

// Lookup returns the name for id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.names) {
		return "", false
	}
	return in.names[id], true
}

// MustLookup is Lookup for IDs known to come from this interner.
func (in *Interner) MustLookup(id StringID) string {
	name, ok := in.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("name id %d out of range (%d names)", id, len(in.names)))
	}
	return name
}

// Len counts interned names, NoStringID included.
func (in *Interner) Len() int { return len(in.names) }
