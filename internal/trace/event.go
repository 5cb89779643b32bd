package trace

import "time"

// Kind distinguishes span boundaries from instant events.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
)

var kindNames = [...]string{KindBegin: "begin", KindEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Coarser scopes have lower values.
type Scope uint8

const (
	// ScopeDriver covers a whole CLI operation.
	ScopeDriver Scope = iota + 1
	// ScopeUnit covers one compilation unit.
	ScopeUnit
	// ScopeMacro covers one processor invocation or phase transition.
	ScopeMacro
	// ScopeDecl covers single declaration reads and mutations.
	ScopeDecl
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopeUnit: "unit", ScopeMacro: "macro", ScopeDecl: "decl"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is a key/value pair attached to a span's end event, kept in insertion order.
type Attr struct {
	Key   string
	Value string
}

// Event is a single trace record.
type Event struct {
	At        time.Time
	Seq       uint64 // assigned by the sink that stores or writes the event
	Kind      Kind
	Scope     Scope
	Span      uint64 // zero for points
	Parent    uint64
	Goroutine uint64
	Name      string // "unit", "setFinal", processor name
	Detail    string
	Attrs     []Attr
}

// Attr returns the value recorded under key.
func (ev *Event) Attr(key string) (string, bool) {
	for _, a := range ev.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
