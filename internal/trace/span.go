package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// goroutineID parses the header of runtime.Stack ("goroutine 17 [running]:").
func goroutineID() uint64 {
	var buf [64]byte
	header := string(buf[:runtime.Stack(buf[:], false)])
	fields := strings.Fields(strings.TrimPrefix(header, "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func allows(t Tracer, scope Scope) bool {
	return t != nil && t.Level().Allows(scope)
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if !allows(t, scope) {
		return
	}
	t.Emit(&Event{
		At:        time.Now(),
		Kind:      KindPoint,
		Scope:     scope,
		Goroutine: goroutineID(),
		Name:      name,
		Detail:    detail,
	})
}

// Span is an open operation. A span whose scope is filtered out is inert:
// every method is a no-op and ID returns zero.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Begin opens a span under parent (zero for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if !allows(t, scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		At:        at,
		Kind:      kind,
		Scope:     s.scope,
		Span:      s.id,
		Parent:    s.parent,
		Goroutine: s.gid,
		Name:      s.name,
		Detail:    detail,
	}
	if kind == KindEnd {
		ev.Attrs = s.attrs
	}
	return ev
}

// Set records an attribute reported with the end event.
func (s *Span) Set(key, value string) *Span {
	if s == nil || s.id == 0 {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.id == 0 {
		return 0
	}
	now := time.Now()
	s.tracer.Emit(s.event(KindEnd, now, detail))
	return now.Sub(s.started)
}

// ID returns the span identifier, zero for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
