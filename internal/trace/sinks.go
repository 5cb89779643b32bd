package trace

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// Stream writes events through a buffered writer as they arrive.
type Stream struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
}

// NewStream returns a stream tracer writing to w.
func NewStream(w io.Writer, level Level, format Format) *Stream {
	if format == FormatAuto {
		format = FormatText
	}
	return &Stream{out: w, buf: bufio.NewWriter(w), level: level, format: format}
}

func (s *Stream) Emit(ev *Event) {
	if !s.level.Allows(ev.Scope) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.Seq = nextSeq()
	// write errors surface from Flush
	_, _ = s.buf.Write(FormatEvent(ev, s.format)) //nolint:errcheck
}

func (s *Stream) Level() Level { return s.level }

func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Flush()
}

// Close flushes and closes the destination unless it is stdout or stderr.
func (s *Stream) Close() error {
	if err := s.Flush(); err != nil {
		return err
	}
	return closeOutput(s.out)
}

func closeOutput(w io.Writer) error {
	if w == nil || w == os.Stderr || w == os.Stdout {
		return nil
	}
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Ring keeps the most recent events in memory. It stores every scope it is
// given; filtering happens where events are produced.
type Ring struct {
	mu     sync.Mutex
	events []Event
	next   int
	count  int
	level  Level

	dumpTo     io.Writer
	dumpFormat Format
}

// NewRing returns a ring holding up to size events.
func NewRing(size int, level Level) *Ring {
	if size <= 0 {
		size = defaultRingSize
	}
	return &Ring{events: make([]Event, size), level: level}
}

func (r *Ring) Emit(ev *Event) {
	if r.level == LevelOff {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ev
	stored.Seq = nextSeq()
	r.events[r.next] = stored
	r.next = (r.next + 1) % len(r.events)
	if r.count < len(r.events) {
		r.count++
	}
}

// Events returns the stored events, oldest first.
func (r *Ring) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, 0, r.count)
	start := (r.next - r.count + len(r.events)) % len(r.events)
	for i := range r.count {
		out = append(out, r.events[(start+i)%len(r.events)])
	}
	return out
}

// Dump writes the stored events to w.
func (r *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Events() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Ring) Level() Level { return r.level }

func (r *Ring) Flush() error { return nil }

// Close dumps the ring when it was built by New in ModeRing.
func (r *Ring) Close() error {
	if r.dumpTo == nil {
		return nil
	}
	if err := r.Dump(r.dumpTo, r.dumpFormat); err != nil {
		return err
	}
	return closeOutput(r.dumpTo)
}

type tee struct {
	level   Level
	tracers []Tracer
}

// Tee fans every event out to tracers.
func Tee(level Level, tracers ...Tracer) Tracer {
	return &tee{level: level, tracers: tracers}
}

func (t *tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		// each sink assigns its own Seq
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *tee) Level() Level { return t.level }

func (t *tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}
