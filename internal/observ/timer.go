package observ

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var phaseSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "facet_phase_duration_seconds",
	Help:    "Wall time of driver and unit phases",
	Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
}, []string{"phase"})

type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
	done  bool
}

// Timer records named phases. Units running in parallel may share one.
type Timer struct {
	mu     sync.Mutex
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Start opens a phase. Calling the returned func closes it with a note;
// later calls are ignored.
func (t *Timer) Start(name string) func(note string) {
	t.mu.Lock()
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	t.mu.Unlock()
	return func(note string) {
		t.mu.Lock()
		defer t.mu.Unlock()
		p := &t.phases[idx]
		if p.done {
			return
		}
		p.dur, p.note, p.done = time.Since(p.start), note, true
		phaseSeconds.WithLabelValues(name).Observe(p.dur.Seconds())
	}
}

// Record adds a phase measured elsewhere.
func (t *Timer) Record(name string, dur time.Duration, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, phase{name: name, start: time.Now().Add(-dur), dur: dur, note: note, done: true})
	phaseSeconds.WithLabelValues(name).Observe(dur.Seconds())
}

// PhaseReport is one finished phase.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report lists finished phases in start order. Phases recorded in parallel
// are summed, so TotalMS can exceed wall time.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

// Report snapshots finished phases; open ones are left out.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		if !p.done {
			continue
		}
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note})
	}
	r.TotalMS = millis(total)
	return r
}

// WriteText prints r under title, one phase per line.
func (r Report) WriteText(w io.Writer, title string) error {
	if _, err := fmt.Fprintf(w, "timings %s: total %.2f ms\n", title, r.TotalMS); err != nil {
		return err
	}
	for _, p := range r.Phases {
		line := fmt.Sprintf("  %-10s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			line += "  // " + p.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
