package driver

import "time"

// Stage identifies a step of one unit's compilation.
type Stage uint8

const (
	StageLoad Stage = iota + 1
	StageMacro
	StageFreeze
	StageTracking
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageMacro:
		return "processing"
	case StageFreeze:
		return "freezing"
	case StageTracking:
		return "tracking"
	default:
		return ""
	}
}

// Status is the state reported together with a Stage.
type Status uint8

const (
	StatusQueued Status = iota + 1
	StatusWorking
	StatusDone
	StatusError
)

// Event reports unit progress. An empty File describes the whole run.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel; sends block while the channel is full.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
