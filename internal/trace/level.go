package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError records nothing on its own; a ring at this level only serves dumps.
	LevelError
	// LevelPhase emits driver boundaries.
	LevelPhase
	// LevelDetail adds units and processors.
	LevelDetail
	// LevelDebug emits every declaration access.
	LevelDebug
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// levelReach is the finest scope each level lets through.
var levelReach = [...]Scope{LevelPhase: ScopeDriver, LevelDetail: ScopeMacro, LevelDebug: ScopeDecl}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name; the empty string means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown trace level %q (want %s)", s, strings.Join(levelNames[:], "|"))
}

// Allows reports whether events of scope pass at this level.
func (l Level) Allows(scope Scope) bool {
	if int(l) >= len(levelReach) {
		return false
	}
	reach := levelReach[l]
	return reach != 0 && scope <= reach
}
