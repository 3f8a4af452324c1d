package embedded

import (
	"time"
)

// Ticker is anything advanced by a tick driver.
type Ticker interface {
	Tick(delta time.Duration)
}

// Transition describes one transition attempt. States are rendered with
// their %v form so observers do not need the machine's state type.
type Transition struct {
	Machine string
	From    string
	To      string
	Kind    uint64
}

type Observer interface {
	Transitioned(transition Transition)
	Rejected(transition Transition, reason error)
}

type Edge struct {
	Source string
	Target string
	Kind   uint64
	Label  string
}

type Model interface {
	Id() string
	Current() string
	States() []string
	Edges() []Edge
}
