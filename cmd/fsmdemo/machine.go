package main

import (
	"log/slog"
	"time"

	fsm "github.com/stateforward/go-fsm"
)

type state uint8

const (
	Idle state = iota
	Walking
	Running
	Stunned
	Paused
)

func (s state) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Walking:
		return "Walking"
	case Running:
		return "Running"
	case Stunned:
		return "Stunned"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

const (
	runSpeed    = 5.0
	stamina     = time.Second
	stunTime    = time.Second
	pauseAt     = 4 * time.Second
	resumeAt    = 4500 * time.Millisecond
	pauseHolder = "menu"
)

// character is a scripted actor: its speed follows the elapsed time,
// it trips after running for too long and a pause menu overrides it
// for a short window.
type character struct {
	machine *fsm.Machine[state]
	logger  *slog.Logger
	elapsed time.Duration
	speed   float64
	running time.Duration
	paused  bool
}

func newCharacter(logger *slog.Logger, options ...fsm.Option) *character {
	c := &character{logger: logger}
	m := fsm.New(Idle, append([]fsm.Option{fsm.WithLogger(logger)}, options...)...)
	c.machine = m

	m.AddStateAlias(Idle, "idle")
	m.AddStateAlias(Walking, "walking")
	m.AddStateAlias(Running, "running")
	m.AddStateAlias(Stunned, "stunned")
	m.AddStateAlias(Paused, "paused")

	m.AddConditionalTransition(Idle, Walking, func() bool { return c.speed > 0 })
	m.AddConditionalTransition(Walking, Running, func() bool { return c.speed >= runSpeed })
	m.AddConditionalTransition(Walking, Idle, func() bool { return c.speed == 0 })
	m.AddConditionalTransition(Running, Walking, func() bool { return c.speed < runSpeed })
	m.AddTimedTransition(Stunned, Idle, stunTime)

	m.OnEnter(Running, func() { c.running = 0 })
	m.OnUpdateDelta(Running, func(delta time.Duration) {
		c.running += delta
		if c.running >= stamina {
			m.SetState(Stunned)
		}
	})
	m.OnTransitionProgress(Idle, func(progress float64) {
		c.logger.Debug("recovering", "progress", progress)
	})
	m.OnTransition(func(from, to state) {
		c.logger.Info("state changed", "from", from, "to", to, "at", c.elapsed)
	})
	return c
}

func (c *character) Tick(delta time.Duration) {
	c.elapsed += delta
	switch {
	case c.elapsed < 500*time.Millisecond:
		c.speed = 0
	case c.elapsed < 1500*time.Millisecond:
		c.speed = 2
	default:
		c.speed = 6
	}
	if !c.paused && c.elapsed >= pauseAt && c.elapsed < resumeAt {
		c.machine.SetStateOverride(Paused, pauseHolder)
		c.paused = true
	}
	if c.paused && c.elapsed >= resumeAt {
		c.machine.RemoveStateOverride(pauseHolder)
		c.paused = false
	}
	c.machine.Tick(delta)
}
