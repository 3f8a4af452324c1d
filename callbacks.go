package fsm

import (
	"fmt"
	"time"
)

// OnEnter runs fn whenever state is entered.
func (m *Machine[S]) OnEnter(state S, fn func()) {
	if fn == nil {
		panic(fmt.Errorf("enter callback for %v is nil", state))
	}
	m.enter[state] = append(m.enter[state], fn)
	m.known.Add(state)
}

// OnEnterAny runs fn with the entered state on every transition.
func (m *Machine[S]) OnEnterAny(fn func(to S)) {
	if fn == nil {
		panic(fmt.Errorf("enter callback is nil"))
	}
	m.enterAny = append(m.enterAny, fn)
}

// OnEnterFrom runs fn only when to is entered directly from from.
func (m *Machine[S]) OnEnterFrom(from, to S, fn func()) {
	if fn == nil {
		panic(fmt.Errorf("enter callback for %v -> %v is nil", from, to))
	}
	key := TransitionKey(from, to)
	m.enterFrom[key] = append(m.enterFrom[key], fn)
	m.known.Add(from, to)
}

func (m *Machine[S]) OnExit(state S, fn func()) {
	if fn == nil {
		panic(fmt.Errorf("exit callback for %v is nil", state))
	}
	m.exit[state] = append(m.exit[state], fn)
	m.known.Add(state)
}

func (m *Machine[S]) OnExitAny(fn func(from S)) {
	if fn == nil {
		panic(fmt.Errorf("exit callback is nil"))
	}
	m.exitAny = append(m.exitAny, fn)
}

// OnUpdate runs fn on every tick while state is current.
func (m *Machine[S]) OnUpdate(state S, fn func()) {
	if fn == nil {
		panic(fmt.Errorf("update callback for %v is nil", state))
	}
	m.update[state] = append(m.update[state], fn)
	m.known.Add(state)
}

// OnUpdateDelta is OnUpdate with the tick's delta.
func (m *Machine[S]) OnUpdateDelta(state S, fn func(delta time.Duration)) {
	if fn == nil {
		panic(fmt.Errorf("update callback for %v is nil", state))
	}
	m.updateDelta[state] = append(m.updateDelta[state], fn)
	m.known.Add(state)
}

// OnTransitionProgress runs fn on every tick a timed transition into
// target is pending, with the elapsed fraction in [0, 1).
func (m *Machine[S]) OnTransitionProgress(target S, fn func(progress float64)) {
	if fn == nil {
		panic(fmt.Errorf("progress callback for %v is nil", target))
	}
	m.progress[target] = append(m.progress[target], fn)
	m.known.Add(target)
}

// OnTransition runs fn for every completed transition, between the exit
// and enter callbacks.
func (m *Machine[S]) OnTransition(fn func(from, to S)) {
	if fn == nil {
		panic(fmt.Errorf("transition callback is nil"))
	}
	m.transitions = append(m.transitions, fn)
}

// AddConditionalTransition moves from -> to on the first tick predicate
// holds while from is current. Predicates of one state are tried in
// registration order and only the first that holds fires.
func (m *Machine[S]) AddConditionalTransition(from, to S, predicate func() bool) {
	if predicate == nil {
		panic(fmt.Errorf("predicate for %v -> %v is nil", from, to))
	}
	m.conditionals[from] = append(m.conditionals[from], conditional[S]{target: to, predicate: predicate})
	m.known.Add(from, to)
}

// AddTimedTransition schedules a timed transition to to whenever from
// is entered. A state has at most one such mapping; registering another
// replaces it.
func (m *Machine[S]) AddTimedTransition(from, to S, duration time.Duration) {
	if duration < 0 {
		panic(fmt.Errorf("timed transition %v -> %v has negative duration %s", from, to, duration))
	}
	if existing, ok := m.timed[from]; ok {
		m.logger.Warn("replacing timed transition", "from", label(from), "to", label(existing.target), "replacement", label(to))
	}
	m.timed[from] = timed[S]{target: to, duration: duration}
	m.known.Add(from, to)
}
