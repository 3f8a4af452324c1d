package fsm

import (
	"errors"
	"log/slog"
	"time"

	"github.com/stateforward/go-fsm/embedded"
	"github.com/stateforward/go-fsm/kinds"
	"github.com/stateforward/go-fsm/pkg/telemetry"
)

// SetState transitions to state immediately. It is a no-op, reported
// through the logger and observers, when the machine or state is
// blocked, when state is already current, or when called from a
// callback of a transition that is still completing.
func (m *Machine[S]) SetState(state S) bool {
	return m.begin(state, kinds.Immediate)
}

// SetStateAndReinvoke is SetState that also accepts the current state,
// running its exit and enter callbacks again.
func (m *Machine[S]) SetStateAndReinvoke(state S) bool {
	return m.begin(state, kinds.Reinvoke)
}

// SetStateAfter schedules a transition to state once duration has been
// ticked. A pending timed transition is replaced.
func (m *Machine[S]) SetStateAfter(state S, duration time.Duration) bool {
	return m.after(state, duration, kinds.Timed)
}

// SetStateOverride registers owner as holding the machine in state and
// transitions there without touching the state restored once every
// owner has been removed.
func (m *Machine[S]) SetStateOverride(state S, owner any) bool {
	if m.completing {
		m.reject(slog.LevelError, state, kinds.Override, ErrReentrantTransition)
		return false
	}
	m.overrides.Add(owner)
	return m.begin(state, kinds.Override)
}

// RemoveStateOverride releases owner. When it was the last owner the
// machine returns to the state it was in before the first override.
// It reports whether owner was holding an override.
func (m *Machine[S]) RemoveStateOverride(owner any) bool {
	if m.completing {
		m.reject(slog.LevelError, m.lastNonOverride, kinds.Restore, ErrReentrantTransition)
		return false
	}
	if !m.overrides.Remove(owner) {
		m.reject(slog.LevelDebug, m.lastNonOverride, kinds.Restore, ErrUnknownOverride)
		return false
	}
	if m.overrides.IsEmpty() {
		m.begin(m.lastNonOverride, kinds.Restore)
	}
	return true
}

// CancelActiveTransition drops the pending timed transition, if any,
// without running callbacks.
func (m *Machine[S]) CancelActiveTransition() {
	if m.pending == nil {
		return
	}
	m.logger.Debug("timed transition cancelled", "to", label(m.pending.target), "elapsed", m.pending.elapsed)
	m.pending = nil
}

// SetStateWithoutCallbacks moves to state bypassing blockers and
// callbacks. History and the previous state are updated as for a
// regular transition.
func (m *Machine[S]) SetStateWithoutCallbacks(state S) {
	if m.completing {
		m.reject(slog.LevelError, state, kinds.Silent, ErrReentrantTransition)
		return
	}
	from := m.current
	m.move(from, state, kinds.Silent)
	m.logger.Debug("state set without callbacks", "from", label(from), "to", label(state))
}

// Tick advances the machine by delta: the pending timed transition
// first, then the update callbacks of the current state, then its
// conditional transitions.
func (m *Machine[S]) Tick(delta time.Duration) {
	delta = max(delta, 0)
	m.advance(delta)
	current := m.current
	for _, fn := range m.update[current] {
		fn()
	}
	for _, fn := range m.updateDelta[current] {
		fn(delta)
	}
	m.evaluate()
}

func (m *Machine[S]) advance(delta time.Duration) {
	pending := m.pending
	if pending == nil {
		return
	}
	pending.elapsed += delta
	if pending.elapsed >= pending.duration {
		if !m.complete(pending) && m.pending == pending {
			m.pending = nil
		}
		return
	}
	progress := float64(pending.elapsed) / float64(pending.duration)
	for _, fn := range m.progress[pending.target] {
		fn(progress)
	}
}

func (m *Machine[S]) evaluate() {
	for _, conditional := range m.conditionals[m.current] {
		if conditional.predicate() {
			m.begin(conditional.target, kinds.Conditional)
			return
		}
	}
}

func (m *Machine[S]) check(target S, kind uint64) error {
	if m.completing {
		return ErrReentrantTransition
	}
	if err := m.blocked(target); err != nil {
		return err
	}
	if target == m.current && !kinds.IsKind(kind, kinds.Reinvoke) {
		return ErrAlreadyActive
	}
	return nil
}

func (m *Machine[S]) blocked(target S) error {
	if !m.machineBlockers.IsEmpty() {
		return ErrMachineBlocked
	}
	if m.IsStateBlocked(target) {
		return ErrStateBlocked
	}
	return nil
}

func (m *Machine[S]) begin(target S, kind uint64) bool {
	if err := m.check(target, kind); err != nil {
		m.reject(levelOf(err), target, kind, err)
		return false
	}
	return m.complete(&transition[S]{target: target, kind: kind})
}

func (m *Machine[S]) after(target S, duration time.Duration, kind uint64) bool {
	if err := m.check(target, kind); err != nil {
		m.reject(levelOf(err), target, kind, err)
		return false
	}
	if m.pending != nil {
		m.logger.Debug("replacing pending transition", "to", label(m.pending.target), "replacement", label(target))
	}
	m.pending = &transition[S]{target: target, kind: kind, duration: duration}
	m.logger.Debug("transition scheduled", "from", label(m.current), "to", label(target), "kind", kinds.Name(kind), "after", duration)
	return true
}

// complete runs the transition. The state is updated before any
// callback runs so a panicking callback cannot leave it half applied.
func (m *Machine[S]) complete(t *transition[S]) bool {
	from, to := m.current, t.target
	if m.completing {
		m.reject(slog.LevelError, to, t.kind, ErrReentrantTransition)
		return false
	}
	_, span := telemetry.StartTransition(m.ctx, m.tracer, m.id, label(from), label(to), kinds.Name(t.kind))
	defer span.End()
	if err := m.blocked(to); err != nil {
		telemetry.Fail(span, err)
		level := slog.LevelDebug
		if kinds.IsKind(t.kind, kinds.Timed) {
			level = slog.LevelWarn
		}
		m.reject(level, to, t.kind, err)
		return false
	}

	m.completing = true
	m.move(from, to, t.kind)
	m.logger.Debug("transition", "from", label(from), "to", label(to), "kind", kinds.Name(t.kind))
	func() {
		defer func() {
			m.completing = false
			m.pending = nil
		}()
		m.dispatch(from, to)
	}()
	m.notify(from, to, t.kind)

	if next, ok := m.timed[to]; ok {
		m.after(next.target, next.duration, kinds.Chained)
	}
	return true
}

func (m *Machine[S]) move(from, to S, kind uint64) {
	if from != to {
		m.previous = from
		m.history.Push(from)
	}
	m.current = to
	if !kinds.IsKind(kind, kinds.Override) && m.overrides.IsEmpty() {
		m.lastNonOverride = to
	}
}

func (m *Machine[S]) dispatch(from, to S) {
	for _, fn := range m.exit[from] {
		fn()
	}
	for _, fn := range m.exitAny {
		fn(from)
	}
	for _, fn := range m.transitions {
		fn(from, to)
	}
	for _, fn := range m.enter[to] {
		fn()
	}
	for _, fn := range m.enterFrom[TransitionKey(from, to)] {
		fn()
	}
	for _, fn := range m.enterAny {
		fn(to)
	}
}

func (m *Machine[S]) record(from, to S, kind uint64) embedded.Transition {
	return embedded.Transition{
		Machine: m.id,
		From:    label(from),
		To:      label(to),
		Kind:    kind,
	}
}

func (m *Machine[S]) notify(from, to S, kind uint64) {
	if len(m.observers) == 0 {
		return
	}
	record := m.record(from, to, kind)
	for _, observer := range m.observers {
		observer.Transitioned(record)
	}
}

func (m *Machine[S]) reject(level slog.Level, target S, kind uint64, reason error) {
	m.logger.Log(m.ctx, level, "transition rejected",
		"from", label(m.current),
		"to", label(target),
		"kind", kinds.Name(kind),
		"err", reason,
	)
	if len(m.observers) == 0 {
		return
	}
	record := m.record(m.current, target, kind)
	for _, observer := range m.observers {
		observer.Rejected(record, reason)
	}
}

func levelOf(err error) slog.Level {
	if errors.Is(err, ErrReentrantTransition) {
		return slog.LevelError
	}
	return slog.LevelDebug
}
