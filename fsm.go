// Package fsm is a tick-driven finite state machine keyed by a small
// integral enumeration. It supports immediate, timed, conditional and
// override transitions, per-state and machine-wide blocking, a bounded
// history of previous states and ordered callback registries.
//
// A Machine is not safe for concurrent use. It is advanced by calling
// Tick from a single goroutine, usually through the driver package.
package fsm

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/stateforward/go-fsm/embedded"
	"github.com/stateforward/go-fsm/kinds"
	"github.com/stateforward/go-fsm/pkg/set"
	"github.com/stateforward/go-fsm/pkg/telemetry"
	"github.com/stateforward/go-fsm/queue"
)

const DefaultHistoryCapacity = 16

// State is the constraint for state enumerations. 64-bit kinds are
// excluded since transition keys pack two 32-bit halves.
type State interface {
	~int | ~int8 | ~int16 | ~int32 | ~uint | ~uint8 | ~uint16 | ~uint32
}

type config struct {
	ctx             context.Context
	logger          *slog.Logger
	tracer          trace.Tracer
	observers       []embedded.Observer
	historyCapacity int
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		c.tracer = tracer
	}
}

// WithObserver adds an observer notified after every completed or
// rejected transition.
func WithObserver(observer embedded.Observer) Option {
	return func(c *config) {
		c.observers = append(c.observers, observer)
	}
}

func WithHistoryCapacity(capacity int) Option {
	return func(c *config) {
		c.historyCapacity = capacity
	}
}

// WithContext sets the parent context of transition spans.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

type transition[S State] struct {
	target   S
	kind     uint64
	elapsed  time.Duration
	duration time.Duration
}

type conditional[S State] struct {
	target    S
	predicate func() bool
}

type timed[S State] struct {
	target   S
	duration time.Duration
}

type Machine[S State] struct {
	id        string
	ctx       context.Context
	logger    *slog.Logger
	tracer    trace.Tracer
	observers []embedded.Observer

	current         S
	previous        S
	lastNonOverride S
	history         *queue.Ring[S]

	blockers        map[S]set.Set[any]
	machineBlockers set.Set[any]
	overrides       set.Set[any]

	pending    *transition[S]
	completing bool

	enter       map[S][]func()
	enterAny    []func(to S)
	enterFrom   map[uint64][]func()
	exit        map[S][]func()
	exitAny     []func(from S)
	update      map[S][]func()
	updateDelta map[S][]func(delta time.Duration)
	progress    map[S][]func(progress float64)
	transitions []func(from, to S)

	conditionals map[S][]conditional[S]
	timed        map[S]timed[S]
	aliases      map[string]S
	fold         cases.Caser
	known        set.Set[S]
}

// New creates a machine resting in initial. No callbacks run for the
// initial state.
func New[S State](initial S, options ...Option) *Machine[S] {
	cfg := config{
		ctx:             context.Background(),
		historyCapacity: DefaultHistoryCapacity,
	}
	for _, option := range options {
		option(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracer == nil {
		cfg.tracer = telemetry.Tracer()
	}
	var id string
	if uid, err := uuid.NewV7(); err == nil {
		id = uid.String()
	} else {
		id = uuid.NewString()
	}
	return &Machine[S]{
		id:              id,
		ctx:             cfg.ctx,
		logger:          cfg.logger.With("machine", id),
		tracer:          cfg.tracer,
		observers:       cfg.observers,
		current:         initial,
		previous:        initial,
		lastNonOverride: initial,
		history:         queue.New[S](cfg.historyCapacity),
		blockers:        map[S]set.Set[any]{},
		machineBlockers: set.New[any](),
		overrides:       set.New[any](),
		enter:           map[S][]func(){},
		enterFrom:       map[uint64][]func(){},
		exit:            map[S][]func(){},
		update:          map[S][]func(){},
		updateDelta:     map[S][]func(time.Duration){},
		progress:        map[S][]func(float64){},
		conditionals:    map[S][]conditional[S]{},
		timed:           map[S]timed[S]{},
		aliases:         map[string]S{},
		fold:            cases.Fold(),
		known:           set.New(initial),
	}
}

func (m *Machine[S]) ID() string {
	return m.id
}

func (m *Machine[S]) CurrentState() S {
	return m.current
}

func (m *Machine[S]) PreviousState() S {
	return m.previous
}

// IsStateActive reports whether the current state is any of states.
func (m *Machine[S]) IsStateActive(states ...S) bool {
	return slices.Contains(states, m.current)
}

func (m *Machine[S]) WasPreviousState(state S) bool {
	return m.previous == state
}

// StateHistory returns a copy of the history, oldest first.
func (m *Machine[S]) StateHistory() []S {
	return m.history.Slice()
}

// PreviousStateThatWasNot walks the history from the most recent entry
// and returns the first state not in excluded, or the zero value when
// the history is exhausted.
func (m *Machine[S]) PreviousStateThatWasNot(excluded ...S) S {
	for state := range m.history.Backward() {
		if !slices.Contains(excluded, state) {
			return state
		}
	}
	var zero S
	return zero
}

func (m *Machine[S]) IsStateBlocked(state S) bool {
	return !m.blockers[state].IsEmpty()
}

func (m *Machine[S]) IsStateMachineBlocked() bool {
	return !m.machineBlockers.IsEmpty()
}

// IsTransitioning reports whether a timed transition is pending or a
// transition is completing.
func (m *Machine[S]) IsTransitioning() bool {
	return m.pending != nil || m.completing
}

func (m *Machine[S]) PendingState() (S, bool) {
	if m.pending == nil {
		var zero S
		return zero, false
	}
	return m.pending.target, true
}

// TransitionProgress is the fraction of the pending timed transition
// already elapsed, zero when none is pending.
func (m *Machine[S]) TransitionProgress() float64 {
	if m.pending == nil || m.pending.duration <= 0 {
		return 0
	}
	return min(float64(m.pending.elapsed)/float64(m.pending.duration), 1)
}

func (m *Machine[S]) IsOverridden() bool {
	return !m.overrides.IsEmpty()
}

// HasStateOverride reports whether owner currently holds an override.
func (m *Machine[S]) HasStateOverride(owner any) bool {
	return m.overrides.Contains(owner)
}

func (m *Machine[S]) AddStateAlias(state S, name string) {
	m.aliases[m.fold.String(name)] = state
	m.known.Add(state)
}

// FromAlias resolves a name registered with AddStateAlias, ignoring case.
func (m *Machine[S]) FromAlias(name string) (S, bool) {
	state, ok := m.aliases[m.fold.String(name)]
	return state, ok
}

func (m *Machine[S]) BlockState(state S, token any) {
	blockers, ok := m.blockers[state]
	if !ok {
		blockers = set.New[any]()
		m.blockers[state] = blockers
	}
	if blockers.Add(token) {
		m.logger.Debug("state blocked", "state", label(state), "blockers", blockers.Size())
	}
}

func (m *Machine[S]) UnblockState(state S, token any) {
	if m.blockers[state].Remove(token) {
		m.logger.Debug("state unblocked", "state", label(state), "blockers", m.blockers[state].Size())
	}
}

func (m *Machine[S]) BlockStateMachine(token any) {
	if m.machineBlockers.Add(token) {
		m.logger.Debug("state machine blocked", "blockers", m.machineBlockers.Size())
	}
}

func (m *Machine[S]) UnblockStateMachine(token any) {
	if m.machineBlockers.Remove(token) {
		m.logger.Debug("state machine unblocked", "blockers", m.machineBlockers.Size())
	}
}

// Teardown releases every blocker, override owner and pending
// transition. Registered callbacks and transitions are kept.
func (m *Machine[S]) Teardown() {
	clear(m.blockers)
	m.machineBlockers.Clear()
	m.overrides.Clear()
	m.pending = nil
	m.logger.Debug("state machine torn down", "state", label(m.current))
}

type model struct {
	id      string
	current string
	states  []string
	edges   []embedded.Edge
}

func (m *model) Id() string {
	return m.id
}

func (m *model) Current() string {
	return m.current
}

func (m *model) States() []string {
	return m.states
}

func (m *model) Edges() []embedded.Edge {
	return m.edges
}

// Describe snapshots the configured conditional and timed transitions.
func (m *Machine[S]) Describe() embedded.Model {
	states := slices.Sorted(m.known.Items())
	description := &model{
		id:      m.id,
		current: label(m.current),
	}
	for _, state := range states {
		description.states = append(description.states, label(state))
	}
	for _, state := range states {
		for i, conditional := range m.conditionals[state] {
			description.edges = append(description.edges, embedded.Edge{
				Source: label(state),
				Target: label(conditional.target),
				Kind:   kinds.Conditional,
				Label:  fmt.Sprintf("when #%d", i+1),
			})
		}
		if timed, ok := m.timed[state]; ok {
			description.edges = append(description.edges, embedded.Edge{
				Source: label(state),
				Target: label(timed.target),
				Kind:   kinds.Timed,
				Label:  fmt.Sprintf("after %s", timed.duration),
			})
		}
	}
	return description
}

func label[S State](state S) string {
	return fmt.Sprint(state)
}
