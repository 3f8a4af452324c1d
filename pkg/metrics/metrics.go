// Package metrics exports transition counts to Prometheus.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/embedded"
	"github.com/stateforward/go-fsm/kinds"
)

// Collector is an observer counting completed and rejected transitions.
type Collector struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

var _ embedded.Observer = (*Collector)(nil)

// New creates the collector and registers it with registerer.
func New(namespace string, registerer prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transitions_total",
				Help:      "Total number of completed state transitions.",
			},
			[]string{"from", "to", "kind"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of rejected state transitions.",
			},
			[]string{"target", "reason"},
		),
	}
	for _, collector := range []prometheus.Collector{c.transitions, c.rejections} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) Transitioned(transition embedded.Transition) {
	c.transitions.WithLabelValues(transition.From, transition.To, kinds.Name(transition.Kind)).Inc()
}

func (c *Collector) Rejected(transition embedded.Transition, reason error) {
	c.rejections.WithLabelValues(transition.To, Reason(reason)).Inc()
}

// Reason maps a rejection error to a bounded label value.
func Reason(err error) string {
	switch {
	case errors.Is(err, fsm.ErrMachineBlocked):
		return "machine_blocked"
	case errors.Is(err, fsm.ErrStateBlocked):
		return "state_blocked"
	case errors.Is(err, fsm.ErrAlreadyActive):
		return "already_active"
	case errors.Is(err, fsm.ErrReentrantTransition):
		return "reentrant"
	case errors.Is(err, fsm.ErrUnknownOverride):
		return "unknown_override"
	default:
		return "other"
	}
}
