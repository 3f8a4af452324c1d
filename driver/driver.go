// Package driver advances a machine on a fixed tick rate. All ticks
// are issued from the goroutine calling Step or Run.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stateforward/go-fsm/clock"
	"github.com/stateforward/go-fsm/embedded"
)

var ErrTickPanic = errors.New("tick panicked")

const (
	DefaultTickRate = 16667 * time.Microsecond
	DefaultMaxDelta = 250 * time.Millisecond
)

type Config struct {
	// TickRate is the interval between ticks in Run.
	TickRate time.Duration
	// MaxDelta caps the delta handed to a single tick, so a stalled
	// process does not complete every timed transition at once.
	MaxDelta time.Duration
}

type Option func(*Driver)

func WithClock(c clock.Clock) Option {
	return func(d *Driver) {
		d.clock = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = logger
	}
}

type Driver struct {
	ticker   embedded.Ticker
	clock    clock.Clock
	logger   *slog.Logger
	tickRate time.Duration
	maxDelta time.Duration
	last     time.Time
	ticks    uint64
}

func New(ticker embedded.Ticker, cfg Config, options ...Option) *Driver {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultTickRate
	}
	if cfg.MaxDelta == 0 {
		cfg.MaxDelta = DefaultMaxDelta
	}
	d := &Driver{
		ticker:   ticker,
		clock:    clock.Make(),
		logger:   slog.Default(),
		tickRate: cfg.TickRate,
		maxDelta: cfg.MaxDelta,
	}
	for _, option := range options {
		option(d)
	}
	d.Reset()
	return d
}

// Reset makes the next Step measure its delta from now.
func (d *Driver) Reset() {
	d.last = d.clock.Now()
}

func (d *Driver) Ticks() uint64 {
	return d.ticks
}

// Step ticks once with the time elapsed since the previous step.
func (d *Driver) Step() (delta time.Duration, err error) {
	now := d.clock.Now()
	delta = max(now.Sub(d.last), 0)
	d.last = now
	if d.maxDelta > 0 && delta > d.maxDelta {
		delta = d.maxDelta
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: tick %d: %v", ErrTickPanic, d.ticks, r)
		}
	}()
	d.ticker.Tick(delta)
	d.ticks++
	return delta, nil
}

// Run steps on every tick of a time.Ticker until ctx is done or a
// tick panics.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.tickRate)
	defer ticker.Stop()
	d.Reset()
	d.logger.Debug("driver started", "tick_rate", d.tickRate)
	for {
		select {
		case <-ctx.Done():
			d.logger.Debug("driver stopped", "ticks", d.ticks)
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.Step(); err != nil {
				d.logger.Error("tick failed", "err", err)
				return err
			}
		}
	}
}
