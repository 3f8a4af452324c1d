package clock

import "time"

// Clock is the time source of a tick driver.
type Clock interface {
	Now() time.Time
}

type clock struct{}

func (clock) Now() time.Time {
	return time.Now()
}

// Make returns the wall clock.
func Make() Clock {
	return clock{}
}

// Manual is a clock that only moves when advanced.
type Manual struct {
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Now() time.Time {
	return c.now
}

func (c *Manual) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *Manual) Set(now time.Time) {
	c.now = now
}
