// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ticks implements the robot's only time source: a fixed period
// clock that increments a set of free-running counters.
//
// The clock stands in for a hardware timer interrupt. On every tick each
// registered counter is incremented by one and nothing else happens. The
// control loop reads and resets the counters and compares them against
// thresholds expressed in ticks, so every duration derived from them is
// quantized to the tick period.
package ticks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the overflow period of the original 16 bit timer running
// at 5MHz.
const DefaultPeriod = 13107200 * time.Nanosecond

// Counter is a 16 bit free-running tick counter. All accesses are atomic with
// respect to the clock.
type Counter struct {
	// Only the low 16 bits are meaningful. 2^32 being a multiple of 2^16,
	// the word can wrap on its own.
	v atomic.Uint32
}

// Load returns the current value.
func (c *Counter) Load() uint16 {
	return uint16(c.v.Load())
}

// Reset sets the counter to 0.
func (c *Counter) Reset() {
	c.v.Store(0)
}

// Take returns the current value and resets the counter in one step, so no
// tick is lost between the read and the reset.
func (c *Counter) Take() uint16 {
	return uint16(c.v.Swap(0))
}

// Exceeds returns true if the counter is strictly greater than limit.
func (c *Counter) Exceeds(limit uint16) bool {
	return c.Load() > limit
}

func (c *Counter) inc() {
	c.v.Add(1)
}

// Clock increments its counters every period once started.
type Clock struct {
	period time.Duration

	mu       sync.Mutex
	counters []*Counter
	stop     chan struct{}
	done     chan struct{}
}

// New returns a stopped clock. A period of 0 means DefaultPeriod.
func New(period time.Duration) *Clock {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Clock{period: period}
}

// Period returns the tick period.
func (c *Clock) Period() time.Duration {
	return c.period
}

// NewCounter returns a zeroed counter driven by the clock.
func (c *Clock) NewCounter() *Counter {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctr := &Counter{}
	c.counters = append(c.counters, ctr)
	return ctr
}

// Tick increments every counter by one. It is what the timer does on each
// period and is exported so tests can drive time by hand.
func (c *Clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ctr := range c.counters {
		ctr.inc()
	}
}

// Start runs the clock until ctx is done or Halt is called. Ticks missed
// because the process wasn't scheduled are dropped, like a timer overflow
// that happens while its interrupt is still pending.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return errors.New("ticks: clock already running")
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.run(ctx, c.stop, c.done)
	return nil
}

func (c *Clock) run(ctx context.Context, stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(c.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-t.C:
			c.Tick()
		}
	}
}

// Halt stops the clock and waits for the last tick to complete. Counters keep
// their value.
func (c *Clock) Halt() error {
	c.mu.Lock()
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()
	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}

func (c *Clock) String() string {
	return "ticks: " + c.period.String()
}
