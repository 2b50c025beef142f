// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ticks

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestExceedsBoundary(t *testing.T) {
	const budget = 381
	for _, n := range []int{0, 1, budget - 1, budget, budget + 1, 1000} {
		c := New(0)
		ctr := c.NewCounter()
		for i := 0; i < n; i++ {
			c.Tick()
		}
		if got, want := ctr.Exceeds(budget), n > budget; got != want {
			t.Errorf("after %d ticks Exceeds(%d) = %t, want %t", n, budget, got, want)
		}
	}
}

func TestReset(t *testing.T) {
	for _, n := range []int{0, 1, 763, 65535, 65536, 70000} {
		c := New(0)
		ctr := c.NewCounter()
		for i := 0; i < n; i++ {
			c.Tick()
		}
		ctr.Reset()
		if v := ctr.Load(); v != 0 {
			t.Errorf("after %d ticks and Reset() Load() = %d", n, v)
		}
	}
}

func TestWraparound(t *testing.T) {
	c := New(0)
	ctr := c.NewCounter()
	for i := 0; i < 65535; i++ {
		c.Tick()
	}
	if v := ctr.Load(); v != 65535 {
		t.Fatalf("Load() = %d, want 65535", v)
	}
	c.Tick()
	if v := ctr.Load(); v != 0 {
		t.Errorf("Load() = %d after wraparound, want 0", v)
	}
	c.Tick()
	if v := ctr.Load(); v != 1 {
		t.Errorf("Load() = %d, want 1", v)
	}
}

func TestTake(t *testing.T) {
	c := New(0)
	ctr := c.NewCounter()
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if v := ctr.Take(); v != 10 {
		t.Errorf("Take() = %d, want 10", v)
	}
	if v := ctr.Load(); v != 0 {
		t.Errorf("Load() after Take() = %d", v)
	}
}

func TestCountersAreIndependent(t *testing.T) {
	c := New(0)
	a, b := c.NewCounter(), c.NewCounter()
	c.Tick()
	c.Tick()
	a.Reset()
	c.Tick()
	if a.Load() != 1 || b.Load() != 3 {
		t.Errorf("a=%d b=%d, want 1 and 3", a.Load(), b.Load())
	}
}

// TestConcurrentTake checks no tick is lost or counted twice when the
// control loop takes the value while the clock runs.
func TestConcurrentTake(t *testing.T) {
	c := New(0)
	ctr := c.NewCounter()
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			c.Tick()
		}
	}()
	total := 0
	for i := 0; i < 1000; i++ {
		total += int(ctr.Take())
	}
	wg.Wait()
	total += int(ctr.Take())
	if total != n {
		t.Errorf("took %d ticks, want %d", total, n)
	}
}

func TestStartHalt(t *testing.T) {
	c := New(time.Millisecond)
	ctr := c.NewCounter()
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected error starting twice")
	}
	deadline := time.Now().Add(5 * time.Second)
	for ctr.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if err := c.Halt(); err != nil {
		t.Fatal(err)
	}
	v := ctr.Load()
	if v < 5 {
		t.Fatalf("clock ticked %d times", v)
	}
	time.Sleep(10 * time.Millisecond)
	if ctr.Load() != v {
		t.Error("clock kept ticking after Halt")
	}
	if err := c.Halt(); err != nil {
		t.Error(err)
	}
}

func TestStartContext(t *testing.T) {
	c := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := c.Halt(); err != nil {
		t.Fatal(err)
	}
	if c.Period() != time.Millisecond {
		t.Errorf("Period() = %s", c.Period())
	}
	if New(0).Period() != DefaultPeriod {
		t.Error("New(0) doesn't use DefaultPeriod")
	}
}
