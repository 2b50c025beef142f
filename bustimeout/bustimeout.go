// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bustimeout bounds the duration of I²C transactions.
//
// A device that holds the bus or never answers blocks a plain Tx forever.
// Wrapping the bus makes such a transaction fail with ErrTimeout after a
// deadline so the caller can stop the robot. The stuck transaction keeps the
// bus: every following Tx also times out until it completes.
package bustimeout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// ErrTimeout is returned when a transaction did not complete in time.
var ErrTimeout = errors.New("bustimeout: transaction timed out")

// Bus is an i2c.Bus with a deadline on every transaction.
type Bus struct {
	bus     i2c.Bus
	timeout time.Duration
	// busy serializes the transactions on the wrapped bus. It is a channel
	// so that waiting for it can time out.
	busy chan struct{}

	mu sync.Mutex
}

// New wraps bus. A timeout of 0 or less returns bus as is.
func New(bus i2c.Bus, timeout time.Duration) i2c.Bus {
	if timeout <= 0 {
		return bus
	}
	return &Bus{bus: bus, timeout: timeout, busy: make(chan struct{}, 1)}
}

// Tx implements i2c.Bus. r is only written to when the transaction succeeds
// in time.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	deadline := time.NewTimer(b.timeout)
	defer deadline.Stop()

	select {
	case b.busy <- struct{}{}:
	case <-deadline.C:
		return fmt.Errorf("%w: bus held by a previous transaction (addr 0x%02x)", ErrTimeout, addr)
	}

	wc := append([]byte(nil), w...)
	rc := make([]byte, len(r))
	done := make(chan error, 1)
	go func() {
		defer func() { <-b.busy }()
		done <- b.bus.Tx(addr, wc, rc)
	}()

	select {
	case err := <-done:
		if err == nil {
			copy(r, rc)
		}
		return err
	case <-deadline.C:
		return fmt.Errorf("%w: addr 0x%02x after %s", ErrTimeout, addr, b.timeout)
	}
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bus.SetSpeed(f)
}

func (b *Bus) String() string {
	return fmt.Sprintf("%s (timeout %s)", b.bus, b.timeout)
}

var _ i2c.Bus = &Bus{}
