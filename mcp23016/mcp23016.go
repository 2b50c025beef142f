// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23016 provides an interface to the Microchip MCP23016 16-bit I²C
// I/O expander.
//
// The chip has two 8 bit ports. Every register exists once per port and the
// driver always accesses them as a pair, so a read or a write touches all 16
// pins at once. Changing a single pin is a read-modify-write of the whole
// port pair.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/20090C.pdf
package mcp23016

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the address with A2, A1 and A0 tied to ground.
const DefaultAddress uint16 = 0x20

const defaultGap = 50 * time.Microsecond

var errInvalidAddress = errors.New("mcp23016: invalid address")

// Opts holds the configuration applied when the device is opened.
type Opts struct {
	// Direction is written to IODIR0/IODIR1. A 1 bit makes the pin an input.
	// The zero value makes all 16 pins outputs.
	Direction uint16
	// Gap is the pause after every transaction. Zero means 50µs, negative
	// disables it.
	Gap time.Duration
}

// Dev is a handle to a MCP23016.
type Dev struct {
	mu    sync.Mutex
	d     *i2c.Dev
	gp    registerPair
	iodir registerPair
	ipol  registerPair
}

// NewI2C returns a device on the bus and configures the pin directions.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr < 0x20 || addr > 0x27 {
		return nil, errInvalidAddress
	}
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	gap := o.Gap
	switch {
	case gap == 0:
		gap = defaultGap
	case gap < 0:
		gap = 0
	}
	d := &i2c.Dev{Bus: b, Addr: addr}
	dev := &Dev{
		d:     d,
		gp:    newRegisterPair(d, GP0, gap),
		iodir: newRegisterPair(d, IODIR0, gap),
		ipol:  newRegisterPair(d, IPOL0, gap),
	}
	if err := dev.iodir.write(o.Direction); err != nil {
		return nil, err
	}
	return dev, nil
}

// ReadPins returns the state of the 16 pins. Port 0 is in the low byte.
func (dev *Dev) ReadPins() (uint16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.gp.read()
}

// WritePins sets the output state of the 16 pins in one transaction.
func (dev *Dev) WritePins(value uint16) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.gp.write(value)
}

// SetPins raises the pins in mask leaving the others unchanged.
func (dev *Dev) SetPins(mask uint16) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.gp.update(mask, 0)
}

// ClearPins lowers the pins in mask leaving the others unchanged.
func (dev *Dev) ClearPins(mask uint16) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.gp.update(0, mask)
}

// Input returns true if any of the pins in mask is high.
func (dev *Dev) Input(mask uint16) (bool, error) {
	v, err := dev.ReadPins()
	return v&mask != 0, err
}

// SetPolarity writes the input polarity registers. A 1 bit inverts the pin.
func (dev *Dev) SetPolarity(inverted uint16) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.ipol.write(inverted)
}

// Halt turns all the pins into inputs so nothing is driven anymore.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	return dev.iodir.write(0xffff)
}

func (dev *Dev) String() string {
	return fmt.Sprintf("mcp23016: %s", dev.d.String())
}

var _ conn.Resource = &Dev{}
