// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package srf02

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the factory address of the SRF02 (0xE0 in 8 bit
// notation).
const DefaultAddress uint16 = 0x70

// MaxDistance is the value returned by Distance when the range does not fit
// in a byte.
const MaxDistance uint8 = 255

const (
	_REGISTER_COMMAND byte = 0x00
	_REGISTER_RANGE   byte = 0x02

	_COMMAND_RANGE_CM byte = 0x51

	defaultSettle = 70 * time.Millisecond
)

var errInvalidAddress = errors.New("srf02: invalid address")

// Opts holds the configurable options for the ranger.
type Opts struct {
	// Settle is the time to wait between starting a ping and reading the
	// result. Zero means 70ms.
	Settle time.Duration
}

// Dev is a handle to a SRF02 ranger.
type Dev struct {
	mu     sync.Mutex
	d      *i2c.Dev
	settle time.Duration
}

// NewI2C returns a ranger on the specified bus. No transaction is done until
// the first reading.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	// The SRF02 can be reprogrammed to 0xE0-0xFE (8 bit), which is 0x70-0x7F.
	if addr < 0x70 || addr > 0x7f {
		return nil, errInvalidAddress
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}, settle: defaultSettle}
	if opts != nil && opts.Settle > 0 {
		d.settle = opts.Settle
	}
	return d, nil
}

// measure starts a ping, waits for it to complete and returns the raw
// range registers. The wait is a plain sleep, the caller is blocked for the
// whole measurement.
func (dev *Dev) measure() (high, low byte, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err = dev.d.Tx([]byte{_REGISTER_COMMAND, _COMMAND_RANGE_CM}, nil); err != nil {
		return 0, 0, fmt.Errorf("srf02: %w", err)
	}
	time.Sleep(dev.settle)
	r := make([]byte, 2)
	if err = dev.d.Tx([]byte{_REGISTER_RANGE}, r); err != nil {
		return 0, 0, fmt.Errorf("srf02: %w", err)
	}
	return r[0], r[1], nil
}

// Range performs a measurement and returns the distance to the nearest
// obstacle in centimeters.
func (dev *Dev) Range() (uint16, error) {
	high, low, err := dev.measure()
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// Distance performs a measurement and returns the distance in centimeters as
// a single byte. Anything that doesn't fit, including the values the device
// reports when it got no echo, saturates to MaxDistance.
//
// 0 means the device has no valid reading.
func (dev *Dev) Distance() (uint8, error) {
	high, low, err := dev.measure()
	if err != nil {
		return 0, err
	}
	return saturate(high, low), nil
}

func saturate(high, low byte) uint8 {
	if high > 0 {
		return MaxDistance
	}
	return low
}

// Sense performs a measurement and returns it as a physic.Distance.
func (dev *Dev) Sense() (physic.Distance, error) {
	cm, err := dev.Range()
	if err != nil {
		return 0, err
	}
	return physic.Distance(cm) * 10 * physic.MilliMetre, nil
}

// Halt implements conn.Resource. The SRF02 only pings on request so there is
// nothing to stop.
func (dev *Dev) Halt() error {
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("srf02: %s", dev.d.String())
}

var _ conn.Resource = &Dev{}
