// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23016

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Register addresses. Registers come in pairs, the even one is port 0 and the
// odd one is port 1.
const (
	GP0     uint8 = 0x00 // Port 0 pins.
	GP1     uint8 = 0x01 // Port 1 pins.
	OLAT0   uint8 = 0x02 // Output latch of port 0.
	OLAT1   uint8 = 0x03 // Output latch of port 1.
	IPOL0   uint8 = 0x04 // Input polarity of port 0.
	IPOL1   uint8 = 0x05 // Input polarity of port 1.
	IODIR0  uint8 = 0x06 // Direction of port 0, 1 is input.
	IODIR1  uint8 = 0x07 // Direction of port 1, 1 is input.
	INTCAP0 uint8 = 0x08 // Interrupt capture of port 0.
	INTCAP1 uint8 = 0x09 // Interrupt capture of port 1.
	IOCON0  uint8 = 0x0a // Control register.
	IOCON1  uint8 = 0x0b // Same as IOCON0.
)

// registerPair accesses two consecutive registers as one 16 bit value, port 0
// in the low byte.
type registerPair struct {
	i2c     *i2c.Dev
	address uint8
	gap     time.Duration
}

func newRegisterPair(d *i2c.Dev, address uint8, gap time.Duration) registerPair {
	return registerPair{i2c: d, address: address, gap: gap}
}

func (r *registerPair) read() (uint16, error) {
	rx := make([]byte, 2)
	err := r.i2c.Tx([]byte{r.address}, rx)
	r.wait()
	if err != nil {
		return 0, fmt.Errorf("mcp23016: read register 0x%02x: %w", r.address, err)
	}
	return uint16(rx[1])<<8 | uint16(rx[0]), nil
}

func (r *registerPair) write(value uint16) error {
	err := r.i2c.Tx([]byte{r.address, byte(value), byte(value >> 8)}, nil)
	r.wait()
	if err != nil {
		return fmt.Errorf("mcp23016: write register 0x%02x: %w", r.address, err)
	}
	return nil
}

// update does a read-modify-write of the pair: bits in set are raised, then
// bits in clear are lowered.
func (r *registerPair) update(set, clear uint16) error {
	v, err := r.read()
	if err != nil {
		return err
	}
	return r.write((v | set) &^ clear)
}

// The chip misbehaves when transactions come back to back.
func (r *registerPair) wait() {
	if r.gap > 0 {
		time.Sleep(r.gap)
	}
}
