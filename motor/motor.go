// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package motor drives up to eight bidirectional motors wired to a 16 bit
// I/O expander, two adjacent pins per motor.
//
// Each motor is driven through an H-bridge: pin A high and pin B low turns it
// one way, the opposite turns it the other way, both low lets it coast.
//
//	A0/A1 motor 1   B0/B1 motor 5
//	A2/A3 motor 2   B2/B3 motor 6
//	A4/A5 motor 3   B4/B5 motor 7
//	A6/A7 motor 4   B6/B7 motor 8
package motor

import (
	"fmt"
	"sync"
)

// ID identifies a motor, 1 to 8.
type ID uint8

// Motors of the robot.
const (
	Maraca        ID = 1
	HandRight     ID = 2
	ArmRight      ID = 3
	LightRight    ID = 4
	WheelRight    ID = 5
	WheelLeft     ID = 6
	ShoulderRight ID = 7
	ShoulderLeft  ID = 8
)

// Direction is a drive command centered on Stop. Values below Stop run the
// motor backward, values above run it forward.
type Direction uint8

const (
	Backward Direction = 0
	Stop     Direction = 128
	Forward  Direction = 255

	// Names used by the attachments.
	Activate Direction = Backward
	Close    Direction = Backward
	Down     Direction = Backward
	Open     Direction = Forward
	Up       Direction = Forward
)

func (d Direction) String() string {
	switch {
	case d < Stop:
		return "backward"
	case d > Stop:
		return "forward"
	default:
		return "stop"
	}
}

// Expander is the 16 bit output port the motors are wired to. Both calls
// access all the pins at once.
type Expander interface {
	ReadPins() (uint16, error)
	WritePins(value uint16) error
}

// pinPair describes the two expander pins of a motor.
type pinPair struct {
	a, b uint16
}

var wiring = [...]pinPair{
	{1 << 0, 1 << 1},
	{1 << 2, 1 << 3},
	{1 << 4, 1 << 5},
	{1 << 6, 1 << 7},
	{1 << 8, 1 << 9},
	{1 << 10, 1 << 11},
	{1 << 12, 1 << 13},
	{1 << 14, 1 << 15},
}

// Count is the number of motor slots.
const Count = len(wiring)

// Opts configures a Board.
type Opts struct {
	// Inverted lists the motors wired with A and B swapped.
	Inverted []ID
}

// Board drives the motors attached to an expander.
type Board struct {
	mu    sync.Mutex
	exp   Expander
	pairs [Count]pinPair
	mask  uint16
}

// NewBoard returns a Board using exp. opts may be nil.
func NewBoard(exp Expander, opts *Opts) *Board {
	b := &Board{exp: exp, pairs: wiring}
	if opts != nil {
		for _, id := range opts.Inverted {
			if p, ok := b.pair(id); ok {
				b.pairs[id-1] = pinPair{a: p.b, b: p.a}
			}
		}
	}
	for _, p := range b.pairs {
		b.mask |= p.a | p.b
	}
	return b
}

func (b *Board) pair(id ID) (pinPair, bool) {
	if id < 1 || int(id) > Count {
		return pinPair{}, false
	}
	return b.pairs[id-1], true
}

// SetMotor drives motor id in direction dir. The expander state is read,
// the two pins of the motor are changed and the whole state is written
// back, so the other motors are left as they were. When SetMotor returns
// without error the expander outputs reflect the command.
//
// An unknown id is ignored.
func (b *Board) SetMotor(id ID, dir Direction) error {
	p, ok := b.pair(id)
	if !ok {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.exp.ReadPins()
	if err != nil {
		return fmt.Errorf("motor %d: %w", id, err)
	}
	if err := b.exp.WritePins(apply(v, p, dir)); err != nil {
		return fmt.Errorf("motor %d: %w", id, err)
	}
	return nil
}

func apply(v uint16, p pinPair, dir Direction) uint16 {
	v &^= p.a | p.b
	switch {
	case dir < Stop:
		v |= p.a
	case dir > Stop:
		v |= p.b
	}
	return v
}

// Halt lets every motor coast. Pins not used by motors are untouched.
func (b *Board) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.exp.ReadPins()
	if err != nil {
		return fmt.Errorf("motor: %w", err)
	}
	if err := b.exp.WritePins(v &^ b.mask); err != nil {
		return fmt.Errorf("motor: %w", err)
	}
	return nil
}

func (b *Board) String() string {
	return fmt.Sprintf("motor board (%d motors)", Count)
}
