// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package choreo plays fixed sequences of actuator commands.
//
// A Sequence is a list of steps, each one an actuator command followed by a
// hold time. Playing a sequence is blocking: nothing else is polled until
// the last step has been executed.
package choreo

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/retrobot/motor"
	"periph.io/x/conn/v3/gpio"
)

// Kind is the type of command of a step.
type Kind uint8

const (
	// KindWait only holds.
	KindWait Kind = iota
	// KindDrive sets a motor direction.
	KindDrive
	// KindRelay sets the auxiliary relay.
	KindRelay
)

// Step is one command of a sequence.
type Step struct {
	Kind      Kind
	Motor     motor.ID
	Direction motor.Direction
	Level     gpio.Level
	// Hold is the time to wait after the command.
	Hold time.Duration
}

// Drive returns a step setting motor id to dir.
func Drive(id motor.ID, dir motor.Direction) Step {
	return Step{Kind: KindDrive, Motor: id, Direction: dir}
}

// Relay returns a step switching the relay.
func Relay(l gpio.Level) Step {
	return Step{Kind: KindRelay, Level: l}
}

// Wait returns a step that only holds for d.
func Wait(d time.Duration) Step {
	return Step{Kind: KindWait, Hold: d}
}

// Then returns a copy of s holding for d after the command.
func (s Step) Then(d time.Duration) Step {
	s.Hold = d
	return s
}

func (s Step) String() string {
	var cmd string
	switch s.Kind {
	case KindDrive:
		cmd = fmt.Sprintf("motor %d %s", s.Motor, s.Direction)
	case KindRelay:
		cmd = "relay " + s.Level.String()
	default:
		cmd = "wait"
	}
	if s.Hold > 0 {
		return cmd + " for " + s.Hold.String()
	}
	return cmd
}

// Sequence is an ordered list of steps.
type Sequence []Step

// Duration returns the sum of the hold times.
func (seq Sequence) Duration() time.Duration {
	var d time.Duration
	for _, s := range seq {
		d += s.Hold
	}
	return d
}

// Motors is what a Player drives.
type Motors interface {
	SetMotor(id motor.ID, dir motor.Direction) error
}

// Player executes sequences.
type Player struct {
	Motors Motors
	// Relay may be nil if no sequence uses it.
	Relay gpio.PinOut
	// Sleep is used for the hold times. nil means time.Sleep.
	Sleep func(time.Duration)
}

// Play executes seq step by step and returns once all holds have elapsed.
// It stops at the first actuator error.
func (p *Player) Play(seq Sequence) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	for i, s := range seq {
		if err := p.exec(s); err != nil {
			return fmt.Errorf("choreo: step %d (%s): %w", i, s, err)
		}
		if s.Hold > 0 {
			sleep(s.Hold)
		}
	}
	return nil
}

func (p *Player) exec(s Step) error {
	switch s.Kind {
	case KindDrive:
		return p.Motors.SetMotor(s.Motor, s.Direction)
	case KindRelay:
		if p.Relay == nil {
			return errNoRelay
		}
		return p.Relay.Out(s.Level)
	}
	return nil
}
