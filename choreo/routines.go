// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package choreo

import (
	"errors"
	"time"

	"github.com/GermanBionicSystems/retrobot/motor"
	"periph.io/x/conn/v3/gpio"
)

var errNoRelay = errors.New("no relay")

// Timing holds the durations of the built-in routines.
type Timing struct {
	// Settle is the pause between stopping the wheels and turning.
	Settle time.Duration `yaml:"settle" env:"SETTLE"`
	// Turn is how long the wheels spin in opposite directions to avoid an
	// obstacle.
	Turn time.Duration `yaml:"turn" env:"TURN"`
	// Beat is the length of one move of the dance.
	Beat time.Duration `yaml:"beat" env:"BEAT"`
	// Cycles is the number of back and forth wiggles of the dance.
	Cycles int `yaml:"cycles" env:"CYCLES"`
}

// DefaultTiming returns the timing the robot was tuned with.
func DefaultTiming() Timing {
	return Timing{
		Settle: 100 * time.Millisecond,
		Turn:   time.Second,
		Beat:   time.Second,
		Cycles: 8,
	}
}

// Avoid returns the sequence turning the robot away from an obstacle: stop,
// then spin on the spot for t.Turn, then stop.
func Avoid(t Timing) Sequence {
	return Sequence{
		Drive(motor.WheelRight, motor.Stop),
		Drive(motor.WheelLeft, motor.Stop).Then(t.Settle),
		Drive(motor.WheelRight, motor.Forward),
		Drive(motor.WheelLeft, motor.Backward).Then(t.Turn),
		Drive(motor.WheelRight, motor.Stop),
		Drive(motor.WheelLeft, motor.Stop),
	}
}

// Dance returns the entertainment routine: the music relay and the maraca
// are switched on while the robot wiggles t.Cycles times, then the right arm
// is extended and retracted.
func Dance(t Timing) Sequence {
	seq := Sequence{
		Relay(gpio.High),
		Drive(motor.Maraca, motor.Activate),
	}
	for i := 0; i < t.Cycles; i++ {
		seq = append(seq,
			Drive(motor.WheelRight, motor.Forward),
			Drive(motor.WheelLeft, motor.Backward).Then(t.Beat),
			Drive(motor.WheelRight, motor.Stop),
			Drive(motor.WheelLeft, motor.Stop).Then(t.Beat),
			Drive(motor.WheelRight, motor.Backward),
			Drive(motor.WheelLeft, motor.Forward).Then(t.Beat),
			Drive(motor.WheelRight, motor.Stop),
			Drive(motor.WheelLeft, motor.Stop),
		)
	}
	return append(seq,
		Relay(gpio.Low),
		Drive(motor.Maraca, motor.Stop),
		Drive(motor.ArmRight, motor.Forward).Then(t.Beat),
		Drive(motor.ArmRight, motor.Stop).Then(t.Beat),
		Drive(motor.ArmRight, motor.Backward).Then(t.Beat),
		Drive(motor.ArmRight, motor.Stop),
	)
}
