// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package behavior

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/GermanBionicSystems/retrobot/choreo"
	"github.com/GermanBionicSystems/retrobot/motor"
	"github.com/GermanBionicSystems/retrobot/ticks"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrSafeStop is returned once the engine stopped the robot because a
	// device stopped answering.
	ErrSafeStop = errors.New("behavior: safe stop")

	// ErrNotStarted is returned by Step before BringUp.
	ErrNotStarted = errors.New("behavior: not brought up")
)

// Ranger measures the distance to the nearest obstacle in centimeters. 0
// means no valid reading.
type Ranger interface {
	Distance() (uint8, error)
}

// Thermometer reads the temperature in whole degrees Celsius.
type Thermometer interface {
	Temperature() (int8, error)
}

// Inputs are the sensors polled by the engine. Thermometer and Presence are
// optional and only recorded, no behavior depends on them.
type Inputs struct {
	Ranger      Ranger
	Thermometer Thermometer
	Presence    gpio.PinIn
}

// Outputs are the actuators driven by the engine. LED is optional.
type Outputs struct {
	Motors choreo.Motors
	Relay  gpio.PinOut
	LED    gpio.PinOut
}

// Opts holds the tuning of the engine. Tick based values are compared with
// the counters as is, they are not converted from wall time.
type Opts struct {
	// Proximity is the distance in cm under which a reading is an obstacle.
	Proximity uint8
	// ForwardBudget is the number of ticks the robot may drive straight
	// before turning anyway.
	ForwardBudget uint16
	// DanceInterval is the number of ticks between two dances.
	DanceInterval uint16
	Timing        choreo.Timing
	// BusRetries is the number of extra attempts at reading the ranger
	// before giving up and stopping the robot.
	BusRetries int
	// BringUpBlinks is the number of LED blinks signaling the end of the
	// bring-up.
	BringUpBlinks  int
	UseTemperature bool
	UsePresence    bool
	// Logger receives the state transitions. nil disables logging.
	Logger *log.Logger
	// Sleep is used for every pause of the engine. nil means time.Sleep.
	Sleep func(time.Duration)
}

// DefaultOpts returns the values the robot was tuned with.
func DefaultOpts() Opts {
	return Opts{
		Proximity:     50,
		ForwardBudget: 381, // x13.1ms ≈ 5s
		DanceInterval: 763, // x13.1ms ≈ 10s
		Timing:        choreo.DefaultTiming(),
		BringUpBlinks: 10,
	}
}

// Readings is the last value of every sensor.
type Readings struct {
	Distance    uint8
	Temperature int8
	Presence    bool
	Iterations  uint64
}

// Engine owns the behavior state and the two tick counters.
type Engine struct {
	in     Inputs
	out    Outputs
	opts   Opts
	player *choreo.Player
	log    *log.Logger
	sleep  func(time.Duration)

	forward *ticks.Counter
	dance   *ticks.Counter

	mu       sync.Mutex
	state    State
	readings Readings
}

// New returns an engine in the Idle state. The forward and dance counters
// are registered on clock. opts may be nil.
func New(in Inputs, out Outputs, clock *ticks.Clock, opts *Opts) (*Engine, error) {
	if in.Ranger == nil {
		return nil, errors.New("behavior: a ranger is required")
	}
	if out.Motors == nil || out.Relay == nil {
		return nil, errors.New("behavior: motors and relay are required")
	}
	if clock == nil {
		return nil, errors.New("behavior: a clock is required")
	}
	o := DefaultOpts()
	if opts != nil {
		o = *opts
	}
	if o.BusRetries < 0 {
		return nil, fmt.Errorf("behavior: invalid retry count %d", o.BusRetries)
	}
	e := &Engine{
		in:      in,
		out:     out,
		opts:    o,
		log:     o.Logger,
		sleep:   o.Sleep,
		forward: clock.NewCounter(),
		dance:   clock.NewCounter(),
	}
	if e.log == nil {
		e.log = log.New(io.Discard, "", 0)
	}
	if e.sleep == nil {
		e.sleep = time.Sleep
	}
	e.player = &choreo.Player{Motors: out.Motors, Relay: out.Relay, Sleep: e.sleep}
	return e, nil
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Readings returns the values read during the last iteration.
func (e *Engine) Readings() Readings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.readings
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	prev := e.state
	e.state = s
	e.mu.Unlock()
	if prev != s {
		e.log.Printf("%s -> %s", prev, s)
	}
}

// BringUp puts the outputs in a known state, zeroes the counters, blinks the
// LED and starts navigating.
func (e *Engine) BringUp() error {
	if st := e.State(); st != Idle {
		return fmt.Errorf("behavior: bring-up from state %s", st)
	}
	if err := e.out.Relay.Out(gpio.Low); err != nil {
		return fmt.Errorf("behavior: relay: %w", err)
	}
	e.forward.Reset()
	e.dance.Reset()
	if err := e.blink(e.opts.BringUpBlinks); err != nil {
		return err
	}
	e.setState(Navigating)
	return nil
}

func (e *Engine) blink(n int) error {
	if e.out.LED == nil {
		return nil
	}
	for i := 0; i < n; i++ {
		if err := e.out.LED.Out(gpio.High); err != nil {
			return fmt.Errorf("behavior: led: %w", err)
		}
		e.sleep(100 * time.Millisecond)
		if err := e.out.LED.Out(gpio.Low); err != nil {
			return fmt.Errorf("behavior: led: %w", err)
		}
		e.sleep(100 * time.Millisecond)
	}
	return nil
}

// Step runs one iteration of the control loop. The dance check is done
// first, whatever the navigation is doing, then the navigation acts on the
// distance read at the start of the iteration.
func (e *Engine) Step() error {
	switch st := e.State(); st {
	case Idle:
		return ErrNotStarted
	case SafeStopped:
		return ErrSafeStop
	}

	d, err := e.readDistance()
	if err != nil {
		return e.safeStop(err)
	}
	e.readOptional(d)

	if e.dance.Exceeds(e.opts.DanceInterval) {
		if err := e.entertain(); err != nil {
			return e.safeStop(err)
		}
	}

	if e.State() != Navigating {
		return nil
	}
	if e.obstacle(d) || e.forward.Exceeds(e.opts.ForwardBudget) {
		err = e.avoid()
	} else {
		err = e.driveForward()
	}
	if err != nil {
		return e.safeStop(err)
	}
	return nil
}

func (e *Engine) obstacle(d uint8) bool {
	return d > 0 && d < e.opts.Proximity
}

func (e *Engine) readDistance() (uint8, error) {
	var err error
	for i := 0; i <= e.opts.BusRetries; i++ {
		var d uint8
		if d, err = e.in.Ranger.Distance(); err == nil {
			return d, nil
		}
		e.log.Printf("ranger attempt %d: %v", i+1, err)
	}
	return 0, err
}

// readOptional records the distance and the optional sensors that are
// enabled. Their errors are not fatal.
func (e *Engine) readOptional(d uint8) {
	r := e.Readings()
	r.Distance = d
	r.Iterations++
	if e.opts.UseTemperature && e.in.Thermometer != nil {
		if t, err := e.in.Thermometer.Temperature(); err == nil {
			r.Temperature = t
		} else {
			e.log.Printf("thermometer: %v", err)
		}
	}
	if e.opts.UsePresence && e.in.Presence != nil {
		r.Presence = e.in.Presence.Read() == gpio.High
	}
	e.mu.Lock()
	e.readings = r
	e.mu.Unlock()
}

// entertain plays the dance and goes back to the state it interrupted.
func (e *Engine) entertain() error {
	prev := e.State()
	e.setState(Entertaining)
	if err := e.player.Play(choreo.Dance(e.opts.Timing)); err != nil {
		return err
	}
	e.dance.Reset()
	e.setState(prev)
	return nil
}

func (e *Engine) avoid() error {
	e.setState(Avoiding)
	if err := e.player.Play(choreo.Avoid(e.opts.Timing)); err != nil {
		return err
	}
	e.forward.Reset()
	e.setState(Navigating)
	return nil
}

func (e *Engine) driveForward() error {
	if err := e.out.Motors.SetMotor(motor.WheelRight, motor.Forward); err != nil {
		return err
	}
	return e.out.Motors.SetMotor(motor.WheelLeft, motor.Forward)
}

// safeStop stops the robot after a device failure. The stop itself is best
// effort since the bus may be the culprit.
func (e *Engine) safeStop(cause error) error {
	e.setState(SafeStopped)
	if err := e.Halt(); err != nil {
		e.log.Printf("halt: %v", err)
	}
	return fmt.Errorf("%w: %w", ErrSafeStop, cause)
}

// Halt stops every motor and switches the relay off. The state is not
// changed.
func (e *Engine) Halt() error {
	var errs []error
	for id := motor.ID(1); int(id) <= motor.Count; id++ {
		if err := e.out.Motors.SetMotor(id, motor.Stop); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.out.Relay.Out(gpio.Low); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Run brings the engine up if needed and loops until ctx is done or an
// iteration fails. ctx is only checked between iterations, a routine in
// progress always completes. The motors are stopped on return.
func (e *Engine) Run(ctx context.Context) error {
	if e.State() == Idle {
		if err := e.BringUp(); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			if err := e.Halt(); err != nil {
				e.log.Printf("halt: %v", err)
			}
			return ctx.Err()
		default:
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
}

func (e *Engine) String() string {
	return "behavior: " + e.State().String()
}
