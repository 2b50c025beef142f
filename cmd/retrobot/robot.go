// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/GermanBionicSystems/retrobot/behavior"
	"github.com/GermanBionicSystems/retrobot/bustimeout"
	"github.com/GermanBionicSystems/retrobot/config"
	"github.com/GermanBionicSystems/retrobot/lm75"
	"github.com/GermanBionicSystems/retrobot/mcp23016"
	"github.com/GermanBionicSystems/retrobot/motor"
	"github.com/GermanBionicSystems/retrobot/srf02"
	"github.com/GermanBionicSystems/retrobot/ticks"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// robot is every device of the robot wired together.
type robot struct {
	bus      i2c.BusCloser
	expander *mcp23016.Dev
	motors   *motor.Board
	clock    *ticks.Clock
	engine   *behavior.Engine
}

// open initializes the host and the devices.
func open(cfg *config.Config) (*robot, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I²C: %w", err)
	}
	r := &robot{bus: bus}
	if err := r.wire(cfg, bustimeout.New(bus, cfg.BusTimeout)); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *robot) wire(cfg *config.Config, bus i2c.Bus) error {
	ranger, err := srf02.NewI2C(bus, cfg.Addresses.Ranger, &srf02.Opts{Settle: cfg.RangerSettle})
	if err != nil {
		return err
	}
	// All 16 expander pins drive motors.
	if r.expander, err = mcp23016.NewI2C(bus, cfg.Addresses.Expander, nil); err != nil {
		return err
	}
	var inverted []motor.ID
	for _, id := range cfg.InvertedMotors {
		inverted = append(inverted, motor.ID(id))
	}
	r.motors = motor.NewBoard(r.expander, &motor.Opts{Inverted: inverted})

	in := behavior.Inputs{Ranger: ranger}
	if cfg.UseTemperature {
		if in.Thermometer, err = lm75.NewI2C(bus, cfg.Addresses.Thermometer, nil); err != nil {
			return err
		}
	}
	if cfg.Pins.PIR != "" {
		p := gpioreg.ByName(cfg.Pins.PIR)
		if p == nil {
			return fmt.Errorf("no pin %q for the PIR sensor", cfg.Pins.PIR)
		}
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return err
		}
		in.Presence = p
	}

	out := behavior.Outputs{Motors: r.motors}
	if out.Relay = gpioreg.ByName(cfg.Pins.Relay); out.Relay == nil {
		return fmt.Errorf("no pin %q for the relay", cfg.Pins.Relay)
	}
	if cfg.Pins.LED != "" {
		led := gpioreg.ByName(cfg.Pins.LED)
		if led == nil {
			return fmt.Errorf("no pin %q for the LED", cfg.Pins.LED)
		}
		out.LED = led
	}

	r.clock = ticks.New(cfg.TickPeriod)
	opts := cfg.EngineOpts()
	if cfg.Verbose {
		opts.Logger = log.New(os.Stderr, "retrobot: ", log.LstdFlags)
	}
	r.engine, err = behavior.New(in, out, r.clock, &opts)
	return err
}

// Close stops the clock, lets the motors coast and releases the bus.
func (r *robot) Close() error {
	var errs []error
	if r.clock != nil {
		errs = append(errs, r.clock.Halt())
	}
	if r.motors != nil {
		errs = append(errs, r.motors.Halt())
	}
	if r.expander != nil {
		errs = append(errs, r.expander.Halt())
	}
	errs = append(errs, r.bus.Close())
	err := errors.Join(errs...)
	if err != nil {
		log.Printf("retrobot: close: %v", err)
	}
	return err
}
