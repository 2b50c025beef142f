// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config holds the robot configuration.
//
// Values start from Default(), are overridden by an optional YAML file and
// then by RETROBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/GermanBionicSystems/retrobot/behavior"
	"github.com/GermanBionicSystems/retrobot/choreo"
	"github.com/GermanBionicSystems/retrobot/lm75"
	"github.com/GermanBionicSystems/retrobot/mcp23016"
	"github.com/GermanBionicSystems/retrobot/srf02"
	"github.com/GermanBionicSystems/retrobot/ticks"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v2"
)

// Addresses are the 7 bit I²C addresses of the devices. Environment values
// are decimal.
type Addresses struct {
	Ranger      uint16 `yaml:"ranger" env:"RANGER"`
	Thermometer uint16 `yaml:"thermometer" env:"THERMOMETER"`
	Expander    uint16 `yaml:"expander" env:"EXPANDER"`
}

// Pins are the gpioreg names of the pins driven directly by the host. An
// empty LED or PIR name means not connected.
type Pins struct {
	Relay string `yaml:"relay" env:"RELAY"`
	LED   string `yaml:"led" env:"LED"`
	PIR   string `yaml:"pir" env:"PIR"`
}

// Config is the complete robot configuration.
type Config struct {
	// Bus is the I²C bus name passed to i2creg.Open. Empty means the first
	// bus.
	Bus string `yaml:"bus" env:"RETROBOT_BUS"`
	// BusTimeout bounds every bus transaction. 0 disables the bound and a
	// dead device blocks the loop forever.
	BusTimeout time.Duration `yaml:"bus_timeout" env:"RETROBOT_BUS_TIMEOUT"`
	BusRetries int           `yaml:"bus_retries" env:"RETROBOT_BUS_RETRIES"`

	Addresses Addresses `yaml:"addresses" envPrefix:"RETROBOT_ADDR_"`
	Pins      Pins      `yaml:"pins" envPrefix:"RETROBOT_PIN_"`

	// InvertedMotors lists the motors whose two wires are swapped.
	InvertedMotors []int `yaml:"inverted_motors" env:"RETROBOT_INVERTED_MOTORS"`

	TickPeriod time.Duration `yaml:"tick_period" env:"RETROBOT_TICK_PERIOD"`
	// RangerSettle is the time between starting a ping and reading it.
	RangerSettle time.Duration `yaml:"ranger_settle" env:"RETROBOT_RANGER_SETTLE"`

	ProximityCM   uint8  `yaml:"proximity_cm" env:"RETROBOT_PROXIMITY_CM"`
	ForwardBudget uint16 `yaml:"forward_budget_ticks" env:"RETROBOT_FORWARD_BUDGET"`
	DanceInterval uint16 `yaml:"dance_interval_ticks" env:"RETROBOT_DANCE_INTERVAL"`

	Timing choreo.Timing `yaml:"timing" envPrefix:"RETROBOT_TIMING_"`

	BringUpBlinks  int  `yaml:"bring_up_blinks" env:"RETROBOT_BRING_UP_BLINKS"`
	UseTemperature bool `yaml:"use_temperature" env:"RETROBOT_USE_TEMPERATURE"`
	UsePresence    bool `yaml:"use_presence" env:"RETROBOT_USE_PRESENCE"`
	Verbose        bool `yaml:"verbose" env:"RETROBOT_VERBOSE"`
}

// Default returns the configuration of the original robot.
func Default() Config {
	o := behavior.DefaultOpts()
	return Config{
		Addresses: Addresses{
			Ranger:      srf02.DefaultAddress,
			Thermometer: lm75.DefaultAddress,
			Expander:    mcp23016.DefaultAddress,
		},
		Pins:          Pins{Relay: "GPIO17", LED: "GPIO27"},
		TickPeriod:    ticks.DefaultPeriod,
		RangerSettle:  70 * time.Millisecond,
		ProximityCM:   o.Proximity,
		ForwardBudget: o.ForwardBudget,
		DanceInterval: o.DanceInterval,
		Timing:        o.Timing,
		BringUpBlinks: o.BringUpBlinks,
	}
}

// Load returns the configuration read from path, if not empty, with the
// environment overrides applied.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("config: %w", err)
		}
		if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return c, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("config: environment: %w", err)
	}
	return c, c.Validate()
}

// Validate checks the values are usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Pins.Relay == "" {
		errs = append(errs, errors.New("relay pin is required"))
	}
	if c.TickPeriod <= 0 {
		errs = append(errs, fmt.Errorf("tick period %s must be positive", c.TickPeriod))
	}
	if c.ProximityCM == 0 {
		errs = append(errs, errors.New("proximity must be at least 1cm"))
	}
	if c.BusRetries < 0 {
		errs = append(errs, fmt.Errorf("bus retries %d is negative", c.BusRetries))
	}
	if c.BusTimeout < 0 {
		errs = append(errs, fmt.Errorf("bus timeout %s is negative", c.BusTimeout))
	}
	if c.Timing.Cycles < 0 {
		errs = append(errs, fmt.Errorf("dance cycles %d is negative", c.Timing.Cycles))
	}
	for _, id := range c.InvertedMotors {
		if id < 1 || id > 8 {
			errs = append(errs, fmt.Errorf("inverted motor %d out of range 1-8", id))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// EngineOpts returns the behavior options matching the configuration.
func (c *Config) EngineOpts() behavior.Opts {
	return behavior.Opts{
		Proximity:      c.ProximityCM,
		ForwardBudget:  c.ForwardBudget,
		DanceInterval:  c.DanceInterval,
		Timing:         c.Timing,
		BusRetries:     c.BusRetries,
		BringUpBlinks:  c.BringUpBlinks,
		UseTemperature: c.UseTemperature,
		UsePresence:    c.UsePresence,
	}
}

// String returns the configuration as YAML.
func (c *Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
