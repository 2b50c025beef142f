// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm75

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the address with A2, A1 and A0 strapped high (0x9E in
	// 8 bit notation).
	DefaultAddress uint16 = 0x4f

	// SanityLimit is the largest high byte accepted from the device. Anything
	// above is treated as a corrupted transfer.
	SanityLimit byte = 150

	_REGISTER_TEMPERATURE byte = 0

	_DEGREES_RESOLUTION physic.Temperature = 500 * physic.MilliKelvin
)

// Opts represents configurable options for the LM75.
type Opts struct {
	// KeepHalfDegree makes Sense() report the 0.5°C bit of the low byte.
	// Temperature() always truncates to whole degrees.
	KeepHalfDegree bool
}

// Dev represents a LM75 sensor.
type Dev struct {
	d        *i2c.Dev
	mu       sync.Mutex
	opts     Opts
	shutdown chan struct{}
}

// NewI2C returns a new LM75 sensor using the specified bus and address.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if addr < 0x48 || addr > 0x4f {
		return nil, errors.New("lm75: invalid address")
	}
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}}
	if opts != nil {
		d.opts = *opts
	}
	return d, nil
}

// readRaw returns the two temperature register bytes.
func (dev *Dev) readRaw() ([]byte, error) {
	r := make([]byte, 2)
	if err := dev.d.Tx([]byte{_REGISTER_TEMPERATURE}, r); err != nil {
		return nil, fmt.Errorf("lm75: %w", err)
	}
	return r, nil
}

// Temperature returns the temperature in whole degrees Celsius. The high
// byte holds the signed degrees. A high byte above SanityLimit yields 0.
func (dev *Dev) Temperature() (int8, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r, err := dev.readRaw()
	if err != nil {
		return 0, err
	}
	return wholeDegrees(r[0]), nil
}

func wholeDegrees(high byte) int8 {
	if high > SanityLimit {
		return 0
	}
	return int8(high)
}

// Sense reads temperature from the device and writes the value to the
// specified env variable. Implements physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r, err := dev.readRaw()
	if err != nil {
		return err
	}
	t := physic.ZeroCelsius + physic.Temperature(wholeDegrees(r[0]))*physic.Kelvin
	if dev.opts.KeepHalfDegree && r[0] <= SanityLimit && r[1]&0x80 != 0 {
		t += _DEGREES_RESOLUTION
	}
	env.Temperature = t
	return nil
}

// SenseContinuous continuously reads from the device and writes the value to
// the returned channel. Implements physic.SenseEnv. To terminate the
// continuous read, call Halt().
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < 100*time.Millisecond {
		return nil, errors.New("lm75: invalid duration. minimum 100ms")
	}
	dev.mu.Lock()
	if dev.shutdown != nil {
		dev.mu.Unlock()
		return nil, errors.New("lm75: already sensing continuously")
	}
	dev.shutdown = make(chan struct{})
	shutdown := dev.shutdown
	dev.mu.Unlock()

	channelSize := 16
	channel := make(chan physic.Env, channelSize)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				close(channel)
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := dev.Sense(&e); err == nil && len(channel) < channelSize {
					channel <- e
				}
			}
		}
	}()
	return channel, nil
}

// Precision returns the sensor's precision.
func (dev *Dev) Precision(env *physic.Env) {
	env.Temperature = _DEGREES_RESOLUTION
	env.Pressure = 0
	env.Humidity = 0
}

// Halt stops a SenseContinuous operation in progress. Implements
// conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	return nil
}

func (dev *Dev) String() string {
	return fmt.Sprintf("lm75: %s", dev.d.String())
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
