// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm75

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

const addr = DefaultAddress

func readOp(high, low byte) i2ctest.IO {
	return i2ctest.IO{Addr: addr, W: []byte{_REGISTER_TEMPERATURE}, R: []byte{high, low}}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		name      string
		high, low byte
		expected  int8
	}{
		{"room", 0x19, 0x00, 25},
		{"half degree truncated", 0x19, 0x80, 25},
		{"zero", 0x00, 0x00, 0},
		{"limit", 150, 0x00, -106},
		{"garbage", 0xff, 0xff, 0},
		{"negative reported as garbage", 0xf6, 0x00, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pb := &i2ctest.Playback{Ops: []i2ctest.IO{readOp(test.high, test.low)}, DontPanic: true}
			dev, err := NewI2C(pb, addr, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := dev.Temperature()
			if err != nil {
				t.Fatal(err)
			}
			if got != test.expected {
				t.Errorf("Temperature() = %d, expected %d", got, test.expected)
			}
			if err := pb.Close(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSense(t *testing.T) {
	tests := []struct {
		opts     *Opts
		bits     []byte
		expected physic.Temperature
	}{
		{nil, []byte{0x19, 0x80}, physic.ZeroCelsius + 25*physic.Kelvin},
		{&Opts{KeepHalfDegree: true}, []byte{0x19, 0x80}, physic.ZeroCelsius + 25*physic.Kelvin + 500*physic.MilliKelvin},
		{&Opts{KeepHalfDegree: true}, []byte{0xff, 0x80}, physic.ZeroCelsius},
	}
	for _, test := range tests {
		pb := &i2ctest.Playback{Ops: []i2ctest.IO{readOp(test.bits[0], test.bits[1])}, DontPanic: true}
		dev, _ := NewI2C(pb, addr, test.opts)
		e := physic.Env{}
		if err := dev.Sense(&e); err != nil {
			t.Fatal(err)
		}
		if e.Temperature != test.expected {
			t.Errorf("Sense() read %s expected %s", e.Temperature, test.expected)
		}
	}
}

func TestSenseContinuous(t *testing.T) {
	ops := []i2ctest.IO{readOp(0x14, 0), readOp(0x15, 0), readOp(0x16, 0)}
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	dev, _ := NewI2C(pb, addr, nil)

	if _, err := dev.SenseContinuous(time.Millisecond); err == nil {
		t.Error("expected error for short interval")
	}
	ch, err := dev.SenseContinuous(100 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.SenseContinuous(100 * time.Millisecond); err == nil {
		t.Error("expected error for second SenseContinuous")
	}
	for i, want := range []physic.Temperature{20, 21, 22} {
		env := <-ch
		if env.Temperature != physic.ZeroCelsius+want*physic.Kelvin {
			t.Errorf("reading %d: got %s", i, env.Temperature)
		}
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
	for range ch {
	}
}

func TestNewI2C(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	if _, err := NewI2C(pb, 0x20, nil); err == nil {
		t.Error("expected error for invalid address")
	}
	dev, err := NewI2C(pb, 0x48, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(dev.String()) == 0 {
		t.Error("invalid String() result")
	}
	e := physic.Env{}
	dev.Precision(&e)
	if e.Temperature != 500*physic.MilliKelvin {
		t.Errorf("unexpected precision %d", e.Temperature)
	}
}
