// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package srf02 provides a driver for the Devantech SRF02 I²C ultrasonic
// ranger.
//
// A measurement is started by writing a ranging command to the command
// register. The device then needs about 65ms to complete the ping, during
// which it does not answer on the bus. The result is read back from the
// range registers as a big endian 16 bit value.
//
// Range: 16cm - 6m
//
// # Datasheet
//
// https://www.robot-electronics.co.uk/htm/srf02techI2C.htm
package srf02
