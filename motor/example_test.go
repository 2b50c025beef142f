// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package motor_test

import (
	"log"
	"time"

	"github.com/GermanBionicSystems/retrobot/mcp23016"
	"github.com/GermanBionicSystems/retrobot/motor"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()

	exp, err := mcp23016.NewI2C(bus, mcp23016.DefaultAddress, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer exp.Halt()
	b := motor.NewBoard(exp, nil)
	defer b.Halt()

	// Roll forward for a second.
	for _, id := range []motor.ID{motor.WheelLeft, motor.WheelRight} {
		if err := b.SetMotor(id, motor.Forward); err != nil {
			log.Fatal(err)
		}
	}
	time.Sleep(time.Second)
}
