// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const testYaml = `
bus: /dev/i2c-3
bus_timeout: 250ms
addresses:
  ranger: 0x71
pins:
  relay: GPIO5
  pir: GPIO6
inverted_motors: [6]
proximity_cm: 30
forward_budget_ticks: 200
timing:
  turn: 1500ms
  cycles: 4
use_presence: true
`

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "retrobot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	Convey("the defaults match the tuned robot", t, func() {
		c := Default()
		So(c.Validate(), ShouldBeNil)
		So(c.Addresses.Ranger, ShouldEqual, 0x70)
		So(c.Addresses.Thermometer, ShouldEqual, 0x4f)
		So(c.Addresses.Expander, ShouldEqual, 0x20)
		So(c.ProximityCM, ShouldEqual, 50)
		So(c.ForwardBudget, ShouldEqual, 381)
		So(c.DanceInterval, ShouldEqual, 763)
		So(c.Timing.Cycles, ShouldEqual, 8)
		So(c.BusTimeout, ShouldEqual, 0)

		Convey("and translate to engine options", func() {
			o := c.EngineOpts()
			So(o.Proximity, ShouldEqual, 50)
			So(o.Timing.Turn, ShouldEqual, time.Second)
			So(o.UseTemperature, ShouldBeFalse)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("loading a file", t, func() {
		c, err := Load(writeConfig(t, testYaml))
		So(err, ShouldBeNil)

		Convey("overrides the values it sets", func() {
			So(c.Bus, ShouldEqual, "/dev/i2c-3")
			So(c.BusTimeout, ShouldEqual, 250*time.Millisecond)
			So(c.Addresses.Ranger, ShouldEqual, 0x71)
			So(c.Pins.Relay, ShouldEqual, "GPIO5")
			So(c.Pins.PIR, ShouldEqual, "GPIO6")
			So(c.InvertedMotors, ShouldResemble, []int{6})
			So(c.ProximityCM, ShouldEqual, 30)
			So(c.ForwardBudget, ShouldEqual, 200)
			So(c.Timing.Turn, ShouldEqual, 1500*time.Millisecond)
			So(c.Timing.Cycles, ShouldEqual, 4)
			So(c.UsePresence, ShouldBeTrue)
		})

		Convey("keeps the defaults for the others", func() {
			So(c.Addresses.Expander, ShouldEqual, 0x20)
			So(c.DanceInterval, ShouldEqual, 763)
			So(c.Timing.Beat, ShouldEqual, time.Second)
			So(c.Pins.LED, ShouldEqual, "GPIO27")
		})
	})

	Convey("an unknown key is rejected", t, func() {
		_, err := Load(writeConfig(t, "proximity: 10\n"))
		So(err, ShouldNotBeNil)
	})

	Convey("a missing file is an error", t, func() {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		So(err, ShouldNotBeNil)
	})
}

func TestEnvironment(t *testing.T) {
	t.Setenv("RETROBOT_PROXIMITY_CM", "25")
	t.Setenv("RETROBOT_TIMING_BEAT", "500ms")
	t.Setenv("RETROBOT_ADDR_EXPANDER", "33")
	t.Setenv("RETROBOT_USE_TEMPERATURE", "true")

	Convey("environment variables win over the file", t, func() {
		c, err := Load(writeConfig(t, testYaml))
		So(err, ShouldBeNil)
		So(c.ProximityCM, ShouldEqual, 25)
		So(c.Timing.Beat, ShouldEqual, 500*time.Millisecond)
		So(c.Addresses.Expander, ShouldEqual, 33)
		So(c.UseTemperature, ShouldBeTrue)
		So(c.Timing.Turn, ShouldEqual, 1500*time.Millisecond)
	})
}

func TestValidate(t *testing.T) {
	Convey("invalid values are reported", t, func() {
		c := Default()
		c.Pins.Relay = ""
		c.ProximityCM = 0
		c.BusRetries = -1
		c.InvertedMotors = []int{9}
		err := c.Validate()
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "relay")
		So(err.Error(), ShouldContainSubstring, "proximity")
		So(err.Error(), ShouldContainSubstring, "retries")
		So(err.Error(), ShouldContainSubstring, "inverted motor 9")
	})

	Convey("the configuration prints as YAML", t, func() {
		c := Default()
		So(c.String(), ShouldContainSubstring, "proximity_cm: 50")
	})
}
