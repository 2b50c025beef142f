// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package retrobot is the control software of a small wheeled robot.
//
// The robot rolls forward, turns away from whatever its sonar finds closer
// than a threshold and, every few seconds, stops to dance with its arms,
// hands and a maraca. Device drivers live in srf02, lm75 and mcp23016, the
// actuators in motor, the timing in ticks and the routines in choreo. The
// behavior package ties them together and cmd/retrobot runs it on a host.
package retrobot
