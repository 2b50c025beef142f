// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package behavior is the robot's control loop.
//
// The loop is cooperative and single threaded. Each iteration reads the
// ranger, then checks the tick counters and drives the motors according to
// the current state:
//
//	Idle ──BringUp──▶ Navigating ◀──────────────┐
//	                     │  obstacle or budget   │
//	                     ▼                       │
//	                  Avoiding ──turn done───────┘
//
//	any navigation state ──dance interval──▶ Entertaining ──done──▶ previous state
//
// Avoiding and Entertaining play a fixed sequence to completion before the
// loop polls anything again: avoidance is suspended while dancing and the
// other way around.
//
// Thresholds are expressed in ticks of the clock, which only approximates
// wall time. 381 ticks of 13.1ms are about 5s.
package behavior
