// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package behavior

// State is the behavior the engine is in.
type State uint8

const (
	Idle State = iota
	Navigating
	Avoiding
	Entertaining
	// SafeStopped is entered when the ranger stopped answering. The motors
	// are stopped and the engine doesn't leave this state.
	SafeStopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Navigating:
		return "navigating"
	case Avoiding:
		return "avoiding"
	case Entertaining:
		return "entertaining"
	case SafeStopped:
		return "safe-stopped"
	}
	return "unknown"
}
