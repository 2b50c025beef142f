// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// lm75 provides a package for interfacing an LM75 I2C temperature sensor.
//
// Range: -55°C - 125°C
//
// Resolution: 0.5°C
//
// The address is 1001-A2-A1-A0 depending on the strapping of the address
// pins, so 0x48 to 0x4F.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.ti.com/lit/ds/symlink/lm75b.pdf
package lm75
