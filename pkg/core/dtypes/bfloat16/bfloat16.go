// Copyright 2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package bfloat16 implements the "brain floating point" 16-bit format:
// same exponent range as float32, with the mantissa truncated to 7 bits.
//
// Conversions are truncating, not rounding, which keeps them to a single
// bit shift.
package bfloat16

import (
	"fmt"
	"math"
)

// BFloat16 holds the raw bits of a bfloat16 value.
type BFloat16 uint16

// FromFloat32 converts a float32 to BFloat16, truncating the mantissa.
func FromFloat32(f float32) BFloat16 {
	return BFloat16(math.Float32bits(f) >> 16)
}

// FromFloat64 converts a float64 to BFloat16 through float32.
func FromFloat64(f float64) BFloat16 {
	return FromFloat32(float32(f))
}

// Float32 returns the value as a float32. The conversion is exact.
func (b BFloat16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float64 returns the value as a float64. The conversion is exact.
func (b BFloat16) Float64() float64 {
	return float64(b.Float32())
}

// IsNaN reports whether b is an IEEE 754 "not-a-number" value.
func (b BFloat16) IsNaN() bool {
	return b&0x7F80 == 0x7F80 && b&0x7F != 0
}

// String implements fmt.Stringer.
func (b BFloat16) String() string {
	return fmt.Sprintf("%v", b.Float32())
}
