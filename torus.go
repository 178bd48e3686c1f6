// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "math"

// TorusBits is the fixed-point precision of a torus element.
const TorusBits = 64

// Torus is an element of the real torus R/Z, represented in fixed point as
// an unsigned integer scaled by 2^64. All arithmetic wraps modulo 1 through
// native uint64 overflow; wraparound is the intended algebra, never an
// error condition.
type Torus uint64

// TorusFromFloat maps a real value to the torus, reducing modulo 1 and
// rounding half to even.
func TorusFromFloat(x float64) Torus {
	x -= math.Floor(x)
	return roundTorus(x * 0x1p64)
}

// Float returns the torus element as a float in [0, 1).
func (t Torus) Float() float64 {
	return float64(t) * 0x1p-64
}

// CenteredFloat returns the torus element as a float in [-1/2, 1/2).
func (t Torus) CenteredFloat() float64 {
	return float64(int64(t)) * 0x1p-64
}

// roundTorus rounds a value on the absolute 2^64 scale half to even and
// reduces it modulo 2^64.
func roundTorus(x float64) Torus {
	x = math.RoundToEven(x)
	x = math.Mod(x, 0x1p64)
	if x < 0 {
		x += 0x1p64
	}
	if x >= 0x1p64 {
		x = 0
	}
	return Torus(x)
}

// Encode maps a message in [0, MessageModulus) to the torus with the
// message bits in the high-order positions. Messages wrap modulo the
// message space.
func (p Parameters) Encode(m uint64) Torus {
	return Torus(m << (TorusBits - p.logMessageMod))
}

// Decode is the inverse of Encode within the noise margin: it rounds to the
// nearest representable message, half to even, and reduces modulo the
// message space.
func (p Parameters) Decode(t Torus) uint64 {
	return decodeShift(t, TorusBits-p.logMessageMod) & (p.messageModulus - 1)
}

// EncodePadded maps a message in [0, MessageModulus) to the torus with one
// extra padding bit above the message, as required by the lookup-table
// convention of programmable bootstrapping.
func (p Parameters) EncodePadded(m uint64) Torus {
	return Torus(m << (TorusBits - p.logMessageMod - 1))
}

// DecodePadded is the inverse of EncodePadded within the noise margin.
func (p Parameters) DecodePadded(t Torus) uint64 {
	m := decodeShift(t, TorusBits-p.logMessageMod-1) & (2*p.messageModulus - 1)
	if m >= p.messageModulus {
		m -= p.messageModulus
	}
	return m
}

// decodeShift rounds off the low shift bits of t, half to even.
func decodeShift(t Torus, shift int) uint64 {
	q := uint64(t) >> shift
	rem := uint64(t) & (1<<shift - 1)
	half := uint64(1) << (shift - 1)
	if rem > half || (rem == half && q&1 == 1) {
		q++
	}
	return q
}

// addTorus writes a + b to out, coefficient-wise modulo 1.
func addTorus(a, b, out []Torus) {
	for i := range out {
		out[i] = a[i] + b[i]
	}
}

// subTorus writes a - b to out, coefficient-wise modulo 1.
func subTorus(a, b, out []Torus) {
	for i := range out {
		out[i] = a[i] - b[i]
	}
}

// negTorus writes -a to out, coefficient-wise modulo 1.
func negTorus(a, out []Torus) {
	for i := range out {
		out[i] = -a[i]
	}
}

// scalarMulTorus writes s * a to out, coefficient-wise modulo 1. The scalar
// is interpreted in two's complement, so negative multipliers work through
// the same wraparound.
func scalarMulTorus(a []Torus, s Torus, out []Torus) {
	for i := range out {
		out[i] = a[i] * s
	}
}

// dotTorus returns the inner product <a, b> modulo 1.
func dotTorus(a, b []Torus) Torus {
	var acc Torus
	for i := range a {
		acc += a[i] * b[i]
	}
	return acc
}
