// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"math"
	"math/bits"
)

// FourierTransform computes negacyclic polynomial products through the
// complex domain. Coefficients are twisted by the 2N-th roots of unity,
// which turns the negacyclic convolution modulo X^N+1 into an ordinary
// cyclic convolution that a standard FFT evaluates pointwise.
//
// A transform is tied to one ring degree N. All tables are read-only after
// construction, so a single instance may be shared by concurrent callers.
//
// The transform domain is float64; its rounding error must stay below the
// scheme's noise floor. That bound is a parameter-selection invariant, not
// something enforced at runtime.
type FourierTransform struct {
	n        int
	twist    []complex128 // e^{+i pi j / N}
	twistInv []complex128 // e^{-i pi j / N} / N, inverse scaling folded in
	roots    []complex128 // e^{-2 i pi j / N}, forward butterflies
	rootsInv []complex128 // e^{+2 i pi j / N}, inverse butterflies
	rev      []int        // bit-reversal permutation
}

// NewFourierTransform precomputes twiddle and twist tables for ring
// degree n, which must be a power of two.
func NewFourierTransform(n int) *FourierTransform {
	ft := &FourierTransform{
		n:        n,
		twist:    make([]complex128, n),
		twistInv: make([]complex128, n),
		roots:    make([]complex128, n/2),
		rootsInv: make([]complex128, n/2),
		rev:      make([]int, n),
	}

	for j := 0; j < n; j++ {
		theta := math.Pi * float64(j) / float64(n)
		s, c := math.Sincos(theta)
		ft.twist[j] = complex(c, s)
		ft.twistInv[j] = complex(c/float64(n), -s/float64(n))
	}
	for j := 0; j < n/2; j++ {
		theta := 2 * math.Pi * float64(j) / float64(n)
		s, c := math.Sincos(theta)
		ft.roots[j] = complex(c, -s)
		ft.rootsInv[j] = complex(c, s)
	}

	logN := bits.TrailingZeros(uint(n))
	for i := 0; i < n; i++ {
		ft.rev[i] = int(bits.Reverse64(uint64(i)) >> (64 - logN))
	}

	return ft
}

// Degree returns the ring degree this transform was built for.
func (ft *FourierTransform) Degree() int { return ft.n }

// fft runs an in-place radix-2 transform of v with the given butterfly
// root table.
func (ft *FourierTransform) fft(v []complex128, roots []complex128) {
	n := ft.n
	for i, j := range ft.rev {
		if i < j {
			v[i], v[j] = v[j], v[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			k := 0
			for i := start; i < start+half; i++ {
				t := v[i+half] * roots[k]
				v[i], v[i+half] = v[i]+t, v[i]-t
				k += step
			}
		}
	}
}

// Forward twists the polynomial and transforms it to the evaluation
// domain. Coefficients are centered to [-1/2, 1/2) on the torus scale
// before embedding, keeping float magnitudes minimal.
func (ft *FourierTransform) Forward(p Polynomial) []complex128 {
	v := make([]complex128, ft.n)
	ft.ForwardTo(p, v)
	return v
}

// ForwardTo is Forward writing into a caller-provided buffer.
func (ft *FourierTransform) ForwardTo(p Polynomial, v []complex128) {
	for j := 0; j < ft.n; j++ {
		v[j] = complex(float64(int64(p.Coeffs[j])), 0) * ft.twist[j]
	}
	ft.fft(v, ft.roots)
}

// forwardSignedTo embeds small signed digits (from a gadget decomposition)
// and transforms them. Same layout as ForwardTo.
func (ft *FourierTransform) forwardSignedTo(d []int64, v []complex128) {
	for j := 0; j < ft.n; j++ {
		v[j] = complex(float64(d[j]), 0) * ft.twist[j]
	}
	ft.fft(v, ft.roots)
}

// InverseTo transforms v back to the coefficient domain, untwists, and
// rounds each real part half-to-even onto the torus. v is clobbered.
func (ft *FourierTransform) InverseTo(v []complex128, p Polynomial) {
	ft.fft(v, ft.rootsInv)
	for j := 0; j < ft.n; j++ {
		p.Coeffs[j] = roundTorus(real(v[j] * ft.twistInv[j]))
	}
}

// InverseAddTo is InverseTo accumulating into p instead of overwriting.
func (ft *FourierTransform) InverseAddTo(v []complex128, p Polynomial) {
	ft.fft(v, ft.rootsInv)
	for j := 0; j < ft.n; j++ {
		p.Coeffs[j] += roundTorus(real(v[j] * ft.twistInv[j]))
	}
}

// MulPoly writes the negacyclic product a * b to out. The product of the
// operand magnitudes must stay within the float64 precision contract
// documented on FourierTransform; in the cryptographic call sites one
// operand is always small (binary key coefficients or decomposition
// digits).
func (ft *FourierTransform) MulPoly(a, b, out Polynomial) {
	va := ft.Forward(a)
	vb := ft.Forward(b)
	for j := range va {
		va[j] *= vb[j]
	}
	ft.InverseTo(va, out)
}

// MulAddPoly adds the negacyclic product a * b to out.
func (ft *FourierTransform) MulAddPoly(a, b, out Polynomial) {
	va := ft.Forward(a)
	vb := ft.Forward(b)
	for j := range va {
		va[j] *= vb[j]
	}
	ft.InverseAddTo(va, out)
}

// mulAddPointwise accumulates a[j] * b[j] into acc.
func mulAddPointwise(a, b, acc []complex128) {
	for j := range acc {
		acc[j] += a[j] * b[j]
	}
}
