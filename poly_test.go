// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonomialMul(t *testing.T) {
	n := 8
	a := NewPolynomial(n)
	for i := range a.Coeffs {
		a.Coeffs[i] = Torus(i + 1)
	}

	t.Run("Identity", func(t *testing.T) {
		out := NewPolynomial(n)
		out.MonomialMul(a, 0)
		require.Equal(t, a.Coeffs, out.Coeffs)

		out.MonomialMul(a, 2*n)
		require.Equal(t, a.Coeffs, out.Coeffs)
	})

	t.Run("WrapNegates", func(t *testing.T) {
		// X^1: coefficient j moves to j+1, the top one wraps negated.
		out := NewPolynomial(n)
		out.MonomialMul(a, 1)
		require.Equal(t, -a.Coeffs[n-1], out.Coeffs[0])
		for j := 1; j < n; j++ {
			require.Equal(t, a.Coeffs[j-1], out.Coeffs[j])
		}
	})

	t.Run("HalfTurnNegates", func(t *testing.T) {
		// X^N = -1.
		out := NewPolynomial(n)
		out.MonomialMul(a, n)
		for j := range out.Coeffs {
			require.Equal(t, -a.Coeffs[j], out.Coeffs[j])
		}
	})

	t.Run("FullRotationComposes", func(t *testing.T) {
		// Rotating by e then 2N-e is the identity for every e.
		rot, back := NewPolynomial(n), NewPolynomial(n)
		for e := 0; e < 2*n; e++ {
			rot.MonomialMul(a, e)
			back.MonomialMul(rot, 2*n-e)
			require.Equal(t, a.Coeffs, back.Coeffs, "e=%d", e)
		}
	})
}

func TestMulNaive(t *testing.T) {
	// (1 + X) * (1 + X^(N-1)) = 1 + X^(N-1) + X + X^N = X + X^(N-1), since
	// X^N = -1 cancels the constant term.
	n := 8
	a, b, out := NewPolynomial(n), NewPolynomial(n), NewPolynomial(n)
	a.Coeffs[0], a.Coeffs[1] = 1, 1
	b.Coeffs[0], b.Coeffs[n-1] = 1, 1

	out.MulNaive(a, b)

	want := NewPolynomial(n)
	want.Coeffs[1], want.Coeffs[n-1] = 1, 1
	require.Equal(t, want.Coeffs, out.Coeffs)
}
