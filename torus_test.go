// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTorusFloatRoundTrip(t *testing.T) {
	values := []float64{0, 0.125, 0.25, 0.5, 0.75, 0.875, 0.999}
	for _, x := range values {
		tt := TorusFromFloat(x)
		require.InDelta(t, x, tt.Float(), 0x1p-50)
	}

	// Negative inputs wrap onto the positive representative.
	require.Equal(t, TorusFromFloat(0.875), TorusFromFloat(-0.125))
	require.InDelta(t, -0.125, TorusFromFloat(-0.125).CenteredFloat(), 0x1p-50)
}

func TestEncodeDecode(t *testing.T) {
	for _, p := range []uint64{2, 4, 8} {
		lit := testLiteral
		lit.MessageModulus = p
		params := testParams(t, lit)

		for m := uint64(0); m < p; m++ {
			pt := params.Encode(m)
			require.Equal(t, m, params.Decode(pt))
			// Decoding survives noise well below half a box.
			noise := Torus(1) << (TorusBits - 10)
			require.Equal(t, m, params.Decode(pt+noise))
			require.Equal(t, m, params.Decode(pt-noise))
		}
	}
}

func TestEncodeWrapsModulus(t *testing.T) {
	lit := testLiteral
	lit.MessageModulus = 2
	params := testParams(t, lit)

	// 1 + 1 lands on a full torus turn, which is 0 mod 2.
	sum := params.Encode(1) + params.Encode(1)
	require.Equal(t, uint64(0), params.Decode(sum))
}

// TestAddWrapsModulus pins the boundary behavior with actual ciphertexts: a
// dimension-4 key, message space {0, 1}, and 1 + 1 decrypting to 0.
func TestAddWrapsModulus(t *testing.T) {
	params := testParams(t, ParametersLiteral{
		LweDimension:   4,
		GlweDimension:  1,
		PolyDegree:     16,
		PbsBaseLog:     4,
		PbsLevel:       2,
		KsBaseLog:      4,
		KsLevel:        2,
		LweStdDev:      0x1p-30,
		GlweStdDev:     0x1p-40,
		MessageModulus: 2,
	})

	kg := NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenSecretKey()
	enc := NewEncryptor(params, sk, kg.prng)
	dec := NewDecryptor(params, sk)
	eval := NewEvaluator(params, nil)

	sum, err := eval.AddLwe(enc.EncryptLwe(1), enc.EncryptLwe(1))
	require.NoError(t, err)

	m, err := dec.DecryptLwe(sum)
	require.NoError(t, err)
	require.Equal(t, uint64(0), m)
}

func TestEncodePadded(t *testing.T) {
	params := testParams(t, testLiteral)
	p := params.MessageModulus()

	for m := uint64(0); m < p; m++ {
		pt := params.EncodePadded(m)
		require.Equal(t, m, params.DecodePadded(pt))
		noise := Torus(1) << (TorusBits - 10)
		require.Equal(t, m, params.DecodePadded(pt+noise))
		require.Equal(t, m, params.DecodePadded(pt-noise))
	}

	// The padded encoding keeps all messages in the top half-plane
	// boundary-free: message 0 with negative noise wraps to a phase that
	// still decodes to 0 rather than p-1.
	require.Equal(t, uint64(0), params.DecodePadded(params.EncodePadded(0)-(Torus(1)<<(TorusBits-10))))
}

func TestGadgetDecompose(t *testing.T) {
	g := gadget{baseLog: 8, level: 3}
	digits := make([]int64, g.level)

	for _, tv := range []Torus{0, 1 << 40, 0xDEADBEEF12345678, ^Torus(0), 1 << 63} {
		g.decompose(tv, digits)

		// Digits stay balanced and reconstruct the rounded input.
		var acc Torus
		for l, d := range digits {
			require.GreaterOrEqual(t, d, int64(-128))
			require.Less(t, d, int64(128))
			acc += Torus(d) * g.weight(l)
		}
		// Reconstruction error is bounded by half the last weight.
		diff := int64(tv - acc)
		if diff < 0 {
			diff = -diff
		}
		require.LessOrEqual(t, diff, int64(1)<<(TorusBits-g.baseLog*g.level-1))
	}
}
