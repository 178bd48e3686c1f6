// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"encoding"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type binaryCodec interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

func TestSerializationRoundTrip(t *testing.T) {
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	keys := kg.GenEvaluationKeySet(sk)
	enc := NewEncryptor(params, sk, prng)

	pt := NewPolynomial(params.PolyDegree())
	pt.Coeffs[3] = params.Encode(2)
	glwe, err := enc.EncryptGlwePlaintext(pt)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		value binaryCodec
		fresh binaryCodec
	}{
		{"LweSecretKey", sk.Lwe, &LweSecretKey{}},
		{"GlweSecretKey", sk.Glwe, &GlweSecretKey{}},
		{"SecretKey", sk, &SecretKey{}},
		{"LweCiphertext", enc.EncryptLwe(1), &LweCiphertext{}},
		{"GlweCiphertext", glwe, &GlweCiphertext{}},
		{"GgswCiphertext", enc.encryptGgswBit(1), &GgswCiphertext{}},
		{"KeySwitchKey", keys.Ksk, &KeySwitchKey{}},
		{"BootstrapKey", keys.Bsk, &BootstrapKey{}},
		{"EvaluationKeySet", keys, &EvaluationKeySet{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.value.MarshalBinary()
			require.NoError(t, err)
			require.NoError(t, tc.fresh.UnmarshalBinary(data))

			if diff := cmp.Diff(tc.value, tc.fresh); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// Stable encoding: a second marshal of the decoded value is
			// byte-identical.
			again, err := tc.fresh.MarshalBinary()
			require.NoError(t, err)
			require.Equal(t, data, again)
		})
	}
}

func TestSerializationRejectsCorruption(t *testing.T) {
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	enc := NewEncryptor(params, sk, prng)

	ct := enc.EncryptLwe(1)
	data, err := ct.MarshalBinary()
	require.NoError(t, err)

	t.Run("Truncated", func(t *testing.T) {
		var out LweCiphertext
		require.ErrorIs(t, out.UnmarshalBinary(data[:len(data)-8]), ErrFormat)
		require.ErrorIs(t, out.UnmarshalBinary(data[:4]), ErrFormat)
		require.ErrorIs(t, out.UnmarshalBinary(nil), ErrFormat)
	})

	t.Run("Trailing", func(t *testing.T) {
		var out LweCiphertext
		require.ErrorIs(t, out.UnmarshalBinary(append(data[:len(data):len(data)], 0)), ErrFormat)
	})

	t.Run("ShapeLies", func(t *testing.T) {
		// Declared dimension no longer matches the payload length.
		bad := append([]byte(nil), data...)
		bad[0]++
		var out LweCiphertext
		require.ErrorIs(t, out.UnmarshalBinary(bad), ErrFormat)
	})

	t.Run("AbsurdShape", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		for i := 0; i < 8; i++ {
			bad[i] = 0xFF
		}
		var out LweCiphertext
		require.ErrorIs(t, out.UnmarshalBinary(bad), ErrFormat)
	})

	t.Run("GlweShapeMismatch", func(t *testing.T) {
		pt := NewPolynomial(params.PolyDegree())
		glwe, err := enc.EncryptGlwePlaintext(pt)
		require.NoError(t, err)
		gdata, err := glwe.MarshalBinary()
		require.NoError(t, err)
		gdata[0]++
		var out GlweCiphertext
		require.ErrorIs(t, out.UnmarshalBinary(gdata), ErrFormat)
	})
}
