// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeySwitchPreservesPlaintext(t *testing.T) {
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	ksk := kg.GenKeySwitchKey(sk)

	require.NoError(t, checkKskShapes(params, ksk))

	enc := NewEncryptor(params, sk, prng)
	dec := NewDecryptor(params, sk)
	eval := NewEvaluator(params, nil)

	// Encrypt under the extracted key via a GLWE encryption + extraction,
	// then switch back to the base dimension.
	p := params.MessageModulus()
	for m := uint64(0); m < p; m++ {
		pt := NewPolynomial(params.PolyDegree())
		pt.Coeffs[0] = params.Encode(m)
		glwe, err := enc.EncryptGlwePlaintext(pt)
		require.NoError(t, err)
		ext, err := glwe.SampleExtract(0)
		require.NoError(t, err)

		switched, err := eval.KeySwitch(ksk, ext)
		require.NoError(t, err)
		require.Equal(t, params.LweDimension(), switched.Dimension())

		got, err := dec.DecryptLwe(switched)
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
}

func TestKeySwitchBetweenLweKeys(t *testing.T) {
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	dst := kg.GenSecretKey()

	// An unrelated source key of a different dimension.
	src := NewLweSecretKey(2 * params.LweDimension())
	kg.sampler.FillBinary(src.Coeffs)
	ksk := kg.GenKeySwitchKeyBetween(src, dst)

	// Encrypt by hand under src.
	sampler := NewSampler(prng)
	ct := NewLweCiphertext(src.Dimension())
	sampler.FillUniform(ct.Mask)
	pt := params.Encode(1)
	ct.Body = dotTorus(ct.Mask, src.Coeffs) + pt + sampler.GaussianTorus(params.LweStdDev())

	eval := NewEvaluator(params, nil)
	switched, err := eval.KeySwitch(ksk, ct)
	require.NoError(t, err)

	dec := NewDecryptor(params, dst)
	got, err := dec.DecryptLwe(switched)
	require.NoError(t, err)
	require.Equal(t, uint64(1), got)
}

func TestKeySwitchDimensionMismatch(t *testing.T) {
	params := testParams(t, testLiteral)
	kg := NewKeyGenerator(params, testPRNG(t))
	sk := kg.GenSecretKey()
	ksk := kg.GenKeySwitchKey(sk)

	eval := NewEvaluator(params, nil)
	_, err := eval.KeySwitch(ksk, NewLweCiphertext(params.LweDimension()))
	require.ErrorIs(t, err, ErrDimension)
}
