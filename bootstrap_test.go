// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testBootstrapSetup(t *testing.T) (Parameters, *Encryptor, *Decryptor, *Evaluator) {
	t.Helper()
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	keys := kg.GenEvaluationKeySet(sk)
	return params, NewEncryptor(params, sk, prng), NewDecryptor(params, sk), NewEvaluator(params, keys)
}

func TestExternalProduct(t *testing.T) {
	params, enc, dec, eval := testBootstrapSetup(t)
	n := params.PolyDegree()

	pt := NewPolynomial(n)
	pt.Coeffs[0] = params.Encode(1)
	pt.Coeffs[2] = params.Encode(3)
	ct, err := enc.EncryptGlwePlaintext(pt)
	require.NoError(t, err)

	t.Run("SelectZero", func(t *testing.T) {
		zero := enc.encryptGgswBit(0)
		prod, err := eval.ExternalProduct(zero, ct)
		require.NoError(t, err)
		got, err := dec.DecryptGlwe(prod)
		require.NoError(t, err)
		for i, m := range got {
			require.Equal(t, uint64(0), m, "coefficient %d", i)
		}
	})

	t.Run("SelectOne", func(t *testing.T) {
		one := enc.encryptGgswBit(1)
		prod, err := eval.ExternalProduct(one, ct)
		require.NoError(t, err)
		got, err := dec.DecryptGlwe(prod)
		require.NoError(t, err)
		require.Equal(t, uint64(1), got[0])
		require.Equal(t, uint64(3), got[2])
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		one := enc.encryptGgswBit(1)
		_, err := eval.ExternalProduct(one, NewGlweCiphertext(params.GlweDimension()+1, n))
		require.ErrorIs(t, err, ErrDimension)
	})
}

func TestCMux(t *testing.T) {
	params, enc, dec, eval := testBootstrapSetup(t)
	n := params.PolyDegree()

	pt0, pt1 := NewPolynomial(n), NewPolynomial(n)
	pt0.Coeffs[0] = params.Encode(1)
	pt1.Coeffs[0] = params.Encode(2)
	c0, err := enc.EncryptGlwePlaintext(pt0)
	require.NoError(t, err)
	c1, err := enc.EncryptGlwePlaintext(pt1)
	require.NoError(t, err)

	for bit, want := range map[Torus]uint64{0: 1, 1: 2} {
		sel := enc.encryptGgswBit(bit)
		out, err := eval.CMux(sel, c0, c1)
		require.NoError(t, err)
		got, err := dec.DecryptGlwe(out)
		require.NoError(t, err)
		require.Equal(t, want, got[0], "bit %d", bit)
	}
}

func TestBootstrapIdentity(t *testing.T) {
	params, enc, dec, eval := testBootstrapSetup(t)
	lut := GenIdentityLookupTable(params)
	p := params.MessageModulus()

	for trial := 0; trial < 8; trial++ {
		for m := uint64(0); m < p; m++ {
			out, err := eval.Bootstrap(enc.EncryptLwePadded(m), lut)
			require.NoError(t, err)
			require.Equal(t, params.LweDimension(), out.Dimension())

			got, err := dec.DecryptLwePadded(out)
			require.NoError(t, err)
			require.Equal(t, m, got, "m=%d", m)
		}
	}
}

func TestBootstrapProgrammable(t *testing.T) {
	params, enc, dec, eval := testBootstrapSetup(t)
	p := params.MessageModulus()

	fns := map[string]func(uint64) uint64{
		"Square":    func(m uint64) uint64 { return (m * m) % p },
		"Increment": func(m uint64) uint64 { return (m + 1) % p },
		"Threshold": func(m uint64) uint64 {
			if m >= p/2 {
				return 1
			}
			return 0
		},
	}

	for name, f := range fns {
		t.Run(name, func(t *testing.T) {
			lut := GenLookupTable(params, f)
			for m := uint64(0); m < p; m++ {
				out, err := eval.Bootstrap(enc.EncryptLwePadded(m), lut)
				require.NoError(t, err)
				got, err := dec.DecryptLwePadded(out)
				require.NoError(t, err)
				require.Equal(t, f(m), got, "m=%d", m)
			}
		})
	}
}

func TestBootstrapRequiresKeys(t *testing.T) {
	params := testParams(t, testLiteral)
	eval := NewEvaluator(params, nil)
	_, err := eval.Bootstrap(NewLweCiphertext(params.LweDimension()), GenIdentityLookupTable(params))
	require.ErrorIs(t, err, ErrParameters)
}

func TestBootstrapDimensionMismatch(t *testing.T) {
	params, _, _, eval := testBootstrapSetup(t)
	_, err := eval.Bootstrap(NewLweCiphertext(params.LweDimension()+1), GenIdentityLookupTable(params))
	require.ErrorIs(t, err, ErrDimension)
}

// TestBootstrapNoiseCeiling drives inputs at several noise levels, all
// below the decryption margin, and checks that the output noise standard
// deviation stays under a fixed ceiling that does not track the input.
func TestBootstrapNoiseCeiling(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	params, enc, dec, eval := testBootstrapSetup(t)
	lut := GenIdentityLookupTable(params)
	sampler := NewSampler(testPRNG(t))

	const trials = 64
	const ceiling = 0x1p-16

	var stds []float64
	for _, inStdDev := range []float64{0x1p-25, 0x1p-15, 0x1p-10} {
		cts := make([]*LweCiphertext, trials)
		pts := make([]Torus, trials)
		for i := 0; i < trials; i++ {
			pt := params.EncodePadded(1)
			ct := enc.EncryptLwePlaintext(pt)
			ct.Body += sampler.GaussianTorus(inStdDev)

			out, err := eval.Bootstrap(ct, lut)
			require.NoError(t, err)
			cts[i] = out
			pts[i] = pt
		}

		ns, err := MeasureLweNoise(dec, cts, pts)
		require.NoError(t, err)
		require.Less(t, ns.StdDev, ceiling, "input stddev %v", inStdDev)
		stds = append(stds, ns.StdDev)
	}

	// Output noise is set by the bootstrap, not the input: the measured
	// standard deviations agree across input levels up to sampling error.
	for _, s := range stds[1:] {
		require.Less(t, s, stds[0]*2)
		require.Greater(t, s, stds[0]/2)
	}
}

func BenchmarkBootstrap(b *testing.B) {
	params, err := NewParametersFromLiteral(BooleanFast)
	if err != nil {
		b.Fatal(err)
	}
	prng, _ := NewKeyedPRNG([]byte("bench"))
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	eval := NewEvaluator(params, kg.GenEvaluationKeySet(sk))
	enc := NewEncryptor(params, sk, prng)
	lut := GenIdentityLookupTable(params)
	ct := enc.EncryptLwePadded(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eval.Bootstrap(ct, lut); err != nil {
			b.Fatal(err)
		}
	}
}
