// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testLweSetup(t *testing.T) (Parameters, *Encryptor, *Decryptor, *Evaluator) {
	t.Helper()
	params := testParams(t, testLiteral)
	prng := testPRNG(t)
	kg := NewKeyGenerator(params, prng)
	sk := kg.GenSecretKey()
	return params, NewEncryptor(params, sk, prng), NewDecryptor(params, sk), NewEvaluator(params, nil)
}

func TestLweRoundTrip(t *testing.T) {
	params, enc, dec, _ := testLweSetup(t)
	p := params.MessageModulus()

	for trial := 0; trial < 64; trial++ {
		for m := uint64(0); m < p; m++ {
			got, err := dec.DecryptLwe(enc.EncryptLwe(m))
			require.NoError(t, err)
			require.Equal(t, m, got)
		}
	}
}

func TestLweLinearity(t *testing.T) {
	params, enc, dec, eval := testLweSetup(t)
	p := params.MessageModulus()

	for m1 := uint64(0); m1 < p; m1++ {
		for m2 := uint64(0); m2 < p; m2++ {
			sum, err := eval.AddLwe(enc.EncryptLwe(m1), enc.EncryptLwe(m2))
			require.NoError(t, err)
			got, err := dec.DecryptLwe(sum)
			require.NoError(t, err)
			require.Equal(t, (m1+m2)%p, got)

			diff, err := eval.SubLwe(enc.EncryptLwe(m1), enc.EncryptLwe(m2))
			require.NoError(t, err)
			got, err = dec.DecryptLwe(diff)
			require.NoError(t, err)
			require.Equal(t, (p+m1-m2)%p, got)
		}
	}
}

func TestLweScalarMul(t *testing.T) {
	params, enc, dec, eval := testLweSetup(t)
	p := params.MessageModulus()

	for _, s := range []int64{0, 1, 2, 3, -1, -2} {
		for m := uint64(0); m < p; m++ {
			ct := eval.ScalarMulLwe(enc.EncryptLwe(m), s)
			got, err := dec.DecryptLwe(ct)
			require.NoError(t, err)
			// p is a power of two, so the uint64 wrap is consistent mod p
			// even for negative products.
			want := uint64(int64(m)*s) % p
			require.Equal(t, want, got, "m=%d s=%d", m, s)
		}
	}
}

func TestLweNegAndPlaintextAdd(t *testing.T) {
	params, enc, dec, eval := testLweSetup(t)
	p := params.MessageModulus()

	ct := enc.EncryptLwe(1)
	got, err := dec.DecryptLwe(eval.NegLwe(ct))
	require.NoError(t, err)
	require.Equal(t, p-1, got)

	shifted := eval.PlaintextAddLwe(ct, params.Encode(2))
	got, err = dec.DecryptLwe(shifted)
	require.NoError(t, err)
	require.Equal(t, uint64(3), got)
}

func TestLweTrivial(t *testing.T) {
	params, _, dec, _ := testLweSetup(t)

	ct := NewTrivialLweCiphertext(params.LweDimension(), params.Encode(2))
	got, err := dec.DecryptLwe(ct)
	require.NoError(t, err)
	require.Equal(t, uint64(2), got)
}

func TestLweDimensionMismatch(t *testing.T) {
	_, enc, dec, eval := testLweSetup(t)

	ct := enc.EncryptLwe(0)
	short := NewLweCiphertext(ct.Dimension() - 1)

	_, err := eval.AddLwe(ct, short)
	require.ErrorIs(t, err, ErrDimension)
	_, err = eval.SubLwe(short, ct)
	require.ErrorIs(t, err, ErrDimension)
	_, err = dec.LwePhase(short)
	require.ErrorIs(t, err, ErrDimension)
}

func TestLweNoiseLevel(t *testing.T) {
	params, enc, _, _ := testLweSetup(t)
	dec := NewDecryptor(params, enc.sk)

	const trials = 512
	cts := make([]*LweCiphertext, trials)
	pts := make([]Torus, trials)
	for i := range cts {
		cts[i] = enc.EncryptLwePlaintext(0)
		pts[i] = 0
	}

	ns, err := MeasureLweNoise(dec, cts, pts)
	require.NoError(t, err)

	// Fresh noise should sit near the declared standard deviation: allow a
	// generous statistical band.
	require.Greater(t, ns.StdDev, params.LweStdDev()/2)
	require.Less(t, ns.StdDev, params.LweStdDev()*2)
	require.Less(t, ns.MaxAbs, params.LweStdDev()*8)
}
