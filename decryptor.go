// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// Decryptor decrypts LWE and GLWE ciphertexts under a secret key. It
// accepts LWE ciphertexts both in the base dimension n and in the
// sample-extracted dimension k*N.
type Decryptor struct {
	params    Parameters
	sk        *SecretKey
	extracted *LweSecretKey
	ft        *FourierTransform
}

// NewDecryptor creates a decryptor for the given secret key.
func NewDecryptor(params Parameters, sk *SecretKey) *Decryptor {
	return &Decryptor{
		params:    params,
		sk:        sk,
		extracted: sk.Glwe.ExtractedLweKey(),
		ft:        NewFourierTransform(params.PolyDegree()),
	}
}

// LwePhase computes body - <mask, key>, the noisy plaintext.
func (dec *Decryptor) LwePhase(ct *LweCiphertext) (Torus, error) {
	var key *LweSecretKey
	switch ct.Dimension() {
	case dec.sk.Lwe.Dimension():
		key = dec.sk.Lwe
	case dec.extracted.Dimension():
		key = dec.extracted
	default:
		return 0, fmt.Errorf("%w: ciphertext dimension %d, want %d or %d",
			ErrDimension, ct.Dimension(), dec.sk.Lwe.Dimension(), dec.extracted.Dimension())
	}
	return ct.Body - dotTorus(ct.Mask, key.Coeffs), nil
}

// DecryptLwe decrypts and decodes a message from the message space.
func (dec *Decryptor) DecryptLwe(ct *LweCiphertext) (uint64, error) {
	phase, err := dec.LwePhase(ct)
	if err != nil {
		return 0, err
	}
	return dec.params.Decode(phase), nil
}

// DecryptLwePadded decrypts and decodes a message in the padded encoding.
func (dec *Decryptor) DecryptLwePadded(ct *LweCiphertext) (uint64, error) {
	phase, err := dec.LwePhase(ct)
	if err != nil {
		return 0, err
	}
	return dec.params.DecodePadded(phase), nil
}

// GlwePhase computes the noisy plaintext polynomial body - sum mask_z*key_z.
func (dec *Decryptor) GlwePhase(ct *GlweCiphertext) (Polynomial, error) {
	k, n := dec.params.GlweDimension(), dec.params.PolyDegree()
	if err := checkGlweShape("ciphertext", ct.Dimension(), ct.PolyDegree(), k, n); err != nil {
		return Polynomial{}, err
	}
	acc := NewPolynomial(n)
	for z := 0; z < k; z++ {
		dec.ft.MulAddPoly(ct.Mask[z], dec.sk.Glwe.Value[z], acc)
	}
	out := NewPolynomial(n)
	out.Sub(ct.Body, acc)
	return out, nil
}

// DecryptGlwe decrypts a GLWE ciphertext and decodes every coefficient in
// the message space.
func (dec *Decryptor) DecryptGlwe(ct *GlweCiphertext) ([]uint64, error) {
	phase, err := dec.GlwePhase(ct)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, phase.Degree())
	for i, c := range phase.Coeffs {
		out[i] = dec.params.Decode(c)
	}
	return out, nil
}
