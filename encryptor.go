// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// Encryptor encrypts plaintexts under a secret key. It owns one sampling
// context; create one Encryptor per goroutine for parallel encryption.
type Encryptor struct {
	params  Parameters
	sk      *SecretKey
	sampler *Sampler
	ft      *FourierTransform
}

// NewEncryptor creates an encryptor drawing randomness from prng.
func NewEncryptor(params Parameters, sk *SecretKey, prng PRNG) *Encryptor {
	return &Encryptor{
		params:  params,
		sk:      sk,
		sampler: NewSampler(prng),
		ft:      NewFourierTransform(params.PolyDegree()),
	}
}

// EncryptLwePlaintext encrypts a raw torus plaintext: uniform mask, body
// = <mask, key> + pt + Gaussian error.
func (enc *Encryptor) EncryptLwePlaintext(pt Torus) *LweCiphertext {
	ct := NewLweCiphertext(enc.params.LweDimension())
	enc.sampler.FillUniform(ct.Mask)
	ct.Body = dotTorus(ct.Mask, enc.sk.Lwe.Coeffs) + pt + enc.sampler.GaussianTorus(enc.params.LweStdDev())
	return ct
}

// EncryptLwe encodes a message in the message space and encrypts it.
func (enc *Encryptor) EncryptLwe(m uint64) *LweCiphertext {
	return enc.EncryptLwePlaintext(enc.params.Encode(m))
}

// EncryptLwePadded encodes a message with the padding bit and encrypts it.
// Programmable bootstrapping expects this encoding.
func (enc *Encryptor) EncryptLwePadded(m uint64) *LweCiphertext {
	return enc.EncryptLwePlaintext(enc.params.EncodePadded(m))
}

// EncryptGlwePlaintext encrypts a polynomial plaintext. The plaintext
// degree must match the ring degree.
func (enc *Encryptor) EncryptGlwePlaintext(pt Polynomial) (*GlweCiphertext, error) {
	if pt.Degree() != enc.params.PolyDegree() {
		return nil, fmt.Errorf("%w: plaintext degree %d, want %d", ErrDimension, pt.Degree(), enc.params.PolyDegree())
	}
	ct := enc.encryptGlweZero()
	ct.Body.AddAssign(pt)
	return ct, nil
}

// encryptGlweZero returns a fresh GLWE encryption of zero.
func (enc *Encryptor) encryptGlweZero() *GlweCiphertext {
	k, n := enc.params.GlweDimension(), enc.params.PolyDegree()
	ct := NewGlweCiphertext(k, n)
	for z := 0; z < k; z++ {
		enc.sampler.FillUniform(ct.Mask[z].Coeffs)
		enc.ft.MulAddPoly(ct.Mask[z], enc.sk.Glwe.Value[z], ct.Body)
	}
	for j := range ct.Body.Coeffs {
		ct.Body.Coeffs[j] += enc.sampler.GaussianTorus(enc.params.GlweStdDev())
	}
	return ct
}

// encryptGgswBit encrypts a single bit as a GGSW ciphertext with the
// bootstrap gadget: each mask row hides -bit*key_j*w_l, the body row hides
// bit*w_l.
func (enc *Encryptor) encryptGgswBit(bit Torus) *GgswCiphertext {
	k := enc.params.GlweDimension()
	g := gadget{baseLog: enc.params.PbsBaseLog(), level: enc.params.PbsLevel()}
	ct := NewGgswCiphertext(k, enc.params.PolyDegree(), g.baseLog, g.level)
	for j := 0; j <= k; j++ {
		for l := 0; l < g.level; l++ {
			row := enc.encryptGlweZero()
			if bit != 0 {
				if j < k {
					row.Mask[j].Coeffs[0] += bit * g.weight(l)
				} else {
					row.Body.Coeffs[0] += bit * g.weight(l)
				}
			}
			ct.Value[j][l] = *row
		}
	}
	return ct
}
