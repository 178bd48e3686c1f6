// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// SecretKey bundles the LWE key for scalar ciphertexts and the GLWE key
// the bootstrap accumulator lives under. Both are generated once and never
// mutated. Serializing a secret key is an explicit caller decision.
type SecretKey struct {
	Lwe  *LweSecretKey
	Glwe *GlweSecretKey
}

// EvaluationKeySet carries the public material an evaluator needs: the
// bootstrap key and the key-switch key from the extracted GLWE dimension
// back to the LWE dimension.
type EvaluationKeySet struct {
	Bsk *BootstrapKey
	Ksk *KeySwitchKey
}

// KeyGenerator generates secret and evaluation keys. It owns one sampling
// context; for parallel generation use independent generators with
// independent PRNGs.
type KeyGenerator struct {
	params  Parameters
	prng    PRNG
	sampler *Sampler
}

// NewKeyGenerator creates a key generator drawing randomness from prng.
func NewKeyGenerator(params Parameters, prng PRNG) *KeyGenerator {
	return &KeyGenerator{
		params:  params,
		prng:    prng,
		sampler: NewSampler(prng),
	}
}

// GenSecretKey draws a fresh uniform binary LWE key and GLWE key.
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	lwe := NewLweSecretKey(kg.params.LweDimension())
	kg.sampler.FillBinary(lwe.Coeffs)

	glwe := NewGlweSecretKey(kg.params.GlweDimension(), kg.params.PolyDegree())
	for z := range glwe.Value {
		kg.sampler.FillBinary(glwe.Value[z].Coeffs)
	}

	return &SecretKey{Lwe: lwe, Glwe: glwe}
}

// GenBootstrapKey encrypts each LWE key bit as a GGSW ciphertext under the
// GLWE key, in index order. The result is read-only and reusable for every
// bootstrap under this key pair.
func (kg *KeyGenerator) GenBootstrapKey(sk *SecretKey) *BootstrapKey {
	enc := NewEncryptor(kg.params, sk, kg.prng)
	n := kg.params.LweDimension()
	bsk := &BootstrapKey{Value: make([]GgswCiphertext, n)}
	for i := 0; i < n; i++ {
		bsk.Value[i] = *enc.encryptGgswBit(sk.Lwe.Coeffs[i])
	}
	return bsk
}

// GenKeySwitchKey encrypts, under the LWE key, every gadget digit of every
// coefficient of the extracted GLWE key. Bootstrap outputs key-switch
// through this table back to dimension n.
func (kg *KeyGenerator) GenKeySwitchKey(sk *SecretKey) *KeySwitchKey {
	return kg.GenKeySwitchKeyBetween(sk.Glwe.ExtractedLweKey(), sk)
}

// GenKeySwitchKeyBetween builds a key-switch key from an arbitrary source
// LWE key to sk's LWE key, using the key-switch gadget of the parameter
// set.
func (kg *KeyGenerator) GenKeySwitchKeyBetween(src *LweSecretKey, sk *SecretKey) *KeySwitchKey {
	enc := NewEncryptor(kg.params, sk, kg.prng)
	g := gadget{baseLog: kg.params.KsBaseLog(), level: kg.params.KsLevel()}

	ksk := &KeySwitchKey{
		Value:   make([][]LweCiphertext, src.Dimension()),
		BaseLog: g.baseLog,
	}
	for i := 0; i < src.Dimension(); i++ {
		ksk.Value[i] = make([]LweCiphertext, g.level)
		for l := 0; l < g.level; l++ {
			ksk.Value[i][l] = *enc.EncryptLwePlaintext(src.Coeffs[i] * g.weight(l))
		}
	}
	return ksk
}

// GenEvaluationKeySet generates the bootstrap and key-switch keys for sk.
func (kg *KeyGenerator) GenEvaluationKeySet(sk *SecretKey) *EvaluationKeySet {
	return &EvaluationKeySet{
		Bsk: kg.GenBootstrapKey(sk),
		Ksk: kg.GenKeySwitchKey(sk),
	}
}
