// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// Boolean ciphertexts encode true as +1/8 and false as -1/8 on the torus.
// Gate inputs land at +-1/4 or 0 after the linear combination, so the sign
// and band tables decide the output with a 1/8 noise margin.
const (
	boolTrue  = Torus(1) << (TorusBits - 3)
	boolFalse = ^boolTrue + 1 // -1/8, in two's complement
)

// EncodeBool maps a boolean to its torus encoding.
func EncodeBool(b bool) Torus {
	if b {
		return boolTrue
	}
	return boolFalse
}

// DecodeBool maps a noisy torus phase back to a boolean by its sign.
func DecodeBool(phase Torus) bool {
	return int64(phase) >= 0
}

// BooleanEncryptor encrypts booleans as LWE ciphertexts.
type BooleanEncryptor struct {
	enc *Encryptor
}

// NewBooleanEncryptor creates a boolean encryptor drawing randomness from
// prng.
func NewBooleanEncryptor(params Parameters, sk *SecretKey, prng PRNG) *BooleanEncryptor {
	return &BooleanEncryptor{enc: NewEncryptor(params, sk, prng)}
}

// Encrypt encrypts a boolean.
func (be *BooleanEncryptor) Encrypt(b bool) *LweCiphertext {
	return be.enc.EncryptLwePlaintext(EncodeBool(b))
}

// BooleanDecryptor decrypts boolean LWE ciphertexts.
type BooleanDecryptor struct {
	dec *Decryptor
}

// NewBooleanDecryptor creates a boolean decryptor.
func NewBooleanDecryptor(params Parameters, sk *SecretKey) *BooleanDecryptor {
	return &BooleanDecryptor{dec: NewDecryptor(params, sk)}
}

// Decrypt decrypts a boolean ciphertext.
func (bd *BooleanDecryptor) Decrypt(ct *LweCiphertext) (bool, error) {
	phase, err := bd.dec.LwePhase(ct)
	if err != nil {
		return false, err
	}
	return DecodeBool(phase), nil
}

// Not negates a boolean ciphertext. Free: no bootstrap, no noise growth.
func (eval *Evaluator) Not(ct *LweCiphertext) *LweCiphertext {
	return eval.NegLwe(ct)
}

// gate2 combines two boolean ciphertexts linearly with a constant offset
// and bootstraps the sign table.
func (eval *Evaluator) gate2(a, b *LweCiphertext, offset Torus) (*LweCiphertext, error) {
	lin, err := eval.AddLwe(a, b)
	if err != nil {
		return nil, err
	}
	lin.Body += offset
	return eval.Bootstrap(lin, eval.lutSign)
}

// And computes a AND b with one bootstrap.
func (eval *Evaluator) And(a, b *LweCiphertext) (*LweCiphertext, error) {
	return eval.gate2(a, b, boolFalse)
}

// Or computes a OR b with one bootstrap.
func (eval *Evaluator) Or(a, b *LweCiphertext) (*LweCiphertext, error) {
	return eval.gate2(a, b, boolTrue)
}

// Nand computes a NAND b with one bootstrap.
func (eval *Evaluator) Nand(a, b *LweCiphertext) (*LweCiphertext, error) {
	out, err := eval.And(a, b)
	if err != nil {
		return nil, err
	}
	return eval.Not(out), nil
}

// Nor computes a NOR b with one bootstrap.
func (eval *Evaluator) Nor(a, b *LweCiphertext) (*LweCiphertext, error) {
	out, err := eval.Or(a, b)
	if err != nil {
		return nil, err
	}
	return eval.Not(out), nil
}

// Xor computes a XOR b with one bootstrap: the doubled sum lands at phase 0
// exactly when the inputs differ, and the band table separates that from
// the phase-1/2 agreement cases.
func (eval *Evaluator) Xor(a, b *LweCiphertext) (*LweCiphertext, error) {
	lin, err := eval.AddLwe(a, b)
	if err != nil {
		return nil, err
	}
	return eval.Bootstrap(eval.ScalarMulLwe(lin, 2), eval.lutBand)
}

// Xnor computes a XNOR b with one bootstrap.
func (eval *Evaluator) Xnor(a, b *LweCiphertext) (*LweCiphertext, error) {
	out, err := eval.Xor(a, b)
	if err != nil {
		return nil, err
	}
	return eval.Not(out), nil
}

// Majority computes the majority of three boolean ciphertexts with one
// bootstrap: the sum of three encodings is positive exactly when at least
// two inputs are true.
func (eval *Evaluator) Majority(a, b, c *LweCiphertext) (*LweCiphertext, error) {
	lin, err := eval.AddLwe(a, b)
	if err != nil {
		return nil, err
	}
	lin, err = eval.AddLwe(lin, c)
	if err != nil {
		return nil, err
	}
	return eval.Bootstrap(lin, eval.lutSign)
}

// Mux computes (sel AND a) OR (NOT sel AND b), three bootstraps.
func (eval *Evaluator) Mux(sel, a, b *LweCiphertext) (*LweCiphertext, error) {
	hi, err := eval.And(sel, a)
	if err != nil {
		return nil, err
	}
	lo, err := eval.And(eval.Not(sel), b)
	if err != nil {
		return nil, err
	}
	return eval.Or(hi, lo)
}

// And3 computes the conjunction of three ciphertexts, two bootstraps.
func (eval *Evaluator) And3(a, b, c *LweCiphertext) (*LweCiphertext, error) {
	ab, err := eval.And(a, b)
	if err != nil {
		return nil, err
	}
	return eval.And(ab, c)
}

// Or3 computes the disjunction of three ciphertexts, two bootstraps.
func (eval *Evaluator) Or3(a, b, c *LweCiphertext) (*LweCiphertext, error) {
	ab, err := eval.Or(a, b)
	if err != nil {
		return nil, err
	}
	return eval.Or(ab, c)
}

// Refresh re-encrypts a boolean ciphertext with fresh bootstrap noise
// without changing its value.
func (eval *Evaluator) Refresh(ct *LweCiphertext) (*LweCiphertext, error) {
	return eval.Bootstrap(ct, eval.lutSign)
}
