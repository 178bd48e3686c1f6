// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// Evaluator computes on ciphertexts without any secret material. Linear
// operators work with a nil key set; bootstrapping and gates need an
// EvaluationKeySet.
//
// An evaluator owns scratch buffers, so a single instance must not be used
// concurrently; pool evaluators instead (they share the read-only keys).
type Evaluator struct {
	params Parameters
	ft     *FourierTransform
	keys   *EvaluationKeySet
	fbsk   []fourierGgsw

	// Gate lookup tables, built once.
	lutSign LookupTable
	lutBand LookupTable

	// Bootstrap scratch.
	accRot    *GlweCiphertext
	digitBufs [][]int64
	fourAcc   [][]complex128
	fourDigit []complex128
}

// NewEvaluator creates an evaluator. keys may be nil for linear-only use.
func NewEvaluator(params Parameters, keys *EvaluationKeySet) *Evaluator {
	k, n := params.GlweDimension(), params.PolyDegree()

	eval := &Evaluator{
		params:    params,
		ft:        NewFourierTransform(n),
		keys:      keys,
		lutSign:   GenGateLookupTable(params, func(float64) float64 { return 0.125 }),
		lutBand:   GenGateLookupTable(params, func(x float64) float64 { return boolBand(x) }),
		accRot:    NewGlweCiphertext(k, n),
		digitBufs: make([][]int64, params.PbsLevel()),
		fourAcc:   make([][]complex128, k+1),
		fourDigit: make([]complex128, n),
	}
	for l := range eval.digitBufs {
		eval.digitBufs[l] = make([]int64, n)
	}
	for z := range eval.fourAcc {
		eval.fourAcc[z] = make([]complex128, n)
	}

	if keys != nil && keys.Bsk != nil {
		eval.fbsk = make([]fourierGgsw, len(keys.Bsk.Value))
		for i := range keys.Bsk.Value {
			eval.fbsk[i] = fourierFromGgsw(eval.ft, &keys.Bsk.Value[i])
		}
	}

	return eval
}

// ShallowCopy returns an evaluator sharing the read-only keys and tables
// but owning fresh scratch buffers, safe to use from another goroutine.
func (eval *Evaluator) ShallowCopy() *Evaluator {
	k, n := eval.params.GlweDimension(), eval.params.PolyDegree()
	cp := &Evaluator{
		params:    eval.params,
		ft:        eval.ft,
		keys:      eval.keys,
		fbsk:      eval.fbsk,
		lutSign:   eval.lutSign,
		lutBand:   eval.lutBand,
		accRot:    NewGlweCiphertext(k, n),
		digitBufs: make([][]int64, eval.params.PbsLevel()),
		fourAcc:   make([][]complex128, k+1),
		fourDigit: make([]complex128, n),
	}
	for l := range cp.digitBufs {
		cp.digitBufs[l] = make([]int64, n)
	}
	for z := range cp.fourAcc {
		cp.fourAcc[z] = make([]complex128, n)
	}
	return cp
}

// checkPair validates two LWE operands for a binary operator.
func (eval *Evaluator) checkPair(a, b *LweCiphertext) error {
	if a.Dimension() != b.Dimension() {
		return fmt.Errorf("%w: operands %d and %d", ErrDimension, a.Dimension(), b.Dimension())
	}
	return nil
}

// AddLwe returns a + b. Additively homomorphic; noise adds.
func (eval *Evaluator) AddLwe(a, b *LweCiphertext) (*LweCiphertext, error) {
	if err := eval.checkPair(a, b); err != nil {
		return nil, err
	}
	out := NewLweCiphertext(a.Dimension())
	addTorus(a.Mask, b.Mask, out.Mask)
	out.Body = a.Body + b.Body
	return out, nil
}

// SubLwe returns a - b.
func (eval *Evaluator) SubLwe(a, b *LweCiphertext) (*LweCiphertext, error) {
	if err := eval.checkPair(a, b); err != nil {
		return nil, err
	}
	out := NewLweCiphertext(a.Dimension())
	subTorus(a.Mask, b.Mask, out.Mask)
	out.Body = a.Body - b.Body
	return out, nil
}

// NegLwe returns -a.
func (eval *Evaluator) NegLwe(a *LweCiphertext) *LweCiphertext {
	out := NewLweCiphertext(a.Dimension())
	negTorus(a.Mask, out.Mask)
	out.Body = -a.Body
	return out
}

// ScalarMulLwe returns s * a. Noise scales with |s|; the scalar is
// interpreted in two's complement so negative multipliers wrap correctly.
func (eval *Evaluator) ScalarMulLwe(a *LweCiphertext, s int64) *LweCiphertext {
	out := NewLweCiphertext(a.Dimension())
	scalarMulTorus(a.Mask, Torus(s), out.Mask)
	out.Body = a.Body * Torus(s)
	return out
}

// PlaintextAddLwe returns a + (0, pt), shifting the plaintext without
// touching the noise.
func (eval *Evaluator) PlaintextAddLwe(a *LweCiphertext, pt Torus) *LweCiphertext {
	out := a.Copy()
	out.Body += pt
	return out
}

// checkGlwePair validates two GLWE operands for a binary operator.
func (eval *Evaluator) checkGlwePair(a, b *GlweCiphertext) error {
	return checkGlweShape("operand", b.Dimension(), b.PolyDegree(), a.Dimension(), a.PolyDegree())
}

// AddGlwe returns a + b.
func (eval *Evaluator) AddGlwe(a, b *GlweCiphertext) (*GlweCiphertext, error) {
	if err := eval.checkGlwePair(a, b); err != nil {
		return nil, err
	}
	out := NewGlweCiphertext(a.Dimension(), a.PolyDegree())
	for z := range out.Mask {
		out.Mask[z].Add(a.Mask[z], b.Mask[z])
	}
	out.Body.Add(a.Body, b.Body)
	return out, nil
}

// SubGlwe returns a - b.
func (eval *Evaluator) SubGlwe(a, b *GlweCiphertext) (*GlweCiphertext, error) {
	if err := eval.checkGlwePair(a, b); err != nil {
		return nil, err
	}
	out := NewGlweCiphertext(a.Dimension(), a.PolyDegree())
	for z := range out.Mask {
		out.Mask[z].Sub(a.Mask[z], b.Mask[z])
	}
	out.Body.Sub(a.Body, b.Body)
	return out, nil
}

// NegGlwe returns -a.
func (eval *Evaluator) NegGlwe(a *GlweCiphertext) *GlweCiphertext {
	out := NewGlweCiphertext(a.Dimension(), a.PolyDegree())
	for z := range out.Mask {
		out.Mask[z].Neg(a.Mask[z])
	}
	out.Body.Neg(a.Body)
	return out
}

// ScalarMulGlwe returns s * a.
func (eval *Evaluator) ScalarMulGlwe(a *GlweCiphertext, s int64) *GlweCiphertext {
	out := NewGlweCiphertext(a.Dimension(), a.PolyDegree())
	for z := range out.Mask {
		out.Mask[z].ScalarMul(a.Mask[z], Torus(s))
	}
	out.Body.ScalarMul(a.Body, Torus(s))
	return out
}
