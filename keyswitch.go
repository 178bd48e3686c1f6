// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// KeySwitchKey re-encrypts ciphertexts from a source LWE key to a
// destination LWE key. Value[i][l] encrypts, under the destination key, the
// i-th source key coefficient scaled by the level-l gadget weight.
type KeySwitchKey struct {
	Value   [][]LweCiphertext
	BaseLog int
}

// InputDimension returns the source key dimension.
func (ksk *KeySwitchKey) InputDimension() int { return len(ksk.Value) }

// OutputDimension returns the destination key dimension.
func (ksk *KeySwitchKey) OutputDimension() int { return ksk.Value[0][0].Dimension() }

// Level returns the gadget level count.
func (ksk *KeySwitchKey) Level() int { return len(ksk.Value[0]) }

// KeySwitch switches ct to the destination key of ksk: the body is kept as
// a trivial ciphertext and each mask coefficient is decomposed into gadget
// digits, with the matching key-switch rows subtracted out. The plaintext
// is preserved; the output carries additional key-switch noise.
func (eval *Evaluator) KeySwitch(ksk *KeySwitchKey, ct *LweCiphertext) (*LweCiphertext, error) {
	if err := checkLweDimension("key-switch input", ct.Dimension(), ksk.InputDimension()); err != nil {
		return nil, err
	}

	g := gadget{baseLog: ksk.BaseLog, level: ksk.Level()}
	out := NewTrivialLweCiphertext(ksk.OutputDimension(), ct.Body)
	digits := make([]int64, g.level)

	for i, a := range ct.Mask {
		g.decompose(a, digits)
		for l, d := range digits {
			if d == 0 {
				continue
			}
			row := &ksk.Value[i][l]
			s := Torus(d)
			for z := range out.Mask {
				out.Mask[z] -= s * row.Mask[z]
			}
			out.Body -= s * row.Body
		}
	}
	return out, nil
}

// checkKskShapes validates a key-switch key against the parameter set's
// extracted-to-base direction.
func checkKskShapes(params Parameters, ksk *KeySwitchKey) error {
	if ksk.InputDimension() != params.ExtractedLweDimension() {
		return fmt.Errorf("%w: key-switch input dimension %d, want %d",
			ErrDimension, ksk.InputDimension(), params.ExtractedLweDimension())
	}
	if ksk.OutputDimension() != params.LweDimension() {
		return fmt.Errorf("%w: key-switch output dimension %d, want %d",
			ErrDimension, ksk.OutputDimension(), params.LweDimension())
	}
	return nil
}
