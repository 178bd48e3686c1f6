// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// BootstrapKey holds one GGSW encryption per LWE secret key bit, under the
// GLWE key. Blind rotation walks this table to homomorphically compute the
// phase of the input ciphertext in the exponent of the accumulator.
type BootstrapKey struct {
	Value []GgswCiphertext
}

// InputDimension returns the LWE dimension the key bootstraps from.
func (bsk *BootstrapKey) InputDimension() int { return len(bsk.Value) }

// GlweDimension returns the GLWE mask length of the accumulator.
func (bsk *BootstrapKey) GlweDimension() int { return bsk.Value[0].Dimension() }

// PolyDegree returns the accumulator ring degree.
func (bsk *BootstrapKey) PolyDegree() int { return bsk.Value[0].PolyDegree() }

// Level returns the gadget level count of the GGSW rows.
func (bsk *BootstrapKey) Level() int { return bsk.Value[0].Level() }

// LookupTable is a test polynomial for programmable bootstrapping. The
// coefficient at index i holds the output value for phases near i/2N; the
// negacyclic ring supplies the negated second half of the circle.
type LookupTable struct {
	poly Polynomial
}

// Copy returns a deep copy of the table.
func (lut LookupTable) Copy() LookupTable {
	return LookupTable{poly: lut.poly.Copy()}
}

// GenLookupTable builds the table evaluating f over the padded message
// space: bootstrapping a ciphertext of message m yields an encryption of
// f(m), padded-encoded. Each message owns a box of N/p coefficients,
// shifted by half a box so that noisy phases stay inside the right box;
// the top half-box belongs to message 0 approached from below and carries
// the negated value to cancel the negacyclic sign flip.
func GenLookupTable(params Parameters, f func(uint64) uint64) LookupTable {
	n := params.PolyDegree()
	p := int(params.MessageModulus())
	box := n / p
	half := box / 2

	lut := LookupTable{poly: NewPolynomial(n)}
	for i := 0; i < n; i++ {
		m := (i + half) / box
		if m == p {
			lut.poly.Coeffs[i] = -params.EncodePadded(f(0))
		} else {
			lut.poly.Coeffs[i] = params.EncodePadded(f(uint64(m)))
		}
	}
	return lut
}

// GenIdentityLookupTable builds the table that refreshes noise without
// changing the message.
func GenIdentityLookupTable(params Parameters) LookupTable {
	return GenLookupTable(params, func(m uint64) uint64 { return m })
}

// GenGateLookupTable builds a table directly over the torus: coefficient i
// is f(i/2N). f is only sampled on [0, 1/2); the value at x + 1/2 is -f(x)
// by the negacyclic relation. Used for the fixed gate tables, where inputs
// sit at fixed torus points rather than in the message encoding.
func GenGateLookupTable(params Parameters, f func(float64) float64) LookupTable {
	n := params.PolyDegree()
	lut := LookupTable{poly: NewPolynomial(n)}
	for i := 0; i < n; i++ {
		lut.poly.Coeffs[i] = TorusFromFloat(f(float64(i) / float64(2*n)))
	}
	return lut
}

// boolBand is the gate table for xor-style gates: doubled boolean sums land
// at phase 0 or 1/2, and the band maps the neighborhood of 0 to true and
// the neighborhood of 1/2 to false.
func boolBand(x float64) float64 {
	if x < 0.25 {
		return 0.125
	}
	return -0.125
}

// modSwitch rounds a torus element to the nearest multiple of 1/2N and
// returns the multiplier in [0, 2N).
func (eval *Evaluator) modSwitch(t Torus) int {
	shift := TorusBits - eval.params.logPolyDegree - 1
	return int((uint64(t) + 1<<(shift-1)) >> shift & uint64(2*eval.params.PolyDegree()-1))
}

// externalProductAddAssign adds ggsw ⊡ in to out: each component of in is
// gadget-decomposed, the digits are transformed, and the pointwise products
// against the precomputed Fourier rows accumulate in the Fourier domain
// before a single inverse transform per output component.
func (eval *Evaluator) externalProductAddAssign(fg fourierGgsw, in, out *GlweCiphertext) {
	k := eval.params.GlweDimension()
	g := gadget{baseLog: eval.params.PbsBaseLog(), level: eval.params.PbsLevel()}

	for z := range eval.fourAcc {
		acc := eval.fourAcc[z]
		for i := range acc {
			acc[i] = 0
		}
	}

	for j := 0; j <= k; j++ {
		comp := in.Body
		if j < k {
			comp = in.Mask[j]
		}
		g.decomposePoly(comp, eval.digitBufs)
		for l := 0; l < g.level; l++ {
			eval.ft.forwardSignedTo(eval.digitBufs[l], eval.fourDigit)
			row := fg.rows[j][l]
			for z := 0; z <= k; z++ {
				mulAddPointwise(eval.fourDigit, row[z], eval.fourAcc[z])
			}
		}
	}

	for z := 0; z < k; z++ {
		eval.ft.InverseAddTo(eval.fourAcc[z], out.Mask[z])
	}
	eval.ft.InverseAddTo(eval.fourAcc[k], out.Body)
}

// ExternalProduct computes ggsw ⊡ ct, a GLWE encryption of the product of
// the two plaintexts. The GGSW operand must use the bootstrap gadget of the
// parameter set.
func (eval *Evaluator) ExternalProduct(ggsw *GgswCiphertext, ct *GlweCiphertext) (*GlweCiphertext, error) {
	k, n := eval.params.GlweDimension(), eval.params.PolyDegree()
	if err := checkGlweShape("GGSW operand", ggsw.Dimension(), ggsw.PolyDegree(), k, n); err != nil {
		return nil, err
	}
	if err := checkGlweShape("GLWE operand", ct.Dimension(), ct.PolyDegree(), k, n); err != nil {
		return nil, err
	}
	if ggsw.BaseLog != eval.params.PbsBaseLog() || ggsw.Level() != eval.params.PbsLevel() {
		return nil, fmt.Errorf("%w: GGSW gadget (base 2^%d, level %d), want (base 2^%d, level %d)",
			ErrParameters, ggsw.BaseLog, ggsw.Level(), eval.params.PbsBaseLog(), eval.params.PbsLevel())
	}

	out := NewGlweCiphertext(k, n)
	eval.externalProductAddAssign(fourierFromGgsw(eval.ft, ggsw), ct, out)
	return out, nil
}

// CMux homomorphically selects between c0 and c1 under an encrypted bit:
// c0 + ggsw ⊡ (c1 - c0), which decrypts to c0's plaintext when the bit is
// zero and c1's when it is one.
func (eval *Evaluator) CMux(ggsw *GgswCiphertext, c0, c1 *GlweCiphertext) (*GlweCiphertext, error) {
	diff, err := eval.SubGlwe(c1, c0)
	if err != nil {
		return nil, err
	}
	prod, err := eval.ExternalProduct(ggsw, diff)
	if err != nil {
		return nil, err
	}
	return eval.AddGlwe(c0, prod)
}

// blindRotate rotates the lookup table by the negated, mod-switched phase
// of ct: the accumulator starts at X^(-b)·lut and each key bit conditionally
// multiplies in X^(a_i) through a CMux against the bootstrap key. ct must
// have the base LWE dimension.
func (eval *Evaluator) blindRotate(ct *LweCiphertext, lut LookupTable) *GlweCiphertext {
	k, n := eval.params.GlweDimension(), eval.params.PolyDegree()

	acc := NewGlweCiphertext(k, n)
	acc.Body.MonomialMul(lut.poly, 2*n-eval.modSwitch(ct.Body))

	for i, a := range ct.Mask {
		ai := eval.modSwitch(a)
		if ai == 0 {
			continue
		}
		// accRot = X^(a_i)·acc - acc, then acc += bsk_i ⊡ accRot.
		for z := 0; z < k; z++ {
			eval.accRot.Mask[z].MonomialMul(acc.Mask[z], ai)
			eval.accRot.Mask[z].SubAssign(acc.Mask[z])
		}
		eval.accRot.Body.MonomialMul(acc.Body, ai)
		eval.accRot.Body.SubAssign(acc.Body)

		eval.externalProductAddAssign(eval.fbsk[i], eval.accRot, acc)
	}
	return acc
}

// Bootstrap resets the noise of ct while applying the lookup table: blind
// rotation, then sample extraction at index zero, then a key switch back to
// the base LWE dimension when the evaluator carries a key-switch key.
//
// The input must decrypt correctly under the padded encoding; noise above
// the decryption margin is not detected here and silently corrupts the
// output message.
func (eval *Evaluator) Bootstrap(ct *LweCiphertext, lut LookupTable) (*LweCiphertext, error) {
	if eval.keys == nil || eval.keys.Bsk == nil {
		return nil, fmt.Errorf("%w: evaluator constructed without a bootstrap key", ErrParameters)
	}
	if err := checkLweDimension("bootstrap input", ct.Dimension(), eval.params.LweDimension()); err != nil {
		return nil, err
	}

	acc := eval.blindRotate(ct, lut)
	extracted, err := acc.SampleExtract(0)
	if err != nil {
		return nil, err
	}
	if eval.keys.Ksk == nil {
		return extracted, nil
	}
	return eval.KeySwitch(eval.keys.Ksk, extracted)
}
