// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// gadget is a signed digit decomposition with base 2^baseLog and the given
// level count. Level 0 carries the most significant digit; level l has
// weight 2^(64-(l+1)*baseLog).
//
// The decomposition is balanced: digits lie in [-B/2, B/2), with a carry
// into the next digit when a raw digit reaches B/2. The bits below the last
// level are rounded to the closest representable value before decomposing,
// and a carry out of the top digit vanishes modulo 1.
type gadget struct {
	baseLog int
	level   int
}

// weight returns the gadget weight of level l.
func (g gadget) weight(l int) Torus {
	return Torus(1) << (TorusBits - (l+1)*g.baseLog)
}

// decompose writes the signed digits of t to out, most significant level
// first. len(out) must be g.level.
func (g gadget) decompose(t Torus, out []int64) {
	cut := TorusBits - g.baseLog*g.level
	state := uint64(t) >> cut
	if cut > 0 && (uint64(t)>>(cut-1))&1 == 1 {
		state++
	}

	base := uint64(1) << g.baseLog
	half := base >> 1
	for l := g.level - 1; l >= 0; l-- {
		d := state & (base - 1)
		state >>= g.baseLog
		if d >= half {
			out[l] = int64(d) - int64(base)
			state++
		} else {
			out[l] = int64(d)
		}
	}
}

// decomposePoly decomposes every coefficient of p. out[l][j] is the level-l
// digit of coefficient j.
func (g gadget) decomposePoly(p Polynomial, out [][]int64) {
	var digits [64]int64
	d := digits[:g.level]
	for j, c := range p.Coeffs {
		g.decompose(c, d)
		for l := 0; l < g.level; l++ {
			out[l][j] = d[l]
		}
	}
}

// GgswCiphertext encrypts a single small scalar (in practice one secret key
// bit) as (k+1)*level GLWE ciphertexts: for each mask row j < k and level l
// a GLWE encryption of -m*key_j*w_l, and for the body row a GLWE encryption
// of m*w_l, where w_l is the gadget weight. GGSW ciphertexts are the
// selectors of blind rotation and are read-only after generation.
type GgswCiphertext struct {
	// Value is indexed [row][level], rows 0..k-1 for the mask components
	// and row k for the body.
	Value [][]GlweCiphertext
	// BaseLog is log2 of the gadget base the rows were generated with.
	BaseLog int
}

// NewGgswCiphertext allocates a zero GGSW ciphertext.
func NewGgswCiphertext(k, n, baseLog, level int) *GgswCiphertext {
	rows := make([][]GlweCiphertext, k+1)
	for j := range rows {
		rows[j] = make([]GlweCiphertext, level)
		for l := range rows[j] {
			rows[j][l] = *NewGlweCiphertext(k, n)
		}
	}
	return &GgswCiphertext{Value: rows, BaseLog: baseLog}
}

// Dimension returns the GLWE mask length k.
func (ct *GgswCiphertext) Dimension() int { return len(ct.Value) - 1 }

// PolyDegree returns the ring degree N.
func (ct *GgswCiphertext) PolyDegree() int { return ct.Value[0][0].PolyDegree() }

// Level returns the gadget level count.
func (ct *GgswCiphertext) Level() int { return len(ct.Value[0]) }

// fourierGgsw holds the Fourier images of a GGSW ciphertext's rows, laid
// out as rows[j][l][component][coefficient] with component k the body. The
// evaluator precomputes these once per bootstrap key so that each external
// product only transforms the accumulator digits.
type fourierGgsw struct {
	rows [][][][]complex128
}

// fourierFromGgsw transforms every GLWE component of every gadget row.
func fourierFromGgsw(ft *FourierTransform, ct *GgswCiphertext) fourierGgsw {
	k := ct.Dimension()
	rows := make([][][][]complex128, k+1)
	for j := range ct.Value {
		rows[j] = make([][][]complex128, len(ct.Value[j]))
		for l := range ct.Value[j] {
			glwe := &ct.Value[j][l]
			comps := make([][]complex128, k+1)
			for z := 0; z < k; z++ {
				comps[z] = ft.Forward(glwe.Mask[z])
			}
			comps[k] = ft.Forward(glwe.Body)
			rows[j][l] = comps
		}
	}
	return fourierGgsw{rows: rows}
}
