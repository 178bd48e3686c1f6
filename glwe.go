// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// GlweSecretKey is a vector of k binary polynomials, generalizing
// LweSecretKey to the negacyclic ring.
type GlweSecretKey struct {
	Value []Polynomial
}

// NewGlweSecretKey allocates a zero key of dimension k over degree n.
func NewGlweSecretKey(k, n int) *GlweSecretKey {
	v := make([]Polynomial, k)
	for i := range v {
		v[i] = NewPolynomial(n)
	}
	return &GlweSecretKey{Value: v}
}

// Dimension returns the mask length k.
func (sk *GlweSecretKey) Dimension() int { return len(sk.Value) }

// PolyDegree returns the ring degree N.
func (sk *GlweSecretKey) PolyDegree() int { return sk.Value[0].Degree() }

// ExtractedLweKey flattens the key into an LWE secret key of dimension k*N,
// with polynomial coefficients in index order. Sample-extracted ciphertexts
// decrypt under this key.
func (sk *GlweSecretKey) ExtractedLweKey() *LweSecretKey {
	k, n := sk.Dimension(), sk.PolyDegree()
	out := NewLweSecretKey(k * n)
	for z := 0; z < k; z++ {
		copy(out.Coeffs[z*n:], sk.Value[z].Coeffs)
	}
	return out
}

// GlweCiphertext is a GLWE encryption (mask, body) with
// body = sum_z mask_z * key_z + plaintext + error over the negacyclic ring.
type GlweCiphertext struct {
	Mask []Polynomial
	Body Polynomial
}

// NewGlweCiphertext allocates a zero ciphertext of dimension k over
// degree n.
func NewGlweCiphertext(k, n int) *GlweCiphertext {
	mask := make([]Polynomial, k)
	for i := range mask {
		mask[i] = NewPolynomial(n)
	}
	return &GlweCiphertext{Mask: mask, Body: NewPolynomial(n)}
}

// Dimension returns the mask length k.
func (ct *GlweCiphertext) Dimension() int { return len(ct.Mask) }

// PolyDegree returns the ring degree N.
func (ct *GlweCiphertext) PolyDegree() int { return ct.Body.Degree() }

// Copy returns a deep copy.
func (ct *GlweCiphertext) Copy() *GlweCiphertext {
	out := NewGlweCiphertext(ct.Dimension(), ct.PolyDegree())
	for z := range ct.Mask {
		out.Mask[z].CopyFrom(ct.Mask[z])
	}
	out.Body.CopyFrom(ct.Body)
	return out
}

// CopyFrom overwrites ct with src. Shapes must match.
func (ct *GlweCiphertext) CopyFrom(src *GlweCiphertext) {
	for z := range ct.Mask {
		ct.Mask[z].CopyFrom(src.Mask[z])
	}
	ct.Body.CopyFrom(src.Body)
}

// Clear zeroes the ciphertext.
func (ct *GlweCiphertext) Clear() {
	for z := range ct.Mask {
		ct.Mask[z].Clear()
	}
	ct.Body.Clear()
}

// SampleExtract projects coefficient j of the ciphertext's underlying
// plaintext polynomial into a standalone LWE ciphertext of dimension k*N
// under the extracted key. Extraction reads mask coefficients with the
// negacyclic sign flip on wrapped indices.
func (ct *GlweCiphertext) SampleExtract(j int) (*LweCiphertext, error) {
	k, n := ct.Dimension(), ct.PolyDegree()
	if j < 0 || j >= n {
		return nil, fmt.Errorf("%w: extract index %d outside ring degree %d", ErrDimension, j, n)
	}
	out := NewLweCiphertext(k * n)
	for z := 0; z < k; z++ {
		row := out.Mask[z*n : (z+1)*n]
		for i := 0; i <= j; i++ {
			row[i] = ct.Mask[z].Coeffs[j-i]
		}
		for i := j + 1; i < n; i++ {
			row[i] = -ct.Mask[z].Coeffs[n+j-i]
		}
	}
	out.Body = ct.Body.Coeffs[j]
	return out, nil
}

// checkGlweShape validates that two GLWE entities share (k, N).
func checkGlweShape(what string, gotK, gotN, wantK, wantN int) error {
	if gotK != wantK || gotN != wantN {
		return fmt.Errorf("%w: %s shape (%d,%d), want (%d,%d)", ErrDimension, what, gotK, gotN, wantK, wantN)
	}
	return nil
}
