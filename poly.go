// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// Polynomial is an element of the negacyclic ring R[X]/(X^N+1) with torus
// coefficients in index order. A polynomial is owned by the key or
// ciphertext embedding it and must not be aliased across concurrent
// mutation.
type Polynomial struct {
	Coeffs []Torus
}

// NewPolynomial allocates a zero polynomial of degree n.
func NewPolynomial(n int) Polynomial {
	return Polynomial{Coeffs: make([]Torus, n)}
}

// Degree returns the ring degree N.
func (p Polynomial) Degree() int { return len(p.Coeffs) }

// Copy returns a deep copy.
func (p Polynomial) Copy() Polynomial {
	out := NewPolynomial(p.Degree())
	copy(out.Coeffs, p.Coeffs)
	return out
}

// CopyFrom overwrites p with the coefficients of src.
func (p Polynomial) CopyFrom(src Polynomial) {
	copy(p.Coeffs, src.Coeffs)
}

// Clear zeroes all coefficients.
func (p Polynomial) Clear() {
	for i := range p.Coeffs {
		p.Coeffs[i] = 0
	}
}

// Add writes a + b to p.
func (p Polynomial) Add(a, b Polynomial) {
	addTorus(a.Coeffs, b.Coeffs, p.Coeffs)
}

// Sub writes a - b to p.
func (p Polynomial) Sub(a, b Polynomial) {
	subTorus(a.Coeffs, b.Coeffs, p.Coeffs)
}

// Neg writes -a to p.
func (p Polynomial) Neg(a Polynomial) {
	negTorus(a.Coeffs, p.Coeffs)
}

// AddAssign adds a to p in place.
func (p Polynomial) AddAssign(a Polynomial) {
	addTorus(p.Coeffs, a.Coeffs, p.Coeffs)
}

// SubAssign subtracts a from p in place.
func (p Polynomial) SubAssign(a Polynomial) {
	subTorus(p.Coeffs, a.Coeffs, p.Coeffs)
}

// ScalarMul writes s * a to p.
func (p Polynomial) ScalarMul(a Polynomial, s Torus) {
	scalarMulTorus(a.Coeffs, s, p.Coeffs)
}

// MonomialMul writes X^e * a to p, with e taken modulo 2N. The negacyclic
// relation X^N = -1 flips the sign of coefficients that wrap. p and a must
// not alias.
func (p Polynomial) MonomialMul(a Polynomial, e int) {
	n := a.Degree()
	e &= 2*n - 1
	neg := false
	if e >= n {
		e -= n
		neg = true
	}
	// X^e shifts coefficient j to j+e; the top e coefficients wrap with a
	// sign flip, the bottom half flips again when e >= N.
	for j := 0; j < e; j++ {
		p.Coeffs[j] = a.Coeffs[n-e+j]
		if !neg {
			p.Coeffs[j] = -p.Coeffs[j]
		}
	}
	for j := e; j < n; j++ {
		p.Coeffs[j] = a.Coeffs[j-e]
		if neg {
			p.Coeffs[j] = -p.Coeffs[j]
		}
	}
}

// MulNaive computes the negacyclic product a * b by schoolbook convolution.
// Quadratic; reference implementation used by tests to validate the FFT
// path.
func (p Polynomial) MulNaive(a, b Polynomial) {
	n := a.Degree()
	out := make([]Torus, n)
	for i := 0; i < n; i++ {
		ai := a.Coeffs[i]
		if ai == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			k := i + j
			if k < n {
				out[k] += ai * b.Coeffs[j]
			} else {
				out[k-n] -= ai * b.Coeffs[j]
			}
		}
	}
	copy(p.Coeffs, out)
}
