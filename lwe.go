// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import "fmt"

// LweSecretKey is a vector of n uniform binary coefficients. Generated once
// and immutable thereafter.
type LweSecretKey struct {
	Coeffs []Torus
}

// NewLweSecretKey allocates a zero key of dimension n.
func NewLweSecretKey(n int) *LweSecretKey {
	return &LweSecretKey{Coeffs: make([]Torus, n)}
}

// Dimension returns the key dimension n.
func (sk *LweSecretKey) Dimension() int { return len(sk.Coeffs) }

// LweCiphertext is an LWE encryption (mask, body) with
// body = <mask, key> + plaintext + error.
type LweCiphertext struct {
	Mask []Torus
	Body Torus
}

// NewLweCiphertext allocates a zero ciphertext of dimension n.
func NewLweCiphertext(n int) *LweCiphertext {
	return &LweCiphertext{Mask: make([]Torus, n)}
}

// NewTrivialLweCiphertext returns the noiseless encryption (0, pt) of a
// plaintext under any key of dimension n.
func NewTrivialLweCiphertext(n int, pt Torus) *LweCiphertext {
	ct := NewLweCiphertext(n)
	ct.Body = pt
	return ct
}

// Dimension returns the mask length n.
func (ct *LweCiphertext) Dimension() int { return len(ct.Mask) }

// Copy returns a deep copy.
func (ct *LweCiphertext) Copy() *LweCiphertext {
	out := NewLweCiphertext(ct.Dimension())
	copy(out.Mask, ct.Mask)
	out.Body = ct.Body
	return out
}

// checkLweDimension validates that two LWE entities share a dimension.
func checkLweDimension(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%w: %s dimension %d, want %d", ErrDimension, what, got, want)
	}
	return nil
}
