// Package concrete implements a TFHE-style fully homomorphic encryption
// engine over the discretized torus.
//
// The engine provides computation on encrypted data with programmable
// bootstrapping, making it suitable for arbitrary-depth circuits:
//   - LWE encryption over scalar torus masks
//   - GLWE encryption over negacyclic polynomial masks
//   - GGSW selector ciphertexts for blind rotation
//   - Digit-decomposition key switching between LWE dimensions
//   - Blind-rotation bootstrapping that refreshes noise while evaluating
//     an arbitrary lookup table
//
// All torus arithmetic is fixed-point over uint64 with implicit modulo-1
// wraparound; polynomial products run through an FFT with negacyclic twist
// factors.
//
// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause
package concrete

import (
	"errors"
	"fmt"
	"math/bits"
)

// Common errors.
var (
	// ErrDimension reports a shape mismatch between a key and a ciphertext,
	// or between two ciphertext operands. Dimensions are never coerced.
	ErrDimension = errors.New("dimension mismatch")
	// ErrParameters reports an invalid or internally inconsistent parameter set.
	ErrParameters = errors.New("invalid parameters")
	// ErrFormat reports a malformed serialized key or ciphertext.
	ErrFormat = errors.New("invalid serialized format")
)

// ParametersLiteral is a user-friendly parameter specification.
//
// The engine validates internal consistency (power-of-two degrees, digit
// decompositions that fit the torus width) but does not advise secure
// choices; the standard deviations and dimensions must come from an external
// security analysis.
type ParametersLiteral struct {
	// LweDimension is the LWE mask length n.
	LweDimension int
	// GlweDimension is the GLWE mask length k.
	GlweDimension int
	// PolyDegree is the degree N of the negacyclic ring, a power of two.
	PolyDegree int
	// PbsBaseLog is log2 of the bootstrap decomposition base.
	PbsBaseLog int
	// PbsLevel is the bootstrap decomposition level count.
	PbsLevel int
	// KsBaseLog is log2 of the key-switch decomposition base.
	KsBaseLog int
	// KsLevel is the key-switch decomposition level count.
	KsLevel int
	// LweStdDev is the error standard deviation for LWE encryptions,
	// expressed as a fraction of the torus.
	LweStdDev float64
	// GlweStdDev is the error standard deviation for GLWE encryptions.
	GlweStdDev float64
	// MessageModulus is the plaintext space size, a power of two.
	MessageModulus uint64
}

// Standard parameter sets.
var (
	// Boolean128 targets ~128-bit security for boolean circuits with
	// gate bootstrapping, in the style of the original concrete-boolean
	// defaults.
	Boolean128 = ParametersLiteral{
		LweDimension:   586,
		GlweDimension:  2,
		PolyDegree:     512,
		PbsBaseLog:     6,
		PbsLevel:       4,
		KsBaseLog:      3,
		KsLevel:        5,
		LweStdDev:      6.1e-5,
		GlweStdDev:     2.9e-8,
		MessageModulus: 2,
	}

	// BooleanFast trades security margin for speed. Test and benchmark use
	// only; the reduced dimensions are NOT secure for production.
	BooleanFast = ParametersLiteral{
		LweDimension:   256,
		GlweDimension:  1,
		PolyDegree:     512,
		PbsBaseLog:     8,
		PbsLevel:       3,
		KsBaseLog:      4,
		KsLevel:        5,
		LweStdDev:      9.5e-7,
		GlweStdDev:     2.9e-11,
		MessageModulus: 2,
	}

	// Integer4Fast carries a 2-bit message space for programmable
	// bootstrapping tests. Same caveats as BooleanFast.
	Integer4Fast = ParametersLiteral{
		LweDimension:   256,
		GlweDimension:  1,
		PolyDegree:     512,
		PbsBaseLog:     8,
		PbsLevel:       3,
		KsBaseLog:      4,
		KsLevel:        5,
		LweStdDev:      9.5e-7,
		GlweStdDev:     2.9e-11,
		MessageModulus: 4,
	}
)

// Parameters is a validated parameter set.
type Parameters struct {
	lweDimension   int
	glweDimension  int
	polyDegree     int
	logPolyDegree  int
	pbsBaseLog     int
	pbsLevel       int
	ksBaseLog      int
	ksLevel        int
	lweStdDev      float64
	glweStdDev     float64
	messageModulus uint64
	logMessageMod  int
}

// NewParametersFromLiteral validates a literal specification and returns the
// corresponding Parameters. All violations are fatal at construction time.
func NewParametersFromLiteral(lit ParametersLiteral) (Parameters, error) {
	switch {
	case lit.LweDimension <= 0:
		return Parameters{}, fmt.Errorf("%w: LweDimension %d", ErrParameters, lit.LweDimension)
	case lit.GlweDimension <= 0:
		return Parameters{}, fmt.Errorf("%w: GlweDimension %d", ErrParameters, lit.GlweDimension)
	case lit.PolyDegree < 8 || bits.OnesCount(uint(lit.PolyDegree)) != 1:
		return Parameters{}, fmt.Errorf("%w: PolyDegree %d must be a power of two >= 8", ErrParameters, lit.PolyDegree)
	case lit.PbsBaseLog <= 0 || lit.PbsLevel <= 0:
		return Parameters{}, fmt.Errorf("%w: bootstrap decomposition %d/%d", ErrParameters, lit.PbsBaseLog, lit.PbsLevel)
	case lit.PbsBaseLog*lit.PbsLevel > TorusBits:
		return Parameters{}, fmt.Errorf("%w: bootstrap decomposition exceeds torus width", ErrParameters)
	case lit.KsBaseLog <= 0 || lit.KsLevel <= 0:
		return Parameters{}, fmt.Errorf("%w: key-switch decomposition %d/%d", ErrParameters, lit.KsBaseLog, lit.KsLevel)
	case lit.KsBaseLog*lit.KsLevel > TorusBits:
		return Parameters{}, fmt.Errorf("%w: key-switch decomposition exceeds torus width", ErrParameters)
	case lit.LweStdDev <= 0 || lit.LweStdDev >= 1:
		return Parameters{}, fmt.Errorf("%w: LweStdDev %v", ErrParameters, lit.LweStdDev)
	case lit.GlweStdDev <= 0 || lit.GlweStdDev >= 1:
		return Parameters{}, fmt.Errorf("%w: GlweStdDev %v", ErrParameters, lit.GlweStdDev)
	case lit.MessageModulus < 2 || bits.OnesCount64(lit.MessageModulus) != 1:
		return Parameters{}, fmt.Errorf("%w: MessageModulus %d must be a power of two >= 2", ErrParameters, lit.MessageModulus)
	case lit.MessageModulus > uint64(lit.PolyDegree):
		return Parameters{}, fmt.Errorf("%w: MessageModulus %d exceeds PolyDegree %d", ErrParameters, lit.MessageModulus, lit.PolyDegree)
	}

	return Parameters{
		lweDimension:   lit.LweDimension,
		glweDimension:  lit.GlweDimension,
		polyDegree:     lit.PolyDegree,
		logPolyDegree:  bits.TrailingZeros(uint(lit.PolyDegree)),
		pbsBaseLog:     lit.PbsBaseLog,
		pbsLevel:       lit.PbsLevel,
		ksBaseLog:      lit.KsBaseLog,
		ksLevel:        lit.KsLevel,
		lweStdDev:      lit.LweStdDev,
		glweStdDev:     lit.GlweStdDev,
		messageModulus: lit.MessageModulus,
		logMessageMod:  bits.TrailingZeros64(lit.MessageModulus),
	}, nil
}

// LweDimension returns the LWE mask length n.
func (p Parameters) LweDimension() int { return p.lweDimension }

// GlweDimension returns the GLWE mask length k.
func (p Parameters) GlweDimension() int { return p.glweDimension }

// PolyDegree returns the negacyclic ring degree N.
func (p Parameters) PolyDegree() int { return p.polyDegree }

// ExtractedLweDimension returns k*N, the LWE dimension of sample-extracted
// ciphertexts.
func (p Parameters) ExtractedLweDimension() int { return p.glweDimension * p.polyDegree }

// PbsBaseLog returns log2 of the bootstrap decomposition base.
func (p Parameters) PbsBaseLog() int { return p.pbsBaseLog }

// PbsLevel returns the bootstrap decomposition level count.
func (p Parameters) PbsLevel() int { return p.pbsLevel }

// KsBaseLog returns log2 of the key-switch decomposition base.
func (p Parameters) KsBaseLog() int { return p.ksBaseLog }

// KsLevel returns the key-switch decomposition level count.
func (p Parameters) KsLevel() int { return p.ksLevel }

// LweStdDev returns the LWE error standard deviation.
func (p Parameters) LweStdDev() float64 { return p.lweStdDev }

// GlweStdDev returns the GLWE error standard deviation.
func (p Parameters) GlweStdDev() float64 { return p.glweStdDev }

// MessageModulus returns the plaintext space size.
func (p Parameters) MessageModulus() uint64 { return p.messageModulus }

// Literal returns the ParametersLiteral this set was built from.
func (p Parameters) Literal() ParametersLiteral {
	return ParametersLiteral{
		LweDimension:   p.lweDimension,
		GlweDimension:  p.glweDimension,
		PolyDegree:     p.polyDegree,
		PbsBaseLog:     p.pbsBaseLog,
		PbsLevel:       p.pbsLevel,
		KsBaseLog:      p.ksBaseLog,
		KsLevel:        p.ksLevel,
		LweStdDev:      p.lweStdDev,
		GlweStdDev:     p.glweStdDev,
		MessageModulus: p.messageModulus,
	}
}
