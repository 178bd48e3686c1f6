// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math"

	"golang.org/x/crypto/blake2b"
)

// PRNG is the contract for a cryptographically secure source of random
// bytes. The engine never seeds or reseeds a PRNG itself; it only draws.
type PRNG interface {
	io.Reader
}

// NewPRNG returns a PRNG backed by the operating system entropy source.
// Safe for concurrent use.
func NewPRNG() PRNG {
	return rand.Reader
}

// KeyedPRNG is a deterministic PRNG expanding a seed through the blake2b
// XOF. Two instances built from the same key produce the same stream, which
// is what key and ciphertext regeneration across parties relies on.
//
// A KeyedPRNG must not be shared across goroutines: concurrent reads
// destroy the determinism of the stream. Callers needing parallel
// generation use one instance per goroutine.
type KeyedPRNG struct {
	xof blake2b.XOF
}

// NewKeyedPRNG creates a deterministic PRNG from a seed key.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		return nil, err
	}
	return &KeyedPRNG{xof: xof}, nil
}

// Read fills sum with pseudorandom bytes.
func (prng *KeyedPRNG) Read(sum []byte) (int, error) {
	return prng.xof.Read(sum)
}

// Sampler draws torus elements from a PRNG: uniform scalars, uniform bits
// and discrete-Gaussian errors. A Sampler owns its generation context and
// must not be shared across goroutines; create one Sampler per worker
// instead.
type Sampler struct {
	prng PRNG
	buf  [8]byte

	// Box-Muller produces normal deviates in pairs; the spare is cached.
	spare    float64
	hasSpare bool
}

// NewSampler wraps a PRNG in a sampling context.
func NewSampler(prng PRNG) *Sampler {
	return &Sampler{prng: prng}
}

// Uint64 draws 64 uniform bits.
func (s *Sampler) Uint64() uint64 {
	if _, err := io.ReadFull(s.prng, s.buf[:]); err != nil {
		// The backing sources (OS entropy, blake2b XOF) do not fail
		// mid-session; an error here means the process cannot continue.
		panic("concrete: csprng read failed: " + err.Error())
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

// Torus draws a uniform torus element.
func (s *Sampler) Torus() Torus {
	return Torus(s.Uint64())
}

// FillUniform fills v with uniform torus elements.
func (s *Sampler) FillUniform(v []Torus) {
	for i := range v {
		v[i] = s.Torus()
	}
}

// FillBinary fills v with uniform bits in {0, 1}.
func (s *Sampler) FillBinary(v []Torus) {
	var w uint64
	for i := range v {
		if i&63 == 0 {
			w = s.Uint64()
		}
		v[i] = Torus(w & 1)
		w >>= 1
	}
}

// normFloat64 draws a standard normal deviate by the Box-Muller transform
// over uniform draws from the secure source.
func (s *Sampler) normFloat64() float64 {
	if s.hasSpare {
		s.hasSpare = false
		return s.spare
	}
	var u float64
	for u == 0 {
		u = float64(s.Uint64()>>11) * 0x1p-53
	}
	v := float64(s.Uint64()>>11) * 0x1p-53
	r := math.Sqrt(-2 * math.Log(u))
	sin, cos := math.Sincos(2 * math.Pi * v)
	s.spare = r * sin
	s.hasSpare = true
	return r * cos
}

// GaussianTorus draws a discrete-Gaussian torus element with the given
// standard deviation, expressed as a fraction of the torus.
func (s *Sampler) GaussianTorus(stdDev float64) Torus {
	return Torus(int64(math.RoundToEven(s.normFloat64() * stdDev * 0x1p64)))
}

// FillGaussian fills v with discrete-Gaussian torus elements.
func (s *Sampler) FillGaussian(v []Torus, stdDev float64) {
	for i := range v {
		v[i] = s.GaussianTorus(stdDev)
	}
}
