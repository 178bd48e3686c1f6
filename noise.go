// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// NoiseStats summarizes the decryption error of a batch of ciphertexts, in
// torus units (fractions of a full turn). Useful for calibrating parameter
// sets and for regression-testing noise growth; it requires the secret key
// and has no place on an evaluation path.
type NoiseStats struct {
	Mean   float64
	Median float64
	StdDev float64
	MaxAbs float64
}

// MeasureLweNoise decrypts each ciphertext and compares its phase against
// the expected plaintext. cts and pts must pair up by index.
func MeasureLweNoise(dec *Decryptor, cts []*LweCiphertext, pts []Torus) (NoiseStats, error) {
	if len(cts) != len(pts) {
		return NoiseStats{}, fmt.Errorf("%w: %d ciphertexts, %d plaintexts", ErrDimension, len(cts), len(pts))
	}
	if len(cts) == 0 {
		return NoiseStats{}, fmt.Errorf("%w: empty batch", ErrParameters)
	}

	errs := make([]float64, len(cts))
	maxAbs := 0.0
	for i, ct := range cts {
		phase, err := dec.LwePhase(ct)
		if err != nil {
			return NoiseStats{}, err
		}
		e := (phase - pts[i]).CenteredFloat()
		errs[i] = e
		if a := math.Abs(e); a > maxAbs {
			maxAbs = a
		}
	}

	mean, err := stats.Mean(errs)
	if err != nil {
		return NoiseStats{}, err
	}
	median, err := stats.Median(errs)
	if err != nil {
		return NoiseStats{}, err
	}
	stdDev, err := stats.StandardDeviation(errs)
	if err != nil {
		return NoiseStats{}, err
	}

	return NoiseStats{Mean: mean, Median: median, StdDev: stdDev, MaxAbs: maxAbs}, nil
}
