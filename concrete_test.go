// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testLiteral is a tiny parameter set with no security claim, sized so the
// full bootstrap path runs fast under -race. The noise levels keep every
// decoding margin at several hundred standard deviations.
var testLiteral = ParametersLiteral{
	LweDimension:   32,
	GlweDimension:  1,
	PolyDegree:     64,
	PbsBaseLog:     8,
	PbsLevel:       3,
	KsBaseLog:      4,
	KsLevel:        6,
	LweStdDev:      0x1p-25,
	GlweStdDev:     0x1p-40,
	MessageModulus: 4,
}

func testParams(t *testing.T, lit ParametersLiteral) Parameters {
	t.Helper()
	params, err := NewParametersFromLiteral(lit)
	require.NoError(t, err)
	return params
}

// testPRNG returns a fixed-seed deterministic PRNG so failures reproduce.
func testPRNG(t *testing.T) PRNG {
	t.Helper()
	prng, err := NewKeyedPRNG([]byte("concrete test vectors"))
	require.NoError(t, err)
	return prng
}

func TestParametersValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*ParametersLiteral)
	}{
		{"ZeroLweDimension", func(l *ParametersLiteral) { l.LweDimension = 0 }},
		{"ZeroGlweDimension", func(l *ParametersLiteral) { l.GlweDimension = 0 }},
		{"NonPowerOfTwoDegree", func(l *ParametersLiteral) { l.PolyDegree = 48 }},
		{"DegreeTooSmall", func(l *ParametersLiteral) { l.PolyDegree = 4 }},
		{"ZeroPbsLevel", func(l *ParametersLiteral) { l.PbsLevel = 0 }},
		{"PbsOverflow", func(l *ParametersLiteral) { l.PbsBaseLog = 32; l.PbsLevel = 3 }},
		{"KsOverflow", func(l *ParametersLiteral) { l.KsBaseLog = 16; l.KsLevel = 5 }},
		{"ZeroStdDev", func(l *ParametersLiteral) { l.LweStdDev = 0 }},
		{"StdDevTooLarge", func(l *ParametersLiteral) { l.GlweStdDev = 1.5 }},
		{"MessageModulusOdd", func(l *ParametersLiteral) { l.MessageModulus = 3 }},
		{"MessageModulusOne", func(l *ParametersLiteral) { l.MessageModulus = 1 }},
		{"MessageModulusAboveDegree", func(l *ParametersLiteral) { l.MessageModulus = 256 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lit := testLiteral
			tc.mutate(&lit)
			_, err := NewParametersFromLiteral(lit)
			require.ErrorIs(t, err, ErrParameters)
		})
	}

	t.Run("Presets", func(t *testing.T) {
		for _, ps := range AllParameterSets() {
			params, err := NewParametersFromLiteral(ps.Literal)
			require.NoError(t, err, ps.Name)
			require.Equal(t, ps.Literal, params.Literal())
		}
	})
}

func TestParameterSetLookup(t *testing.T) {
	ps, ok := GetParameterSet("BOOLEAN_128")
	require.True(t, ok)
	require.Equal(t, Security128, ps.Security)

	_, ok = GetParameterSet("NO_SUCH_SET")
	require.False(t, ok)
}
