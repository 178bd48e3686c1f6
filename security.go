// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package concrete

// SecurityLevel is the estimated classical security of a parameter set, in
// bits, under the usual lattice cost models. The estimates are pinned at
// release time; re-run the estimator before trusting them for new
// deployments.
type SecurityLevel int

const (
	// SecurityNone marks test-only parameter sets with no security claim.
	SecurityNone SecurityLevel = 0
	// Security100 provides roughly 100-bit classical security.
	Security100 SecurityLevel = 100
	// Security128 provides roughly 128-bit classical security.
	Security128 SecurityLevel = 128
)

// ParameterSet pairs a named parameter literal with its security estimate
// and expected per-gate failure probability.
type ParameterSet struct {
	// Name identifies the set in configs and on the wire.
	Name string
	// Security is the estimated classical security level.
	Security SecurityLevel
	// FailureProb is the approximate log2 of the per-gate failure
	// probability under fresh-input noise.
	FailureProb int
	// Literal holds the scheme parameters.
	Literal ParametersLiteral
}

// Named parameter sets. Boolean128 is the recommended default for
// production boolean circuits; BooleanFast trades security margin for
// speed and suits tests and benchmarks.
var (
	ParamsBoolean128 = ParameterSet{
		Name:        "BOOLEAN_128",
		Security:    Security128,
		FailureProb: -40,
		Literal:     Boolean128,
	}

	ParamsBooleanFast = ParameterSet{
		Name:        "BOOLEAN_FAST",
		Security:    Security100,
		FailureProb: -40,
		Literal:     BooleanFast,
	}

	ParamsInteger4Fast = ParameterSet{
		Name:        "INTEGER4_FAST",
		Security:    Security100,
		FailureProb: -32,
		Literal:     Integer4Fast,
	}
)

// AllParameterSets returns every named parameter set.
func AllParameterSets() []ParameterSet {
	return []ParameterSet{
		ParamsBoolean128,
		ParamsBooleanFast,
		ParamsInteger4Fast,
	}
}

// GetParameterSet looks a parameter set up by name.
func GetParameterSet(name string) (ParameterSet, bool) {
	for _, ps := range AllParameterSets() {
		if ps.Name == name {
			return ps, true
		}
	}
	return ParameterSet{}, false
}
