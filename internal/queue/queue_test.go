// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJobValidate(t *testing.T) {
	testCases := []struct {
		name string
		job  Job
		ok   bool
	}{
		{"And", Job{ID: "j1", Op: OpAnd, Inputs: []string{"a", "b"}}, true},
		{"Not", Job{ID: "j2", Op: OpNot, Inputs: []string{"a"}}, true},
		{"Mux", Job{ID: "j3", Op: OpMux, Inputs: []string{"s", "a", "b"}}, true},
		{"Refresh", Job{ID: "j4", Op: OpRefresh, Inputs: []string{"a"}}, true},
		{"MissingID", Job{Op: OpAnd, Inputs: []string{"a", "b"}}, false},
		{"UnknownOp", Job{ID: "j5", Op: "rotate", Inputs: []string{"a"}}, false},
		{"WrongArity", Job{ID: "j6", Op: OpAnd, Inputs: []string{"a"}}, false},
		{"NoInputs", Job{ID: "j7", Op: OpXor}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.job.Validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrBadJob)
			}
		})
	}
}
