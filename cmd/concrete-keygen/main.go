// Command concrete-keygen generates a secret key and the matching
// evaluation key set for a named parameter set and writes them to disk.
// The secret key file stays with the data owner; only the evaluation key
// file is distributed to workers.
//
// Copyright (c) 2025, The Concrete-Go Authors
// SPDX-License-Identifier: BSD-3-Clause
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AlexanderViand/concrete"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		paramsName = flag.String("params", "BOOLEAN_128", "parameter set name")
		outDir     = flag.String("out", ".", "output directory")
		list       = flag.Bool("list", false, "list parameter sets and exit")
	)
	flag.Parse()

	if *list {
		for _, ps := range concrete.AllParameterSets() {
			fmt.Printf("%-16s security=%d bits, failure=2^%d\n", ps.Name, ps.Security, ps.FailureProb)
		}
		return nil
	}

	ps, ok := concrete.GetParameterSet(*paramsName)
	if !ok {
		return fmt.Errorf("unknown parameter set %q (try -list)", *paramsName)
	}
	params, err := concrete.NewParametersFromLiteral(ps.Literal)
	if err != nil {
		return fmt.Errorf("parameters: %w", err)
	}

	log.Printf("generating keys for %s (n=%d, k=%d, N=%d)",
		ps.Name, params.LweDimension(), params.GlweDimension(), params.PolyDegree())

	kg := concrete.NewKeyGenerator(params, concrete.NewPRNG())
	sk := kg.GenSecretKey()
	keys := kg.GenEvaluationKeySet(sk)

	if err := writeKey(filepath.Join(*outDir, "secret.key"), sk, 0o600); err != nil {
		return err
	}
	return writeKey(filepath.Join(*outDir, "eval.keys"), keys, 0o644)
}

func writeKey(path string, key interface{ MarshalBinary() ([]byte, error) }, mode os.FileMode) error {
	data, err := key.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("wrote %s (%d bytes)", path, len(data))
	return nil
}
