// Package testutil provides testing utilities for memcore.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for the
// allocation workloads the pool and tree tests replay.
//
// # Random Source
//
//	rng := testutil.NewRNG(seed)
//	perm := rng.Perm(1000)   // insertion order for tree tests
//	rng.FillBytes(buf)       // payload for byte slots
//
// # Churn Workloads
//
//	ops := rng.ChurnOps(10_000, 0.4)
//	for _, op := range ops {
//		if op.Free { ... } else { ... }
//	}
package testutil
