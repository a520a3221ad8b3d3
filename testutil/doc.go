// Package testutil provides testing utilities for sieve.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random source and generators for
// synthetic deal records with nullable columns.
//
// # Random Records
//
//	rng := testutil.NewRNG(seed)
//	deals := rng.Deals(10_000)
//
// # Skewed Values
//
//	book := rng.Zipf(50, 1.5) // a few books hold most deals
package testutil
