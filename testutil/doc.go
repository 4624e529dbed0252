// Package testutil provides deterministic helpers for tests: a seeded
// thread-safe RNG, column generators and reusable validators.
package testutil
