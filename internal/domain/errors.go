// Package domain contains the core mutation testing engine: site discovery,
// the mutant catalog, trial orchestration and outcome classification.
package domain

import "errors"

// Setup-phase and run-level sentinel errors. Per-mutant problems are never
// errors; they become outcomes. Only these abort a run.
var (
	// ErrDiscovery marks a fatal discovery failure, typically a file that
	// cannot be parsed. A tree that cannot be parsed cannot be safely
	// mutated.
	ErrDiscovery = errors.New("discovery failed")

	// ErrBaselineFailed means the unmutated tree does not build and pass its
	// tests; mutation results would be meaningless.
	ErrBaselineFailed = errors.New("baseline build/test failed on the unmutated tree")

	// ErrToolMissing means the build/test tool could not be launched at all.
	ErrToolMissing = errors.New("build/test tool could not be launched")

	// ErrInfrastructure marks persistent per-trial environment breakage
	// (copies failing, processes that cannot start) escalated to run level.
	ErrInfrastructure = errors.New("trial infrastructure failure")
)
