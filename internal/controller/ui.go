// Package controller provides output adapters for displaying mutation
// testing progress and results.
package controller

import (
	"time"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// UI receives push-style events from the engine, one per completed trial.
// Implementations can render a plain console stream or a live TUI; nothing
// ever flows back into the core.
type UI interface {
	Start() error
	Close()

	// DisplayRunInfo announces the size and concurrency of the run.
	DisplayRunInfo(mutants, threads int)

	// BaselineStarted/BaselineCompleted bracket the unmutated-tree trial.
	BaselineStarted()
	BaselineCompleted(elapsed time.Duration, passed bool)

	// TrialStarted and TrialCompleted fire per mutant trial; completion
	// order need not match catalog order.
	TrialStarted(mutant m.Mutant)
	TrialCompleted(mutant m.Mutant, outcome m.Outcome, elapsed time.Duration)

	// DisplaySummary renders the final aggregated report in catalog order.
	DisplaySummary(summary m.Summary, survivors []m.MutantOutcome, partial bool)

	// DisplayList renders the catalog without running trials.
	DisplayList(mutants []m.Mutant, showDiff bool, diffs map[string]string) error
}
