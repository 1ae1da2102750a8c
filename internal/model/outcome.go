package model

import "time"

// Outcome is the classified meaning of one mutant's trial.
type Outcome string

const (
	// OutcomeUnviable means the mutant failed to build. Not a coverage gap.
	OutcomeUnviable Outcome = "unviable"
	// OutcomeCaught means at least one test failed: the suite noticed.
	OutcomeCaught Outcome = "caught"
	// OutcomeSurvived means the build and all tests passed: the finding of
	// interest, code the suite does not actually exercise.
	OutcomeSurvived Outcome = "survived"
	// OutcomeTimeout means the trial hit the ceiling. Inconclusive, reported
	// separately rather than counted as caught.
	OutcomeTimeout Outcome = "timeout"
)

// MutantOutcome attaches a terminal outcome to a mutant, with the diff and a
// bounded excerpt of the trial output for the report.
type MutantOutcome struct {
	Mutant  Mutant
	Outcome Outcome
	Diff    string
	Output  string
	Elapsed time.Duration
}

// Summary aggregates outcome counts for a whole run.
type Summary struct {
	Total    int
	Caught   int
	Survived int
	Unviable int
	Timeout  int
}

// Add records one outcome in the summary.
func (s *Summary) Add(o Outcome) {
	s.Total++

	switch o {
	case OutcomeCaught:
		s.Caught++
	case OutcomeSurvived:
		s.Survived++
	case OutcomeUnviable:
		s.Unviable++
	case OutcomeTimeout:
		s.Timeout++
	}
}

// Score returns the mutation score: caught over caught+survived. Unviable
// and timed-out mutants carry no adequacy signal and are excluded from the
// denominator.
func (s Summary) Score() float64 {
	scored := s.Caught + s.Survived
	if scored == 0 {
		return 1.0
	}

	return float64(s.Caught) / float64(scored)
}

// RunStatus is the run-level terminal state the CLI maps to an exit code.
type RunStatus int

const (
	// RunClean means every mutant was caught, unviable, or timed out with no
	// survivors.
	RunClean RunStatus = iota
	// RunFoundSurvivors means one or more mutants survived.
	RunFoundSurvivors
	// RunTimeouts means no survivors, but at least one trial timed out.
	RunTimeouts
	// RunAborted means the run stopped before producing trustworthy results
	// (red baseline, parse failure, broken environment).
	RunAborted
)

// StatusOf derives the run-level status from a summary.
func StatusOf(s Summary) RunStatus {
	switch {
	case s.Survived > 0:
		return RunFoundSurvivors
	case s.Timeout > 0:
		return RunTimeouts
	default:
		return RunClean
	}
}
