package domain

import (
	"fmt"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// Classify maps one mutant trial's raw result, together with the
// pre-established baseline, to an outcome. It is a pure function: the same
// (result, baseline) pair always yields the same outcome.
//
//	build fails        -> Unviable
//	builds, tests pass -> Survived
//	builds, tests fail -> Caught
//	timeout            -> Timeout
func Classify(baseline m.Baseline, result m.TrialResult) (m.Outcome, error) {
	if !baseline.Passed() {
		return "", ErrBaselineFailed
	}

	switch {
	case result.TimedOut || result.State == m.TrialTimedOut:
		return m.OutcomeTimeout, nil

	case result.State != m.TrialCompleted:
		return "", fmt.Errorf("cannot classify trial in state %d", result.State)

	case !result.BuildOK:
		return m.OutcomeUnviable, nil

	case result.TestsOK:
		return m.OutcomeSurvived, nil

	default:
		return m.OutcomeCaught, nil
	}
}
