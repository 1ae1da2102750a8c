package model

import "time"

// TrialState tracks a single trial through its lifecycle.
type TrialState int

const (
	// TrialPending means the trial has not started yet.
	TrialPending TrialState = iota
	// TrialRunning means the child process is executing.
	TrialRunning
	// TrialCompleted means the child process exited on its own.
	TrialCompleted
	// TrialTimedOut means the process tree was killed at the timeout ceiling.
	TrialTimedOut
	// TrialLaunchFailed means the child process could not be started at all.
	// This is an environment problem, never attributed to the mutant.
	TrialLaunchFailed
)

// TrialStage identifies which command a result belongs to.
type TrialStage string

const (
	// StageBuild is the compile step (`go build ./...` by default).
	StageBuild TrialStage = "build"
	// StageTest is the test step (`go test ./...` by default).
	StageTest TrialStage = "test"
)

// TrialResult is the raw observation from driving the build/test tool
// against one isolated tree copy. It carries no judgment; the classifier
// decides what it means.
type TrialResult struct {
	State TrialState
	// Stage is the last stage that ran.
	Stage TrialStage
	// BuildOK is true when the build stage exited zero.
	BuildOK bool
	// TestsOK is true when the test stage ran and exited zero.
	TestsOK  bool
	ExitCode int
	// Output is the combined stdout/stderr, truncated to a bounded size.
	Output   string
	Elapsed  time.Duration
	TimedOut bool
}

// Baseline is the trial result of the unmutated tree, computed exactly once
// before any mutant trial and threaded explicitly into classification.
type Baseline struct {
	Result TrialResult
}

// Passed reports whether the clean tree built and its tests passed. No
// mutant outcome can be trusted otherwise.
func (b Baseline) Passed() bool {
	return b.Result.State == TrialCompleted && b.Result.BuildOK && b.Result.TestsOK
}
