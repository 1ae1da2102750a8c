package adapter

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// DefaultMaxTrialOutput bounds the combined stdout/stderr kept per trial so
// thousands of trials cannot grow memory without limit.
const DefaultMaxTrialOutput = 128 * 1024

// killGracePeriod is how long after the timeout kill the runner waits for
// the process tree to release its pipes before giving up on output.
const killGracePeriod = 5 * time.Second

// TrialRunnerAdapter drives the build/test tool against one isolated tree
// copy. It executes and observes; judging the result is the classifier's job.
type TrialRunnerAdapter interface {
	// RunTrial runs the build stage and, if it succeeds, the test stage,
	// rooted at workDir, under the configured timeout ceiling.
	RunTrial(ctx context.Context, workDir m.Path) m.TrialResult
}

// LocalTrialRunnerAdapter runs the local go toolchain (or a configured
// equivalent) via os/exec.
type LocalTrialRunnerAdapter struct {
	buildArgv []string
	testArgv  []string
	timeout   time.Duration
	maxOutput int
}

// TrialRunnerOption customizes a LocalTrialRunnerAdapter.
type TrialRunnerOption func(*LocalTrialRunnerAdapter)

// WithCommands overrides the build and test argument vectors.
func WithCommands(build, test []string) TrialRunnerOption {
	return func(a *LocalTrialRunnerAdapter) {
		if len(build) > 0 {
			a.buildArgv = build
		}

		if len(test) > 0 {
			a.testArgv = test
		}
	}
}

// WithTimeout sets the per-trial timeout ceiling.
func WithTimeout(timeout time.Duration) TrialRunnerOption {
	return func(a *LocalTrialRunnerAdapter) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithMaxOutput caps the captured combined output per trial.
func WithMaxOutput(limit int) TrialRunnerOption {
	return func(a *LocalTrialRunnerAdapter) {
		if limit > 0 {
			a.maxOutput = limit
		}
	}
}

// NewLocalTrialRunnerAdapter constructs a runner with go build/test defaults
// and a 2 minute ceiling.
func NewLocalTrialRunnerAdapter(options ...TrialRunnerOption) *LocalTrialRunnerAdapter {
	a := &LocalTrialRunnerAdapter{
		buildArgv: []string{"go", "build", "./..."},
		testArgv:  []string{"go", "test", "./..."},
		timeout:   2 * time.Minute,
		maxOutput: DefaultMaxTrialOutput,
	}

	for _, option := range options {
		option(a)
	}

	return a
}

// RunTrial runs build then test in workDir. The timeout covers both stages
// together so a mutant cannot stretch the ceiling by being slow to compile.
func (a *LocalTrialRunnerAdapter) RunTrial(ctx context.Context, workDir m.Path) m.TrialResult {
	trialCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()

	result := m.TrialResult{State: m.TrialRunning, Stage: m.StageBuild}

	exitCode, out, err := a.runStage(trialCtx, workDir, a.buildArgv)
	result.Output = out
	result.ExitCode = exitCode

	if state, done := a.resolveStage(trialCtx, err, &result); done {
		result.State = state
		result.Elapsed = time.Since(start)

		return result
	}

	result.BuildOK = exitCode == 0
	if !result.BuildOK {
		result.State = m.TrialCompleted
		result.Elapsed = time.Since(start)

		return result
	}

	result.Stage = m.StageTest

	exitCode, out, err = a.runStage(trialCtx, workDir, a.testArgv)
	result.Output = truncateOutput(result.Output+out, a.maxOutput)
	result.ExitCode = exitCode

	if state, done := a.resolveStage(trialCtx, err, &result); done {
		result.State = state
		result.Elapsed = time.Since(start)

		return result
	}

	result.TestsOK = exitCode == 0
	result.State = m.TrialCompleted
	result.Elapsed = time.Since(start)

	return result
}

// resolveStage folds a stage error into the trial result. It reports done
// when the trial cannot continue (timeout or launch failure).
func (a *LocalTrialRunnerAdapter) resolveStage(ctx context.Context, err error, result *m.TrialResult) (m.TrialState, bool) {
	if err == nil {
		return m.TrialRunning, false
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		return m.TrialTimedOut, true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Non-zero exit is a normal observation, not a launch failure.
		return m.TrialRunning, false
	}

	result.Output = truncateOutput(result.Output+"\n"+err.Error(), a.maxOutput)

	return m.TrialLaunchFailed, true
}

// runStage executes one argv rooted at dir, killing the whole process group
// if the context expires so no straggler outlives the trial.
func (a *LocalTrialRunnerAdapter) runStage(ctx context.Context, dir m.Path, argv []string) (int, string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = string(dir)
	cmd.WaitDelay = killGracePeriod

	buf := newBoundedBuffer(a.maxOutput)
	cmd.Stdout = buf
	cmd.Stderr = buf

	configureProcessGroup(cmd)
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}

	slog.Debug("running trial stage", "dir", dir, "argv", argv)

	err := cmd.Run()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	return exitCode, buf.String(), err
}

// truncateOutput keeps the head of oversized output with a marker, since the
// first compiler or test failure is usually at the top.
func truncateOutput(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "\n... (output truncated)"
}

// boundedBuffer is an io.Writer that silently drops bytes past its capacity.
// Safe for the concurrent writes os/exec performs for stdout and stderr.
type boundedBuffer struct {
	mu    sync.Mutex
	buf   []byte
	limit int
}

func newBoundedBuffer(limit int) *boundedBuffer {
	return &boundedBuffer{limit: limit}
}

// Write appends p up to the buffer's capacity and always reports full
// consumption so the child process never sees a write error.
func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if remaining := b.limit - len(b.buf); remaining > 0 {
		if len(p) > remaining {
			b.buf = append(b.buf, p[:remaining]...)
		} else {
			b.buf = append(b.buf, p...)
		}
	}

	return len(p), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.buf)
}
