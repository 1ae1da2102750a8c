//go:build unix

package adapter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// shellRunner builds a runner whose stages are small shell scripts, so the
// full launch/observe/kill path is exercised without a Go toolchain.
func shellRunner(build, test string, options ...TrialRunnerOption) *LocalTrialRunnerAdapter {
	base := []TrialRunnerOption{
		WithCommands([]string{"/bin/sh", "-c", build}, []string{"/bin/sh", "-c", test}),
		WithTimeout(30 * time.Second),
	}

	return NewLocalTrialRunnerAdapter(append(base, options...)...)
}

func TestRunTrialBothStagesPass(t *testing.T) {
	runner := shellRunner("echo building", "echo testing")

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialCompleted, result.State)
	assert.Equal(t, m.StageTest, result.Stage)
	assert.True(t, result.BuildOK)
	assert.True(t, result.TestsOK)
	assert.False(t, result.TimedOut)
	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Output, "building")
	assert.Contains(t, result.Output, "testing")
	assert.Greater(t, result.Elapsed, time.Duration(0))
}

func TestRunTrialBuildFailureSkipsTests(t *testing.T) {
	runner := shellRunner("echo compile error >&2; exit 2", "echo should not run")

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialCompleted, result.State)
	assert.Equal(t, m.StageBuild, result.Stage)
	assert.False(t, result.BuildOK)
	assert.False(t, result.TestsOK)
	assert.Equal(t, 2, result.ExitCode)
	assert.Contains(t, result.Output, "compile error")
	assert.NotContains(t, result.Output, "should not run")
}

func TestRunTrialTestFailure(t *testing.T) {
	runner := shellRunner("true", "echo FAIL: TestX; exit 1")

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialCompleted, result.State)
	assert.Equal(t, m.StageTest, result.Stage)
	assert.True(t, result.BuildOK)
	assert.False(t, result.TestsOK)
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Output, "FAIL: TestX")
}

func TestRunTrialTimeoutKillsProcessTree(t *testing.T) {
	runner := shellRunner("true", "sleep 30", WithTimeout(200*time.Millisecond))

	start := time.Now()
	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialTimedOut, result.State)
	assert.True(t, result.TimedOut)
	assert.Less(t, time.Since(start), 10*time.Second, "kill must not wait for the sleep")
}

func TestRunTrialTimeoutCoversBothStages(t *testing.T) {
	// The build alone nearly exhausts the ceiling; the test stage must not
	// get a fresh allowance.
	runner := shellRunner("sleep 30", "true", WithTimeout(200*time.Millisecond))

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialTimedOut, result.State)
	assert.Equal(t, m.StageBuild, result.Stage)
}

func TestRunTrialLaunchFailure(t *testing.T) {
	runner := NewLocalTrialRunnerAdapter(
		WithCommands([]string{"/nonexistent/tool-that-is-not-there"}, []string{"true"}),
	)

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.Equal(t, m.TrialLaunchFailed, result.State)
	assert.NotEmpty(t, result.Output)
}

func TestRunTrialOutputIsBounded(t *testing.T) {
	runner := shellRunner("echo build stage output", `i=0; while [ $i -lt 5000 ]; do echo "line of filler output $i"; i=$((i+1)); done`,
		WithMaxOutput(1024))

	result := runner.RunTrial(context.Background(), m.Path(t.TempDir()))

	assert.True(t, result.TestsOK)
	assert.LessOrEqual(t, len(result.Output), 1024+len("\n... (output truncated)"))
	assert.True(t, strings.HasSuffix(result.Output, "(output truncated)"))
}

func TestBoundedBuffer(t *testing.T) {
	buf := newBoundedBuffer(8)

	n, err := buf.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = buf.Write([]byte("ghijkl"))
	require.NoError(t, err)
	assert.Equal(t, 6, n, "writes past capacity still report full consumption")

	assert.Equal(t, "abcdefgh", buf.String())
}

func TestTruncateOutput(t *testing.T) {
	assert.Equal(t, "short", truncateOutput("short", 10))
	assert.Equal(t, "0123456789\n... (output truncated)", truncateOutput("0123456789extra", 10))
}
