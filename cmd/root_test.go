package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnaw.dev/pkg/gnaw/internal/domain"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

func TestSignalContextCancelsCommandOnInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("sending an interrupt to the own process is not supported on windows")
	}

	ctx, stop := signalContext()
	defer stop()

	var got context.Context

	cmd := &cobra.Command{
		Use: "capture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			got = cmd.Context()
			return nil
		},
	}

	require.NoError(t, cmd.ExecuteContext(ctx))
	require.NotNil(t, got)
	require.NoError(t, got.Err())

	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(os.Interrupt))

	select {
	case <-got.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt did not cancel the command context")
	}
}

func TestExitCodeConstants(t *testing.T) {
	assert.Equal(t, 0, exitSuccess)
	assert.Equal(t, 1, exitUsage)
	assert.Equal(t, 2, exitFoundSurvivors)
	assert.Equal(t, 3, exitTimeouts)
	assert.Equal(t, 4, exitBaselineFailed)
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCodeFor(nil))
	assert.Equal(t, exitFoundSurvivors, exitCodeFor(verdictError{code: exitFoundSurvivors, msg: "2 mutant(s) survived"}))
	assert.Equal(t, exitTimeouts, exitCodeFor(verdictError{code: exitTimeouts, msg: "1 mutant(s) timed out"}))
	assert.Equal(t, exitBaselineFailed, exitCodeFor(fmt.Errorf("wrapped: %w", domain.ErrBaselineFailed)))
	assert.Equal(t, exitUsage, exitCodeFor(errors.New("unknown flag")))
	assert.Equal(t, exitUsage, exitCodeFor(domain.ErrDiscovery))
}

func TestParseRootPath(t *testing.T) {
	assert.Equal(t, m.Path("."), parseRootPath(nil))
	assert.Equal(t, m.Path("./pkg"), parseRootPath([]string{"./pkg"}))
}

func TestParseCategories(t *testing.T) {
	t.Run("valid names", func(t *testing.T) {
		categories, err := parseCategories([]string{"comparison", "boolean"})
		require.NoError(t, err)
		assert.Equal(t, []m.SiteCategory{m.SiteComparison, m.SiteBoolean}, categories)
	})

	t.Run("empty input means no filter", func(t *testing.T) {
		categories, err := parseCategories(nil)
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("unknown name is a usage error", func(t *testing.T) {
		_, err := parseCategories([]string{"comparison", "statements"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "statements")
	})
}

func TestRootCommandListsSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"run", "list", "init", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	for _, name := range []string{outputFlagName, excludeFlagName, noTUIFlagName} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing persistent flag %q", name)
	}

	assert.Equal(t, "o", rootCmd.PersistentFlags().Lookup(outputFlagName).Shorthand)
	assert.Equal(t, "x", rootCmd.PersistentFlags().Lookup(excludeFlagName).Shorthand)
}
