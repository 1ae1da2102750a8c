package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gnaw.dev/pkg/gnaw/internal/adapter"
	"gnaw.dev/pkg/gnaw/internal/domain"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

var runParallelFlag int
var runTimeoutFlag time.Duration
var runMutationsFlag []string
var runVerboseFlag bool

// runCmd represents the run command. It is assigned in init rather than at
// declaration to avoid an initialization cycle with mutationTimeout.
var runCmd *cobra.Command

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [path]",
		Short: "Run mutation testing",
		Long: `Run mutation testing for the module containing the given path
(default: current directory).

The tree is first tested unmutated; if that baseline fails, no mutants are
tried. Every cataloged mutant is then built and tested in its own temporary
copy and classified as caught, survived, unviable or timeout.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger("", runVerboseFlag)

			categories, err := parseCategories(viper.GetStringSlice(mutationsConfigKey))
			if err != nil {
				return err
			}

			runner := adapter.NewLocalTrialRunnerAdapter(
				adapter.WithCommands(
					splitCommand(viper.GetString(buildCommandConfigKey)),
					splitCommand(viper.GetString(testCommandConfigKey)),
				),
				adapter.WithTimeout(mutationTimeout()),
			)

			console := selectUI()
			if err := console.Start(); err != nil {
				return err
			}
			defer console.Close()

			lab := domain.NewLab(fsAdapter, runner, discoverer, reportStore, console)

			result, err := lab.Run(cmd.Context(), domain.RunArgs{
				Root:       parseRootPath(args),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Categories: categories,
				Threads:    viper.GetInt(parallelConfigKey),
				Reports:    m.Path(viper.GetString(outputFlagName)),
			})
			if err != nil {
				return err
			}

			return verdictFor(result)
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	runCmd = newRunCmd()
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)

	cmd.Flags().DurationVar(&runTimeoutFlag, timeoutFlagName, defaultMutationTimeout, "per-mutant timeout covering build and test together")
	cmd.Flags().StringSliceVar(&runMutationsFlag, "mutations", viper.GetStringSlice(mutationsConfigKey), "mutation categories to apply (funcbody, comparison, arithmetic, boolean)")
	bindFlagToConfig(cmd.Flags().Lookup("mutations"), mutationsConfigKey)

	cmd.Flags().BoolVarP(&runVerboseFlag, "verbose", "v", false, "log at debug level")
}

// mutationTimeout resolves the per-mutant timeout, preferring the flag when
// set and falling back to run.mutation_timeout (seconds) from config.
func mutationTimeout() time.Duration {
	if runCmd.Flags().Changed(timeoutFlagName) {
		return runTimeoutFlag
	}

	seconds := viper.GetInt64(timeoutConfigKey)
	if seconds <= 0 {
		return defaultMutationTimeout
	}

	return time.Duration(seconds) * time.Second
}

func splitCommand(command string) []string {
	return strings.Fields(command)
}

// verdictFor turns a completed run into the exit verdict. Survivors and
// timeouts are not execution errors, but CI needs to see them in the code.
func verdictFor(result domain.RunResult) error {
	switch result.Status {
	case m.RunFoundSurvivors:
		return verdictError{
			code: exitFoundSurvivors,
			msg:  fmt.Sprintf("%d mutant(s) survived", result.Summary.Survived),
		}
	case m.RunTimeouts:
		return verdictError{
			code: exitTimeouts,
			msg:  fmt.Sprintf("%d mutant(s) timed out", result.Summary.Timeout),
		}
	default:
		return nil
	}
}
