package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gnaw.dev/pkg/gnaw/internal/adapter"
	"gnaw.dev/pkg/gnaw/internal/controller"
	"gnaw.dev/pkg/gnaw/internal/domain"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

// Process exit codes. They encode the run verdict so CI gates can branch on
// the result without parsing output.
const (
	exitSuccess        = 0
	exitUsage          = 1
	exitFoundSurvivors = 2
	exitTimeouts       = 3
	exitBaselineFailed = 4
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var discoverer domain.Discoverer
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// noTUIFlag forces the plain line-oriented console renderer.
var noTUIFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	discoverer = domain.NewDiscoverer(goFileAdapter, fsAdapter)
}

// selectUI is deferred until after flag parsing so --no-tui is honored.
func selectUI() controller.UI {
	if ui != nil {
		return ui
	}

	tty := controller.IsTTY(os.Stdout) && !viper.GetBool(noTUIFlagName)
	ui = controller.NewUI(os.Stdout, tty)

	return ui
}

const rootLongDescription = `Gnaw is a mutation testing tool for Go that assesses the quality of your
test suite by introducing small changes (mutations) to your code and
verifying that your tests catch them.

Each mutant is built and tested in an isolated copy of the tree, so the
original sources are never modified.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gnaw",
		Short: "Go mutation testing tool",
		Long:  rootLongDescription,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVar(&noTUIFlag, noTUIFlagName, viper.GetBool(noTUIFlagName), "disable the live terminal view, print plain progress lines")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noTUIFlagName), noTUIFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// verdictError carries a non-zero exit code out of a command that ran to
// completion but whose result is itself the message (survivors, timeouts).
type verdictError struct {
	code int
	msg  string
}

func (e verdictError) Error() string { return e.msg }

// exitCodeFor maps a command error to the process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}

	var verdict verdictError
	if errors.As(err, &verdict) {
		return verdict.code
	}

	if errors.Is(err, domain.ErrBaselineFailed) {
		return exitBaselineFailed
	}

	return exitUsage
}

// signalContext returns a context canceled on SIGINT or SIGTERM. A canceled
// run stops launching trials, lets in-flight ones finish and still writes a
// partial report; only a second signal kills the process outright.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signalContext()

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func parseRootPath(args []string) m.Path {
	if len(args) == 0 {
		return m.Path(".")
	}

	return m.Path(args[0])
}

func parseCategories(names []string) ([]m.SiteCategory, error) {
	categories := make([]m.SiteCategory, 0, len(names))
	for _, name := range names {
		category, err := m.ParseCategory(name)
		if err != nil {
			return nil, err
		}

		categories = append(categories, category)
	}

	return categories, nil
}
