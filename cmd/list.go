package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gnaw.dev/pkg/gnaw/internal/domain"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

var listDiffFlag bool
var listJSONFlag bool

// listEntry is the JSON shape of one catalog row for `list --json`.
type listEntry struct {
	ID          string `json:"id"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Category    string `json:"category"`
	Function    string `json:"function"`
	Description string `json:"description"`
	Diff        string `json:"diff,omitempty"`
}

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List the mutants that would be tried, without running anything",
		Long: `Enumerate every mutant gnaw would generate for the module containing the
given path (default: current directory). Nothing is built or tested.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger("", false)

			categories, err := parseCategories(viper.GetStringSlice(mutationsConfigKey))
			if err != nil {
				return err
			}

			lab := domain.NewLab(fsAdapter, nil, discoverer, reportStore, nil)

			mutants, err := lab.Catalog(cmd.Context(), domain.RunArgs{
				Root:       parseRootPath(args),
				Exclude:    viper.GetStringSlice(excludeConfigKey),
				Categories: categories,
			})
			if err != nil {
				return err
			}

			var diffs map[string]string
			if listDiffFlag {
				diffs, err = renderDiffs(mutants)
				if err != nil {
					return err
				}
			}

			if listJSONFlag {
				return printJSONCatalog(cmd, mutants, diffs)
			}

			return selectUI().DisplayList(mutants, listDiffFlag, diffs)
		},
	}

	cmd.Flags().BoolVar(&listDiffFlag, "diff", false, "include the unified diff of each mutant")
	cmd.Flags().BoolVar(&listJSONFlag, "json", false, "emit the catalog as JSON")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func renderDiffs(mutants []m.Mutant) (map[string]string, error) {
	diffs := make(map[string]string, len(mutants))
	for _, mutant := range mutants {
		diff, err := domain.MutantDiff(mutant)
		if err != nil {
			return nil, err
		}

		diffs[mutant.ID] = diff
	}

	return diffs, nil
}

func printJSONCatalog(cmd *cobra.Command, mutants []m.Mutant, diffs map[string]string) error {
	entries := make([]listEntry, 0, len(mutants))
	for _, mutant := range mutants {
		entries = append(entries, listEntry{
			ID:          mutant.ID,
			File:        string(mutant.Site.File.Path),
			Line:        mutant.Site.Span.Line,
			Column:      mutant.Site.Span.Column,
			Category:    string(mutant.Site.Category),
			Function:    mutant.Site.Enclosing,
			Description: mutant.Description,
			Diff:        diffs[mutant.ID],
		})
	}

	encoded, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	cmd.Println(string(encoded))

	return nil
}
