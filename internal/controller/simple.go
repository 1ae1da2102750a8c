package controller

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// Outcome styles shared by the console and TUI renderers.
var (
	caughtStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	survivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	unviableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timeoutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

func styleOutcome(outcome m.Outcome) string {
	switch outcome {
	case m.OutcomeCaught:
		return caughtStyle.Render(string(outcome))
	case m.OutcomeSurvived:
		return survivedStyle.Render(string(outcome))
	case m.OutcomeUnviable:
		return unviableStyle.Render(string(outcome))
	case m.OutcomeTimeout:
		return timeoutStyle.Render(string(outcome))
	default:
		return string(outcome)
	}
}

// SimpleUI renders one line per event to a writer. It is the non-TTY and
// single-threaded debugging renderer.
type SimpleUI struct {
	out io.Writer
}

// NewSimpleUI creates a SimpleUI writing to out.
func NewSimpleUI(out io.Writer) *SimpleUI {
	return &SimpleUI{out: out}
}

// Start initializes the UI.
func (s *SimpleUI) Start() error { return nil }

// Close finalizes the UI.
func (s *SimpleUI) Close() {}

// DisplayRunInfo announces the run size and worker count.
func (s *SimpleUI) DisplayRunInfo(mutants, threads int) {
	s.printf("Trying %d mutants with %d worker(s)\n", mutants, threads)
}

// BaselineStarted announces the unmutated-tree trial.
func (s *SimpleUI) BaselineStarted() {
	s.printf("Verifying baseline (unmutated tree)...\n")
}

// BaselineCompleted reports the baseline verdict.
func (s *SimpleUI) BaselineCompleted(elapsed time.Duration, passed bool) {
	if passed {
		s.printf("Baseline ok in %s\n", elapsed.Round(time.Millisecond))
		return
	}

	s.printf("Baseline FAILED in %s\n", elapsed.Round(time.Millisecond))
}

// TrialStarted announces one mutant trial.
func (s *SimpleUI) TrialStarted(mutant m.Mutant) {
	s.printf("  trying %s: %s\n", mutant.ID[:8], mutant.Description)
}

// TrialCompleted reports one mutant trial's outcome.
func (s *SimpleUI) TrialCompleted(mutant m.Mutant, outcome m.Outcome, elapsed time.Duration) {
	s.printf("  %s %s:%d %s (%s)\n",
		styleOutcome(outcome),
		mutant.Site.File.Path, mutant.Site.Span.Line,
		mutant.Description,
		elapsed.Round(time.Millisecond),
	)
}

// DisplaySummary renders the aggregate table, the mutation score, and every
// survivor's diff.
func (s *SimpleUI) DisplaySummary(summary m.Summary, survivors []m.MutantOutcome, partial bool) {
	if partial {
		s.printf("\n%s\n", headerStyle.Render("Run stopped early; partial results:"))
	}

	s.printf("\n%s", renderSummaryTable(summary))
	s.printf("Mutation score: %.1f%%\n", summary.Score()*100)

	for _, survivor := range survivors {
		s.printf("\n%s %s\n", survivedStyle.Render("SURVIVED"), survivor.Mutant.Description)
		s.printf("%s\n", survivor.Diff)
	}
}

// DisplayList renders the catalog without outcomes.
func (s *SimpleUI) DisplayList(mutants []m.Mutant, showDiff bool, diffs map[string]string) error {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Line", "Category", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, mutant := range mutants {
		table.Append([]string{
			string(mutant.Site.File.Path),
			fmt.Sprintf("%d", mutant.Site.Span.Line),
			string(mutant.Site.Category),
			mutant.Description,
		})
	}

	table.SetFooter([]string{"", "", "Total", fmt.Sprintf("%d", len(mutants))})
	table.Render()

	s.printf("%s", buf.String())

	if showDiff {
		for _, mutant := range mutants {
			if diff, ok := diffs[mutant.ID]; ok {
				s.printf("\n%s\n%s", mutant.Description, diff)
			}
		}
	}

	return nil
}

func renderSummaryTable(summary m.Summary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Outcome", "Count"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	table.Append([]string{"caught", fmt.Sprintf("%d", summary.Caught)})
	table.Append([]string{"survived", fmt.Sprintf("%d", summary.Survived)})
	table.Append([]string{"unviable", fmt.Sprintf("%d", summary.Unviable)})
	table.Append([]string{"timeout", fmt.Sprintf("%d", summary.Timeout)})
	table.SetFooter([]string{"total", fmt.Sprintf("%d", summary.Total)})
	table.Render()

	return buf.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
