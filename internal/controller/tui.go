package controller

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// TUI renders a live progress view with Bubble Tea while trials run, then
// falls back to the plain renderer for the final summary once the program
// has released the terminal.
type TUI struct {
	out      io.Writer
	plain    *SimpleUI
	program  *tea.Program
	done     chan struct{}
	quitOnce sync.Once
}

// NewTUI creates a TUI writing to out.
func NewTUI(out io.Writer) *TUI {
	return &TUI{
		out:   out,
		plain: NewSimpleUI(out),
		done:  make(chan struct{}),
	}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start() error {
	t.program = tea.NewProgram(newProgressModel(), tea.WithOutput(t.out))

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			// Degrade silently; events still reach the plain summary.
			_ = err
		}
	}()

	return nil
}

// Close quits the progress program and waits for it to release the terminal.
func (t *TUI) Close() {
	if t.program == nil {
		return
	}

	t.quitOnce.Do(func() {
		t.program.Send(quitMsg{})
	})

	<-t.done
}

// DisplayRunInfo announces the run size and worker count.
func (t *TUI) DisplayRunInfo(mutants, threads int) {
	t.send(runInfoMsg{mutants: mutants, threads: threads})
}

// BaselineStarted announces the unmutated-tree trial.
func (t *TUI) BaselineStarted() {
	t.send(baselineStartedMsg{})
}

// BaselineCompleted reports the baseline verdict.
func (t *TUI) BaselineCompleted(elapsed time.Duration, passed bool) {
	t.send(baselineCompletedMsg{elapsed: elapsed, passed: passed})
}

// TrialStarted announces one mutant trial.
func (t *TUI) TrialStarted(mutant m.Mutant) {
	t.send(trialStartedMsg{description: mutant.Description})
}

// TrialCompleted advances the progress bar by one trial.
func (t *TUI) TrialCompleted(mutant m.Mutant, outcome m.Outcome, elapsed time.Duration) {
	t.send(trialCompletedMsg{
		line:    fmt.Sprintf("%s %s:%d %s (%s)", styleOutcome(outcome), mutant.Site.File.Path, mutant.Site.Span.Line, mutant.Description, elapsed.Round(time.Millisecond)),
		outcome: outcome,
	})
}

// DisplaySummary closes the live view and prints the plain summary.
func (t *TUI) DisplaySummary(summary m.Summary, survivors []m.MutantOutcome, partial bool) {
	t.Close()
	t.plain.DisplaySummary(summary, survivors, partial)
}

// DisplayList renders the catalog table; no live view is needed for a
// trial-less listing.
func (t *TUI) DisplayList(mutants []m.Mutant, showDiff bool, diffs map[string]string) error {
	return t.plain.DisplayList(mutants, showDiff, diffs)
}

func (t *TUI) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

type (
	runInfoMsg           struct{ mutants, threads int }
	baselineStartedMsg   struct{}
	baselineCompletedMsg struct {
		elapsed time.Duration
		passed  bool
	}
	trialStartedMsg   struct{ description string }
	trialCompletedMsg struct {
		line    string
		outcome m.Outcome
	}
	quitMsg struct{}
)

// progressModel is the Bubble Tea model for the live run view.
type progressModel struct {
	spinner   spinner.Model
	bar       progress.Model
	total     int
	completed int
	threads   int
	baseline  string
	current   string
	recent    []string
	summary   m.Summary
}

const recentLines = 8

func newProgressModel() progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return progressModel{
		spinner:  s,
		bar:      progress.New(progress.WithDefaultGradient()),
		baseline: "waiting for baseline",
	}
}

// Init starts the spinner tick loop.
func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

// Update folds engine events into the view state.
func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quitMsg:
		return pm, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return pm, tea.Quit
		}

		return pm, nil

	case runInfoMsg:
		pm.total = msg.mutants
		pm.threads = msg.threads

		return pm, nil

	case baselineStartedMsg:
		pm.baseline = "verifying baseline"
		return pm, nil

	case baselineCompletedMsg:
		if msg.passed {
			pm.baseline = fmt.Sprintf("baseline ok (%s)", msg.elapsed.Round(time.Millisecond))
		} else {
			pm.baseline = "baseline FAILED"
		}

		return pm, nil

	case trialStartedMsg:
		pm.current = msg.description
		return pm, nil

	case trialCompletedMsg:
		pm.completed++
		pm.summary.Add(msg.outcome)

		pm.recent = append(pm.recent, msg.line)
		if len(pm.recent) > recentLines {
			pm.recent = pm.recent[len(pm.recent)-recentLines:]
		}

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd

	default:
		return pm, nil
	}
}

// View renders the progress bar, counters and the last few trial lines.
func (pm progressModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("gnaw mutation testing"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n", pm.spinner.View(), pm.baseline))

	if pm.total > 0 {
		b.WriteString(pm.bar.ViewAs(float64(pm.completed) / float64(pm.total)))
		b.WriteString(fmt.Sprintf("\n%d/%d trials, %d worker(s)  caught:%d survived:%d unviable:%d timeout:%d\n",
			pm.completed, pm.total, pm.threads,
			pm.summary.Caught, pm.summary.Survived, pm.summary.Unviable, pm.summary.Timeout))
	}

	if pm.current != "" {
		b.WriteString(fmt.Sprintf("current: %s\n", pm.current))
	}

	for _, line := range pm.recent {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
