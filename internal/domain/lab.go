package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"gnaw.dev/pkg/gnaw/internal/adapter"
	"gnaw.dev/pkg/gnaw/internal/controller"
	m "gnaw.dev/pkg/gnaw/internal/model"
	pkg "gnaw.dev/pkg/gnaw/pkg"
)

// maxConsecutiveInfraFailures is how many trials in a row may fail for
// environmental reasons (copy failed, process would not start) before the
// run is declared broken rather than the mutants.
const maxConsecutiveInfraFailures = 3

// RunArgs carries the resolved configuration for one mutation testing run.
type RunArgs struct {
	Root       m.Path
	Exclude    []string
	Categories []m.SiteCategory
	Threads    int
	Reports    m.Path
}

// RunResult is the engine's final product: every mutant's terminal outcome
// in catalog order, plus aggregate counts and the run-level status.
type RunResult struct {
	Outcomes []m.MutantOutcome
	Summary  m.Summary
	Status   m.RunStatus
	// Partial is true when a stop request ended the run before every
	// catalog entry was tried.
	Partial bool
}

// Lab sequences baseline verification and drives trials across the whole
// catalog, managing concurrency and aggregating outcomes.
type Lab interface {
	// Run performs a full mutation testing run rooted at args.Root.
	Run(ctx context.Context, args RunArgs) (RunResult, error)

	// Catalog discovers sites and enumerates mutants without running trials.
	Catalog(ctx context.Context, args RunArgs) ([]m.Mutant, error)
}

type lab struct {
	fs          adapter.SourceFSAdapter
	runner      adapter.TrialRunnerAdapter
	discoverer  Discoverer
	reportStore adapter.ReportStore
	ui          controller.UI
}

// NewLab constructs the orchestrator from its collaborators.
func NewLab(
	fs adapter.SourceFSAdapter,
	runner adapter.TrialRunnerAdapter,
	discoverer Discoverer,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Lab {
	return &lab{
		fs:          fs,
		runner:      runner,
		discoverer:  discoverer,
		reportStore: reportStore,
		ui:          ui,
	}
}

// Catalog resolves the module root, discovers sites and builds the ordered
// mutant catalog.
func (l *lab) Catalog(ctx context.Context, args RunArgs) ([]m.Mutant, error) {
	root, err := l.fs.FindModuleRoot(args.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	categories := args.Categories
	if len(categories) == 0 {
		categories = AllCategories
	}

	sites, err := l.discoverer.Discover(ctx, root, args.Exclude, categories)
	if err != nil {
		return nil, err
	}

	return BuildCatalog(sites), nil
}

// Run is the whole experiment: discovery, baseline, one trial per mutant,
// classification, aggregation.
func (l *lab) Run(ctx context.Context, args RunArgs) (RunResult, error) {
	mutants, err := l.Catalog(ctx, args)
	if err != nil {
		return RunResult{Status: m.RunAborted}, err
	}

	if args.Threads < 1 {
		args.Threads = 1
	}

	l.ui.DisplayRunInfo(len(mutants), args.Threads)

	root, err := l.fs.FindModuleRoot(args.Root)
	if err != nil {
		return RunResult{Status: m.RunAborted}, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	baseline, err := l.runBaseline(ctx, root)
	if err != nil {
		return RunResult{Status: m.RunAborted}, err
	}

	spill, err := pkg.NewRecordSpill[m.MutantOutcome]()
	if err != nil {
		return RunResult{Status: m.RunAborted}, fmt.Errorf("%w: %v", ErrInfrastructure, err)
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("failed to close outcome spill", "error", err)
		}
	}()

	runErr := l.runTrials(ctx, root, mutants, baseline, spill, args.Threads)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return RunResult{Status: m.RunAborted}, runErr
	}

	result, err := l.assembleResult(spill, len(mutants))
	if err != nil {
		return RunResult{Status: m.RunAborted}, err
	}

	if args.Reports != "" {
		if err := l.reportStore.SaveOutcomes(args.Reports, result.Outcomes, result.Summary); err != nil {
			slog.Error("failed to persist outcomes", "dir", args.Reports, "error", err)
			return result, err
		}
	}

	return result, nil
}

// runBaseline verifies the unmutated tree builds and passes its tests in an
// isolated copy. Anything else aborts the run: mutation results are
// meaningless against a red baseline.
func (l *lab) runBaseline(ctx context.Context, root m.Path) (m.Baseline, error) {
	l.ui.BaselineStarted()

	tmpDir, err := l.fs.CreateTempDir("gnaw-baseline-*")
	if err != nil {
		return m.Baseline{}, fmt.Errorf("%w: create baseline copy: %v", ErrInfrastructure, err)
	}

	defer l.cleanupCopy(tmpDir)

	if err := l.fs.CopyTree(root, tmpDir); err != nil {
		return m.Baseline{}, fmt.Errorf("%w: copy tree for baseline: %v", ErrInfrastructure, err)
	}

	result := l.runner.RunTrial(ctx, tmpDir)
	baseline := m.Baseline{Result: result}

	l.ui.BaselineCompleted(result.Elapsed, baseline.Passed())

	if result.State == m.TrialLaunchFailed {
		return m.Baseline{}, fmt.Errorf("%w: %s", ErrToolMissing, result.Output)
	}

	if !baseline.Passed() {
		slog.Error("baseline failed", "stage", result.Stage, "exit", result.ExitCode, "timedOut", result.TimedOut)
		return m.Baseline{}, fmt.Errorf("%w (stage %s, exit %d):\n%s", ErrBaselineFailed, result.Stage, result.ExitCode, result.Output)
	}

	return baseline, nil
}

// runTrials drives the fixed worker pool. Each worker owns exactly one tree
// copy at a time and deletes it on every exit path. A stop request stops
// issuing trials; in-flight trials run to their own completion or timeout.
func (l *lab) runTrials(ctx context.Context, root m.Path, mutants []m.Mutant, baseline m.Baseline, spill pkg.RecordSpill[m.MutantOutcome], threads int) error {
	var (
		group errgroup.Group

		mu               sync.Mutex
		consecutiveInfra int
		fatalInfra       error
	)

	group.SetLimit(threads)

	for _, mutant := range mutants {
		if ctx.Err() != nil {
			slog.Info("stop requested, no further trials will be launched")
			break
		}

		mu.Lock()
		broken := fatalInfra
		mu.Unlock()

		if broken != nil {
			break
		}

		currentMutant := mutant

		group.Go(func() error {
			outcome, infraErr := l.runMutantTrial(ctx, root, currentMutant, baseline)

			mu.Lock()
			defer mu.Unlock()

			if infraErr != nil {
				consecutiveInfra++
				slog.Warn("trial infrastructure error", "mutant", currentMutant.ID, "consecutive", consecutiveInfra, "error", infraErr)

				if consecutiveInfra >= maxConsecutiveInfraFailures && fatalInfra == nil {
					fatalInfra = fmt.Errorf("%w: %d consecutive failures, last: %v", ErrInfrastructure, consecutiveInfra, infraErr)
				}

				return nil
			}

			consecutiveInfra = 0

			if err := spill.Append(outcome); err != nil {
				if fatalInfra == nil {
					fatalInfra = fmt.Errorf("%w: record outcome: %v", ErrInfrastructure, err)
				}

				return nil
			}

			l.ui.TrialCompleted(currentMutant, outcome.Outcome, outcome.Elapsed)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	if fatalInfra != nil {
		return fatalInfra
	}

	return ctx.Err()
}

// runMutantTrial owns one isolated copy for the duration of one trial:
// acquire, patch, run, classify, release. Infrastructure problems are
// returned separately from outcomes so the caller can spot environment
// breakage.
func (l *lab) runMutantTrial(ctx context.Context, root m.Path, mutant m.Mutant, baseline m.Baseline) (m.MutantOutcome, error) {
	l.ui.TrialStarted(mutant)

	tmpDir, err := l.fs.CreateTempDir("gnaw-trial-*")
	if err != nil {
		return m.MutantOutcome{}, fmt.Errorf("create trial copy: %w", err)
	}

	defer l.cleanupCopy(tmpDir)

	if err := l.fs.CopyTree(root, tmpDir); err != nil {
		return m.MutantOutcome{}, fmt.Errorf("copy tree: %w", err)
	}

	if err := ApplyMutant(l.fs, tmpDir, mutant); err != nil {
		return m.MutantOutcome{}, err
	}

	// In-flight trials are detached from the stop signal so they always run
	// to completion or their own timeout, keeping copy cleanup guaranteed.
	result := l.runner.RunTrial(context.WithoutCancel(ctx), tmpDir)

	if result.State == m.TrialLaunchFailed {
		return m.MutantOutcome{}, fmt.Errorf("launch trial: %s", result.Output)
	}

	outcome, err := Classify(baseline, result)
	if err != nil {
		return m.MutantOutcome{}, err
	}

	diff, err := MutantDiff(mutant)
	if err != nil {
		slog.Error("failed to render mutant diff", "mutant", mutant.ID, "error", err)
		diff = ""
	}

	return m.MutantOutcome{
		Mutant:  mutant,
		Outcome: outcome,
		Diff:    diff,
		Output:  result.Output,
		Elapsed: result.Elapsed,
	}, nil
}

// cleanupCopy removes a tree copy, logging failures. An orphaned directory
// is acceptable garbage; a reused one is not, so copies are never shared.
func (l *lab) cleanupCopy(dir m.Path) {
	if err := l.fs.RemoveAll(dir); err != nil {
		slog.Error("failed to remove tree copy", "dir", dir, "error", err)
	}
}

// assembleResult replays the aggregation sink and re-sorts the records into
// catalog order, whatever order trials completed in.
func (l *lab) assembleResult(spill pkg.RecordSpill[m.MutantOutcome], catalogSize int) (RunResult, error) {
	summary, err := summaryFromSpill(spill)
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: read outcomes: %v", ErrInfrastructure, err)
	}

	outcomes := make([]m.MutantOutcome, 0, summary.Total)

	err = spill.Range(func(_ uint64, record m.MutantOutcome) error {
		outcomes = append(outcomes, record)
		return nil
	})
	if err != nil {
		return RunResult{}, fmt.Errorf("%w: read outcomes: %v", ErrInfrastructure, err)
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Mutant.Index < outcomes[j].Mutant.Index
	})

	result := RunResult{
		Outcomes: outcomes,
		Summary:  summary,
		Status:   m.StatusOf(summary),
		Partial:  summary.Total < catalogSize,
	}

	survivors := make([]m.MutantOutcome, 0)

	for _, outcome := range outcomes {
		if outcome.Outcome == m.OutcomeSurvived {
			survivors = append(survivors, outcome)
		}
	}

	l.ui.DisplaySummary(summary, survivors, result.Partial)

	return result, nil
}
