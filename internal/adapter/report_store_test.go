package adapter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

func sampleOutcomes() ([]m.MutantOutcome, m.Summary) {
	site := m.Site{
		File:      m.SourceFile{Path: "pkg/calc.go"},
		Category:  m.SiteArithmetic,
		Span:      m.Span{Start: 40, End: 41, Line: 5, Column: 12},
		OrigText:  "+",
		Enclosing: "Add",
	}

	caught := m.MutantOutcome{
		Mutant:  m.NewMutant(site, "-", `swap "+" for "-" in Add`),
		Outcome: m.OutcomeCaught,
		Output:  "FAIL: TestAdd",
		Elapsed: 120 * time.Millisecond,
	}

	survived := m.MutantOutcome{
		Mutant:  m.NewMutant(site, "*", `swap "+" for "*" in Add`),
		Outcome: m.OutcomeSurvived,
		Diff:    "--- a/pkg/calc.go\n+++ b/pkg/calc.go\n",
		Elapsed: 95 * time.Millisecond,
	}

	var summary m.Summary
	summary.Add(caught.Outcome)
	summary.Add(survived.Outcome)

	return []m.MutantOutcome{caught, survived}, summary
}

func TestReportStoreRoundTrip(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(filepath.Join(t.TempDir(), "reports"))

	outcomes, summary := sampleOutcomes()
	require.NoError(t, store.SaveOutcomes(dir, outcomes, summary))

	records, err := store.LoadOutcomes(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, outcomes[0].Mutant.ID, records[0].ID)
	assert.Equal(t, "pkg/calc.go", records[0].File)
	assert.Equal(t, 5, records[0].Line)
	assert.Equal(t, m.OutcomeCaught, records[0].Outcome)
	assert.Equal(t, "FAIL: TestAdd", records[0].Output)

	assert.Equal(t, m.OutcomeSurvived, records[1].Outcome)
	assert.NotEmpty(t, records[1].Diff)
	assert.Equal(t, 95*time.Millisecond, records[1].Elapsed)
}

func TestReportStoreOverwritesPreviousRun(t *testing.T) {
	store := NewReportStore()
	dir := m.Path(t.TempDir())

	outcomes, summary := sampleOutcomes()
	require.NoError(t, store.SaveOutcomes(dir, outcomes, summary))
	require.NoError(t, store.SaveOutcomes(dir, outcomes[:1], m.Summary{Total: 1, Caught: 1}))

	records, err := store.LoadOutcomes(dir)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReportStoreLoadMissing(t *testing.T) {
	_, err := NewReportStore().LoadOutcomes(m.Path(t.TempDir()))
	require.Error(t, err)
}
