package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// ReportStore persists the final ordered list of outcome records. The format
// is deliberately plain: one JSON document with every mutant that entered a
// trial and its terminal outcome.
type ReportStore interface {
	SaveOutcomes(dir m.Path, outcomes []m.MutantOutcome, summary m.Summary) error
	LoadOutcomes(dir m.Path) ([]OutcomeRecord, error)
}

// OutcomeRecord is the persisted shape of one mutant outcome.
type OutcomeRecord struct {
	ID          string        `json:"id"`
	File        string        `json:"file"`
	Line        int           `json:"line"`
	Column      int           `json:"column"`
	Description string        `json:"description"`
	Outcome     m.Outcome     `json:"outcome"`
	Diff        string        `json:"diff,omitempty"`
	Output      string        `json:"output,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

type reportDocument struct {
	Summary  m.Summary       `json:"summary"`
	Outcomes []OutcomeRecord `json:"outcomes"`
}

const reportFileName = "outcomes.json"

type jsonReportStore struct{}

// NewReportStore constructs the JSON-backed report store.
func NewReportStore() ReportStore {
	return &jsonReportStore{}
}

// SaveOutcomes writes the run's outcome records under dir, creating it if
// needed.
func (s *jsonReportStore) SaveOutcomes(dir m.Path, outcomes []m.MutantOutcome, summary m.Summary) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	records := make([]OutcomeRecord, 0, len(outcomes))
	for _, outcome := range outcomes {
		records = append(records, recordFromOutcome(outcome))
	}

	doc := reportDocument{Summary: summary, Outcomes: records}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcomes: %w", err)
	}

	target := filepath.Join(string(dir), reportFileName)
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	return nil
}

// LoadOutcomes reads previously saved outcome records from dir.
func (s *jsonReportStore) LoadOutcomes(dir m.Path) ([]OutcomeRecord, error) {
	data, err := os.ReadFile(filepath.Join(string(dir), reportFileName))
	if err != nil {
		return nil, fmt.Errorf("read outcomes: %w", err)
	}

	var doc reportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode outcomes: %w", err)
	}

	return doc.Outcomes, nil
}

func recordFromOutcome(outcome m.MutantOutcome) OutcomeRecord {
	site := outcome.Mutant.Site

	return OutcomeRecord{
		ID:          outcome.Mutant.ID,
		File:        string(site.File.Path),
		Line:        site.Span.Line,
		Column:      site.Span.Column,
		Description: outcome.Mutant.Description,
		Outcome:     outcome.Outcome,
		Diff:        outcome.Diff,
		Output:      outcome.Output,
		Elapsed:     outcome.Elapsed,
	}
}
