package domain

import (
	m "gnaw.dev/pkg/gnaw/internal/model"
	pkg "gnaw.dev/pkg/gnaw/pkg"
)

// summaryFromSpill replays the aggregation sink and tallies outcomes. The
// spill holds one record per completed trial, in completion order.
func summaryFromSpill(records pkg.RecordSpill[m.MutantOutcome]) (m.Summary, error) {
	var summary m.Summary

	err := records.Range(func(_ uint64, record m.MutantOutcome) error {
		summary.Add(record.Outcome)
		return nil
	})
	if err != nil {
		return m.Summary{}, err
	}

	return summary, nil
}
