package domain

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// MutantDiff renders the unified diff between the original file and the
// mutated variant. Every mutant gets one, whatever its outcome ends up
// being, so survivors can be reviewed as plain patches.
func MutantDiff(mutant m.Mutant) (string, error) {
	site := mutant.Site

	patched, err := patchSpan(site.File.Content, site.Span, site.OrigText, mutant.Replacement)
	if err != nil {
		return "", fmt.Errorf("diff mutant %s: %w", mutant.ID, err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(site.File.Content)),
		B:        difflib.SplitLines(string(patched)),
		FromFile: "a/" + string(site.File.Path),
		ToFile:   "b/" + string(site.File.Path),
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("render diff for mutant %s: %w", mutant.ID, err)
	}

	return diff, nil
}
