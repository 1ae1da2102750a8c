package mutagens

import (
	"fmt"
	"go/token"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// comparisonOps is kept in a fixed order so catalog output is reproducible
// across runs.
var comparisonOps = []token.Token{token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ}

// GenerateComparisonMutants replaces the comparison operator at the site
// with every other member of the class.
func GenerateComparisonMutants(site m.Site) []m.Mutant {
	if !IsComparisonOp(site.OrigText) {
		return nil
	}

	var mutants []m.Mutant

	for _, op := range comparisonOps {
		replacement := op.String()
		description := fmt.Sprintf("swap %q for %q in %s", site.OrigText, replacement, site.Enclosing)
		mutants = appendMutant(mutants, site, replacement, description)
	}

	return mutants
}

// IsComparisonOp reports whether text is one of the comparison operators.
func IsComparisonOp(text string) bool {
	for _, op := range comparisonOps {
		if op.String() == text {
			return true
		}
	}

	return false
}
