package mutagens

import (
	"fmt"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// GenerateFuncBodyMutants replaces the whole function body with the simplest
// value-producing statement for the function's return types. Discovery
// records one payload entry per variant: the comma-joined zero expressions,
// or the empty string for a function with no results. A site whose return
// types could not be derived never reaches the catalog.
func GenerateFuncBodyMutants(site m.Site) []m.Mutant {
	var mutants []m.Mutant

	for _, exprs := range site.Payload {
		var replacement, description string

		if exprs == "" {
			replacement = "{}"
			description = fmt.Sprintf("empty body of %s", site.Enclosing)
		} else {
			replacement = fmt.Sprintf("{\n\treturn %s\n}", exprs)
			description = fmt.Sprintf("replace body of %s with 'return %s'", site.Enclosing, exprs)
		}

		mutants = appendMutant(mutants, site, replacement, description)
	}

	return mutants
}
