// Package mutagens holds the per-category mutant generation rules. Each rule
// maps one discovered site to zero or more replacement texts; everything
// here is pure text manipulation over spans recorded at discovery time.
package mutagens

import (
	m "gnaw.dev/pkg/gnaw/internal/model"
)

// Generate dispatches a site to its category's generation rule. The category
// set is closed; a site with an unknown category yields nothing.
func Generate(site m.Site) []m.Mutant {
	switch site.Category {
	case m.SiteFuncBody:
		return GenerateFuncBodyMutants(site)
	case m.SiteComparison:
		return GenerateComparisonMutants(site)
	case m.SiteArithmetic:
		return GenerateArithmeticMutants(site)
	case m.SiteBoolean:
		return GenerateBooleanMutants(site)
	default:
		return nil
	}
}

// appendMutant adds a mutant unless the replacement is byte-identical to the
// original span. A no-op mutant wastes a trial and guarantees a false
// survived, so the guard lives here rather than in each rule.
func appendMutant(mutants []m.Mutant, site m.Site, replacement, description string) []m.Mutant {
	if replacement == site.OrigText {
		return mutants
	}

	return append(mutants, m.NewMutant(site, replacement, description))
}
