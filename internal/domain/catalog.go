package domain

import (
	"sort"

	"gnaw.dev/pkg/gnaw/internal/domain/mutagens"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

// BuildCatalog enumerates the mutants for every discovered site in
// deterministic order: file path first, then span start. Mutant indices
// record that order so a report can be reassembled after out-of-order
// completion.
func BuildCatalog(sites []m.Site) []m.Mutant {
	ordered := make([]m.Site, len(sites))
	copy(ordered, sites)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].File.Path != ordered[j].File.Path {
			return ordered[i].File.Path < ordered[j].File.Path
		}

		return ordered[i].Span.Before(ordered[j].Span)
	})

	var mutants []m.Mutant

	for _, site := range ordered {
		for _, mutant := range mutagens.Generate(site) {
			mutant.Index = len(mutants)
			mutants = append(mutants, mutant)
		}
	}

	return mutants
}
