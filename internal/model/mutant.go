package model

import (
	"crypto/sha256"
	"fmt"
)

// Mutant is one candidate mutation: a site plus the exact replacement text.
// Mutants are immutable value records; identity is (file, span, replacement).
type Mutant struct {
	ID          string
	Site        Site
	Replacement string
	Description string
	// Index is the mutant's position in the catalog's deterministic order.
	// The final report is sorted by it regardless of completion order.
	Index int
}

// MutantID derives the stable identity hash for a (file, span, replacement)
// triple. Two catalog runs over the same tree produce the same IDs.
func MutantID(file Path, span Span, replacement string) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s:%d:%d:%s", file, span.Start, span.End, replacement))
	return fmt.Sprintf("%x", h)[:16]
}

// NewMutant builds a mutant for a site, deriving its identity hash.
func NewMutant(site Site, replacement, description string) Mutant {
	return Mutant{
		ID:          MutantID(site.File.Path, site.Span, replacement),
		Site:        site,
		Replacement: replacement,
		Description: description,
	}
}
