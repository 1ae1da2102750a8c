package mutagens

import (
	"fmt"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

// arithmeticSwaps maps each supported operator to its single counterpart.
// Pair swaps keep the mutant viable for most operand types; an exhaustive
// operator matrix mostly produces unviable or equivalent mutants. `%` has no
// counterpart with comparable semantics and is left alone.
var arithmeticSwaps = map[string]string{
	"+": "-",
	"-": "+",
	"*": "/",
	"/": "*",
}

// GenerateArithmeticMutants swaps the arithmetic operator at the site for
// its paired counterpart.
func GenerateArithmeticMutants(site m.Site) []m.Mutant {
	replacement, ok := arithmeticSwaps[site.OrigText]
	if !ok {
		return nil
	}

	description := fmt.Sprintf("swap %q for %q in %s", site.OrigText, replacement, site.Enclosing)

	return appendMutant(nil, site, replacement, description)
}

// IsArithmeticOp reports whether text is an operator the arithmetic rule
// knows how to swap.
func IsArithmeticOp(text string) bool {
	_, ok := arithmeticSwaps[text]
	return ok
}
