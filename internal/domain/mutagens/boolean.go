package mutagens

import (
	"fmt"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// GenerateBooleanMutants negates the boolean expression at the site: a
// literal is flipped, a negation `!x` is dropped to its operand (recorded in
// the site payload at discovery time).
func GenerateBooleanMutants(site m.Site) []m.Mutant {
	switch {
	case site.OrigText == trueStr || site.OrigText == falseStr:
		replacement := flipBoolean(site.OrigText)
		description := fmt.Sprintf("flip %q to %q in %s", site.OrigText, replacement, site.Enclosing)

		return appendMutant(nil, site, replacement, description)

	case len(site.Payload) == 1:
		description := fmt.Sprintf("drop negation %q in %s", site.OrigText, site.Enclosing)

		return appendMutant(nil, site, site.Payload[0], description)

	default:
		return nil
	}
}

// flipBoolean returns the opposite boolean literal.
func flipBoolean(original string) string {
	if original == trueStr {
		return falseStr
	}

	return trueStr
}
