package mutagens

import (
	"strings"
	"testing"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

func TestGenerateFuncBodyMutants(t *testing.T) {
	t.Run("no results yields an empty body", func(t *testing.T) {
		site := siteForTest(m.SiteFuncBody, "{ doWork() }", "")
		mutants := GenerateFuncBodyMutants(site)

		if len(mutants) != 1 {
			t.Fatalf("expected 1 mutant, got %d", len(mutants))
		}

		if mutants[0].Replacement != "{}" {
			t.Errorf("replacement = %q, expected %q", mutants[0].Replacement, "{}")
		}
	})

	t.Run("single result yields one zero return", func(t *testing.T) {
		site := siteForTest(m.SiteFuncBody, "{ return compute() }", "0")
		mutants := GenerateFuncBodyMutants(site)

		if len(mutants) != 1 {
			t.Fatalf("expected 1 mutant, got %d", len(mutants))
		}

		if !strings.Contains(mutants[0].Replacement, "return 0") {
			t.Errorf("replacement %q does not return 0", mutants[0].Replacement)
		}
	})

	t.Run("bool result yields both literals", func(t *testing.T) {
		site := siteForTest(m.SiteFuncBody, "{ return a && b }", "false", "true")
		mutants := GenerateFuncBodyMutants(site)

		if len(mutants) != 2 {
			t.Fatalf("expected 2 mutants, got %d", len(mutants))
		}

		if !strings.Contains(mutants[0].Replacement, "return false") {
			t.Errorf("first replacement %q does not return false", mutants[0].Replacement)
		}

		if !strings.Contains(mutants[1].Replacement, "return true") {
			t.Errorf("second replacement %q does not return true", mutants[1].Replacement)
		}
	})

	t.Run("multiple results are comma joined", func(t *testing.T) {
		site := siteForTest(m.SiteFuncBody, "{ return parse(s) }", `0, ""`)
		mutants := GenerateFuncBodyMutants(site)

		if len(mutants) != 1 {
			t.Fatalf("expected 1 mutant, got %d", len(mutants))
		}

		if !strings.Contains(mutants[0].Replacement, `return 0, ""`) {
			t.Errorf("replacement %q does not return both zeros", mutants[0].Replacement)
		}
	})

	t.Run("body already matching the variant is skipped", func(t *testing.T) {
		site := siteForTest(m.SiteFuncBody, "{}", "")
		if mutants := GenerateFuncBodyMutants(site); len(mutants) != 0 {
			t.Errorf("expected nothing for an already-empty body, got %d", len(mutants))
		}
	})
}
