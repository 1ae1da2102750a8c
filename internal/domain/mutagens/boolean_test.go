package mutagens

import (
	"testing"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

func TestGenerateBooleanMutants(t *testing.T) {
	t.Run("flips literals", func(t *testing.T) {
		cases := []struct {
			literal, want string
		}{
			{"true", "false"},
			{"false", "true"},
		}

		for _, tt := range cases {
			site := siteForTest(m.SiteBoolean, tt.literal)
			mutants := GenerateBooleanMutants(site)

			if len(mutants) != 1 {
				t.Fatalf("expected 1 mutant for %q, got %d", tt.literal, len(mutants))
			}

			if mutants[0].Replacement != tt.want {
				t.Errorf("replacement for %q = %q, expected %q", tt.literal, mutants[0].Replacement, tt.want)
			}
		}
	})

	t.Run("drops negation to the recorded operand", func(t *testing.T) {
		site := siteForTest(m.SiteBoolean, "!ok", "ok")
		mutants := GenerateBooleanMutants(site)

		if len(mutants) != 1 {
			t.Fatalf("expected 1 mutant, got %d", len(mutants))
		}

		if mutants[0].Replacement != "ok" {
			t.Errorf("replacement = %q, expected %q", mutants[0].Replacement, "ok")
		}
	})

	t.Run("negation without a payload yields nothing", func(t *testing.T) {
		site := siteForTest(m.SiteBoolean, "!ok")
		if mutants := GenerateBooleanMutants(site); mutants != nil {
			t.Errorf("expected nil, got %d mutants", len(mutants))
		}
	})
}
