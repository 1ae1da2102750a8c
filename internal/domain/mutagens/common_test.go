package mutagens

import (
	"testing"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

func siteForTest(category m.SiteCategory, origText string, payload ...string) m.Site {
	return m.Site{
		File: m.SourceFile{
			Path:    "pkg/thing.go",
			Content: []byte("package thing\n"),
		},
		Category:  category,
		Span:      m.Span{Start: 10, End: 10 + len(origText), Line: 3, Column: 9},
		OrigText:  origText,
		Payload:   payload,
		Enclosing: "Thing",
	}
}

func TestGenerateDispatch(t *testing.T) {
	t.Run("routes each category to its rule", func(t *testing.T) {
		cases := []struct {
			site m.Site
			want int
		}{
			{siteForTest(m.SiteComparison, "<"), 5},
			{siteForTest(m.SiteArithmetic, "+"), 1},
			{siteForTest(m.SiteBoolean, "true"), 1},
			{siteForTest(m.SiteFuncBody, "{ return n }", "0"), 1},
		}

		for _, tt := range cases {
			mutants := Generate(tt.site)
			if len(mutants) != tt.want {
				t.Errorf("Generate(%s %q) produced %d mutants, expected %d",
					tt.site.Category, tt.site.OrigText, len(mutants), tt.want)
			}
		}
	})

	t.Run("unknown category yields nothing", func(t *testing.T) {
		site := siteForTest(m.SiteCategory("statement"), "x = 1")
		if mutants := Generate(site); mutants != nil {
			t.Errorf("expected nil mutants, got %d", len(mutants))
		}
	})
}

func TestAppendMutantNoOpGuard(t *testing.T) {
	site := siteForTest(m.SiteComparison, "<")

	mutants := appendMutant(nil, site, "<", "identical replacement")
	if len(mutants) != 0 {
		t.Fatalf("no-op replacement must be dropped, got %d mutants", len(mutants))
	}

	mutants = appendMutant(mutants, site, ">", "real replacement")
	if len(mutants) != 1 {
		t.Fatalf("expected 1 mutant, got %d", len(mutants))
	}

	if mutants[0].Replacement != ">" {
		t.Errorf("replacement = %q, expected %q", mutants[0].Replacement, ">")
	}
}

func TestMutantIDsAreStableAndDistinct(t *testing.T) {
	site := siteForTest(m.SiteComparison, "<")

	first := Generate(site)
	second := Generate(site)

	if len(first) != len(second) {
		t.Fatalf("generation is not deterministic: %d vs %d mutants", len(first), len(second))
	}

	seen := map[string]bool{}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("mutant %d ID changed between runs: %s vs %s", i, first[i].ID, second[i].ID)
		}

		if seen[first[i].ID] {
			t.Errorf("duplicate mutant ID %s", first[i].ID)
		}

		seen[first[i].ID] = true

		if len(first[i].ID) != 16 {
			t.Errorf("mutant ID %q is not 16 hex chars", first[i].ID)
		}
	}
}
