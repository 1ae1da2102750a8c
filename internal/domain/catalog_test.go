package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "gnaw.dev/pkg/gnaw/internal/model"
)

func testSite(path string, start int, category m.SiteCategory, origText string, payload ...string) m.Site {
	return m.Site{
		File: m.SourceFile{
			Path:    m.Path(path),
			Content: []byte("package p\n"),
		},
		Category:  category,
		Span:      m.Span{Start: start, End: start + len(origText), Line: 1, Column: start + 1},
		OrigText:  origText,
		Payload:   payload,
		Enclosing: "F",
	}
}

func TestBuildCatalogOrdering(t *testing.T) {
	sites := []m.Site{
		testSite("z.go", 5, m.SiteArithmetic, "+"),
		testSite("a.go", 40, m.SiteArithmetic, "-"),
		testSite("a.go", 8, m.SiteComparison, "<"),
	}

	mutants := BuildCatalog(sites)
	require.NotEmpty(t, mutants)

	// a.go's comparison site (5 mutants) first, then a.go's arithmetic
	// site, then z.go's.
	assert.Equal(t, m.Path("a.go"), mutants[0].Site.File.Path)
	assert.Equal(t, "<", mutants[0].Site.OrigText)

	for i, mutant := range mutants {
		assert.Equal(t, i, mutant.Index, "indices must follow catalog order")
	}

	last := mutants[len(mutants)-1]
	assert.Equal(t, m.Path("z.go"), last.Site.File.Path)
}

func TestBuildCatalogIsReproducible(t *testing.T) {
	sites := []m.Site{
		testSite("b.go", 12, m.SiteBoolean, "true"),
		testSite("a.go", 3, m.SiteComparison, ">="),
	}

	first := BuildCatalog(sites)
	second := BuildCatalog(sites)

	require.Equal(t, len(first), len(second))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Index, second[i].Index)
	}
}

func TestBuildCatalogDoesNotMutateInput(t *testing.T) {
	sites := []m.Site{
		testSite("z.go", 5, m.SiteArithmetic, "+"),
		testSite("a.go", 8, m.SiteComparison, "<"),
	}

	BuildCatalog(sites)

	assert.Equal(t, m.Path("z.go"), sites[0].File.Path, "input slice must keep its order")
}

func TestBuildCatalogEmitsNoNoOpMutants(t *testing.T) {
	sites := []m.Site{
		testSite("a.go", 8, m.SiteComparison, "=="),
		testSite("a.go", 20, m.SiteBoolean, "false"),
	}

	for _, mutant := range BuildCatalog(sites) {
		assert.NotEqual(t, mutant.Site.OrigText, mutant.Replacement,
			"mutant %s replaces the span with itself", mutant.ID)
	}
}

func TestBuildCatalogEmptyInput(t *testing.T) {
	assert.Empty(t, BuildCatalog(nil))
}
