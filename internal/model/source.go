// Package model defines the data structures for mutation testing.
package model

import "fmt"

// SiteCategory is the closed set of syntactic categories gnaw knows how to
// mutate. The catalog dispatches on it exhaustively; adding a category means
// adding a generation rule.
type SiteCategory string

const (
	// SiteFuncBody is a function or method body with a derivable
	// simplest-value return.
	SiteFuncBody SiteCategory = "funcbody"
	// SiteComparison is a binary comparison operator (< <= > >= == !=).
	SiteComparison SiteCategory = "comparison"
	// SiteArithmetic is a binary arithmetic operator (+ - * /).
	SiteArithmetic SiteCategory = "arithmetic"
	// SiteBoolean is a boolean literal or a negated expression.
	SiteBoolean SiteCategory = "boolean"
)

// ParseCategory resolves a user-facing category name (as accepted on the
// command line and in gnaw.yaml) to its SiteCategory.
func ParseCategory(name string) (SiteCategory, error) {
	switch SiteCategory(name) {
	case SiteFuncBody, SiteComparison, SiteArithmetic, SiteBoolean:
		return SiteCategory(name), nil
	}

	return "", fmt.Errorf("unknown mutation category %q", name)
}

// SourceFile is one parsed file of the target tree. The path is kept
// relative to the tree root so trials can resolve it inside an isolated copy.
type SourceFile struct {
	// Path is relative to the tree root (slash-separated as read from disk).
	Path Path
	// FullPath is the absolute location of the original file.
	FullPath Path
	// Content holds the unmutated file bytes spans were computed against.
	Content []byte
	// Hash is a stable fingerprint of Content.
	Hash string
}

// Site is one location eligible for mutation: its syntactic category, the
// byte span to patch, and the original text of that span.
//
// Payload carries the category-specific detail the catalog needs to build
// replacements without revisiting the AST: the operator token for
// comparison/arithmetic sites, the literal for boolean sites, and the
// ready-made return statements (one per variant) for function bodies.
type Site struct {
	File     SourceFile
	Category SiteCategory
	Span     Span
	OrigText string
	Payload  []string
	// Enclosing names the function or declaration holding the site,
	// for human-readable mutant descriptions.
	Enclosing string
}
