package domain

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"gnaw.dev/pkg/gnaw/internal/adapter"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

// skipAnnotation opts a line or a whole function out of mutation.
const skipAnnotation = "gnaw:skip"

// AllCategories is the default set of enabled mutation categories.
var AllCategories = []m.SiteCategory{m.SiteFuncBody, m.SiteComparison, m.SiteArithmetic, m.SiteBoolean}

// Discoverer walks a source tree and produces the ordered inventory of
// mutable sites, with byte spans computed against the unmutated files.
type Discoverer interface {
	Discover(ctx context.Context, root m.Path, exclude []string, categories []m.SiteCategory) ([]m.Site, error)
}

type discoverer struct {
	goFiles adapter.GoFileAdapter
	fs      adapter.SourceFSAdapter
}

// NewDiscoverer constructs a Discoverer backed by the provided adapters.
func NewDiscoverer(goFiles adapter.GoFileAdapter, fs adapter.SourceFSAdapter) Discoverer {
	return &discoverer{goFiles: goFiles, fs: fs}
}

// Discover enumerates every mutable Go source file under root, parses it,
// and walks the syntax tree for sites. Parsing failure on any file is fatal
// for the whole run. The returned sites are ordered by (file path, span
// start); replaying discovery on the same unmutated tree yields an identical
// list.
func (d *discoverer) Discover(ctx context.Context, root m.Path, exclude []string, categories []m.SiteCategory) ([]m.Site, error) {
	globs, err := compileExcludes(exclude)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	enabled := make(map[m.SiteCategory]bool, len(categories))
	for _, category := range categories {
		enabled[category] = true
	}

	var sites []m.Site

	err = d.fs.Walk(root, func(path m.Path, _ os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := d.fs.RelPath(root, path)
		if err != nil {
			return err
		}

		relPath := filepath.ToSlash(string(rel))
		if !strings.HasSuffix(relPath, ".go") || strings.HasSuffix(relPath, "_test.go") {
			return nil
		}

		if excluded(globs, relPath) {
			slog.Debug("excluded by pattern", "file", relPath)
			return nil
		}

		fileSites, err := d.discoverFile(path, m.Path(relPath), enabled)
		if err != nil {
			return err
		}

		sites = append(sites, fileSites...)

		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	slog.Info("discovery complete", "root", root, "sites", len(sites))

	return sites, nil
}

// discoverFile parses one file and walks it for sites. Files the walk finds
// are already lexically ordered, so appending keeps the catalog ordering
// deterministic.
func (d *discoverer) discoverFile(path, relPath m.Path, enabled map[m.SiteCategory]bool) ([]m.Site, error) {
	content, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if isGeneratedFile(content) {
		slog.Debug("skipping generated file", "file", relPath)
		return nil, nil
	}

	fset := token.NewFileSet()

	file, err := d.goFiles.Parse(fset, string(path), content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relPath, err)
	}

	hash, err := d.fs.HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	sf := m.SourceFile{
		Path:     relPath,
		FullPath: path,
		Content:  content,
		Hash:     hash,
	}

	return collectSites(fset, file, sf, enabled), nil
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}

		globs = append(globs, g)
	}

	return globs, nil
}

func excluded(globs []glob.Glob, relPath string) bool {
	for _, g := range globs {
		if g.Match(relPath) || g.Match(filepath.Base(relPath)) {
			return true
		}
	}

	return false
}

// isGeneratedFile detects the conventional generated-code marker in the
// header lines before the package clause.
func isGeneratedFile(content []byte) bool {
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			return false
		}

		if strings.HasPrefix(trimmed, "// Code generated ") && strings.HasSuffix(trimmed, " DO NOT EDIT.") {
			return true
		}
	}

	return false
}

// skipIndex records which lines carry the opt-out annotation. A node is
// skipped when the annotation sits on its line (trailing) or the line above
// (leading); a function is skipped entirely when its doc carries it.
type skipIndex struct {
	lines map[int]bool
}

func buildSkipIndex(fset *token.FileSet, file *ast.File) skipIndex {
	lines := make(map[int]bool)

	for _, group := range file.Comments {
		for _, comment := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(comment.Text, "//"))
			if text == skipAnnotation {
				lines[fset.Position(comment.Pos()).Line] = true
			}
		}
	}

	return skipIndex{lines: lines}
}

func (idx skipIndex) skipsLine(line int) bool {
	return idx.lines[line] || idx.lines[line-1]
}

func docHasSkip(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}

	for _, comment := range doc.List {
		if strings.TrimSpace(strings.TrimPrefix(comment.Text, "//")) == skipAnnotation {
			return true
		}
	}

	return false
}

// funcRange maps a byte range of one function declaration to its
// receiver-qualified name, for mutant descriptions.
type funcRange struct {
	name       string
	start, end int
}

func enclosingName(ranges []funcRange, offset int) string {
	name := "package scope"

	for _, r := range ranges {
		if offset >= r.start && offset < r.end {
			name = r.name
		}
	}

	return name
}

func funcDeclName(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return decl.Name.Name
	}

	recv := decl.Recv.List[0].Type
	if star, ok := recv.(*ast.StarExpr); ok {
		recv = star.X
	}

	if ident, ok := recv.(*ast.Ident); ok {
		return ident.Name + "." + decl.Name.Name
	}

	return decl.Name.Name
}

// collectSites walks one parsed file and produces its ordered site list.
func collectSites(fset *token.FileSet, file *ast.File, sf m.SourceFile, enabled map[m.SiteCategory]bool) []m.Site {
	skips := buildSkipIndex(fset, file)

	var ranges []funcRange

	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Body != nil {
			ranges = append(ranges, funcRange{
				name:  funcDeclName(fd),
				start: fset.Position(fd.Pos()).Offset,
				end:   fset.Position(fd.End()).Offset,
			})
		}
	}

	var sites []m.Site

	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			return true
		}

		if fd, ok := n.(*ast.FuncDecl); ok && docHasSkip(fd.Doc) {
			// Don't look inside it either.
			return false
		}

		line := fset.Position(n.Pos()).Line
		if skips.skipsLine(line) {
			return true
		}

		sites = append(sites, sitesForNode(n, fset, sf, enabled, ranges)...)

		return true
	})

	sort.Slice(sites, func(i, j int) bool {
		return sites[i].Span.Before(sites[j].Span)
	})

	return sites
}

func sitesForNode(n ast.Node, fset *token.FileSet, sf m.SourceFile, enabled map[m.SiteCategory]bool, ranges []funcRange) []m.Site {
	switch node := n.(type) {
	case *ast.FuncDecl:
		if enabled[m.SiteFuncBody] {
			return funcBodySite(node, fset, sf)
		}

	case *ast.BinaryExpr:
		return binaryOpSite(node, fset, sf, enabled, ranges)

	case *ast.Ident:
		if enabled[m.SiteBoolean] && (node.Name == "true" || node.Name == "false") {
			return []m.Site{spanSite(m.SiteBoolean, node.Pos(), node.End(), fset, sf, nil, ranges)}
		}

	case *ast.UnaryExpr:
		if enabled[m.SiteBoolean] && node.Op == token.NOT {
			inner := nodeText(fset, sf.Content, node.X.Pos(), node.X.End())
			return []m.Site{spanSite(m.SiteBoolean, node.Pos(), node.End(), fset, sf, []string{inner}, ranges)}
		}
	}

	return nil
}

// funcBodySite derives the simplest-value body replacements for a function.
// A function whose return types cannot be derived yields no site rather than
// a guess.
func funcBodySite(decl *ast.FuncDecl, fset *token.FileSet, sf m.SourceFile) []m.Site {
	if decl.Body == nil {
		return nil
	}

	variants, ok := zeroReturnVariants(decl.Type)
	if !ok {
		slog.Debug("skipping function body with underivable return type", "file", sf.Path, "func", funcDeclName(decl))
		return nil
	}

	site := spanSite(m.SiteFuncBody, decl.Body.Pos(), decl.Body.End(), fset, sf, variants, nil)
	site.Enclosing = funcDeclName(decl)

	return []m.Site{site}
}

func binaryOpSite(expr *ast.BinaryExpr, fset *token.FileSet, sf m.SourceFile, enabled map[m.SiteCategory]bool, ranges []funcRange) []m.Site {
	var category m.SiteCategory

	switch expr.Op {
	case token.LSS, token.LEQ, token.GTR, token.GEQ, token.EQL, token.NEQ:
		category = m.SiteComparison
	case token.ADD, token.SUB, token.MUL, token.QUO:
		category = m.SiteArithmetic
	default:
		return nil
	}

	if !enabled[category] {
		return nil
	}

	opEnd := expr.OpPos + token.Pos(len(expr.Op.String()))

	return []m.Site{spanSite(category, expr.OpPos, opEnd, fset, sf, nil, ranges)}
}

// spanSite builds a site for the byte range [pos, end) in sf.
func spanSite(category m.SiteCategory, pos, end token.Pos, fset *token.FileSet, sf m.SourceFile, payload []string, ranges []funcRange) m.Site {
	position := fset.Position(pos)
	span := m.Span{
		Start:  position.Offset,
		End:    fset.Position(end).Offset,
		Line:   position.Line,
		Column: position.Column,
	}

	return m.Site{
		File:      sf,
		Category:  category,
		Span:      span,
		OrigText:  string(sf.Content[span.Start:span.End]),
		Payload:   payload,
		Enclosing: enclosingName(ranges, span.Start),
	}
}

func nodeText(fset *token.FileSet, content []byte, pos, end token.Pos) string {
	return string(content[fset.Position(pos).Offset:fset.Position(end).Offset])
}

// zeroReturnVariants derives the return-statement variants for a function
// signature: one comma-joined expression list per variant, or "" for a
// function with no results. ok is false when any result type has no
// derivable simplest value.
func zeroReturnVariants(funcType *ast.FuncType) ([]string, bool) {
	if funcType.Results == nil || len(funcType.Results.List) == 0 {
		return []string{""}, true
	}

	var exprs []string

	for _, field := range funcType.Results.List {
		expr, ok := zeroExprForType(field.Type)
		if !ok {
			return nil, false
		}

		// A field may declare several names sharing one type.
		count := len(field.Names)
		if count == 0 {
			count = 1
		}

		for i := 0; i < count; i++ {
			exprs = append(exprs, expr)
		}
	}

	// A single bool result gets both constant bodies, mirroring the two
	// directions a predicate can be wrong in.
	if len(exprs) == 1 && exprs[0] == "false" {
		return []string{"false", "true"}, true
	}

	return []string{strings.Join(exprs, ", ")}, true
}

// zeroExprForType returns the simplest value expression for a result type,
// or ok=false when it cannot be determined from syntax alone.
func zeroExprForType(expr ast.Expr) (string, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return zeroExprForIdent(t.Name)

	case *ast.StarExpr, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.InterfaceType:
		return "nil", true

	case *ast.ArrayType:
		// Slices are nilable; fixed-size arrays would need the printed type.
		if t.Len == nil {
			return "nil", true
		}

		return "", false

	default:
		return "", false
	}
}

func zeroExprForIdent(name string) (string, bool) {
	switch name {
	case "bool":
		return "false", true
	case "string":
		return `""`, true
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"byte", "rune", "float32", "float64", "complex64", "complex128":
		return "0", true
	case "error", "any":
		return "nil", true
	default:
		// A named type could be anything; never guess.
		return "", false
	}
}
