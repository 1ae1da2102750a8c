package domain

import (
	"bytes"
	"fmt"

	"gnaw.dev/pkg/gnaw/internal/adapter"
	m "gnaw.dev/pkg/gnaw/internal/model"
)

// ApplyMutant overwrites only the bytes of the mutant's span inside the
// isolated copy rooted at copyRoot, leaving every other byte of the file
// untouched. The span was computed against the original unmutated file, so
// the target must still contain the original text; anything else means the
// copy was reused or corrupted and the trial must not proceed.
func ApplyMutant(fs adapter.SourceFSAdapter, copyRoot m.Path, mutant m.Mutant) error {
	target := fs.JoinPath(string(copyRoot), string(mutant.Site.File.Path))

	content, err := fs.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read copy of %s: %w", mutant.Site.File.Path, err)
	}

	patched, err := patchSpan(content, mutant.Site.Span, mutant.Site.OrigText, mutant.Replacement)
	if err != nil {
		return fmt.Errorf("apply mutant %s: %w", mutant.ID, err)
	}

	info, err := fs.FileInfo(target)
	if err != nil {
		return fmt.Errorf("stat copy of %s: %w", mutant.Site.File.Path, err)
	}

	if err := fs.WriteFile(target, patched, info.Mode()); err != nil {
		return fmt.Errorf("write mutated %s: %w", mutant.Site.File.Path, err)
	}

	return nil
}

// patchSpan substitutes replacement for the span's bytes after verifying the
// span still holds the expected original text.
func patchSpan(content []byte, span m.Span, original, replacement string) ([]byte, error) {
	if span.Start < 0 || span.End > len(content) || span.Start > span.End {
		return nil, fmt.Errorf("span [%d,%d) out of range for %d bytes", span.Start, span.End, len(content))
	}

	if got := content[span.Start:span.End]; !bytes.Equal(got, []byte(original)) {
		return nil, fmt.Errorf("span text %q does not match original %q; copy is not pristine", got, original)
	}

	patched := make([]byte, 0, len(content)-span.Len()+len(replacement))
	patched = append(patched, content[:span.Start]...)
	patched = append(patched, replacement...)
	patched = append(patched, content[span.End:]...)

	return patched, nil
}
