package model

// Path represents a file system path.
type Path string

// Span is a half-open byte range [Start, End) inside one source file, plus
// the line/column of its first byte. Offsets are computed against the
// unmutated file at discovery time so a textual patch can be applied to a
// fresh copy without reparsing.
type Span struct {
	Start  int
	End    int
	Line   int
	Column int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Before reports whether s starts before other, breaking ties by end offset.
// Used to keep site inventories in source order.
func (s Span) Before(other Span) bool {
	if s.Start != other.Start {
		return s.Start < other.Start
	}

	return s.End < other.End
}
