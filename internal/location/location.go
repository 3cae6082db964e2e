// Package location models source positions and spans used throughout the
// lexer, parser, checker, and diagnostics.
package location

import "fmt"

// Position is a single point in source text. Offset is 0-based; Line and
// Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String renders a position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open-by-convention range between two positions; both ends
// are inclusive of the characters they name (Start is the first character,
// End is the last character of the span).
type Span struct {
	Start Position
	End   Position
}

// Union merges two spans into the smallest span covering both.
func Union(a, b Span) Span {
	start := a.Start
	if b.Start.Offset < start.Offset {
		start = b.Start
	}
	end := a.End
	if b.End.Offset > end.Offset {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// LastChar returns a span covering only the final character of s.
func LastChar(s Span) Span {
	return Span{Start: s.End, End: s.End}
}
