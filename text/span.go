// Package text holds the position primitives shared by the syntax tree and
// the differencing engine: half-open byte spans, literal text changes and a
// line map for converting offsets to line/column pairs.
package text

import "fmt"

// Span is a half-open byte range [Start, Start+Length).
type Span struct {
	Start  int
	Length int
}

func NewSpan(start, length int) Span {
	if start < 0 || length < 0 {
		panic(fmt.Sprintf("text: invalid span (%d,%d)", start, length))
	}
	return Span{Start: start, Length: length}
}

// SpanFromBounds builds the span [start, end).
func SpanFromBounds(start, end int) Span {
	return NewSpan(start, end-start)
}

func (s Span) End() int {
	return s.Start + s.Length
}

func (s Span) IsEmpty() bool {
	return s.Length == 0
}

// Contains reports whether offset lies inside the span. The end is exclusive.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

func (s Span) OverlapsWith(other Span) bool {
	start := max(s.Start, other.Start)
	end := min(s.End(), other.End())
	return start < end
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	return SpanFromBounds(min(s.Start, other.Start), max(s.End(), other.End()))
}

func (s Span) String() string {
	return fmt.Sprintf("[%d..%d)", s.Start, s.End())
}
