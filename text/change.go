package text

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOverlappingChanges is returned by Apply when changes are out of order
// or overlap each other.
var ErrOverlappingChanges = errors.New("changes overlap or are out of order")

// ErrChangeOutOfRange is returned by Apply when a change does not fit the text.
var ErrChangeOutOfRange = errors.New("change out of range")

// Change is a single literal replacement of Span with NewText.
type Change struct {
	Span    Span
	NewText string
}

func NewChange(span Span, newText string) Change {
	return Change{Span: span, NewText: newText}
}

func (c Change) IsInsertion() bool {
	return c.Span.Length == 0 && c.NewText != ""
}

func (c Change) IsDeletion() bool {
	return c.Span.Length > 0 && c.NewText == ""
}

func (c Change) String() string {
	return fmt.Sprintf("%s %q", c.Span, c.NewText)
}

// Apply applies changes to src. Spans refer to positions in src; changes
// must be sorted by position and must not overlap.
func Apply(src string, changes []Change) (string, error) {
	var b strings.Builder
	b.Grow(len(src))
	pos := 0
	for i, c := range changes {
		if c.Span.Start < pos {
			return "", fmt.Errorf("change %d at %s: %w", i, c.Span, ErrOverlappingChanges)
		}
		if c.Span.End() > len(src) {
			return "", fmt.Errorf("change %d at %s (text length %d): %w", i, c.Span, len(src), ErrChangeOutOfRange)
		}
		b.WriteString(src[pos:c.Span.Start])
		b.WriteString(c.NewText)
		pos = c.Span.End()
	}
	b.WriteString(src[pos:])
	return b.String(), nil
}
