package treediff

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dhamidi/greentree/syntax"
	"github.com/dhamidi/greentree/text"
)

// ErrCanceled wraps the context error when a diff is abandoned.
var ErrCanceled = errors.New("diff canceled")

// GetChanges returns the text changes that turn oldRoot's text into
// newRoot's text. Spans are in old-tree coordinates, sorted and
// non-overlapping, so text.Apply(oldRoot.FullText(), changes) yields
// newRoot.FullText().
func GetChanges(ctx context.Context, newRoot, oldRoot *syntax.SyntaxNode, opts ...Option) ([]text.Change, error) {
	d, err := run(ctx, newRoot, oldRoot, opts)
	if err != nil {
		return nil, fmt.Errorf("get changes: %w", err)
	}
	changes := make([]text.Change, 0, len(d.records))
	for _, r := range d.records {
		changes = append(changes, text.Change{
			Span:    text.SpanFromBounds(d.oldBase+r.oldStart, d.oldBase+r.oldEnd),
			NewText: d.newText[r.newStart:r.newEnd],
		})
	}
	return changes, nil
}

// GetChangedSpans returns the spans of newRoot whose text differs from
// oldRoot. Pure deletions leave no trace in the new text and are omitted;
// touching spans are merged.
func GetChangedSpans(ctx context.Context, newRoot, oldRoot *syntax.SyntaxNode, opts ...Option) ([]text.Span, error) {
	d, err := run(ctx, newRoot, oldRoot, opts)
	if err != nil {
		return nil, fmt.Errorf("get changed spans: %w", err)
	}
	spans := []text.Span{}
	for _, r := range d.records {
		if r.newStart == r.newEnd {
			continue
		}
		s := text.SpanFromBounds(d.newBase+r.newStart, d.newBase+r.newEnd)
		if n := len(spans); n > 0 && spans[n-1].End() >= s.Start {
			spans[n-1] = spans[n-1].Union(s)
			continue
		}
		spans = append(spans, s)
	}
	return spans, nil
}

// record is a changed region, relative to the start of each root.
type record struct {
	oldStart, oldEnd int
	newStart, newEnd int
}

type differ struct {
	ctx      context.Context
	maxCells int

	oldText, newText string
	oldBase, newBase int
	records          []record
}

func run(ctx context.Context, newRoot, oldRoot *syntax.SyntaxNode, opts []Option) (*differ, error) {
	if newRoot == nil || oldRoot == nil {
		return nil, fmt.Errorf("nil root: %w", syntax.ErrInvalidArgument)
	}
	d := &differ{
		ctx:      ctx,
		maxCells: DefaultMaxLCSCells,
		oldText:  oldRoot.FullText(),
		newText:  newRoot.FullText(),
		oldBase:  oldRoot.Position(),
		newBase:  newRoot.Position(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.diff(oldRoot.Green(), newRoot.Green(), 0, 0); err != nil {
		return nil, err
	}
	d.finish()
	return d, nil
}

func (d *differ) canceled() error {
	if err := d.ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return nil
}

func (d *differ) add(oldStart, oldEnd, newStart, newEnd int) {
	d.records = append(d.records, record{oldStart, oldEnd, newStart, newEnd})
}

// diff compares two green elements starting at the given offsets.
func (d *differ) diff(before, after *syntax.GreenNode, oldPos, newPos int) error {
	if err := d.canceled(); err != nil {
		return err
	}
	if before.IsEquivalentTo(after) {
		return nil
	}
	if before.Kind() != after.Kind() || !before.IsNode() {
		d.add(oldPos, oldPos+before.FullWidth(), newPos, newPos+after.FullWidth())
		return nil
	}

	o := flatten(before, oldPos)
	n := flatten(after, newPos)
	oEnd, nEnd := oldPos+before.FullWidth(), newPos+after.FullWidth()

	// common suffix first, so that among equal siblings the later ones
	// are kept
	for len(o) > 0 && len(n) > 0 && o[len(o)-1].g.IsEquivalentTo(n[len(n)-1].g) {
		oEnd, nEnd = o[len(o)-1].pos, n[len(n)-1].pos
		o, n = o[:len(o)-1], n[:len(n)-1]
	}
	for len(o) > 0 && len(n) > 0 && o[0].g.IsEquivalentTo(n[0].g) {
		o, n = o[1:], n[1:]
	}
	if len(o) == 0 && len(n) == 0 {
		return nil
	}
	oStart, nStart := oEnd, nEnd
	if len(o) > 0 {
		oStart = o[0].pos
	}
	if len(n) > 0 {
		nStart = n[0].pos
	}

	mid := side{o, oStart, oEnd}
	other := side{n, nStart, nEnd}
	matches, ok := d.align(mid, other, equivalent)
	if !ok {
		d.add(oStart, oEnd, nStart, nEnd)
		return nil
	}
	return eachGap(mid, other, matches, d.gap)
}

// gap handles a run of children that the equivalence alignment left
// unmatched, pairing children of the same kind.
func (d *differ) gap(o, n side) error {
	if len(o.elems) == 0 || len(n.elems) == 0 {
		d.add(o.start, o.end, n.start, n.end)
		return nil
	}
	pairs, ok := d.align(o, n, sameKind)
	if !ok {
		d.add(o.start, o.end, n.start, n.end)
		return nil
	}
	return eachGap(o, n, pairs, func(o, n side) error {
		if len(o.elems) > 0 || len(n.elems) > 0 {
			d.add(o.start, o.end, n.start, n.end)
		}
		return nil
	}, func(i, j int) error {
		return d.diff(o.elems[i].g, n.elems[j].g, o.elems[i].pos, n.elems[j].pos)
	})
}

type elem struct {
	g   *syntax.GreenNode
	pos int
}

// side is a contiguous run of children covering [start, end).
type side struct {
	elems      []elem
	start, end int
}

// sub returns the run of elements [i, j).
func (s side) sub(i, j int) side {
	start, end := s.end, s.end
	if i < len(s.elems) {
		start = s.elems[i].pos
	}
	if j < len(s.elems) {
		end = s.elems[j].pos
	}
	return side{s.elems[i:j], start, end}
}

func flatten(g *syntax.GreenNode, pos int) []elem {
	var result []elem
	for i := 0; i < g.SlotCount(); i++ {
		c := g.Slot(i)
		if c == nil {
			continue
		}
		result = append(result, elem{c, pos})
		pos += c.FullWidth()
	}
	return result
}

func equivalent(a, b *syntax.GreenNode) bool {
	return a.IsEquivalentTo(b)
}

func sameKind(a, b *syntax.GreenNode) bool {
	return a.Kind() == b.Kind()
}

type match struct{ i, j int }

// align computes a longest common subsequence of o and n under eq and
// returns the matched index pairs in order. The table is filled over
// prefixes and walked back from the end, so later elements are matched in
// preference to earlier ones. It reports false when the table would
// exceed the configured size.
func (d *differ) align(o, n side, eq func(a, b *syntax.GreenNode) bool) ([]match, bool) {
	rows, cols := len(o.elems)+1, len(n.elems)+1
	if rows*cols > d.maxCells {
		return nil, false
	}
	table := make([]int32, rows*cols)
	at := func(i, j int) int32 { return table[i*cols+j] }
	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			switch {
			case eq(o.elems[i-1].g, n.elems[j-1].g):
				table[i*cols+j] = at(i-1, j-1) + 1
			case at(i-1, j) >= at(i, j-1):
				table[i*cols+j] = at(i-1, j)
			default:
				table[i*cols+j] = at(i, j-1)
			}
		}
	}

	var matches []match
	i, j := rows-1, cols-1
	for i > 0 && j > 0 {
		switch {
		case eq(o.elems[i-1].g, n.elems[j-1].g) && at(i, j) == at(i-1, j-1)+1:
			matches = append(matches, match{i - 1, j - 1})
			i--
			j--
		case at(i-1, j) >= at(i, j-1):
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(matches)-1; l < r; l, r = l+1, r-1 {
		matches[l], matches[r] = matches[r], matches[l]
	}
	return matches, true
}

// eachGap visits the unmatched runs between matches with onGap and, when
// given, each match with onMatch, in document order.
func eachGap(o, n side, matches []match, onGap func(o, n side) error, onMatch ...func(i, j int) error) error {
	oi, ni := 0, 0
	for _, m := range matches {
		if m.i > oi || m.j > ni {
			if err := onGap(o.sub(oi, m.i), n.sub(ni, m.j)); err != nil {
				return err
			}
		}
		for _, f := range onMatch {
			if err := f(m.i, m.j); err != nil {
				return err
			}
		}
		oi, ni = m.i+1, m.j+1
	}
	if oi < len(o.elems) || ni < len(n.elems) {
		return onGap(o.sub(oi, len(o.elems)), n.sub(ni, len(n.elems)))
	}
	return nil
}

// finish merges touching records and shrinks each one to the text that
// actually differs.
func (d *differ) finish() {
	var merged []record
	for _, r := range d.records {
		if n := len(merged); n > 0 && merged[n-1].oldEnd == r.oldStart && merged[n-1].newEnd == r.newStart {
			merged[n-1].oldEnd, merged[n-1].newEnd = r.oldEnd, r.newEnd
			continue
		}
		merged = append(merged, r)
	}

	d.records = merged[:0]
	for _, r := range merged {
		r = reduce(r, d.oldText, d.newText)
		if r.oldStart == r.oldEnd && r.newStart == r.newEnd {
			continue
		}
		d.records = append(d.records, r)
	}
}

// reduce trims the common suffix, then the common prefix, of the old and
// new text of r. Cuts fall on rune boundaries.
func reduce(r record, oldText, newText string) record {
	o := oldText[r.oldStart:r.oldEnd]
	n := newText[r.newStart:r.newEnd]

	k := 0
	for k < len(o) && k < len(n) && o[len(o)-1-k] == n[len(n)-1-k] {
		k++
	}
	for k > 0 && !utf8.RuneStart(o[len(o)-k]) {
		k--
	}
	o, n = o[:len(o)-k], n[:len(n)-k]
	r.oldEnd -= k
	r.newEnd -= k

	k = 0
	for k < len(o) && k < len(n) && o[k] == n[k] {
		k++
	}
	for k > 0 && !(boundary(o, k) && boundary(n, k)) {
		k--
	}
	r.oldStart += k
	r.newStart += k
	return r
}

func boundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}
