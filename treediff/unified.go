package treediff

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/dhamidi/greentree/text"
)

// region is a line-aligned area of the old text and its counterpart in
// the new text, both given as half-open line ranges.
type region struct {
	oldFrom, oldTo int
	newFrom, newTo int
}

// Unified renders changes against oldText as a unified diff with the
// given number of context lines. A final line without a newline is
// rendered as if it had one.
func Unified(oldName, newName, oldText string, changes []text.Change, context int) (string, error) {
	fd, err := FileDiff(oldName, newName, oldText, changes, context)
	if err != nil {
		return "", err
	}
	if len(fd.Hunks) == 0 {
		return "", nil
	}
	out, err := diff.PrintFileDiff(fd)
	if err != nil {
		return "", fmt.Errorf("print diff: %w", err)
	}
	return string(out), nil
}

// FileDiff builds the hunks of a unified diff from changes.
func FileDiff(oldName, newName, oldText string, changes []text.Change, context int) (*diff.FileDiff, error) {
	newText, err := text.Apply(oldText, changes)
	if err != nil {
		return nil, fmt.Errorf("unified diff: %w", err)
	}
	if context < 0 {
		context = 0
	}
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	regions := lineRegions(oldText, newText, changes)

	fd := &diff.FileDiff{OrigName: oldName, NewName: newName}
	for len(regions) > 0 {
		// regions closer than twice the context share a hunk
		n := 1
		for n < len(regions) && regions[n].oldFrom-regions[n-1].oldTo <= 2*context {
			n++
		}
		fd.Hunks = append(fd.Hunks, hunk(oldLines, newLines, regions[:n], context))
		regions = regions[n:]
	}
	return fd, nil
}

func hunk(oldLines, newLines []string, regions []region, context int) *diff.Hunk {
	first, last := regions[0], regions[len(regions)-1]
	from := max(first.oldFrom-context, 0)
	to := min(last.oldTo+context, len(oldLines))
	newFrom := first.newFrom - (first.oldFrom - from)

	var body bytes.Buffer
	writeLines(&body, ' ', oldLines[from:first.oldFrom])
	newCount := first.oldFrom - from
	for i, r := range regions {
		if i > 0 {
			between := oldLines[regions[i-1].oldTo:r.oldFrom]
			writeLines(&body, ' ', between)
			newCount += len(between)
		}
		writeLines(&body, '-', oldLines[r.oldFrom:r.oldTo])
		writeLines(&body, '+', newLines[r.newFrom:r.newTo])
		newCount += r.newTo - r.newFrom
	}
	trailing := oldLines[last.oldTo:to]
	writeLines(&body, ' ', trailing)
	newCount += len(trailing)

	h := &diff.Hunk{
		OrigStartLine: int32(from + 1),
		OrigLines:     int32(to - from),
		NewStartLine:  int32(newFrom + 1),
		NewLines:      int32(newCount),
		Body:          body.Bytes(),
	}
	// an empty side names the line before it
	if h.OrigLines == 0 {
		h.OrigStartLine--
	}
	if h.NewLines == 0 {
		h.NewStartLine--
	}
	return h
}

func writeLines(b *bytes.Buffer, prefix byte, lines []string) {
	for _, l := range lines {
		b.WriteByte(prefix)
		b.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			b.WriteByte('\n')
		}
	}
}

func splitLines(s string) []string {
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineRegions widens every change to whole lines and merges the ones
// that end up sharing a line.
func lineRegions(oldText, newText string, changes []text.Change) []region {
	oldMap, newMap := text.NewLineMap(oldText), text.NewLineMap(newText)
	var regions []region
	delta := 0
	for _, c := range changes {
		s, e := c.Span.Start, c.Span.End()
		start := oldMap.LineStart(oldMap.LineOf(s))
		end := e
		if !atLineStart(oldText, e) || !alignedReplacement(oldText, start, s, c.NewText) {
			end = oldMap.LineEnd(oldMap.LineOf(e))
		}
		growth := len(c.NewText) - c.Span.Length
		r := region{
			oldFrom: lineIndex(oldMap, oldText, start),
			oldTo:   lineIndex(oldMap, oldText, end),
			newFrom: lineIndex(newMap, newText, start+delta),
			newTo:   lineIndex(newMap, newText, end+delta+growth),
		}
		delta += growth

		if n := len(regions); n > 0 && regions[n-1].oldTo >= r.oldFrom {
			regions[n-1].oldTo = max(regions[n-1].oldTo, r.oldTo)
			regions[n-1].newTo = max(regions[n-1].newTo, r.newTo)
			continue
		}
		regions = append(regions, r)
	}
	return regions
}

func atLineStart(s string, offset int) bool {
	return offset == 0 || s[offset-1] == '\n'
}

// alignedReplacement reports whether replacing from s with newText keeps
// the new text line aligned at the end of the change.
func alignedReplacement(oldText string, lineStart, s int, newText string) bool {
	if newText == "" {
		return s == lineStart
	}
	return strings.HasSuffix(newText, "\n")
}

// lineIndex converts a line-aligned offset to a line number. The end of
// an unterminated last line counts as the start of the line after it.
func lineIndex(m *text.LineMap, s string, offset int) int {
	if offset == len(s) && offset > 0 && s[offset-1] != '\n' {
		return m.LineCount()
	}
	return m.LineOf(offset)
}
