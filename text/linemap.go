package text

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line and column. Column counts bytes unless the
// position came from one of the UTF16 methods.
type Position struct {
	Line   int
	Column int
}

// LineMap records the start offset of every line of a text.
type LineMap struct {
	src    string
	starts []int
}

func NewLineMap(src string) *LineMap {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineMap{src: src, starts: starts}
}

func (m *LineMap) LineCount() int {
	return len(m.starts)
}

// LineStart returns the offset where line begins. Lines past the end clamp
// to the text length.
func (m *LineMap) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(m.starts) {
		return len(m.src)
	}
	return m.starts[line]
}

// LineEnd returns the offset just past the newline ending line, or the text
// length for the last line.
func (m *LineMap) LineEnd(line int) int {
	if line+1 < len(m.starts) {
		return m.starts[line+1]
	}
	return len(m.src)
}

// LineOf returns the zero-based line containing offset.
func (m *LineMap) LineOf(offset int) int {
	offset = clamp(offset, 0, len(m.src))
	return sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > offset }) - 1
}

func (m *LineMap) Position(offset int) Position {
	offset = clamp(offset, 0, len(m.src))
	line := m.LineOf(offset)
	return Position{Line: line, Column: offset - m.starts[line]}
}

func (m *LineMap) Offset(pos Position) int {
	start := m.LineStart(pos.Line)
	return clamp(start+pos.Column, start, m.LineEnd(pos.Line))
}

// PositionUTF16 converts offset to a position whose column is measured in
// UTF-16 code units, as language server clients expect.
func (m *LineMap) PositionUTF16(offset int) Position {
	offset = clamp(offset, 0, len(m.src))
	line := m.LineOf(offset)
	col := 0
	for _, r := range m.src[m.starts[line]:offset] {
		col += utf16.RuneLen(r)
	}
	return Position{Line: line, Column: col}
}

// OffsetUTF16 is the inverse of PositionUTF16. Columns past the end of the
// line clamp to the line end, excluding the newline.
func (m *LineMap) OffsetUTF16(pos Position) int {
	if pos.Line >= len(m.starts) {
		return len(m.src)
	}
	offset := m.LineStart(pos.Line)
	end := m.LineEnd(pos.Line)
	col := 0
	for offset < end && col < pos.Column {
		if m.src[offset] == '\n' {
			break
		}
		r, size := utf8.DecodeRuneInString(m.src[offset:])
		col += utf16.RuneLen(r)
		offset += size
	}
	return offset
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
