package syntax

import (
	"strconv"
	"strings"
)

// Dump renders the tree one element per line, children indented by two
// spaces. Tokens show their text unless it is the kind's own spelling;
// missing tokens are marked <missing>.
func (n *SyntaxNode) Dump() string {
	var b strings.Builder
	n.dumpIndent(&b, 0, dumpOptions{})
	return b.String()
}

// DumpWithPositions is Dump with the full span of every element and the
// trivia attached to every token.
func (n *SyntaxNode) DumpWithPositions() string {
	var b strings.Builder
	n.dumpIndent(&b, 0, dumpOptions{positions: true, trivia: true})
	return b.String()
}

type dumpOptions struct {
	positions bool
	trivia    bool
}

func writeIndent(b *strings.Builder, indent int) {
	for i := 0; i < indent; i++ {
		b.WriteString("  ")
	}
}

func writeSpan(b *strings.Builder, start, end int) {
	b.WriteString(" [")
	b.WriteString(strconv.Itoa(start))
	b.WriteString("-")
	b.WriteString(strconv.Itoa(end))
	b.WriteString("]")
}

func writeDiagnostics(b *strings.Builder, g *GreenNode) {
	for _, d := range g.diagnostics {
		b.WriteString(" ERROR: ")
		b.WriteString(d.Message)
	}
}

func (n *SyntaxNode) dumpIndent(b *strings.Builder, indent int, opts dumpOptions) {
	writeIndent(b, indent)
	b.WriteString(n.Kind().String())
	if opts.positions {
		writeSpan(b, n.position, n.FullSpan().End())
	}
	writeDiagnostics(b, n.green)
	b.WriteString("\n")

	for c := range n.childSeq() {
		if c.IsNode() {
			c.node.dumpIndent(b, indent+1, opts)
			continue
		}
		tok := c.token
		if opts.trivia {
			for _, tr := range tok.LeadingTrivia() {
				tr.dumpIndent(b, indent+1, opts)
			}
		}
		writeIndent(b, indent+1)
		b.WriteString(tok.Kind().String())
		if opts.positions {
			writeSpan(b, tok.position, tok.FullSpan().End())
		}
		switch {
		case tok.IsMissing():
			b.WriteString(" <missing>")
		case tok.Text() != "" && tok.Text() != tok.Kind().String():
			b.WriteString(" ")
			b.WriteString(tok.Text())
		}
		writeDiagnostics(b, tok.green)
		b.WriteString("\n")
		if opts.trivia {
			for _, tr := range tok.TrailingTrivia() {
				tr.dumpIndent(b, indent+1, opts)
			}
		}
	}
}

func (t SyntaxTrivia) dumpIndent(b *strings.Builder, indent int, opts dumpOptions) {
	writeIndent(b, indent)
	b.WriteString(t.Kind().String())
	if opts.positions {
		writeSpan(b, t.position, t.Span().End())
	}
	if !t.HasStructure() {
		b.WriteString(" ")
		b.WriteString(strconv.Quote(t.Text()))
	}
	writeDiagnostics(b, t.green)
	b.WriteString("\n")
	if s := t.Structure(); s != nil {
		s.dumpIndent(b, indent+1, opts)
	}
}
