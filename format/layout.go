package format

import (
	"strings"

	"github.com/dhamidi/greentree/syntax"
)

type tokenTrivia struct {
	leading  []*syntax.GreenNode
	trailing []*syntax.GreenNode
	changed  bool
}

// layout decides the trivia of every token in document order. The trivia
// between two adjacent tokens is laid out as one gap and then split the
// way the parser splits it: up to and including the first end of line
// trails the earlier token, the rest leads the later one.
type layout struct {
	f      *Formatter
	tokens []syntax.SyntaxToken
	trivia []tokenTrivia
	depth  int
}

// comment is any trivia that is not whitespace or an end of line, together
// with the number of line breaks that preceded it.
type comment struct {
	trivia       *syntax.GreenNode
	breaksBefore int
}

func newLayout(f *Formatter, tokens []syntax.SyntaxToken) *layout {
	l := &layout{
		f:      f,
		tokens: tokens,
		trivia: make([]tokenTrivia, len(tokens)),
	}
	for i, tok := range tokens {
		l.trivia[i].leading = tok.Green().LeadingTrivia()
		l.trivia[i].trailing = tok.Green().TrailingTrivia()
	}
	return l
}

func (l *layout) run() {
	prev := -1
	for i, tok := range l.tokens {
		if tok.IsMissing() {
			continue
		}
		if isBrace(tok, syntax.KindRBrace) {
			l.depth = max(l.depth-1, 0)
		}
		if prev < 0 {
			l.setLeading(i, l.gap(syntax.SyntaxToken{}, tok))
		} else {
			out := l.gap(l.tokens[prev], tok)
			split := len(out)
			for j, tr := range out {
				if tr.Kind() == syntax.KindEndOfLineTrivia {
					split = j + 1
					break
				}
			}
			l.setTrailing(prev, out[:split:split])
			l.setLeading(i, out[split:])
		}
		if isBrace(tok, syntax.KindLBrace) {
			l.depth++
		}
		prev = i
	}
}

func (l *layout) setLeading(i int, trivia []*syntax.GreenNode) {
	t := &l.trivia[i]
	if triviaText(t.leading) != triviaText(trivia) {
		t.leading = trivia
		t.changed = true
	}
}

func (l *layout) setTrailing(i int, trivia []*syntax.GreenNode) {
	t := &l.trivia[i]
	if triviaText(t.trailing) != triviaText(trivia) {
		t.trailing = trivia
		t.changed = true
	}
}

func triviaText(list []*syntax.GreenNode) string {
	var b strings.Builder
	for _, tr := range list {
		b.WriteString(tr.FullText())
	}
	return b.String()
}

// collect gathers the comments of a gap. breaks counts the line breaks
// after the last comment.
func collect(lists ...[]*syntax.GreenNode) (comments []comment, breaks int) {
	for _, list := range lists {
		for _, tr := range list {
			switch tr.Kind() {
			case syntax.KindEndOfLineTrivia:
				breaks++
			case syntax.KindWhitespaceTrivia:
			default:
				comments = append(comments, comment{trivia: tr, breaksBefore: breaks})
				breaks = 0
			}
		}
	}
	return comments, breaks
}

// gap lays out the trivia between prev and cur. A zero prev means cur is
// the first token of the file.
func (l *layout) gap(prev, cur syntax.SyntaxToken) []*syntax.GreenNode {
	first := prev.IsZero()
	var comments []comment
	var breaks int
	if first {
		comments, breaks = collect(cur.Green().LeadingTrivia())
	} else {
		comments, breaks = collect(prev.Green().TrailingTrivia(), cur.Green().LeadingTrivia())
	}

	structural := !first && breakRequired(prev, cur)
	depth := l.depth
	if !structural && !first && !isBrace(cur, syntax.KindRBrace) {
		depth++
	}
	commentDepth := depth
	if isBrace(cur, syntax.KindRBrace) {
		commentDepth = l.depth + 1
	}

	var out []*syntax.GreenNode
	content := !first
	lineStart := first
	emitted := 0
	newline := func(n int) {
		if !content {
			return
		}
		for ; emitted < n; emitted++ {
			out = append(out, syntax.NewTrivia(syntax.KindEndOfLineTrivia, "\n"))
		}
		if emitted > 0 {
			lineStart = true
		}
	}
	indent := func(depth int) {
		if s := strings.Repeat(l.f.indent, depth); s != "" {
			out = append(out, syntax.NewTrivia(syntax.KindWhitespaceTrivia, s))
		}
	}
	space := func() {
		out = append(out, syntax.NewTrivia(syntax.KindWhitespaceTrivia, " "))
	}

	for i, c := range comments {
		if c.breaksBefore > 0 {
			allowBlank := i > 0 || !isBrace(prev, syntax.KindLBrace)
			newline(1 + l.blank(c.breaksBefore, allowBlank))
		}
		switch {
		case lineStart:
			indent(commentDepth)
		case !noSpaceAfter(prev) || i > 0:
			space()
		}
		out = append(out, c.trivia)
		content = true
		lineStart = false
		emitted = 0
		if c.trivia.Kind() == syntax.KindLineCommentTrivia {
			newline(1)
		}
	}

	switch {
	case cur.Kind() == syntax.KindEOF:
		newline(1)
		return out
	case structural:
		allowBlank := !isBrace(prev, syntax.KindLBrace) && !isBrace(cur, syntax.KindRBrace)
		newline(1 + l.blank(breaks, allowBlank))
	case len(comments) > 0 && breaks > 0:
		newline(1)
	}

	switch {
	case lineStart:
		if content {
			indent(depth)
		}
	case len(comments) > 0:
		if !noSpaceBefore(cur) {
			space()
		}
	case spaceBetween(prev, cur):
		space()
	}
	return out
}

// blank returns how many blank lines to keep for a run of breaks line
// breaks.
func (l *layout) blank(breaks int, allowed bool) int {
	if !allowed || breaks < 2 {
		return 0
	}
	return min(breaks-1, l.f.maxBlankLines)
}

// isBrace reports whether tok is a brace of the given kind that delimits
// a block or a type body.
func isBrace(tok syntax.SyntaxToken, kind syntax.Kind) bool {
	if tok.Kind() != kind || tok.Parent() == nil {
		return false
	}
	switch tok.Parent().Kind() {
	case syntax.KindBlock, syntax.KindClassDecl, syntax.KindInterfaceDecl:
		return true
	}
	return false
}

// breakRequired reports whether cur must start a new line.
func breakRequired(prev, cur syntax.SyntaxToken) bool {
	switch {
	case cur.Kind() == syntax.KindEOF:
		return true
	case isBrace(prev, syntax.KindLBrace):
		return !isBrace(cur, syntax.KindRBrace) || cur.Parent() != prev.Parent()
	case isBrace(cur, syntax.KindRBrace):
		return true
	case prev.Kind() == syntax.KindSemicolon:
		return true
	case isBrace(prev, syntax.KindRBrace):
		switch cur.Kind() {
		case syntax.KindElse, syntax.KindSemicolon, syntax.KindRParen,
			syntax.KindComma, syntax.KindDot:
			return false
		}
		return true
	}
	return false
}

func noSpaceBefore(cur syntax.SyntaxToken) bool {
	switch cur.Kind() {
	case syntax.KindSemicolon, syntax.KindComma, syntax.KindRParen,
		syntax.KindLBracket, syntax.KindRBracket, syntax.KindDot:
		return true
	}
	return false
}

func noSpaceAfter(prev syntax.SyntaxToken) bool {
	switch prev.Kind() {
	case syntax.KindLParen, syntax.KindLBracket, syntax.KindDot, syntax.KindNot:
		return true
	case syntax.KindMinus, syntax.KindPlus:
		return prev.Parent() != nil && prev.Parent().Kind() == syntax.KindUnaryExpr
	}
	return false
}

// spaceBetween reports whether two tokens on the same line are separated
// by a space.
func spaceBetween(prev, cur syntax.SyntaxToken) bool {
	if noSpaceBefore(cur) || noSpaceAfter(prev) {
		return false
	}
	if cur.Kind() == syntax.KindLParen {
		switch prev.Kind() {
		case syntax.KindIdentifier, syntax.KindThis:
			return false
		}
	}
	return true
}
