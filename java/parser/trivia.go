package parser

import (
	"strings"

	"github.com/dhamidi/greentree/syntax"
)

// lexeme is a significant token together with the trivia that belongs to
// it, not yet turned into a green token.
type lexeme struct {
	kind     syntax.Kind
	text     string
	offset   int
	leading  []*syntax.GreenNode
	trailing []*syntax.GreenNode
}

// scan tokenizes src and distributes trivia: a token's trailing trivia
// runs up to and including the first end of line after it, everything
// else leads the next token. The result always ends with an EOF lexeme,
// which collects the trivia at the end of the file.
func scan(src string, docComments bool) []lexeme {
	l := NewLexer(src)
	var result []lexeme
	var pending []*syntax.GreenNode
	for {
		tok := l.NextToken()
		if tok.Kind.IsTrivia() {
			pending = append(pending, triviaGreen(tok, docComments))
			continue
		}
		lx := lexeme{kind: tok.Kind, text: tok.Text, offset: tok.Offset, leading: pending}
		pending = nil
		if tok.Kind == syntax.KindEOF {
			return append(result, lx)
		}
		for {
			saved := l.pos
			next := l.NextToken()
			if !next.Kind.IsTrivia() {
				l.pos = saved
				break
			}
			lx.trailing = append(lx.trailing, triviaGreen(next, docComments))
			if next.Kind == syntax.KindEndOfLineTrivia {
				break
			}
		}
		result = append(result, lx)
	}
}

func triviaGreen(tok Token, docComments bool) *syntax.GreenNode {
	if tok.Kind != syntax.KindDocCommentTrivia {
		return syntax.NewTrivia(tok.Kind, tok.Text)
	}
	if !docComments {
		return syntax.NewTrivia(syntax.KindBlockCommentTrivia, tok.Text)
	}
	return syntax.NewStructuredTrivia(syntax.KindDocCommentTrivia, parseDocComment(tok.Text))
}

// parseDocComment splits a /** ... */ comment into its delimiters, block
// tag names such as @param, and the text between them.
func parseDocComment(src string) *syntax.GreenNode {
	b := syntax.NewBuilder()
	b.StartNode(syntax.KindDocComment)
	b.Token(syntax.NewToken(syntax.KindDocCommentStart, "/**", nil, nil))

	body, closed := strings.CutSuffix(src[3:], "*/")
	b.StartNode(syntax.KindList)
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] != '@' || !atTagPosition(body, i) {
			continue
		}
		end := i + 1
		for end < len(body) && isTagChar(body[end]) {
			end++
		}
		if end == i+1 {
			continue
		}
		if start < i {
			b.Token(syntax.NewToken(syntax.KindDocText, body[start:i], nil, nil))
		}
		b.Token(syntax.NewToken(syntax.KindDocTagName, body[i:end], nil, nil))
		start = end
		i = end - 1
	}
	if start < len(body) {
		b.Token(syntax.NewToken(syntax.KindDocText, body[start:], nil, nil))
	}
	b.FinishList()

	if closed {
		b.Token(syntax.NewToken(syntax.KindDocCommentEnd, "*/", nil, nil))
	} else {
		b.Missing(syntax.KindDocCommentEnd, "unterminated documentation comment")
	}
	b.FinishNode()
	return b.Finish()
}

// atTagPosition reports whether the @ at i starts a block tag: only
// whitespace and leading asterisks may precede it on its line.
func atTagPosition(s string, i int) bool {
	for j := i - 1; j >= 0; j-- {
		switch s[j] {
		case ' ', '\t', '*':
			continue
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

func isTagChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '-'
}
