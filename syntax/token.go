package syntax

import "github.com/dhamidi/greentree/text"

// SyntaxToken is a positioned view of a green token. Tokens are small
// values; two SyntaxToken values for the same slot compare equal.
type SyntaxToken struct {
	parent   *SyntaxNode
	green    *GreenNode
	position int
	index    int
}

// NewTokenRoot wraps a detached green token at position 0.
func NewTokenRoot(green *GreenNode) SyntaxToken {
	green.mustBeToken("NewTokenRoot")
	return SyntaxToken{green: green}
}

func (t SyntaxToken) IsZero() bool {
	return t.green == nil
}

func (t SyntaxToken) Green() *GreenNode {
	return t.green
}

func (t SyntaxToken) Kind() Kind {
	if t.green == nil {
		return KindNone
	}
	return t.green.kind
}

func (t SyntaxToken) Parent() *SyntaxNode {
	return t.parent
}

func (t SyntaxToken) IndexInParent() int {
	return t.index
}

func (t SyntaxToken) Position() int {
	return t.position
}

// Text is the token's own text without trivia.
func (t SyntaxToken) Text() string {
	return t.green.text
}

func (t SyntaxToken) FullText() string {
	return t.green.FullText()
}

func (t SyntaxToken) IsMissing() bool {
	return t.green.IsMissing()
}

func (t SyntaxToken) FullSpan() text.Span {
	return text.NewSpan(t.position, t.green.fullWidth)
}

func (t SyntaxToken) Span() text.Span {
	return text.NewSpan(t.position+triviaWidth(t.green.leading), len(t.green.text))
}

func (t SyntaxToken) LeadingTrivia() []SyntaxTrivia {
	result := make([]SyntaxTrivia, 0, len(t.green.leading))
	pos := t.position
	for i, g := range t.green.leading {
		result = append(result, SyntaxTrivia{token: t, green: g, position: pos, index: i})
		pos += g.fullWidth
	}
	return result
}

func (t SyntaxToken) TrailingTrivia() []SyntaxTrivia {
	result := make([]SyntaxTrivia, 0, len(t.green.trailing))
	pos := t.Span().End()
	for i, g := range t.green.trailing {
		result = append(result, SyntaxTrivia{token: t, green: g, position: pos, index: len(t.green.leading) + i})
		pos += g.fullWidth
	}
	return result
}

// AllTrivia returns leading then trailing trivia.
func (t SyntaxToken) AllTrivia() []SyntaxTrivia {
	return append(t.LeadingTrivia(), t.TrailingTrivia()...)
}

func (t SyntaxToken) GetAnnotations() []*Annotation {
	return t.green.GetAnnotations()
}

func (t SyntaxToken) HasAnnotation(ann *Annotation) bool {
	return t.green.HasAnnotation(ann)
}

// WithAdditionalAnnotations returns a detached copy of the token carrying
// anns in addition to its current annotations.
func (t SyntaxToken) WithAdditionalAnnotations(anns ...*Annotation) SyntaxToken {
	return NewTokenRoot(t.green.WithAdditionalAnnotations(anns...))
}

func (t SyntaxToken) Diagnostics() []Diagnostic {
	var result []Diagnostic
	collectDiagnostics(t.green, t.position, &result)
	return result
}

func (t SyntaxToken) String() string {
	if t.green == nil {
		return ""
	}
	return t.green.FullText()
}
