package syntax

import "github.com/dhamidi/greentree/text"

// SyntaxTrivia is a positioned view of one piece of trivia attached to a
// token.
type SyntaxTrivia struct {
	token    SyntaxToken
	green    *GreenNode
	position int
	index    int
}

func (t SyntaxTrivia) IsZero() bool {
	return t.green == nil
}

func (t SyntaxTrivia) Green() *GreenNode {
	return t.green
}

func (t SyntaxTrivia) Kind() Kind {
	if t.green == nil {
		return KindNone
	}
	return t.green.kind
}

// Token returns the token the trivia is attached to.
func (t SyntaxTrivia) Token() SyntaxToken {
	return t.token
}

// IsLeading reports whether the trivia precedes its token's text.
func (t SyntaxTrivia) IsLeading() bool {
	return t.index < len(t.token.green.leading)
}

func (t SyntaxTrivia) Position() int {
	return t.position
}

// Span and FullSpan coincide for trivia.
func (t SyntaxTrivia) Span() text.Span {
	return text.NewSpan(t.position, t.green.fullWidth)
}

func (t SyntaxTrivia) FullSpan() text.Span {
	return t.Span()
}

func (t SyntaxTrivia) Text() string {
	return t.green.FullText()
}

func (t SyntaxTrivia) HasStructure() bool {
	return t.green.structure != nil
}

// Structure returns the node carried by structured trivia, positioned at
// the trivia, or nil. Every call builds a fresh facade.
func (t SyntaxTrivia) Structure() *SyntaxNode {
	if t.green.structure == nil {
		return nil
	}
	owner := t
	n := newSyntaxNode(t.green.structure, nil, t.position, 0)
	n.parentTrivia = &owner
	return n
}

func (t SyntaxTrivia) GetAnnotations() []*Annotation {
	return t.green.GetAnnotations()
}

func (t SyntaxTrivia) HasAnnotation(ann *Annotation) bool {
	return t.green.HasAnnotation(ann)
}

// WithAdditionalAnnotations returns a copy of the trivia's green node
// carrying anns; trivia cannot stand on its own, so the result is green.
func (t SyntaxTrivia) WithAdditionalAnnotations(anns ...*Annotation) *GreenNode {
	return t.green.WithAdditionalAnnotations(anns...)
}

func (t SyntaxTrivia) String() string {
	return t.Text()
}
