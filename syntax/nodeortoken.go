package syntax

import "github.com/dhamidi/greentree/text"

// NodeOrToken holds either a node or a token. The zero value holds
// neither and stands for an empty slot.
type NodeOrToken struct {
	node  *SyntaxNode
	token SyntaxToken
}

func NodeElement(n *SyntaxNode) NodeOrToken {
	return NodeOrToken{node: n}
}

func TokenElement(t SyntaxToken) NodeOrToken {
	return NodeOrToken{token: t}
}

func (e NodeOrToken) IsNode() bool {
	return e.node != nil
}

func (e NodeOrToken) IsToken() bool {
	return e.node == nil && e.token.green != nil
}

func (e NodeOrToken) IsZero() bool {
	return e.node == nil && e.token.green == nil
}

func (e NodeOrToken) AsNode() *SyntaxNode {
	return e.node
}

func (e NodeOrToken) AsToken() SyntaxToken {
	return e.token
}

func (e NodeOrToken) Green() *GreenNode {
	if e.node != nil {
		return e.node.green
	}
	return e.token.green
}

func (e NodeOrToken) Kind() Kind {
	if g := e.Green(); g != nil {
		return g.kind
	}
	return KindNone
}

func (e NodeOrToken) Parent() *SyntaxNode {
	if e.node != nil {
		return e.node.parent
	}
	return e.token.parent
}

func (e NodeOrToken) Position() int {
	if e.node != nil {
		return e.node.position
	}
	return e.token.position
}

func (e NodeOrToken) FullSpan() text.Span {
	if e.node != nil {
		return e.node.FullSpan()
	}
	return e.token.FullSpan()
}

func (e NodeOrToken) Span() text.Span {
	if e.node != nil {
		return e.node.Span()
	}
	return e.token.Span()
}

func (e NodeOrToken) FullText() string {
	if g := e.Green(); g != nil {
		return g.FullText()
	}
	return ""
}

func (e NodeOrToken) HasAnnotation(ann *Annotation) bool {
	if g := e.Green(); g != nil {
		return g.HasAnnotation(ann)
	}
	return false
}

func (e NodeOrToken) GetAnnotations() []*Annotation {
	if g := e.Green(); g != nil {
		return g.GetAnnotations()
	}
	return []*Annotation{}
}

func (e NodeOrToken) String() string {
	return e.FullText()
}
