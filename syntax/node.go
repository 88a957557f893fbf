package syntax

import (
	"iter"
	"sync/atomic"

	"github.com/dhamidi/greentree/text"
)

// SyntaxNode is the positioned, parent-aware view of a green node. Red
// nodes are created lazily as a tree is navigated: a child facade exists
// only after it has been asked for, and its position is derived from its
// parent's position and the widths of the preceding slots.
//
// Child facades are published once per slot with compare-and-swap, so
// concurrent readers racing to materialize the same child end up sharing
// one facade. Correctness never depends on that: facades built for the
// same slot are interchangeable.
type SyntaxNode struct {
	green        *GreenNode
	parent       *SyntaxNode
	parentTrivia *SyntaxTrivia
	position     int
	index        int
	children     []atomic.Pointer[SyntaxNode]
}

// NewRoot creates the root facade of a tree at position 0. It panics when
// green is nil or is not a node.
func NewRoot(green *GreenNode) *SyntaxNode {
	if green == nil {
		panic("syntax: NewRoot called with nil green node")
	}
	if !green.kind.IsNode() {
		panic("syntax: NewRoot called with " + green.kind.String())
	}
	return newSyntaxNode(green, nil, 0, 0)
}

func newSyntaxNode(green *GreenNode, parent *SyntaxNode, position, index int) *SyntaxNode {
	return &SyntaxNode{
		green:    green,
		parent:   parent,
		position: position,
		index:    index,
		children: make([]atomic.Pointer[SyntaxNode], len(green.slots)),
	}
}

func (n *SyntaxNode) Green() *GreenNode {
	return n.green
}

func (n *SyntaxNode) Kind() Kind {
	return n.green.kind
}

// Position is the absolute offset of the start of the node's full span.
func (n *SyntaxNode) Position() int {
	return n.position
}

// Parent returns the enclosing node, or nil for a root.
func (n *SyntaxNode) Parent() *SyntaxNode {
	return n.parent
}

// ParentTrivia returns the trivia a structured-trivia root belongs to.
func (n *SyntaxNode) ParentTrivia() (SyntaxTrivia, bool) {
	if n.parentTrivia == nil {
		return SyntaxTrivia{}, false
	}
	return *n.parentTrivia, true
}

// IndexInParent is the slot this node occupies in its parent.
func (n *SyntaxNode) IndexInParent() int {
	return n.index
}

// Root walks up the parent chain to the topmost node.
func (n *SyntaxNode) Root() *SyntaxNode {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// FullSpan covers the node including its leading and trailing trivia.
func (n *SyntaxNode) FullSpan() text.Span {
	return text.NewSpan(n.position, n.green.fullWidth)
}

// Span covers the node without its leading and trailing trivia.
func (n *SyntaxNode) Span() text.Span {
	return text.NewSpan(n.position+n.green.LeadingTriviaWidth(), n.green.Width())
}

func (n *SyntaxNode) FullText() string {
	return n.green.FullText()
}

func (n *SyntaxNode) Text() string {
	return n.green.Text()
}

func (n *SyntaxNode) String() string {
	return n.green.FullText()
}

func (n *SyntaxNode) SlotCount() int {
	return len(n.green.slots)
}

// ChildAt returns the element in slot i. An empty slot yields the zero
// NodeOrToken.
func (n *SyntaxNode) ChildAt(slot int) NodeOrToken {
	return n.childAt(slot, n.position+n.green.SlotOffset(slot))
}

func (n *SyntaxNode) childAt(slot, position int) NodeOrToken {
	g := n.green.slots[slot]
	if g == nil {
		return NodeOrToken{}
	}
	if g.kind.IsToken() {
		return NodeOrToken{token: SyntaxToken{parent: n, green: g, position: position, index: slot}}
	}
	return NodeOrToken{node: n.childNode(slot, position)}
}

func (n *SyntaxNode) childNode(slot, position int) *SyntaxNode {
	if c := n.children[slot].Load(); c != nil {
		return c
	}
	c := newSyntaxNode(n.green.slots[slot], n, position, slot)
	if n.children[slot].CompareAndSwap(nil, c) {
		return c
	}
	return n.children[slot].Load()
}

// ChildNodesAndTokens returns the node's non-empty slots in order.
func (n *SyntaxNode) ChildNodesAndTokens() []NodeOrToken {
	var result []NodeOrToken
	for c := range n.childSeq() {
		result = append(result, c)
	}
	return result
}

// ChildNodes returns only the children that are nodes.
func (n *SyntaxNode) ChildNodes() []*SyntaxNode {
	var result []*SyntaxNode
	for c := range n.childSeq() {
		if c.IsNode() {
			result = append(result, c.node)
		}
	}
	return result
}

// childSeq iterates the non-empty slots keeping a running offset, so a
// full pass costs one addition per slot.
func (n *SyntaxNode) childSeq() iter.Seq[NodeOrToken] {
	return func(yield func(NodeOrToken) bool) {
		pos := n.position
		for i, g := range n.green.slots {
			if g == nil {
				continue
			}
			if !yield(n.childAt(i, pos)) {
				return
			}
			pos += g.fullWidth
		}
	}
}

// FirstChildOfKind returns the first child node of the given kind.
func (n *SyntaxNode) FirstChildOfKind(kind Kind) *SyntaxNode {
	for c := range n.childSeq() {
		if c.IsNode() && c.node.Kind() == kind {
			return c.node
		}
	}
	return nil
}

// Ancestors yields the parent chain, nearest first. Roots of structured
// trivia continue through the token that owns the trivia.
func (n *SyntaxNode) Ancestors() iter.Seq[*SyntaxNode] {
	return func(yield func(*SyntaxNode) bool) {
		cur := n
		for {
			next := cur.parent
			if next == nil && cur.parentTrivia != nil {
				next = cur.parentTrivia.token.parent
			}
			if next == nil || !yield(next) {
				return
			}
			cur = next
		}
	}
}

// FirstToken returns the first token of the node, skipping missing
// zero-width tokens when includeMissing is false.
func (n *SyntaxNode) FirstToken(includeMissing bool) (SyntaxToken, bool) {
	for c := range n.childSeq() {
		if c.IsToken() {
			if includeMissing || !c.token.IsMissing() {
				return c.token, true
			}
			continue
		}
		if tok, ok := c.node.FirstToken(includeMissing); ok {
			return tok, true
		}
	}
	return SyntaxToken{}, false
}

// LastToken is the mirror image of FirstToken.
func (n *SyntaxNode) LastToken(includeMissing bool) (SyntaxToken, bool) {
	children := n.ChildNodesAndTokens()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		if c.IsToken() {
			if includeMissing || !c.token.IsMissing() {
				return c.token, true
			}
			continue
		}
		if tok, ok := c.node.LastToken(includeMissing); ok {
			return tok, true
		}
	}
	return SyntaxToken{}, false
}

// FindToken returns the token whose full span contains position. A
// position at the very end of the node maps to the last token.
func (n *SyntaxNode) FindToken(position int) (SyntaxToken, bool) {
	if !n.FullSpan().Contains(position) && position != n.FullSpan().End() {
		return SyntaxToken{}, false
	}
	cur := n
	for {
		var next *SyntaxNode
		var last NodeOrToken
		for c := range cur.childSeq() {
			if c.Green().fullWidth == 0 {
				continue
			}
			last = c
			if c.FullSpan().Contains(position) {
				if c.IsToken() {
					return c.token, true
				}
				next = c.node
				break
			}
		}
		if next == nil {
			if last.IsToken() {
				return last.token, true
			}
			if last.IsNode() {
				next = last.node
			} else {
				return SyntaxToken{}, false
			}
		}
		cur = next
	}
}

// LeadingTrivia returns the leading trivia of the node's first token.
func (n *SyntaxNode) LeadingTrivia() []SyntaxTrivia {
	if tok, ok := n.FirstToken(false); ok {
		return tok.LeadingTrivia()
	}
	return nil
}

// TrailingTrivia returns the trailing trivia of the node's last token.
func (n *SyntaxNode) TrailingTrivia() []SyntaxTrivia {
	if tok, ok := n.LastToken(false); ok {
		return tok.TrailingTrivia()
	}
	return nil
}

func (n *SyntaxNode) ContainsDiagnostics() bool {
	return n.green.ContainsDiagnostics()
}

func (n *SyntaxNode) ContainsAnnotations() bool {
	return n.green.ContainsAnnotations()
}

func (n *SyntaxNode) GetAnnotations() []*Annotation {
	return n.green.GetAnnotations()
}

func (n *SyntaxNode) HasAnnotation(ann *Annotation) bool {
	return n.green.HasAnnotation(ann)
}

// WithAdditionalAnnotations returns a new root over a copy of the node's
// green node carrying anns in addition to its current annotations.
func (n *SyntaxNode) WithAdditionalAnnotations(anns ...*Annotation) *SyntaxNode {
	return NewRoot(n.green.WithAdditionalAnnotations(anns...))
}

// Diagnostics returns every diagnostic in the subtree, including those on
// tokens and trivia, with absolute offsets, in document order.
func (n *SyntaxNode) Diagnostics() []Diagnostic {
	if !n.green.ContainsDiagnostics() {
		return nil
	}
	var result []Diagnostic
	collectDiagnostics(n.green, n.position, &result)
	return result
}

func collectDiagnostics(g *GreenNode, position int, out *[]Diagnostic) {
	if g == nil || !g.ContainsDiagnostics() {
		return
	}
	for _, d := range g.diagnostics {
		d.Offset += position
		*out = append(*out, d)
	}
	pos := position
	for _, t := range g.leading {
		collectDiagnostics(t, pos, out)
		pos += t.fullWidth
	}
	pos += len(g.text)
	for _, t := range g.trailing {
		collectDiagnostics(t, pos, out)
		pos += t.fullWidth
	}
	collectDiagnostics(g.structure, position, out)
	pos = position
	for _, s := range g.slots {
		if s == nil {
			continue
		}
		collectDiagnostics(s, pos, out)
		pos += s.fullWidth
	}
}
