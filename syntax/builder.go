package syntax

import "fmt"

// Builder assembles a green tree from a stream of parse events, the way a
// recursive-descent parser naturally produces them: open a node, emit its
// children in order, close it. Every emitted child fills the next slot of
// the innermost open node.
//
// Builder panics on misuse, such as closing a node that was never opened
// or finishing with nodes still open.
type Builder struct {
	stack    []frame
	children []*GreenNode
}

type frame struct {
	kind  Kind
	start int
}

// Checkpoint marks a position in the current node's children; see
// StartNodeAt.
type Checkpoint int

func NewBuilder() *Builder {
	return &Builder{}
}

// StartNode opens a node of the given kind.
func (b *Builder) StartNode(kind Kind) {
	if !kind.IsNode() {
		panic(fmt.Sprintf("syntax: StartNode called with %s", kind))
	}
	b.stack = append(b.stack, frame{kind: kind, start: len(b.children)})
}

// Checkpoint returns a marker for the current position.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNodeAt opens a node whose first child is whatever was emitted at
// checkpoint cp. Expression parsers use it to wrap an operand that has
// already been built once they see an operator.
func (b *Builder) StartNodeAt(cp Checkpoint, kind Kind) {
	if !kind.IsNode() {
		panic(fmt.Sprintf("syntax: StartNodeAt called with %s", kind))
	}
	if len(b.stack) > 0 && int(cp) < b.stack[len(b.stack)-1].start {
		panic("syntax: checkpoint is outside the open node")
	}
	b.stack = append(b.stack, frame{kind: kind, start: int(cp)})
}

// FinishNode closes the innermost open node and emits it as a child of
// its parent.
func (b *Builder) FinishNode() *GreenNode {
	f := b.pop()
	g := NewNode(f.kind, b.children[f.start:]...)
	b.children = append(b.children[:f.start], g)
	return g
}

// FinishList closes the innermost open node, which must be a list. An
// empty list is emitted as an empty slot.
func (b *Builder) FinishList() *GreenNode {
	f := b.pop()
	if f.kind != KindList {
		panic(fmt.Sprintf("syntax: FinishList called on %s", f.kind))
	}
	if f.start == len(b.children) {
		b.children = append(b.children, nil)
		return nil
	}
	g := NewList(b.children[f.start:]...)
	b.children = append(b.children[:f.start], g)
	return g
}

func (b *Builder) pop() frame {
	if len(b.stack) == 0 {
		panic("syntax: no open node")
	}
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	return f
}

// Token emits a token.
func (b *Builder) Token(g *GreenNode) {
	g.mustBeToken("Token")
	b.children = append(b.children, g)
}

// Missing emits a zero-width token of the given kind carrying an error
// diagnostic with message msg.
func (b *Builder) Missing(kind Kind, msg string) *GreenNode {
	g := NewMissingToken(kind, nil, nil).WithDiagnostics(NewError(0, 0, "%s", msg))
	b.children = append(b.children, g)
	return g
}

// Nil emits an empty slot.
func (b *Builder) Nil() {
	b.children = append(b.children, nil)
}

// Add emits a prebuilt node or token.
func (b *Builder) Add(g *GreenNode) {
	if g != nil && g.kind.IsTrivia() {
		panic("syntax: trivia cannot fill a slot")
	}
	b.children = append(b.children, g)
}

// Depth is the number of open nodes.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Finish returns the single root node that was built.
func (b *Builder) Finish() *GreenNode {
	if len(b.stack) != 0 {
		panic(fmt.Sprintf("syntax: Finish called with %d open nodes", len(b.stack)))
	}
	if len(b.children) != 1 || b.children[0] == nil || !b.children[0].kind.IsNode() {
		panic(fmt.Sprintf("syntax: Finish expects one root node, have %d elements", len(b.children)))
	}
	return b.children[0]
}
