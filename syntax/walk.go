package syntax

import "iter"

// walker drives a depth-first traversal in document order. Within a token,
// leading trivia comes first, then the token, then trailing trivia.
type walker struct {
	// descend gates entering the children of a node, the trivia of a token
	// and the structure of trivia. Nil means always descend.
	descend    func(*GreenNode) bool
	intoTrivia bool
	onElement  func(NodeOrToken) bool
	onTrivia   func(SyntaxTrivia) bool
}

func (w *walker) enter(g *GreenNode) bool {
	return w.descend == nil || w.descend(g)
}

func (w *walker) node(n *SyntaxNode) bool {
	if w.onElement != nil && !w.onElement(NodeElement(n)) {
		return false
	}
	if !w.enter(n.green) {
		return true
	}
	for c := range n.childSeq() {
		if c.IsNode() {
			if !w.node(c.node) {
				return false
			}
		} else if !w.token(c.token) {
			return false
		}
	}
	return true
}

func (w *walker) token(t SyntaxToken) bool {
	visitTrivia := (w.intoTrivia || w.onTrivia != nil) && w.enter(t.green)
	if visitTrivia {
		for _, tr := range t.LeadingTrivia() {
			if !w.trivia(tr) {
				return false
			}
		}
	}
	if w.onElement != nil && !w.onElement(TokenElement(t)) {
		return false
	}
	if visitTrivia {
		for _, tr := range t.TrailingTrivia() {
			if !w.trivia(tr) {
				return false
			}
		}
	}
	return true
}

func (w *walker) trivia(tr SyntaxTrivia) bool {
	if w.onTrivia != nil && !w.onTrivia(tr) {
		return false
	}
	if w.intoTrivia && tr.HasStructure() && w.enter(tr.green) {
		return w.node(tr.Structure())
	}
	return true
}

// DescendantNodesAndTokens yields every node and token below n in
// document order. With descendIntoTrivia, the contents of structured
// trivia are included as well.
func (n *SyntaxNode) DescendantNodesAndTokens(descendIntoTrivia bool) iter.Seq[NodeOrToken] {
	return func(yield func(NodeOrToken) bool) {
		w := &walker{
			intoTrivia: descendIntoTrivia,
			onElement: func(e NodeOrToken) bool {
				if e.node == n {
					return true
				}
				return yield(e)
			},
		}
		w.node(n)
	}
}

// DescendantNodesAndTokensAndSelf is DescendantNodesAndTokens preceded by n.
func (n *SyntaxNode) DescendantNodesAndTokensAndSelf(descendIntoTrivia bool) iter.Seq[NodeOrToken] {
	return func(yield func(NodeOrToken) bool) {
		w := &walker{intoTrivia: descendIntoTrivia, onElement: yield}
		w.node(n)
	}
}

func (n *SyntaxNode) DescendantNodes() iter.Seq[*SyntaxNode] {
	return func(yield func(*SyntaxNode) bool) {
		for e := range n.DescendantNodesAndTokens(false) {
			if e.IsNode() && !yield(e.node) {
				return
			}
		}
	}
}

func (n *SyntaxNode) DescendantTokens() iter.Seq[SyntaxToken] {
	return func(yield func(SyntaxToken) bool) {
		for e := range n.DescendantNodesAndTokens(false) {
			if e.IsToken() && !yield(e.token) {
				return
			}
		}
	}
}

// DescendantTrivia yields all trivia in the subtree, optionally including
// trivia nested inside structured trivia.
func (n *SyntaxNode) DescendantTrivia(descendIntoTrivia bool) iter.Seq[SyntaxTrivia] {
	return func(yield func(SyntaxTrivia) bool) {
		w := &walker{intoTrivia: descendIntoTrivia, onTrivia: yield}
		w.node(n)
	}
}
