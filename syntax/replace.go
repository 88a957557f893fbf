package syntax

import (
	"fmt"
	"slices"
)

// ReplaceNode returns a new root over a copy of n in which old, a node in
// n's subtree, is replaced by replacement. Ancestors of old are rebuilt
// bottom-up; every other green node is shared with the original tree, so
// annotations on untouched elements survive. A nil replacement empties
// the slot.
func (n *SyntaxNode) ReplaceNode(old *SyntaxNode, replacement *GreenNode) (*SyntaxNode, error) {
	if old == nil {
		return nil, fmt.Errorf("replace node: nil node: %w", ErrInvalidArgument)
	}
	if replacement != nil && !replacement.kind.IsNode() {
		return nil, fmt.Errorf("replace node: replacement is %s: %w", replacement.kind, ErrInvalidArgument)
	}
	if old == n {
		if replacement == nil {
			return nil, fmt.Errorf("replace node: cannot remove the receiver: %w", ErrInvalidArgument)
		}
		return NewRoot(replacement), nil
	}
	g, err := rebuildFrom(old, n, replacement)
	if err != nil {
		return nil, fmt.Errorf("replace node %s: %w", old.Kind(), err)
	}
	return NewRoot(g), nil
}

// ReplaceToken is ReplaceNode for a token.
func (n *SyntaxNode) ReplaceToken(old SyntaxToken, replacement *GreenNode) (*SyntaxNode, error) {
	if old.IsZero() {
		return nil, fmt.Errorf("replace token: zero token: %w", ErrInvalidArgument)
	}
	if replacement == nil || !replacement.kind.IsToken() {
		return nil, fmt.Errorf("replace token: replacement must be a token: %w", ErrInvalidArgument)
	}
	g, err := replaceTokenGreen(old, n, replacement)
	if err != nil {
		return nil, fmt.Errorf("replace token %s: %w", old.Kind(), err)
	}
	return NewRoot(g), nil
}

// ReplaceTrivia replaces one piece of trivia; a nil replacement removes it.
func (n *SyntaxNode) ReplaceTrivia(old SyntaxTrivia, replacement *GreenNode) (*SyntaxNode, error) {
	if old.IsZero() {
		return nil, fmt.Errorf("replace trivia: zero trivia: %w", ErrInvalidArgument)
	}
	if replacement != nil && !replacement.kind.IsTrivia() {
		return nil, fmt.Errorf("replace trivia: replacement is %s: %w", replacement.kind, ErrInvalidArgument)
	}
	tok := old.token.green
	var newTok *GreenNode
	switch {
	case replacement != nil:
		newTok = tok.withTriviaAt(old.index, replacement)
	case old.IsLeading():
		newTok = tok.WithLeadingTrivia(slices.Delete(slices.Clone(tok.leading), old.index, old.index+1)...)
	default:
		i := old.index - len(tok.leading)
		newTok = tok.WithTrailingTrivia(slices.Delete(slices.Clone(tok.trailing), i, i+1)...)
	}
	g, err := replaceTokenGreen(old.token, n, newTok)
	if err != nil {
		return nil, fmt.Errorf("replace trivia %s: %w", old.Kind(), err)
	}
	return NewRoot(g), nil
}

func replaceTokenGreen(old SyntaxToken, stop *SyntaxNode, replacement *GreenNode) (*GreenNode, error) {
	if old.parent == nil {
		return nil, ErrNotDescendant
	}
	parent := old.parent.green.WithSlot(old.index, replacement)
	if old.parent == stop {
		return parent, nil
	}
	return rebuildFrom(old.parent, stop, parent)
}

// rebuildFrom substitutes g for from's green node and rebuilds every
// ancestor up to and including stop, returning stop's new green node.
func rebuildFrom(from, stop *SyntaxNode, g *GreenNode) (*GreenNode, error) {
	cur := from
	for cur != stop {
		switch {
		case cur.parent != nil:
			g = cur.parent.green.WithSlot(cur.index, g)
			cur = cur.parent
		case cur.parentTrivia != nil:
			if g == nil {
				return nil, fmt.Errorf("structured trivia needs a node: %w", ErrInvalidArgument)
			}
			tr := cur.parentTrivia
			tok := tr.token.green.withTriviaAt(tr.index, tr.green.withStructure(g))
			return replaceTokenGreen(tr.token, stop, tok)
		default:
			return nil, ErrNotDescendant
		}
	}
	return g, nil
}

// RewriteTokens returns a new root in which every token of n for which fn
// returns a non-nil green token is replaced by it. Paths without
// replacements keep their original green nodes.
func RewriteTokens(n *SyntaxNode, fn func(SyntaxToken) *GreenNode) *SyntaxNode {
	return NewRoot(rewriteTokens(n, fn))
}

func rewriteTokens(n *SyntaxNode, fn func(SyntaxToken) *GreenNode) *GreenNode {
	var slots []*GreenNode
	for c := range n.childSeq() {
		orig := c.Green()
		var repl *GreenNode
		if c.IsToken() {
			repl = fn(c.token)
			if repl == nil {
				repl = orig
			}
		} else {
			repl = rewriteTokens(c.node, fn)
		}
		if repl != orig && slots == nil {
			slots = slices.Clone(n.green.slots)
		}
		if slots != nil {
			idx := c.token.index
			if c.IsNode() {
				idx = c.node.index
			}
			slots[idx] = repl
		}
	}
	if slots == nil {
		return n.green
	}
	return n.green.withSlots(slots)
}
