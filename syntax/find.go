package syntax

import (
	"fmt"
	"iter"
)

// GetAnnotatedNodesAndTokens returns the nodes and tokens under root,
// root included, that carry ann. Subtrees without annotations are skipped
// without being materialized. Each element is yielded at most once, in
// document order, and structured trivia is searched as well.
//
// The returned sequence can be iterated any number of times.
func GetAnnotatedNodesAndTokens(root *SyntaxNode, ann *Annotation) (iter.Seq[NodeOrToken], error) {
	if root == nil {
		return nil, fmt.Errorf("annotated nodes: nil root: %w", ErrInvalidArgument)
	}
	if ann == nil {
		return nil, fmt.Errorf("annotated nodes: nil annotation: %w", ErrInvalidArgument)
	}
	return annotatedNodesAndTokens(root, func(g *GreenNode) bool { return g.HasAnnotation(ann) }), nil
}

// GetAnnotatedNodesAndTokensOfKind is GetAnnotatedNodesAndTokens matching
// any annotation of the given kind.
func GetAnnotatedNodesAndTokensOfKind(root *SyntaxNode, kind string) (iter.Seq[NodeOrToken], error) {
	if root == nil {
		return nil, fmt.Errorf("annotated nodes: nil root: %w", ErrInvalidArgument)
	}
	return annotatedNodesAndTokens(root, func(g *GreenNode) bool { return g.HasAnnotationsOfKind(kind) }), nil
}

func annotatedNodesAndTokens(root *SyntaxNode, match func(*GreenNode) bool) iter.Seq[NodeOrToken] {
	return func(yield func(NodeOrToken) bool) {
		w := &walker{
			descend:    (*GreenNode).ContainsAnnotations,
			intoTrivia: true,
			onElement: func(e NodeOrToken) bool {
				if match(e.Green()) {
					return yield(e)
				}
				return true
			},
		}
		w.node(root)
	}
}

// GetAnnotatedTrivia returns the trivia under root that carries ann, with
// the same guarantees as GetAnnotatedNodesAndTokens.
func GetAnnotatedTrivia(root *SyntaxNode, ann *Annotation) (iter.Seq[SyntaxTrivia], error) {
	if root == nil {
		return nil, fmt.Errorf("annotated trivia: nil root: %w", ErrInvalidArgument)
	}
	if ann == nil {
		return nil, fmt.Errorf("annotated trivia: nil annotation: %w", ErrInvalidArgument)
	}
	return annotatedTrivia(root, func(g *GreenNode) bool { return g.HasAnnotation(ann) }), nil
}

func GetAnnotatedTriviaOfKind(root *SyntaxNode, kind string) (iter.Seq[SyntaxTrivia], error) {
	if root == nil {
		return nil, fmt.Errorf("annotated trivia: nil root: %w", ErrInvalidArgument)
	}
	return annotatedTrivia(root, func(g *GreenNode) bool { return g.HasAnnotationsOfKind(kind) }), nil
}

func annotatedTrivia(root *SyntaxNode, match func(*GreenNode) bool) iter.Seq[SyntaxTrivia] {
	return func(yield func(SyntaxTrivia) bool) {
		w := &walker{
			descend:    (*GreenNode).ContainsAnnotations,
			intoTrivia: true,
			onTrivia: func(t SyntaxTrivia) bool {
				if match(t.green) {
					return yield(t)
				}
				return true
			},
		}
		w.node(root)
	}
}
