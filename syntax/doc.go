// Package syntax implements an immutable, full-fidelity syntax tree.
//
// # Overview
//
// Trees come in two layers. The green layer is made of [GreenNode] values:
// immutable, position-independent elements that know only their kind,
// their children and the width of the text they cover. Nodes, tokens and
// trivia are all green nodes. Because a green node has no parent and no
// offset, an unchanged subtree can be shared by any number of trees.
//
// The red layer wraps a green tree with [SyntaxNode], [SyntaxToken] and
// [SyntaxTrivia] facades that add a parent and an absolute position.
// Facades are created lazily as the tree is walked.
//
//	┌─────────────┐  NewRoot   ┌─────────────┐
//	│ GreenNode   │───────────▶│ SyntaxNode  │
//	│ (shared)    │◀───────────│ (positioned)│
//	└─────────────┘   Green    └─────────────┘
//
// # Fidelity
//
// Every byte of the source belongs to exactly one token or piece of
// trivia, so FullText of a root reproduces the parsed text exactly.
// Trivia attaches to tokens: trailing trivia runs up to and including the
// first end of line, everything after it leads the next token.
// Comments and skipped input may be structured trivia whose content is
// itself a node; see [SyntaxTrivia.Structure].
//
// # Annotations
//
// An [Annotation] is an identity-keyed tag attached to a green element
// with WithAdditionalAnnotations. Annotations travel with the green node,
// so they survive any edit that reuses it. [GetAnnotatedNodesAndTokens]
// and [GetAnnotatedTrivia] find them again, skipping subtrees that carry
// none.
//
// # Editing
//
// Trees are never modified. ReplaceNode, ReplaceToken, ReplaceTrivia and
// [RewriteTokens] return new roots that share every untouched green node
// with the original.
package syntax
