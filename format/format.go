// Package format normalizes the layout of Java source trees.
//
// The formatter never touches token text. It only rewrites the trivia
// around tokens: indentation follows brace depth, members and statements
// go on their own lines, spacing between tokens on a line is normalized and
// runs of blank lines are capped. Comments stay where they are, relative to
// the tokens around them.
//
// Formatting produces a new tree. Every token whose trivia changed carries
// the formatter's annotation, and the edits that turn the original text into
// the formatted one are obtained by diffing the two trees:
//
//	f := format.New()
//	formatted := f.Format(root)
//	edits, err := treediff.GetChanges(ctx, formatted, root)
package format

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/syntax"
	"github.com/dhamidi/greentree/text"
	"github.com/dhamidi/greentree/treediff"
)

// AnnotationKind is the kind of the annotation attached to reformatted
// tokens.
const AnnotationKind = "format"

// ErrSyntax is returned by Source for input that does not parse cleanly.
var ErrSyntax = errors.New("source has syntax errors")

type Option func(*Formatter)

// WithIndent sets the string used for one level of indentation. The
// default is four spaces.
func WithIndent(indent string) Option {
	return func(f *Formatter) {
		f.indent = indent
	}
}

// WithMaxBlankLines caps the number of consecutive blank lines kept
// between members and statements. The default is 1.
func WithMaxBlankLines(n int) Option {
	return func(f *Formatter) {
		f.maxBlankLines = max(n, 0)
	}
}

// Formatter rewrites trivia. It holds no per-tree state and may be used
// concurrently.
type Formatter struct {
	indent        string
	maxBlankLines int
	annotation    *syntax.Annotation
}

func New(opts ...Option) *Formatter {
	f := &Formatter{
		indent:        "    ",
		maxBlankLines: 1,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.annotation = syntax.NewAnnotation(AnnotationKind, "")
	return f
}

// Annotation returns the annotation this formatter attaches to every token
// whose trivia it changed.
func (f *Formatter) Annotation() *syntax.Annotation {
	return f.annotation
}

// Format returns a new root whose tokens carry normalized trivia. Subtrees
// in which nothing changed are shared with root.
func (f *Formatter) Format(root *syntax.SyntaxNode) *syntax.SyntaxNode {
	var tokens []syntax.SyntaxToken
	for tok := range root.DescendantTokens() {
		tokens = append(tokens, tok)
	}
	l := newLayout(f, tokens)
	l.run()

	i := 0
	return syntax.RewriteTokens(root, func(tok syntax.SyntaxToken) *syntax.GreenNode {
		t := l.trivia[i]
		i++
		if !t.changed {
			return nil
		}
		g := tok.Green().WithLeadingTrivia(t.leading...).WithTrailingTrivia(t.trailing...)
		return g.WithAdditionalAnnotations(f.annotation)
	})
}

// Edits formats root and returns the changes that turn its text into the
// formatted text, in root's coordinates.
func (f *Formatter) Edits(ctx context.Context, root *syntax.SyntaxNode, opts ...treediff.Option) ([]text.Change, error) {
	changes, err := treediff.GetChanges(ctx, f.Format(root), root, opts...)
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return changes, nil
}

// Source parses src and returns it formatted. Input with syntax errors is
// rejected with ErrSyntax.
func (f *Formatter) Source(src string) (string, error) {
	root := parser.ParseTree(src)
	if diags := root.Diagnostics(); len(diags) > 0 {
		return "", fmt.Errorf("%w: %s", ErrSyntax, diags[0])
	}
	return f.Format(root).FullText(), nil
}
