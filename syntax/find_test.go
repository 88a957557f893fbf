package syntax

import (
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect[T any](seq iter.Seq[T]) []T {
	var result []T
	for v := range seq {
		result = append(result, v)
	}
	return result
}

func TestGetAnnotatedNodesAndTokens(t *testing.T) {
	ann := NewAnnotation("rename", "")
	other := NewAnnotation("rename", "")

	a := classDecl("A")
	name := a.Slot(2).WithAdditionalAnnotations(ann, ann)
	a = a.WithSlot(2, name).WithAdditionalAnnotations(ann)
	b := classDecl("B").WithAdditionalAnnotations(other)
	root := NewRoot(compilationUnit(a, b))

	seq, err := GetAnnotatedNodesAndTokens(root, ann)
	require.NoError(t, err)

	found := collect(seq)
	require.Len(t, found, 2, "each element at most once")
	assert.Equal(t, KindClassDecl, found[0].Kind())
	assert.Equal(t, KindIdentifier, found[1].Kind())
	assert.Equal(t, "A", found[1].AsToken().Text())

	assert.Len(t, collect(seq), 2, "sequence is restartable")

	byKind, err := GetAnnotatedNodesAndTokensOfKind(root, "rename")
	require.NoError(t, err)
	assert.Len(t, collect(byKind), 3)
}

func TestGetAnnotatedNodesAndTokensEmpty(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A")))
	seq, err := GetAnnotatedNodesAndTokens(root, NewAnnotation("none", ""))
	require.NoError(t, err)
	assert.Empty(t, collect(seq))
}

func TestAnnotatedRootIsIncluded(t *testing.T) {
	ann := NewAnnotation("root", "")
	root := NewRoot(compilationUnit(classDecl("A")).WithAdditionalAnnotations(ann))
	seq, err := GetAnnotatedNodesAndTokens(root, ann)
	require.NoError(t, err)
	found := collect(seq)
	require.Len(t, found, 1)
	assert.Same(t, root, found[0].AsNode())
}

func TestResolversRejectNilArguments(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A")))
	ann := NewAnnotation("k", "")

	tests := []struct {
		name string
		call func() error
	}{
		{"nodes nil root", func() error { _, err := GetAnnotatedNodesAndTokens(nil, ann); return err }},
		{"nodes nil annotation", func() error { _, err := GetAnnotatedNodesAndTokens(root, nil); return err }},
		{"nodes of kind nil root", func() error { _, err := GetAnnotatedNodesAndTokensOfKind(nil, "k"); return err }},
		{"trivia nil root", func() error { _, err := GetAnnotatedTrivia(nil, ann); return err }},
		{"trivia nil annotation", func() error { _, err := GetAnnotatedTrivia(root, nil); return err }},
		{"trivia of kind nil root", func() error { _, err := GetAnnotatedTriviaOfKind(nil, "k"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestGetAnnotatedTrivia(t *testing.T) {
	ann := NewAnnotation("space", "")

	inner := NewNode(KindSkippedTokens, tok(KindSemicolon, ";", ws(" ").WithAdditionalAnnotations(ann)))
	skipped := NewStructuredTrivia(KindSkippedTokensTrivia, inner)
	classTok := NewToken(KindClass, "class", []*GreenNode{skipped}, []*GreenNode{ws(" ").WithAdditionalAnnotations(ann)})
	root := NewRoot(compilationUnit(classDecl("A").WithSlot(1, classTok)))

	seq, err := GetAnnotatedTrivia(root, ann)
	require.NoError(t, err)
	found := collect(seq)
	require.Len(t, found, 2)
	assert.Equal(t, 1, found[0].Position(), "trivia inside structured trivia comes first")
	assert.Equal(t, 7, found[1].Position())
	for _, tr := range found {
		assert.Equal(t, " ", tr.Text())
		assert.True(t, tr.HasAnnotation(ann))
	}

	byKind, err := GetAnnotatedTriviaOfKind(root, "space")
	require.NoError(t, err)
	assert.Len(t, collect(byKind), 2)
}
