package syntax

import (
	"strings"
	"sync"
	"testing"

	"github.com/dhamidi/greentree/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewRoot(nil) })
	assert.Panics(t, func() { NewRoot(tok(KindIdentifier, "x")) })
}

func TestRoundTrip(t *testing.T) {
	green := compilationUnit(classDecl("A"), classDecl("B"))
	root := NewRoot(green)

	assert.Equal(t, green.FullText(), root.FullText())

	var b strings.Builder
	for tok := range root.DescendantTokens() {
		b.WriteString(tok.FullText())
	}
	assert.Equal(t, root.FullText(), b.String())
}

// checkPositions verifies that every child starts at its parent's
// position plus the widths of the preceding slots and that the children's
// texts add up to the parent's.
func checkPositions(t *testing.T, n *SyntaxNode) {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n.SlotCount(); i++ {
		c := n.ChildAt(i)
		if c.IsZero() {
			continue
		}
		want := n.Position() + n.Green().SlotOffset(i)
		if c.Position() != want {
			t.Errorf("%s slot %d at %d, want %d", n.Kind(), i, c.Position(), want)
		}
		if !n.FullSpan().ContainsSpan(c.FullSpan()) {
			t.Errorf("%s slot %d span %s outside %s", n.Kind(), i, c.FullSpan(), n.FullSpan())
		}
		b.WriteString(c.FullText())
		if c.IsNode() {
			assert.Same(t, n, c.AsNode().Parent())
			checkPositions(t, c.AsNode())
		}
	}
	if b.String() != n.FullText() {
		t.Errorf("%s children text %q, want %q", n.Kind(), b.String(), n.FullText())
	}
}

func TestPositionConsistency(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A"), classDecl("Bee"), classDecl("C")))
	checkPositions(t, root)

	for n := range root.DescendantNodes() {
		assert.True(t, n.FullSpan().ContainsSpan(n.Span()), "%s", n.Kind())
	}
}

func TestSpans(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A"), classDecl("B")))
	classes := root.ChildAt(2).AsNode().ChildNodes()
	require.Len(t, classes, 2)

	second := classes[1]
	assert.Equal(t, text.NewSpan(12, 12), second.FullSpan())
	assert.Equal(t, text.NewSpan(12, 11), second.Span())

	name := second.ChildAt(2).AsToken()
	assert.Equal(t, KindIdentifier, name.Kind())
	assert.Equal(t, text.NewSpan(18, 2), name.FullSpan())
	assert.Equal(t, text.NewSpan(18, 1), name.Span())
	assert.Equal(t, "B", name.Text())

	trailing := name.TrailingTrivia()
	require.Len(t, trailing, 1)
	assert.Equal(t, 19, trailing[0].Position())
	assert.False(t, trailing[0].IsLeading())
}

func TestEmptySlots(t *testing.T) {
	class := NewRoot(classDecl("A"))
	assert.True(t, class.ChildAt(0).IsZero())
	assert.True(t, class.ChildAt(3).IsZero())
	assert.Len(t, class.ChildNodesAndTokens(), 4)
	assert.Empty(t, class.ChildNodes())
}

func TestChildFacadesAreCached(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A")))
	assert.Same(t, root.ChildAt(2).AsNode(), root.ChildAt(2).AsNode())
}

func TestConcurrentChildMaterialization(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A"), classDecl("B"), classDecl("C")))

	const workers = 16
	results := make([][]*SyntaxNode, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range root.DescendantNodes() {
				results[w] = append(results[w], n)
			}
		}()
	}
	wg.Wait()

	for w := 1; w < workers; w++ {
		require.Len(t, results[w], len(results[0]))
		for i := range results[0] {
			assert.Same(t, results[0][i], results[w][i])
		}
	}
}

func TestFindToken(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A"), classDecl("B")))
	tests := []struct {
		pos  int
		kind Kind
		text string
	}{
		{0, KindClass, "class"},
		{5, KindClass, "class"},
		{6, KindIdentifier, "A"},
		{10, KindRBrace, "}"},
		{18, KindIdentifier, "B"},
		{24, KindRBrace, "}"},
	}
	for _, tt := range tests {
		tok, ok := root.FindToken(tt.pos)
		require.True(t, ok, "position %d", tt.pos)
		assert.Equal(t, tt.kind, tok.Kind(), "position %d", tt.pos)
		assert.Equal(t, tt.text, tok.Text(), "position %d", tt.pos)
	}

	_, ok := root.FindToken(100)
	assert.False(t, ok)
}

func TestAncestors(t *testing.T) {
	root := NewRoot(compilationUnit(classDecl("A")))
	tok, ok := root.FindToken(6)
	require.True(t, ok)

	var kinds []Kind
	for a := range tok.Parent().Ancestors() {
		kinds = append(kinds, a.Kind())
	}
	assert.Equal(t, []Kind{KindList, KindCompilationUnit}, kinds)
	assert.Same(t, root, tok.Parent().Root())
}

func TestFirstAndLastToken(t *testing.T) {
	missing := NewMissingToken(KindRBrace, nil, nil)
	class := NewRoot(classDecl("A").WithSlot(6, missing))

	first, ok := class.FirstToken(false)
	require.True(t, ok)
	assert.Equal(t, KindClass, first.Kind())

	last, ok := class.LastToken(false)
	require.True(t, ok)
	assert.Equal(t, KindLBrace, last.Kind())

	last, ok = class.LastToken(true)
	require.True(t, ok)
	assert.True(t, last.IsMissing())
}

func TestDiagnosticsAreAbsolute(t *testing.T) {
	missing := NewMissingToken(KindSemicolon, nil, nil).WithDiagnostics(NewError(0, 0, "expected ';'"))
	class := classDecl("B").WithSlot(6, missing)
	root := NewRoot(compilationUnit(classDecl("A"), class))

	diags := root.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, 12+len("class B { "), diags[0].Offset)
	assert.Equal(t, "expected ';'", diags[0].Message)
}

func TestStructuredTriviaNavigation(t *testing.T) {
	skipped := NewNode(KindSkippedTokens, tok(KindSemicolon, ";", ws(" ")))
	trivia := NewStructuredTrivia(KindSkippedTokensTrivia, skipped)
	class := classDecl("A")
	classTok := NewToken(KindClass, "class", []*GreenNode{trivia}, []*GreenNode{ws(" ")})
	root := NewRoot(compilationUnit(class.WithSlot(1, classTok)))

	var found []SyntaxTrivia
	for tr := range root.DescendantTrivia(false) {
		if tr.HasStructure() {
			found = append(found, tr)
		}
	}
	require.Len(t, found, 1)

	structure := found[0].Structure()
	require.NotNil(t, structure)
	assert.Equal(t, 0, structure.Position())
	owner, ok := structure.ParentTrivia()
	require.True(t, ok)
	assert.Equal(t, KindSkippedTokensTrivia, owner.Kind())

	var kinds []Kind
	for a := range structure.Ancestors() {
		kinds = append(kinds, a.Kind())
	}
	assert.Equal(t, []Kind{KindClassDecl, KindList, KindCompilationUnit}, kinds)

	var withTrivia, without int
	for e := range root.DescendantNodesAndTokens(true) {
		if e.Kind() == KindSemicolon {
			withTrivia++
		}
	}
	for e := range root.DescendantNodesAndTokens(false) {
		if e.Kind() == KindSemicolon {
			without++
		}
	}
	assert.Equal(t, 1, withTrivia)
	assert.Equal(t, 0, without)
}

func TestDumpWithPositions(t *testing.T) {
	root := NewRoot(classDecl("A"))
	want := `ClassDecl
  class
  Identifier A
  {
  }
`
	assert.Equal(t, want, root.Dump())
	assert.Contains(t, root.DumpWithPositions(), "Identifier [6-8] A")
	assert.Contains(t, root.DumpWithPositions(), `WhitespaceTrivia [7-8] " "`)
}
