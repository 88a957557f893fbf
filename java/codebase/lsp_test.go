package codebase

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params any
}

func newTestServer(t *testing.T) (*LSPServer, *glsp.Context, *[]notification) {
	t.Helper()
	root := t.TempDir()
	ls := NewLSPServer("test")
	var sent []notification
	ctx := &glsp.Context{
		Notify: func(method string, params any) {
			sent = append(sent, notification{method, params})
		},
	}
	_, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)
	return ls, ctx, &sent
}

func openDocument(t *testing.T, ls *LSPServer, ctx *glsp.Context, uri, content string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "java",
			Version:    1,
			Text:       content,
		},
	}))
}

func documentURI(ls *LSPServer, name string) string {
	return "file://" + filepath.Join(ls.Codebase().RootDir(), name)
}

func TestInitialize(t *testing.T) {
	root := t.TempDir()
	ls := NewLSPServer("1.2.3")
	result, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)

	res, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, "greentree", res.ServerInfo.Name)
	assert.Equal(t, "1.2.3", *res.ServerInfo.Version)
	assert.Equal(t, true, res.Capabilities.DocumentFormattingProvider)

	sync, ok := res.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)
	assert.Equal(t, root, ls.Codebase().RootDir())
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	ls, ctx, sent := newTestServer(t)
	uri := documentURI(ls, "A.java")
	openDocument(t, ls, ctx, uri, "class A { ) }")

	require.Len(t, *sent, 1)
	n := (*sent)[0]
	assert.Equal(t, string(protocol.ServerTextDocumentPublishDiagnostics), n.method)
	params, ok := n.params.(protocol.PublishDiagnosticsParams)
	require.True(t, ok)
	assert.Equal(t, uri, params.URI)
	assert.Equal(t, protocol.UInteger(1), *params.Version)
	require.Len(t, params.Diagnostics, 1)
	d := params.Diagnostics[0]
	assert.Equal(t, "unexpected ')'", d.Message)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 10},
		End:   protocol.Position{Line: 0, Character: 11},
	}, d.Range)
}

func TestDidOpenCleanFilePublishesEmptyList(t *testing.T) {
	ls, ctx, sent := newTestServer(t)
	openDocument(t, ls, ctx, documentURI(ls, "A.java"), "class A { }")

	require.Len(t, *sent, 1)
	params := (*sent)[0].params.(protocol.PublishDiagnosticsParams)
	assert.NotNil(t, params.Diagnostics)
	assert.Empty(t, params.Diagnostics)
}

func TestDidChangeIncremental(t *testing.T) {
	ls, ctx, sent := newTestServer(t)
	uri := documentURI(ls, "A.java")
	openDocument(t, ls, ctx, uri, "class A {\n}\n")

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 1, Character: 0},
					End:   protocol.Position{Line: 1, Character: 0},
				},
				Text: "  int x;\n",
			},
		},
	}))

	path := filepath.Join(ls.Codebase().RootDir(), "A.java")
	snap := ls.Codebase().GetFile(path)
	require.NotNil(t, snap)
	assert.Equal(t, "class A {\n  int x;\n}\n", snap.Text)
	assert.Equal(t, int32(2), snap.Version)
	assert.NotEmpty(t, snap.Edits)
	assert.Len(t, *sent, 2)
}

func TestApplyContentChanges(t *testing.T) {
	tests := []struct {
		name    string
		content string
		changes []any
		want    string
	}{
		{
			name:    "whole document",
			content: "class A { }",
			changes: []any{protocol.TextDocumentContentChangeEventWhole{Text: "class B { }"}},
			want:    "class B { }",
		},
		{
			name:    "utf-16 columns",
			content: "// 😀x\nclass A { }",
			changes: []any{protocol.TextDocumentContentChangeEvent{
				Range: &protocol.Range{
					Start: protocol.Position{Line: 0, Character: 5},
					End:   protocol.Position{Line: 0, Character: 6},
				},
				Text: "y",
			}},
			want: "// 😀y\nclass A { }",
		},
		{
			name:    "changes apply in order",
			content: "class A { }",
			changes: []any{
				protocol.TextDocumentContentChangeEvent{
					Range: &protocol.Range{
						Start: protocol.Position{Line: 0, Character: 6},
						End:   protocol.Position{Line: 0, Character: 7},
					},
					Text: "Foo",
				},
				protocol.TextDocumentContentChangeEvent{
					Range: &protocol.Range{
						Start: protocol.Position{Line: 0, Character: 11},
						End:   protocol.Position{Line: 0, Character: 12},
					},
					Text: " int x; ",
				},
			},
			want: "class Foo { int x; }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyContentChanges(tt.content, tt.changes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyContentChangesRejectsInvertedRange(t *testing.T) {
	_, err := applyContentChanges("class A { }", []any{
		protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 0, Character: 7},
				End:   protocol.Position{Line: 0, Character: 6},
			},
			Text: "B",
		},
	})
	assert.ErrorIs(t, err, ErrInvertedRange)
}

func TestDidCloseRevertsToDisk(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	path := filepath.Join(ls.Codebase().RootDir(), "A.java")
	writeFile(t, path, "class A { }")
	uri := documentURI(ls, "A.java")
	openDocument(t, ls, ctx, uri, "class A { int unsaved; }")
	assert.True(t, ls.Codebase().IsOpen(path))

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.False(t, ls.Codebase().IsOpen(path))
	assert.Equal(t, "class A { }", ls.Codebase().GetFile(path).Text)
}

func TestDidCloseForgetsUnsavedNewFile(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	path := filepath.Join(ls.Codebase().RootDir(), "New.java")
	uri := documentURI(ls, "New.java")
	openDocument(t, ls, ctx, uri, "class New { }")

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	assert.Nil(t, ls.Codebase().GetFile(path))
}

// applyEdits applies formatting edits the way an editor does, last first.
func applyEdits(t *testing.T, content string, edits []protocol.TextEdit) string {
	t.Helper()
	var changes []any
	for _, e := range slices.Backward(edits) {
		r := e.Range
		changes = append(changes, protocol.TextDocumentContentChangeEvent{Range: &r, Text: e.NewText})
	}
	got, err := applyContentChanges(content, changes)
	require.NoError(t, err)
	return got
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		name    string
		content string
		options protocol.FormattingOptions
		want    string
	}{
		{
			name:    "default indent",
			content: "class A{int x;}",
			options: protocol.FormattingOptions{},
			want:    "class A {\n    int x;\n}\n",
		},
		{
			name:    "tab size",
			content: "class A{int x;}",
			options: protocol.FormattingOptions{
				protocol.FormattingOptionTabSize:      float64(2),
				protocol.FormattingOptionInsertSpaces: true,
			},
			want: "class A {\n  int x;\n}\n",
		},
		{
			name:    "tabs",
			content: "class A{int x;}",
			options: protocol.FormattingOptions{
				protocol.FormattingOptionTabSize:      float64(4),
				protocol.FormattingOptionInsertSpaces: false,
			},
			want: "class A {\n\tint x;\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls, ctx, _ := newTestServer(t)
			uri := documentURI(ls, "A.java")
			openDocument(t, ls, ctx, uri, tt.content)

			edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: uri},
				Options:      tt.options,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, applyEdits(t, tt.content, edits))
		})
	}
}

func TestFormattingSkipsSyntaxErrors(t *testing.T) {
	ls, ctx, _ := newTestServer(t)
	uri := documentURI(ls, "A.java")
	openDocument(t, ls, ctx, uri, "class A{ ) int x;}")

	edits, err := ls.textDocumentFormatting(ctx, &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///tmp/a%20b/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a b/A.java", path)

	path, err = uriToPath("/plain/A.java")
	require.NoError(t, err)
	assert.Equal(t, "/plain/A.java", path)
}
