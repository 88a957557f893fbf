package codebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/greentree/format"
	"github.com/dhamidi/greentree/syntax"
	"github.com/dhamidi/greentree/text"
)

const lsName = "greentree"

// ErrInvertedRange is returned for a content change whose range ends
// before it starts.
var ErrInvertedRange = errors.New("range end before start")

type ServerOption func(*LSPServer)

// WithCodebaseOptions configures the codebase created on initialize.
func WithCodebaseOptions(opts ...Option) ServerOption {
	return func(ls *LSPServer) {
		ls.codebaseOpts = append(ls.codebaseOpts, opts...)
	}
}

// WithFormatOptions sets the formatter defaults. Options sent with a
// formatting request take precedence.
func WithFormatOptions(opts ...format.Option) ServerOption {
	return func(ls *LSPServer) {
		ls.formatOpts = append(ls.formatOpts, opts...)
	}
}

// WithWatch polls the workspace for changed files at the given interval.
func WithWatch(interval time.Duration) ServerOption {
	return func(ls *LSPServer) {
		ls.watchInterval = interval
	}
}

type LSPServer struct {
	codebase *Codebase
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	codebaseOpts  []Option
	formatOpts    []format.Option
	watchInterval time.Duration
	stopWatch     context.CancelFunc
}

func NewLSPServer(version string, opts ...ServerOption) *LSPServer {
	ls := &LSPServer{
		version: version,
		log:     commonlog.GetLogger("greentree.lsp"),
	}
	for _, opt := range opts {
		opt(ls)
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentFormatting: ls.textDocumentFormatting,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Codebase returns the workspace, which exists once the client has sent
// initialize.
func (ls *LSPServer) Codebase() *Codebase {
	return ls.codebase
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.codebaseOpts...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(context.Background()); err != nil {
		ls.log.Errorf("initialized: %s", err)
	}
	if ls.watchInterval > 0 {
		watchCtx, cancel := context.WithCancel(context.Background())
		ls.stopWatch = cancel
		go NewFileWatcher(ls.codebase, ls.watchInterval).Run(watchCtx)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.stopWatch != nil {
		ls.stopWatch()
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.Open(path)
	snap, err := ls.codebase.UpdateFile(context.Background(), path, params.TextDocument.Version, params.TextDocument.Text)
	if err != nil {
		ls.log.Errorf("didOpen: %s", err)
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, snap)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var content string
	if snap := ls.codebase.GetFile(path); snap != nil {
		content = snap.Text
	}
	content, err = applyContentChanges(content, params.ContentChanges)
	if err != nil {
		ls.log.Errorf("didChange %s: %s", path, err)
		return nil
	}
	snap, err := ls.codebase.UpdateFile(context.Background(), path, params.TextDocument.Version, content)
	if err != nil {
		ls.log.Errorf("didChange: %s", err)
		return nil
	}
	ls.log.Debugf("didChange %s: changed %v", path, snap.Changed)
	ls.publishDiagnostics(ctx, params.TextDocument.URI, snap)
	return nil
}

// textDocumentDidClose hands the file back to the disk, dropping any text
// the editor did not save.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.Close(path)
	if _, err := ls.codebase.ScanFile(context.Background(), path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ls.codebase.RemoveFile(path)
			return nil
		}
		ls.log.Errorf("didClose: %s", err)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var snap *Snapshot
	if params.Text != nil {
		var version int32
		if prev := ls.codebase.GetFile(path); prev != nil {
			version = prev.Version
		}
		snap, err = ls.codebase.UpdateFile(context.Background(), path, version, *params.Text)
	} else {
		snap, err = ls.codebase.ScanFile(context.Background(), path)
	}
	if err != nil {
		ls.log.Errorf("didSave: %s", err)
		return nil
	}
	ls.publishDiagnostics(ctx, params.TextDocument.URI, snap)
	return nil
}

// textDocumentFormatting answers with the edits between the current tree
// and its formatted version. Files with syntax errors are left alone.
func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	snap := ls.codebase.GetFile(path)
	if snap == nil {
		return nil, nil
	}
	if snap.Root.ContainsDiagnostics() {
		ls.log.Infof("formatting %s: skipped, file has syntax errors", path)
		return nil, nil
	}

	opts := append(slices.Clone(ls.formatOpts), formattingOptions(params.Options)...)
	changes, err := format.New(opts...).Edits(context.Background(), snap.Root, ls.codebase.diffOpts...)
	if err != nil {
		return nil, err
	}
	edits := make([]protocol.TextEdit, 0, len(changes))
	for _, c := range changes {
		edits = append(edits, protocol.TextEdit{
			Range:   toProtocolRange(snap.Lines, c.Span),
			NewText: c.NewText,
		})
	}
	return edits, nil
}

func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, snap *Snapshot) {
	diagnostics := []protocol.Diagnostic{}
	for _, d := range snap.Diagnostics() {
		diagnostics = append(diagnostics, toProtocolDiagnostic(snap.Lines, d))
	}
	version := protocol.UInteger(snap.Version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// applyContentChanges applies the changes of one didChange notification in
// order. Ranges refer to the text as left by the changes before them.
func applyContentChanges(content string, changes []any) (string, error) {
	for _, change := range changes {
		switch change := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				content = change.Text
				continue
			}
			lines := text.NewLineMap(content)
			start := lines.OffsetUTF16(fromProtocolPosition(change.Range.Start))
			end := lines.OffsetUTF16(fromProtocolPosition(change.Range.End))
			if end < start {
				return "", fmt.Errorf("%w: %d:%d-%d:%d", ErrInvertedRange,
					change.Range.Start.Line, change.Range.Start.Character,
					change.Range.End.Line, change.Range.End.Character)
			}
			var err error
			content, err = text.Apply(content, []text.Change{
				text.NewChange(text.SpanFromBounds(start, end), change.Text),
			})
			if err != nil {
				return "", err
			}
		case protocol.TextDocumentContentChangeEventWhole:
			content = change.Text
		}
	}
	return content, nil
}

// formattingOptions maps the editor's tab settings to formatter options.
func formattingOptions(opts protocol.FormattingOptions) []format.Option {
	if insertSpaces, ok := opts[protocol.FormattingOptionInsertSpaces].(bool); ok && !insertSpaces {
		return []format.Option{format.WithIndent("\t")}
	}
	var size int
	switch v := opts[protocol.FormattingOptionTabSize].(type) {
	case float64:
		size = int(v)
	case int:
		size = v
	case protocol.UInteger:
		size = int(v)
	}
	if size > 0 {
		return []format.Option{format.WithIndent(strings.Repeat(" ", size))}
	}
	return nil
}

func toProtocolDiagnostic(lines *text.LineMap, d syntax.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == syntax.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := lsName
	return protocol.Diagnostic{
		Range:    toProtocolRange(lines, text.NewSpan(d.Offset, d.Length)),
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}

func toProtocolRange(lines *text.LineMap, span text.Span) protocol.Range {
	return protocol.Range{
		Start: toProtocolPosition(lines.PositionUTF16(span.Start)),
		End:   toProtocolPosition(lines.PositionUTF16(span.End())),
	}
}

func toProtocolPosition(pos text.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(pos.Column),
	}
}

func fromProtocolPosition(pos protocol.Position) text.Position {
	return text.Position{Line: int(pos.Line), Column: int(pos.Character)}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
