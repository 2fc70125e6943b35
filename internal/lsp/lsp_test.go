package lsp_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gocbs/internal/lsp"
	"github.com/yaklabco/gocbs/pkg/config"
)

const testURI = "file:///work/prompt.cbs"

// recorder captures notifications sent to the client.
type recorder struct {
	mu       sync.Mutex
	received []protocol.PublishDiagnosticsParams
}

func (r *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != protocol.ServerTextDocumentPublishDiagnostics {
				return
			}
			r.mu.Lock()
			defer r.mu.Unlock()
			r.received = append(r.received, params.(protocol.PublishDiagnosticsParams))
		},
	}
}

func (r *recorder) last(t *testing.T) protocol.PublishDiagnosticsParams {
	t.Helper()

	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.received)
	return r.received[len(r.received)-1]
}

func open(t *testing.T, server *lsp.Server, rec *recorder, text string) {
	t.Helper()

	err := server.Handler().TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "cbs", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func position(line, character protocol.UInteger) protocol.TextDocumentPositionParams {
	return protocol.TextDocumentPositionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Position:     protocol.Position{Line: line, Character: character},
	}
}

func TestInitialize_Capabilities(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{Version: "1.0.0"})
	res, err := server.Handler().Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	result, ok := res.(protocol.InitializeResult)
	require.True(t, ok)

	caps := result.Capabilities
	require.NotNil(t, caps.CompletionProvider)
	assert.Equal(t, []string{"{", "#", "/", ":"}, caps.CompletionProvider.TriggerCharacters)
	require.NotNil(t, caps.SignatureHelpProvider)
	assert.Equal(t, []string{":"}, caps.SignatureHelpProvider.TriggerCharacters)
	assert.NotNil(t, caps.HoverProvider)
	assert.NotNil(t, caps.FoldingRangeProvider)
	assert.NotNil(t, caps.DocumentFormattingProvider)
	assert.NotNil(t, caps.DocumentRangeFormattingProvider)
	assert.NotNil(t, caps.DocumentHighlightProvider)

	require.NotNil(t, result.ServerInfo)
	assert.Equal(t, "gocbs", result.ServerInfo.Name)
	assert.Equal(t, "1.0.0", *result.ServerInfo.Version)
}

func TestInitialize_DisabledFeatures(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.LSP.Completion = config.Ptr(false)
	cfg.LSP.SignatureHelp = config.Ptr(false)

	server := lsp.New(lsp.Options{Config: cfg})
	res, err := server.Handler().Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	caps := res.(protocol.InitializeResult).Capabilities
	assert.Nil(t, caps.CompletionProvider)
	assert.Nil(t, caps.SignatureHelpProvider)
}

func TestDiagnostics_OpenChangeClose(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}

	open(t, server, rec, "line\n{{#if x}}hi")

	published := rec.last(t)
	assert.Equal(t, testURI, string(published.URI))
	require.Len(t, published.Diagnostics, 1)

	diag := published.Diagnostics[0]
	assert.Equal(t, "CBS004", diag.Code.Value)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diag.Severity)
	assert.Equal(t, "gocbs", *diag.Source)
	assert.Equal(t, protocol.UInteger(1), diag.Range.Start.Line)
	assert.Equal(t, protocol.UInteger(0), diag.Range.Start.Character)

	err := server.Handler().TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "{{#if x}}hi{{/if}}"}},
	})
	require.NoError(t, err)

	published = rec.last(t)
	assert.Empty(t, published.Diagnostics)
	require.NotNil(t, published.Version)
	assert.Equal(t, protocol.UInteger(2), *published.Version)

	err = server.Handler().TextDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)

	hover, err := server.Handler().TextDocumentHover(rec.context(), &protocol.HoverParams{
		TextDocumentPositionParams: position(0, 3),
	})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestDidChange_IncrementalEdit(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if x}}\nhi")

	err := server.Handler().TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{
			Range: &protocol.Range{
				Start: protocol.Position{Line: 1, Character: 2},
				End:   protocol.Position{Line: 1, Character: 2},
			},
			Text: "{{/if}}",
		}},
	})
	require.NoError(t, err)
	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestHover_UTF16Positions(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "é😀{{getvar::x}}")

	hover, err := server.Handler().TextDocumentHover(rec.context(), &protocol.HoverParams{
		TextDocumentPositionParams: position(0, 6),
	})
	require.NoError(t, err)
	require.NotNil(t, hover)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Equal(t, protocol.MarkupKindMarkdown, content.Kind)
	assert.Contains(t, content.Value, "**getvar**")

	require.NotNil(t, hover.Range)
	assert.Equal(t, protocol.UInteger(5), hover.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(11), hover.Range.End.Character)
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if x}}{{/")

	res, err := server.Handler().TextDocumentCompletion(rec.context(), &protocol.CompletionParams{
		TextDocumentPositionParams: position(0, 12),
	})
	require.NoError(t, err)

	list, ok := res.(protocol.CompletionList)
	require.True(t, ok)
	require.NotEmpty(t, list.Items)
	assert.Equal(t, "if", list.Items[0].Label)

	edit, ok := list.Items[0].TextEdit.(protocol.TextEdit)
	require.True(t, ok)
	assert.Equal(t, protocol.UInteger(12), edit.Range.Start.Character)
	assert.Equal(t, protocol.UInteger(12), edit.Range.End.Character)
	assert.Equal(t, protocol.InsertTextFormatSnippet, *list.Items[0].InsertTextFormat)
}

func TestSignatureHelp(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{setvar::a::")

	help, err := server.Handler().TextDocumentSignatureHelp(rec.context(), &protocol.SignatureHelpParams{
		TextDocumentPositionParams: position(0, 13),
	})
	require.NoError(t, err)
	require.NotNil(t, help)
	require.Len(t, help.Signatures, 1)

	assert.Equal(t, "setvar(name, value)", help.Signatures[0].Label)
	assert.Len(t, help.Signatures[0].Parameters, 2)
	assert.Equal(t, protocol.UInteger(1), *help.ActiveParameter)
}

func TestFoldingRange(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if a}}\nx\n{{/if}}\n{{#when b}}y{{/when}}")

	ranges, err := server.Handler().TextDocumentFoldingRange(rec.context(), &protocol.FoldingRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, protocol.UInteger(0), ranges[0].StartLine)
	assert.Equal(t, protocol.UInteger(2), ranges[0].EndLine)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if x}}\nhi\n{{/if}}")

	edits, err := server.Handler().TextDocumentFormatting(rec.context(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Options:      protocol.FormattingOptions{"tabSize": float64(2), "insertSpaces": true},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "  hi\n", edits[0].NewText)
	assert.Equal(t, protocol.UInteger(1), edits[0].Range.Start.Line)
}

func TestFormatting_RefusesParseErrors(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if x}}\nhi")

	edits, err := server.Handler().TextDocumentFormatting(rec.context(), &protocol.DocumentFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)
	assert.Empty(t, edits)
}

func TestRangeFormatting(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{#if x}}\nhi\nthere\n{{/if}}")

	edits, err := server.Handler().TextDocumentRangeFormatting(rec.context(), &protocol.DocumentRangeFormattingParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range: protocol.Range{
			Start: protocol.Position{Line: 2, Character: 0},
			End:   protocol.Position{Line: 2, Character: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, "    there", edits[0].NewText)
	assert.Equal(t, protocol.UInteger(2), edits[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(5), edits[0].Range.End.Character)
}

func TestDocumentHighlight(t *testing.T) {
	t.Parallel()

	server := lsp.New(lsp.Options{})
	rec := &recorder{}
	open(t, server, rec, "{{a::{{b}}}}")

	highlights, err := server.Handler().TextDocumentDocumentHighlight(rec.context(), &protocol.DocumentHighlightParams{
		TextDocumentPositionParams: position(0, 7),
	})
	require.NoError(t, err)
	require.Len(t, highlights, 2)
	assert.Equal(t, protocol.UInteger(5), highlights[0].Range.Start.Character)
	assert.Equal(t, protocol.UInteger(8), highlights[1].Range.Start.Character)
}
