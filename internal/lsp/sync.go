package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gocbs/pkg/config"
)

const diagnosticSource = "gocbs"

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	doc := newDocument(item.URI, item.Version, item.Text)
	s.docs.put(doc)
	s.log.Debugf("opened %s (version %d)", item.URI, item.Version)

	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	prev, ok := s.docs.get(uri)
	if !ok {
		prev = newDocument(uri, 0, "")
	}

	doc := newDocument(uri, params.TextDocument.Version, applyChanges(prev, params.ContentChanges))
	s.docs.put(doc)

	if config.Bool(s.config().LSP.DiagnosticsOnChange, true) {
		s.publishDiagnostics(ctx, doc)
	}
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil
	}
	if params.Text != nil && *params.Text != doc.text {
		doc = newDocument(doc.uri, doc.version, *params.Text)
		s.docs.put(doc)
	}

	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(params.TextDocument.URI)

	// Clear diagnostics for the closed document.
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, doc *document) {
	diagnostics := s.diagnostics(doc)
	version := protocol.UInteger(doc.version)

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

func (s *Server) diagnostics(doc *document) []protocol.Diagnostic {
	result, err := s.engine.CheckFile(context.Background(), uriToPath(doc.uri), []byte(doc.text), s.config())
	if err != nil {
		s.log.Errorf("check %s: %s", doc.uri, err.Error())
		return []protocol.Diagnostic{}
	}

	out := make([]protocol.Diagnostic, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		severity := toSeverity(d.Severity)
		source := diagnosticSource
		out = append(out, protocol.Diagnostic{
			Range:    doc.span(d.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.RuleID},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toSeverity(sev config.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case config.SeverityError:
		return protocol.DiagnosticSeverityError
	case config.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}

// uriToPath converts a file URI to a local path; other URIs are returned
// unchanged.
func uriToPath(uri protocol.DocumentUri) string {
	raw := string(uri)
	if !strings.HasPrefix(raw, "file://") {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return filepath.FromSlash(parsed.Path)
}
