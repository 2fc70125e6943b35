package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gocbs/pkg/assist"
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/fix"
	"github.com/yaklabco/gocbs/pkg/format"
	"github.com/yaklabco/gocbs/pkg/lint"
)

func (s *Server) completion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	if !config.Bool(s.config().LSP.Completion, true) {
		return nil, nil
	}
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	list := s.completer.Complete(doc.text, doc.offset(params.Position))
	if list == nil || len(list.Items) == 0 {
		return nil, nil
	}

	replace := doc.span(list.Replace)
	items := make([]protocol.CompletionItem, 0, len(list.Items))
	for _, item := range list.Items {
		kind := protocol.CompletionItemKindFunction
		if item.Kind == assist.ItemKeyword {
			kind = protocol.CompletionItemKindKeyword
		}
		detail := item.Detail
		sortText := item.SortText
		insertFormat := protocol.InsertTextFormatSnippet

		ci := protocol.CompletionItem{
			Label:            item.Label,
			Kind:             &kind,
			Detail:           &detail,
			SortText:         &sortText,
			InsertTextFormat: &insertFormat,
			TextEdit:         protocol.TextEdit{Range: replace, NewText: item.InsertText},
		}
		if item.Documentation != "" {
			ci.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: item.Documentation}
		}
		items = append(items, ci)
	}

	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func (s *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	if !config.Bool(s.config().LSP.Hover, true) {
		return nil, nil
	}
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	result := s.hoverer.Hover(doc.text, doc.offset(params.Position))
	if result == nil {
		return nil, nil
	}

	rng := doc.span(result.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: result.Markdown},
		Range:    &rng,
	}, nil
}

func (s *Server) signatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	if !config.Bool(s.config().LSP.SignatureHelp, true) {
		return nil, nil
	}
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	help := s.signer.SignatureHelp(doc.text, doc.offset(params.Position))
	if help == nil {
		return nil, nil
	}

	parameters := make([]protocol.ParameterInformation, 0, len(help.Parameters))
	for _, p := range help.Parameters {
		parameters = append(parameters, protocol.ParameterInformation{
			Label:         p.Label,
			Documentation: p.Documentation,
		})
	}

	activeSignature := protocol.UInteger(0)
	activeParameter := protocol.UInteger(help.ActiveParameter)
	return &protocol.SignatureHelp{
		Signatures: []protocol.SignatureInformation{{
			Label:         help.Label,
			Documentation: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: help.Documentation},
			Parameters:    parameters,
		}},
		ActiveSignature: &activeSignature,
		ActiveParameter: &activeParameter,
	}, nil
}

func (s *Server) foldingRange(_ *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	ranges := doc.parse.FoldingRanges()
	out := make([]protocol.FoldingRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, protocol.FoldingRange{
			StartLine: protocol.UInteger(r.StartLine),
			EndLine:   protocol.UInteger(r.EndLine),
		})
	}
	return out, nil
}

func (s *Server) formatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok || doc.parse.HasErrors() {
		return nil, nil
	}

	edits, err := format.Edits(doc.text, s.formatOptions(params.Options))
	if err != nil {
		s.log.Warningf("format %s: %s", doc.uri, err.Error())
		return nil, nil
	}
	return doc.textEdits(edits), nil
}

func (s *Server) rangeFormatting(
	_ *glsp.Context,
	params *protocol.DocumentRangeFormattingParams,
) ([]protocol.TextEdit, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok || doc.parse.HasErrors() {
		return nil, nil
	}

	startLine := int(params.Range.Start.Line)
	endLine := min(int(params.Range.End.Line), doc.lines.LineCount()-1)
	if startLine > endLine {
		return nil, nil
	}

	formatted, err := format.FormatRange(doc.text, startLine, endLine, s.formatOptions(params.Options))
	if err != nil {
		s.log.Warningf("format range %s: %s", doc.uri, err.Error())
		return nil, nil
	}

	first, _ := doc.lines.Line(startLine)
	last, _ := doc.lines.Line(endLine)
	if doc.text[first.Start:last.NewlineStart] == formatted {
		return []protocol.TextEdit{}, nil
	}

	return doc.textEdits([]fix.TextEdit{{
		StartOffset: first.Start,
		EndOffset:   last.NewlineStart,
		NewText:     formatted,
	}}), nil
}

func (s *Server) documentHighlight(
	_ *glsp.Context,
	params *protocol.DocumentHighlightParams,
) ([]protocol.DocumentHighlight, error) {
	doc, ok := s.docs.get(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	pair, ok := cbs.FindBrackets(doc.text).PairAt(doc.offset(params.Position))
	if !ok {
		return nil, nil
	}

	kind := protocol.DocumentHighlightKindText
	return []protocol.DocumentHighlight{
		{Range: doc.span(pair.Open), Kind: &kind},
		{Range: doc.span(pair.Close), Kind: &kind},
	}, nil
}

// formatOptions merges editor formatting options over the configured ones.
func (s *Server) formatOptions(editor protocol.FormattingOptions) format.Options {
	opts := lint.FormatOptions(s.config())

	if size, ok := editor["tabSize"].(float64); ok && size > 0 {
		opts.IndentSize = int(size)
	}
	if spaces, ok := editor["insertSpaces"].(bool); ok {
		if spaces {
			opts.IndentStyle = format.IndentSpace
		} else {
			opts.IndentStyle = format.IndentTab
		}
	}
	if trim, ok := editor["trimTrailingWhitespace"].(bool); ok {
		opts.TrimTrailingWhitespace = trim
	}
	return opts
}

func (d *document) textEdits(edits []fix.TextEdit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{
			Range:   d.span(cbs.Span{Start: e.StartOffset, End: e.EndOffset}),
			NewText: e.NewText,
		})
	}
	return out
}
