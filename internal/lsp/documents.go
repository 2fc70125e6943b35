package lsp

import (
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/gocbs/pkg/cbs"
)

// document is an immutable snapshot of an open text document.
type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    string
	lines   *cbs.LineIndex
	parse   *cbs.Result
}

func newDocument(uri protocol.DocumentUri, version protocol.Integer, text string) *document {
	return &document{
		uri:     uri,
		version: version,
		text:    text,
		lines:   cbs.NewLineIndex(text),
		parse:   cbs.Parse(text),
	}
}

// offset converts an LSP position to a byte offset in the document.
func (d *document) offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= d.lines.LineCount() {
		return len(d.text)
	}
	column := d.lines.ByteColumn(line, int(pos.Character))
	offset, _ := d.lines.Offset(line, column)
	return offset
}

// position converts a byte offset to an LSP position.
func (d *document) position(offset int) protocol.Position {
	pos := d.lines.Position(offset)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line),
		Character: protocol.UInteger(d.lines.UTF16Column(pos.Line, pos.Column)),
	}
}

func (d *document) span(span cbs.Span) protocol.Range {
	return protocol.Range{Start: d.position(span.Start), End: d.position(span.End)}
}

// documentStore holds open documents keyed by URI.
type documentStore struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentUri]*document
}

func newDocumentStore() *documentStore {
	return &documentStore{docs: make(map[protocol.DocumentUri]*document)}
}

func (s *documentStore) get(uri protocol.DocumentUri) (*document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

func (s *documentStore) put(doc *document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.uri] = doc
}

func (s *documentStore) remove(uri protocol.DocumentUri) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

func (s *documentStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.docs)
}

// applyChanges applies content change events in order. Events without a
// range replace the whole text.
func applyChanges(doc *document, changes []any) string {
	text := doc.text
	current := doc
	for _, change := range changes {
		switch ev := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = ev.Text
		case protocol.TextDocumentContentChangeEvent:
			if ev.Range == nil {
				text = ev.Text
				break
			}
			start := current.offset(ev.Range.Start)
			end := max(current.offset(ev.Range.End), start)
			text = text[:start] + ev.Text + text[end:]
		default:
			continue
		}
		current = &document{text: text, lines: cbs.NewLineIndex(text)}
	}
	return text
}
