package assist

import (
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// HoverResult is the tooltip for a hovered function.
type HoverResult struct {
	Function *funcs.Function `json:"function"`
	Markdown string          `json:"markdown"`

	// Span is the hovered word in document byte offsets.
	Span cbs.Span `json:"span"`
}

// Hoverer resolves hover tooltips from a function registry.
type Hoverer struct {
	registry *funcs.Registry
}

// NewHoverer creates a hoverer backed by registry.
func NewHoverer(registry *funcs.Registry) *Hoverer {
	return &Hoverer{registry: registry}
}

// Hover returns the tooltip for the word at offset, or nil.
func (h *Hoverer) Hover(text string, offset int) *HoverResult {
	lines := cbs.NewLineIndex(text)
	pos := lines.Position(offset)
	info, _ := lines.Line(pos.Line)

	target := cbs.ResolveHoverTarget(lines.LineText(pos.Line), pos.Column)
	if target == nil {
		return nil
	}

	fn, ok := h.registry.Lookup(target.Name)
	if !ok {
		return nil
	}

	return &HoverResult{
		Function: fn,
		Markdown: Documentation(fn),
		Span: cbs.Span{
			Start: info.Start + target.WordSpan.Start,
			End:   info.Start + target.WordSpan.End,
		},
	}
}
