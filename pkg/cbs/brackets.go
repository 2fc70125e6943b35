package cbs

import "slices"

// BracketPair is a matched "{{" and "}}" with its nesting level.
// Level 0 is an outermost expression.
type BracketPair struct {
	Open  Span `json:"open"`
	Close Span `json:"close"`
	Level int  `json:"level"`
}

// Brackets is the delimiter structure of a document.
type Brackets struct {
	Pairs []BracketPair `json:"pairs"`

	// UnmatchedOpen lists "{{" that are never closed.
	UnmatchedOpen []Span `json:"unmatchedOpen,omitempty"`

	// UnmatchedClose lists "}}" with nothing open.
	UnmatchedClose []Span `json:"unmatchedClose,omitempty"`
}

// FindBrackets pairs every delimiter in text using the same depth rule as
// the tokenizer. Pairs are ordered by their opening offset.
func FindBrackets(text string) *Brackets {
	out := &Brackets{}
	var stack []int

	scanDepth(text, 0, 0, func(at int, kind delim, _ int) bool {
		switch kind {
		case delimOpen:
			stack = append(stack, at)
		case delimClose:
			closeSpan := Span{Start: at, End: at + len(closeDelim)}
			if len(stack) == 0 {
				out.UnmatchedClose = append(out.UnmatchedClose, closeSpan)
				return false
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out.Pairs = append(out.Pairs, BracketPair{
				Open:  Span{Start: start, End: start + len(openDelim)},
				Close: closeSpan,
				Level: len(stack),
			})
		case delimNone:
		}
		return false
	})

	for _, start := range stack {
		out.UnmatchedOpen = append(out.UnmatchedOpen, Span{Start: start, End: start + len(openDelim)})
	}

	slices.SortFunc(out.Pairs, func(a, b BracketPair) int {
		return a.Open.Start - b.Open.Start
	})
	return out
}

// PairAt returns the innermost pair whose delimiters or interior contain
// offset.
func (b *Brackets) PairAt(offset int) (BracketPair, bool) {
	var (
		best  BracketPair
		found bool
	)
	for _, p := range b.Pairs {
		if offset < p.Open.Start || offset > p.Close.End {
			continue
		}
		if !found || p.Level > best.Level {
			best, found = p, true
		}
	}
	return best, found
}
