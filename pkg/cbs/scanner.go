package cbs

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
	argSep     = "::"
)

// Scanner walks source text looking for "{{" delimiters while tracking
// line and column. It only ever moves forward.
type Scanner struct {
	text   string
	offset int
	line   int
	column int
}

// NewScanner creates a scanner positioned at the start of text.
func NewScanner(text string) *Scanner {
	return &Scanner{text: text}
}

// Position returns the current scan position.
func (s *Scanner) Position() Position {
	return Position{Offset: s.offset, Line: s.line, Column: s.column}
}

// Next advances to the next "{{" at or after the current position and
// returns its position. The delimiter itself is not consumed.
// It returns false when no further delimiter exists.
func (s *Scanner) Next() (Position, bool) {
	for s.offset+1 < len(s.text) {
		if s.text[s.offset] == '{' && s.text[s.offset+1] == '{' {
			return s.Position(), true
		}
		s.step()
	}
	s.SkipTo(len(s.text))
	return s.Position(), false
}

// SkipTo advances to offset, counting every line break passed.
// Offsets at or before the current position are ignored.
func (s *Scanner) SkipTo(offset int) {
	offset = min(offset, len(s.text))
	for s.offset < offset {
		s.step()
	}
}

func (s *Scanner) step() {
	if s.text[s.offset] == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}
	s.offset++
}

// delim classifies what scanDepth saw at an offset.
type delim int

const (
	delimNone delim = iota
	delimOpen
	delimClose
)

// scanDepth walks text forward from offset from with the given starting
// depth. Every "{{" increments depth and every "}}" decrements it; both
// consume two bytes. Any other byte is reported as delimNone. visit is
// called after the depth adjustment with the offset of the event; when it
// returns true, scanDepth stops and returns that offset. It returns -1 when
// the end of text is reached first.
func scanDepth(text string, from, depth int, visit func(at int, kind delim, depth int) bool) int {
	for idx := max(from, 0); idx < len(text); {
		switch {
		case strings.HasPrefix(text[idx:], openDelim):
			depth++
			if visit(idx, delimOpen, depth) {
				return idx
			}
			idx += len(openDelim)
		case strings.HasPrefix(text[idx:], closeDelim):
			depth--
			if visit(idx, delimClose, depth) {
				return idx
			}
			idx += len(closeDelim)
		default:
			if visit(idx, delimNone, depth) {
				return idx
			}
			idx++
		}
	}
	return -1
}

// findCloser returns the offset just past the "}}" that balances an
// expression whose opener ended before from, or -1 if there is none.
func findCloser(text string, from int) int {
	at := scanDepth(text, from, 1, func(_ int, kind delim, depth int) bool {
		return kind == delimClose && depth == 0
	})
	if at < 0 {
		return -1
	}
	return at + len(closeDelim)
}

// innermostOpen returns the offset of the innermost "{{" in text[from:to]
// that is still unbalanced at to, or -1. A "}}" with nothing open is
// ignored.
func innermostOpen(text string, from, to int) int {
	to = clamp(to, 0, len(text))
	var stack []int

	scanDepth(text[:to], from, 0, func(at int, kind delim, _ int) bool {
		switch kind {
		case delimOpen:
			stack = append(stack, at)
		case delimClose:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case delimNone:
		}
		return false
	})

	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1]
}

// topLevelSeparators returns the offsets of every "::" in text that is not
// inside a nested "{{...}}". Overlapping colons pair left to right.
func topLevelSeparators(text string) []int {
	var seps []int
	skip := -1

	scanDepth(text, 0, 0, func(at int, kind delim, depth int) bool {
		if kind != delimNone || depth != 0 || at == skip {
			return false
		}
		if strings.HasPrefix(text[at:], argSep) {
			seps = append(seps, at)
			skip = at + 1
		}
		return false
	})

	return seps
}
