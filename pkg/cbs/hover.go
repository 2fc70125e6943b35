package cbs

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// HoverTarget is the expression and word under a hovered column of a
// single line.
type HoverTarget struct {
	// Content is the interior of the innermost expression containing the
	// column, or the rest of the line after an unclosed "{{".
	Content string `json:"content"`

	// Word is the identifier or operator under the column.
	Word     string `json:"word"`
	WordSpan Span   `json:"wordSpan"`

	// Name is the registry key the word resolves to. Block tags resolve
	// to "#name"; ":else" resolves to "else".
	Name string `json:"name"`
}

// ResolveHoverTarget maps a byte column on a single line of text to the
// marker or function name it belongs to. It returns nil when the column is
// outside any expression or not on a word.
func ResolveHoverTarget(line string, column int) *HoverTarget {
	column = clamp(column, 0, len(line))

	content, ok := hoverContent(line, column)
	if !ok {
		return nil
	}

	word, span, ok := extendedWordAt(line, column)
	if !ok {
		return nil
	}

	name := hoverName(content, word)
	if name == "" {
		return nil
	}

	return &HoverTarget{Content: content, Word: word, WordSpan: span, Name: name}
}

type exprPair struct {
	start, end, depth int
}

// hoverContent returns the interior of the deepest complete expression
// whose interior contains column, falling back to an unclosed opener.
func hoverContent(line string, column int) (string, bool) {
	var (
		pairs []exprPair
		stack []int
	)

	scanDepth(line, 0, 0, func(at int, kind delim, _ int) bool {
		switch kind {
		case delimOpen:
			stack = append(stack, at)
		case delimClose:
			if len(stack) > 0 {
				start := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				pairs = append(pairs, exprPair{start: start, end: at + len(closeDelim), depth: len(stack)})
			}
		case delimNone:
		}
		return false
	})

	best := -1
	for idx, p := range pairs {
		if column < p.start+len(openDelim) || column > p.end-len(closeDelim) {
			continue
		}
		if best < 0 || p.depth > pairs[best].depth {
			best = idx
		}
	}
	if best >= 0 {
		p := pairs[best]
		return line[p.start+len(openDelim) : p.end-len(closeDelim)], true
	}

	open := strings.LastIndex(line[:min(column+len(openDelim), len(line))], openDelim)
	if open < 0 {
		return "", false
	}
	closeAt := strings.Index(line[open:], closeDelim)
	if closeAt >= 0 && open+closeAt <= column {
		return "", false
	}
	return line[open+len(openDelim):], true
}

func isOperatorByte(b byte) bool {
	return b == '#' || b == '?' || b == ':' || b == '/'
}

// extendedWordAt returns the word at column, treating "::", "//" and the
// markers '#', '?', ':' and '/' as words of their own.
func extendedWordAt(line string, column int) (string, Span, bool) {
	pair := func(start int) (string, Span, bool) {
		return line[start : start+2], Span{Start: start, End: start + 2}, true
	}
	isPair := func(start int) bool {
		if start < 0 || start+2 > len(line) {
			return false
		}
		return line[start:start+2] == argSep || line[start:start+2] == "//"
	}

	if isPair(column) {
		return pair(column)
	}

	if column < len(line) && isOperatorByte(line[column]) {
		if isPair(column - 1) {
			return pair(column - 1)
		}
		return line[column : column+1], Span{Start: column, End: column + 1}, true
	}

	if column > 0 && isOperatorByte(line[column-1]) {
		if isPair(column - 2) {
			return pair(column - 2)
		}
		if isPair(column - 1) {
			return pair(column - 1)
		}
		return line[column-1 : column], Span{Start: column - 1, End: column}, true
	}

	start, end := column, column
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(line[:start])
		if !isWordRune(r) {
			break
		}
		start -= size
	}
	for end < len(line) {
		r, size := utf8.DecodeRuneInString(line[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	if start == end {
		return "", Span{}, false
	}
	return line[start:end], Span{Start: start, End: end}, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// hoverName resolves the hovered word against the expression content.
func hoverName(content, word string) string {
	cleaned := strings.TrimSpace(content)
	wordLower := strings.ToLower(word)

	if strings.HasPrefix(cleaned, "//") && (word == "//" || wordLower == "comment") {
		return "//"
	}

	if strings.HasPrefix(cleaned, ":") && !strings.HasPrefix(cleaned, argSep) {
		special := strings.Fields(cleaned)[0]
		name := strings.ToLower(functionNameOf(special[1:]))
		if word == ":" || wordLower == name || wordLower == strings.ToLower(special) {
			return name
		}
	}

	if strings.HasPrefix(cleaned, "?") {
		if word == "?" {
			return "?"
		}
		cleaned = strings.TrimSpace(cleaned[1:])
	}

	block := false
	switch {
	case strings.HasPrefix(cleaned, "#"):
		block = true
		cleaned = strings.TrimSpace(cleaned[1:])
		if word == "#" {
			return "#" + strings.ToLower(functionNameOf(cleaned))
		}
	case strings.HasPrefix(cleaned, "/") && !strings.HasPrefix(cleaned, "//"):
		cleaned = strings.TrimSpace(cleaned[1:])
		if word == "/" {
			return "#" + strings.ToLower(functionNameOf(cleaned))
		}
	}

	base := strings.ToLower(functionNameOf(cleaned))
	if base != "" && (base == wordLower || strings.Contains(base, wordLower)) {
		if block {
			return "#" + base
		}
		return base
	}

	if word == argSep || word == "//" || (len(word) == 1 && isOperatorByte(word[0])) {
		return ""
	}
	return wordLower
}
