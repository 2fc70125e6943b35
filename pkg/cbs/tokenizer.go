package cbs

import "strings"

// Tokenize scans text once from left to right and returns every CBS
// expression as a Token together with the errors for expressions that are
// never closed. Plain text between expressions produces no tokens.
//
// An unclosed expression still yields a token; its span runs to the end of
// text, which also ends the scan because every later "{{" is nested inside
// it.
func Tokenize(text string) ([]Token, []ParseError) {
	var (
		tokens []Token
		errs   []ParseError
	)

	scanner := NewScanner(text)
	for {
		pos, ok := scanner.Next()
		if !ok {
			break
		}

		tok, perr := classify(text, pos)
		tokens = append(tokens, tok)
		if perr != nil {
			errs = append(errs, *perr)
		}

		scanner.SkipTo(tok.Span.End)
	}

	return tokens, errs
}

// classify reads the expression whose "{{" starts at pos and dispatches on
// its marker byte.
func classify(text string, pos Position) (Token, *ParseError) {
	bodyStart := pos.Offset + len(openDelim)

	var marker byte
	if bodyStart < len(text) {
		marker = text[bodyStart]
	}

	switch marker {
	case '#':
		return extractBlockOpen(text, pos, bodyStart+1)
	case '/':
		return extractBlockClose(text, pos, bodyStart+1)
	case '?':
		return extractMath(text, pos, bodyStart+1)
	default:
		return extractFunction(text, pos, bodyStart)
	}
}

func extractBlockOpen(text string, pos Position, nameStart int) (Token, *ParseError) {
	nameEnd := blockNameEnd(text, nameStart)
	name := text[nameStart:nameEnd]

	tok := Token{Kind: BlockOpen, Value: name, Line: pos.Line, Column: pos.Column}

	end := findCloser(text, nameStart)
	if end < 0 {
		tok.Span = Span{Start: pos.Offset, End: len(text)}
		perr := newParseError(ErrUnclosedBlockOpen, Span{Start: pos.Offset, End: nameEnd}, pos,
			"Unclosed block open tag: {{#%s}}", name)
		return tok, &perr
	}

	tok.Span = Span{Start: pos.Offset, End: end}
	return tok, nil
}

func extractBlockClose(text string, pos Position, nameStart int) (Token, *ParseError) {
	nameEnd := nameStart
	for nameEnd < len(text) && text[nameEnd] != '}' && text[nameEnd] != '\n' {
		nameEnd++
	}
	name := strings.TrimSpace(text[nameStart:nameEnd])

	tok := Token{Kind: BlockClose, Value: name, Line: pos.Line, Column: pos.Column}

	end := findCloser(text, nameStart)
	if end < 0 {
		tok.Span = Span{Start: pos.Offset, End: len(text)}
		perr := newParseError(ErrUnclosedBlockClose, Span{Start: pos.Offset, End: nameEnd}, pos,
			"Unclosed block close tag: {{/%s}}", name)
		return tok, &perr
	}

	tok.Span = Span{Start: pos.Offset, End: end}
	return tok, nil
}

func extractMath(text string, pos Position, contentStart int) (Token, *ParseError) {
	tok := Token{Kind: MathExpression, Line: pos.Line, Column: pos.Column}

	end := findCloser(text, contentStart)
	if end < 0 {
		tok.Value = strings.TrimSpace(text[min(contentStart, len(text)):])
		tok.Span = Span{Start: pos.Offset, End: len(text)}
		perr := newParseError(ErrUnclosedMath, Span{Start: pos.Offset, End: min(contentStart, len(text))}, pos,
			"Unclosed math expression")
		return tok, &perr
	}

	tok.Value = strings.TrimSpace(text[contentStart : end-len(closeDelim)])
	tok.Span = Span{Start: pos.Offset, End: end}
	return tok, nil
}

func extractFunction(text string, pos Position, contentStart int) (Token, *ParseError) {
	tok := Token{Kind: FunctionCall, Line: pos.Line, Column: pos.Column}

	end := findCloser(text, contentStart)
	if end < 0 {
		tok.Value = text[min(contentStart, len(text)):]
		tok.Span = Span{Start: pos.Offset, End: len(text)}
		perr := newParseError(ErrUnclosedFunction, Span{Start: pos.Offset, End: min(contentStart, len(text))}, pos,
			"Unclosed function call")
		return tok, &perr
	}

	tok.Value = text[contentStart : end-len(closeDelim)]
	tok.Span = Span{Start: pos.Offset, End: end}
	return tok, nil
}

// blockNameEnd returns the end of a block-open name: the first whitespace,
// brace, or argument separator. Block tags take arguments after "::" as in
// "{{#when::cond}}", so the name must not swallow them; a name ending only
// at a space would read "when::cond" and mismatch "{{/when}}".
func blockNameEnd(text string, from int) int {
	idx := from
	for idx < len(text) {
		switch text[idx] {
		case ' ', '\t', '\r', '\n', '}', '{':
			return idx
		case ':':
			if strings.HasPrefix(text[idx:], argSep) {
				return idx
			}
		}
		idx++
	}
	return idx
}
