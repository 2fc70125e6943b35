package cbs

import (
	"strings"
)

// Marker is the structural prefix of an expression being typed.
type Marker int

const (
	// MarkerNone means a plain function call.
	MarkerNone Marker = iota
	// MarkerBlockOpen is '#'.
	MarkerBlockOpen
	// MarkerBlockClose is '/'.
	MarkerBlockClose
	// MarkerSpecial is ':' as in {{:else}}.
	MarkerSpecial
)

// String returns the marker character, or "" for MarkerNone.
func (m Marker) String() string {
	switch m {
	case MarkerBlockOpen:
		return "#"
	case MarkerBlockClose:
		return "/"
	case MarkerSpecial:
		return ":"
	case MarkerNone:
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler.
func (m Marker) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func markerOf(b byte) Marker {
	switch b {
	case '#':
		return MarkerBlockOpen
	case '/':
		return MarkerBlockClose
	case ':':
		return MarkerSpecial
	}
	return MarkerNone
}

// CursorContext describes the unterminated expression around a cursor.
type CursorContext struct {
	InsideExpression bool   `json:"insideExpression"`
	Marker           Marker `json:"marker"`

	// RawInput is the content after the marker up to the cursor.
	RawInput string `json:"rawInput"`

	// FunctionName is RawInput up to the first "::" or whitespace.
	FunctionName string `json:"functionName"`

	// ExpressionStart is the offset of the enclosing "{{".
	ExpressionStart int `json:"expressionStart"`
}

// ResolveCursorContext reports what the user is typing at offset. It
// returns nil when the cursor is not inside an unterminated expression:
// there is no "{{" before the cursor, or a "}}" follows the last one.
// Offsets outside text are clamped.
func ResolveCursorContext(text string, offset int) *CursorContext {
	offset = clamp(offset, 0, len(text))
	before := text[:offset]

	open := strings.LastIndex(before, openDelim)
	if open < 0 {
		return nil
	}

	content := before[open+len(openDelim):]
	if strings.Contains(content, closeDelim) {
		return nil
	}

	marker, content := stripMarker(content)

	return &CursorContext{
		InsideExpression: true,
		Marker:           marker,
		RawInput:         content,
		FunctionName:     functionNameOf(content),
		ExpressionStart:  open,
	}
}

// FunctionCallContext describes the argument being typed in a call.
type FunctionCallContext struct {
	FunctionName string `json:"functionName"`

	// ArgumentText is everything after the first "::" up to the cursor.
	ArgumentText string `json:"argumentText"`

	CursorOffsetWithinArguments int `json:"cursorOffsetWithinArguments"`

	// ArgumentCount is the number of top-level "::" in ArgumentText.
	ArgumentCount int `json:"argumentCount"`

	// ActiveParameter is the zero-based index of the argument under the
	// cursor.
	ActiveParameter int `json:"activeParameter"`

	// ExpressionStart is the offset of the call's "{{".
	ExpressionStart int `json:"expressionStart"`
}

// ResolveFunctionCall finds the innermost expression that is still open at
// offset and, when the cursor sits past its first "::", splits it into a
// function name and arguments. Separators inside nested expressions are
// not argument boundaries. It returns nil when there is no such call.
func ResolveFunctionCall(text string, offset int) *FunctionCallContext {
	offset = clamp(offset, 0, len(text))

	open := innermostOpen(text, 0, offset)
	if open < 0 {
		return nil
	}

	_, content := stripMarker(text[open+len(openDelim) : offset])

	seps := topLevelSeparators(content)
	if len(seps) == 0 {
		return nil
	}

	first := seps[0]
	args := content[first+len(argSep):]

	count := 0
	if strings.TrimSpace(args) != "" {
		count = len(seps) - 1
	}

	return &FunctionCallContext{
		FunctionName:                functionNameOf(content[:first]),
		ArgumentText:                args,
		CursorOffsetWithinArguments: len(args),
		ArgumentCount:               count,
		ActiveParameter:             count,
		ExpressionStart:             open,
	}
}

// stripMarker removes at most one leading structural marker.
func stripMarker(content string) (Marker, string) {
	if content == "" {
		return MarkerNone, content
	}
	marker := markerOf(content[0])
	if marker == MarkerNone {
		return MarkerNone, content
	}
	return marker, content[1:]
}

// functionNameOf returns content up to the first "::" or whitespace. Tabs
// and line breaks end the name like a space does; a name never contains
// them, so this only matters for input such as "{{user\n".
func functionNameOf(content string) string {
	end := len(content)
	if idx := strings.Index(content, argSep); idx >= 0 {
		end = idx
	}
	if idx := strings.IndexAny(content[:end], " \t\r\n"); idx >= 0 {
		end = idx
	}
	return content[:end]
}
