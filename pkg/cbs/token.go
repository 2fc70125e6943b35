package cbs

import "fmt"

// TokenKind classifies a CBS expression by its leading marker.
type TokenKind int

const (
	// BlockOpen is "{{#name ...}}".
	BlockOpen TokenKind = iota
	// BlockClose is "{{/name}}" or the elided "{{/}}".
	BlockClose
	// FunctionCall is any expression without a structural marker.
	FunctionCall
	// MathExpression is "{{? ...}}".
	MathExpression
)

var tokenKindNames = map[TokenKind]string{
	BlockOpen:      "block-open",
	BlockClose:     "block-close",
	FunctionCall:   "function-call",
	MathExpression: "math-expression",
}

// String returns the kebab-case name of the kind.
func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k TokenKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one classified CBS expression.
type Token struct {
	Kind TokenKind `json:"kind"`

	// Value is the block name for BlockOpen and BlockClose (empty for an
	// elided close), the raw interior for FunctionCall, and the trimmed
	// interior for MathExpression.
	Value string `json:"value"`

	Span   Span `json:"span"`
	Line   int  `json:"line"`
	Column int  `json:"column"`
}

// Closed reports whether the token ended with a matching "}}".
func (t Token) Closed(text string) bool {
	return t.Span.Len() >= 4 && t.Span.End <= len(text) && text[t.Span.End-2:t.Span.End] == closeDelim
}
