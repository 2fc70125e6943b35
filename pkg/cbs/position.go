package cbs

// Position is a zero-based location in source text.
// Column counts bytes from the start of the line.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open byte range [Start, End) in source text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if offset lies within the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Encloses returns true if other lies entirely within s.
func (s Span) Encloses(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Text returns the slice of text covered by the span, clamped to text.
func (s Span) Text(text string) string {
	start, end := clamp(s.Start, 0, len(text)), clamp(s.End, 0, len(text))
	if start >= end {
		return ""
	}
	return text[start:end]
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
