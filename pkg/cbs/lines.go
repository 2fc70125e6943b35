package cbs

import (
	"sort"
	"unicode/utf8"
)

// LineInfo describes one line of source text.
type LineInfo struct {
	// Start is the byte offset of the first byte of the line.
	Start int

	// NewlineStart is the byte offset where the line terminator begins
	// (equal to End for the last line without a terminator).
	NewlineStart int

	// End is the byte offset just past the line terminator.
	End int
}

// LineIndex maps between byte offsets and line/column positions.
// It handles both LF and CRLF line endings.
type LineIndex struct {
	text  string
	lines []LineInfo
}

// NewLineIndex builds a line index for text.
func NewLineIndex(text string) *LineIndex {
	lines := make([]LineInfo, 0, 16)
	lineStart := 0

	for idx := range len(text) {
		if text[idx] != '\n' {
			continue
		}

		newlineStart := idx
		if idx > 0 && text[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{Start: lineStart, NewlineStart: newlineStart, End: idx + 1})
		lineStart = idx + 1
	}

	lines = append(lines, LineInfo{Start: lineStart, NewlineStart: len(text), End: len(text)})

	return &LineIndex{text: text, lines: lines}
}

// LineCount returns the number of lines. Empty text has one line.
func (x *LineIndex) LineCount() int {
	return len(x.lines)
}

// Line returns the metadata for a zero-based line number.
func (x *LineIndex) Line(line int) (LineInfo, bool) {
	if line < 0 || line >= len(x.lines) {
		return LineInfo{}, false
	}
	return x.lines[line], true
}

// LineText returns the content of a zero-based line without its terminator.
func (x *LineIndex) LineText(line int) string {
	info, ok := x.Line(line)
	if !ok {
		return ""
	}
	return x.text[info.Start:info.NewlineStart]
}

// Position converts a byte offset to a Position.
// Offsets outside the text are clamped.
func (x *LineIndex) Position(offset int) Position {
	offset = clamp(offset, 0, len(x.text))

	lineIdx := sort.Search(len(x.lines), func(i int) bool {
		return x.lines[i].End > offset
	})
	if lineIdx >= len(x.lines) {
		lineIdx = len(x.lines) - 1
	}

	return Position{Offset: offset, Line: lineIdx, Column: offset - x.lines[lineIdx].Start}
}

// Offset converts a zero-based line and byte column to an offset.
// A column past the end of the line is clamped to the line end.
func (x *LineIndex) Offset(line, column int) (int, bool) {
	info, ok := x.Line(line)
	if !ok || column < 0 {
		return 0, false
	}
	return min(info.Start+column, info.NewlineStart), true
}

// UTF16Column converts a byte column on line to a UTF-16 code unit column,
// the unit editors speaking the language server protocol use.
func (x *LineIndex) UTF16Column(line, byteColumn int) int {
	lineText := x.LineText(line)
	byteColumn = clamp(byteColumn, 0, len(lineText))

	units := 0
	for _, r := range lineText[:byteColumn] {
		units += utf16Len(r)
	}
	return units
}

// ByteColumn converts a UTF-16 code unit column on line to a byte column.
func (x *LineIndex) ByteColumn(line, utf16Column int) int {
	lineText := x.LineText(line)

	units := 0
	for idx, r := range lineText {
		if units >= utf16Column {
			return idx
		}
		units += utf16Len(r)
	}
	return len(lineText)
}

func utf16Len(r rune) int {
	if r == utf8.RuneError || r < 0x10000 {
		return 1
	}
	return 2
}
