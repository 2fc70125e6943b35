// Package fix provides text edits, their application, and unified diffs
// for formatter output.
package fix

import "strings"

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// LineEdits returns one edit per changed line turning original into
// modified. When the line counts differ it returns a single edit covering
// the whole document. Identical inputs yield no edits.
func LineEdits(original, modified string) []TextEdit {
	if original == modified {
		return nil
	}

	origLines := strings.SplitAfter(original, "\n")
	modLines := strings.SplitAfter(modified, "\n")
	if len(origLines) != len(modLines) {
		return []TextEdit{{StartOffset: 0, EndOffset: len(original), NewText: modified}}
	}

	var (
		edits  []TextEdit
		offset int
	)
	for idx, line := range origLines {
		if line != modLines[idx] {
			edits = append(edits, TextEdit{
				StartOffset: offset,
				EndOffset:   offset + len(line),
				NewText:     modLines[idx],
			})
		}
		offset += len(line)
	}
	return edits
}
