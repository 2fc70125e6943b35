package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidEdit is returned for an edit outside the content.
	ErrInvalidEdit = errors.New("invalid edit")

	// ErrEditConflict is returned when two edits overlap.
	ErrEditConflict = errors.New("overlapping edits")
)

// Prepare validates edits against a content length and returns a sorted
// copy. Overlapping edits are rejected.
func Prepare(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	for _, e := range edits {
		if e.StartOffset < 0 || e.EndOffset < e.StartOffset || e.EndOffset > contentLen {
			return nil, fmt.Errorf("%w: [%d:%d] in content of length %d",
				ErrInvalidEdit, e.StartOffset, e.EndOffset, contentLen)
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})

	for idx := 1; idx < len(sorted); idx++ {
		prev, cur := sorted[idx-1], sorted[idx]
		if cur.StartOffset < prev.EndOffset {
			return nil, fmt.Errorf("%w: [%d:%d] and [%d:%d]", ErrEditConflict,
				prev.StartOffset, prev.EndOffset, cur.StartOffset, cur.EndOffset)
		}
	}

	return sorted, nil
}

// Apply applies edits to content.
func Apply(content string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return content, nil
	}

	sorted, err := Prepare(edits, len(content))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(len(content))

	cursor := 0
	for _, e := range sorted {
		sb.WriteString(content[cursor:e.StartOffset])
		sb.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	sb.WriteString(content[cursor:])

	return sb.String(), nil
}
