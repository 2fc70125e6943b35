package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// LineKind marks a line of a diff hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// Line is one line of a hunk, without its prefix or newline.
type Line struct {
	Kind    LineKind
	Content string
}

// Hunk is a contiguous region of change with surrounding context.
// Starts are 1-based line numbers.
type Hunk struct {
	OrigStart, OrigCount int
	ModStart, ModCount   int
	Lines                []Line
}

// Diff is a line-based unified diff of one file.
type Diff struct {
	Path      string
	Hunks     []Hunk
	Additions int
	Deletions int
}

// Compute returns the diff between original and modified, or nil when
// they are identical.
func Compute(path, original, modified string) *Diff {
	if original == modified {
		return nil
	}

	ops := diffLines(splitLines(original), splitLines(modified))
	d := &Diff{Path: path, Hunks: hunksOf(ops)}
	for _, op := range ops {
		switch op.Kind {
		case LineAdd:
			d.Additions++
		case LineRemove:
			d.Deletions++
		case LineContext:
		}
	}
	if len(d.Hunks) == 0 {
		return nil
	}
	return d
}

// HasChanges reports whether the diff has any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OrigStart, h.OrigCount, h.ModStart, h.ModCount)
		for _, l := range h.Lines {
			sb.WriteByte(" +-"[l.Kind])
			sb.WriteString(l.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

// diffLines produces an edit script from a longest-common-subsequence
// table. Removals precede additions within a change.
func diffLines(a, b []string) []Line {
	table := make([][]int, len(a)+1)
	for i := range table {
		table[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var ops []Line
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			ops = append(ops, Line{Kind: LineContext, Content: a[i]})
			i++
			j++
		case j >= len(b) || (i < len(a) && table[i+1][j] >= table[i][j+1]):
			ops = append(ops, Line{Kind: LineRemove, Content: a[i]})
			i++
		default:
			ops = append(ops, Line{Kind: LineAdd, Content: b[j]})
			j++
		}
	}
	return ops
}

// hunksOf groups an edit script into hunks, merging changes separated by
// at most twice the context size.
func hunksOf(ops []Line) []Hunk {
	var hunks []Hunk

	idx := 0
	for idx < len(ops) {
		if ops[idx].Kind == LineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(ops) {
			if ops[end].Kind != LineContext {
				end++
				continue
			}
			run := end
			for run < len(ops) && ops[run].Kind == LineContext {
				run++
			}
			if run == len(ops) || run-end > 2*contextLines {
				break
			}
			end = run
		}
		stop := min(end+contextLines, len(ops))

		hunks = append(hunks, buildHunk(ops, start, stop))
		idx = stop
	}
	return hunks
}

func buildHunk(ops []Line, start, stop int) Hunk {
	h := Hunk{OrigStart: 1, ModStart: 1}
	for _, op := range ops[:start] {
		if op.Kind != LineAdd {
			h.OrigStart++
		}
		if op.Kind != LineRemove {
			h.ModStart++
		}
	}

	h.Lines = append(h.Lines, ops[start:stop]...)
	for _, op := range h.Lines {
		if op.Kind != LineAdd {
			h.OrigCount++
		}
		if op.Kind != LineRemove {
			h.ModCount++
		}
	}
	return h
}
