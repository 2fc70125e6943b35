// Package format re-indents CBS documents from their block structure.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/fix"
)

// ErrHasParseErrors is returned when the document has structural errors.
// The formatter never rewrites such a document.
var ErrHasParseErrors = errors.New("document has parse errors")

// IndentStyle selects spaces or tabs.
type IndentStyle string

const (
	IndentSpace IndentStyle = "space"
	IndentTab   IndentStyle = "tab"
)

// Options control formatting.
type Options struct {
	// IndentSize is the number of spaces per level for IndentSpace.
	IndentSize int

	IndentStyle IndentStyle

	// PreserveMarkdown leaves lines starting with '#' (markdown headings)
	// untouched apart from indentation.
	PreserveMarkdown bool

	// AlignArguments surrounds every "::" with single spaces.
	AlignArguments bool

	TrimTrailingWhitespace bool
}

// DefaultOptions returns four-space indentation with markdown preserved.
func DefaultOptions() Options {
	return Options{
		IndentSize:             4,
		IndentStyle:            IndentSpace,
		PreserveMarkdown:       true,
		TrimTrailingWhitespace: true,
	}
}

// rawBlocks keep their content byte for byte.
var rawBlocks = map[string]bool{"pure": true, "puredisplay": true, "if_pure": true}

var argSpace = regexp.MustCompile(`[ \t]*::[ \t]*`)

// leadGuard lists the bytes that must not be pulled up against an opening
// "{{": markers change the expression kind and braces change nesting.
const leadGuard = "#/?:{}"

// lineInfo is the formatting plan for one line.
type lineInfo struct {
	level int
	raw   bool

	// keepLeading and keepTrailing mark edge whitespace that belongs to
	// the content of a raw block.
	keepLeading  bool
	keepTrailing bool
}

// sourceLine is one "\n"-terminated line without its line break.
type sourceLine struct {
	start int
	text  string
	cr    bool
}

// replacement rewrites one single-line token, in line-relative offsets.
type replacement struct {
	start, end int
	text       string
}

// Format re-indents text. When the document has parse errors it returns
// text unchanged together with ErrHasParseErrors. Output whose expressions
// would parse differently from the input is discarded and text is
// returned as is.
func Format(text string, opts Options) (string, error) {
	res := cbs.Parse(text)
	if res.HasErrors() {
		return text, fmt.Errorf("%w: %d error(s)", ErrHasParseErrors, len(res.Errors))
	}

	formatted := render(text, res, opts)
	if formatted != text && !sameTokens(res.Tokens, cbs.Parse(formatted), opts) {
		return text, nil
	}
	return formatted, nil
}

// FormatRange formats the whole document and returns the formatted text of
// the zero-based lines [startLine, endLine], joined without the last
// line's terminator.
func FormatRange(text string, startLine, endLine int, opts Options) (string, error) {
	formatted, err := Format(text, opts)
	if err != nil {
		return "", err
	}

	lines := splitLines(formatted)
	startLine = max(startLine, 0)
	endLine = min(endLine, len(lines)-1)
	if startLine > endLine {
		return "", nil
	}
	selected := slices.Clone(lines[startLine : endLine+1])
	selected[len(selected)-1].cr = false
	return joinLines(selected), nil
}

// Edits formats text and returns the line edits that transform the
// original into the formatted document. A formatted document yields no
// edits.
func Edits(text string, opts Options) ([]fix.TextEdit, error) {
	formatted, err := Format(text, opts)
	if err != nil {
		return nil, err
	}
	return fix.LineEdits(text, formatted), nil
}

func render(text string, res *cbs.Result, opts Options) string {
	lines := splitLines(text)
	raw := rawInteriors(res)
	plan := planLines(text, res, lines, raw)
	repl := tokenReplacements(text, res.Tokens, lines, raw, opts)

	for idx := range lines {
		lines[idx].text = formatLine(lines[idx].text, plan[idx], repl[idx], opts)
	}
	return joinLines(lines)
}

// splitLines splits on "\n" so line numbers agree with the scanner. A
// trailing "\r" is set aside and restored by joinLines.
func splitLines(text string) []sourceLine {
	var lines []sourceLine
	start := 0
	for {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			return append(lines, newSourceLine(start, text[start:]))
		}
		lines = append(lines, newSourceLine(start, text[start:start+end]))
		start += end + 1
	}
}

func newSourceLine(start int, text string) sourceLine {
	body, cr := strings.CutSuffix(text, "\r")
	return sourceLine{start: start, text: body, cr: cr}
}

func joinLines(lines []sourceLine) string {
	var sb strings.Builder
	for idx, line := range lines {
		if idx > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line.text)
		if line.cr {
			sb.WriteByte('\r')
		}
	}
	return sb.String()
}

// rawInteriors returns the byte ranges between the opener and closer of
// every raw block.
func rawInteriors(res *cbs.Result) []cbs.Span {
	openEnd := make(map[int]int, len(res.Tokens))
	closeStart := make(map[int]int, len(res.Tokens))
	for _, tok := range res.Tokens {
		switch tok.Kind {
		case cbs.BlockOpen:
			openEnd[tok.Span.Start] = tok.Span.End
		case cbs.BlockClose:
			closeStart[tok.Span.End] = tok.Span.Start
		case cbs.FunctionCall, cbs.MathExpression:
		}
	}

	var spans []cbs.Span
	res.Tree.Walk(func(_ cbs.BlockID, b *cbs.Block, _ int) bool {
		if !rawBlocks[b.Type] {
			return true
		}
		start, ok := openEnd[b.Span.Start]
		if !ok {
			return false
		}
		end, ok := closeStart[b.Span.End]
		if !ok || !b.Closed {
			end = b.Span.End
		}
		spans = append(spans, cbs.Span{Start: start, End: max(start, end)})
		return false
	})
	return spans
}

func within(spans []cbs.Span, inner cbs.Span) bool {
	for _, s := range spans {
		if inner.Start >= s.Start && inner.End <= s.End {
			return true
		}
	}
	return false
}

func overlaps(spans []cbs.Span, r cbs.Span) bool {
	for _, s := range spans {
		if r.Start < s.End && r.End > s.Start {
			return true
		}
	}
	return false
}

// tokenReplacements normalizes the delimiters of every single-line token
// outside raw blocks, grouped by line.
func tokenReplacements(text string, tokens []cbs.Token, lines []sourceLine, raw []cbs.Span, opts Options) [][]replacement {
	out := make([][]replacement, len(lines))
	for _, tok := range tokens {
		if tok.Line >= len(lines) || within(raw, tok.Span) {
			continue
		}
		src := text[tok.Span.Start:tok.Span.End]
		if strings.ContainsAny(src, "\r\n") || !tok.Closed(text) {
			continue
		}
		normalized := normalizeToken(src, tok.Kind, opts)
		if normalized == src {
			continue
		}
		base := lines[tok.Line].start
		out[tok.Line] = append(out[tok.Line], replacement{
			start: tok.Span.Start - base,
			end:   tok.Span.End - base,
			text:  normalized,
		})
	}
	return out
}

// normalizeToken trims whitespace just inside the token's own "{{" and
// "}}". Whitespace after a "}" or before a marker or brace is kept, since
// removing it would change how the expression is delimited or classified.
func normalizeToken(src string, kind cbs.TokenKind, opts Options) string {
	body := src[2 : len(src)-2]
	if strings.TrimSpace(body) == "" {
		return src
	}

	if kind == cbs.FunctionCall {
		if opts.AlignArguments {
			body = argSpace.ReplaceAllString(body, " :: ")
		}
		if trimmed := strings.TrimLeft(body, " \t"); trimmed != body && !strings.ContainsRune(leadGuard, rune(trimmed[0])) {
			body = trimmed
		}
	}

	if trimmed := strings.TrimRight(body, " \t"); trimmed != body && !strings.ContainsRune("{}", rune(trimmed[len(trimmed)-1])) {
		body = trimmed
	}

	return "{{" + body + "}}"
}

// sameTokens reports whether after has the same expressions as before, up
// to whitespace the formatter may change.
func sameTokens(before []cbs.Token, after *cbs.Result, opts Options) bool {
	if after.HasErrors() || len(after.Tokens) != len(before) {
		return false
	}
	for idx, tok := range before {
		other := after.Tokens[idx]
		if tok.Kind != other.Kind || tokenKey(tok, opts) != tokenKey(other, opts) {
			return false
		}
	}
	return true
}

func tokenKey(tok cbs.Token, opts Options) string {
	value := strings.TrimSpace(tok.Value)
	if opts.AlignArguments && tok.Kind == cbs.FunctionCall {
		value = argSpace.ReplaceAllString(value, "::")
	}
	return value
}

// planLines computes the indentation level of every line from the block
// tokens, and marks lines that must be kept verbatim: continuation lines
// of multi-line expressions and the interior of raw blocks.
func planLines(text string, res *cbs.Result, lines []sourceLine, raw []cbs.Span) []lineInfo {
	count := len(lines)
	plan := make([]lineInfo, count)
	index := cbs.NewLineIndex(text)

	type lineTokens struct {
		opens, closes, leadingCloses int
		leadingElse                  bool
	}
	perLine := make([]lineTokens, count)

	for _, tok := range res.Tokens {
		if tok.Line >= count {
			continue
		}
		lt := &perLine[tok.Line]
		leading := isLeading(index, tok)

		switch tok.Kind {
		case cbs.BlockOpen:
			lt.opens++
		case cbs.BlockClose:
			if lt.opens > 0 {
				lt.opens--
			} else {
				lt.closes++
				if leading {
					lt.leadingCloses++
				}
			}
		case cbs.FunctionCall:
			if leading && strings.HasPrefix(tok.Value, ":else") {
				lt.leadingElse = true
			}
		case cbs.MathExpression:
		}

		end := index.Position(tok.Span.End)
		for line := tok.Line + 1; line <= end.Line && line < count; line++ {
			plan[line].raw = true
		}
	}

	res.Tree.Walk(func(_ cbs.BlockID, b *cbs.Block, _ int) bool {
		if !rawBlocks[b.Type] {
			return true
		}
		for line := b.Line + 1; line < b.EndLine && line < count; line++ {
			plan[line].raw = true
		}
		return false
	})

	for idx, line := range lines {
		lead := len(line.text) - len(strings.TrimLeft(line.text, " \t"))
		trail := len(strings.TrimRight(line.text, " \t"))
		first := line.start + lead
		for _, in := range raw {
			if line.start >= in.Start && first < in.End {
				plan[idx].keepLeading = true
			}
		}
		if trail < len(line.text) {
			plan[idx].keepTrailing = overlaps(raw, cbs.Span{Start: line.start + trail, End: line.start + len(line.text)})
		}
	}

	level := 0
	for idx, lt := range perLine {
		printLevel := max(level-lt.leadingCloses, 0)
		if lt.leadingElse && lt.leadingCloses == 0 {
			printLevel = max(printLevel-1, 0)
		}
		plan[idx].level = printLevel
		level = max(level+lt.opens-lt.closes, 0)
	}

	return plan
}

// isLeading reports whether only whitespace or other expressions precede
// tok on its line.
func isLeading(index *cbs.LineIndex, tok cbs.Token) bool {
	info, ok := index.Line(tok.Line)
	if !ok {
		return false
	}
	prefix := strings.TrimSpace(index.LineText(tok.Line)[:tok.Span.Start-info.Start])
	for strings.HasPrefix(prefix, "{{/") {
		end := strings.Index(prefix, "}}")
		if end < 0 {
			return false
		}
		prefix = strings.TrimSpace(prefix[end+2:])
	}
	return prefix == ""
}

func formatLine(line string, info lineInfo, repl []replacement, opts Options) string {
	if info.raw {
		return line
	}
	if strings.TrimSpace(line) == "" && !info.keepLeading {
		return ""
	}

	lead := len(line) - len(strings.TrimLeft(line, " \t"))
	body := line[lead:]
	if opts.TrimTrailingWhitespace && !info.keepTrailing {
		body = strings.TrimRight(body, " \t")
	}

	indent := indentFor(info.level, opts)
	if info.keepLeading {
		indent = line[:lead]
	}
	if opts.PreserveMarkdown && strings.HasPrefix(body, "#") {
		return indent + body
	}

	// Replacements never touch edge whitespace, so they apply to body
	// shifted by the stripped indentation. Apply right to left.
	for i := len(repl) - 1; i >= 0; i-- {
		r := repl[i]
		start, end := r.start-lead, r.end-lead
		if start < 0 || end > len(body) {
			continue
		}
		body = body[:start] + r.text + body[end:]
	}

	return indent + body
}

func indentFor(level int, opts Options) string {
	if opts.IndentStyle == IndentTab {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*max(opts.IndentSize, 0))
}
