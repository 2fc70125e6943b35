package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// Source is the document a diagnostic points into.
type Source struct {
	Lines *cbs.LineIndex

	// ContextLines is the number of lines shown before and after.
	ContextLines int

	// Width truncates source lines; 0 disables truncation.
	Width int
}

// FormatDiagnostic formats one diagnostic, followed by its source context
// when src is non-nil.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, src *Source) string {
	var b strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+diag.RuleID+"/"+diag.RuleName+")"),
	)

	if src != nil && src.Lines != nil {
		b.WriteString(s.formatContext(diag, src))
	}
	return b.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// formatContext renders the lines around the diagnostic with a caret
// underline on its first line. Diagnostic lines are 1-based.
func (s *Styles) formatContext(diag *lint.Diagnostic, src *Source) string {
	target := diag.StartLine - 1
	first := max(target-src.ContextLines, 0)
	last := min(target+src.ContextLines, src.Lines.LineCount()-1)
	gutter := len(strconv.Itoa(last + 1))

	var b strings.Builder
	for line := first; line <= last; line++ {
		text := strings.TrimRight(src.Lines.LineText(line), "\r")
		if src.Width > 0 && len(text) > src.Width {
			text = text[:src.Width]
		}
		fmt.Fprintf(&b, "    %s %s %s\n",
			s.LineNumber.Render(fmt.Sprintf("%*d", gutter, line+1)),
			s.Dim.Render("|"),
			s.SourceLine.Render(text),
		)

		if line != target {
			continue
		}
		col := max(diag.StartColumn-1, 0)
		length := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			length = diag.EndColumn - diag.StartColumn
		}
		if src.Width > 0 {
			length = max(min(length, src.Width-col), 1)
		}
		fmt.Fprintf(&b, "    %s %s %s%s\n",
			strings.Repeat(" ", gutter),
			s.Dim.Render("|"),
			strings.Repeat(" ", col),
			s.Caret.Render(strings.Repeat("^", length)),
		)
	}
	return b.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
