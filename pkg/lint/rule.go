// Package lint turns CBS parse results into diagnostics and runs the
// per-file check and format pipeline for gocbs.
package lint

import (
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// Diagnostic represents a single issue found in a file.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule (e.g., "block-mismatch").
	RuleName string

	Message  string
	Severity config.Severity
	FilePath string

	// Span is the byte range of the issue.
	Span cbs.Span

	// StartLine and StartColumn are 1-based.
	StartLine   int
	StartColumn int

	// EndLine and EndColumn are 1-based; EndColumn is exclusive.
	EndLine   int
	EndColumn int
}

// Context is what a rule inspects.
type Context struct {
	Path      string
	Text      string
	Result    *cbs.Result
	Lines     *cbs.LineIndex
	Functions *funcs.Registry
}

// Diagnostic builds a diagnostic for span, filling in positions.
func (c *Context) Diagnostic(rule Rule, span cbs.Span, message string) Diagnostic {
	start := c.Lines.Position(span.Start)
	end := c.Lines.Position(span.End)
	return Diagnostic{
		RuleID:      rule.ID(),
		RuleName:    rule.Name(),
		Message:     message,
		Severity:    rule.DefaultSeverity(),
		FilePath:    c.Path,
		Span:        span,
		StartLine:   start.Line + 1,
		StartColumn: start.Column + 1,
		EndLine:     end.Line + 1,
		EndColumn:   end.Column + 1,
	}
}

// Rule defines a check over a parsed document.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "CBS001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity

	// Check returns diagnostics for every violation in ctx.
	Check(ctx *Context) []Diagnostic
}
