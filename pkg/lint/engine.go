package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

// FileResult contains the results of checking a single file.
type FileResult struct {
	Path string

	// Parse is the core parse of the file content.
	Parse *cbs.Result

	// Diagnostics are sorted by position.
	Diagnostics []Diagnostic
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// Count returns the number of diagnostics with the given severity.
func (fr *FileResult) Count(severity config.Severity) int {
	n := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// Engine runs rules over parsed documents.
type Engine struct {
	Registry  *Registry
	Functions *funcs.Registry
}

// NewEngine creates an Engine. functions may be nil, which disables
// rules that need function metadata.
func NewEngine(registry *Registry, functions *funcs.Registry) *Engine {
	return &Engine{Registry: registry, Functions: functions}
}

// CheckFile parses content and runs every enabled rule.
func (e *Engine) CheckFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("check cancelled: %w", err)
	}

	text := string(content)
	parse := cbs.Parse(text)
	rctx := &Context{
		Path:      path,
		Text:      text,
		Result:    parse,
		Lines:     cbs.NewLineIndex(text),
		Functions: e.Functions,
	}

	result := &FileResult{Path: path, Parse: parse}
	for _, rr := range ResolveRules(e.Registry, cfg) {
		for _, d := range rr.Rule.Check(rctx) {
			d.Severity = rr.Severity
			result.Diagnostics = append(result.Diagnostics, d)
		}
	}

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Span.Start, b.Span.Start),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})

	return result, nil
}
