package lint

import (
	"slices"
	"strings"

	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/config"
)

// Built-in rule IDs.
const (
	RuleUnclosedExpression = "CBS001"
	RuleUnexpectedClose    = "CBS002"
	RuleBlockMismatch      = "CBS003"
	RuleUnclosedBlock      = "CBS004"
	RuleUnknownFunction    = "CBS005"
	RuleAnonymousClose     = "CBS006"
)

// parseErrorRule reports core parse errors of the given kinds.
type parseErrorRule struct {
	BaseRule
	kinds []cbs.ErrorKind
}

func (r *parseErrorRule) Check(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, perr := range ctx.Result.Errors {
		if slices.Contains(r.kinds, perr.Kind) {
			diags = append(diags, ctx.Diagnostic(r, perr.Span, perr.Message))
		}
	}
	return diags
}

// unknownFunctionRule reports function calls whose name is not in the
// function registry.
type unknownFunctionRule struct {
	BaseRule
}

func (r *unknownFunctionRule) Check(ctx *Context) []Diagnostic {
	if ctx.Functions == nil {
		return nil
	}

	var diags []Diagnostic
	for _, tok := range ctx.Result.Tokens {
		if tok.Kind != cbs.FunctionCall || !tok.Closed(ctx.Text) {
			continue
		}
		name := callName(tok.Value)
		if name == "" || strings.Contains(name, "{{") {
			continue
		}
		if _, ok := ctx.Functions.Lookup(name); ok {
			continue
		}
		if _, ok := ctx.Functions.Lookup(strings.TrimPrefix(name, ":")); ok {
			continue
		}
		diags = append(diags, ctx.Diagnostic(r, tok.Span, "Unknown function: "+name))
	}
	return diags
}

// callName returns the function name of a call expression body.
func callName(body string) string {
	body = strings.TrimSpace(body)
	if strings.HasPrefix(body, "//") {
		return "//"
	}
	if idx := strings.Index(body, "::"); idx >= 0 {
		body = body[:idx]
	}
	if idx := strings.IndexAny(body, " \t\r\n"); idx >= 0 {
		body = body[:idx]
	}
	return body
}

// anonymousCloseRule reports "{{/}}" close tags.
type anonymousCloseRule struct {
	BaseRule
}

func (r *anonymousCloseRule) Check(ctx *Context) []Diagnostic {
	var diags []Diagnostic
	for _, tok := range ctx.Result.Tokens {
		if tok.Kind == cbs.BlockClose && tok.Value == "" && tok.Closed(ctx.Text) {
			diags = append(diags, ctx.Diagnostic(r, tok.Span, "Close tag without a block name"))
		}
	}
	return diags
}

// BuiltinRules returns fresh instances of every built-in rule.
func BuiltinRules() []Rule {
	return []Rule{
		&parseErrorRule{
			BaseRule: NewBaseRule(RuleUnclosedExpression, "unclosed-expression",
				"An expression opened with {{ has no matching }}.", config.SeverityError),
			kinds: []cbs.ErrorKind{
				cbs.ErrUnclosedBlockOpen, cbs.ErrUnclosedBlockClose,
				cbs.ErrUnclosedMath, cbs.ErrUnclosedFunction,
			},
		},
		&parseErrorRule{
			BaseRule: NewBaseRule(RuleUnexpectedClose, "unexpected-close",
				"A close tag appears with no open block.", config.SeverityError),
			kinds: []cbs.ErrorKind{cbs.ErrUnexpectedClose},
		},
		&parseErrorRule{
			BaseRule: NewBaseRule(RuleBlockMismatch, "block-mismatch",
				"A close tag names a different block than the one it closes.", config.SeverityError),
			kinds: []cbs.ErrorKind{cbs.ErrBlockMismatch},
		},
		&parseErrorRule{
			BaseRule: NewBaseRule(RuleUnclosedBlock, "unclosed-block",
				"A block is opened but never closed.", config.SeverityError),
			kinds: []cbs.ErrorKind{cbs.ErrUnclosedBlock},
		},
		&unknownFunctionRule{
			BaseRule: NewBaseRule(RuleUnknownFunction, "unknown-function",
				"A function call names no known function or alias.", config.SeverityInfo).disabledByDefault(),
		},
		&anonymousCloseRule{
			BaseRule: NewBaseRule(RuleAnonymousClose, "anonymous-close",
				"A close tag omits the block name.", config.SeverityInfo).disabledByDefault(),
		},
	}
}
