package cbs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/cbs"
)

func TestTokenize_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantKind  cbs.TokenKind
		wantValue string
	}{
		{name: "block open stops at space", text: "{{#each arr}}", wantKind: cbs.BlockOpen, wantValue: "each"},
		{name: "block open stops at separator", text: "{{#when::keep::x}}", wantKind: cbs.BlockOpen, wantValue: "when"},
		{name: "block close", text: "{{/each}}", wantKind: cbs.BlockClose, wantValue: "each"},
		{name: "elided block close", text: "{{/}}", wantKind: cbs.BlockClose, wantValue: ""},
		{name: "block close trimmed", text: "{{/ if }}", wantKind: cbs.BlockClose, wantValue: "if"},
		{name: "math trimmed", text: "{{? 1 + 2 }}", wantKind: cbs.MathExpression, wantValue: "1 + 2"},
		{name: "function raw", text: "{{getvar:: x }}", wantKind: cbs.FunctionCall, wantValue: "getvar:: x "},
		{name: "special keyword is a function call", text: "{{:else}}", wantKind: cbs.FunctionCall, wantValue: ":else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, errs := cbs.Tokenize(tt.text)
			require.Len(t, tokens, 1)
			assert.Empty(t, errs)
			assert.Equal(t, tt.wantKind, tokens[0].Kind)
			assert.Equal(t, tt.wantValue, tokens[0].Value)
			assert.Equal(t, cbs.Span{Start: 0, End: len(tt.text)}, tokens[0].Span)
		})
	}
}

func TestTokenize_NestedExpressionIsOneToken(t *testing.T) {
	t.Parallel()

	text := "{{a::{{b::{{c}}}}}}"
	tokens, errs := cbs.Tokenize(text)

	require.Len(t, tokens, 1)
	assert.Empty(t, errs)
	assert.Equal(t, cbs.FunctionCall, tokens[0].Kind)
	assert.Equal(t, "a::{{b::{{c}}}}", tokens[0].Value)
	assert.Equal(t, cbs.Span{Start: 0, End: len(text)}, tokens[0].Span)
}

func TestTokenize_PlainTextProducesNothing(t *testing.T) {
	t.Parallel()

	tokens, errs := cbs.Tokenize("just some { text } here")
	assert.Empty(t, tokens)
	assert.Empty(t, errs)
}

func TestTokenize_OrderedAndNonOverlapping(t *testing.T) {
	t.Parallel()

	text := "Hi {{user}},\n{{#if {{getvar::x}}}}yes{{/if}} {{? 1+1}}"
	tokens, errs := cbs.Tokenize(text)

	require.Len(t, tokens, 4)
	assert.Empty(t, errs)

	for idx := 1; idx < len(tokens); idx++ {
		assert.LessOrEqual(t, tokens[idx-1].Span.End, tokens[idx].Span.Start)
	}

	assert.Equal(t, "user", tokens[0].Value)
	assert.Equal(t, 0, tokens[0].Line)
	assert.Equal(t, 3, tokens[0].Column)

	assert.Equal(t, cbs.BlockOpen, tokens[1].Kind)
	assert.Equal(t, "if", tokens[1].Value)
	assert.Equal(t, 1, tokens[1].Line)
	assert.Equal(t, 0, tokens[1].Column)
	assert.Equal(t, "{{#if {{getvar::x}}}}", tokens[1].Span.Text(text))

	assert.Equal(t, cbs.BlockClose, tokens[2].Kind)
	assert.Equal(t, cbs.MathExpression, tokens[3].Kind)
	assert.Equal(t, "1+1", tokens[3].Value)
}

func TestTokenize_Unclosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantKind  cbs.TokenKind
		wantValue string
		wantErr   cbs.ErrorKind
		wantMsg   string
	}{
		{
			name:      "function",
			text:      "{{getvar::x",
			wantKind:  cbs.FunctionCall,
			wantValue: "getvar::x",
			wantErr:   cbs.ErrUnclosedFunction,
			wantMsg:   "Unclosed function call",
		},
		{
			name:      "block open",
			text:      "{{#if x",
			wantKind:  cbs.BlockOpen,
			wantValue: "if",
			wantErr:   cbs.ErrUnclosedBlockOpen,
			wantMsg:   "Unclosed block open tag: {{#if}}",
		},
		{
			name:      "block close",
			text:      "{{/if",
			wantKind:  cbs.BlockClose,
			wantValue: "if",
			wantErr:   cbs.ErrUnclosedBlockClose,
			wantMsg:   "Unclosed block close tag: {{/if}}",
		},
		{
			name:      "math",
			text:      "{{? 1 +",
			wantKind:  cbs.MathExpression,
			wantValue: "1 +",
			wantErr:   cbs.ErrUnclosedMath,
			wantMsg:   "Unclosed math expression",
		},
		{
			name:      "bare opener",
			text:      "{{",
			wantKind:  cbs.FunctionCall,
			wantValue: "",
			wantErr:   cbs.ErrUnclosedFunction,
			wantMsg:   "Unclosed function call",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, errs := cbs.Tokenize(tt.text)
			require.Len(t, tokens, 1)
			require.Len(t, errs, 1)

			assert.Equal(t, tt.wantKind, tokens[0].Kind)
			assert.Equal(t, tt.wantValue, tokens[0].Value)
			assert.Equal(t, len(tt.text), tokens[0].Span.End, "unclosed token spans to end of text")
			assert.Equal(t, tt.wantErr, errs[0].Kind)
			assert.Equal(t, tt.wantMsg, errs[0].Message)
			assert.Equal(t, cbs.SeverityError, errs[0].Severity)
		})
	}
}

func TestTokenize_UnclosedSwallowsLaterExpressions(t *testing.T) {
	t.Parallel()

	tokens, errs := cbs.Tokenize("{{a:: {{b}} {{c}}")
	require.Len(t, tokens, 1)
	require.Len(t, errs, 1)
	assert.Equal(t, "a:: {{b}} {{c}}", tokens[0].Value)
}
