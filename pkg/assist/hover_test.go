package assist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/assist"
	"github.com/yaklabco/gocbs/pkg/cbs"
	"github.com/yaklabco/gocbs/pkg/funcs"
)

func TestHover_Function(t *testing.T) {
	t.Parallel()

	h := assist.NewHoverer(funcs.Default())
	got := h.Hover("Hello {{getvar::x}}", 9)

	require.NotNil(t, got)
	assert.Equal(t, "getvar", got.Function.Name)
	assert.Equal(t, cbs.Span{Start: 8, End: 14}, got.Span)
	assert.True(t, strings.HasPrefix(got.Markdown, "**getvar**\n\n"))
	assert.Contains(t, got.Markdown, "- `name`")
	assert.Contains(t, got.Markdown, "**Example**: `{{getvar::score}}`")
}

func TestHover_BlockOnSecondLine(t *testing.T) {
	t.Parallel()

	got := assist.NewHoverer(funcs.Default()).Hover("a\n{{#if x}}", 5)

	require.NotNil(t, got)
	assert.Equal(t, "#if", got.Function.Name)
	assert.Equal(t, cbs.Span{Start: 5, End: 7}, got.Span)
}

func TestHover_Alias(t *testing.T) {
	t.Parallel()

	got := assist.NewHoverer(funcs.Default()).Hover("{{bot}}", 3)

	require.NotNil(t, got)
	assert.Equal(t, "char", got.Function.Name)
	assert.Contains(t, got.Markdown, "**Aliases**: bot")
}

func TestHover_Nothing(t *testing.T) {
	t.Parallel()

	h := assist.NewHoverer(funcs.Default())
	assert.Nil(t, h.Hover("plain text", 3))
	assert.Nil(t, h.Hover("{{nosuchfunction}}", 4))
}
