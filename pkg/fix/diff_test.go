package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/fix"
)

func TestCompute_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.Compute("a.cbs", "x\ny\n", "x\ny\n"))
	assert.False(t, fix.Compute("a.cbs", "", "").HasChanges())
}

func TestCompute_SingleChange(t *testing.T) {
	t.Parallel()

	d := fix.Compute("/tmp/a.cbs", "{{#if a}}\nx\n{{/if}}\n", "{{#if a}}\n    x\n{{/if}}\n")
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	assert.Equal(t, "--- a/tmp/a.cbs\n+++ b/tmp/a.cbs\n"+
		"@@ -1,3 +1,3 @@\n"+
		" {{#if a}}\n"+
		"-x\n"+
		"+    x\n"+
		" {{/if}}\n", d.String())
}

func TestCompute_SeparateHunks(t *testing.T) {
	t.Parallel()

	orig := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n"
	mod := "one\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\ntwelve\n"

	d := fix.Compute("f", orig, mod)
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 2)

	assert.Equal(t, 1, d.Hunks[0].OrigStart)
	assert.Equal(t, 4, d.Hunks[0].OrigCount)
	assert.Equal(t, 9, d.Hunks[1].OrigStart)
	assert.Equal(t, 4, d.Hunks[1].OrigCount)
	assert.Equal(t, 9, d.Hunks[1].ModStart)
}
