package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/runner"
)

func makeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, files []string) []string {
	t.Helper()

	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"b.cbs":                    "{{user}}",
		"a.risum":                  "{{char}}",
		"notes.txt":                "plain",
		"prompts/deep/c.CBS":       "{{user}}",
		".hidden/d.cbs":            "x",
		".e.cbs":                   "x",
		"node_modules/pkg/f.cbs":   "x",
		"build/generated/skip.cbs": "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"build/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.risum", "b.cbs", "prompts/deep/c.CBS"}, relAll(t, root, files))
}

func TestDiscover_Hidden(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		".hidden/d.cbs": "x",
		"a.cbs":         "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: root, Hidden: true})
	require.NoError(t, err)
	assert.Equal(t, []string{".hidden/d.cbs", "a.cbs"}, relAll(t, root, files))
}

func TestDiscover_ExplicitFiles(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"notes.txt":  "{{user}}",
		"readme.md":  "# hi",
		"prompt.cbs": "{{user}}",
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "blob.txt"), []byte{0, 1, 2, 0, 255, 0}, 0o644))

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: root,
		Paths:      []string{"notes.txt", "readme.md", "blob.txt", "prompt.cbs", "prompt.cbs", "."},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt", "prompt.cbs"}, relAll(t, root, files))
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"nope"},
	})
	require.Error(t, err)
}

func TestDiscover_IgnoreBaseName(t *testing.T) {
	t.Parallel()

	root := makeTree(t, map[string]string{
		"keep.cbs":        "x",
		"sub/draft.cbs":   "x",
		"sub/final.risum": "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"draft*"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.cbs", "sub/final.risum"}, relAll(t, root, files))
}
