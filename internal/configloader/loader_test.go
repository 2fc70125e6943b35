package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/config"
)

// isolatedOptions ignores everything outside dir.
func isolatedOptions(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

// newRepo creates a temporary directory that is a VCS root.
func newRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolatedOptions(newRepo(t)))
	require.NoError(t, err)

	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Warnings)
}

func TestLoad_ProjectConfigUpward(t *testing.T) {
	t.Parallel()

	root := newRepo(t)
	writeFile(t, filepath.Join(root, ".gocbs.yml"), `
format:
  indent_size: 2
  indent_style: tab
rules:
  unclosed-block:
    severity: warning
`)
	sub := filepath.Join(root, "prompts", "chars")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolatedOptions(sub))
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, ".gocbs.yml")}, result.LoadedFrom)
	assert.Equal(t, 2, result.Config.Format.IndentSize)
	assert.Equal(t, config.IndentTab, result.Config.Format.IndentStyle)
	assert.True(t, config.Bool(result.Config.Format.PreserveMarkdown, false))

	require.Contains(t, result.Config.Rules, "CBS004")
	assert.Equal(t, "warning", *result.Config.Rules["CBS004"].Severity)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".gocbs.yml"), "jobs: 2\n")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	found, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	root := newRepo(t)
	writeFile(t, filepath.Join(root, ".gocbs.yml"), "jobs: 2\n")
	explicit := filepath.Join(t.TempDir(), "custom.yml")
	writeFile(t, explicit, "output:\n  format: json\n")

	opts := isolatedOptions(root)
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{explicit}, result.LoadedFrom)
	assert.Equal(t, config.FormatJSON, result.Config.Output.Format)
	assert.Zero(t, result.Config.Jobs)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	t.Parallel()

	opts := isolatedOptions(newRepo(t))
	opts.ExplicitPath = filepath.Join(t.TempDir(), "nope.yml")

	_, err := Load(context.Background(), opts)
	require.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	root := newRepo(t)
	writeFile(t, filepath.Join(root, ".gocbs.yml"), "jobs: 2\nfiles:\n  hidden: true\n")

	opts := isolatedOptions(root)
	opts.CLIConfig = &config.Config{
		Jobs:  8,
		Write: true,
		Files: config.FilesConfig{Ignore: []string{"vendor/**"}},
	}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Config.Jobs)
	assert.True(t, result.Config.Write)
	assert.True(t, config.Bool(result.Config.Files.Hidden, false))
	assert.Equal(t, []string{"vendor/**"}, result.Config.Files.Ignore)
	assert.Equal(t, []string{config.ExtCBS, config.ExtRisum}, result.Config.Files.Extensions)
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown key", content: "flavor: gfm\n", want: "flavor"},
		{name: "bad indent style", content: "format:\n  indent_style: mixed\n", want: "format.indent_style"},
		{name: "bad severity", content: "rules:\n  CBS001:\n    severity: fatal\n", want: "rules.CBS001.severity"},
		{name: "bad output format", content: "output:\n  format: xml\n", want: "output.format"},
		{name: "negative jobs", content: "jobs: -1\n", want: "jobs"},
		{name: "bad extension", content: "files:\n  extensions: [cbs]\n", want: "files.extensions[0]"},
		{name: "bad glob", content: "files:\n  ignore: ['[']\n", want: "files.ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := newRepo(t)
			path := filepath.Join(root, ".gocbs.yml")
			writeFile(t, path, tt.content)

			_, err := Load(context.Background(), isolatedOptions(root))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolatedOptions(newRepo(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_NormalizesRuleKeys(t *testing.T) {
	t.Parallel()

	root := newRepo(t)
	writeFile(t, filepath.Join(root, ".gocbs.yml"), `
rules:
  unknown-function:
    enabled: true
  cbs006:
    enabled: true
  no-such-rule:
    enabled: false
`)

	result, err := Load(context.Background(), isolatedOptions(root))
	require.NoError(t, err)

	assert.Contains(t, result.Config.Rules, "CBS005")
	assert.Contains(t, result.Config.Rules, "CBS006")
	assert.Contains(t, result.Config.Rules, "no-such-rule")
	assert.NotContains(t, result.Config.Rules, "unknown-function")

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `unknown rule "no-such-rule"`)
}

func TestLoad_WarnsDuplicateRules(t *testing.T) {
	t.Parallel()

	root := newRepo(t)
	writeFile(t, filepath.Join(root, ".gocbs.yml"), `
rules:
  CBS004:
    severity: info
  unclosed-block:
    severity: warning
`)

	result, err := Load(context.Background(), isolatedOptions(root))
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "duplicate rule configuration")
	assert.Equal(t, "warning", *result.Config.Rules["CBS004"].Severity)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"GOCBS_FORMAT":      "sarif",
		"GOCBS_JOBS":        "3",
		"GOCBS_IGNORE":      "a/**, b/*.cbs ,",
		"GOCBS_HIDDEN":      "1",
		"GOCBS_INDENT_SIZE": "2",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := config.NewConfig()
	require.NoError(t, loadFromLookup(cfg, lookup))

	assert.Equal(t, config.FormatSARIF, cfg.Output.Format)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, []string{"a/**", "b/*.cbs"}, cfg.Files.Ignore)
	assert.True(t, config.Bool(cfg.Files.Hidden, false))
	assert.Equal(t, 2, cfg.Format.IndentSize)
}

func TestLoadFromEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"GOCBS_JOBS":   "many",
		"GOCBS_HIDDEN": "perhaps",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Parallel()

			lookup := func(k string) (string, bool) {
				if k == key {
					return value, true
				}
				return "", false
			}
			err := loadFromLookup(config.NewConfig(), lookup)
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Rules["CBS001"] = config.RuleConfig{Enabled: config.Ptr(false), Severity: config.Ptr("info")}

	override := &config.Config{
		Format: config.FormatConfig{AlignArguments: config.Ptr(true)},
		Rules:  map[string]config.RuleConfig{"CBS001": {Enabled: config.Ptr(true)}},
	}

	merged := MergeAll(base, override)

	assert.True(t, config.Bool(merged.Format.AlignArguments, false))
	assert.Equal(t, 4, merged.Format.IndentSize)
	assert.True(t, *merged.Rules["CBS001"].Enabled)
	assert.Equal(t, "info", *merged.Rules["CBS001"].Severity)

	// Inputs are not mutated.
	assert.False(t, *base.Rules["CBS001"].Enabled)
	assert.False(t, config.Bool(base.Format.AlignArguments, true))
}
