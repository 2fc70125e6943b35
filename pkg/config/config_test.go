package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/config"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, 4, cfg.Format.IndentSize)
	assert.Equal(t, config.IndentSpace, cfg.Format.IndentStyle)
	assert.True(t, config.Bool(cfg.Format.PreserveMarkdown, false))
	assert.False(t, config.Bool(cfg.Format.AlignArguments, true))
	assert.Equal(t, []string{".cbs", ".risum"}, cfg.Files.Extensions)
	assert.Equal(t, config.FormatText, cfg.Output.Format)
	assert.Equal(t, 1, config.Int(cfg.Output.ContextLines, 0))
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses sections", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
format:
  indent_size: 2
  indent_style: tab
rules:
  CBS004:
    severity: warning
files:
  ignore: ["build/**"]
jobs: 3
`))
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Format.IndentSize)
		assert.Equal(t, config.IndentTab, cfg.Format.IndentStyle)
		require.Contains(t, cfg.Rules, "CBS004")
		assert.Equal(t, "warning", *cfg.Rules["CBS004"].Severity)
		assert.Equal(t, []string{"build/**"}, cfg.Files.Ignore)
		assert.Equal(t, 3, cfg.Jobs)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("flavor: gfm\n"))
		require.Error(t, err)
	})
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	original := config.NewConfig()
	original.Rules["CBS001"] = config.RuleConfig{Severity: config.Ptr("warning")}
	original.Files.Ignore = []string{"a/**"}

	clone := original.Clone()
	*clone.Rules["CBS001"].Severity = "info"
	clone.Files.Ignore[0] = "b/**"
	*clone.Format.PreserveMarkdown = false

	assert.Equal(t, "warning", *original.Rules["CBS001"].Severity)
	assert.Equal(t, "a/**", original.Files.Ignore[0])
	assert.True(t, *original.Format.PreserveMarkdown)
}

func TestToYAML_RoundTrip(t *testing.T) {
	t.Parallel()

	original := config.NewConfig()
	original.Jobs = 2
	original.Write = true

	data, err := original.ToYAML()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "write")

	parsed, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.Jobs)
	assert.False(t, parsed.Write)
	assert.Equal(t, original.Format, parsed.Format)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	out := config.GenerateTemplate([]config.RuleInfo{
		{ID: "CBS001", Name: "unclosed-expression", Description: "Expression never closed.", Severity: config.SeverityError, Enabled: true},
		{ID: "CBS005", Name: "unknown-function", Description: "Unknown function.", Severity: config.SeverityInfo},
	})

	cfg, err := config.FromYAML(out)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Format.IndentSize)
	require.Contains(t, cfg.Rules, "CBS001")
	assert.Equal(t, "error", *cfg.Rules["CBS001"].Severity)
	assert.True(t, *cfg.Rules["CBS001"].Enabled)
	assert.False(t, *cfg.Rules["CBS005"].Enabled)
	assert.Contains(t, string(out), "# unclosed-expression: Expression never closed.")
}
