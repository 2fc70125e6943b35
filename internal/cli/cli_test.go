package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/internal/cli"
)

var testInfo = cli.BuildInfo{
	Version: "1.2.3",
	Commit:  "abc123",
	Date:    "2026-01-01",
}

// execute runs the root command with args and returns stdout and the
// command error. An empty config file isolates the run from any project
// configuration.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeFull(t, stdin, args...)
	return stdout, err
}

// executeFull is execute that also returns stderr.
func executeFull(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cfgFile := filepath.Join(t.TempDir(), "gocbs.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("jobs: 2\n"), 0o600))

	cmd := cli.NewRootCommand(testInfo)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgFile, "--color", "never"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	assert.Equal(t, "gocbs", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"check", "fmt", "lsp", "functions", "context", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "color", "verbose", "debug", "quiet"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(cli.ErrIssuesFound))
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(errors.Join(errors.New("wrapped"), cli.ErrIssuesFound)))
	assert.Equal(t, cli.ExitError, cli.ExitCode(errors.New("boom")))
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeFile(t, dir, "good.cbs", "{{#if {{getvar::x}}}}ok{{/if}}\n")
	bad := writeFile(t, dir, "bad.cbs", "{{#if x}}broken\n")

	t.Run("clean file", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "check", good)
		require.NoError(t, err)
		assert.Contains(t, out, "No issues found")
	})

	t.Run("diagnostics set exit code 1", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "check", bad)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Equal(t, cli.ExitIssues, cli.ExitCode(err))
		assert.Contains(t, out, "CBS004")
		assert.Contains(t, out, "1 issue")
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "check", dir)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, "2 files checked")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "check", "--format", "json", bad)
		require.ErrorIs(t, err, cli.ErrIssuesFound)

		var doc struct {
			Summary struct {
				TotalIssues int `json:"totalIssues"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, 1, doc.Summary.TotalIssues)
	})

	t.Run("summary", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "check", "--format", "summary", "--sort", "alpha", dir)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, "unclosed-block")
	})

	t.Run("disabled rule", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "check", "--disable", "unclosed-block", bad)
		require.NoError(t, err)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "check", "--format", "xml", bad)
		require.Error(t, err)
		assert.Equal(t, cli.ExitError, cli.ExitCode(err))
	})

	t.Run("invalid sort", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "check", "--sort", "size", bad)
		require.Error(t, err)
		assert.Equal(t, cli.ExitError, cli.ExitCode(err))
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "check", filepath.Join(dir, "nope.cbs"))
		assert.Equal(t, cli.ExitError, cli.ExitCode(err))
	})
}

func TestCheck_LogsThroughCommandLogger(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.cbs", "{{user}}\n")

	_, stderr, err := executeFull(t, "", "--debug", "check", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "starting check")
	assert.Contains(t, stderr, "command=check")

	_, stderr, err = executeFull(t, "", "check", path)
	require.NoError(t, err)
	assert.NotContains(t, stderr, "starting check")
}

func TestCheck_Stdin(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "text {{/if}}", "check", "-")
	require.ErrorIs(t, err, cli.ErrIssuesFound)
	assert.Contains(t, out, "<stdin>")
	assert.Contains(t, out, "CBS002")

	_, err = execute(t, "{{user}}", "check", "--watch", "-")
	require.Error(t, err)
}

func TestFmt(t *testing.T) {
	t.Parallel()

	const unformatted = "{{#if x}}\nok\n{{/if}}\n"

	t.Run("lists files that would change", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.cbs", unformatted)

		out, err := execute(t, "", "fmt", path)
		require.NoError(t, err)
		assert.Contains(t, out, "a.cbs")

		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, unformatted, string(content))
	})

	t.Run("check", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.cbs", unformatted)

		_, err := execute(t, "", "fmt", "--check", path)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
	})

	t.Run("write", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.cbs", unformatted)

		_, err := execute(t, "", "fmt", "--write", path)
		require.NoError(t, err)

		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Contains(t, string(content), "\n    ok\n")

		_, err = execute(t, "", "fmt", "--check", path)
		require.NoError(t, err)
	})

	t.Run("diff", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.cbs", unformatted)

		out, err := execute(t, "", "fmt", "--diff", path)
		require.NoError(t, err)
		assert.Contains(t, out, "-ok")
		assert.Contains(t, out, "+    ok")
	})

	t.Run("parse errors are skipped", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), "a.cbs", "{{#if x}}\nok\n")

		_, err := execute(t, "", "fmt", "--write", path)
		require.ErrorIs(t, err, cli.ErrIssuesFound)

		content, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, "{{#if x}}\nok\n", string(content))
	})

	t.Run("stdin", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, unformatted, "fmt", "-")
		require.NoError(t, err)
		assert.Contains(t, out, "{{#if x}}\n    ok\n{{/if}}")
	})

	t.Run("write and check conflict", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "fmt", "--write", "--check", "-")
		require.Error(t, err)
	})
}

func TestFunctions(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "functions")
		require.NoError(t, err)
		assert.Contains(t, out, "getvar")
		assert.Contains(t, out, "Gets a chat variable.")
	})

	t.Run("list json by category", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "functions", "list", "--category", "variable", "--format", "json")
		require.NoError(t, err)

		var fns []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &fns))
		require.NotEmpty(t, fns)
		for _, fn := range fns {
			assert.Equal(t, "variable", fn.Category)
		}
	})

	t.Run("show", func(t *testing.T) {
		t.Parallel()
		out, err := execute(t, "", "functions", "show", "GETVAR")
		require.NoError(t, err)
		assert.Contains(t, out, "getvar")
		assert.Contains(t, out, "Arguments:")
		assert.Contains(t, out, "{{getvar::score}}")
		assert.NotContains(t, out, "**")
	})

	t.Run("show unknown", func(t *testing.T) {
		t.Parallel()
		_, err := execute(t, "", "functions", "show", "no-such-function")
		require.ErrorIs(t, err, cli.ErrUnknownFunction)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.cbs", "{{getvar::x}}")

	out, err := execute(t, "", "context", path, "--offset", "10", "--signature", "--hover", "--brackets")
	require.NoError(t, err)

	var doc struct {
		Position struct {
			Line   int `json:"line"`
			Column int `json:"column"`
		} `json:"position"`
		Cursor struct {
			InsideExpression bool   `json:"insideExpression"`
			FunctionName     string `json:"functionName"`
		} `json:"cursor"`
		Call *struct {
			FunctionName    string `json:"functionName"`
			ActiveParameter int    `json:"activeParameter"`
		} `json:"call"`
		Brackets *struct {
			Level int `json:"level"`
		} `json:"brackets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 10, doc.Position.Column)
	assert.True(t, doc.Cursor.InsideExpression)
	assert.Equal(t, "getvar", doc.Cursor.FunctionName)
	require.NotNil(t, doc.Call)
	assert.Equal(t, "getvar", doc.Call.FunctionName)
	assert.Equal(t, 0, doc.Call.ActiveParameter)
	require.NotNil(t, doc.Brackets)
	assert.Equal(t, 0, doc.Brackets.Level)
}

func TestContext_Errors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "a.cbs", "{{user}}")

	_, err := execute(t, "", "context", path, "--offset", "99")
	require.ErrorIs(t, err, cli.ErrInvalidPosition)

	_, err = execute(t, "", "context", path)
	require.Error(t, err)

	out, err := execute(t, "{{user}}", "context", "-", "--line", "0", "--column", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"<stdin>"`)
}

func TestRules(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "rules", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		ID      string `json:"id"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))

	enabled := make(map[string]bool)
	for _, r := range rules {
		enabled[r.ID] = r.Enabled
	}
	assert.True(t, enabled["CBS001"])
	assert.True(t, enabled["CBS004"])
	assert.False(t, enabled["CBS005"])
}

func TestInit(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".gocbs.yml")

	_, err := execute(t, "", "init", "--output", target)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(content), "indent_size: 4")
	assert.Contains(t, string(content), "CBS001:")

	_, err = execute(t, "", "init", "--output", target)
	require.ErrorIs(t, err, cli.ErrConfigExists)

	_, err = execute(t, "", "init", "--output", target, "--force")
	require.NoError(t, err)

	// The generated file must load cleanly.
	_, err = execute(t, "", "--config", target, "rules", "--format", "json")
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc123")
}

func TestHelp(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "check", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "--format")
	assert.Contains(t, out, "Global Flags:")
	assert.NotContains(t, out, "\x1b[")
}
