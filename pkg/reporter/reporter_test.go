package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/funcs"
	"github.com/yaklabco/gocbs/pkg/lint"
	"github.com/yaklabco/gocbs/pkg/reporter"
	"github.com/yaklabco/gocbs/pkg/runner"
)

func process(t *testing.T, path, text string, mode lint.Mode) *lint.PipelineResult {
	t.Helper()

	pipeline := lint.NewPipeline(lint.NewEngine(lint.NewDefaultRegistry(), funcs.Default()))
	opts := lint.PipelineOptionsFromConfig(config.NewConfig(), mode)
	opts.Diff = true

	res, err := pipeline.ProcessContent(context.Background(), path, []byte(text), config.NewConfig(), opts)
	require.NoError(t, err)
	return res
}

func checkResult(t *testing.T) *runner.Result {
	t.Helper()

	bad := process(t, "/work/bad.cbs", "hello\n  {{/if}}", lint.ModeCheck)
	good := process(t, "/work/good.cbs", "{{user}}", lint.ModeCheck)

	return &runner.Result{
		Files: []runner.FileOutcome{
			{Path: "/work/bad.cbs", Result: bad},
			{Path: "/work/good.cbs", Result: good},
			{Path: "/work/gone.cbs", Error: errors.New("file not found")},
		},
		Stats: runner.Stats{
			FilesProcessed:        2,
			FilesErrored:          1,
			FilesWithIssues:       1,
			DiagnosticsTotal:      1,
			DiagnosticsBySeverity: map[config.Severity]int{config.SeverityError: 1},
		},
	}
}

func options(buf *bytes.Buffer, format reporter.Format) reporter.Options {
	opts := reporter.DefaultOptions()
	opts.Writer = buf
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = "/work"
	return opts
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    reporter.Format
		wantErr bool
	}{
		{in: "", want: reporter.FormatText},
		{in: "text", want: reporter.FormatText},
		{in: "json", want: reporter.FormatJSON},
		{in: "sarif", want: reporter.FormatSARIF},
		{in: "diff", want: reporter.FormatDiff},
		{in: "summary", want: reporter.FormatSummary},
		{in: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: "xml"})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(options(&buf, reporter.FormatText))
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), checkResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "bad.cbs")
	assert.Contains(t, out, "bad.cbs:2:3")
	assert.Contains(t, out, "Unexpected block close tag: {{/if}}")
	assert.Contains(t, out, "CBS002")
	assert.Contains(t, out, "gone.cbs: error: file not found")
	assert.NotContains(t, out, "good.cbs")
	assert.NotContains(t, out, "/work/")
	assert.Contains(t, out, "1 issue")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(options(&buf, reporter.FormatText))
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, buf.String(), "No files to check.")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(options(&buf, reporter.FormatJSON))
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), checkResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	require.Len(t, out.Files, 3)
	assert.Equal(t, "bad.cbs", out.Files[0].Path)
	require.Len(t, out.Files[0].Diagnostics, 1)

	d := out.Files[0].Diagnostics[0]
	assert.Equal(t, "CBS002", d.RuleID)
	assert.Equal(t, "unexpected-close", d.RuleName)
	assert.Equal(t, "error", d.Severity)
	assert.Equal(t, 2, d.StartLine)
	assert.Equal(t, 3, d.StartColumn)
	assert.Equal(t, 8, d.StartOffset)
	assert.Equal(t, 15, d.EndOffset)

	assert.Empty(t, out.Files[1].Diagnostics)
	assert.Equal(t, "file not found", out.Files[2].Error)

	assert.Equal(t, 3, out.Summary.FilesChecked)
	assert.Equal(t, 1, out.Summary.FilesWithIssues)
	assert.Equal(t, 1, out.Summary.FilesErrored)
	assert.Equal(t, 1, out.Summary.TotalIssues)
	assert.Equal(t, map[string]int{"error": 1}, out.Summary.BySeverity)
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := options(&buf, reporter.FormatSARIF)
	opts.Rules = lint.DefaultRegistry.Rules()
	opts.Version = "1.2.3"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), checkResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2.1.0", out.Version)
	require.Len(t, out.Runs, 1)

	run := out.Runs[0]
	assert.Equal(t, "gocbs", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, len(opts.Rules))

	require.Len(t, run.Results, 1)
	res := run.Results[0]
	assert.Equal(t, "CBS002", res.RuleID)
	assert.Equal(t, "CBS002", run.Tool.Driver.Rules[res.RuleIndex].ID)
	assert.Equal(t, "error", res.Level)

	loc := res.Locations[0].PhysicalLocation
	assert.Equal(t, "bad.cbs", loc.ArtifactLocation.URI)
	assert.Equal(t, 2, loc.Region.StartLine)
	assert.Equal(t, 8, loc.Region.ByteOffset)
	assert.Equal(t, 7, loc.Region.ByteLength)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	changed := process(t, "/work/a.cbs", "{{#if x}}\nhi\n{{/if}}\n", lint.ModeFormat)
	require.True(t, changed.Changed)

	clean := process(t, "/work/b.cbs", "{{user}}\n", lint.ModeFormat)
	require.False(t, clean.Changed)

	result := &runner.Result{Files: []runner.FileOutcome{
		{Path: "/work/a.cbs", Result: changed},
		{Path: "/work/b.cbs", Result: clean},
	}}

	var buf bytes.Buffer
	rep, err := reporter.New(options(&buf, reporter.FormatDiff))
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "diff --git a/a.cbs b/a.cbs")
	assert.Contains(t, out, "--- a/a.cbs")
	assert.Contains(t, out, "+++ b/a.cbs")
	assert.Contains(t, out, "-hi\n")
	assert.Contains(t, out, "+    hi\n")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-)")
	assert.NotContains(t, out, "b.cbs")
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep, err := reporter.New(options(&buf, reporter.FormatSummary))
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), checkResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out := buf.String()
	assert.Contains(t, out, "Rules")
	assert.Contains(t, out, "CBS002")
	assert.Contains(t, out, "unexpected-close")
	assert.Contains(t, out, "Files")
	assert.Contains(t, out, "bad.cbs")
	assert.NotContains(t, out, "good.cbs")
	assert.Contains(t, out, "1 issue")
}
