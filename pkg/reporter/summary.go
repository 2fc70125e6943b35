package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/gocbs/internal/ui/pretty"
	"github.com/yaklabco/gocbs/pkg/analysis"
	"github.com/yaklabco/gocbs/pkg/runner"
)

// SummaryReporter writes issue counts aggregated by rule and by file.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	report := analysis.Analyze(result, analysis.Options{
		SortBy:     r.opts.SortBy,
		WorkingDir: r.opts.WorkingDir,
	})

	if len(report.ByRule) > 0 {
		rows := make([][]string, 0, len(report.ByRule))
		for _, rule := range report.ByRule {
			rows = append(rows, append([]string{rule.RuleID, rule.RuleName}, countCells(rule.Counts)...))
		}
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Rules"))
		fmt.Fprintln(r.bw, r.table([]string{"ID", "Rule"}, rows, 2))
		fmt.Fprintln(r.bw)
	}

	if len(report.ByFile) > 0 {
		rows := make([][]string, 0, len(report.ByFile))
		for _, file := range report.ByFile {
			rows = append(rows, append([]string{file.Path}, countCells(file.Counts)...))
		}
		fmt.Fprintln(r.bw, r.styles.Bold.Render("Files"))
		fmt.Fprintln(r.bw, r.table([]string{"File"}, rows, 1))
		fmt.Fprintln(r.bw)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return report.Totals.Issues, nil
}

// table renders rows under the label headers followed by the count
// columns. Count columns start at index numeric and are right-aligned.
func (r *SummaryReporter) table(labels []string, rows [][]string, numeric int) string {
	headers := append(append([]string(nil), labels...), "Issues", "Errors", "Warnings", "Info")

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.styles.Dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Inherit(r.styles.Bold)
			}
			if col >= numeric {
				style = style.Align(lipgloss.Right)
			}
			if col == numeric+1 && rows[row][col] != "0" {
				return style.Inherit(r.styles.Error)
			}
			return style
		})

	return t.String()
}

func countCells(c analysis.Counts) []string {
	return []string{
		strconv.Itoa(c.Issues),
		strconv.Itoa(c.Errors),
		strconv.Itoa(c.Warnings),
		strconv.Itoa(c.Infos),
	}
}
