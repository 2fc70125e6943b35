package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/runner"
)

// FormatSummaryOneLine formats check statistics as a single line, e.g.
// "3 issues (2 errors, 1 warning) in 2 files, 5 files checked".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed,
				plural(stats.FilesProcessed, "file", "files"))) + "\n"
	}

	var parts []string
	if stats.DiagnosticsTotal > 0 {
		var bySeverity []string
		if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
			bySeverity = append(bySeverity, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
		}
		if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
			bySeverity = append(bySeverity, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
		}
		if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
			bySeverity = append(bySeverity, s.Info.Render(fmt.Sprintf("%d info", n)))
		}

		total := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
		if len(bySeverity) > 0 {
			total += " (" + strings.Join(bySeverity, ", ") + ")"
		}
		parts = append(parts, total+fmt.Sprintf(" in %d %s", stats.FilesWithIssues,
			plural(stats.FilesWithIssues, "file", "files")))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s could not be read",
			stats.FilesErrored, plural(stats.FilesErrored, "file", "files"))))
	}
	parts = append(parts, s.Dim.Render(fmt.Sprintf("%d %s checked", stats.FilesProcessed,
		plural(stats.FilesProcessed, "file", "files"))))

	return strings.Join(parts, ", ") + "\n"
}

// FormatFormatSummary summarizes a fmt run.
func (s *Styles) FormatFormatSummary(stats runner.Stats, wrote bool) string {
	var parts []string
	switch {
	case stats.FilesChanged == 0:
		parts = append(parts, s.Success.Render("All files formatted"))
	case wrote:
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d %s formatted",
			stats.FilesWritten, plural(stats.FilesWritten, "file", "files"))))
	default:
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s would be reformatted",
			stats.FilesChanged, plural(stats.FilesChanged, "file", "files"))))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	return strings.Join(parts, ", ") + "\n"
}
