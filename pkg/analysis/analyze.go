package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/runner"
)

// SortField specifies how ByRule and ByFile are ordered.
type SortField string

const (
	// SortByCount puts the most issues first.
	SortByCount SortField = "count"
	// SortByAlpha sorts by rule ID or path.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts errors first, then warnings.
	SortBySeverity SortField = "severity"
)

// Options configures Analyze.
type Options struct {
	SortBy SortField

	// WorkingDir makes file paths relative when set.
	WorkingDir string
}

// Analyze aggregates result in a single pass over its diagnostics. Ties
// in every ordering fall back to rule ID or path.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{}
	if result == nil {
		return report
	}

	rules := make(map[string]*RuleAnalysis)
	files := make(map[string]*FileAnalysis)
	ruleFiles := make(map[string]map[string]bool)
	fileRules := make(map[string]map[string]bool)

	for _, file := range result.Files {
		report.Totals.Files++
		if file.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		if file.Result == nil || file.Result.FileResult == nil || len(file.Result.Diagnostics) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := relative(opts.WorkingDir, file.Path)
		fa := &FileAnalysis{Path: path}
		files[path] = fa
		fileRules[path] = make(map[string]bool)

		for _, diag := range file.Result.Diagnostics {
			ra, ok := rules[diag.RuleID]
			if !ok {
				ra = &RuleAnalysis{RuleID: diag.RuleID, RuleName: diag.RuleName}
				rules[diag.RuleID] = ra
				ruleFiles[diag.RuleID] = make(map[string]bool)
			}

			fa.add(diag.Severity)
			ra.add(diag.Severity)
			report.Totals.add(diag.Severity)

			ruleFiles[diag.RuleID][path] = true
			fileRules[path][diag.RuleID] = true
		}
	}

	for id, ra := range rules {
		ra.Files = sortedKeys(ruleFiles[id])
		report.ByRule = append(report.ByRule, *ra)
	}
	for path, fa := range files {
		fa.Rules = sortedKeys(fileRules[path])
		report.ByFile = append(report.ByFile, *fa)
	}

	slices.SortFunc(report.ByRule, func(a, b RuleAnalysis) int {
		return compareCounts(opts.SortBy, a.Counts, b.Counts, a.RuleID, b.RuleID)
	})
	slices.SortFunc(report.ByFile, func(a, b FileAnalysis) int {
		return compareCounts(opts.SortBy, a.Counts, b.Counts, a.Path, b.Path)
	})

	return report
}

func (c *Counts) add(sev config.Severity) {
	c.Issues++
	switch sev {
	case config.SeverityError:
		c.Errors++
	case config.SeverityWarning:
		c.Warnings++
	case config.SeverityInfo:
		c.Infos++
	}
}

func compareCounts(sortBy SortField, a, b Counts, keyA, keyB string) int {
	var result int
	switch sortBy {
	case SortByAlpha:
	case SortBySeverity:
		result = cmp.Or(
			cmp.Compare(b.Errors, a.Errors),
			cmp.Compare(b.Warnings, a.Warnings),
			cmp.Compare(b.Issues, a.Issues),
		)
	default:
		result = cmp.Compare(b.Issues, a.Issues)
	}
	return cmp.Or(result, cmp.Compare(keyA, keyB))
}

func relative(workDir, path string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
