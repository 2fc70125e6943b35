package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/pkg/analysis"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/fsutil"
	"github.com/yaklabco/gocbs/pkg/funcs"
	"github.com/yaklabco/gocbs/pkg/lint"
	"github.com/yaklabco/gocbs/pkg/reporter"
	"github.com/yaklabco/gocbs/pkg/runner"
)

// stdinName is how standard input is reported.
const stdinName = "<stdin>"

type checkFlags struct {
	format    string
	jobs      int
	ignore    []string
	enable    []string
	disable   []string
	watch     bool
	noContext bool
	compact   bool
	sortBy    string
}

// cliConfig converts the flags that were explicitly set into a config
// layer.
func (f *checkFlags) cliConfig(cmd *cobra.Command) *config.Config {
	cfg := &config.Config{}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = config.OutputFormat(f.format)
	}
	cfg.Jobs = f.jobs
	cfg.Files.Ignore = f.ignore
	if len(f.enable) > 0 || len(f.disable) > 0 {
		cfg.Rules = make(map[string]config.RuleConfig, len(f.enable)+len(f.disable))
		for _, key := range f.enable {
			cfg.Rules[key] = config.RuleConfig{Enabled: config.Ptr(true)}
		}
		for _, key := range f.disable {
			cfg.Rules[key] = config.RuleConfig{Enabled: config.Ptr(false)}
		}
	}
	if f.noContext {
		cfg.Output.ContextLines = config.Ptr(-1)
	}
	return cfg
}

func newCheckCommand(gflags *globalFlags) *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check CBS files for syntax errors",
		Long: `Check CBS template files for unclosed expressions, unexpected or
mismatched block closes, and unclosed blocks.

By default, checks all .cbs and .risum files under the current directory.
Files with other extensions (such as .txt) are checked when named directly.
Use "-" to read a single document from standard input.

Examples:
  gocbs check                     # Check the current directory
  gocbs check prompts/            # Check a directory
  gocbs check card.cbs            # Check a single file
  gocbs check --format json       # Output as JSON for CI
  gocbs check --format summary    # Issue counts by rule and file
  gocbs check --watch             # Re-check whenever files change
  cat card.cbs | gocbs check -    # Check standard input`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, gflags, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, summary")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check when files change")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write JSON and SARIF without indentation")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByCount),
		"summary table order: count, alpha, severity")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, gflags *globalFlags, flags *checkFlags) error {
	cfg, workDir, err := loadConfig(cmd, gflags, flags.cliConfig(cmd))
	if err != nil {
		return err
	}

	format, err := reporter.ParseFormat(string(cfg.Output.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if format == reporter.FormatDiff {
		// Diffs only describe formatting; "gocbs fmt --diff" produces them.
		format = reporter.FormatText
	}

	sortBy := analysis.SortField(flags.sortBy)
	switch sortBy {
	case analysis.SortByCount, analysis.SortByAlpha, analysis.SortBySeverity:
	default:
		return fmt.Errorf("invalid sort %q: must be count, alpha or severity", flags.sortBy)
	}

	session := &checkSession{
		runner:  newRunner(),
		cfg:     cfg,
		workDir: workDir,
		paths:   args,
		in:      cmd.InOrStdin(),
		repOpts: reporter.Options{
			Writer:       cmd.OutOrStdout(),
			Format:       format,
			Color:        cfg.Output.Color,
			ContextLines: config.Int(cfg.Output.ContextLines, 1),
			ShowSummary:  true,
			Compact:      flags.compact,
			WorkingDir:   workDir,
			Rules:        lint.DefaultRegistry.Rules(),
			Version:      versionString(cmd),
			SortBy:       sortBy,
		},
	}

	if flags.watch {
		if isStdin(args) {
			return fmt.Errorf("--watch cannot be used with standard input")
		}
		return watchAndCheck(cmd.Context(), session)
	}

	result, err := session.run(cmd.Context())
	if err != nil {
		return err
	}
	return checkOutcome(result)
}

// checkSession holds everything needed to check and report once. Watch
// mode reuses it for every re-run.
type checkSession struct {
	runner  *runner.Runner
	cfg     *config.Config
	workDir string
	paths   []string
	in      io.Reader
	repOpts reporter.Options
}

func (s *checkSession) options() runner.Options {
	opts := runner.OptionsFromConfig(s.cfg, s.paths, lint.ModeCheck)
	opts.WorkingDir = s.workDir
	return opts
}

func (s *checkSession) run(ctx context.Context) (*runner.Result, error) {
	logger := logging.FromContext(ctx)
	opts := s.options()

	logger.Debug("starting check",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
	)

	var (
		result *runner.Result
		err    error
	)
	if isStdin(s.paths) {
		result, err = s.runner.RunReader(ctx, stdinName, s.in, opts)
	} else {
		result, err = s.runner.Run(ctx, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("check run failed: %w", err)
	}

	logger.Debug("check finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	rep, err := reporter.New(s.repOpts)
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return nil, fmt.Errorf("report results: %w", err)
	}
	return result, nil
}

// checkOutcome maps a finished run to the command error.
func checkOutcome(result *runner.Result) error {
	if result.Stats.FilesErrored > 0 {
		return fmt.Errorf("%d file(s) could not be processed", result.Stats.FilesErrored)
	}
	if result.HasIssues() {
		return ErrIssuesFound
	}
	return nil
}

func newRunner() *runner.Runner {
	engine := lint.NewEngine(lint.DefaultRegistry, funcs.Default())
	return runner.New(lint.NewPipeline(engine))
}

func isStdin(paths []string) bool {
	return len(paths) == 1 && paths[0] == fsutil.StdinPath
}

// versionString returns the root command's version annotation, or "dev".
func versionString(cmd *cobra.Command) string {
	if v := cmd.Root().Version; v != "" {
		return v
	}
	return "dev"
}
