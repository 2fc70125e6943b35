package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/internal/ui/pretty"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/lint"
	"github.com/yaklabco/gocbs/pkg/reporter"
	"github.com/yaklabco/gocbs/pkg/runner"
)

type fmtFlags struct {
	write       bool
	diff        bool
	check       bool
	jobs        int
	ignore      []string
	indentSize  int
	indentStyle string
}

func (f *fmtFlags) cliConfig() *config.Config {
	cfg := &config.Config{
		Write: f.write,
		Diff:  f.diff,
		Check: f.check,
		Jobs:  f.jobs,
	}
	cfg.Files.Ignore = f.ignore
	cfg.Format.IndentSize = f.indentSize
	cfg.Format.IndentStyle = f.indentStyle
	return cfg
}

func newFmtCommand(gflags *globalFlags) *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Format CBS files",
		Long: `Reindent CBS template files so each line sits at its block nesting depth.

Without flags, lists the files whose formatting differs. Files with parse
errors are never formatted; they are reported and skipped. Use "-" to
format standard input and print the result.

Examples:
  gocbs fmt                       # List files that would change
  gocbs fmt --write               # Rewrite files in place
  gocbs fmt --diff prompts/       # Show what would change
  gocbs fmt --check               # Exit 1 if anything would change
  gocbs fmt - < card.cbs          # Format standard input`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, gflags, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.write, "write", false, "write formatted content back to files")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff of formatting changes")
	cmd.Flags().BoolVar(&flags.check, "check", false, "exit 1 if any file would be reformatted")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.indentSize, "indent-size", 0, "spaces per nesting level (default from config)")
	cmd.Flags().StringVar(&flags.indentStyle, "indent-style", "", "indent style: space, tab")
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, gflags *globalFlags, flags *fmtFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, workDir, err := loadConfig(cmd, gflags, flags.cliConfig())
	if err != nil {
		return err
	}

	opts := runner.OptionsFromConfig(cfg, args, lint.ModeFormat)
	opts.WorkingDir = workDir

	logger.Debug("starting format",
		logging.FieldPaths, opts.Paths,
		logging.FieldWrite, cfg.Write,
		logging.FieldJobs, opts.Jobs,
	)

	var result *runner.Result
	if isStdin(args) {
		result, err = newRunner().RunReader(ctx, stdinName, cmd.InOrStdin(), opts)
	} else {
		result, err = newRunner().Run(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("format run failed: %w", err)
	}

	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Output.Color, out))

	if err := reportSkipped(ctx, cmd.ErrOrStderr(), cfg, workDir, result); err != nil {
		return err
	}

	switch {
	case cfg.Diff:
		rep := reporter.NewDiffReporter(reporter.Options{
			Writer:     out,
			Color:      cfg.Output.Color,
			WorkingDir: workDir,
		})
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("report diff: %w", err)
		}
	case isStdin(args) && !cfg.Check:
		if err := writeFormatted(out, result); err != nil {
			return err
		}
	default:
		for _, file := range result.Files {
			if file.Result != nil && file.Result.Changed && !file.Result.Written {
				fmt.Fprintln(out, styles.FilePath.Render(relPath(workDir, file.Path)))
			}
		}
		fmt.Fprint(cmd.ErrOrStderr(), styles.FormatFormatSummary(result.Stats, cfg.Write))
	}

	logger.Debug("format finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
	)

	return fmtOutcome(result, cfg)
}

// reportSkipped prints the diagnostics that kept files from being
// formatted.
func reportSkipped(ctx context.Context, w io.Writer, cfg *config.Config, workDir string, result *runner.Result) error {
	skipped := &runner.Result{Stats: result.Stats}
	for _, file := range result.Files {
		if file.Error != nil || (file.Result != nil && file.Result.Skipped) {
			skipped.Files = append(skipped.Files, file)
		}
	}
	if len(skipped.Files) == 0 {
		return nil
	}

	rep := reporter.NewTextReporter(reporter.Options{
		Writer:       w,
		Color:        cfg.Output.Color,
		ContextLines: config.Int(cfg.Output.ContextLines, 1),
		WorkingDir:   workDir,
	})
	if _, err := rep.Report(ctx, skipped); err != nil {
		return fmt.Errorf("report skipped files: %w", err)
	}
	return nil
}

// writeFormatted prints the formatted text of a single stdin document.
// Nothing is printed when it could not be formatted.
func writeFormatted(w io.Writer, result *runner.Result) error {
	if len(result.Files) != 1 {
		return nil
	}
	pr := result.Files[0].Result
	if pr == nil || pr.Skipped {
		return nil
	}
	content := pr.Formatted
	if content == nil {
		content = pr.Content
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write formatted output: %w", err)
	}
	return nil
}

// fmtOutcome maps a finished format run to the command error.
func fmtOutcome(result *runner.Result, cfg *config.Config) error {
	if result.Stats.FilesErrored > 0 {
		return fmt.Errorf("%d file(s) could not be processed", result.Stats.FilesErrored)
	}
	if result.Stats.FilesSkipped > 0 {
		return ErrIssuesFound
	}
	if cfg.Check && result.Stats.FilesChanged > 0 {
		return ErrIssuesFound
	}
	return nil
}

// relPath makes path relative to workDir when it lies inside it.
func relPath(workDir, path string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
