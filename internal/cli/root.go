// Package cli provides the Cobra command structure for gocbs.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	color      string
	verbose    bool
	debug      bool
	quiet      bool
}

// logLevel returns the charmbracelet/log level selected by the flags.
func (g *globalFlags) logLevel() string {
	switch {
	case g.debug, g.verbose:
		return "debug"
	case g.quiet:
		return "error"
	default:
		return "info"
	}
}

// lspVerbosity returns the commonlog verbosity selected by the flags.
func (g *globalFlags) lspVerbosity() int {
	switch {
	case g.debug:
		return 2
	case g.verbose:
		return 1
	default:
		return 0
	}
}

// NewRootCommand creates the root gocbs command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "gocbs",
		Short:   "Tooling for CBS template files",
		Version: info.Version,
		Long: `gocbs checks, formats and explains CBS ("curly-brace syntax") template
files. It finds unbalanced {{ }} expressions and mismatched {{#block}}
tags, reindents nested blocks, and serves completion, hover and signature
help to editors over the language server protocol.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.SetLevel(flags.logLevel())
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), flags.logLevel())
			ctx := logging.WithLogger(cmd.Context(), logger)
			cmd.SetContext(logging.With(ctx, logging.FieldCommand, cmd.Name()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to config file")
	pf.StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "only log errors")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "debug")

	// Add subcommands.
	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newFmtCommand(flags))
	rootCmd.AddCommand(newLSPCommand(flags, info))
	rootCmd.AddCommand(newFunctionsCommand(flags))
	rootCmd.AddCommand(newContextCommand())
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
