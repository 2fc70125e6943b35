package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/internal/lsp"
	"github.com/yaklabco/gocbs/pkg/funcs"
	"github.com/yaklabco/gocbs/pkg/lint"
)

func newLSPCommand(gflags *globalFlags, info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the CBS language server over stdio",
		Long: `Run a language server on standard input and output.

The server publishes diagnostics as documents change and answers
completion, hover, signature help, folding range, formatting and
document highlight requests. Configuration is loaded once at startup
from the working directory; the "lsp" section toggles features.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := logging.NewServer(gflags.logLevel())
			logging.SetDefault(logger)
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))

			cfg, workDir, err := loadConfig(cmd, gflags, nil)
			if err != nil {
				return err
			}

			lsp.ConfigureLogging(gflags.lspVerbosity())
			logger.Info("starting language server",
				logging.FieldVersion, info.Version,
				logging.FieldWorkingDir, workDir,
			)

			server := lsp.New(lsp.Options{
				Config:    cfg,
				Functions: funcs.Default(),
				Rules:     lint.DefaultRegistry,
				Version:   info.Version,
			})
			if err := server.RunStdio(); err != nil {
				return fmt.Errorf("language server: %w", err)
			}
			return nil
		},
	}
}
