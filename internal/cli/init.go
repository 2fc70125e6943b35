package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocbs/internal/logging"
	"github.com/yaklabco/gocbs/pkg/config"
	"github.com/yaklabco/gocbs/pkg/fsutil"
	"github.com/yaklabco/gocbs/pkg/lint"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// defaultConfigName is the project configuration file written by init.
const defaultConfigName = ".gocbs.yml"

// ErrConfigExists is returned when init would overwrite a file without
// --force.
var ErrConfigExists = errors.New("configuration file already exists")

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gocbs configuration file",
		Long: `Create a .gocbs.yml configuration file in the current directory with
the default settings and every rule listed. Edit it to change formatting,
discovery, output and language server behavior.

Examples:
  gocbs init                      Create .gocbs.yml
  gocbs init --force              Overwrite an existing file
  gocbs init --output ci.yml      Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigName, "Output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	rules := lint.DefaultRegistry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    rule.DefaultSeverity(),
			Enabled:     rule.DefaultEnabled(),
		})
	}

	if err := fsutil.WriteAtomic(cmd.Context(), absPath, config.GenerateTemplate(infos), configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'gocbs rules' to see all available rules")

	return nil
}
